package model

import "github.com/m-mizutani/goerr/v2"

// Error taxonomy of the sync engine. Operations wrap these sentinels
// with goerr so callers match them with errors.Is while the wrapped
// error keeps the operation context.
var (
	ErrUnauthenticated  = goerr.New("not authenticated")
	ErrValidation       = goerr.New("invalid input")
	ErrNoActiveTopic    = goerr.New("no active topic")
	ErrBusy             = goerr.New("completion already in flight")
	ErrCompletionFailed = goerr.New("completion request failed")
	ErrPartialFailure   = goerr.New("remote mutation partially applied")
	ErrStoreUnavailable = goerr.New("store unavailable")
)
