package model

// UserID is the opaque identity handed over by the session boundary.
// The core only ever checks presence or absence.
type UserID string
