package model

// MaxSuggestions caps follow-up questions per assistant message
const MaxSuggestions = 3

// SuggestionSet holds follow-up questions attached to one assistant
// message. It lives in process memory only and is never persisted.
type SuggestionSet struct {
	MessageID MessageID
	Questions []string
}
