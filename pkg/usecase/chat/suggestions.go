package chat

import "github.com/kaiwa-dev/kaiwa/pkg/model"

// SuggestionStore maps assistant message IDs to their follow-up
// questions. Entries live for the session only; "active" is not a
// store concept but derived from the latest assistant message.
type SuggestionStore struct {
	sets map[model.MessageID]*model.SuggestionSet
}

func NewSuggestionStore() *SuggestionStore {
	return &SuggestionStore{sets: make(map[model.MessageID]*model.SuggestionSet)}
}

// Set records questions for a message, keeping at most model.MaxSuggestions
func (s *SuggestionStore) Set(id model.MessageID, questions []string) {
	if len(questions) > model.MaxSuggestions {
		questions = questions[:model.MaxSuggestions]
	}
	s.sets[id] = &model.SuggestionSet{
		MessageID: id,
		Questions: append([]string(nil), questions...),
	}
}

// Get returns the suggestion set for a message id, if any
func (s *SuggestionStore) Get(id model.MessageID) (*model.SuggestionSet, bool) {
	set, ok := s.sets[id]
	return set, ok
}

// Delete removes the entry for a message id
func (s *SuggestionStore) Delete(id model.MessageID) {
	delete(s.sets, id)
}

// Clear empties all entries. Called on topic switch and logout.
func (s *SuggestionStore) Clear() {
	s.sets = make(map[model.MessageID]*model.SuggestionSet)
}
