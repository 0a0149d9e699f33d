package chat

import (
	"context"
	"sync"

	"github.com/kaiwa-dev/kaiwa/pkg/completion"
	"github.com/kaiwa-dev/kaiwa/pkg/model"
	"github.com/kaiwa-dev/kaiwa/pkg/repository"
	"github.com/kaiwa-dev/kaiwa/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Phase is the externally observable state of the completion cycle. It
// drives the boundary's pending indicator and is always returned to
// PhaseIdle, on success and failure alike.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaiting
)

// Session owns one user's conversation state: the topic/message cache,
// the ephemeral suggestion store, and the completion lifecycle. It is
// the only component that mutates remote state. Every mutation round-
// trips through the store and reloads the affected slice, so the cache
// never shows a message the store has not acknowledged.
type Session struct {
	repo       repository.Repository
	completion completion.Client

	mu          sync.Mutex
	user        model.UserID
	cache       *cache
	suggestions *SuggestionStore
	phase       Phase
}

// NewInput contains the collaborators of a Session
type NewInput struct {
	Repo       repository.Repository
	Completion completion.Client
}

func New(input NewInput) *Session {
	return &Session{
		repo:        input.Repo,
		completion:  input.Completion,
		cache:       newCache(),
		suggestions: NewSuggestionStore(),
	}
}

// Login sets the current user and loads their topics. The first topic,
// if any, becomes active.
func (s *Session) Login(ctx context.Context, user model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user == "" {
		return goerr.Wrap(model.ErrUnauthenticated, "login requires a user identity")
	}

	s.user = user
	s.suggestions.Clear()
	if err := s.cache.loadTopics(ctx, s.repo, user); err != nil {
		return err
	}
	if err := s.cache.selectTopic(ctx, s.repo, 0); err != nil {
		return err
	}

	logging.From(ctx).Debug("session started", "user", user, "topics", len(s.cache.topics))
	return nil
}

// Logout resets all per-session state. An in-flight completion is not
// interrupted; its result is discarded when it arrives.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = ""
	s.cache.reset()
	s.suggestions.Clear()
}

// Phase reports the current completion-cycle state
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Topics returns a copy of the cached topic list
func (s *Session) Topics() []*model.Topic {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*model.Topic(nil), s.cache.topics...)
}

// Messages returns a copy of the active topic's cached messages
func (s *Session) Messages() []*model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*model.Message(nil), s.cache.messages...)
}

// ActiveTopic returns the active topic, if any
func (s *Session) ActiveTopic() (*model.Topic, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.activeTopic()
}

// ActiveIndex returns the active topic index, or -1 when no topic exists
func (s *Session) ActiveIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.active
}

// ActiveSuggestions returns the suggestion set attached to the latest
// assistant message of the active topic, if one exists. Older entries
// stay addressable via SuggestionsFor but are no longer active.
func (s *Session) ActiveSuggestions() (*model.SuggestionSet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	last := s.cache.lastAssistantMessage()
	if last == nil {
		return nil, false
	}
	return s.suggestions.Get(last.ID)
}

// SuggestionsFor returns the suggestion set for a message id, if any
func (s *Session) SuggestionsFor(id model.MessageID) (*model.SuggestionSet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suggestions.Get(id)
}
