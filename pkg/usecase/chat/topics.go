package chat

import (
	"context"
	"strings"

	"github.com/kaiwa-dev/kaiwa/pkg/model"
	"github.com/kaiwa-dev/kaiwa/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// CreateTopic inserts a new topic, makes it active, and clears the
// suggestion store.
func (s *Session) CreateTopic(ctx context.Context, name string) (*model.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == "" {
		return nil, goerr.Wrap(model.ErrUnauthenticated, "create topic requires a user")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, goerr.Wrap(model.ErrValidation, "topic name is empty")
	}

	topic, err := s.repo.InsertTopic(ctx, s.user, name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to insert topic", goerr.V("name", name))
	}

	if err := s.cache.loadTopics(ctx, s.repo, s.user); err != nil {
		return nil, err
	}
	if err := s.cache.selectTopic(ctx, s.repo, s.cache.indexOf(topic.ID)); err != nil {
		return nil, err
	}
	s.suggestions.Clear()

	logging.From(ctx).Info("topic created", "topic_id", topic.ID, "name", name)
	return topic, nil
}

// RenameTopic writes the new name through and reloads authoritative
// state instead of patching the cached copy. Renaming to the current
// name is a no-op at the store level.
func (s *Session) RenameTopic(ctx context.Context, id model.TopicID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == "" {
		return goerr.Wrap(model.ErrUnauthenticated, "rename topic requires a user")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return goerr.Wrap(model.ErrValidation, "topic name is empty")
	}

	if err := s.repo.UpdateTopic(ctx, id, name); err != nil {
		return goerr.Wrap(err, "failed to update topic", goerr.V("topic_id", id))
	}

	return s.refreshTopics(ctx)
}

// DeleteTopic removes all child messages before the topic itself; the
// store does not cascade. If the topic delete fails after the messages
// are gone, the error matches ErrPartialFailure and the caller must
// re-sync rather than trust local state. The active index is
// re-clamped afterward.
func (s *Session) DeleteTopic(ctx context.Context, id model.TopicID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == "" {
		return goerr.Wrap(model.ErrUnauthenticated, "delete topic requires a user")
	}

	wasActive := false
	if t, ok := s.cache.activeTopic(); ok && t.ID == id {
		wasActive = true
	}

	msgs, err := s.repo.ListMessages(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to list messages for delete", goerr.V("topic_id", id))
	}

	deleted := 0
	for _, m := range msgs {
		if err := s.repo.DeleteMessage(ctx, m.ID, id); err != nil {
			if deleted > 0 {
				return goerr.Wrap(model.ErrPartialFailure, "message delete failed midway",
					goerr.V("topic_id", id), goerr.V("deleted", deleted), goerr.V("cause", err))
			}
			return goerr.Wrap(err, "failed to delete message", goerr.V("message_id", m.ID))
		}
		deleted++
	}

	if err := s.repo.DeleteTopic(ctx, id); err != nil {
		// Children are already gone; local assumptions are unsafe until a reload.
		if rerr := s.refreshTopics(ctx); rerr != nil {
			logging.From(ctx).Warn("re-sync after partial delete failed", "topic_id", id, "error", rerr)
		}
		return goerr.Wrap(model.ErrPartialFailure, "messages removed but topic delete failed",
			goerr.V("topic_id", id), goerr.V("cause", err))
	}

	if err := s.refreshTopics(ctx); err != nil {
		return err
	}
	if wasActive {
		s.suggestions.Clear()
	}

	logging.From(ctx).Info("topic deleted", "topic_id", id, "messages", deleted)
	return nil
}

// SelectTopic activates the topic at index, clamping out-of-bounds
// values, and reloads its messages. Switching topics invalidates the
// suggestion store.
func (s *Session) SelectTopic(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var before model.TopicID
	if t, ok := s.cache.activeTopic(); ok {
		before = t.ID
	}

	if err := s.cache.selectTopic(ctx, s.repo, index); err != nil {
		return err
	}

	if t, ok := s.cache.activeTopic(); !ok || t.ID != before {
		s.suggestions.Clear()
	}
	return nil
}

// refreshTopics reloads the topic list and re-selects the previously
// active topic by ID, falling back to the clamped index when it is gone.
// Caller must hold s.mu.
func (s *Session) refreshTopics(ctx context.Context) error {
	var activeID model.TopicID
	if t, ok := s.cache.activeTopic(); ok {
		activeID = t.ID
	}

	if err := s.cache.loadTopics(ctx, s.repo, s.user); err != nil {
		return err
	}
	return s.cache.selectTopic(ctx, s.repo, s.cache.indexOf(activeID))
}
