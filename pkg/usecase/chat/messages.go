package chat

import (
	"context"
	"strings"

	"github.com/kaiwa-dev/kaiwa/pkg/model"
	"github.com/kaiwa-dev/kaiwa/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// PostUserMessage persists a user message to the active topic and
// reloads the message list. There is no local echo: the cache only ever
// shows store-acknowledged messages. A second send while a completion
// is in flight is rejected with ErrBusy.
func (s *Session) PostUserMessage(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseIdle {
		return goerr.Wrap(model.ErrBusy, "completion in flight")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return goerr.Wrap(model.ErrValidation, "message text is empty")
	}

	topic, ok := s.cache.activeTopic()
	if !ok {
		return goerr.Wrap(model.ErrNoActiveTopic, "posting requires an active topic")
	}

	if err := s.repo.InsertMessage(ctx, topic.ID, model.RoleUser, text); err != nil {
		return goerr.Wrap(err, "failed to insert user message", goerr.V("topic_id", topic.ID))
	}

	return s.cache.reloadMessages(ctx, s.repo)
}

// RequestCompletion sends the active topic's full ordered message
// sequence to the completion client, persists the reply as an assistant
// message, and attaches the returned suggestions to its store-assigned
// ID. On upstream failure nothing is persisted and the error matches
// ErrCompletionFailed. A reply arriving after the active topic or user
// changed is discarded; both return values are nil in that case.
func (s *Session) RequestCompletion(ctx context.Context) (*model.Message, error) {
	s.mu.Lock()
	if s.phase != PhaseIdle {
		s.mu.Unlock()
		return nil, goerr.Wrap(model.ErrBusy, "completion in flight")
	}
	topic, ok := s.cache.activeTopic()
	if !ok {
		s.mu.Unlock()
		return nil, goerr.Wrap(model.ErrNoActiveTopic, "completion requires an active topic")
	}

	// Capture the request identity; side effects are applied only if it
	// still matches when the response arrives.
	user := s.user
	topicID := topic.ID
	window := append([]*model.Message(nil), s.cache.messages...)
	s.phase = PhaseAwaiting
	s.mu.Unlock()

	result, err := s.completion.Complete(ctx, window)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseIdle

	if err != nil {
		return nil, goerr.Wrap(model.ErrCompletionFailed, "upstream completion failed",
			goerr.V("topic_id", topicID), goerr.V("cause", err))
	}

	if s.user != user {
		logging.From(ctx).Debug("discarding completion after logout", "topic_id", topicID)
		return nil, nil
	}
	if cur, ok := s.cache.activeTopic(); !ok || cur.ID != topicID {
		logging.From(ctx).Debug("discarding stale completion", "topic_id", topicID)
		return nil, nil
	}

	if err := s.repo.InsertMessage(ctx, topicID, model.RoleAssistant, result.Reply); err != nil {
		return nil, goerr.Wrap(err, "failed to insert assistant message", goerr.V("topic_id", topicID))
	}
	if err := s.cache.reloadMessages(ctx, s.repo); err != nil {
		return nil, err
	}

	reply := s.cache.lastAssistantMessage()
	if reply == nil {
		return nil, goerr.New("assistant message missing after reload", goerr.V("topic_id", topicID))
	}
	s.suggestions.Set(reply.ID, result.Suggestions)

	logging.From(ctx).Debug("completion applied",
		"topic_id", topicID, "message_id", reply.ID, "suggestions", len(result.Suggestions))
	return reply, nil
}

// DeleteMessage removes a message from the active topic, scoped by both
// IDs so a stale reference cannot delete across topics. Confirmation is
// the boundary's concern.
func (s *Session) DeleteMessage(ctx context.Context, id model.MessageID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	topic, ok := s.cache.activeTopic()
	if !ok {
		return goerr.Wrap(model.ErrNoActiveTopic, "deleting requires an active topic")
	}

	if err := s.repo.DeleteMessage(ctx, id, topic.ID); err != nil {
		return goerr.Wrap(err, "failed to delete message",
			goerr.V("message_id", id), goerr.V("topic_id", topic.ID))
	}

	s.suggestions.Delete(id)
	return s.cache.reloadMessages(ctx, s.repo)
}
