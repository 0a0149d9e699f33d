package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kaiwa-dev/kaiwa/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// Memory is an in-process Repository used by tests and local runs. It
// mirrors the Firestore semantics: message IDs are assigned on insert,
// deletes are scoped by topic, and topic deletion does not cascade.
type Memory struct {
	mu     sync.Mutex
	topics map[model.TopicID]*model.Topic
	msgs   map[model.TopicID][]*model.Message
	clock  time.Time
}

func NewMemory() *Memory {
	return &Memory{
		topics: make(map[model.TopicID]*model.Topic),
		msgs:   make(map[model.TopicID][]*model.Message),
	}
}

// now returns a strictly increasing timestamp so message ordering by
// CreatedAt is stable even within one wall-clock tick.
func (r *Memory) now() time.Time {
	t := time.Now()
	if !t.After(r.clock) {
		t = r.clock.Add(time.Nanosecond)
	}
	r.clock = t
	return t
}

func (r *Memory) ListTopics(ctx context.Context, owner model.UserID) ([]*model.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var topics []*model.Topic
	for _, t := range r.topics {
		if t.Owner == owner {
			clone := *t
			topics = append(topics, &clone)
		}
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].Name != topics[j].Name {
			return topics[i].Name < topics[j].Name
		}
		return topics[i].CreatedAt.Before(topics[j].CreatedAt)
	})
	return topics, nil
}

func (r *Memory) InsertTopic(ctx context.Context, owner model.UserID, name string) (*model.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	topic := &model.Topic{
		ID:        model.NewTopicID(),
		Owner:     owner,
		Name:      name,
		CreatedAt: r.now(),
	}
	r.topics[topic.ID] = topic

	clone := *topic
	return &clone, nil
}

func (r *Memory) UpdateTopic(ctx context.Context, id model.TopicID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	topic, ok := r.topics[id]
	if !ok {
		return goerr.New("topic not found", goerr.V("topic_id", id))
	}
	topic.Name = name
	return nil
}

func (r *Memory) DeleteTopic(ctx context.Context, id model.TopicID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.topics[id]; !ok {
		return goerr.New("topic not found", goerr.V("topic_id", id))
	}
	delete(r.topics, id)
	return nil
}

func (r *Memory) ListMessages(ctx context.Context, topicID model.TopicID) ([]*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msgs := make([]*model.Message, 0, len(r.msgs[topicID]))
	for _, m := range r.msgs[topicID] {
		clone := *m
		msgs = append(msgs, &clone)
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
	return msgs, nil
}

func (r *Memory) InsertMessage(ctx context.Context, topicID model.TopicID, role model.Role, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.topics[topicID]; !ok {
		return goerr.New("topic not found", goerr.V("topic_id", topicID))
	}
	r.msgs[topicID] = append(r.msgs[topicID], &model.Message{
		ID:        model.MessageID(uuid.New().String()),
		TopicID:   topicID,
		Role:      role,
		Content:   content,
		CreatedAt: r.now(),
	})
	return nil
}

func (r *Memory) DeleteMessage(ctx context.Context, id model.MessageID, topicID model.TopicID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msgs := r.msgs[topicID]
	for i, m := range msgs {
		if m.ID == id {
			r.msgs[topicID] = append(msgs[:i:i], msgs[i+1:]...)
			return nil
		}
	}
	return goerr.New("message not found in topic", goerr.V("message_id", id), goerr.V("topic_id", topicID))
}
