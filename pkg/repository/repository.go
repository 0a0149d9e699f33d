package repository

import (
	"context"

	"github.com/kaiwa-dev/kaiwa/pkg/model"
)

// Repository defines the interface for topic and message persistence
type Repository interface {
	// ListTopics retrieves all topics owned by a user, sorted by name ascending
	ListTopics(ctx context.Context, owner model.UserID) ([]*model.Topic, error)

	// InsertTopic creates a new topic and returns it with its assigned ID
	InsertTopic(ctx context.Context, owner model.UserID, name string) (*model.Topic, error)

	// UpdateTopic renames an existing topic
	UpdateTopic(ctx context.Context, id model.TopicID, name string) error

	// DeleteTopic deletes a topic. Child messages are not cascaded; the
	// caller must remove them first.
	DeleteTopic(ctx context.Context, id model.TopicID) error

	// ListMessages retrieves all messages of a topic, sorted by creation time ascending
	ListMessages(ctx context.Context, topicID model.TopicID) ([]*model.Message, error)

	// InsertMessage appends a message to a topic. The message ID is
	// assigned by the store and learned through ListMessages.
	InsertMessage(ctx context.Context, topicID model.TopicID, role model.Role, content string) error

	// DeleteMessage deletes a message, scoped by both message and topic ID
	DeleteMessage(ctx context.Context, id model.MessageID, topicID model.TopicID) error
}
