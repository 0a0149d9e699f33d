package model

import (
	"time"

	"github.com/google/uuid"
)

type TopicID string

// NewTopicID generates a new unique TopicID
func NewTopicID() TopicID {
	return TopicID(uuid.New().String())
}

// Topic represents a named, user-owned conversation thread
type Topic struct {
	ID        TopicID
	Owner     UserID
	Name      string
	CreatedAt time.Time
}
