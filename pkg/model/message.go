package model

import "time"

type MessageID string

// Role identifies the author of a message turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents one turn in a topic. The ID is assigned by the
// store on insert and is unknown until the topic's messages are
// reloaded; anything keyed by message id must wait for that reload.
type Message struct {
	ID        MessageID
	TopicID   TopicID
	Role      Role
	Content   string
	CreatedAt time.Time
}
