package chat

import (
	"context"

	"github.com/kaiwa-dev/kaiwa/pkg/model"
	"github.com/kaiwa-dev/kaiwa/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
)

// cache mirrors the authoritative store: the user's topic list plus the
// active topic's messages. It is never patched in place; after every
// remote write the affected slice is reloaded, so the cache cannot
// diverge from the store under concurrent edits from another session.
type cache struct {
	topics   []*model.Topic
	messages []*model.Message
	active   int // -1 when no topic is active
}

func newCache() *cache {
	return &cache{active: -1}
}

func (c *cache) reset() {
	c.topics = nil
	c.messages = nil
	c.active = -1
}

// loadTopics replaces the cached topic list. A store failure degrades
// to an empty list; the error is surfaced so the caller can report it.
func (c *cache) loadTopics(ctx context.Context, repo repository.Repository, user model.UserID) error {
	topics, err := repo.ListTopics(ctx, user)
	if err != nil {
		c.reset()
		return goerr.Wrap(model.ErrStoreUnavailable, "failed to list topics",
			goerr.V("cause", err), goerr.V("user", user))
	}

	c.topics = topics
	c.clampActive()
	return nil
}

// selectTopic activates the topic at index, clamping out-of-bounds
// values to the nearest valid index (-1 when no topics exist), and
// reloads that topic's messages.
func (c *cache) selectTopic(ctx context.Context, repo repository.Repository, index int) error {
	c.active = index
	c.clampActive()
	return c.reloadMessages(ctx, repo)
}

// reloadMessages replaces the cached message list of the active topic.
// A store failure degrades to an empty list, surfacing the error.
func (c *cache) reloadMessages(ctx context.Context, repo repository.Repository) error {
	if c.active < 0 {
		c.messages = nil
		return nil
	}

	topicID := c.topics[c.active].ID
	msgs, err := repo.ListMessages(ctx, topicID)
	if err != nil {
		c.messages = nil
		return goerr.Wrap(model.ErrStoreUnavailable, "failed to list messages",
			goerr.V("cause", err), goerr.V("topic_id", topicID))
	}

	c.messages = msgs
	return nil
}

func (c *cache) clampActive() {
	if len(c.topics) == 0 {
		c.active = -1
		c.messages = nil
		return
	}
	if c.active < 0 {
		c.active = 0
	}
	if c.active >= len(c.topics) {
		c.active = len(c.topics) - 1
	}
}

func (c *cache) activeTopic() (*model.Topic, bool) {
	if c.active < 0 || c.active >= len(c.topics) {
		return nil, false
	}
	return c.topics[c.active], true
}

func (c *cache) indexOf(id model.TopicID) int {
	for i, t := range c.topics {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (c *cache) lastAssistantMessage() *model.Message {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == model.RoleAssistant {
			return c.messages[i]
		}
	}
	return nil
}
