package repository_test

import (
	"context"
	"testing"

	"github.com/kaiwa-dev/kaiwa/pkg/model"
	"github.com/kaiwa-dev/kaiwa/pkg/repository"
	"github.com/m-mizutani/gt"
)

func TestMemoryTopicLifecycle(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	topic, err := repo.InsertTopic(ctx, "alice", "Trip Planning")
	gt.NoError(t, err)
	gt.V(t, topic.ID).NotEqual(model.TopicID(""))
	gt.Equal(t, topic.Owner, model.UserID("alice"))

	topics, err := repo.ListTopics(ctx, "alice")
	gt.NoError(t, err)
	gt.A(t, topics).Length(1)
	gt.Equal(t, topics[0].Name, "Trip Planning")

	gt.NoError(t, repo.UpdateTopic(ctx, topic.ID, "Summer Trip"))
	topics, err = repo.ListTopics(ctx, "alice")
	gt.NoError(t, err)
	gt.Equal(t, topics[0].Name, "Summer Trip")

	gt.NoError(t, repo.DeleteTopic(ctx, topic.ID))
	topics, err = repo.ListTopics(ctx, "alice")
	gt.NoError(t, err)
	gt.A(t, topics).Length(0)
}

func TestMemoryListTopicsSortedByName(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	for _, name := range []string{"Cooking", "Astronomy", "Birds"} {
		_, err := repo.InsertTopic(ctx, "alice", name)
		gt.NoError(t, err)
	}

	topics, err := repo.ListTopics(ctx, "alice")
	gt.NoError(t, err)
	gt.A(t, topics).Length(3)
	gt.Equal(t, topics[0].Name, "Astronomy")
	gt.Equal(t, topics[1].Name, "Birds")
	gt.Equal(t, topics[2].Name, "Cooking")
}

func TestMemoryListTopicsScopedByOwner(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	_, err := repo.InsertTopic(ctx, "alice", "Mine")
	gt.NoError(t, err)
	_, err = repo.InsertTopic(ctx, "bob", "Theirs")
	gt.NoError(t, err)

	topics, err := repo.ListTopics(ctx, "alice")
	gt.NoError(t, err)
	gt.A(t, topics).Length(1)
	gt.Equal(t, topics[0].Name, "Mine")
}

func TestMemoryMessageOrderingAndIDs(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	topic, err := repo.InsertTopic(ctx, "alice", "Chat")
	gt.NoError(t, err)

	gt.NoError(t, repo.InsertMessage(ctx, topic.ID, model.RoleUser, "first"))
	gt.NoError(t, repo.InsertMessage(ctx, topic.ID, model.RoleAssistant, "second"))
	gt.NoError(t, repo.InsertMessage(ctx, topic.ID, model.RoleUser, "third"))

	msgs, err := repo.ListMessages(ctx, topic.ID)
	gt.NoError(t, err)
	gt.A(t, msgs).Length(3)
	gt.Equal(t, msgs[0].Content, "first")
	gt.Equal(t, msgs[1].Content, "second")
	gt.Equal(t, msgs[2].Content, "third")

	gt.True(t, msgs[0].CreatedAt.Before(msgs[1].CreatedAt))
	gt.True(t, msgs[1].CreatedAt.Before(msgs[2].CreatedAt))

	// IDs are assigned by the store and unique
	gt.V(t, msgs[0].ID).NotEqual(model.MessageID(""))
	gt.V(t, msgs[0].ID).NotEqual(msgs[1].ID)
}

func TestMemoryDeleteMessageScopedByTopic(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	topicA, err := repo.InsertTopic(ctx, "alice", "A")
	gt.NoError(t, err)
	topicB, err := repo.InsertTopic(ctx, "alice", "B")
	gt.NoError(t, err)

	gt.NoError(t, repo.InsertMessage(ctx, topicA.ID, model.RoleUser, "hello"))
	msgs, err := repo.ListMessages(ctx, topicA.ID)
	gt.NoError(t, err)
	gt.A(t, msgs).Length(1)

	// Wrong topic scope must not delete
	gt.Error(t, repo.DeleteMessage(ctx, msgs[0].ID, topicB.ID))
	msgs, err = repo.ListMessages(ctx, topicA.ID)
	gt.NoError(t, err)
	gt.A(t, msgs).Length(1)

	gt.NoError(t, repo.DeleteMessage(ctx, msgs[0].ID, topicA.ID))
	msgs, err = repo.ListMessages(ctx, topicA.ID)
	gt.NoError(t, err)
	gt.A(t, msgs).Length(0)
}

func TestMemoryDeleteTopicDoesNotCascade(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	topic, err := repo.InsertTopic(ctx, "alice", "Chat")
	gt.NoError(t, err)
	gt.NoError(t, repo.InsertMessage(ctx, topic.ID, model.RoleUser, "hello"))

	gt.NoError(t, repo.DeleteTopic(ctx, topic.ID))

	// Children survive a bare topic delete; the engine removes them first
	msgs, err := repo.ListMessages(ctx, topic.ID)
	gt.NoError(t, err)
	gt.A(t, msgs).Length(1)
}

func TestMemoryInsertMessageToMissingTopic(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	err := repo.InsertMessage(ctx, model.NewTopicID(), model.RoleUser, "hello")
	gt.Error(t, err)
}
