package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/kaiwa-dev/kaiwa/pkg/model"
	"github.com/kaiwa-dev/kaiwa/pkg/repository"
	"github.com/m-mizutani/gt"
)

func setupFirestore(t *testing.T) *repository.Firestore {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	if projectID == "" || databaseID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID and TEST_FIRESTORE_DATABASE_ID must be set to run Firestore tests")
	}

	repo, err := repository.NewFirestore(context.Background(), projectID, databaseID)
	gt.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	return repo
}

func TestFirestoreTopicRoundTrip(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	owner := model.UserID("test-" + string(model.NewTopicID()))

	topic, err := repo.InsertTopic(ctx, owner, "Integration Topic")
	gt.NoError(t, err)

	topics, err := repo.ListTopics(ctx, owner)
	gt.NoError(t, err)
	gt.A(t, topics).Length(1)
	gt.Equal(t, topics[0].ID, topic.ID)
	gt.Equal(t, topics[0].Name, "Integration Topic")

	gt.NoError(t, repo.UpdateTopic(ctx, topic.ID, "Renamed Topic"))
	topics, err = repo.ListTopics(ctx, owner)
	gt.NoError(t, err)
	gt.Equal(t, topics[0].Name, "Renamed Topic")

	gt.NoError(t, repo.DeleteTopic(ctx, topic.ID))
	topics, err = repo.ListTopics(ctx, owner)
	gt.NoError(t, err)
	gt.A(t, topics).Length(0)
}

func TestFirestoreMessageRoundTrip(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	owner := model.UserID("test-" + string(model.NewTopicID()))
	topic, err := repo.InsertTopic(ctx, owner, "Messages")
	gt.NoError(t, err)

	gt.NoError(t, repo.InsertMessage(ctx, topic.ID, model.RoleUser, "hello"))
	gt.NoError(t, repo.InsertMessage(ctx, topic.ID, model.RoleAssistant, "hi there"))

	msgs, err := repo.ListMessages(ctx, topic.ID)
	gt.NoError(t, err)
	gt.A(t, msgs).Length(2)
	gt.Equal(t, msgs[0].Role, model.RoleUser)
	gt.Equal(t, msgs[0].Content, "hello")
	gt.Equal(t, msgs[1].Role, model.RoleAssistant)
	gt.V(t, msgs[0].ID).NotEqual(model.MessageID(""))

	for _, m := range msgs {
		gt.NoError(t, repo.DeleteMessage(ctx, m.ID, topic.ID))
	}
	gt.NoError(t, repo.DeleteTopic(ctx, topic.ID))
}

func TestFirestoreUpdateMissingTopic(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	err := repo.UpdateTopic(ctx, model.NewTopicID(), "nope")
	gt.Error(t, err)
}
