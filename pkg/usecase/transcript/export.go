package transcript

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kaiwa-dev/kaiwa/pkg/adapter"
	"github.com/kaiwa-dev/kaiwa/pkg/model"
	"github.com/kaiwa-dev/kaiwa/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
)

type entry struct {
	ID        model.MessageID `json:"id"`
	Role      model.Role      `json:"role"`
	Content   string          `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
}

// Export writes the full ordered transcript of a topic as JSON to blob
// storage and returns the object key.
func Export(ctx context.Context, repo repository.Repository, store adapter.Storage, topicID model.TopicID) (string, error) {
	msgs, err := repo.ListMessages(ctx, topicID)
	if err != nil {
		return "", goerr.Wrap(err, "failed to list messages", goerr.V("topic_id", topicID))
	}

	entries := make([]entry, 0, len(msgs))
	for _, m := range msgs {
		entries = append(entries, entry{
			ID:        m.ID,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal transcript")
	}

	key := "transcripts/" + string(topicID) + ".json"
	writer, err := store.Put(ctx, key)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create storage writer", goerr.V("key", key))
	}
	defer writer.Close()

	if _, err := writer.Write(data); err != nil {
		return "", goerr.Wrap(err, "failed to write transcript", goerr.V("key", key))
	}

	if err := writer.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to close storage writer", goerr.V("key", key))
	}

	return key, nil
}
