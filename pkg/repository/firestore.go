package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/kaiwa-dev/kaiwa/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	topicCollection   = "topics"
	messageCollection = "messages"
)

// Firestore implements Repository using Cloud Firestore. Topics live in
// the "topics" collection; each topic's messages live in a "messages"
// subcollection whose document ID is the message ID.
type Firestore struct {
	client *firestore.Client
}

type topicDoc struct {
	Owner     string    `firestore:"owner"`
	Name      string    `firestore:"name"`
	CreatedAt time.Time `firestore:"created_at"`
}

type messageDoc struct {
	Role      string    `firestore:"role"`
	Content   string    `firestore:"content"`
	CreatedAt time.Time `firestore:"created_at,serverTimestamp"`
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string, opts ...option.ClientOption) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID), goerr.V("database", databaseID))
	}

	return &Firestore{client: client}, nil
}

func (r *Firestore) Close() error {
	return r.client.Close()
}

func (r *Firestore) ListTopics(ctx context.Context, owner model.UserID) ([]*model.Topic, error) {
	iter := r.client.Collection(topicCollection).
		Where("owner", "==", string(owner)).
		OrderBy("name", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var topics []*model.Topic
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate topics", goerr.V("owner", owner))
		}

		var td topicDoc
		if err := doc.DataTo(&td); err != nil {
			return nil, goerr.Wrap(err, "failed to decode topic", goerr.V("doc", doc.Ref.ID))
		}

		topics = append(topics, &model.Topic{
			ID:        model.TopicID(doc.Ref.ID),
			Owner:     model.UserID(td.Owner),
			Name:      td.Name,
			CreatedAt: td.CreatedAt,
		})
	}

	return topics, nil
}

func (r *Firestore) InsertTopic(ctx context.Context, owner model.UserID, name string) (*model.Topic, error) {
	topic := &model.Topic{
		ID:        model.NewTopicID(),
		Owner:     owner,
		Name:      name,
		CreatedAt: time.Now(),
	}

	doc := topicDoc{
		Owner:     string(owner),
		Name:      name,
		CreatedAt: topic.CreatedAt,
	}
	if _, err := r.client.Collection(topicCollection).Doc(string(topic.ID)).Create(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create topic", goerr.V("owner", owner), goerr.V("name", name))
	}

	return topic, nil
}

func (r *Firestore) UpdateTopic(ctx context.Context, id model.TopicID, name string) error {
	updates := []firestore.Update{{Path: "name", Value: name}}
	if _, err := r.client.Collection(topicCollection).Doc(string(id)).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(err, "topic not found", goerr.V("topic_id", id))
		}
		return goerr.Wrap(err, "failed to update topic", goerr.V("topic_id", id))
	}
	return nil
}

func (r *Firestore) DeleteTopic(ctx context.Context, id model.TopicID) error {
	// Firestore does not cascade deletes to subcollections; the engine
	// removes child messages before calling this.
	if _, err := r.client.Collection(topicCollection).Doc(string(id)).Delete(ctx, firestore.Exists); err != nil {
		return goerr.Wrap(err, "failed to delete topic", goerr.V("topic_id", id))
	}
	return nil
}

func (r *Firestore) ListMessages(ctx context.Context, topicID model.TopicID) ([]*model.Message, error) {
	iter := r.messages(topicID).OrderBy("created_at", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var msgs []*model.Message
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate messages", goerr.V("topic_id", topicID))
		}

		var md messageDoc
		if err := doc.DataTo(&md); err != nil {
			return nil, goerr.Wrap(err, "failed to decode message", goerr.V("doc", doc.Ref.ID))
		}

		msgs = append(msgs, &model.Message{
			ID:        model.MessageID(doc.Ref.ID),
			TopicID:   topicID,
			Role:      model.Role(md.Role),
			Content:   md.Content,
			CreatedAt: md.CreatedAt,
		})
	}

	return msgs, nil
}

func (r *Firestore) InsertMessage(ctx context.Context, topicID model.TopicID, role model.Role, content string) error {
	ref := r.messages(topicID).NewDoc()
	doc := messageDoc{
		Role:    string(role),
		Content: content,
	}
	if _, err := ref.Create(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to create message", goerr.V("topic_id", topicID), goerr.V("role", role))
	}
	return nil
}

func (r *Firestore) DeleteMessage(ctx context.Context, id model.MessageID, topicID model.TopicID) error {
	// The subcollection path scopes the delete by both IDs.
	if _, err := r.messages(topicID).Doc(string(id)).Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(err, "message not found in topic",
				goerr.V("message_id", id), goerr.V("topic_id", topicID))
		}
		return goerr.Wrap(err, "failed to delete message", goerr.V("message_id", id))
	}
	return nil
}

func (r *Firestore) messages(topicID model.TopicID) *firestore.CollectionRef {
	return r.client.Collection(topicCollection).Doc(string(topicID)).Collection(messageCollection)
}
