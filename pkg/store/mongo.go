package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/storyforge/pkg/document"
	"github.com/matzehuels/storyforge/pkg/story"
)

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string

	// Timeout bounds connect and ping.
	Timeout time.Duration
}

// MongoStore keeps one document per storyline with the storyline id as _id.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// mongoRecord is the stored document: the wire form plus a save timestamp.
type mongoRecord struct {
	document.Storyline `bson:",inline"`
	UpdatedAt          time.Time `bson:"updated_at"`
}

// NewMongoStore connects and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &MongoStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (m *MongoStore) Load(ctx context.Context, id string) (story.Storyline, error) {
	var rec mongoRecord
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return story.Storyline{}, notFound(id)
	}
	if err != nil {
		return story.Storyline{}, fmt.Errorf("find %s: %w", id, err)
	}
	return fromBSON(rec.Storyline)
}

func (m *MongoStore) Save(ctx context.Context, s story.Storyline) error {
	if err := checkID(s.ID); err != nil {
		return err
	}
	rec := mongoRecord{Storyline: document.From(s), UpdatedAt: time.Now().UTC()}
	_, err := m.collection.ReplaceOne(ctx, bson.M{"_id": s.ID}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", s.ID, err)
	}
	return nil
}

func (m *MongoStore) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"_id": 1, "name": 1, "events.id": 1, "updated_at": 1})
	cur, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list storylines: %w", err)
	}
	defer cur.Close(ctx)

	out := []Summary{}
	for cur.Next(ctx) {
		var rec struct {
			ID        string     `bson:"_id"`
			Name      string     `bson:"name"`
			Events    []bson.Raw `bson:"events"`
			UpdatedAt time.Time  `bson:"updated_at"`
		}
		if err := cur.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode summary: %w", err)
		}
		out = append(out, Summary{ID: rec.ID, Name: rec.Name, Events: len(rec.Events), UpdatedAt: rec.UpdatedAt})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list storylines: %w", err)
	}
	return out, nil
}

func (m *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Close disconnects the client.
func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// fromBSON converts a decoded record back into the model. Payload maps come
// back from the driver as bson.M and bson.A; a JSON round trip turns them
// into plain maps and slices again.
func fromBSON(d document.Storyline) (story.Storyline, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return story.Storyline{}, fmt.Errorf("normalize %s: %w", d.ID, err)
	}
	return document.Unmarshal(data)
}

var _ Store = (*MongoStore)(nil)
