package filestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/drawkit/pkg/scene"
)

// DefaultCollection is the collection MongoStore writes to.
const DefaultCollection = "files"

// fileDoc is the stored form of a record.
type fileDoc struct {
	ID            string `bson:"_id"`
	MimeType      string `bson:"mimeType"`
	DataURL       string `bson:"dataURL"`
	Created       int64  `bson:"created"`
	LastRetrieved int64  `bson:"lastRetrieved,omitempty"`
}

func toDoc(f scene.BinaryFile) fileDoc {
	return fileDoc{
		ID:            string(f.ID),
		MimeType:      f.MimeType,
		DataURL:       f.DataURL,
		Created:       f.Created,
		LastRetrieved: f.LastRetrieved,
	}
}

func (d fileDoc) file() scene.BinaryFile {
	return scene.BinaryFile{
		ID:            scene.FileID(d.ID),
		MimeType:      d.MimeType,
		DataURL:       d.DataURL,
		Created:       d.Created,
		LastRetrieved: d.LastRetrieved,
	}
}

// MongoStore keeps records in a MongoDB collection keyed by file id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	owned  bool
}

// NewMongoStore connects to uri and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New("filestore: mongo uri is empty")
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("filestore: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("filestore: ping: %w", err)
	}
	s := NewMongoStoreFromClient(client, database)
	s.owned = true
	return s, nil
}

// NewMongoStoreFromClient uses an existing client. Close does not
// disconnect it.
func NewMongoStoreFromClient(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(DefaultCollection),
	}
}

// Put upserts f.
func (s *MongoStore) Put(ctx context.Context, f scene.BinaryFile) error {
	if err := ValidateID(f.ID); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: string(f.ID)}},
		toDoc(f),
		options.Replace().SetUpsert(true))
	return err
}

// Get fetches a record and stamps its last retrieval time.
func (s *MongoStore) Get(ctx context.Context, id scene.FileID) (scene.BinaryFile, error) {
	var doc fileDoc
	err := s.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: string(id)}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "lastRetrieved", Value: time.Now().UnixMilli()}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return scene.BinaryFile{}, ErrNotFound
	}
	if err != nil {
		return scene.BinaryFile{}, err
	}
	return doc.file(), nil
}

// List returns all ids sorted ascending.
func (s *MongoStore) List(ctx context.Context) ([]scene.FileID, error) {
	cur, err := s.coll.Find(ctx, bson.D{},
		options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}}).SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []scene.FileID
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, scene.FileID(doc.ID))
	}
	return ids, cur.Err()
}

// Delete removes a record.
func (s *MongoStore) Delete(ctx context.Context, id scene.FileID) error {
	_, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: string(id)}})
	return err
}

// Close disconnects the client if the store created it.
func (s *MongoStore) Close() error {
	if !s.owned {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
