package gallery

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/photogrid/pkg/cache"
	perrors "github.com/matzehuels/photogrid/pkg/errors"
)

// MongoConfig locates a gallery document in MongoDB.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`

	// GalleryID is the _id of the gallery document.
	GalleryID string `toml:"gallery_id"`
}

// Defaults for MongoConfig.
const (
	DefaultMongoDatabase   = "photogrid"
	DefaultMongoCollection = "galleries"
	DefaultGalleryID       = "default"
)

func (c *MongoConfig) setDefaults() {
	if c.Database == "" {
		c.Database = DefaultMongoDatabase
	}
	if c.Collection == "" {
		c.Collection = DefaultMongoCollection
	}
	if c.GalleryID == "" {
		c.GalleryID = DefaultGalleryID
	}
}

// MongoSource loads and stores a gallery as a single MongoDB document.
type MongoSource struct {
	client *mongo.Client
	coll   *mongo.Collection
	id     string
}

type galleryDoc struct {
	ID      string `bson:"_id"`
	Gallery `bson:",inline"`
}

// DialMongo connects to MongoDB and verifies the connection, retrying
// transient failures.
func DialMongo(ctx context.Context, cfg MongoConfig) (*MongoSource, error) {
	cfg.setDefaults()
	if cfg.URI == "" {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "mongo uri is required")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "mongo connect")
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			return cache.Retryable(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, perrors.Wrap(perrors.ErrCodeNetwork, err, "mongo ping")
	}
	return NewMongoSource(client, cfg), nil
}

// NewMongoSource uses an existing client.
func NewMongoSource(client *mongo.Client, cfg MongoConfig) *MongoSource {
	cfg.setDefaults()
	return &MongoSource{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		id:     cfg.GalleryID,
	}
}

// Load implements [Source].
func (s *MongoSource) Load(ctx context.Context) (*Gallery, error) {
	var doc galleryDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": s.id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, perrors.New(perrors.ErrCodeNotFound, "gallery %q not found", s.id)
	}
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeNetwork, err, "load gallery %q", s.id)
	}
	return &doc.Gallery, nil
}

// Save replaces the stored gallery with g.
func (s *MongoSource) Save(ctx context.Context, g *Gallery) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": s.id},
		galleryDoc{ID: s.id, Gallery: *g},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeNetwork, err, "save gallery %q", s.id)
	}
	return nil
}

// String describes the source for logs.
func (s *MongoSource) String() string {
	return fmt.Sprintf("mongodb:%s/%s#%s", s.coll.Database().Name(), s.coll.Name(), s.id)
}

// Close disconnects the client.
func (s *MongoSource) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
