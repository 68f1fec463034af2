package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mockwiseai/backend/internal/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Client struct {
	raw    *mongo.Client
	dbName string
}

func NewClient(ctx context.Context, uri, dbName string) (*Client, error) {
	if uri == "" {
		return nil, errors.New("MONGO_URI is empty")
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := c.Ping(ctx, nil); err != nil {
		_ = c.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	if dbName == "" {
		dbName = "interview-platform"
	}
	return &Client{raw: c, dbName: dbName}, nil
}

func (c *Client) DB() (*mongo.Database, error) {
	if c == nil || c.raw == nil {
		return nil, errors.New("mongo client not initialized")
	}
	return c.raw.Database(c.dbName), nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.raw.Ping(ctx, nil)
}

func (c *Client) Close(ctx context.Context) error {
	return c.raw.Disconnect(ctx)
}

const (
	interviewsCollection  = "interviews"
	invitationsCollection = "invitations"
	submissionsCollection = "submissions"
	questionsCollection   = "questions"
	recruitersCollection  = "recruiters"
)

func ensureIndexes(ctx context.Context, col *mongo.Collection, indexes ...mongo.IndexModel) error {
	if len(indexes) == 0 {
		return nil
	}
	_, err := col.Indexes().CreateMany(ctx, indexes)
	return err
}

func uniqueIndex(keys any) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true)}
}

// translate maps driver errors onto the model sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return models.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", models.ErrConflict, err)
	}
	return err
}
