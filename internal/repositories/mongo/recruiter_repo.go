package mongo

import (
	"context"
	"time"

	"github.com/mockwiseai/backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type RecruiterRepo struct{ col *mongo.Collection }

func NewRecruiterRepo(ctx context.Context, c *Client) (*RecruiterRepo, error) {
	db, err := c.DB()
	if err != nil {
		return nil, err
	}
	r := &RecruiterRepo{col: db.Collection(recruitersCollection)}
	if err := ensureIndexes(ctx, r.col, uniqueIndex(bson.D{{Key: "email", Value: 1}})); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RecruiterRepo) CreateRecruiter(ctx context.Context, rec *models.Recruiter) error {
	now := time.Now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now
	_, err := r.col.InsertOne(ctx, rec)
	return translate(err)
}

func (r *RecruiterRepo) GetRecruiterByEmail(ctx context.Context, email string) (*models.Recruiter, error) {
	var rec models.Recruiter
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&rec); err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (r *RecruiterRepo) GetRecruiterByID(ctx context.Context, id string) (*models.Recruiter, error) {
	var rec models.Recruiter
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rec); err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}
