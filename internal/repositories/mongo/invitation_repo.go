package mongo

import (
	"context"
	"time"

	"github.com/mockwiseai/backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type InvitationRepo struct{ col *mongo.Collection }

func NewInvitationRepo(ctx context.Context, c *Client) (*InvitationRepo, error) {
	db, err := c.DB()
	if err != nil {
		return nil, err
	}
	r := &InvitationRepo{col: db.Collection(invitationsCollection)}
	err = ensureIndexes(ctx, r.col,
		uniqueIndex(bson.D{{Key: "token", Value: 1}}),
		uniqueIndex(bson.D{{Key: "interviewId", Value: 1}, {Key: "email", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// UpsertInvitation is a single atomic upsert on (interviewId, email); an
// existing document keeps its _id and createdAt.
func (r *InvitationRepo) UpsertInvitation(ctx context.Context, inv *models.Invitation) error {
	now := time.Now().UTC()
	filter := bson.M{"interviewId": inv.InterviewID, "email": inv.Email}
	update := bson.M{
		"$set": bson.M{
			"token":       inv.Token,
			"expiresAt":   inv.ExpiresAt,
			"status":      inv.Status,
			"name":        inv.Name,
			"recruiterId": inv.RecruiterID,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{"_id": inv.ID, "createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	return translate(r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(inv))
}

func (r *InvitationRepo) GetInvitationByToken(ctx context.Context, token string) (*models.Invitation, error) {
	var inv models.Invitation
	if err := r.col.FindOne(ctx, bson.M{"token": token}).Decode(&inv); err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

func (r *InvitationRepo) GetInvitation(ctx context.Context, interviewID, email string) (*models.Invitation, error) {
	var inv models.Invitation
	if err := r.col.FindOne(ctx, bson.M{"interviewId": interviewID, "email": email}).Decode(&inv); err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

func (r *InvitationRepo) UpdateInvitation(ctx context.Context, inv *models.Invitation) error {
	inv.UpdatedAt = time.Now().UTC()
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": inv.ID}, bson.M{"$set": bson.M{
		"token":     inv.Token,
		"expiresAt": inv.ExpiresAt,
		"status":    inv.Status,
		"name":      inv.Name,
		"updatedAt": inv.UpdatedAt,
	}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *InvitationRepo) ListInvitations(ctx context.Context, interviewID string) ([]models.Invitation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"interviewId": interviewID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Invitation{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
