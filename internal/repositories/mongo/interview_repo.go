package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/mockwiseai/backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InterviewRepo keeps candidate entries embedded in the interview document.
type InterviewRepo struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewInterviewRepo(ctx context.Context, c *Client) (*InterviewRepo, error) {
	db, err := c.DB()
	if err != nil {
		return nil, err
	}
	r := &InterviewRepo{db: db, col: db.Collection(interviewsCollection)}
	err = ensureIndexes(ctx, r.col,
		uniqueIndex(bson.D{{Key: "uniqueLink", Value: 1}}),
		mongo.IndexModel{Keys: bson.D{{Key: "recruiterId", Value: 1}}},
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *InterviewRepo) CreateInterview(ctx context.Context, iv *models.Interview) error {
	if iv.Candidates == nil {
		iv.Candidates = []models.CandidateEntry{}
	}
	now := time.Now().UTC()
	if iv.CreatedAt.IsZero() {
		iv.CreatedAt = now
	}
	iv.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, iv)
	return translate(err)
}

func (r *InterviewRepo) GetInterview(ctx context.Context, id string) (*models.Interview, error) {
	var iv models.Interview
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&iv); err != nil {
		return nil, translate(err)
	}
	return &iv, nil
}

func (r *InterviewRepo) GetInterviewByLink(ctx context.Context, link string) (*models.Interview, error) {
	var iv models.Interview
	if err := r.col.FindOne(ctx, bson.M{"uniqueLink": link}).Decode(&iv); err != nil {
		return nil, translate(err)
	}
	return &iv, nil
}

func (r *InterviewRepo) ListInterviews(ctx context.Context, recruiterID string) ([]models.Interview, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"recruiterId": recruiterID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Interview{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *InterviewRepo) UpdateInterview(ctx context.Context, iv *models.Interview) error {
	iv.UpdatedAt = time.Now().UTC()
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": iv.ID}, bson.M{"$set": bson.M{
		"title":        iv.Title,
		"jobRole":      iv.JobRole,
		"questions":    iv.Questions,
		"totalTime":    iv.TotalTime,
		"uniqueLink":   iv.UniqueLink,
		"status":       iv.Status,
		"scheduleDate": iv.ScheduleDate,
		"updatedAt":    iv.UpdatedAt,
	}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteInterview removes the interview document and the invitations and
// submissions scoped to it.
func (r *InterviewRepo) DeleteInterview(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	for _, name := range []string{invitationsCollection, submissionsCollection} {
		if _, err := r.db.Collection(name).DeleteMany(ctx, bson.M{"interviewId": id}); err != nil {
			return err
		}
	}
	return nil
}

func (r *InterviewRepo) EnsureCandidate(ctx context.Context, interviewID string, entry models.CandidateEntry) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": interviewID, "candidates.email": bson.M{"$ne": entry.Email}},
		bson.M{"$push": bson.M{"candidates": entry}},
	)
	return translate(err)
}

func (r *InterviewRepo) SetCandidateStatus(ctx context.Context, interviewID, email, name string, status models.CandidateStatus, submittedAt *time.Time) error {
	set := bson.M{"candidates.$.status": status}
	if submittedAt != nil {
		set["candidates.$.submittedAt"] = *submittedAt
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": interviewID, "candidates.email": email}, bson.M{"$set": set})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	entry := models.NewCandidateEntry(email, name)
	entry.Status = status
	entry.SubmittedAt = submittedAt
	return r.EnsureCandidate(ctx, interviewID, entry)
}

// counterAttempts bounds retries when a concurrent writer moves
// questionsInProgress across n between the two conditional updates.
const counterAttempts = 3

// ApplyAnswerCounters adds n to the attempted and completed counters and
// takes n off questionsInProgress, flooring it at zero. Each branch is one
// conditional update, so a negative value is never stored.
func (r *InterviewRepo) ApplyAnswerCounters(ctx context.Context, interviewID, email string, n int) error {
	for attempt := 0; attempt < counterAttempts; attempt++ {
		res, err := r.col.UpdateOne(ctx, counterFilter(interviewID, email, n, true), bson.M{"$inc": bson.M{
			"candidates.$.questionsAttempted":  n,
			"candidates.$.questionsCompleted":  n,
			"candidates.$.questionsInProgress": -n,
		}})
		if err != nil {
			return translate(err)
		}
		if res.MatchedCount > 0 {
			return nil
		}

		res, err = r.col.UpdateOne(ctx, counterFilter(interviewID, email, n, false), bson.M{
			"$inc": bson.M{
				"candidates.$.questionsAttempted": n,
				"candidates.$.questionsCompleted": n,
			},
			"$set": bson.M{"candidates.$.questionsInProgress": 0},
		})
		if err != nil {
			return translate(err)
		}
		if res.MatchedCount > 0 {
			return nil
		}

		count, err := r.col.CountDocuments(ctx, bson.M{"_id": interviewID, "candidates.email": email})
		if err != nil {
			return translate(err)
		}
		if count == 0 {
			return models.ErrNotFound
		}
	}
	return fmt.Errorf("apply answer counters for %s: %w", email, models.ErrConflict)
}

// counterFilter matches the candidate entry whose questionsInProgress can
// absorb n (covers) or cannot (!covers).
func counterFilter(interviewID, email string, n int, covers bool) bson.M {
	op := "$lt"
	if covers {
		op = "$gte"
	}
	return bson.M{
		"_id": interviewID,
		"candidates": bson.M{"$elemMatch": bson.M{
			"email":               email,
			"questionsInProgress": bson.M{op: n},
		}},
	}
}
