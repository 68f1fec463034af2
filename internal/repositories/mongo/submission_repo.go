package mongo

import (
	"context"
	"strings"
	"time"

	"github.com/mockwiseai/backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SubmissionRepo stores answers embedded in the submission document.
type SubmissionRepo struct{ col *mongo.Collection }

func NewSubmissionRepo(ctx context.Context, c *Client) (*SubmissionRepo, error) {
	db, err := c.DB()
	if err != nil {
		return nil, err
	}
	r := &SubmissionRepo{col: db.Collection(submissionsCollection)}
	err = ensureIndexes(ctx, r.col,
		uniqueIndex(bson.D{{Key: "interviewId", Value: 1}, {Key: "email", Value: 1}}),
		mongo.IndexModel{Keys: bson.D{{Key: "status", Value: 1}}},
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *SubmissionRepo) CreateSubmission(ctx context.Context, sub *models.Submission) error {
	// $push needs an array, not null
	if sub.Answers == nil {
		sub.Answers = []models.Answer{}
	}
	now := time.Now().UTC()
	sub.CreatedAt, sub.UpdatedAt = now, now
	_, err := r.col.InsertOne(ctx, sub)
	return translate(err)
}

func (r *SubmissionRepo) GetSubmission(ctx context.Context, interviewID, email string) (*models.Submission, error) {
	var sub models.Submission
	if err := r.col.FindOne(ctx, bson.M{"interviewId": interviewID, "email": email}).Decode(&sub); err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

func (r *SubmissionRepo) GetSubmissionByID(ctx context.Context, id string) (*models.Submission, error) {
	var sub models.Submission
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&sub); err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

func (r *SubmissionRepo) find(ctx context.Context, filter bson.M) ([]models.Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "initiatedAt", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Submission{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SubmissionRepo) ListSubmissions(ctx context.Context, interviewID string) ([]models.Submission, error) {
	return r.find(ctx, bson.M{"interviewId": interviewID})
}

func (r *SubmissionRepo) ListOpenSubmissions(ctx context.Context) ([]models.Submission, error) {
	return r.find(ctx, bson.M{"status": bson.M{"$ne": models.SubmissionCompleted}})
}

// AppendAnswers pushes the batch only if none of its question ids is already
// present. The filter and the push run as one atomic document update.
func (r *SubmissionRepo) AppendAnswers(ctx context.Context, submissionID string, answers []models.Answer, at time.Time) error {
	ids := make([]string, 0, len(answers))
	for i := range answers {
		if answers[i].CreatedAt.IsZero() {
			answers[i].CreatedAt = at
		}
		ids = append(ids, answers[i].QuestionID)
	}

	filter := bson.M{"_id": submissionID, "answers.questionId": bson.M{"$nin": ids}}
	update := bson.M{
		"$push": bson.M{"answers": bson.M{"$each": answers}},
		"$set": bson.M{
			"status":      models.SubmissionCompleted,
			"submittedAt": at,
			"updatedAt":   at,
		},
	}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	current, err := r.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		return err
	}
	var answered []string
	for _, id := range ids {
		if current.HasAnswer(id) {
			answered = append(answered, id)
		}
	}
	return models.NewOpError("append answers", models.ErrDuplicateAnswer,
		"question already answered: %s", strings.Join(answered, ", "))
}

func (r *SubmissionRepo) CompleteSubmission(ctx context.Context, submissionID string, at time.Time) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": submissionID, "status": bson.M{"$ne": models.SubmissionCompleted}},
		bson.M{"$set": bson.M{"status": models.SubmissionCompleted, "submittedAt": at, "updatedAt": at}},
	)
	if err != nil {
		return false, translate(err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *SubmissionRepo) SaveEvaluation(ctx context.Context, submissionID string, eval models.Evaluation, score float64) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": submissionID}, bson.M{"$set": bson.M{
		"aiEvaluation": eval,
		"score":        score,
		"updatedAt":    time.Now().UTC(),
	}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
