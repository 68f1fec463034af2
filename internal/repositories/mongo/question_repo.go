package mongo

import (
	"context"
	"time"

	"github.com/mockwiseai/backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QuestionRepo wraps the questions collection
type QuestionRepo struct{ col *mongo.Collection }

func NewQuestionRepo(ctx context.Context, c *Client) (*QuestionRepo, error) {
	db, err := c.DB()
	if err != nil {
		return nil, err
	}
	r := &QuestionRepo{col: db.Collection(questionsCollection)}
	if err := ensureIndexes(ctx, r.col, mongo.IndexModel{Keys: bson.D{{Key: "type", Value: 1}}}); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *QuestionRepo) CreateQuestion(ctx context.Context, q *models.Question) error {
	now := time.Now().UTC()
	q.CreatedAt, q.UpdatedAt = now, now
	_, err := r.col.InsertOne(ctx, q)
	return translate(err)
}

func (r *QuestionRepo) UpsertQuestion(ctx context.Context, q *models.Question) error {
	now := time.Now().UTC()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = now
	}
	q.UpdatedAt = now
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": q.ID}, q, options.Replace().SetUpsert(true))
	return translate(err)
}

func (r *QuestionRepo) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	var q models.Question
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&q); err != nil {
		return nil, translate(err)
	}
	return &q, nil
}

func (r *QuestionRepo) list(ctx context.Context, filter bson.M) ([]models.Question, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Question{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *QuestionRepo) GetQuestions(ctx context.Context, ids []string) ([]models.Question, error) {
	if len(ids) == 0 {
		return []models.Question{}, nil
	}
	return r.list(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *QuestionRepo) ListQuestions(ctx context.Context, qType models.QuestionType) ([]models.Question, error) {
	filter := bson.M{}
	if qType != "" {
		filter["type"] = qType
	}
	return r.list(ctx, filter)
}

func (r *QuestionRepo) UpdateQuestion(ctx context.Context, q *models.Question) error {
	q.UpdatedAt = time.Now().UTC()
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": q.ID}, bson.M{"$set": bson.M{
		"type":        q.Type,
		"title":       q.Title,
		"description": q.Description,
		"difficulty":  q.Difficulty,
		"category":    q.Category,
		"examples":    q.Examples,
		"starterCode": q.StarterCode,
		"testCases":   q.TestCases,
		"updatedAt":   q.UpdatedAt,
	}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *QuestionRepo) DeleteQuestion(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
