package stores

import (
	"context"
	"fmt"

	"github.com/mockwiseai/backend/internal/config"
	"github.com/mockwiseai/backend/internal/repositories"
	"github.com/mockwiseai/backend/internal/repositories/mongo"
	"github.com/mockwiseai/backend/internal/services"

	"gorm.io/gorm"
)

// Backend is an opened persistence layer.
type Backend struct {
	services.Stores
	Driver string

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

func (b *Backend) Ping(ctx context.Context) error { return b.ping(ctx) }

func (b *Backend) Close(ctx context.Context) error { return b.close(ctx) }

// Open connects to the store named by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	if cfg.StoreDriver == config.DriverMongo {
		return openMongo(ctx, cfg)
	}
	db, err := repositories.Open(cfg)
	if err != nil {
		return nil, err
	}
	return FromGorm(db, cfg.StoreDriver)
}

// FromGorm wraps an already opened SQL database.
func FromGorm(db *gorm.DB, driver string) (*Backend, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql database: %w", err)
	}
	return &Backend{
		Stores: services.Stores{
			Interviews:  &repositories.InterviewRepository{DB: db},
			Invitations: &repositories.InvitationRepository{DB: db},
			Submissions: &repositories.SubmissionRepository{DB: db},
			Questions:   &repositories.QuestionRepository{DB: db},
			Recruiters:  &repositories.RecruiterRepository{DB: db},
		},
		Driver: driver,
		ping:   sqlDB.PingContext,
		close:  func(context.Context) error { return sqlDB.Close() },
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config) (*Backend, error) {
	client, err := mongo.NewClient(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, err
	}

	b := &Backend{Driver: config.DriverMongo, ping: client.Ping, close: client.Close}
	if b.Interviews, err = mongo.NewInterviewRepo(ctx, client); err != nil {
		return nil, closeOnError(ctx, client, err)
	}
	if b.Invitations, err = mongo.NewInvitationRepo(ctx, client); err != nil {
		return nil, closeOnError(ctx, client, err)
	}
	if b.Submissions, err = mongo.NewSubmissionRepo(ctx, client); err != nil {
		return nil, closeOnError(ctx, client, err)
	}
	if b.Questions, err = mongo.NewQuestionRepo(ctx, client); err != nil {
		return nil, closeOnError(ctx, client, err)
	}
	if b.Recruiters, err = mongo.NewRecruiterRepo(ctx, client); err != nil {
		return nil, closeOnError(ctx, client, err)
	}
	return b, nil
}

func closeOnError(ctx context.Context, client *mongo.Client, err error) error {
	_ = client.Close(ctx)
	return fmt.Errorf("failed to prepare mongo collections: %w", err)
}
