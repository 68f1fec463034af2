package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mockwiseai/backend/internal/models"
	"github.com/mockwiseai/backend/internal/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService registers recruiters and issues their bearer tokens.
type AuthService struct {
	recruiters RecruiterStore
	secret     string
	ttl        time.Duration
	cost       int
}

func NewAuthService(recruiters RecruiterStore, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{recruiters: recruiters, secret: secret, ttl: ttl, cost: bcrypt.DefaultCost}
}

// SetCost overrides the bcrypt work factor.
func (s *AuthService) SetCost(cost int) {
	s.cost = cost
}

func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, err
	}
	rec := &models.Recruiter{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        models.NormalizeEmail(req.Email),
		PasswordHash: string(hash),
	}
	if err := s.recruiters.CreateRecruiter(ctx, rec); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.NewOpError("register", models.ErrConflict, "email already registered")
		}
		return nil, err
	}
	return s.issue(rec)
}

func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	rec, err := s.recruiters.GetRecruiterByEmail(ctx, models.NormalizeEmail(req.Email))
	if err != nil {
		if models.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(rec)
}

func (s *AuthService) Me(ctx context.Context, recruiterID string) (*models.Recruiter, error) {
	return s.recruiters.GetRecruiterByID(ctx, recruiterID)
}

func (s *AuthService) issue(rec *models.Recruiter) (*models.AuthResponse, error) {
	token, err := utils.IssueToken(s.secret, rec.ID, rec.Email, s.ttl)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, Recruiter: *rec}, nil
}
