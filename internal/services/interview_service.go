package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mockwiseai/backend/internal/models"
	"github.com/mockwiseai/backend/internal/utils"

	"github.com/google/uuid"
)

// link collisions are astronomically unlikely; retry a few times anyway
const linkAttempts = 3

type InterviewService struct {
	interviews InterviewStore
	newLink    func() (string, error)
}

func NewInterviewService(interviews InterviewStore) *InterviewService {
	return &InterviewService{interviews: interviews, newLink: utils.NewToken}
}

func (s *InterviewService) Create(ctx context.Context, recruiterID string, req *models.InterviewRequest) (*models.Interview, error) {
	iv := &models.Interview{
		ID:           uuid.NewString(),
		RecruiterID:  recruiterID,
		Candidates:   []models.CandidateEntry{},
		ScheduleDate: req.ScheduleDate,
	}
	applyRequest(iv, req)
	if iv.Status == "" {
		iv.Status = models.InterviewDraft
	}

	for attempt := 0; ; attempt++ {
		link, err := s.newLink()
		if err != nil {
			return nil, fmt.Errorf("generate interview link: %w", err)
		}
		iv.UniqueLink = link
		err = s.interviews.CreateInterview(ctx, iv)
		if err == nil {
			return iv, nil
		}
		if !errors.Is(err, models.ErrConflict) || attempt+1 >= linkAttempts {
			return nil, err
		}
	}
}

// GetOwned loads an interview and checks it belongs to recruiterID.
func (s *InterviewService) GetOwned(ctx context.Context, id, recruiterID string) (*models.Interview, error) {
	iv, err := s.interviews.GetInterview(ctx, id)
	if err != nil {
		return nil, err
	}
	if iv.RecruiterID != recruiterID {
		return nil, models.NewOpError("get interview", models.ErrForbidden, "interview belongs to another recruiter")
	}
	return iv, nil
}

func (s *InterviewService) List(ctx context.Context, recruiterID string) ([]models.Interview, error) {
	return s.interviews.ListInterviews(ctx, recruiterID)
}

// Update replaces the editable fields. Candidates and the link are kept.
func (s *InterviewService) Update(ctx context.Context, id, recruiterID string, req *models.InterviewRequest) (*models.Interview, error) {
	iv, err := s.GetOwned(ctx, id, recruiterID)
	if err != nil {
		return nil, err
	}
	applyRequest(iv, req)
	iv.ScheduleDate = req.ScheduleDate
	if err := s.interviews.UpdateInterview(ctx, iv); err != nil {
		return nil, err
	}
	return iv, nil
}

func (s *InterviewService) Delete(ctx context.Context, id, recruiterID string) error {
	if _, err := s.GetOwned(ctx, id, recruiterID); err != nil {
		return err
	}
	return s.interviews.DeleteInterview(ctx, id)
}

// RegenerateLink gives the interview a fresh unique link, invalidating the
// old one.
func (s *InterviewService) RegenerateLink(ctx context.Context, id, recruiterID string) (*models.Interview, error) {
	iv, err := s.GetOwned(ctx, id, recruiterID)
	if err != nil {
		return nil, err
	}
	for attempt := 0; ; attempt++ {
		link, err := s.newLink()
		if err != nil {
			return nil, fmt.Errorf("generate interview link: %w", err)
		}
		iv.UniqueLink = link
		err = s.interviews.UpdateInterview(ctx, iv)
		if err == nil {
			return iv, nil
		}
		if !errors.Is(err, models.ErrConflict) || attempt+1 >= linkAttempts {
			return nil, err
		}
	}
}

func applyRequest(iv *models.Interview, req *models.InterviewRequest) {
	iv.Title = strings.TrimSpace(req.Title)
	iv.JobRole = strings.TrimSpace(req.JobRole)
	iv.TotalTime = req.TotalTime
	iv.Questions = append([]models.QuestionRef{}, req.Questions...)
	if req.Status != "" {
		iv.Status = req.Status
	}
}
