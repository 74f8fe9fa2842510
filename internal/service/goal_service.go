package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "teamboard/internal/errors"
	"teamboard/internal/model"
	"teamboard/internal/repository"
)

// GoalInput carries the writable fields of a goal. ProjectID is only used on
// create.
type GoalInput struct {
	ProjectID    uint
	Title        string
	Description  string
	TargetValue  decimal.Decimal
	CurrentValue decimal.Decimal
	Unit         string
	DueDate      *time.Time
}

// GoalService handles goal operations.
type GoalService interface {
	ListByProject(ctx context.Context, projectID uint) ([]model.Goal, error)
	Create(ctx context.Context, input GoalInput) (*model.Goal, error)
	Update(ctx context.Context, id uint, input GoalInput) (*model.Goal, error)
	UpdateProgress(ctx context.Context, id uint, current decimal.Decimal) (*model.Goal, error)
	Delete(ctx context.Context, id uint) error
}

type goalService struct {
	repo        repository.GoalRepository
	projectRepo repository.ProjectRepository
}

// NewGoalService creates a new goal service.
func NewGoalService(repo repository.GoalRepository, projectRepo repository.ProjectRepository) GoalService {
	return &goalService{repo: repo, projectRepo: projectRepo}
}

func (s *goalService) ListByProject(ctx context.Context, projectID uint) ([]model.Goal, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, notFound(err, apperrors.ErrProjectNotFound)
	}
	return s.repo.ListByProject(ctx, projectID)
}

func (s *goalService) Create(ctx context.Context, input GoalInput) (*model.Goal, error) {
	if _, err := s.projectRepo.FindByID(ctx, input.ProjectID); err != nil {
		return nil, notFound(err, apperrors.ErrProjectNotFound)
	}

	goal := &model.Goal{ProjectID: input.ProjectID}
	if err := applyGoal(goal, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	return goal, nil
}

func (s *goalService) Update(ctx context.Context, id uint, input GoalInput) (*model.Goal, error) {
	goal, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyGoal(goal, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, goal); err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return goal, nil
}

// UpdateProgress records the goal's current value.
func (s *goalService) UpdateProgress(ctx context.Context, id uint, current decimal.Decimal) (*model.Goal, error) {
	if current.IsNegative() {
		return nil, apperrors.ErrInvalidAmount
	}
	goal, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	goal.CurrentValue = current.Round(2)
	if err := s.repo.Update(ctx, goal); err != nil {
		return nil, fmt.Errorf("update goal progress: %w", err)
	}
	return goal, nil
}

func (s *goalService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, apperrors.ErrGoalNotFound)
	}
	return nil
}

func (s *goalService) find(ctx context.Context, id uint) (*model.Goal, error) {
	goal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrGoalNotFound)
	}
	return goal, nil
}

func applyGoal(goal *model.Goal, input GoalInput) error {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return apperrors.ErrBlankField
	}
	if !input.TargetValue.IsPositive() || input.CurrentValue.IsNegative() {
		return apperrors.ErrInvalidAmount
	}
	goal.Title = title
	goal.Description = input.Description
	goal.TargetValue = input.TargetValue.Round(2)
	goal.CurrentValue = input.CurrentValue.Round(2)
	goal.Unit = input.Unit
	goal.DueDate = input.DueDate
	return nil
}
