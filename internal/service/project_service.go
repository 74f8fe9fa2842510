package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"teamboard/internal/cache"
	apperrors "teamboard/internal/errors"
	"teamboard/internal/model"
	"teamboard/internal/repository"
)

const projectCacheTTL = 5 * time.Minute

// ProjectInput carries the writable fields of a project.
type ProjectInput struct {
	Name        string
	Description string
	Status      model.ProjectStatus
	TeamID      *uint
	StartDate   *time.Time
	DueDate     *time.Time
	Budget      decimal.Decimal
}

// ProjectService handles project operations.
type ProjectService interface {
	List(ctx context.Context, filter repository.ProjectFilter) ([]model.Project, error)
	Get(ctx context.Context, id uint) (*model.Project, error)
	Create(ctx context.Context, ownerID uint, input ProjectInput) (*model.Project, error)
	Update(ctx context.Context, id uint, input ProjectInput) (*model.Project, error)
	Delete(ctx context.Context, id uint) error
}

type projectService struct {
	repo     repository.ProjectRepository
	teamRepo repository.TeamRepository
	cache    *cache.Client
}

// NewProjectService creates a new project service.
func NewProjectService(repo repository.ProjectRepository, teamRepo repository.TeamRepository, cache *cache.Client) ProjectService {
	return &projectService{repo: repo, teamRepo: teamRepo, cache: cache}
}

func (s *projectService) cacheKey(id uint) string {
	return fmt.Sprintf("project:%d", id)
}

func (s *projectService) List(ctx context.Context, filter repository.ProjectFilter) ([]model.Project, error) {
	if filter.Status != "" && !validProjectStatus(filter.Status) {
		return nil, apperrors.ErrInvalidStatus
	}
	return s.repo.List(ctx, filter)
}

// Get retrieves a project by ID with caching.
func (s *projectService) Get(ctx context.Context, id uint) (*model.Project, error) {
	if cached, ok := cache.GetJSON[model.Project](ctx, s.cache, s.cacheKey(id)); ok {
		return &cached, nil
	}

	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrProjectNotFound)
	}

	cache.SetJSON(ctx, s.cache, s.cacheKey(id), project, projectCacheTTL)
	return project, nil
}

func (s *projectService) Create(ctx context.Context, ownerID uint, input ProjectInput) (*model.Project, error) {
	project := &model.Project{OwnerID: ownerID, Status: model.ProjectStatusPlanned}
	if err := s.apply(ctx, project, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return project, nil
}

func (s *projectService) Update(ctx context.Context, id uint, input ProjectInput) (*model.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrProjectNotFound)
	}
	if err := s.apply(ctx, project, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, apperrors.ErrProjectNotFound)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

func (s *projectService) apply(ctx context.Context, project *model.Project, input ProjectInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return apperrors.ErrBlankField
	}
	if input.Status != "" {
		if !validProjectStatus(input.Status) {
			return apperrors.ErrInvalidStatus
		}
		project.Status = input.Status
	}
	if input.Budget.IsNegative() {
		return apperrors.ErrInvalidAmount
	}
	if input.StartDate != nil && input.DueDate != nil && input.DueDate.Before(*input.StartDate) {
		return apperrors.ErrInvalidDateRange
	}
	if input.TeamID != nil {
		if _, err := s.teamRepo.FindByID(ctx, *input.TeamID); err != nil {
			return notFound(err, apperrors.ErrTeamNotFound)
		}
	}

	project.Name = name
	project.Description = input.Description
	project.TeamID = input.TeamID
	project.StartDate = input.StartDate
	project.DueDate = input.DueDate
	project.Budget = input.Budget.Round(2)
	return nil
}

func validProjectStatus(status model.ProjectStatus) bool {
	switch status {
	case model.ProjectStatusPlanned, model.ProjectStatusActive, model.ProjectStatusOnHold,
		model.ProjectStatusCompleted, model.ProjectStatusArchived:
		return true
	}
	return false
}
