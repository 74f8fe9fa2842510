package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"teamboard/internal/auth"
	apperrors "teamboard/internal/errors"
	"teamboard/internal/metrics"
	"teamboard/internal/model"
	"teamboard/internal/repository"
)

// TaskInput carries the writable fields of a task. ProjectID is only used on
// create.
type TaskInput struct {
	ProjectID     uint
	Title         string
	Description   string
	Priority      model.TaskPriority
	AssigneeID    *uint
	DueDate       *time.Time
	EstimateHours decimal.Decimal
}

// TaskService handles task operations.
type TaskService interface {
	ListByProject(ctx context.Context, projectID uint, filter repository.TaskFilter) ([]model.Task, error)
	ListAssigned(ctx context.Context, userID uint) ([]model.Task, error)
	Get(ctx context.Context, id uint) (*model.Task, error)
	Create(ctx context.Context, creatorID uint, input TaskInput) (*model.Task, error)
	Update(ctx context.Context, id uint, input TaskInput) (*model.Task, error)
	UpdateStatus(ctx context.Context, actor auth.Identity, id uint, status model.TaskStatus) (*model.Task, error)
	Delete(ctx context.Context, id uint) error
}

type taskService struct {
	repo          repository.TaskRepository
	projectRepo   repository.ProjectRepository
	userRepo      repository.UserRepository
	notifications NotificationService
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewTaskService creates a new task service.
func NewTaskService(
	repo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	notifications NotificationService,
	m *metrics.Metrics,
	logger *zap.Logger,
) TaskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &taskService{
		repo:          repo,
		projectRepo:   projectRepo,
		userRepo:      userRepo,
		notifications: notifications,
		metrics:       m,
		logger:        logger.Named("tasks"),
	}
}

func (s *taskService) ListByProject(ctx context.Context, projectID uint, filter repository.TaskFilter) ([]model.Task, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, notFound(err, apperrors.ErrProjectNotFound)
	}
	if filter.Status != "" && !validTaskStatus(filter.Status) {
		return nil, apperrors.ErrInvalidStatus
	}
	filter.ProjectID = &projectID
	return s.repo.List(ctx, filter)
}

func (s *taskService) ListAssigned(ctx context.Context, userID uint) ([]model.Task, error) {
	return s.repo.List(ctx, repository.TaskFilter{AssigneeID: &userID})
}

func (s *taskService) Get(ctx context.Context, id uint) (*model.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrTaskNotFound)
	}
	return task, nil
}

// Create adds a task to a project and notifies the assignee.
func (s *taskService) Create(ctx context.Context, creatorID uint, input TaskInput) (*model.Task, error) {
	if _, err := s.projectRepo.FindByID(ctx, input.ProjectID); err != nil {
		return nil, notFound(err, apperrors.ErrProjectNotFound)
	}

	task := &model.Task{
		ProjectID: input.ProjectID,
		CreatorID: creatorID,
		Status:    model.TaskStatusTodo,
		Priority:  model.TaskPriorityMedium,
	}
	if err := s.apply(ctx, task, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.metrics.IncTasksCreated()

	if task.AssigneeID != nil && *task.AssigneeID != creatorID {
		s.notifyAssigned(ctx, task)
	}
	return task, nil
}

// Update replaces the task's fields. A new assignee is notified.
func (s *taskService) Update(ctx context.Context, id uint, input TaskInput) (*model.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := task.AssigneeID

	if err := s.apply(ctx, task, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	if task.AssigneeID != nil && (previous == nil || *previous != *task.AssigneeID) {
		s.notifyAssigned(ctx, task)
	}
	return task, nil
}

// UpdateStatus moves a task to status. Admins and team leads may move any
// task; members only the tasks assigned to them.
func (s *taskService) UpdateStatus(ctx context.Context, actor auth.Identity, id uint, status model.TaskStatus) (*model.Task, error) {
	if !validTaskStatus(status) {
		return nil, apperrors.ErrInvalidStatus
	}

	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if auth.AuthorizeAny(actor, auth.RoleAdmin, auth.RoleTeamLead) != nil {
		if task.AssigneeID == nil || *task.AssigneeID != actor.UserID {
			return nil, apperrors.ErrNotTaskAssignee
		}
	}
	if task.Status == status {
		return task, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, notFound(err, apperrors.ErrTaskNotFound)
	}
	task.Status = status
	s.metrics.IncTaskTransition(string(status))
	s.logger.Debug("task status changed",
		zap.Uint("task_id", id),
		zap.String("status", string(status)),
		zap.Uint("actor_id", actor.UserID),
	)

	if task.CreatorID != actor.UserID {
		s.notifications.Notify(ctx, task.CreatorID, model.NotificationTaskStatus,
			"Task status changed", fmt.Sprintf("Task %q is now %s.", task.Title, status))
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, apperrors.ErrTaskNotFound)
	}
	return nil
}

func (s *taskService) notifyAssigned(ctx context.Context, task *model.Task) {
	s.notifications.Notify(ctx, *task.AssigneeID, model.NotificationTaskAssigned,
		"New task assigned", fmt.Sprintf("You were assigned %q.", task.Title))
}

func (s *taskService) apply(ctx context.Context, task *model.Task, input TaskInput) error {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return apperrors.ErrBlankField
	}
	if input.Priority != "" {
		if !validTaskPriority(input.Priority) {
			return apperrors.ErrInvalidPriority
		}
		task.Priority = input.Priority
	}
	if input.EstimateHours.IsNegative() {
		return apperrors.ErrInvalidAmount
	}
	if input.AssigneeID != nil {
		if _, err := s.userRepo.FindByID(ctx, *input.AssigneeID); err != nil {
			return notFound(err, apperrors.ErrUserNotFound)
		}
	}

	task.Title = title
	task.Description = input.Description
	task.AssigneeID = input.AssigneeID
	task.DueDate = input.DueDate
	task.EstimateHours = input.EstimateHours.Round(2)
	return nil
}

func validTaskStatus(status model.TaskStatus) bool {
	switch status {
	case model.TaskStatusTodo, model.TaskStatusInProgress, model.TaskStatusReview, model.TaskStatusDone:
		return true
	}
	return false
}

func validTaskPriority(p model.TaskPriority) bool {
	switch p {
	case model.TaskPriorityLow, model.TaskPriorityMedium, model.TaskPriorityHigh, model.TaskPriorityUrgent:
		return true
	}
	return false
}
