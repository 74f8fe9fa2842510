package repository

import (
	"context"

	"gorm.io/gorm"

	"teamboard/internal/model"
)

// GoalRepository defines goal persistence operations.
type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	Update(ctx context.Context, goal *model.Goal) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Goal, error)
	ListByProject(ctx context.Context, projectID uint) ([]model.Goal, error)
}

type goalRepository struct {
	db *gorm.DB
}

// NewGoalRepository creates a new goal repository.
func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	return r.db.WithContext(ctx).Omit("Project").Create(goal).Error
}

func (r *goalRepository) Update(ctx context.Context, goal *model.Goal) error {
	return r.db.WithContext(ctx).Omit("Project").Save(goal).Error
}

func (r *goalRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &model.Goal{}, id)
}

func (r *goalRepository) FindByID(ctx context.Context, id uint) (*model.Goal, error) {
	var goal model.Goal
	if err := r.db.WithContext(ctx).First(&goal, id).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *goalRepository) ListByProject(ctx context.Context, projectID uint) ([]model.Goal, error) {
	var goals []model.Goal
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("id").Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}
