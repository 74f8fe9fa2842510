package repository

import (
	"context"

	"gorm.io/gorm"

	"teamboard/internal/model"
)

// ProjectFilter narrows List. Zero values are not applied.
type ProjectFilter struct {
	Status model.ProjectStatus
	TeamID *uint
}

// ProjectRepository defines project persistence operations.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]model.Project, error)
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// Create creates a new project.
func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Omit("Owner", "Team").Create(project).Error
}

// Update updates an existing project.
func (r *projectRepository) Update(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Omit("Owner", "Team").Save(project).Error
}

// Delete soft deletes a project.
func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &model.Project{}, id)
}

// FindByID finds a project by ID.
func (r *projectRepository) FindByID(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List lists projects, newest first.
func (r *projectRepository) List(ctx context.Context, filter ProjectFilter) ([]model.Project, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.TeamID != nil {
		q = q.Where("team_id = ?", *filter.TeamID)
	}

	var projects []model.Project
	if err := q.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}
