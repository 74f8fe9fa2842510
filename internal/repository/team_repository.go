package repository

import (
	"context"

	"gorm.io/gorm"

	"teamboard/internal/model"
)

// TeamRepository defines team persistence operations.
type TeamRepository interface {
	Create(ctx context.Context, team *model.Team) error
	Update(ctx context.Context, team *model.Team) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Team, error)
	FindByName(ctx context.Context, name string) (*model.Team, error)
	List(ctx context.Context) ([]model.Team, error)
	AddMember(ctx context.Context, team *model.Team, user *model.User) error
	RemoveMember(ctx context.Context, team *model.Team, user *model.User) error
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new team repository.
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

// Create creates a new team.
func (r *teamRepository) Create(ctx context.Context, team *model.Team) error {
	return r.db.WithContext(ctx).Omit("Members", "Lead").Create(team).Error
}

// Update saves the team's own columns. Membership is managed separately.
func (r *teamRepository) Update(ctx context.Context, team *model.Team) error {
	return r.db.WithContext(ctx).Omit("Members", "Lead").Save(team).Error
}

// Delete soft deletes a team.
func (r *teamRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &model.Team{}, id)
}

// FindByID loads a team with its lead and members.
func (r *teamRepository) FindByID(ctx context.Context, id uint) (*model.Team, error) {
	var team model.Team
	if err := r.db.WithContext(ctx).Preload("Lead").Preload("Members").First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// FindByName finds a team by its unique name.
func (r *teamRepository) FindByName(ctx context.Context, name string) (*model.Team, error) {
	var team model.Team
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// List lists all teams without members.
func (r *teamRepository) List(ctx context.Context) ([]model.Team, error) {
	var teams []model.Team
	if err := r.db.WithContext(ctx).Order("name").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// AddMember links user to team. Adding an existing member is a no-op.
func (r *teamRepository) AddMember(ctx context.Context, team *model.Team, user *model.User) error {
	return r.db.WithContext(ctx).Model(team).Association("Members").Append(user)
}

// RemoveMember unlinks user from team.
func (r *teamRepository) RemoveMember(ctx context.Context, team *model.Team, user *model.User) error {
	return r.db.WithContext(ctx).Model(team).Association("Members").Delete(user)
}

// deleteByID soft deletes the row with id and reports gorm.ErrRecordNotFound
// when nothing matched.
func deleteByID(ctx context.Context, db *gorm.DB, value interface{}, id uint) error {
	res := db.WithContext(ctx).Delete(value, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
