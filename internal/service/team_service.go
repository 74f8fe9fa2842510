package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "teamboard/internal/errors"
	"teamboard/internal/model"
	"teamboard/internal/repository"
)

// TeamInput carries the writable fields of a team.
type TeamInput struct {
	Name        string
	Description string
	LeadID      *uint
}

// TeamService handles team operations.
type TeamService interface {
	List(ctx context.Context) ([]model.Team, error)
	Get(ctx context.Context, id uint) (*model.Team, error)
	Create(ctx context.Context, input TeamInput) (*model.Team, error)
	Update(ctx context.Context, id uint, input TeamInput) (*model.Team, error)
	Delete(ctx context.Context, id uint) error
	AddMember(ctx context.Context, teamID, userID uint) (*model.Team, error)
	RemoveMember(ctx context.Context, teamID, userID uint) (*model.Team, error)
}

type teamService struct {
	repo          repository.TeamRepository
	userRepo      repository.UserRepository
	notifications NotificationService
}

// NewTeamService creates a new team service.
func NewTeamService(repo repository.TeamRepository, userRepo repository.UserRepository, notifications NotificationService) TeamService {
	return &teamService{repo: repo, userRepo: userRepo, notifications: notifications}
}

func (s *teamService) List(ctx context.Context) ([]model.Team, error) {
	return s.repo.List(ctx)
}

func (s *teamService) Get(ctx context.Context, id uint) (*model.Team, error) {
	team, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrTeamNotFound)
	}
	return team, nil
}

func (s *teamService) Create(ctx context.Context, input TeamInput) (*model.Team, error) {
	team := &model.Team{}
	if err := s.apply(ctx, team, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("create team: %w", err)
	}
	return team, nil
}

func (s *teamService) Update(ctx context.Context, id uint, input TeamInput) (*model.Team, error) {
	team, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, team, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("update team: %w", err)
	}
	return team, nil
}

func (s *teamService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, apperrors.ErrTeamNotFound)
	}
	return nil
}

// AddMember adds a user to a team and notifies them.
func (s *teamService) AddMember(ctx context.Context, teamID, userID uint) (*model.Team, error) {
	team, user, err := s.load(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddMember(ctx, team, user); err != nil {
		return nil, fmt.Errorf("add team member: %w", err)
	}
	s.notifications.Notify(ctx, user.ID, model.NotificationTeamAdded,
		"Added to team", fmt.Sprintf("You were added to team %q.", team.Name))
	return s.Get(ctx, teamID)
}

func (s *teamService) RemoveMember(ctx context.Context, teamID, userID uint) (*model.Team, error) {
	team, user, err := s.load(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveMember(ctx, team, user); err != nil {
		return nil, fmt.Errorf("remove team member: %w", err)
	}
	return s.Get(ctx, teamID)
}

func (s *teamService) load(ctx context.Context, teamID, userID uint) (*model.Team, *model.User, error) {
	team, err := s.Get(ctx, teamID)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, notFound(err, apperrors.ErrUserNotFound)
	}
	return team, user, nil
}

// apply validates input against the store and copies it onto team.
func (s *teamService) apply(ctx context.Context, team *model.Team, input TeamInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return apperrors.ErrBlankField
	}
	existing, err := s.repo.FindByName(ctx, name)
	switch {
	case err == nil && existing.ID != team.ID:
		return apperrors.ErrTeamAlreadyExists
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("check team name: %w", err)
	}

	if input.LeadID != nil {
		if _, err := s.userRepo.FindByID(ctx, *input.LeadID); err != nil {
			return notFound(err, apperrors.ErrUserNotFound)
		}
	}

	team.Name = name
	team.Description = input.Description
	team.LeadID = input.LeadID
	team.Lead = nil
	return nil
}
