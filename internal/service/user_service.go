package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"teamboard/internal/auth"
	"teamboard/internal/cache"
	apperrors "teamboard/internal/errors"
	"teamboard/internal/model"
	"teamboard/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// ProfileUpdate changes the caller's own record. Nil fields are left as is.
type ProfileUpdate struct {
	Name     *string
	Password *string
}

// UserService exposes user administration and self-service operations.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
	ListUsers(ctx context.Context, filter repository.UserFilter) ([]model.User, error)
	Approve(ctx context.Context, id uint) (*model.User, error)
	SetRole(ctx context.Context, id uint, role auth.Role) (*model.User, error)
	SetActive(ctx context.Context, id uint, active bool) (*model.User, error)
	UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*model.User, error)
}

type userService struct {
	repo          repository.UserRepository
	cache         *cache.Client
	notifications NotificationService
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client, notifications NotificationService) UserService {
	return &userService{repo: repo, cache: cache, notifications: notifications}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	if cached, ok := cache.GetJSON[model.User](ctx, s.cache, s.cacheKey(id)); ok {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}

	cache.SetJSON(ctx, s.cache, s.cacheKey(id), user, userCacheTTL)
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]model.User, error) {
	return s.repo.List(ctx, filter)
}

// Approve lets a registered user sign in and notifies them.
func (s *userService) Approve(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.mutate(ctx, id, func(u *model.User) error {
		u.Approved = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifications.Notify(ctx, user.ID, model.NotificationAccountApproved,
		"Account approved", "Your account has been approved. You can now sign in.")
	return user, nil
}

// SetRole changes a user's role. Tokens issued earlier keep the old role
// until they expire.
func (s *userService) SetRole(ctx context.Context, id uint, role auth.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, apperrors.ErrInvalidRole
	}
	return s.mutate(ctx, id, func(u *model.User) error {
		u.Role = role
		return nil
	})
}

func (s *userService) SetActive(ctx context.Context, id uint, active bool) (*model.User, error) {
	return s.mutate(ctx, id, func(u *model.User) error {
		u.Active = active
		return nil
	})
}

func (s *userService) UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*model.User, error) {
	return s.mutate(ctx, id, func(u *model.User) error {
		if update.Name != nil {
			name := strings.TrimSpace(*update.Name)
			if name == "" {
				return apperrors.ErrBlankField
			}
			u.Name = name
		}
		if update.Password != nil {
			hashed, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcryptCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			u.PasswordHash = string(hashed)
		}
		return nil
	})
}

func (s *userService) mutate(ctx context.Context, id uint, apply func(*model.User) error) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	if err := apply(user); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}
