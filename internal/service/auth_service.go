package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"teamboard/internal/auth"
	apperrors "teamboard/internal/errors"
	"teamboard/internal/metrics"
	"teamboard/internal/model"
	"teamboard/internal/repository"
)

const bcryptCost = 10

// Session is the result of a successful login or refresh.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         *model.User
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	Logout(ctx context.Context, refreshToken string) error
}

// TokenTTLs holds the lifetimes of issued tokens.
type TokenTTLs struct {
	Access  time.Duration
	Refresh time.Duration
}

type authService struct {
	userRepo   repository.UserRepository
	codec      *auth.Codec
	tokenStore auth.TokenStoreInterface
	ttls       TokenTTLs
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	codec *auth.Codec,
	tokenStore auth.TokenStoreInterface,
	ttls TokenTTLs,
	m *metrics.Metrics,
	logger *zap.Logger,
) AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &authService{
		userRepo:   userRepo,
		codec:      codec,
		tokenStore: tokenStore,
		ttls:       ttls,
		metrics:    m,
		logger:     logger.Named("auth"),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a member account that must be approved by an admin
// before it can sign in.
func (s *authService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ErrBlankField
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         auth.RoleMember,
		Active:       true,
		Approved:     false,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID))
	return user, nil
}

// Login checks credentials and account state, then issues a session.
func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := checkAccountState(user); err != nil {
		return nil, err
	}

	return s.issueSession(ctx, user)
}

// Refresh exchanges a refresh token for a new session. The old refresh token
// is consumed whether or not a session is issued, and the user is re-read so
// role changes take effect.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	userID, err := s.tokenStore.ConsumeRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := checkAccountState(user); err != nil {
		return nil, err
	}

	return s.issueSession(ctx, user)
}

// Logout revokes a refresh token. Unknown tokens are ignored.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.tokenStore.RevokeRefreshToken(ctx, refreshToken)
}

func (s *authService) issueSession(ctx context.Context, user *model.User) (*Session, error) {
	issuedAt := time.Now()
	accessToken, err := s.codec.Issue(user.Identity(), s.ttls.Access)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	s.metrics.IncTokensIssued("access")

	refreshToken, err := s.tokenStore.IssueRefreshToken(ctx, user.ID, s.ttls.Refresh)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	s.metrics.IncTokensIssued("refresh")

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    issuedAt.Add(s.ttls.Access),
		User:         user,
	}, nil
}

func checkAccountState(user *model.User) error {
	if !user.Active {
		return apperrors.ErrAccountInactive
	}
	if !user.Approved {
		return apperrors.ErrAccountPending
	}
	return nil
}
