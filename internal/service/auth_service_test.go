package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"teamboard/internal/auth"
	"teamboard/internal/cache"
	apperrors "teamboard/internal/errors"
	"teamboard/internal/model"
)

const testSecret = "service-test-secret-0123456789abcdefgh"

var testTTLs = TokenTTLs{Access: time.Hour, Refresh: 24 * time.Hour}

func newTestAuthService(repo *MockUserRepository, store auth.TokenStoreInterface) AuthService {
	return NewAuthService(repo, auth.NewCodec(testSecret), store, testTTLs, nil, nil)
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:  "successful registration",
			email: "Test@Example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:  "user already exists",
			email: "existing@example.com",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := newTestAuthService(mockRepo, new(MockTokenStore))
			user, err := svc.Register(context.Background(), "Test User", tt.email, "password123")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "test@example.com", user.Email)
				assert.Equal(t, auth.RoleMember, user.Role)
				assert.False(t, user.Approved)
				assert.True(t, user.Active)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_RegisterDatabaseError(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "a@example.com").Return(nil, errors.New("connection refused"))

	_, err := newTestAuthService(mockRepo, new(MockTokenStore)).Register(context.Background(), "A", "a@example.com", "password123")

	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrUserAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	password := "password123"
	approved := &model.User{ID: 7, Email: "test@example.com", PasswordHash: hashed(t, password), Role: auth.RoleTeamLead, Active: true, Approved: true}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: password,
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(approved, nil)
				mToken.On("IssueRefreshToken", mock.Anything, uint(7), testTTLs.Refresh).Return("refresh-1", nil)
			},
		},
		{
			name:     "invalid credentials - user not found",
			email:    "notfound@example.com",
			password: password,
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "invalid credentials - wrong password",
			email:    "test@example.com",
			password: "wrong-password",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(approved, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "pending approval",
			email:    "new@example.com",
			password: password,
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "new@example.com").Return(&model.User{
					ID: 8, Email: "new@example.com", PasswordHash: hashed(t, password), Role: auth.RoleMember, Active: true,
				}, nil)
			},
			expectedError: apperrors.ErrAccountPending,
		},
		{
			name:     "deactivated",
			email:    "gone@example.com",
			password: password,
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "gone@example.com").Return(&model.User{
					ID: 9, Email: "gone@example.com", PasswordHash: hashed(t, password), Role: auth.RoleMember, Approved: true,
				}, nil)
			},
			expectedError: apperrors.ErrAccountInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			session, err := newTestAuthService(mockRepo, mockTokenStore).Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, session)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "refresh-1", session.RefreshToken)
				assert.Equal(t, approved, session.User)

				res := auth.NewVerifier(testSecret).Verify(session.AccessToken)
				require.True(t, res.Success, res.Err)
				assert.Equal(t, approved.Identity(), res.User)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	user := &model.User{ID: 3, Email: "r@example.com", Role: auth.RoleAdmin, Active: true, Approved: true}

	t.Run("rotates token", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("ConsumeRefreshToken", mock.Anything, "old").Return(uint(3), nil).Once()
		mockRepo.On("FindByID", mock.Anything, uint(3)).Return(user, nil)
		mockTokenStore.On("IssueRefreshToken", mock.Anything, uint(3), testTTLs.Refresh).Return("new", nil)

		session, err := newTestAuthService(mockRepo, mockTokenStore).Refresh(context.Background(), "old")

		require.NoError(t, err)
		assert.Equal(t, "new", session.RefreshToken)
		assert.NotEmpty(t, session.AccessToken)
		mockRepo.AssertExpectations(t)
		mockTokenStore.AssertExpectations(t)
		mockTokenStore.AssertNotCalled(t, "RevokeRefreshToken", mock.Anything, mock.Anything)
	})

	t.Run("unknown token", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("ConsumeRefreshToken", mock.Anything, "nope").Return(uint(0), auth.ErrRefreshTokenNotFound)

		_, err := newTestAuthService(new(MockUserRepository), mockTokenStore).Refresh(context.Background(), "nope")

		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})

	t.Run("user deleted", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("ConsumeRefreshToken", mock.Anything, "old").Return(uint(3), nil)
		mockRepo.On("FindByID", mock.Anything, uint(3)).Return(nil, gorm.ErrRecordNotFound)

		_, err := newTestAuthService(mockRepo, mockTokenStore).Refresh(context.Background(), "old")

		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
		mockTokenStore.AssertNotCalled(t, "IssueRefreshToken", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthService_RefreshConcurrentUseRotatesOnce(t *testing.T) {
	user := &model.User{ID: 3, Email: "r@example.com", Role: auth.RoleMember, Active: true, Approved: true}
	mr := miniredis.RunT(t)
	store := auth.NewTokenStore(cache.New(mr.Addr(), "", 0, nil))
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, uint(3)).Return(user, nil)
	svc := newTestAuthService(mockRepo, store)

	token, err := store.IssueRefreshToken(context.Background(), 3, time.Hour)
	require.NoError(t, err)

	const callers = 8
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Refresh(context.Background(), token); err == nil {
				succeeded.Add(1)
			} else {
				assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.False(t, mr.Exists("refresh_token:"+token))
}

func TestAuthService_Logout(t *testing.T) {
	mockTokenStore := new(MockTokenStore)
	mockTokenStore.On("RevokeRefreshToken", mock.Anything, "tok").Return(nil)
	svc := newTestAuthService(new(MockUserRepository), mockTokenStore)

	require.NoError(t, svc.Logout(context.Background(), ""))
	require.NoError(t, svc.Logout(context.Background(), "tok"))

	mockTokenStore.AssertNumberOfCalls(t, "RevokeRefreshToken", 1)
}
