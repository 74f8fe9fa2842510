package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"teamboard/internal/auth"
	"teamboard/internal/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gormDB, mock
}

func TestUserRepository_FindByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "active", "approved"}).
		AddRow(4, "Ada", "ada@example.com", "hash", "admin", true, true)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE email = ?")).
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, uint(4), user.ID)
	assert.Equal(t, auth.RoleAdmin, user.Role)
	assert.True(t, user.Approved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE `users`.`id` = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ListFilters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	pending := false
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE approved = ? ORDER BY id")).
		WithArgs(false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow(2, "new@example.com"))

	users, err := repo.List(context.Background(), UserFilter{Approved: &pending})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "new@example.com", users[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `users`")).
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectCommit()

	user := &model.User{Name: "Grace", Email: "grace@example.com", PasswordHash: "x", Role: auth.RoleMember}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, uint(12), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_UpdateStatusMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `tasks` SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateStatus(context.Background(), 5, model.TaskStatusDone)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_DeleteIsSoft(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `tasks` SET `deleted_at`=?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_ListByAssignee(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	assignee := uint(8)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `tasks` WHERE assignee_id = ? AND status = ?")).
		WithArgs(assignee, model.TaskStatusInProgress).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status"}).AddRow(1, "Write docs", "in_progress"))

	tasks, err := repo.List(context.Background(), TaskFilter{AssigneeID: &assignee, Status: model.TaskStatusInProgress})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, model.TaskStatusInProgress, tasks[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkRead(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `notifications` SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := repo.MarkRead(context.Background(), 1, 2, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_CountUnread(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMessageRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `messages` WHERE recipient_id = ? AND read_at IS NULL")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountUnread(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
