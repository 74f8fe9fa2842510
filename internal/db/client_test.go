package db

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
)

func newMockClient(t *testing.T) (*Client, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	dialector := mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true})
	return NewWithDialector(dialector, nil), mock
}

func TestClient_ConnectIsIdempotent(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectPing()

	first, err := client.Connect(context.Background())
	require.NoError(t, err)
	second, err := client.Connect(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_ConnectHonoursCancelledContext(t *testing.T) {
	client, mock := newMockClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Connect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_Ping(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectPing()
	mock.ExpectPing()

	require.NoError(t, client.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_CloseWithoutConnect(t *testing.T) {
	client, _ := newMockClient(t)
	assert.NoError(t, client.Close())
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New("sqlite", "file::memory:", nil)
	assert.Error(t, err)
}
