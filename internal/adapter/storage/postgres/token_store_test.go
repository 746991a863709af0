package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStore_EnsureSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewTokenStore(mock, "default")

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS dashboard_sessions").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	assert.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenStore_Load(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewTokenStore(mock, "default")

	mock.ExpectQuery("SELECT token FROM dashboard_sessions WHERE slot").
		WithArgs("default").
		WillReturnRows(pgxmock.NewRows([]string{"token"}).AddRow("jwt-1"))

	token, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "jwt-1", token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenStore_Load_EmptySlot(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewTokenStore(mock, "default")

	mock.ExpectQuery("SELECT token FROM dashboard_sessions WHERE slot").
		WithArgs("default").
		WillReturnError(pgx.ErrNoRows)

	token, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenStore_Load_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewTokenStore(mock, "default")

	mock.ExpectQuery("SELECT token FROM dashboard_sessions").
		WithArgs("default").
		WillReturnError(errors.New("connection reset"))

	_, err = store.Load(context.Background())
	assert.ErrorContains(t, err, "connection reset")
}

func TestTokenStore_Save(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewTokenStore(mock, "kiosk")

	mock.ExpectExec("INSERT INTO dashboard_sessions .+ ON CONFLICT \\(slot\\) DO UPDATE").
		WithArgs("kiosk", "jwt-2").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, store.Save(context.Background(), "jwt-2"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenStore_Remove(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewTokenStore(mock, "default")

	// Zero affected rows is still a successful removal.
	mock.ExpectExec("DELETE FROM dashboard_sessions WHERE slot").
		WithArgs("default").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(t, store.Remove(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenStore_Remove_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewTokenStore(mock, "default")

	mock.ExpectExec("DELETE FROM dashboard_sessions").
		WithArgs("default").
		WillReturnError(errors.New("read only transaction"))

	assert.Error(t, store.Remove(context.Background()))
}
