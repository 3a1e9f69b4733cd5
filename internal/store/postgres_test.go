package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicxzdev/daily-diet-api/internal/models"
	"github.com/nicxzdev/daily-diet-api/internal/store"
)

func newMockStore(t *testing.T) (*store.PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return store.NewPostgresStore(mock), mock
}

func TestCreateUser(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("tok-1", "testName", "e@x.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow("user-1", now))

	u, err := s.CreateUser(context.Background(), "testName", "e@x.com", "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", u.ID)
	assert.Equal(t, "tok-1", u.SessionID)
	assert.Equal(t, "e@x.com", u.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("tok-1", "testName", "e@x.com").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := s.CreateUser(context.Background(), "testName", "e@x.com", "tok-1")
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserBySessionNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM users WHERE session_id`).
		WithArgs("unknown-token").
		WillReturnError(pgx.ErrNoRows)

	u, err := s.UserBySession(context.Background(), "unknown-token")
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserByEmailNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM users WHERE email`).
		WithArgs("nobody@x.com").
		WillReturnError(pgx.ErrNoRows)

	u, err := s.UserByEmail(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMealScopedByOwner(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`FROM meals WHERE user_id`).
		WithArgs("user-1", "meal-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "name", "description", "on_diet", "date", "created_at"}).
			AddRow("meal-1", "user-1", "Jantar", "desc", true, now, now))

	m, err := s.GetMeal(context.Background(), "user-1", "meal-1")
	require.NoError(t, err)
	assert.Equal(t, "meal-1", m.ID)
	assert.Equal(t, "user-1", m.UserID)
	assert.True(t, m.OnDiet)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMealNotOwned(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM meals WHERE user_id`).
		WithArgs("user-1", "meal-of-someone-else").
		WillReturnError(pgx.ErrNoRows)

	m, err := s.GetMeal(context.Background(), "user-1", "meal-of-someone-else")
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMealsByDateOrders(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`FROM meals WHERE user_id .* ORDER BY date ASC`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "name", "description", "on_diet", "date", "created_at"}).
			AddRow("meal-1", "user-1", "Almoço", "d", true, now.Add(-time.Hour), now).
			AddRow("meal-2", "user-1", "Jantar", "d", false, now, now))

	meals, err := s.ListMealsByDate(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, meals, 2)
	assert.Equal(t, "Almoço", meals[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMealScopedByOwner(t *testing.T) {
	s, mock := newMockStore(t)
	date := time.Now()

	mock.ExpectExec(`UPDATE meals SET`).
		WithArgs("New name", "desc", true, date, "user-1", "meal-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.UpdateMeal(context.Background(), &models.Meal{
		ID:          "meal-1",
		UserID:      "user-1",
		Name:        "New name",
		Description: "desc",
		OnDiet:      true,
		Date:        date,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMealScopedByOwner(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM meals WHERE user_id`).
		WithArgs("user-1", "meal-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := s.DeleteMeal(context.Background(), "user-1", "meal-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
