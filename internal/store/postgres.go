package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nicxzdev/daily-diet-api/internal/models"
)

// ErrDuplicateEmail is returned when an insert hits the unique constraint
// on users.email.
var ErrDuplicateEmail = errors.New("email already registered")

// Querier is the subset of pgxpool.Pool the store needs. *pgxpool.Pool
// satisfies it, as do mock pools in tests.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore handles user and meal persistence.
type PostgresStore struct {
	pool Querier
}

func NewPostgresStore(pool Querier) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the users and meals tables if they don't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			session_id UUID         NOT NULL,
			name       VARCHAR(255) NOT NULL,
			email      VARCHAR(255) UNIQUE NOT NULL,
			created_at TIMESTAMPTZ  DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS meals (
			id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id     UUID         NOT NULL REFERENCES users (id),
			name        VARCHAR(255) NOT NULL,
			description TEXT         NOT NULL,
			on_diet     BOOLEAN      NOT NULL,
			date        TIMESTAMPTZ  NOT NULL,
			created_at  TIMESTAMPTZ  DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_session_id ON users (session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_meals_user_id ON meals (user_id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, name, email, sessionID string) (*models.User, error) {
	u := models.User{Name: name, Email: email, SessionID: sessionID}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (session_id, name, email)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		sessionID, name, email,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// UserByEmail returns nil, nil when no user has the given email.
func (s *PostgresStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, session_id, name, email, created_at FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.SessionID, &u.Name, &u.Email, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UserBySession resolves a session token to its user. Returns nil, nil when
// the token matches no user.
func (s *PostgresStore) UserBySession(ctx context.Context, token string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, session_id, name, email, created_at FROM users WHERE session_id = $1`, token,
	).Scan(&u.ID, &u.SessionID, &u.Name, &u.Email, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateMeal inserts the meal and fills in the generated id and timestamp.
func (s *PostgresStore) CreateMeal(ctx context.Context, m *models.Meal) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO meals (user_id, name, description, on_diet, date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		m.UserID, m.Name, m.Description, m.OnDiet, m.Date,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create meal: %w", err)
	}
	return nil
}

// ListMeals returns the user's meals in store-default order.
func (s *PostgresStore) ListMeals(ctx context.Context, userID string) ([]models.Meal, error) {
	return s.listMeals(ctx,
		`SELECT id, user_id, name, description, on_diet, date, created_at
		 FROM meals WHERE user_id = $1`, userID)
}

// ListMealsByDate returns the user's meals ordered by date ascending,
// the order the metrics computation requires.
func (s *PostgresStore) ListMealsByDate(ctx context.Context, userID string) ([]models.Meal, error) {
	return s.listMeals(ctx,
		`SELECT id, user_id, name, description, on_diet, date, created_at
		 FROM meals WHERE user_id = $1 ORDER BY date ASC`, userID)
}

func (s *PostgresStore) listMeals(ctx context.Context, query, userID string) ([]models.Meal, error) {
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meals []models.Meal
	for rows.Next() {
		var m models.Meal
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Description, &m.OnDiet, &m.Date, &m.CreatedAt); err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

// GetMeal looks up a meal scoped by owner and id. Returns nil, nil when no
// meal matches, including when the meal belongs to another user.
func (s *PostgresStore) GetMeal(ctx context.Context, userID, id string) (*models.Meal, error) {
	var m models.Meal
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, name, description, on_diet, date, created_at
		 FROM meals WHERE user_id = $1 AND id = $2`, userID, id,
	).Scan(&m.ID, &m.UserID, &m.Name, &m.Description, &m.OnDiet, &m.Date, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateMeal replaces the mutable fields. The statement is scoped by owner
// and id so a concurrent request can never touch another user's row.
func (s *PostgresStore) UpdateMeal(ctx context.Context, m *models.Meal) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE meals SET name = $1, description = $2, on_diet = $3, date = $4
		 WHERE user_id = $5 AND id = $6`,
		m.Name, m.Description, m.OnDiet, m.Date, m.UserID, m.ID,
	)
	if err != nil {
		return fmt.Errorf("update meal: %w", err)
	}
	return nil
}

// DeleteMeal removes the meal, scoped by owner and id.
func (s *PostgresStore) DeleteMeal(ctx context.Context, userID, id string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM meals WHERE user_id = $1 AND id = $2`, userID, id,
	)
	if err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	return nil
}
