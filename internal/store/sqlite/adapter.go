package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/agleymelo/daily-diet-api/internal/model"
	"github.com/agleymelo/daily-diet-api/internal/store"
)

// NewWithDB wires a store.Store over an existing SQLite connection (used by factory).
func NewWithDB(db *sql.DB) store.Store { return &sqliteStore{db: db} }

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Users() store.Users { return &users{db: s.db} }
func (s *sqliteStore) Meals() store.Meals { return &meals{db: s.db} }
func (s *sqliteStore) Close() error       { return s.db.Close() }

// HealthPing implements health.HealthPinger.
func (s *sqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		switch sqErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %s", model.ErrConflict, sqErr.Error())
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %s", model.ErrNotFound, sqErr.Error())
		}
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %s", model.ErrConflict, err.Error())
	}
	return err
}

// --- Users ---
type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	out := *m
	if out.UserID == "" {
		out.UserID = uuid.New().String()
	}
	now := time.Now().UTC()
	out.CreatedAt, out.UpdatedAt = now, now
	_, err := u.db.ExecContext(ctx, `INSERT INTO users (id, session_id, name, email, created_at, updated_at) VALUES (?,?,?,?,?,?)`,
		out.UserID, out.SessionID, out.Name, out.Email, now, now)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (u *users) GetBySession(ctx context.Context, sessionID string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `SELECT id, session_id, name, email, created_at, updated_at FROM users WHERE session_id = ?`, sessionID)
	return scanUser(row)
}

func (u *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `SELECT id, session_id, name, email, created_at, updated_at FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*model.User, error) {
	var out model.User
	if err := row.Scan(&out.UserID, &out.SessionID, &out.Name, &out.Email, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

// --- Meals ---
type meals struct{ db *sql.DB }

const mealColumns = `id, user_id, name, description, date, is_diet, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeal(row rowScanner) (*model.Meal, error) {
	var out model.Meal
	var date string
	if err := row.Scan(&out.MealID, &out.UserID, &out.Name, &out.Description, &date, &out.IsDiet, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}
	d, err := model.ParseMealDate(date)
	if err != nil {
		return nil, fmt.Errorf("meal %s: stored date: %w", out.MealID, err)
	}
	out.Date = d
	return &out, nil
}

func (m *meals) Create(ctx context.Context, in *model.Meal) (*model.Meal, error) {
	out := *in
	if out.MealID == "" {
		out.MealID = uuid.New().String()
	}
	now := time.Now().UTC()
	out.CreatedAt, out.UpdatedAt = now, now
	_, err := m.db.ExecContext(ctx, `INSERT INTO meals (`+mealColumns+`) VALUES (?,?,?,?,?,?,?,?)`,
		out.MealID, out.UserID, out.Name, out.Description, out.Date.String(), out.IsDiet, now, now)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (m *meals) GetByID(ctx context.Context, userID, mealID string) (*model.Meal, error) {
	return getMeal(ctx, m.db, userID, mealID)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getMeal(ctx context.Context, q queryRower, userID, mealID string) (*model.Meal, error) {
	row := q.QueryRowContext(ctx, `SELECT `+mealColumns+` FROM meals WHERE user_id = ? AND id = ?`, userID, mealID)
	out, err := scanMeal(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (m *meals) List(ctx context.Context, userID string) ([]*model.Meal, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT `+mealColumns+` FROM meals WHERE user_id = ? ORDER BY date ASC, created_at ASC, id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	res := []*model.Meal{}
	for rows.Next() {
		mm, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, mm)
	}
	return res, rows.Err()
}

func (m *meals) Update(ctx context.Context, userID, mealID string, upd model.MealUpdate) (*model.Meal, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	cur, err := getMeal(ctx, tx, userID, mealID)
	if err != nil {
		return nil, err
	}
	next := upd.Apply(*cur)
	next.UpdatedAt = time.Now().UTC()
	_, err = tx.ExecContext(ctx, `UPDATE meals SET name = ?, description = ?, date = ?, is_diet = ?, updated_at = ? WHERE user_id = ? AND id = ?`,
		next.Name, next.Description, next.Date.String(), next.IsDiet, next.UpdatedAt, userID, mealID)
	if err != nil {
		return nil, mapErr(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &next, nil
}

func (m *meals) Delete(ctx context.Context, userID, mealID string) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM meals WHERE user_id = ? AND id = ?`, userID, mealID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}
