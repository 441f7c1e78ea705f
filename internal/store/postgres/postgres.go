package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/agleymelo/daily-diet-api/internal/model"
	"github.com/agleymelo/daily-diet-api/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Users() store.Users { return &users{db: s.db} }
func (s *pgStore) Meals() store.Meals { return &meals{db: s.db} }
func (s *pgStore) Close() error       { return s.db.Close() }

// HealthPing implements health.HealthPinger for the Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// mapErr translates driver errors into model sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", model.ErrConflict, pgErr.ConstraintName)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: %s", model.ErrNotFound, pgErr.ConstraintName)
		case "22P02": // invalid_text_representation, e.g. a malformed uuid
			return model.ErrNotFound
		}
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
	row := u.db.QueryRowContext(ctx, `
        INSERT INTO users (id, session_id, name, email)
        VALUES ($1,$2,$3,$4)
        RETURNING created_at, updated_at
    `, out.UserID, out.SessionID, out.Name, out.Email)
	if err := row.Scan(&out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (u *users) GetBySession(ctx context.Context, sessionID string) (*model.User, error) {
	return u.getOne(ctx, `
        SELECT id, session_id, name, email, created_at, updated_at
        FROM users WHERE session_id=$1
    `, sessionID)
}

func (u *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return u.getOne(ctx, `
        SELECT id, session_id, name, email, created_at, updated_at
        FROM users WHERE email=$1
    `, email)
}

func (u *users) getOne(ctx context.Context, query string, arg string) (*model.User, error) {
	var out model.User
	row := u.db.QueryRowContext(ctx, query, arg)
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
	var date time.Time
	if err := row.Scan(&out.MealID, &out.UserID, &out.Name, &out.Description, &date, &out.IsDiet, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}
	out.Date = model.DateOf(date)
	return &out, nil
}

func (m *meals) Create(ctx context.Context, in *model.Meal) (*model.Meal, error) {
	id := in.MealID
	if id == "" {
		id = uuid.New().String()
	}
	row := m.db.QueryRowContext(ctx, `
        INSERT INTO meals (id, user_id, name, description, date, is_diet)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING `+mealColumns,
		id, in.UserID, in.Name, in.Description, time.Time(in.Date), in.IsDiet)
	out, err := scanMeal(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (m *meals) GetByID(ctx context.Context, userID, mealID string) (*model.Meal, error) {
	row := m.db.QueryRowContext(ctx, `
        SELECT `+mealColumns+`
        FROM meals WHERE user_id=$1 AND id=$2
    `, userID, mealID)
	out, err := scanMeal(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (m *meals) List(ctx context.Context, userID string) ([]*model.Meal, error) {
	rows, err := m.db.QueryContext(ctx, `
        SELECT `+mealColumns+`
        FROM meals WHERE user_id=$1
        ORDER BY date ASC, created_at ASC, id ASC
    `, userID)
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
	var date *time.Time
	if upd.Date != nil {
		d := time.Time(*upd.Date)
		date = &d
	}
	row := m.db.QueryRowContext(ctx, `
        UPDATE meals SET
            name        = COALESCE($3, name),
            description = COALESCE($4, description),
            date        = COALESCE($5::date, date),
            is_diet     = COALESCE($6, is_diet),
            updated_at  = now()
        WHERE user_id=$1 AND id=$2
        RETURNING `+mealColumns,
		userID, mealID, upd.Name, upd.Description, date, upd.IsDiet)
	out, err := scanMeal(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (m *meals) Delete(ctx context.Context, userID, mealID string) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM meals WHERE user_id=$1 AND id=$2`, userID, mealID)
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
