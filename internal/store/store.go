package store

import (
	"context"

	"github.com/agleymelo/daily-diet-api/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
//
// Adapters report a missing row as model.ErrNotFound and a unique-key
// violation as model.ErrConflict.
type Store interface {
	Users() Users
	Meals() Meals
	Close() error
}

type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	GetBySession(ctx context.Context, sessionID string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// Meals are always addressed through their owner; a meal owned by someone
// else is indistinguishable from a missing one.
type Meals interface {
	Create(ctx context.Context, m *model.Meal) (*model.Meal, error)
	GetByID(ctx context.Context, userID, mealID string) (*model.Meal, error)
	// List returns the user's meals ordered by date, created_at, id (all ascending).
	List(ctx context.Context, userID string) ([]*model.Meal, error)
	Update(ctx context.Context, userID, mealID string, upd model.MealUpdate) (*model.Meal, error)
	Delete(ctx context.Context, userID, mealID string) error
}
