package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/agleymelo/daily-diet-api/internal/model"
	"github.com/agleymelo/daily-diet-api/internal/store"
)

type UserService struct {
	store store.Store
}

func NewUserService(s store.Store) *UserService {
	return &UserService{store: s}
}

// Register creates a user bound to sessionID. An empty sessionID, or one that
// already belongs to another user, is replaced by a fresh UUID. The returned
// user carries the session id the caller must hand back to the client.
func (s *UserService) Register(ctx context.Context, sessionID, name, email string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if _, err := s.store.Users().GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email %s already registered", model.ErrConflict, email)
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}

	if sessionID == "" {
		sessionID = uuid.New().String()
	} else if _, err := s.store.Users().GetBySession(ctx, sessionID); err == nil {
		sessionID = uuid.New().String()
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("lookup user by session: %w", err)
	}

	u, err := s.store.Users().Create(ctx, &model.User{
		SessionID: sessionID,
		Name:      strings.TrimSpace(name),
		Email:     email,
	})
	if err != nil {
		// a concurrent registration may win the unique index race
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Resolve returns the user bound to sessionID, or model.ErrNotFound.
func (s *UserService) Resolve(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, model.ErrNotFound
	}
	return s.store.Users().GetBySession(ctx, sessionID)
}
