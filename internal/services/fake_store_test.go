package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agleymelo/daily-diet-api/internal/model"
	"github.com/agleymelo/daily-diet-api/internal/store"
)

// --- Fakes ---

type fakeStore struct {
	mu        sync.Mutex
	users     []*model.User
	meals     map[string]*model.Meal
	listCalls int
}

func newFakeStore() *fakeStore { return &fakeStore{meals: map[string]*model.Meal{}} }

func (f *fakeStore) Users() store.Users { return fakeUsers{f} }
func (f *fakeStore) Meals() store.Meals { return fakeMeals{f} }
func (f *fakeStore) Close() error       { return nil }

type fakeUsers struct{ p *fakeStore }

func (u fakeUsers) Create(_ context.Context, in *model.User) (*model.User, error) {
	u.p.mu.Lock()
	defer u.p.mu.Unlock()
	for _, x := range u.p.users {
		if x.Email == in.Email || x.SessionID == in.SessionID {
			return nil, model.ErrConflict
		}
	}
	out := *in
	out.UserID = uuid.New().String()
	out.CreatedAt = time.Now().UTC()
	out.UpdatedAt = out.CreatedAt
	u.p.users = append(u.p.users, &out)
	return &out, nil
}

func (u fakeUsers) GetBySession(_ context.Context, sessionID string) (*model.User, error) {
	return u.find(func(x *model.User) bool { return x.SessionID == sessionID })
}

func (u fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return u.find(func(x *model.User) bool { return x.Email == email })
}

func (u fakeUsers) find(match func(*model.User) bool) (*model.User, error) {
	u.p.mu.Lock()
	defer u.p.mu.Unlock()
	for _, x := range u.p.users {
		if match(x) {
			cp := *x
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

type fakeMeals struct{ p *fakeStore }

func (m fakeMeals) Create(_ context.Context, in *model.Meal) (*model.Meal, error) {
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	out := *in
	out.MealID = uuid.New().String()
	out.CreatedAt = time.Now().UTC().Add(time.Duration(len(m.p.meals)) * time.Millisecond)
	out.UpdatedAt = out.CreatedAt
	m.p.meals[out.MealID] = &out
	cp := out
	return &cp, nil
}

func (m fakeMeals) GetByID(_ context.Context, userID, mealID string) (*model.Meal, error) {
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	x, ok := m.p.meals[mealID]
	if !ok || x.UserID != userID {
		return nil, model.ErrNotFound
	}
	cp := *x
	return &cp, nil
}

func (m fakeMeals) List(_ context.Context, userID string) ([]*model.Meal, error) {
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	m.p.listCalls++
	out := []*model.Meal{}
	for _, x := range m.p.meals {
		if x.UserID == userID {
			cp := *x
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !time.Time(out[i].Date).Equal(time.Time(out[j].Date)) {
			return time.Time(out[i].Date).Before(time.Time(out[j].Date))
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m fakeMeals) Update(_ context.Context, userID, mealID string, upd model.MealUpdate) (*model.Meal, error) {
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	x, ok := m.p.meals[mealID]
	if !ok || x.UserID != userID {
		return nil, model.ErrNotFound
	}
	next := upd.Apply(*x)
	next.UpdatedAt = time.Now().UTC()
	m.p.meals[mealID] = &next
	cp := next
	return &cp, nil
}

func (m fakeMeals) Delete(_ context.Context, userID, mealID string) error {
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	x, ok := m.p.meals[mealID]
	if !ok || x.UserID != userID {
		return model.ErrNotFound
	}
	delete(m.p.meals, mealID)
	return nil
}
