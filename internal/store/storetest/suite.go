package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"

	"github.com/agleymelo/daily-diet-api/internal/model"
	"github.com/agleymelo/daily-diet-api/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store and return it from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	// Users
	session := uuid.New().String()
	email := "u-" + session + "@example.test"
	u, err := s.Users().Create(ctx, &model.User{SessionID: session, Name: "Ana", Email: email})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.UserID == "" || u.CreatedAt.IsZero() {
		t.Fatalf("CreateUser: missing id or timestamps: %+v", u)
	}
	if got, err := s.Users().GetBySession(ctx, session); err != nil || got.UserID != u.UserID {
		t.Fatalf("GetBySession: got=%v err=%v", got, err)
	}
	if got, err := s.Users().GetByEmail(ctx, email); err != nil || got.UserID != u.UserID {
		t.Fatalf("GetByEmail: got=%v err=%v", got, err)
	}
	if _, err := s.Users().GetBySession(ctx, uuid.New().String()); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetBySession unknown: want ErrNotFound, got %v", err)
	}
	if _, err := s.Users().Create(ctx, &model.User{SessionID: uuid.New().String(), Name: "Dup", Email: email}); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("CreateUser duplicate email: want ErrConflict, got %v", err)
	}
	if _, err := s.Users().Create(ctx, &model.User{SessionID: session, Name: "Dup", Email: "other-" + email}); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("CreateUser duplicate session: want ErrConflict, got %v", err)
	}

	other, err := s.Users().Create(ctx, &model.User{SessionID: uuid.New().String(), Name: "Bia", Email: "o-" + email})
	if err != nil {
		t.Fatalf("CreateUser other: %v", err)
	}

	// Meals
	if lst, err := s.Meals().List(ctx, u.UserID); err != nil || lst == nil || len(lst) != 0 {
		t.Fatalf("List empty: lst=%v err=%v", lst, err)
	}

	day := func(v string) strfmt.Date {
		d, err := model.ParseMealDate(v)
		if err != nil {
			t.Fatalf("date %q: %v", v, err)
		}
		return d
	}

	late, err := s.Meals().Create(ctx, &model.Meal{UserID: u.UserID, Name: "Dinner", Description: "Salad", Date: day("2024-03-02"), IsDiet: true})
	if err != nil {
		t.Fatalf("CreateMeal: %v", err)
	}
	if late.MealID == "" || late.Date.String() != "2024-03-02" {
		t.Fatalf("CreateMeal: unexpected meal %+v", late)
	}
	time.Sleep(5 * time.Millisecond) // ensure distinct creation times
	early1, err := s.Meals().Create(ctx, &model.Meal{UserID: u.UserID, Name: "Breakfast", Description: "", Date: day("2024-03-01"), IsDiet: false})
	if err != nil {
		t.Fatalf("CreateMeal early1: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	early2, err := s.Meals().Create(ctx, &model.Meal{UserID: u.UserID, Name: "Lunch", Description: "Rice", Date: day("2024-03-01"), IsDiet: true})
	if err != nil {
		t.Fatalf("CreateMeal early2: %v", err)
	}
	if _, err := s.Meals().Create(ctx, &model.Meal{UserID: other.UserID, Name: "Theirs", Description: "x", Date: day("2024-03-01"), IsDiet: true}); err != nil {
		t.Fatalf("CreateMeal other: %v", err)
	}

	lst, err := s.Meals().List(ctx, u.UserID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	wantOrder := []string{early1.MealID, early2.MealID, late.MealID}
	if len(lst) != len(wantOrder) {
		t.Fatalf("List: want %d meals, got %d", len(wantOrder), len(lst))
	}
	for i, id := range wantOrder {
		if lst[i].MealID != id {
			t.Fatalf("List order[%d]: want %s got %s", i, id, lst[i].MealID)
		}
	}

	got, err := s.Meals().GetByID(ctx, u.UserID, late.MealID)
	if err != nil || got.Name != "Dinner" || !got.IsDiet || got.Date.String() != "2024-03-02" {
		t.Fatalf("GetByID: got=%+v err=%v", got, err)
	}
	if _, err := s.Meals().GetByID(ctx, other.UserID, late.MealID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetByID cross-user: want ErrNotFound, got %v", err)
	}
	if _, err := s.Meals().GetByID(ctx, u.UserID, uuid.New().String()); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetByID unknown: want ErrNotFound, got %v", err)
	}

	// Partial update leaves untouched fields alone
	name := "Late dinner"
	off := false
	newDate := model.DateOf(time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC))
	upd, err := s.Meals().Update(ctx, u.UserID, late.MealID, model.MealUpdate{Name: &name, IsDiet: &off, Date: &newDate})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if upd.Name != name || upd.IsDiet || upd.Description != "Salad" || upd.Date.String() != "2024-03-03" {
		t.Fatalf("Update: unexpected meal %+v", upd)
	}
	if got, err := s.Meals().GetByID(ctx, u.UserID, late.MealID); err != nil || got.Name != name || got.Description != "Salad" {
		t.Fatalf("GetByID after update: got=%+v err=%v", got, err)
	}
	if _, err := s.Meals().Update(ctx, other.UserID, late.MealID, model.MealUpdate{Name: &name}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Update cross-user: want ErrNotFound, got %v", err)
	}

	// Delete is scoped by owner
	if err := s.Meals().Delete(ctx, other.UserID, early1.MealID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Delete cross-user: want ErrNotFound, got %v", err)
	}
	if err := s.Meals().Delete(ctx, u.UserID, early1.MealID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Meals().Delete(ctx, u.UserID, early1.MealID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Delete twice: want ErrNotFound, got %v", err)
	}
	if lst, err := s.Meals().List(ctx, u.UserID); err != nil || len(lst) != 2 {
		t.Fatalf("List after delete: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Meals().List(ctx, other.UserID); err != nil || len(lst) != 1 {
		t.Fatalf("List other user: n=%d err=%v", len(lst), err)
	}
}
