package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/agleymelo/daily-diet-api/internal/adherence"
	"github.com/agleymelo/daily-diet-api/internal/model"
	"github.com/agleymelo/daily-diet-api/internal/store"
)

type MealService struct {
	store store.Store
	order adherence.Order
}

func NewMealService(s store.Store, order adherence.Order) *MealService {
	return &MealService{store: s, order: order}
}

func (s *MealService) CreateMeal(ctx context.Context, userID string, in model.MealInput) (*model.Meal, error) {
	return s.store.Meals().Create(ctx, &model.Meal{
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		Date:        in.Date,
		IsDiet:      in.IsDiet,
	})
}

func (s *MealService) GetMeal(ctx context.Context, userID, mealID string) (*model.Meal, error) {
	if err := checkMealID(mealID); err != nil {
		return nil, err
	}
	return s.store.Meals().GetByID(ctx, userID, mealID)
}

func (s *MealService) ListMeals(ctx context.Context, userID string) ([]*model.Meal, error) {
	return s.store.Meals().List(ctx, userID)
}

// UpdateMeal applies a partial update. An update that sets no field is a
// validation error.
func (s *MealService) UpdateMeal(ctx context.Context, userID, mealID string, upd model.MealUpdate) (*model.Meal, error) {
	if upd.IsEmpty() {
		return nil, fmt.Errorf("%w: at least one field must be provided", model.ErrValidation)
	}
	if err := checkMealID(mealID); err != nil {
		return nil, err
	}
	return s.store.Meals().Update(ctx, userID, mealID, upd)
}

func (s *MealService) DeleteMeal(ctx context.Context, userID, mealID string) error {
	if err := checkMealID(mealID); err != nil {
		return err
	}
	return s.store.Meals().Delete(ctx, userID, mealID)
}

// Metrics summarizes all of the user's meals from a single List call so the
// totals and the streak are computed over the same snapshot.
func (s *MealService) Metrics(ctx context.Context, userID string) (adherence.Summary, error) {
	meals, err := s.store.Meals().List(ctx, userID)
	if err != nil {
		return adherence.Summary{}, fmt.Errorf("list meals: %w", err)
	}
	return adherence.Summarize(meals, s.order), nil
}

// Meal ids are UUIDs; anything else cannot name an existing meal.
func checkMealID(id string) error {
	if err := uuid.Validate(id); err != nil {
		return fmt.Errorf("%w: meal %q", model.ErrNotFound, id)
	}
	return nil
}
