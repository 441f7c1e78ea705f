package client

import (
	"time"

	"github.com/go-openapi/strfmt"
)

// Meal mirrors the service's meal JSON.
type Meal struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Date        strfmt.Date `json:"date"`
	IsDiet      bool        `json:"isDiet"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// NewMeal is the body of CreateMeal. Date is YYYY-MM-DD or an RFC 3339 date-time.
type NewMeal struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Date        string `json:"date"`
	IsDiet      bool   `json:"isDiet"`
}

// MealPatch is the body of UpdateMeal; nil fields are left unchanged.
type MealPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Date        *string `json:"date,omitempty"`
	IsDiet      *bool   `json:"isDiet,omitempty"`
}

// Metrics is the diet-adherence summary returned by /meals/metrics.
type Metrics struct {
	TotalMeals        int `json:"totalMeals"`
	TotalMealsOnDiet  int `json:"totalMealsOnDiet"`
	TotalMealsOffDiet int `json:"totalMealsOffDiet"`
	BestOnDiet        int `json:"bestOnDiet"`
}
