package model

import (
	"time"

	"github.com/go-openapi/strfmt"
)

// User is a registered account. SessionID is the opaque token carried in the
// sessionId cookie.
type User struct {
	UserID    string    `json:"id"`
	SessionID string    `json:"-"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Meal is a single logged meal with its diet-compliance flag.
type Meal struct {
	MealID      string      `json:"id"`
	UserID      string      `json:"userId"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Date        strfmt.Date `json:"date"`
	IsDiet      bool        `json:"isDiet"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// MealInput carries the fields supplied when a meal is created.
type MealInput struct {
	Name        string
	Description string
	Date        strfmt.Date
	IsDiet      bool
}

// MealUpdate is a partial update; nil fields are left untouched.
type MealUpdate struct {
	Name        *string
	Description *string
	Date        *strfmt.Date
	IsDiet      *bool
}

// IsEmpty reports whether the update changes nothing.
func (u MealUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Date == nil && u.IsDiet == nil
}

// Apply returns a copy of m with the non-nil fields of u written over it.
func (u MealUpdate) Apply(m Meal) Meal {
	if u.Name != nil {
		m.Name = *u.Name
	}
	if u.Description != nil {
		m.Description = *u.Description
	}
	if u.Date != nil {
		m.Date = *u.Date
	}
	if u.IsDiet != nil {
		m.IsDiet = *u.IsDiet
	}
	return m
}
