package model

import (
	"errors"
	"testing"
)

func TestParseMealDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "full date", in: "2024-03-24", want: "2024-03-24"},
		{name: "date-time utc", in: "2024-03-24T13:38:09Z", want: "2024-03-24"},
		{name: "date-time with offset rolls to utc day", in: "2024-03-24T23:30:00-03:00", want: "2024-03-25"},
		{name: "padded", in: "  2024-01-02 ", want: "2024-01-02"},
		{name: "empty", in: "", wantErr: true},
		{name: "garbage", in: "yesterday", wantErr: true},
		{name: "impossible day", in: "2024-02-31", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMealDate(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %s", tt.in, got)
				}
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Fatalf("want %s, got %s", tt.want, got.String())
			}
		})
	}
}

func TestMealUpdateApply(t *testing.T) {
	d, _ := ParseMealDate("2024-05-01")
	base := Meal{MealID: "m1", UserID: "u1", Name: "Lunch", Description: "rice", IsDiet: false}
	onDiet := true
	upd := MealUpdate{Date: &d, IsDiet: &onDiet}

	got := upd.Apply(base)
	if got.Name != "Lunch" || got.Description != "rice" || got.MealID != "m1" || got.UserID != "u1" {
		t.Fatalf("untouched fields changed: %+v", got)
	}
	if !got.IsDiet || got.Date.String() != "2024-05-01" {
		t.Fatalf("update not applied: %+v", got)
	}
	if base.IsDiet {
		t.Fatalf("Apply mutated its input")
	}
	if upd.IsEmpty() || !(MealUpdate{}).IsEmpty() {
		t.Fatalf("IsEmpty mismatch")
	}
}
