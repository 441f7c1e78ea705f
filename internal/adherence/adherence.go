// Package adherence computes diet-adherence summaries over one user's meals.
//
// Summaries are pure functions of their input: no I/O and no shared state, so
// they are safe to call concurrently for different users.
package adherence

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agleymelo/daily-diet-api/internal/model"
)

// Order is the direction in which meals are scanned for the streak.
type Order int

const (
	// Chronological scans oldest meal first.
	Chronological Order = iota
	// ReverseChronological scans newest meal first.
	ReverseChronological
)

func (o Order) String() string {
	if o == ReverseChronological {
		return "desc"
	}
	return "asc"
}

// ParseOrder maps "asc"/"desc" (case-insensitive) to an Order.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "chronological":
		return Chronological, nil
	case "desc", "reverse", "reverse-chronological":
		return ReverseChronological, nil
	default:
		return Chronological, fmt.Errorf("unknown streak order %q", s)
	}
}

// Summary is the metrics record returned by GET /meals/metrics.
type Summary struct {
	TotalMeals       int `json:"totalMeals"`
	TotalOnDiet      int `json:"totalMealsOnDiet"`
	TotalOffDiet     int `json:"totalMealsOffDiet"`
	BestOnDietStreak int `json:"bestOnDiet"`
}

// Summarize orders a copy of meals by date in the given direction and scans it.
// Meals sharing a date are ordered by creation time, then id, in the same
// direction, so ties always resolve the same way.
func Summarize(meals []*model.Meal, order Order) Summary {
	ordered := make([]*model.Meal, 0, len(meals))
	for _, m := range meals {
		if m != nil {
			ordered = append(ordered, m)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if order == ReverseChronological {
			return before(ordered[j], ordered[i])
		}
		return before(ordered[i], ordered[j])
	})

	flags := make([]bool, len(ordered))
	for i, m := range ordered {
		flags[i] = m.IsDiet
	}
	return Scan(flags)
}

// Scan computes a Summary over flags that are already in scan order.
func Scan(flags []bool) Summary {
	var s Summary
	current := 0
	for _, onDiet := range flags {
		s.TotalMeals++
		if onDiet {
			s.TotalOnDiet++
			current++
		} else {
			s.TotalOffDiet++
			current = 0
		}
		if current > s.BestOnDietStreak {
			s.BestOnDietStreak = current
		}
	}
	return s
}

func before(a, b *model.Meal) bool {
	da, db := time.Time(a.Date), time.Time(b.Date)
	if !da.Equal(db) {
		return da.Before(db)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.MealID < b.MealID
}
