package meal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nicxzdev/daily-diet-api/internal/models"
)

// mealsFromFlags builds a date-ascending meal slice from on-diet flags.
func mealsFromFlags(flags ...bool) []models.Meal {
	base := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	meals := make([]models.Meal, len(flags))
	for i, onDiet := range flags {
		meals[i] = models.Meal{
			Name:   "meal",
			OnDiet: onDiet,
			Date:   base.Add(time.Duration(i) * time.Hour),
		}
	}
	return meals
}

func TestComputeMetrics(t *testing.T) {
	tests := []struct {
		name  string
		flags []bool
		want  models.Metrics
	}{
		{
			name:  "no meals",
			flags: nil,
			want:  models.Metrics{},
		},
		{
			name:  "all on diet",
			flags: []bool{true, true, true},
			want:  models.Metrics{RecordedMeals: 3, RecordedMealsOnDiet: 3, BestSequence: 3},
		},
		{
			name:  "all off diet",
			flags: []bool{false, false},
			want:  models.Metrics{RecordedMeals: 2, RecordedMealsOutOfDiet: 2},
		},
		{
			name:  "streak broken by last meal",
			flags: []bool{true, true, false},
			want:  models.Metrics{RecordedMeals: 3, RecordedMealsOnDiet: 2, RecordedMealsOutOfDiet: 1, BestSequence: 2},
		},
		{
			name:  "best streak in the middle",
			flags: []bool{true, false, true, true, true, false, true},
			want:  models.Metrics{RecordedMeals: 7, RecordedMealsOnDiet: 5, RecordedMealsOutOfDiet: 2, BestSequence: 3},
		},
		{
			name:  "single on-diet meal",
			flags: []bool{true},
			want:  models.Metrics{RecordedMeals: 1, RecordedMealsOnDiet: 1, BestSequence: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeMetrics(mealsFromFlags(tt.flags...))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.RecordedMeals, got.RecordedMealsOnDiet+got.RecordedMealsOutOfDiet)
			assert.LessOrEqual(t, got.BestSequence, got.RecordedMealsOnDiet)
		})
	}
}
