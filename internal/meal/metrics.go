package meal

import "github.com/nicxzdev/daily-diet-api/internal/models"

// ComputeMetrics walks the meal slice once and tallies the totals plus the
// longest run of consecutive on-diet meals. The caller must pass the meals
// ordered by date ascending; the streak is only meaningful in that order.
func ComputeMetrics(meals []models.Meal) models.Metrics {
	var m models.Metrics
	current := 0
	for _, meal := range meals {
		m.RecordedMeals++
		if meal.OnDiet {
			m.RecordedMealsOnDiet++
			current++
			if current > m.BestSequence {
				m.BestSequence = current
			}
		} else {
			m.RecordedMealsOutOfDiet++
			current = 0
		}
	}
	return m
}
