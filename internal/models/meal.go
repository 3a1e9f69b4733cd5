package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Meal is a single tracked meal owned by exactly one user.
type Meal struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OnDiet      bool      `json:"onDiet"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateMealRequest is the JSON body for POST /meals.
// OnDiet is a pointer so a missing flag can be told apart from false.
type CreateMealRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	OnDiet      *bool  `json:"onDiet"`
	Date        string `json:"date"`
}

// EditMealRequest is the JSON body for PATCH /meals. The edit is a full
// replacement of the mutable fields.
type EditMealRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	OnDiet      *bool  `json:"onDiet"`
	Date        string `json:"date"`
}

// Metrics is the response body for GET /meals/metrics.
type Metrics struct {
	RecordedMeals          int `json:"recordedMeals"`
	RecordedMealsOnDiet    int `json:"recordedMealsOnDiet"`
	RecordedMealsOutOfDiet int `json:"recordedMealsOutOfDiet"`
	BestSequence           int `json:"bestSequence"`
}

// AuditEvent is a mutation record stored in MongoDB.
type AuditEvent struct {
	ID     primitive.ObjectID `json:"id"               bson:"_id,omitempty"`
	UserID string             `json:"userId"           bson:"user_id"`
	Action string             `json:"action"           bson:"action"`
	MealID string             `json:"mealId,omitempty" bson:"meal_id,omitempty"`
	At     time.Time          `json:"at"               bson:"at"`
}
