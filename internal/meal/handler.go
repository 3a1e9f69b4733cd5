package meal

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nicxzdev/daily-diet-api/internal/middleware"
	"github.com/nicxzdev/daily-diet-api/internal/models"
)

// mealDateLayouts are the accepted formats for the user-supplied date field.
var mealDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// MealStore defines the interface for meal persistence. Every lookup and
// mutation is scoped by the owning user.
type MealStore interface {
	CreateMeal(ctx context.Context, m *models.Meal) error
	ListMeals(ctx context.Context, userID string) ([]models.Meal, error)
	ListMealsByDate(ctx context.Context, userID string) ([]models.Meal, error)
	GetMeal(ctx context.Context, userID, id string) (*models.Meal, error)
	UpdateMeal(ctx context.Context, m *models.Meal) error
	DeleteMeal(ctx context.Context, userID, id string) error
}

// AuditLog records meal mutations. Failures are logged, never surfaced.
type AuditLog interface {
	Record(ctx context.Context, e models.AuditEvent) error
}

// Handler holds meal HTTP handlers. All routes sit behind RequireSession,
// so the user id is always present in the context.
type Handler struct {
	meals MealStore
	audit AuditLog
}

func NewHandler(meals MealStore, audit AuditLog) *Handler {
	return &Handler{meals: meals, audit: audit}
}

// Create registers a meal owned by the session user.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req models.CreateMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	date, fields := validateMealFields(req.Name, req.Description, req.OnDiet, req.Date)
	if len(fields) > 0 {
		writeValidation(w, fields)
		return
	}

	m := models.Meal{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		OnDiet:      *req.OnDiet,
		Date:        date,
	}
	if err := h.meals.CreateMeal(r.Context(), &m); err != nil {
		log.Error().Err(err).Msg("create meal")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	h.recordAudit(r.Context(), userID, "meal.created", m.ID)
	w.WriteHeader(http.StatusCreated)
}

// List returns all meals owned by the session user, store-default order.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	meals, err := h.meals.ListMeals(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("list meals")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if meals == nil {
		meals = []models.Meal{}
	}
	writeJSON(w, http.StatusOK, meals)
}

// Get returns a single meal, or 404 when the id matches no meal owned by
// the session user.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeValidation(w, map[string]string{"id": "must be a valid uuid"})
		return
	}

	m, err := h.meals.GetMeal(r.Context(), userID, id)
	if err != nil {
		log.Error().Err(err).Msg("get meal")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if m == nil {
		http.Error(w, `{"error":"Not found."}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// Edit fully replaces a meal's mutable fields. Both the existence check and
// the update itself are scoped by owner and id.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req models.EditMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	date, fields := validateMealFields(req.Name, req.Description, req.OnDiet, req.Date)
	if _, err := uuid.Parse(req.ID); err != nil {
		fields["id"] = "must be a valid uuid"
	}
	if len(fields) > 0 {
		writeValidation(w, fields)
		return
	}

	existing, err := h.meals.GetMeal(r.Context(), userID, req.ID)
	if err != nil {
		log.Error().Err(err).Msg("edit meal: lookup")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if existing == nil {
		http.Error(w, `{"error":"Not found."}`, http.StatusNotFound)
		return
	}

	m := models.Meal{
		ID:          req.ID,
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		OnDiet:      *req.OnDiet,
		Date:        date,
	}
	if err := h.meals.UpdateMeal(r.Context(), &m); err != nil {
		log.Error().Err(err).Msg("edit meal: update")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	h.recordAudit(r.Context(), userID, "meal.updated", m.ID)
	w.WriteHeader(http.StatusOK)
}

// Delete removes a meal owned by the session user.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeValidation(w, map[string]string{"id": "must be a valid uuid"})
		return
	}

	existing, err := h.meals.GetMeal(r.Context(), userID, id)
	if err != nil {
		log.Error().Err(err).Msg("delete meal: lookup")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if existing == nil {
		http.Error(w, `{"error":"Not found."}`, http.StatusNotFound)
		return
	}

	if err := h.meals.DeleteMeal(r.Context(), userID, id); err != nil {
		log.Error().Err(err).Msg("delete meal")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	h.recordAudit(r.Context(), userID, "meal.deleted", id)
	w.WriteHeader(http.StatusOK)
}

// Metrics returns the session user's aggregate meal metrics.
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	meals, err := h.meals.ListMealsByDate(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("metrics: list meals")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, ComputeMetrics(meals))
}

func (h *Handler) recordAudit(ctx context.Context, userID, action, mealID string) {
	e := models.AuditEvent{UserID: userID, Action: action, MealID: mealID}
	if err := h.audit.Record(ctx, e); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("audit record")
	}
}

func validateMealFields(name, description string, onDiet *bool, rawDate string) (time.Time, map[string]string) {
	fields := map[string]string{}
	if strings.TrimSpace(name) == "" {
		fields["name"] = "name is required"
	}
	if strings.TrimSpace(description) == "" {
		fields["description"] = "description is required"
	}
	if onDiet == nil {
		fields["onDiet"] = "onDiet must be a boolean"
	}
	date, err := parseMealDate(rawDate)
	if err != nil {
		fields["date"] = "date must be a valid timestamp"
	}
	return date, fields
}

func parseMealDate(raw string) (time.Time, error) {
	var err error
	for _, layout := range mealDateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func writeValidation(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error":  "validation",
		"fields": fields,
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
