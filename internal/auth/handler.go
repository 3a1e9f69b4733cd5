package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nicxzdev/daily-diet-api/internal/models"
	"github.com/nicxzdev/daily-diet-api/internal/store"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, sessionID string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuditLog records account mutations. Failures are logged, never surfaced.
type AuditLog interface {
	Record(ctx context.Context, e models.AuditEvent) error
}

// Handler holds user registration HTTP handlers.
type Handler struct {
	users    UserStore
	sessions *Sessions
	audit    AuditLog
}

func NewHandler(users UserStore, sessions *Sessions, audit AuditLog) *Handler {
	return &Handler{users: users, sessions: sessions, audit: audit}
}

// Register creates a new user and issues its session cookie. Every account
// gets its own token; a cookie already present on the request is replaced.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	fields := map[string]string{}
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "name is required"
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		fields["email"] = "must be a valid e-mail address"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation",
			"fields": fields,
		})
		return
	}

	existing, err := h.users.UserByEmail(r.Context(), req.Email)
	if err != nil {
		log.Error().Err(err).Msg("register: lookup by email")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if existing != nil {
		writeConflict(w)
		return
	}

	token := h.sessions.Issue()
	user, err := h.users.CreateUser(r.Context(), req.Name, req.Email, token)
	if errors.Is(err, store.ErrDuplicateEmail) {
		// Lost the check-then-insert race; the unique constraint caught it.
		writeConflict(w)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("register: create user")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	h.sessions.Cache(r.Context(), token, user.ID)

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionTTL / time.Second),
	})

	if err := h.audit.Record(r.Context(), models.AuditEvent{UserID: user.ID, Action: "user.registered"}); err != nil {
		log.Warn().Err(err).Msg("register: audit record")
	}

	w.WriteHeader(http.StatusCreated)
}

func writeConflict(w http.ResponseWriter) {
	writeJSON(w, http.StatusConflict, map[string]string{
		"error":   "Conflict",
		"message": "User with this e-mail is already registered.",
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
