package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicxzdev/daily-diet-api/internal/auth"
	"github.com/nicxzdev/daily-diet-api/internal/middleware"
	"github.com/nicxzdev/daily-diet-api/internal/models"
)

type fakeResolver map[string]string

func (f fakeResolver) UserBySession(_ context.Context, token string) (*models.User, error) {
	if id, ok := f[token]; ok {
		return &models.User{ID: id, SessionID: token}, nil
	}
	return nil, nil
}

func TestRequireSession(t *testing.T) {
	token, userID := uuid.NewString(), uuid.NewString()
	sessions := auth.NewSessions(nil, fakeResolver{token: userID})

	var seenUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = middleware.UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := middleware.RequireSession(sessions)(next)

	tests := []struct {
		name       string
		cookie     string
		wantStatus int
	}{
		{"missing cookie", "", http.StatusUnauthorized},
		{"malformed token", "not-a-uuid", http.StatusUnauthorized},
		{"unknown token", uuid.NewString(), http.StatusUnauthorized},
		{"valid token", token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenUserID = ""
			req := httptest.NewRequest(http.MethodGet, "/meals", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, userID, seenUserID)
			} else {
				assert.Empty(t, seenUserID, "handler must not run for rejected requests")
			}
		})
	}
}

func TestUserIDOutsideRequest(t *testing.T) {
	assert.Empty(t, middleware.UserID(context.Background()))
}
