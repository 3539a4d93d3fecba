package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/RubachokBoss/grade-tracker/internal/models"
	"github.com/google/uuid"
)

const (
	HeaderUserID       = "X-User-ID"
	HeaderGuestSession = "X-Guest-Session"
)

type ownerKey struct{}

// Owner resolves who the request acts for. A registered user is identified by
// X-User-ID, a guest by X-Guest-Session. Exactly one must be present.
func Owner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
		sessionID := strings.TrimSpace(r.Header.Get(HeaderGuestSession))

		var owner models.Owner
		switch {
		case userID != "" && sessionID != "":
			unauthorized(w, "Send either "+HeaderUserID+" or "+HeaderGuestSession+", not both")
			return
		case userID != "":
			if _, err := uuid.Parse(userID); err != nil {
				unauthorized(w, "Invalid "+HeaderUserID+" header")
				return
			}
			owner = models.Owner{ID: userID}
		case sessionID != "":
			if _, err := uuid.Parse(sessionID); err != nil {
				unauthorized(w, "Invalid "+HeaderGuestSession+" header")
				return
			}
			owner = models.Owner{ID: sessionID, Guest: true}
		default:
			unauthorized(w, "Sign in or start a guest session")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
	})
}

func WithOwner(ctx context.Context, owner models.Owner) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

func OwnerFromContext(ctx context.Context) (models.Owner, bool) {
	owner, ok := ctx.Value(ownerKey{}).(models.Owner)
	return owner, ok
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   http.StatusText(http.StatusUnauthorized),
		"message": message,
	})
}
