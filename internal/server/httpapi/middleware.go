package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/avolkovs/sessionkeeper/internal/common"
	"github.com/avolkovs/sessionkeeper/internal/server/auth"
)

type contextKey string

const userIDKey contextKey = "userID"

// authMiddleware validates the bearer access token and stores the user ID in
// the request context. Expired tokens additionally get the token-expired
// marker header so clients know a refresh is worth attempting.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthHeaderName)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, common.ErrUnauthorized.Error())
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				w.Header().Set(common.AuthErrorHeaderName, common.ErrTokenExpired.Error())
				writeError(w, http.StatusUnauthorized, common.ErrTokenExpired.Error())
				return
			}
			writeError(w, http.StatusUnauthorized, common.ErrInvalidToken.Error())
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userIDFromContext returns the user ID stored by authMiddleware.
func userIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok
}
