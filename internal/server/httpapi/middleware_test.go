package httpapi

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avolkovs/sessionkeeper/internal/common"
	"github.com/avolkovs/sessionkeeper/internal/logging"
	"github.com/avolkovs/sessionkeeper/internal/server/auth"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// echoUserID is the protected handler used to observe the context value.
func echoUserID(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte(userID))
}

func callWithToken(t *testing.T, token string) *httptest.ResponseRecorder {
	t.Helper()
	s := NewServer(":0", testLogger(), nil, testSecret)
	handler := s.authMiddleware(http.HandlerFunc(echoUserID))

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	if token != "" {
		req.Header.Set(common.AuthHeaderName, token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestValidTokenPassesUserID(t *testing.T) {
	token, err := auth.GenerateToken("u1", []byte(testSecret), time.Minute)
	require.NoError(t, err)

	rec := callWithToken(t, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "u1", rec.Body.String())
}

func TestExpiredTokenGetsMarkerHeader(t *testing.T) {
	token, err := auth.GenerateToken("u1", []byte(testSecret), -time.Minute)
	require.NoError(t, err)

	rec := callWithToken(t, "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, common.ErrTokenExpired.Error(), rec.Header().Get(common.AuthErrorHeaderName))
}

func TestInvalidTokenHasNoMarkerHeader(t *testing.T) {
	rec := callWithToken(t, "Bearer not-a-jwt")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, rec.Header().Get(common.AuthErrorHeaderName))
}

func TestMissingHeaderIsRejected(t *testing.T) {
	rec := callWithToken(t, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNonBearerHeaderIsRejected(t *testing.T) {
	rec := callWithToken(t, "Basic dXNlcjpwdw==")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
