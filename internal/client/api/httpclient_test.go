package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/avolkovs/sessionkeeper/internal/client/models"
	"github.com/avolkovs/sessionkeeper/internal/common"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestLoginStoresCredentialAndSendsAuthHeader(t *testing.T) {
	var lastAuthHeader atomic.Value

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/user/login", func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "bob", req.Username)
		require.Equal(t, "pw", req.Password)
		writeJSON(t, w, http.StatusOK, tokenResponse{AccessToken: "t1", RefreshToken: "r1"})
	})
	mux.HandleFunc("GET /api/user/profile", func(w http.ResponseWriter, r *http.Request) {
		lastAuthHeader.Store(r.Header.Get(common.AuthHeaderName))
		writeJSON(t, w, http.StatusOK, userDTO{ID: "u1", Username: "bob"})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	ctx := context.Background()

	creds, err := c.Login(ctx, "bob", "pw")
	require.NoError(t, err)
	require.Equal(t, models.Credential{AccessToken: "t1", RefreshToken: "r1"}, creds)
	require.Equal(t, creds, c.Credential())

	user, err := c.GetProfile(ctx)
	require.NoError(t, err)
	require.Equal(t, "bob", user.Username)
	require.Equal(t, "Bearer t1", lastAuthHeader.Load())
}

func TestExpiredTokenIsRefreshedAndRequestRetriedOnce(t *testing.T) {
	var profileCalls, refreshCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/user/profile", func(w http.ResponseWriter, r *http.Request) {
		profileCalls.Add(1)
		switch r.Header.Get(common.AuthHeaderName) {
		case "Bearer t1":
			w.Header().Set(common.AuthErrorHeaderName, common.ErrTokenExpired.Error())
			writeJSON(t, w, http.StatusUnauthorized, errorResponse{Error: common.ErrTokenExpired.Error()})
		case "Bearer t2":
			writeJSON(t, w, http.StatusOK, userDTO{ID: "u1", Username: "bob"})
		default:
			writeJSON(t, w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		}
	})
	mux.HandleFunc("POST /api/user/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		var req refreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "r1", req.RefreshToken)
		writeJSON(t, w, http.StatusOK, tokenResponse{AccessToken: "t2", RefreshToken: "r2"})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	c.SetCredential(models.Credential{AccessToken: "t1", RefreshToken: "r1"})

	var refreshed models.Credential
	var unauthorized bool
	c.SetHooks(func(creds models.Credential) { refreshed = creds }, func() { unauthorized = true })

	// The caller sees a transparent success.
	user, err := c.GetProfile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "bob", user.Username)

	require.Equal(t, int32(2), profileCalls.Load())
	require.Equal(t, int32(1), refreshCalls.Load())
	require.Equal(t, models.Credential{AccessToken: "t2", RefreshToken: "r2"}, c.Credential())
	require.Equal(t, models.Credential{AccessToken: "t2", RefreshToken: "r2"}, refreshed)
	require.False(t, unauthorized)
}

func TestFailedRefreshAbandonsRetryAndReportsUnauthorized(t *testing.T) {
	var profileCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/user/profile", func(w http.ResponseWriter, r *http.Request) {
		profileCalls.Add(1)
		w.Header().Set(common.AuthErrorHeaderName, common.ErrTokenExpired.Error())
		writeJSON(t, w, http.StatusUnauthorized, errorResponse{Error: common.ErrTokenExpired.Error()})
	})
	mux.HandleFunc("POST /api/user/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	c.SetCredential(models.Credential{AccessToken: "t1", RefreshToken: "r1"})

	var unauthorized bool
	c.SetHooks(nil, func() { unauthorized = true })

	_, err := c.GetProfile(context.Background())
	require.ErrorIs(t, err, common.ErrUnauthorized)

	require.Equal(t, int32(1), profileCalls.Load())
	require.True(t, unauthorized)
	require.True(t, c.Credential().IsZero())
}

func TestStatusErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"not found", http.StatusNotFound, common.ErrNotFound},
		{"bad request", http.StatusBadRequest, common.ErrValidation},
		{"conflict", http.StatusConflict, common.ErrAlreadyExists},
		{"unauthorized", http.StatusUnauthorized, common.ErrUnauthorized},
		{"server error", http.StatusInternalServerError, common.ErrServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, tt.status, errorResponse{Error: "boom"})
			}))
			defer srv.Close()

			c := NewHTTPClient(srv.URL)
			_, err := c.GetProfile(context.Background())
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConnectivityFailureMapsToNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	c := NewHTTPClient(srv.URL)
	_, err := c.GetProfile(context.Background())
	require.ErrorIs(t, err, common.ErrNetwork)
}
