// Package api implements the HTTP client for the backend REST API: request
// building, bearer-token interception with a single refresh-and-retry, DTO
// mapping, and translation of transport failures into the shared error
// taxonomy.
package api

import (
	"context"

	"github.com/avolkovs/sessionkeeper/internal/client/models"
)

// Client is the remote-source contract consumed by the session manager and
// the resource repositories.
type Client interface {
	Close() error
	Register(ctx context.Context, username, password, displayName, email string) error
	Login(ctx context.Context, username, password string) (models.Credential, error)
	Refresh(ctx context.Context, refreshToken string) (models.Credential, error)
	Logout(ctx context.Context) error
	GetProfile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) (*models.User, error)
	DeleteProfile(ctx context.Context) error
	Ping(ctx context.Context) error
}
