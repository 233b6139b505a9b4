// Package users declares the server-side repository contract for account
// records.
package users

import (
	"context"

	"github.com/avolkovs/sessionkeeper/internal/server/models"
)

// Repository defines persistence operations for users. Implementations
// return common.ErrNotFound for absent records and common.ErrAlreadyExists
// on username conflicts.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id string) error
}
