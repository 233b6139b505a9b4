package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avolkovs/sessionkeeper/internal/common"
	"github.com/avolkovs/sessionkeeper/internal/dbx"
	"github.com/avolkovs/sessionkeeper/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, username, display_name, email, password_hash)
		VALUES ($1, $2, $3, $4, $5)
	`
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, query, id, user.Username, user.DisplayName, user.Email, user.PasswordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505: unique_violation on the username index.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	created := *user
	created.ID = id
	return &created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, username, display_name, email, password_hash
		FROM users
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, display_name, email, password_hash
		FROM users
		WHERE username = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

func (r *PostgresRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		UPDATE users
		SET display_name = $2, email = $3
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, user.ID, user.DisplayName, user.Email)
	if err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	if ra, err := res.RowsAffected(); err == nil && ra == 0 {
		return nil, common.ErrNotFound
	}
	return r.GetByID(ctx, user.ID)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if ra, err := res.RowsAffected(); err == nil && ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.DisplayName, &user.Email, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}
