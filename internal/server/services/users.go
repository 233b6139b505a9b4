// Package services contains server-side business logic: registration, login,
// token pair issuance and rotation, and profile maintenance.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avolkovs/sessionkeeper/internal/common"
	"github.com/avolkovs/sessionkeeper/internal/dbx"
	"github.com/avolkovs/sessionkeeper/internal/server/auth"
	"github.com/avolkovs/sessionkeeper/internal/server/config"
	"github.com/avolkovs/sessionkeeper/internal/server/models"
	"github.com/avolkovs/sessionkeeper/internal/server/repositories/refreshtokens"
	"github.com/avolkovs/sessionkeeper/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides authentication and profile operations.
type UserService struct {
	db    *sql.DB
	users users.Repository

	// newTokensRepo builds a refresh-token repository over the given handle,
	// so token rotation can run inside a transaction.
	newTokensRepo func(dbx.DBTX) refreshtokens.Repository

	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService with explicit dependencies.
func NewUserService(db *sql.DB, u users.Repository, cfg *config.Config) *UserService {
	return &UserService{
		db:    db,
		users: u,
		newTokensRepo: func(tx dbx.DBTX) refreshtokens.Repository {
			return refreshtokens.NewPostgresRepository(tx)
		},
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// NewUserServiceWithTokens constructs a UserService with an explicit
// refresh-token repository instead of the default Postgres-backed one.
// Token rotation then runs against that repository regardless of the
// transactional handle.
func NewUserServiceWithTokens(db *sql.DB, u users.Repository, t refreshtokens.Repository, cfg *config.Config) *UserService {
	svc := NewUserService(db, u, cfg)
	svc.newTokensRepo = func(dbx.DBTX) refreshtokens.Repository { return t }
	return svc
}

// Register creates a new account with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, username, password, displayName, email string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrInternal
	}

	user := &models.User{
		Username:     username,
		DisplayName:  displayName,
		Email:        email,
		PasswordHash: string(hash),
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return created, nil
}

// Login verifies the password and, on success, issues a new TokenPair.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrUnauthorized
	}

	return s.generateTokenPair(ctx, user.ID, s.db)
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.newTokensRepo(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.newTokensRepo(tx)
		if err := repoTx.Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes all refresh tokens of the user. Access tokens simply age out.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	return s.newTokensRepo(s.db).DeleteByUserID(ctx, userID)
}

// GetProfile returns the account record for userID.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile applies display-name/email changes and returns the stored view.
func (s *UserService) UpdateProfile(ctx context.Context, userID, displayName, email string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.DisplayName = displayName
	user.Email = email
	return s.users.Update(ctx, user)
}

// DeleteProfile removes the account and revokes its refresh tokens.
func (s *UserService) DeleteProfile(ctx context.Context, userID string) error {
	if err := s.newTokensRepo(s.db).DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	return s.users.Delete(ctx, userID)
}

// --- helpers below ---

func (s *UserService) generateAccessToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrInternal
	}

	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrInternal
	}

	repo := s.newTokensRepo(tx)
	if err := repo.Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, fmt.Errorf("error saving refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
