// Package services contains server-side business logic. This file
// implements UserService: registration, sign-in with token issuance, and
// wallet binding.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/bcrypt"

	"github.com/skycover/skycover/internal/common"
	"github.com/skycover/skycover/internal/server/auth"
	"github.com/skycover/skycover/internal/server/models"
	"github.com/skycover/skycover/internal/server/repositories/repomanager"
)

// UserService provides account operations:
// - Register: create users with a bcrypt password hash
// - Login: verify credentials and mint a session token
// - GetByEmail: principal resolution for the auth middleware
// - BindWallet: attach a wallet address to the account
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenService
}

// NewUserService constructs a UserService using repositories and the token
// service.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenService) *UserService {
	return &UserService{db: db, repomanager: m, tokens: tokens}
}

// Register creates a new user. Empty fields are validation errors; a
// duplicate email surfaces as common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", common.ErrorValidation)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email cannot be empty", common.ErrorValidation)
	}
	if strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("%w: password cannot be empty", common.ErrorValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{Name: name, Email: email, PasswordHash: string(hash)}
	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %v", err)
	}
	return u, nil
}

// Login verifies the credentials and returns a signed session token. A
// missing account and a wrong password both yield common.ErrorUnauthorized
// so existence is not leaked.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", common.ErrorUnauthorized
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}

// GetByEmail resolves a principal for the auth middleware.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
}

// BindWallet validates and stores the user's wallet address.
func (s *UserService) BindWallet(ctx context.Context, userID string, walletAddress string) (*models.User, error) {
	if !isValidWalletAddress(walletAddress) {
		return nil, fmt.Errorf("%w: invalid wallet address format", common.ErrorValidation)
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.UpdateWalletAddress(ctx, userID, walletAddress)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isValidWalletAddress requires the canonical 0x-prefixed 20-byte hex form.
func isValidWalletAddress(address string) bool {
	return strings.HasPrefix(address, "0x") && ethcommon.IsHexAddress(address)
}
