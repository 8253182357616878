// Package users persists account rows.
package users

import (
	"context"

	"github.com/skycover/skycover/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateWalletAddress(ctx context.Context, id string, walletAddress string) (*models.User, error)
}
