// Package templates reads policy template rows. Templates are seeded by
// migrations and never written by the service.
package templates

import (
	"context"

	"github.com/skycover/skycover/internal/server/models"
)

type Repository interface {
	ListActive(ctx context.Context) ([]models.PolicyTemplate, error)
	GetByID(ctx context.Context, id string) (*models.PolicyTemplate, error)
}
