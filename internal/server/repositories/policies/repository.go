// Package policies persists insurance policy rows together with their
// blockchain verification audit trail.
package policies

import (
	"context"

	"github.com/skycover/skycover/internal/server/blockchain"
	"github.com/skycover/skycover/internal/server/models"
)

type Repository interface {
	// CreateWithVerification inserts the policy and embeds the
	// verification verdict as audit columns.
	CreateWithVerification(ctx context.Context, policy *models.InsurancePolicy, verification *blockchain.VerificationResult) (*models.InsurancePolicy, error)
	ListByUser(ctx context.Context, userID string) ([]models.InsurancePolicy, error)
	// TransactionUsed reports whether a policy already references the
	// given purchase transaction hash.
	TransactionUsed(ctx context.Context, txHash string) (bool, error)
}
