package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/skycover/skycover/internal/common"
	"github.com/skycover/skycover/internal/dbx"
	"github.com/skycover/skycover/internal/server/blockchain"
	"github.com/skycover/skycover/internal/server/models"
	"github.com/skycover/skycover/internal/server/repositories/repomanager"
)

// TransactionVerifier is the slice of the blockchain verifier the policy
// service depends on.
type TransactionVerifier interface {
	VerifyPolicyTransaction(ctx context.Context, txHash string, walletAddress string) (*blockchain.VerificationResult, error)
}

// PolicyService implements policy issuance: it is the only path that
// creates policy rows, and it persists nothing until the premium payment
// has been verified on chain.
type PolicyService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	verifier    TransactionVerifier
}

// NewPolicyService constructs a PolicyService.
func NewPolicyService(db *sql.DB, m repomanager.RepositoryManager, verifier TransactionVerifier) *PolicyService {
	return &PolicyService{db: db, repomanager: m, verifier: verifier}
}

// Templates lists the active policy templates.
func (s *PolicyService) Templates(ctx context.Context) ([]models.PolicyTemplate, error) {
	return s.repomanager.Templates(s.db).ListActive(ctx)
}

// ListByUser returns the user's policies, newest first.
func (s *PolicyService) ListByUser(ctx context.Context, userID string) ([]models.InsurancePolicy, error) {
	return s.repomanager.Policies(s.db).ListByUser(ctx, userID)
}

// Create issues a policy for the authenticated user. The request must carry
// the purchase transaction hash and the user must have a bound wallet; the
// hash must verify on chain and must not back another policy already. The
// replay check runs again inside the insert transaction, with the partial
// unique index on purchase_transaction_hash as the final backstop.
func (s *PolicyService) Create(ctx context.Context, user *models.User, req *models.CreatePolicyRequest) (*models.InsurancePolicy, error) {

	if user.WalletAddress == nil || *user.WalletAddress == "" {
		return nil, fmt.Errorf("%w: user wallet address not found, please connect your wallet first", common.ErrorValidation)
	}

	if req.PurchaseTransactionHash == nil || *req.PurchaseTransactionHash == "" {
		return nil, fmt.Errorf("%w: purchase transaction hash is required", common.ErrorValidation)
	}
	txHash := *req.PurchaseTransactionHash

	used, err := s.repomanager.Policies(s.db).TransactionUsed(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("error checking transaction hash: %v", err)
	}
	if used {
		return nil, fmt.Errorf("%w: transaction hash already backs another policy", common.ErrorAlreadyExists)
	}

	verification, err := s.verifier.VerifyPolicyTransaction(ctx, txHash, *user.WalletAddress)
	if err != nil {
		return nil, err
	}

	if !verification.Verified {
		return nil, fmt.Errorf("%w: blockchain verification failed: %s", common.ErrorValidation, verification.ErrorMessage)
	}

	policy := policyFromRequest(user.ID, req)

	var created *models.InsurancePolicy
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Policies(tx)

		used, err := repo.TransactionUsed(ctx, txHash)
		if err != nil {
			return fmt.Errorf("error checking transaction hash: %v", err)
		}
		if used {
			return fmt.Errorf("%w: transaction hash already backs another policy", common.ErrorAlreadyExists)
		}

		created, err = repo.CreateWithVerification(ctx, policy, verification)
		return err
	}); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating policy: %v", err)
	}

	return created, nil
}

func policyFromRequest(userID string, req *models.CreatePolicyRequest) *models.InsurancePolicy {
	currency := "ETH"
	if req.Currency != nil && *req.Currency != "" {
		currency = *req.Currency
	}

	return &models.InsurancePolicy{
		UserID:                  userID,
		PolicyTemplateID:        req.PolicyTemplateID,
		PolicyName:              req.PolicyName,
		PolicyType:              req.PolicyType,
		LocationLatitude:        req.LocationLatitude,
		LocationLongitude:       req.LocationLongitude,
		LocationH3Index:         req.LocationH3Index,
		LocationName:            req.LocationName,
		CoverageAmount:          req.CoverageAmount,
		PremiumAmount:           req.PremiumAmount,
		Currency:                currency,
		StartDate:               req.StartDate,
		EndDate:                 req.EndDate,
		WeatherStationID:        req.WeatherStationID,
		SmartContractAddress:    req.SmartContractAddress,
		PurchaseTransactionHash: req.PurchaseTransactionHash,
	}
}
