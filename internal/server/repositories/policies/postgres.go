package policies

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/skycover/skycover/internal/common"
	"github.com/skycover/skycover/internal/dbx"
	"github.com/skycover/skycover/internal/server/blockchain"
	"github.com/skycover/skycover/internal/server/models"
)

const uniqueViolation = "23505"

const policyColumns = `id, user_id, policy_template_id, policy_name, policy_type,
		 location_latitude, location_longitude, location_h3_index, location_name,
		 coverage_amount, premium_amount, currency, start_date, end_date, status,
		 weather_station_id, smart_contract_address, purchase_transaction_hash,
		 blockchain_verified, verification_timestamp, blockchain_block_number, verification_error_message,
		 created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateWithVerification(ctx context.Context, policy *models.InsurancePolicy, verification *blockchain.VerificationResult) (*models.InsurancePolicy, error) {

	query :=
		`INSERT INTO insurance_policies
		 (id, user_id, policy_template_id, policy_name, policy_type, location_latitude, location_longitude,
		  location_h3_index, location_name, coverage_amount, premium_amount, currency, start_date, end_date,
		  weather_station_id, smart_contract_address, purchase_transaction_hash,
		  blockchain_verified, verification_timestamp, blockchain_block_number, verification_error_message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, CURRENT_TIMESTAMP, $19, $20)
		 RETURNING ` + policyColumns + `
		 `

	var blockNumber *int64
	if verification.BlockNumber != nil {
		n := int64(*verification.BlockNumber)
		blockNumber = &n
	}
	var errorMessage *string
	if verification.ErrorMessage != "" {
		errorMessage = &verification.ErrorMessage
	}

	currency := policy.Currency
	if currency == "" {
		currency = "ETH"
	}

	created := &models.InsurancePolicy{}
	err := scanPolicy(r.db.QueryRowContext(ctx, query,
		uuid.NewString(), policy.UserID, policy.PolicyTemplateID, policy.PolicyName, policy.PolicyType,
		policy.LocationLatitude, policy.LocationLongitude, policy.LocationH3Index, policy.LocationName,
		policy.CoverageAmount, policy.PremiumAmount, currency, policy.StartDate, policy.EndDate,
		policy.WeatherStationID, policy.SmartContractAddress, policy.PurchaseTransactionHash,
		verification.Verified, blockNumber, errorMessage).Scan, created)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return created, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.InsurancePolicy, error) {
	query :=
		`SELECT ` + policyColumns + ` FROM insurance_policies
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	result := []models.InsurancePolicy{}
	for rows.Next() {
		var p models.InsurancePolicy
		if err := scanPolicy(rows.Scan, &p); err != nil {
			return nil, fmt.Errorf("error scanning row: %v", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %v", err)
	}

	return result, nil
}

func (r *PostgresRepository) TransactionUsed(ctx context.Context, txHash string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM insurance_policies WHERE purchase_transaction_hash = $1)
		 `

	var used bool
	if err := r.db.QueryRowContext(ctx, query, txHash).Scan(&used); err != nil {
		return false, fmt.Errorf("error performing sql request: %v", err)
	}

	return used, nil
}

func scanPolicy(scan func(dest ...any) error, p *models.InsurancePolicy) error {
	return scan(
		&p.ID, &p.UserID, &p.PolicyTemplateID, &p.PolicyName, &p.PolicyType,
		&p.LocationLatitude, &p.LocationLongitude, &p.LocationH3Index, &p.LocationName,
		&p.CoverageAmount, &p.PremiumAmount, &p.Currency, &p.StartDate, &p.EndDate, &p.Status,
		&p.WeatherStationID, &p.SmartContractAddress, &p.PurchaseTransactionHash,
		&p.BlockchainVerified, &p.VerificationTimestamp, &p.BlockchainBlockNumber, &p.VerificationErrorMessage,
		&p.CreatedAt, &p.UpdatedAt)
}
