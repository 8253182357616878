package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Policy statuses. Transitions after creation happen outside this service.
const (
	PolicyStatusActive    = "active"
	PolicyStatusExpired   = "expired"
	PolicyStatusCancelled = "cancelled"
)

// InsurancePolicy is a persisted policy row including the blockchain
// verification audit trail. BlockchainVerified, BlockchainBlockNumber and
// VerificationErrorMessage record the verdict that authorized creation.
type InsurancePolicy struct {
	ID                       string          `json:"id"`
	UserID                   string          `json:"user_id"`
	PolicyTemplateID         *string         `json:"policy_template_id"`
	PolicyName               string          `json:"policy_name"`
	PolicyType               string          `json:"policy_type"`
	LocationLatitude         decimal.Decimal `json:"location_latitude"`
	LocationLongitude        decimal.Decimal `json:"location_longitude"`
	LocationH3Index          *string         `json:"location_h3_index"`
	LocationName             *string         `json:"location_name"`
	CoverageAmount           decimal.Decimal `json:"coverage_amount"`
	PremiumAmount            decimal.Decimal `json:"premium_amount"`
	Currency                 string          `json:"currency"`
	StartDate                time.Time       `json:"start_date"`
	EndDate                  time.Time       `json:"end_date"`
	Status                   string          `json:"status"`
	WeatherStationID         *string         `json:"weather_station_id"`
	SmartContractAddress     *string         `json:"smart_contract_address"`
	PurchaseTransactionHash  *string         `json:"purchase_transaction_hash"`
	BlockchainVerified       bool            `json:"blockchain_verified"`
	VerificationTimestamp    *time.Time      `json:"verification_timestamp"`
	BlockchainBlockNumber    *int64          `json:"blockchain_block_number"`
	VerificationErrorMessage *string         `json:"verification_error_message"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
}

// CreatePolicyRequest is the policy purchase payload. The transaction hash
// of the on-chain premium payment is checked before anything is persisted.
type CreatePolicyRequest struct {
	PolicyTemplateID        *string         `json:"policy_template_id"`
	PolicyName              string          `json:"policy_name" binding:"required"`
	PolicyType              string          `json:"policy_type" binding:"required"`
	LocationLatitude        decimal.Decimal `json:"location_latitude"`
	LocationLongitude       decimal.Decimal `json:"location_longitude"`
	LocationH3Index         *string         `json:"location_h3_index"`
	LocationName            *string         `json:"location_name"`
	CoverageAmount          decimal.Decimal `json:"coverage_amount" binding:"required"`
	PremiumAmount           decimal.Decimal `json:"premium_amount" binding:"required"`
	Currency                *string         `json:"currency"`
	StartDate               time.Time       `json:"start_date" binding:"required"`
	EndDate                 time.Time       `json:"end_date" binding:"required"`
	WeatherStationID        *string         `json:"weather_station_id"`
	SmartContractAddress    *string         `json:"smart_contract_address"`
	PurchaseTransactionHash *string         `json:"purchase_transaction_hash"`
}
