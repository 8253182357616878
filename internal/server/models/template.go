package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PolicyTemplate is a purchasable product definition. Templates are
// read-only for this service; they are seeded by migrations.
type PolicyTemplate struct {
	ID                string          `json:"id"`
	TemplateName      string          `json:"template_name"`
	Description       *string         `json:"description"`
	PolicyType        string          `json:"policy_type"`
	DefaultConditions json.RawMessage `json:"default_conditions"`
	MinCoverageAmount decimal.Decimal `json:"min_coverage_amount"`
	MaxCoverageAmount decimal.Decimal `json:"max_coverage_amount"`
	BasePremiumRate   decimal.Decimal `json:"base_premium_rate"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
