package templates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/skycover/skycover/internal/common"
	"github.com/skycover/skycover/internal/dbx"
	"github.com/skycover/skycover/internal/server/models"
)

const templateColumns = `id, template_name, description, policy_type, default_conditions,
		 min_coverage_amount, max_coverage_amount, base_premium_rate, is_active, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListActive(ctx context.Context) ([]models.PolicyTemplate, error) {
	query :=
		`SELECT ` + templateColumns + ` FROM policy_templates
		 WHERE is_active = true
		 ORDER BY template_name
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	templates := []models.PolicyTemplate{}
	for rows.Next() {
		var t models.PolicyTemplate
		if err := scanTemplate(rows.Scan, &t); err != nil {
			return nil, fmt.Errorf("error scanning row: %v", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %v", err)
	}

	return templates, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.PolicyTemplate, error) {
	query :=
		`SELECT ` + templateColumns + ` FROM policy_templates
		 WHERE id = $1
		 `

	t := &models.PolicyTemplate{}
	err := scanTemplate(r.db.QueryRowContext(ctx, query, id).Scan, t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return t, nil
}

func scanTemplate(scan func(dest ...any) error, t *models.PolicyTemplate) error {
	return scan(
		&t.ID, &t.TemplateName, &t.Description, &t.PolicyType, &t.DefaultConditions,
		&t.MinCoverageAmount, &t.MaxCoverageAmount, &t.BasePremiumRate, &t.IsActive,
		&t.CreatedAt, &t.UpdatedAt)
}
