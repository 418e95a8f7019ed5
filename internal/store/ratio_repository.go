package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/ratioservice/internal/contracts"
)

// RatioRepository implements contracts.RatioRepository over financial_ratios.
// sales_growth holds revenue growth and eps_growth holds net income growth.
type RatioRepository struct {
	pool *pgxpool.Pool
}

// NewRatioRepository creates a new ratio repository
func NewRatioRepository(pool *pgxpool.Pool) *RatioRepository {
	return &RatioRepository{pool: pool}
}

// FetchCachedRatios returns stored records of corpCode for the given years, newest first
func (r *RatioRepository) FetchCachedRatios(ctx context.Context, corpCode string, years []string) ([]contracts.CachedRatioRecord, error) {
	if len(years) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT
			corp_code, corp_name, bsns_year,
			debt_ratio, current_ratio,
			operating_profit_ratio, net_profit_ratio, roe, roa,
			sales_growth, eps_growth, updated_at
		FROM financial_ratios
		WHERE corp_code = $1 AND bsns_year = ANY($2)
		ORDER BY bsns_year DESC
	`, corpCode, years)
	if err != nil {
		return nil, fmt.Errorf("failed to query financial ratios: %w", err)
	}
	defer rows.Close()

	var records []contracts.CachedRatioRecord
	for rows.Next() {
		var rec contracts.CachedRatioRecord
		if err := rows.Scan(
			&rec.CompanyCode, &rec.CompanyName, &rec.FiscalYear,
			&rec.Ratios.DebtRatio, &rec.Ratios.CurrentRatio,
			&rec.Ratios.OperatingMargin, &rec.Ratios.NetMargin, &rec.Ratios.ROE, &rec.Ratios.ROA,
			&rec.Growth.RevenueGrowth, &rec.Growth.NetIncomeGrowth, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan financial ratio: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating financial ratios: %w", err)
	}
	return records, nil
}

// UpsertRatioRecord writes one record; unique on (corp_code, bsns_year), last write wins
func (r *RatioRepository) UpsertRatioRecord(ctx context.Context, rec contracts.CachedRatioRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO financial_ratios (
			corp_code, corp_name, bsns_year,
			debt_ratio, current_ratio,
			operating_profit_ratio, net_profit_ratio, roe, roa,
			sales_growth, eps_growth
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (corp_code, bsns_year) DO UPDATE SET
			corp_name = EXCLUDED.corp_name,
			debt_ratio = EXCLUDED.debt_ratio,
			current_ratio = EXCLUDED.current_ratio,
			operating_profit_ratio = EXCLUDED.operating_profit_ratio,
			net_profit_ratio = EXCLUDED.net_profit_ratio,
			roe = EXCLUDED.roe,
			roa = EXCLUDED.roa,
			sales_growth = EXCLUDED.sales_growth,
			eps_growth = EXCLUDED.eps_growth,
			updated_at = NOW()
	`,
		rec.CompanyCode, rec.CompanyName, rec.FiscalYear,
		rec.Ratios.DebtRatio, rec.Ratios.CurrentRatio,
		rec.Ratios.OperatingMargin, rec.Ratios.NetMargin, rec.Ratios.ROE, rec.Ratios.ROA,
		rec.Growth.RevenueGrowth, rec.Growth.NetIncomeGrowth,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert financial ratio %s/%s: %w", rec.CompanyCode, rec.FiscalYear, err)
	}
	return nil
}
