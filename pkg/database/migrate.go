package database

import (
	"context"
	"fmt"
)

// pipelineTables are the tables schema creates, in dependency order
var pipelineTables = []string{"companies", "statement", "financials", "financial_ratios"}

// schema is applied in order; every statement is idempotent
var schema = []string{
	`CREATE TABLE IF NOT EXISTS companies (
		corp_code   VARCHAR(8) PRIMARY KEY,
		corp_name   VARCHAR(200) NOT NULL,
		stock_code  VARCHAR(6) NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_companies_corp_name ON companies (corp_name)`,

	`CREATE TABLE IF NOT EXISTS statement (
		sj_div  VARCHAR(5) PRIMARY KEY,
		sj_nm   VARCHAR(50) NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS financials (
		id                BIGSERIAL PRIMARY KEY,
		corp_code         VARCHAR(8) NOT NULL REFERENCES companies (corp_code),
		bsns_year         VARCHAR(4) NOT NULL,
		sj_div            VARCHAR(5) NOT NULL REFERENCES statement (sj_div),
		account_nm        VARCHAR(200) NOT NULL,
		thstrm_amount     NUMERIC(24, 0),
		frmtrm_amount     NUMERIC(24, 0),
		bfefrmtrm_amount  NUMERIC(24, 0),
		ord               INTEGER,
		currency          VARCHAR(3) NOT NULL DEFAULT 'KRW',
		rcept_no          VARCHAR(14) NOT NULL DEFAULT '',
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (corp_code, bsns_year, sj_div, account_nm)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_financials_corp_year ON financials (corp_code, bsns_year DESC)`,

	`CREATE TABLE IF NOT EXISTS financial_ratios (
		corp_code               VARCHAR(8) NOT NULL,
		corp_name               VARCHAR(200) NOT NULL,
		bsns_year               VARCHAR(4) NOT NULL,
		debt_ratio              DOUBLE PRECISION,
		current_ratio           DOUBLE PRECISION,
		operating_profit_ratio  DOUBLE PRECISION,
		net_profit_ratio        DOUBLE PRECISION,
		roe                     DOUBLE PRECISION,
		roa                     DOUBLE PRECISION,
		sales_growth            DOUBLE PRECISION NOT NULL DEFAULT 0,
		eps_growth              DOUBLE PRECISION NOT NULL DEFAULT 0,
		updated_at              TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (corp_code, bsns_year)
	)`,
}

// Migrate creates the tables the ratio pipeline reads and writes
func (db *DB) Migrate(ctx context.Context) error {
	return db.WithTx(ctx, func(tx Tx) error {
		for i, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migration step %d: %w", i+1, err)
			}
		}
		return nil
	})
}
