package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/wonny/ratioservice/internal/contracts"
	"github.com/wonny/ratioservice/pkg/database"
)

// StatementRepository implements contracts.StatementRepository, StatementWriter and CompanyRepository
// ⭐ SSOT: financials / companies / statement 테이블 접근은 여기서만
type StatementRepository struct {
	db *database.DB
}

// NewStatementRepository creates a new statement repository
func NewStatementRepository(db *database.DB) *StatementRepository {
	return &StatementRepository{db: db}
}

const selectStatementsBase = `
	SELECT
		c.corp_code, c.corp_name, c.stock_code,
		f.bsns_year, f.sj_div, f.account_nm,
		f.thstrm_amount::text, f.frmtrm_amount::text, f.bfefrmtrm_amount::text,
		f.ord, f.currency, f.rcept_no
	FROM financials f
	JOIN companies c ON f.corp_code = c.corp_code
	JOIN statement s ON f.sj_div = s.sj_div
	WHERE c.corp_name = $1
`

// FetchRawStatements returns rows for one year, or for the company's 3 most
// recent distinct years when year is nil. Ordered bsns_year DESC, sj_div, ord.
func (r *StatementRepository) FetchRawStatements(ctx context.Context, companyName string, year *int) ([]contracts.RawStatementRow, error) {
	var (
		query string
		args  []any
	)

	if year != nil {
		query = selectStatementsBase + `
			AND f.bsns_year = $2
			ORDER BY f.bsns_year DESC, f.sj_div, f.ord`
		args = []any{companyName, fmt.Sprintf("%04d", *year)}
	} else {
		query = selectStatementsBase + `
			AND f.bsns_year IN (
				SELECT DISTINCT f2.bsns_year
				FROM financials f2
				JOIN companies c2 ON f2.corp_code = c2.corp_code
				WHERE c2.corp_name = $1
				ORDER BY f2.bsns_year DESC
				LIMIT 3
			)
			ORDER BY f.bsns_year DESC, f.sj_div, f.ord`
		args = []any{companyName}
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query financials: %w", err)
	}
	defer rows.Close()

	var out []contracts.RawStatementRow
	for rows.Next() {
		var (
			row                    contracts.RawStatementRow
			division               string
			current, prior, before *string
		)
		if err := rows.Scan(
			&row.CompanyCode, &row.CompanyName, &row.StockCode,
			&row.FiscalYear, &division, &row.AccountName,
			&current, &prior, &before,
			&row.Ord, &row.Currency, &row.ReceiptNo,
		); err != nil {
			return nil, fmt.Errorf("failed to scan financial row: %w", err)
		}

		row.Division = contracts.StatementDivision(division)
		if row.CurrentAmount, err = parseNullDecimal(current); err != nil {
			return nil, err
		}
		if row.PriorAmount, err = parseNullDecimal(prior); err != nil {
			return nil, err
		}
		if row.PriorPriorAmount, err = parseNullDecimal(before); err != nil {
			return nil, err
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating financials: %w", err)
	}
	return out, nil
}

// SaveStatements upserts the company, the divisions used and every row in one transaction
func (r *StatementRepository) SaveStatements(ctx context.Context, company contracts.Company, rows []contracts.RawStatementRow) error {
	if company.CorpCode == "" {
		return errors.New("save statements: empty corp_code")
	}

	return r.db.WithTx(ctx, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx, upsertCompanySQL, company.CorpCode, company.CorpName, company.StockCode); err != nil {
			return fmt.Errorf("upsert company %s: %w", company.CorpCode, err)
		}

		batch := &pgx.Batch{}
		seen := map[contracts.StatementDivision]bool{}
		for _, row := range rows {
			if !seen[row.Division] {
				seen[row.Division] = true
				batch.Queue(insertDivisionSQL, string(row.Division), divisionName(row.Division))
			}
		}
		for _, row := range rows {
			currency := row.Currency
			if currency == "" {
				currency = "KRW"
			}
			batch.Queue(upsertFinancialSQL,
				company.CorpCode, row.FiscalYear, string(row.Division), row.AccountName,
				decimalText(row.CurrentAmount), decimalText(row.PriorAmount), decimalText(row.PriorPriorAmount),
				row.Ord, currency, row.ReceiptNo,
			)
		}

		return execBatch(tx.SendBatch(ctx, batch), batch.Len())
	})
}

// UpsertCompanies stores the DART corp code list
func (r *StatementRepository) UpsertCompanies(ctx context.Context, companies []contracts.Company) error {
	if len(companies) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range companies {
		batch.Queue(upsertCompanySQL, c.CorpCode, c.CorpName, c.StockCode)
	}
	return execBatch(r.db.Pool.SendBatch(ctx, batch), batch.Len())
}

// SeedStatementDivisions inserts every known statement division
func (r *StatementRepository) SeedStatementDivisions(ctx context.Context) error {
	batch := &pgx.Batch{}
	for _, d := range contracts.StatementDivisions() {
		batch.Queue(insertDivisionSQL, string(d), d.Name())
	}
	return execBatch(r.db.Pool.SendBatch(ctx, batch), batch.Len())
}

// ListCompanies returns every stored company ordered by name
func (r *StatementRepository) ListCompanies(ctx context.Context) ([]contracts.Company, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT corp_code, corp_name, stock_code
		FROM companies
		ORDER BY corp_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	defer rows.Close()

	companies := []contracts.Company{}
	for rows.Next() {
		var c contracts.Company
		if err := rows.Scan(&c.CorpCode, &c.CorpName, &c.StockCode); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// FindCompanyByName returns the exact-name match, preferring listed companies.
// Returns (nil, nil) when nothing matches.
func (r *StatementRepository) FindCompanyByName(ctx context.Context, name string) (*contracts.Company, error) {
	var c contracts.Company
	err := r.db.Pool.QueryRow(ctx, `
		SELECT corp_code, corp_name, stock_code
		FROM companies
		WHERE corp_name = $1
		ORDER BY (stock_code ~ '^[0-9]{6}$') DESC, corp_code
		LIMIT 1
	`, name).Scan(&c.CorpCode, &c.CorpName, &c.StockCode)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find company %s: %w", name, err)
	}
	return &c, nil
}

const upsertCompanySQL = `
	INSERT INTO companies (corp_code, corp_name, stock_code)
	VALUES ($1, $2, $3)
	ON CONFLICT (corp_code) DO UPDATE SET
		corp_name = EXCLUDED.corp_name,
		stock_code = EXCLUDED.stock_code,
		updated_at = NOW()
`

const insertDivisionSQL = `
	INSERT INTO statement (sj_div, sj_nm)
	VALUES ($1, $2)
	ON CONFLICT (sj_div) DO NOTHING
`

const upsertFinancialSQL = `
	INSERT INTO financials (
		corp_code, bsns_year, sj_div, account_nm,
		thstrm_amount, frmtrm_amount, bfefrmtrm_amount,
		ord, currency, rcept_no
	) VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7::numeric, $8, $9, $10)
	ON CONFLICT (corp_code, bsns_year, sj_div, account_nm) DO UPDATE SET
		thstrm_amount = EXCLUDED.thstrm_amount,
		frmtrm_amount = EXCLUDED.frmtrm_amount,
		bfefrmtrm_amount = EXCLUDED.bfefrmtrm_amount,
		ord = EXCLUDED.ord,
		currency = EXCLUDED.currency,
		rcept_no = EXCLUDED.rcept_no,
		updated_at = NOW()
`

func execBatch(br pgx.BatchResults, n int) error {
	for i := 0; i < n; i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("batch statement %d: %w", i+1, err)
		}
	}
	return br.Close()
}

func divisionName(d contracts.StatementDivision) string {
	if name := d.Name(); name != "" {
		return name
	}
	return string(d)
}

func parseNullDecimal(s *string) (decimal.NullDecimal, error) {
	if s == nil {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid amount %q: %w", *s, err)
	}
	return decimal.NewNullDecimal(d), nil
}

func decimalText(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.String()
	return &s
}
