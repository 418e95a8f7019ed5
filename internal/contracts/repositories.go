package contracts

import "context"

// ⭐ SSOT: Repository 인터페이스 정의는 여기서만

// StatementRepository reads raw statement rows.
// An empty slice means "no data" and is not an error.
type StatementRepository interface {
	FetchRawStatements(ctx context.Context, companyName string, year *int) ([]RawStatementRow, error)
}

// StatementWriter stores rows collected from DART
type StatementWriter interface {
	SaveStatements(ctx context.Context, company Company, rows []RawStatementRow) error
}

// CompanyRepository lists and finds stored companies
type CompanyRepository interface {
	ListCompanies(ctx context.Context) ([]Company, error)
	FindCompanyByName(ctx context.Context, name string) (*Company, error)
}

// RatioRepository persists computed ratios, unique on (company_code, fiscal_year)
type RatioRepository interface {
	FetchCachedRatios(ctx context.Context, companyCode string, years []string) ([]CachedRatioRecord, error)
	UpsertRatioRecord(ctx context.Context, record CachedRatioRecord) error
}
