package store

import (
	"context"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ratioservice/internal/contracts"
	"github.com/wonny/ratioservice/pkg/config"
	"github.com/wonny/ratioservice/pkg/database"
)

const testCorpCode = "99999901"

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	db, err := database.New(cfg)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	ctx := context.Background()
	require.NoError(t, db.Migrate(ctx))
	t.Cleanup(func() {
		db.Pool.Exec(ctx, `DELETE FROM financial_ratios WHERE corp_code = $1`, testCorpCode)
		db.Pool.Exec(ctx, `DELETE FROM financials WHERE corp_code = $1`, testCorpCode)
		db.Pool.Exec(ctx, `DELETE FROM companies WHERE corp_code = $1`, testCorpCode)
	})
	return db
}

func testRows() []contracts.RawStatementRow {
	var rows []contracts.RawStatementRow
	for i, year := range []string{"2020", "2021", "2022", "2023"} {
		ord := 1
		rows = append(rows, contracts.RawStatementRow{
			FiscalYear:    year,
			Division:      contracts.DivisionBS,
			AccountName:   "자산총계",
			CurrentAmount: decimal.NewNullDecimal(decimal.NewFromInt(int64(1000 + i*100))),
			Ord:           &ord,
		})
	}
	return rows
}

func TestStatementRepository_SaveAndFetch(t *testing.T) {
	db := newTestDB(t)
	repo := NewStatementRepository(db)
	ctx := context.Background()
	company := contracts.Company{CorpCode: testCorpCode, CorpName: "테스트통합전자", StockCode: "999991"}

	require.NoError(t, repo.SeedStatementDivisions(ctx))
	require.NoError(t, repo.SaveStatements(ctx, company, testRows()))

	rows, err := repo.FetchRawStatements(ctx, company.CorpName, nil)
	require.NoError(t, err)
	require.Len(t, rows, 3, "only the 3 most recent years")
	assert.Equal(t, "2023", rows[0].FiscalYear)
	assert.Equal(t, testCorpCode, rows[0].CompanyCode)
	assert.True(t, rows[0].CurrentAmount.Valid)
	assert.False(t, rows[0].PriorAmount.Valid)
	assert.Equal(t, "1300", rows[0].CurrentAmount.Decimal.String())

	year := 2020
	rows, err = repo.FetchRawStatements(ctx, company.CorpName, &year)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2020", rows[0].FiscalYear)

	found, err := repo.FindCompanyByName(ctx, company.CorpName)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, testCorpCode, found.CorpCode)

	missing, err := repo.FindCompanyByName(ctx, "존재하지않는회사명")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRatioRepository_UpsertAndFetch(t *testing.T) {
	db := newTestDB(t)
	repo := NewRatioRepository(db.Pool)
	ctx := context.Background()

	roe := 5.0
	rec := contracts.CachedRatioRecord{
		CompanyCode: testCorpCode,
		CompanyName: "테스트통합전자",
		FiscalYear:  "2023",
		Ratios:      contracts.RatioSet{ROE: &roe},
		Growth:      contracts.GrowthSet{RevenueGrowth: 11.11},
	}
	require.NoError(t, repo.UpsertRatioRecord(ctx, rec))

	roe2 := 6.0
	rec.Ratios.ROE = &roe2
	require.NoError(t, repo.UpsertRatioRecord(ctx, rec))

	got, err := repo.FetchCachedRatios(ctx, testCorpCode, []string{"2023", "2022"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 6.0, *got[0].Ratios.ROE)
	assert.Nil(t, got[0].Ratios.DebtRatio)
	assert.Equal(t, 11.11, got[0].Growth.RevenueGrowth)
}

func TestParseNullDecimal(t *testing.T) {
	d, err := parseNullDecimal(nil)
	require.NoError(t, err)
	assert.False(t, d.Valid)

	s := "-12345.67"
	d, err = parseNullDecimal(&s)
	require.NoError(t, err)
	assert.Equal(t, "-12345.67", d.Decimal.String())

	bad := "abc"
	_, err = parseNullDecimal(&bad)
	assert.Error(t, err)
}

func TestDecimalText(t *testing.T) {
	assert.Nil(t, decimalText(decimal.NullDecimal{}))
	assert.Equal(t, "1000", *decimalText(decimal.NewNullDecimal(decimal.NewFromInt(1000))))
}
