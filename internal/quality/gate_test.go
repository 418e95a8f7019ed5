package quality

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/wonny/ratioservice/internal/contracts"
	"github.com/wonny/ratioservice/pkg/logger"
)

func row(year string, div contracts.StatementDivision, account string, amount int64) contracts.RawStatementRow {
	return contracts.RawStatementRow{
		CompanyCode:   "00999999",
		FiscalYear:    year,
		Division:      div,
		AccountName:   account,
		CurrentAmount: decimal.NewNullDecimal(decimal.NewFromInt(amount)),
	}
}

func fullYear(year string) []contracts.RawStatementRow {
	return []contracts.RawStatementRow{
		row(year, contracts.DivisionBS, "자산총계", 1000),
		row(year, contracts.DivisionBS, "부채총계", 400),
		row(year, contracts.DivisionBS, "자본총계", 600),
		row(year, contracts.DivisionBS, "유동자산", 300),
		row(year, contracts.DivisionBS, "유동부채", 200),
		row(year, contracts.DivisionIS, "매출액", 500),
		row(year, contracts.DivisionIS, "영업이익", 50),
		row(year, contracts.DivisionIS, "당기순이익", 30),
	}
}

func TestAccountWeightsSumToOne(t *testing.T) {
	sum := 0.0
	for _, key := range contracts.CanonicalAccountKeys() {
		w, ok := accountWeights[key]
		assert.True(t, ok, key)
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestGate_FullReport(t *testing.T) {
	gate := NewGate(Config{}, logger.NewNop())

	snap := gate.Check(fullYear("2023"))
	assert.Equal(t, "2023", snap.Year)
	assert.InDelta(t, 1.0, snap.Score, 1e-9)
	assert.True(t, snap.Passed)
	assert.Empty(t, snap.Missing)
	assert.Len(t, snap.Present, 8)
	assert.Equal(t, 8, snap.Accounts)
}

func TestGate_UsesMostRecentYear(t *testing.T) {
	gate := NewGate(Config{}, logger.NewNop())

	rows := append(fullYear("2022"), row("2023", contracts.DivisionIS, "매출액", 500))
	snap := gate.Check(rows)

	assert.Equal(t, "2023", snap.Year)
	assert.InDelta(t, 0.20, snap.Score, 1e-9)
	assert.False(t, snap.Passed)
	assert.Len(t, snap.Missing, 7)
}

func TestGate_MissingIncomeStatement(t *testing.T) {
	gate := NewGate(Config{MinScore: 0.5}, logger.NewNop())

	var bsOnly []contracts.RawStatementRow
	for _, r := range fullYear("2023") {
		if r.Division == contracts.DivisionBS {
			bsOnly = append(bsOnly, r)
		}
	}
	snap := gate.Check(bsOnly)

	assert.InDelta(t, 0.50, snap.Score, 1e-9)
	assert.True(t, snap.Passed)
	assert.Equal(t, []contracts.CanonicalAccountKey{contracts.NetIncome, contracts.OperatingProfit, contracts.Revenue}, snap.Missing)
}

func TestGate_NoValidYear(t *testing.T) {
	gate := NewGate(Config{}, logger.NewNop())

	snap := gate.Check([]contracts.RawStatementRow{row("FY23", contracts.DivisionIS, "매출액", 1)})
	assert.Equal(t, "", snap.Year)
	assert.Zero(t, snap.Score)
	assert.False(t, snap.Passed)
	assert.Len(t, snap.Missing, 8)
}
