package ratio

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ratioservice/internal/contracts"
)

func TestNormalizer_Normalize(t *testing.T) {
	rows := []contracts.RawStatementRow{
		{
			FiscalYear:       "2023",
			AccountName:      "자산총계",
			CurrentAmount:    amt(1000),
			PriorAmount:      amt(900),
			PriorPriorAmount: amt(800),
		},
		{
			FiscalYear:    "2023",
			AccountName:   "매출액",
			CurrentAmount: amt(500),
		},
		{
			FiscalYear:  "2022",
			AccountName: "자산총계",
		},
	}

	got := NewNormalizer().Normalize(rows)

	require.Len(t, got, 2)
	assert.Equal(t, contracts.PeriodAmounts{Current: 1000, Prior: 900, PriorPrior: 800}, got["2023"]["자산총계"])
	assert.Equal(t, contracts.PeriodAmounts{Current: 500}, got["2023"]["매출액"])
	// null amounts become 0, the year is still present
	assert.Equal(t, contracts.PeriodAmounts{}, got["2022"]["자산총계"])
}

func TestNormalizer_LastWriteWins(t *testing.T) {
	rows := []contracts.RawStatementRow{
		{FiscalYear: "2023", Division: contracts.DivisionIS, AccountName: "당기순이익", CurrentAmount: amt(10)},
		{FiscalYear: "2023", Division: contracts.DivisionCIS, AccountName: "당기순이익", CurrentAmount: amt(30)},
	}

	got := NewNormalizer().Normalize(rows)

	assert.Equal(t, 30.0, got["2023"]["당기순이익"].Current)
}

func TestNormalizer_KeepsRawAccountNames(t *testing.T) {
	rows := []contracts.RawStatementRow{
		{FiscalYear: "2023", AccountName: "총자산", CurrentAmount: amt(1)},
		{FiscalYear: "2023", AccountName: "기타포괄손익", CurrentAmount: amt(2)},
	}

	got := NewNormalizer().Normalize(rows)

	assert.Contains(t, got["2023"], "총자산")
	assert.Contains(t, got["2023"], "기타포괄손익")
}

func TestNormalizer_DecimalPrecision(t *testing.T) {
	big := decimal.RequireFromString("302231360000000")
	rows := []contracts.RawStatementRow{
		{FiscalYear: "2023", AccountName: "매출액", CurrentAmount: decimal.NewNullDecimal(big)},
		{FiscalYear: "2023", AccountName: "영업이익", CurrentAmount: decimal.NewNullDecimal(decimal.RequireFromString("-1234.5"))},
	}

	got := NewNormalizer().Normalize(rows)

	assert.Equal(t, 302231360000000.0, got["2023"]["매출액"].Current)
	assert.Equal(t, -1234.5, got["2023"]["영업이익"].Current)
}

func TestNormalizer_Empty(t *testing.T) {
	assert.Empty(t, NewNormalizer().Normalize(nil))
}
