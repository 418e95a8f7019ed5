package ratio

import (
	"github.com/shopspring/decimal"

	"github.com/wonny/ratioservice/internal/contracts"
)

// Normalizer turns flat statement rows into year -> account -> amounts.
// Account names stay raw; canonicalization happens in AccountResolver.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize groups rows by fiscal year. Null amounts become 0.
// Duplicate (year, account) rows are last-write-wins in input order.
func (n *Normalizer) Normalize(rows []contracts.RawStatementRow) contracts.NormalizedStatements {
	out := make(contracts.NormalizedStatements)

	for _, row := range rows {
		yearData, ok := out[row.FiscalYear]
		if !ok {
			yearData = make(contracts.NormalizedYearData)
			out[row.FiscalYear] = yearData
		}

		yearData[row.AccountName] = contracts.PeriodAmounts{
			Current:    amountOrZero(row.CurrentAmount),
			Prior:      amountOrZero(row.PriorAmount),
			PriorPrior: amountOrZero(row.PriorPriorAmount),
		}
	}

	return out
}

func amountOrZero(d decimal.NullDecimal) float64 {
	if !d.Valid {
		return 0
	}
	return d.Decimal.InexactFloat64()
}
