package ratio

import (
	"github.com/wonny/ratioservice/internal/contracts"
	"github.com/wonny/ratioservice/pkg/logger"
)

// accountVariants lists accepted raw account names per key, most preferred first.
// Read-only after init.
var accountVariants = map[contracts.CanonicalAccountKey][]string{
	contracts.TotalAssets:        {"자산총계", "총자산"},
	contracts.CurrentAssets:      {"유동자산"},
	contracts.TotalLiabilities:   {"부채총계", "총부채"},
	contracts.CurrentLiabilities: {"유동부채"},
	contracts.TotalEquity:        {"자본총계", "총자본", "자본", "지배기업소유주지분"},
	contracts.Revenue:            {"매출액", "영업수익", "매출", "수익(매출액)"},
	contracts.OperatingProfit:    {"영업이익", "영업이익(손실)"},
	contracts.NetIncome:          {"당기순이익", "당기순이익(손실)", "당기순손익", "지배기업소유주지분순이익"},
}

// AccountResolver maps raw account labels to canonical keys
// ⭐ SSOT: 계정과목 매핑은 여기서만
type AccountResolver struct {
	logger *logger.Logger
}

// NewAccountResolver creates a new account resolver
func NewAccountResolver(log *logger.Logger) *AccountResolver {
	return &AccountResolver{logger: log}
}

// Variants returns a copy of the preference list for key
func (r *AccountResolver) Variants(key contracts.CanonicalAccountKey) []string {
	return append([]string(nil), accountVariants[key]...)
}

// Lookup returns the amounts of the first variant present in yearData
func (r *AccountResolver) Lookup(yearData contracts.NormalizedYearData, key contracts.CanonicalAccountKey) (contracts.PeriodAmounts, bool) {
	for _, name := range accountVariants[key] {
		if amounts, ok := yearData[name]; ok {
			return amounts, true
		}
	}
	return contracts.PeriodAmounts{}, false
}

// Resolve returns the current-period amount for key, 0 when no variant is present.
// It never fails; a missing account is logged.
func (r *AccountResolver) Resolve(yearData contracts.NormalizedYearData, key contracts.CanonicalAccountKey) float64 {
	amounts, ok := r.Lookup(yearData, key)
	if !ok {
		r.logger.WithField("account", string(key)).Warn("Account not found, using 0")
		return 0
	}
	return amounts.Current
}

// ResolveAll resolves every canonical key for one fiscal year
func (r *AccountResolver) ResolveAll(year string, yearData contracts.NormalizedYearData) map[contracts.CanonicalAccountKey]float64 {
	values := make(map[contracts.CanonicalAccountKey]float64, len(accountVariants))
	var missing []string

	for _, key := range contracts.CanonicalAccountKeys() {
		amounts, ok := r.Lookup(yearData, key)
		if !ok {
			missing = append(missing, string(key))
		}
		values[key] = amounts.Current
	}

	if len(missing) > 0 {
		r.logger.WithFields(map[string]interface{}{
			"year":     year,
			"accounts": missing,
		}).Warn("Accounts not found, using 0")
	}
	return values
}
