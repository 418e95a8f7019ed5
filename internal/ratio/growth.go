package ratio

import (
	"math"

	"github.com/wonny/ratioservice/internal/contracts"
	"github.com/wonny/ratioservice/pkg/logger"
)

// GrowthEngine computes year-over-year growth for revenue and net income
// ⭐ SSOT: 성장률 계산은 여기서만
type GrowthEngine struct {
	resolver *AccountResolver
	logger   *logger.Logger
}

// NewGrowthEngine creates a new growth engine
func NewGrowthEngine(resolver *AccountResolver, log *logger.Logger) *GrowthEngine {
	return &GrowthEngine{
		resolver: resolver,
		logger:   log,
	}
}

// ComputeGrowth takes values ordered most-recent-first and returns a slice of the
// same length. Position 0 is always 0. Position i compares values[i-1] with the
// adjacent older entry values[i]; an older value of 0 yields 0.
//
//	[120, 100, 80] -> [0, 20, 25]
func (g *GrowthEngine) ComputeGrowth(values []float64) []float64 {
	growth := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		growth[i] = growthRate(values[i-1], values[i])
	}
	return growth
}

// ComputeAll returns revenue and net income growth per target year
func (g *GrowthEngine) ComputeAll(normalized contracts.NormalizedStatements, years []string) map[string]contracts.GrowthSet {
	revenue := make([]float64, len(years))
	netIncome := make([]float64, len(years))

	for i, year := range years {
		if amounts, ok := g.resolver.Lookup(normalized[year], contracts.Revenue); ok {
			revenue[i] = amounts.Current
		}
		if amounts, ok := g.resolver.Lookup(normalized[year], contracts.NetIncome); ok {
			netIncome[i] = amounts.Current
		}
	}

	revenueGrowth := g.ComputeGrowth(revenue)
	netIncomeGrowth := g.ComputeGrowth(netIncome)

	out := make(map[string]contracts.GrowthSet, len(years))
	for i, year := range years {
		out[year] = contracts.GrowthSet{
			RevenueGrowth:   revenueGrowth[i],
			NetIncomeGrowth: netIncomeGrowth[i],
		}
	}
	return out
}

func growthRate(newer, older float64) float64 {
	if older == 0 {
		return 0
	}
	v := (newer - older) / math.Abs(older) * 100
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return round2(v)
}
