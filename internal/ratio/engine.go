package ratio

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/wonny/ratioservice/internal/contracts"
	"github.com/wonny/ratioservice/pkg/logger"
)

// RatioEngine computes point-in-time ratios per fiscal year
// ⭐ SSOT: 재무비율 공식은 여기서만
type RatioEngine struct {
	resolver *AccountResolver
	logger   *logger.Logger
}

// NewRatioEngine creates a new ratio engine
func NewRatioEngine(resolver *AccountResolver, log *logger.Logger) *RatioEngine {
	return &RatioEngine{
		resolver: resolver,
		logger:   log,
	}
}

// ComputeRatioSet derives the six ratios from canonical values of one year
func (e *RatioEngine) ComputeRatioSet(values map[contracts.CanonicalAccountKey]float64) contracts.RatioSet {
	return contracts.RatioSet{
		OperatingMargin: percentOf(values[contracts.OperatingProfit], values[contracts.Revenue]),
		NetMargin:       percentOf(values[contracts.NetIncome], values[contracts.Revenue]),
		ROE:             percentOf(values[contracts.NetIncome], values[contracts.TotalEquity]),
		ROA:             percentOf(values[contracts.NetIncome], values[contracts.TotalAssets]),
		DebtRatio:       percentOf(values[contracts.TotalLiabilities], values[contracts.TotalEquity]),
		CurrentRatio:    percentOf(values[contracts.CurrentAssets], values[contracts.CurrentLiabilities]),
	}
}

// ComputeAll computes a RatioSet for every target year
func (e *RatioEngine) ComputeAll(normalized contracts.NormalizedStatements, years []string) map[string]contracts.RatioSet {
	out := make(map[string]contracts.RatioSet, len(years))
	for _, year := range years {
		values := e.resolver.ResolveAll(year, normalized[year])
		out[year] = e.ComputeRatioSet(values)
	}

	e.logger.WithField("years", years).Debug("Computed ratio sets")
	return out
}

// percentOf returns numerator/denominator*100 rounded to 2 places.
// A zero denominator or a non-finite result yields nil (undefined).
func percentOf(numerator, denominator float64) *float64 {
	if denominator == 0 {
		return nil
	}
	v := numerator / denominator * 100
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	r := round2(v)
	return &r
}

// round2 rounds half away from zero to 2 decimal places
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
