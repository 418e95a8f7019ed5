package contracts

import "context"

// RatioCalculator derives point-in-time ratios (RatioEngine)
// ⭐ SSOT: 재무비율 계산 인터페이스
type RatioCalculator interface {
	ComputeAll(normalized NormalizedStatements, years []string) map[string]RatioSet
}

// GrowthCalculator derives year-over-year growth (GrowthEngine)
// ⭐ SSOT: 성장률 계산 인터페이스
type GrowthCalculator interface {
	ComputeAll(normalized NormalizedStatements, years []string) map[string]GrowthSet
}

// RatioCache short-circuits recomputation.
// Get returns whatever records exist for the requested years (possibly fewer).
type RatioCache interface {
	Get(ctx context.Context, companyCode string, years []string) ([]CachedRatioRecord, error)
	Put(ctx context.Context, record CachedRatioRecord) error
}
