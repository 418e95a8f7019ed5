package quality

import (
	"sort"

	"github.com/wonny/ratioservice/internal/contracts"
	"github.com/wonny/ratioservice/internal/ratio"
	"github.com/wonny/ratioservice/pkg/logger"
)

// DefaultMinScore is the weighted coverage below which a report is flagged
const DefaultMinScore = 0.75

// 가중치 (합계 = 1.0)
var accountWeights = map[contracts.CanonicalAccountKey]float64{
	contracts.Revenue:            0.20,
	contracts.OperatingProfit:    0.15,
	contracts.NetIncome:          0.15,
	contracts.TotalEquity:        0.15,
	contracts.TotalAssets:        0.10,
	contracts.TotalLiabilities:   0.10,
	contracts.CurrentAssets:      0.075,
	contracts.CurrentLiabilities: 0.075,
}

// Config holds quality gate thresholds
type Config struct {
	MinScore float64 // 0 means DefaultMinScore
}

// Snapshot is the account coverage of the most recent year in a report
type Snapshot struct {
	Year     string
	Present  []contracts.CanonicalAccountKey
	Missing  []contracts.CanonicalAccountKey
	Score    float64 // weighted coverage 0.0 - 1.0
	Passed   bool
	Accounts int // distinct account names in that year
}

// Gate scores collected statements by how many canonical accounts resolve.
// Ratios over a report that fails the gate come out mostly undefined.
// ⭐ SSOT: 수집 데이터 품질 검증은 여기서만
type Gate struct {
	resolver   *ratio.AccountResolver
	normalizer *ratio.Normalizer
	selector   *ratio.YearSelector
	config     Config
}

// NewGate creates a new quality gate
func NewGate(config Config, log *logger.Logger) *Gate {
	if config.MinScore <= 0 {
		config.MinScore = DefaultMinScore
	}
	return &Gate{
		resolver:   ratio.NewAccountResolver(log.Module("quality")),
		normalizer: ratio.NewNormalizer(),
		selector:   ratio.NewYearSelector(1),
		config:     config,
	}
}

// Check validates the most recent fiscal year found in rows.
// Rows without a valid year score 0.
func (g *Gate) Check(rows []contracts.RawStatementRow) Snapshot {
	normalized := g.normalizer.Normalize(rows)

	years, err := g.selector.Select(normalized)
	if err != nil {
		return Snapshot{Missing: contracts.CanonicalAccountKeys()}
	}

	year := years[0]
	yearData := normalized[year]
	snap := Snapshot{Year: year, Accounts: len(yearData)}

	for _, key := range contracts.CanonicalAccountKeys() {
		if _, ok := g.resolver.Lookup(yearData, key); ok {
			snap.Present = append(snap.Present, key)
			snap.Score += accountWeights[key]
		} else {
			snap.Missing = append(snap.Missing, key)
		}
	}

	sort.Slice(snap.Missing, func(i, j int) bool { return snap.Missing[i] < snap.Missing[j] })
	snap.Passed = snap.Score >= g.config.MinScore-1e-9
	return snap
}
