package ratio

import (
	"fmt"
	"math"

	"github.com/wonny/ratioservice/internal/contracts"
)

// Series holds per-year values aligned with a years slice.
// Growth entries that are nil or NaN are reported as 0.
type Series struct {
	OperatingMargin []*float64
	NetMargin       []*float64
	ROE             []*float64
	ROA             []*float64
	DebtRatio       []*float64
	CurrentRatio    []*float64
	RevenueGrowth   []*float64
	NetIncomeGrowth []*float64
}

// Assembler packages ratios and growth into the client response
type Assembler struct{}

func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble orders per-year maps by years. A year missing from ratios yields
// null ratios; a year missing from growth yields 0 growth.
func (a *Assembler) Assemble(
	companyName string,
	years []string,
	ratios map[string]contracts.RatioSet,
	growth map[string]contracts.GrowthSet,
) (*contracts.MetricsResponse, error) {
	n := len(years)
	s := Series{
		OperatingMargin: make([]*float64, n),
		NetMargin:       make([]*float64, n),
		ROE:             make([]*float64, n),
		ROA:             make([]*float64, n),
		DebtRatio:       make([]*float64, n),
		CurrentRatio:    make([]*float64, n),
		RevenueGrowth:   make([]*float64, n),
		NetIncomeGrowth: make([]*float64, n),
	}

	for i, year := range years {
		if r, ok := ratios[year]; ok {
			s.OperatingMargin[i] = r.OperatingMargin
			s.NetMargin[i] = r.NetMargin
			s.ROE[i] = r.ROE
			s.ROA[i] = r.ROA
			s.DebtRatio[i] = r.DebtRatio
			s.CurrentRatio[i] = r.CurrentRatio
		}
		if g, ok := growth[year]; ok {
			rev, ni := g.RevenueGrowth, g.NetIncomeGrowth
			s.RevenueGrowth[i] = &rev
			s.NetIncomeGrowth[i] = &ni
		}
	}

	return a.AssembleSeries(companyName, years, s)
}

// AssembleFromRecords builds the response from persisted records
func (a *Assembler) AssembleFromRecords(companyName string, years []string, records []contracts.CachedRatioRecord) (*contracts.MetricsResponse, error) {
	ratios := make(map[string]contracts.RatioSet, len(records))
	growth := make(map[string]contracts.GrowthSet, len(records))
	for _, rec := range records {
		ratios[rec.FiscalYear] = rec.Ratios
		growth[rec.FiscalYear] = rec.Growth
	}
	return a.Assemble(companyName, years, ratios, growth)
}

// AssembleSeries sanitizes the series and enforces that every array has len(years).
// A violation returns ErrLengthMismatch.
func (a *Assembler) AssembleSeries(companyName string, years []string, s Series) (*contracts.MetricsResponse, error) {
	ys := append([]string{}, years...)

	resp := &contracts.MetricsResponse{
		CompanyName: companyName,
		Years:       ys,
		FinancialMetrics: contracts.FinancialMetrics{
			OperatingMargin: sanitizeRatios(s.OperatingMargin),
			NetMargin:       sanitizeRatios(s.NetMargin),
			ROE:             sanitizeRatios(s.ROE),
			ROA:             sanitizeRatios(s.ROA),
			Years:           ys,
		},
		GrowthData: contracts.GrowthData{
			RevenueGrowth:   sanitizeGrowth(s.RevenueGrowth),
			NetIncomeGrowth: sanitizeGrowth(s.NetIncomeGrowth),
			Years:           ys,
		},
		DebtLiquidityData: contracts.DebtLiquidityData{
			DebtRatio:    sanitizeRatios(s.DebtRatio),
			CurrentRatio: sanitizeRatios(s.CurrentRatio),
			Years:        ys,
		},
	}

	for name, n := range resp.SeriesLengths() {
		if n != len(ys) {
			return nil, fmt.Errorf("%w: %s has %d entries, want %d", ErrLengthMismatch, name, n, len(ys))
		}
	}
	return resp, nil
}

// sanitizeRatios keeps nil as "undefined" and turns NaN/Inf into nil
func sanitizeRatios(in []*float64) []*float64 {
	out := make([]*float64, len(in))
	for i, v := range in {
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}
		x := *v
		out[i] = &x
	}
	return out
}

// sanitizeGrowth maps nil/NaN/Inf to 0
func sanitizeGrowth(in []*float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}
		out[i] = *v
	}
	return out
}
