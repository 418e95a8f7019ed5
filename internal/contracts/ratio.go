package contracts

import "time"

// CanonicalAccountKey is a vendor-neutral financial line item
type CanonicalAccountKey string

const (
	TotalAssets        CanonicalAccountKey = "total_assets"
	TotalLiabilities   CanonicalAccountKey = "total_liabilities"
	CurrentAssets      CanonicalAccountKey = "current_assets"
	CurrentLiabilities CanonicalAccountKey = "current_liabilities"
	TotalEquity        CanonicalAccountKey = "total_equity"
	Revenue            CanonicalAccountKey = "revenue"
	OperatingProfit    CanonicalAccountKey = "operating_profit"
	NetIncome          CanonicalAccountKey = "net_income"
)

// CanonicalAccountKeys returns the closed set of keys
func CanonicalAccountKeys() []CanonicalAccountKey {
	return []CanonicalAccountKey{
		TotalAssets, TotalLiabilities, CurrentAssets, CurrentLiabilities,
		TotalEquity, Revenue, OperatingProfit, NetIncome,
	}
}

// RatioSet holds point-in-time ratios in percent.
// nil means undefined (zero denominator), distinct from a computed 0.
type RatioSet struct {
	OperatingMargin *float64 `json:"operating_margin"`
	NetMargin       *float64 `json:"net_margin"`
	ROE             *float64 `json:"roe"`
	ROA             *float64 `json:"roa"`
	DebtRatio       *float64 `json:"debt_ratio"`
	CurrentRatio    *float64 `json:"current_ratio"`
}

// GrowthSet holds year-over-year growth in percent
type GrowthSet struct {
	RevenueGrowth   float64 `json:"revenue_growth"`
	NetIncomeGrowth float64 `json:"net_income_growth"`
}

// CachedRatioRecord is the persisted result for one (company, fiscal year)
// ⭐ SSOT: financial_ratios 테이블 한 행
type CachedRatioRecord struct {
	CompanyCode string    `json:"corp_code"`
	CompanyName string    `json:"corp_name"`
	FiscalYear  string    `json:"bsns_year"`
	Ratios      RatioSet  `json:"ratios"`
	Growth      GrowthSet `json:"growth"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MetricsResponse is the client-facing payload. Every array is indexed like Years.
type MetricsResponse struct {
	CompanyName       string            `json:"companyName"`
	Years             []string          `json:"years"`
	FinancialMetrics  FinancialMetrics  `json:"financialMetrics"`
	GrowthData        GrowthData        `json:"growthData"`
	DebtLiquidityData DebtLiquidityData `json:"debtLiquidityData"`
}

type FinancialMetrics struct {
	OperatingMargin []*float64 `json:"operatingMargin"`
	NetMargin       []*float64 `json:"netMargin"`
	ROE             []*float64 `json:"roe"`
	ROA             []*float64 `json:"roa"`
	Years           []string   `json:"years"`
}

type GrowthData struct {
	RevenueGrowth   []float64 `json:"revenueGrowth"`
	NetIncomeGrowth []float64 `json:"netIncomeGrowth"`
	Years           []string  `json:"years"`
}

type DebtLiquidityData struct {
	DebtRatio    []*float64 `json:"debtRatio"`
	CurrentRatio []*float64 `json:"currentRatio"`
	Years        []string   `json:"years"`
}

// SeriesLengths reports the length of every array for invariant checks
func (r *MetricsResponse) SeriesLengths() map[string]int {
	return map[string]int{
		"years":           len(r.Years),
		"operatingMargin": len(r.FinancialMetrics.OperatingMargin),
		"netMargin":       len(r.FinancialMetrics.NetMargin),
		"roe":             len(r.FinancialMetrics.ROE),
		"roa":             len(r.FinancialMetrics.ROA),
		"revenueGrowth":   len(r.GrowthData.RevenueGrowth),
		"netIncomeGrowth": len(r.GrowthData.NetIncomeGrowth),
		"debtRatio":       len(r.DebtLiquidityData.DebtRatio),
		"currentRatio":    len(r.DebtLiquidityData.CurrentRatio),
	}
}
