package ratio

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/wonny/ratioservice/internal/contracts"
	"github.com/wonny/ratioservice/pkg/logger"
)

func ptr(v float64) *float64 { return &v }

func amt(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func row(year, account string, current int64) contracts.RawStatementRow {
	return contracts.RawStatementRow{
		CompanyCode:   "00999999",
		CompanyName:   "샘플전자",
		FiscalYear:    year,
		Division:      contracts.DivisionBS,
		AccountName:   account,
		CurrentAmount: amt(current),
		Currency:      "KRW",
	}
}

// sampleRows is 샘플전자 for 2021..2023, values listed newest first
func sampleRows() []contracts.RawStatementRow {
	accounts := []struct {
		name   string
		values [3]int64
	}{
		{"자산총계", [3]int64{1000, 900, 800}},
		{"매출액", [3]int64{500, 450, 400}},
		{"영업이익", [3]int64{50, 40, 30}},
		{"당기순이익", [3]int64{30, 25, 20}},
		{"부채총계", [3]int64{400, 380, 350}},
		{"자본총계", [3]int64{600, 520, 450}},
		{"유동자산", [3]int64{300, 280, 260}},
		{"유동부채", [3]int64{200, 190, 180}},
	}
	years := []string{"2023", "2022", "2021"}

	var rows []contracts.RawStatementRow
	for i, year := range years {
		for _, a := range accounts {
			rows = append(rows, row(year, a.name, a.values[i]))
		}
	}
	return rows
}

func newTestResolver() *AccountResolver {
	return NewAccountResolver(logger.NewNop())
}

type fakeStatements struct {
	rows []contracts.RawStatementRow
	err  error

	lastYear *int
}

func (f *fakeStatements) FetchRawStatements(ctx context.Context, companyName string, year *int) ([]contracts.RawStatementRow, error) {
	f.lastYear = year
	return f.rows, f.err
}

// memoryCache is an in-memory RatioCache keyed by (code, year)
type memoryCache struct {
	mu      sync.Mutex
	records map[string]contracts.CachedRatioRecord
	getErr  error
	putErr  error
	puts    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{records: map[string]contracts.CachedRatioRecord{}}
}

func (m *memoryCache) Get(ctx context.Context, code string, years []string) ([]contracts.CachedRatioRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	var out []contracts.CachedRatioRecord
	for _, y := range years {
		if rec, ok := m.records[code+":"+y]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memoryCache) Put(ctx context.Context, rec contracts.CachedRatioRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	m.records[rec.CompanyCode+":"+rec.FiscalYear] = rec
	return nil
}

type spyRatios struct {
	inner contracts.RatioCalculator
	calls int
}

func (s *spyRatios) ComputeAll(n contracts.NormalizedStatements, years []string) map[string]contracts.RatioSet {
	s.calls++
	return s.inner.ComputeAll(n, years)
}

type spyGrowth struct {
	inner contracts.GrowthCalculator
	calls int
}

func (s *spyGrowth) ComputeAll(n contracts.NormalizedStatements, years []string) map[string]contracts.GrowthSet {
	s.calls++
	return s.inner.ComputeAll(n, years)
}

var errBoom = errors.New("boom")
