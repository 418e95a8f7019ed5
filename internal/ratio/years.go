package ratio

import (
	"sort"

	"github.com/wonny/ratioservice/internal/contracts"
)

// DefaultYearWindow is the number of most recent fiscal years analyzed
const DefaultYearWindow = 3

// YearSelector picks the most recent fiscal years of a normalized set
type YearSelector struct {
	limit int
}

// NewYearSelector creates a selector; a limit outside 1..3 falls back to 3
func NewYearSelector(limit int) *YearSelector {
	if limit <= 0 || limit > DefaultYearWindow {
		limit = DefaultYearWindow
	}
	return &YearSelector{limit: limit}
}

// Select returns up to limit 4-digit years in strictly descending order
func (s *YearSelector) Select(normalized contracts.NormalizedStatements) ([]string, error) {
	years := make([]string, 0, len(normalized))
	for year := range normalized {
		if isFiscalYear(year) {
			years = append(years, year)
		}
	}

	if len(years) == 0 {
		return nil, ErrNoYears
	}

	// 4자리 문자열이므로 사전순 = 연도순
	sort.Sort(sort.Reverse(sort.StringSlice(years)))

	if len(years) > s.limit {
		years = years[:s.limit]
	}
	return years, nil
}

func isFiscalYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
