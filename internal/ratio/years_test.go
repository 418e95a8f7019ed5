package ratio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ratioservice/internal/contracts"
)

func normalizedWithYears(years ...string) contracts.NormalizedStatements {
	n := contracts.NormalizedStatements{}
	for _, y := range years {
		n[y] = contracts.NormalizedYearData{}
	}
	return n
}

func TestYearSelector_Select(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		years []string
		want  []string
	}{
		{"descending", 3, []string{"2021", "2023", "2022"}, []string{"2023", "2022", "2021"}},
		{"truncates to three", 3, []string{"2019", "2020", "2021", "2022", "2023"}, []string{"2023", "2022", "2021"}},
		{"fewer than window", 3, []string{"2022"}, []string{"2022"}},
		{"custom window", 2, []string{"2021", "2022", "2023"}, []string{"2023", "2022"}},
		{"window above max clamps", 10, []string{"2020", "2021", "2022", "2023"}, []string{"2023", "2022", "2021"}},
		{"zero window defaults", 0, []string{"2020", "2021", "2022", "2023"}, []string{"2023", "2022", "2021"}},
		{"skips malformed keys", 3, []string{"2023", "23", "20x2", "", "2021"}, []string{"2023", "2021"}},
		{"gaps preserved", 3, []string{"2015", "2023", "2019"}, []string{"2023", "2019", "2015"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewYearSelector(tt.limit).Select(normalizedWithYears(tt.years...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestYearSelector_StrictlyDescendingAndBounded(t *testing.T) {
	n := normalizedWithYears("2010", "2012", "2014", "2016", "2018", "2020", "2022")

	got, err := NewYearSelector(DefaultYearWindow).Select(n)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(got), DefaultYearWindow)
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i-1], got[i])
	}
}

func TestYearSelector_NoYears(t *testing.T) {
	_, err := NewYearSelector(3).Select(contracts.NormalizedStatements{})
	assert.ErrorIs(t, err, ErrNoYears)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = NewYearSelector(3).Select(normalizedWithYears("N/A", ""))
	assert.ErrorIs(t, err, ErrNoYears)
}
