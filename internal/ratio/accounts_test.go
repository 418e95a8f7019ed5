package ratio

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/ratioservice/internal/contracts"
)

func TestAccountResolver_Resolve(t *testing.T) {
	r := newTestResolver()

	tests := []struct {
		name     string
		yearData contracts.NormalizedYearData
		key      contracts.CanonicalAccountKey
		want     float64
	}{
		{
			name:     "primary variant",
			yearData: contracts.NormalizedYearData{"자산총계": {Current: 1000}},
			key:      contracts.TotalAssets,
			want:     1000,
		},
		{
			name:     "secondary variant",
			yearData: contracts.NormalizedYearData{"총자산": {Current: 900}},
			key:      contracts.TotalAssets,
			want:     900,
		},
		{
			name: "preference order wins over input",
			yearData: contracts.NormalizedYearData{
				"당기순이익(손실)": {Current: 10},
				"당기순이익":     {Current: 30},
			},
			key:  contracts.NetIncome,
			want: 30,
		},
		{
			name:     "controlling interest as equity fallback",
			yearData: contracts.NormalizedYearData{"지배기업소유주지분": {Current: 450}},
			key:      contracts.TotalEquity,
			want:     450,
		},
		{
			name:     "missing account is zero",
			yearData: contracts.NormalizedYearData{"매출원가": {Current: 100}},
			key:      contracts.Revenue,
			want:     0,
		},
		{
			name:     "nil year data",
			yearData: nil,
			key:      contracts.CurrentAssets,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.yearData, tt.key))
		})
	}
}

func TestAccountResolver_SharedSourceAccount(t *testing.T) {
	r := newTestResolver()
	// 같은 원천 계정이 여러 키에 쓰여도 각각 해석됨
	yearData := contracts.NormalizedYearData{"자본": {Current: 600}}

	assert.Equal(t, 600.0, r.Resolve(yearData, contracts.TotalEquity))
	assert.Equal(t, 0.0, r.Resolve(yearData, contracts.TotalAssets))
}

func TestAccountResolver_ResolveAll(t *testing.T) {
	r := newTestResolver()
	yearData := contracts.NormalizedYearData{
		"자산총계": {Current: 1000},
		"매출":   {Current: 500},
	}

	values := r.ResolveAll("2023", yearData)

	assert.Len(t, values, len(contracts.CanonicalAccountKeys()))
	assert.Equal(t, 1000.0, values[contracts.TotalAssets])
	assert.Equal(t, 500.0, values[contracts.Revenue])
	assert.Equal(t, 0.0, values[contracts.NetIncome])
}

func TestAccountResolver_VariantsIsCopy(t *testing.T) {
	r := newTestResolver()

	v := r.Variants(contracts.TotalAssets)
	v[0] = "mutated"

	assert.Equal(t, []string{"자산총계", "총자산"}, r.Variants(contracts.TotalAssets))
}

func TestAccountVariants_CoverEveryKey(t *testing.T) {
	for _, key := range contracts.CanonicalAccountKeys() {
		assert.NotEmpty(t, accountVariants[key], "key %s has no variants", key)
	}
}
