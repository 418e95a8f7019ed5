package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ratioservice/internal/contracts"
	"github.com/wonny/ratioservice/pkg/config"
	"github.com/wonny/ratioservice/pkg/logger"
	"github.com/wonny/ratioservice/pkg/redis"
)

type fakeRatioRepo struct {
	records map[string]contracts.CachedRatioRecord
	fetches int
	err     error
}

func (f *fakeRatioRepo) FetchCachedRatios(ctx context.Context, code string, years []string) ([]contracts.CachedRatioRecord, error) {
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	var out []contracts.CachedRatioRecord
	for _, y := range years {
		if rec, ok := f.records[code+":"+y]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeRatioRepo) UpsertRatioRecord(ctx context.Context, rec contracts.CachedRatioRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records[rec.CompanyCode+":"+rec.FiscalYear] = rec
	return nil
}

func newDisabledRedisCache(t *testing.T) *redis.Cache {
	t.Helper()
	client, err := redis.New(&config.Config{})
	require.NoError(t, err)
	return redis.NewCache(client, "test")
}

func TestRatioCache_PutThenGet(t *testing.T) {
	repo := &fakeRatioRepo{records: map[string]contracts.CachedRatioRecord{}}
	cache := NewRatioCache(repo, newDisabledRedisCache(t), 0, logger.NewNop())
	ctx := context.Background()

	roe := 5.0
	require.NoError(t, cache.Put(ctx, contracts.CachedRatioRecord{
		CompanyCode: "00999999",
		FiscalYear:  "2023",
		Ratios:      contracts.RatioSet{ROE: &roe},
	}))

	got, err := cache.Get(ctx, "00999999", []string{"2023", "2022"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2023", got[0].FiscalYear)
	assert.Equal(t, 5.0, *got[0].Ratios.ROE)
	assert.Equal(t, 1, repo.fetches)
}

func TestRatioCache_PropagatesDatabaseErrors(t *testing.T) {
	dbErr := errors.New("connection refused")
	repo := &fakeRatioRepo{err: dbErr}
	cache := NewRatioCache(repo, nil, 0, logger.NewNop())

	_, err := cache.Get(context.Background(), "00999999", []string{"2023"})
	assert.ErrorIs(t, err, dbErr)

	err = cache.Put(context.Background(), contracts.CachedRatioRecord{CompanyCode: "00999999", FiscalYear: "2023"})
	assert.ErrorIs(t, err, dbErr)
}

func TestNewRatioCache_DefaultTTL(t *testing.T) {
	cache := NewRatioCache(&fakeRatioRepo{}, nil, 0, logger.NewNop())
	assert.Equal(t, redis.TTLDaily, cache.ttl)
}
