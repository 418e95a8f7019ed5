package ratio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/ratioservice/internal/contracts"
	"github.com/wonny/ratioservice/pkg/logger"
	"github.com/wonny/ratioservice/pkg/metrics"
)

// Service orchestrates fetch -> normalize -> select years -> cache check ->
// compute -> persist -> assemble.
// ⭐ SSOT: 재무비율 계산 오케스트레이션은 여기서만
type Service struct {
	statements contracts.StatementRepository
	cache      contracts.RatioCache

	normalizer *Normalizer
	selector   *YearSelector
	ratios     contracts.RatioCalculator
	growth     contracts.GrowthCalculator
	assembler  *Assembler

	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewService wires explicit components; engines are interfaces so callers can substitute them
func NewService(
	statements contracts.StatementRepository,
	cache contracts.RatioCache,
	selector *YearSelector,
	ratios contracts.RatioCalculator,
	growth contracts.GrowthCalculator,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	return &Service{
		statements: statements,
		cache:      cache,
		normalizer: NewNormalizer(),
		selector:   selector,
		ratios:     ratios,
		growth:     growth,
		assembler:  NewAssembler(),
		metrics:    m,
		logger:     log,
	}
}

// NewDefaultService builds the standard engines over one shared resolver
func NewDefaultService(
	statements contracts.StatementRepository,
	cache contracts.RatioCache,
	yearWindow int,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	log = log.Module("ratio")
	resolver := NewAccountResolver(log)
	return NewService(
		statements,
		cache,
		NewYearSelector(yearWindow),
		NewRatioEngine(resolver, log),
		NewGrowthEngine(resolver, log),
		m,
		log,
	)
}

// CalculateFinancialRatios returns ratios and growth for the most recent fiscal
// years of companyName (or only year when given). Data-absent failures wrap ErrNotFound.
func (s *Service) CalculateFinancialRatios(ctx context.Context, companyName string, year *int) (*contracts.MetricsResponse, error) {
	start := time.Now()
	log := s.logger.WithField("company", companyName)

	resp, outcome, err := s.calculate(ctx, log, companyName, year)

	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		outcome = metrics.OutcomeNotFound
	default:
		outcome = metrics.OutcomeError
		log.WithError(err).Error("Ratio calculation failed")
	}
	s.metrics.RatioOutcome(outcome)

	if err != nil {
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"outcome":  outcome,
		"years":    resp.Years,
		"duration": time.Since(start).String(),
	}).Info("Ratio calculation completed")
	return resp, nil
}

func (s *Service) calculate(ctx context.Context, log *logger.Logger, companyName string, year *int) (*contracts.MetricsResponse, string, error) {
	// FETCH_RAW
	rows, err := s.statements.FetchRawStatements(ctx, companyName, year)
	if err != nil {
		return nil, "", fmt.Errorf("fetch statements for %s: %w", companyName, err)
	}
	if len(rows) == 0 {
		return nil, "", fmt.Errorf("%s: %w", companyName, ErrNoData)
	}

	// NORMALIZE, SELECT_YEARS
	normalized := s.normalizer.Normalize(rows)
	years, err := s.selector.Select(normalized)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", companyName, err)
	}

	corpCode, corpName := companyIdentity(rows)
	if corpCode == "" {
		return nil, "", fmt.Errorf("%s: %w", companyName, ErrNoCompanyCode)
	}
	if corpName == "" {
		corpName = companyName
	}
	log = log.WithField("corp_code", corpCode)

	// CHECK_CACHE
	if records, ok := s.lookupCache(ctx, log, corpCode, years); ok {
		resp, err := s.assembler.AssembleFromRecords(companyName, years, records)
		if err != nil {
			return nil, "", err
		}
		return resp, metrics.OutcomeCacheHit, nil
	}

	// COMPUTE_RATIOS, COMPUTE_GROWTH
	ratios := s.ratios.ComputeAll(normalized, years)
	growth := s.growth.ComputeAll(normalized, years)

	// PERSIST (실패해도 응답은 반환)
	s.persist(ctx, log, corpCode, corpName, years, ratios, growth)

	// ASSEMBLE
	resp, err := s.assembler.Assemble(companyName, years, ratios, growth)
	if err != nil {
		return nil, "", err
	}
	return resp, metrics.OutcomeComputed, nil
}

// lookupCache reports a hit only when every requested year is present.
// Read errors are treated as a miss.
func (s *Service) lookupCache(ctx context.Context, log *logger.Logger, corpCode string, years []string) ([]contracts.CachedRatioRecord, bool) {
	records, err := s.cache.Get(ctx, corpCode, years)
	if err != nil {
		log.WithError(err).Warn("Ratio cache read failed, recomputing")
		s.metrics.CacheLookup(metrics.CacheError)
		return nil, false
	}

	if !coversYears(records, years) {
		if len(records) > 0 {
			log.WithFields(map[string]interface{}{
				"cached":    len(records),
				"requested": len(years),
			}).Debug("Partial ratio cache hit, recomputing all years")
		}
		s.metrics.CacheLookup(metrics.CacheMiss)
		return nil, false
	}

	s.metrics.CacheLookup(metrics.CacheHit)
	return records, true
}

func (s *Service) persist(
	ctx context.Context,
	log *logger.Logger,
	corpCode, corpName string,
	years []string,
	ratios map[string]contracts.RatioSet,
	growth map[string]contracts.GrowthSet,
) {
	now := time.Now()
	for _, year := range years {
		record := contracts.CachedRatioRecord{
			CompanyCode: corpCode,
			CompanyName: corpName,
			FiscalYear:  year,
			Ratios:      ratios[year],
			Growth:      growth[year],
			UpdatedAt:   now,
		}
		if err := s.cache.Put(ctx, record); err != nil {
			s.metrics.PersistFailure()
			log.WithError(err).WithField("bsns_year", year).Error("Failed to save financial ratios")
		}
	}
}

// companyIdentity takes code and name from the first row that has a code
func companyIdentity(rows []contracts.RawStatementRow) (string, string) {
	for _, row := range rows {
		if row.CompanyCode != "" {
			return row.CompanyCode, row.CompanyName
		}
	}
	return "", ""
}

func coversYears(records []contracts.CachedRatioRecord, years []string) bool {
	have := make(map[string]bool, len(records))
	for _, rec := range records {
		have[rec.FiscalYear] = true
	}
	for _, year := range years {
		if !have[year] {
			return false
		}
	}
	return true
}
