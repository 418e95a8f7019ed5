package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/ratioservice/internal/contracts"
	"github.com/wonny/ratioservice/internal/external/dart"
	"github.com/wonny/ratioservice/internal/quality"
	"github.com/wonny/ratioservice/pkg/logger"
	"github.com/wonny/ratioservice/pkg/metrics"
)

// ErrCompanyNotFound means the name matched no DART listing
var ErrCompanyNotFound = errors.New("company not found in DART corp codes")

// Source is the DART surface the collector needs
type Source interface {
	FetchCorpCodes(ctx context.Context) ([]contracts.Company, error)
	FetchFinancialStatements(ctx context.Context, corpCode string, year int) (*dart.FinancialStatements, error)
}

// Store persists companies and collected statements
type Store interface {
	contracts.StatementWriter
	contracts.CompanyRepository
	UpsertCompanies(ctx context.Context, companies []contracts.Company) error
}

// Collection results
const (
	StatusOK     = "ok"
	StatusEmpty  = "empty"
	StatusFailed = "failed"
)

// Result is the outcome of collecting one company
type Result struct {
	CompanyName string
	CorpCode    string
	Year        int // 실제 수집된 사업연도
	Rows        int
	Quality     *quality.Snapshot // nil without a quality gate
	Status      string
	Err         error
}

// Config holds collector configuration
type Config struct {
	Workers int // Number of concurrent workers
}

// Collector crawls DART annual reports into the financials table
// ⭐ SSOT: 재무제표 수집 오케스트레이션은 이 패키지에서만
type Collector struct {
	source  Source
	store   Store
	cfg     Config
	metrics *metrics.Metrics
	gate    *quality.Gate
	logger  *logger.Logger

	mu        sync.Mutex
	corpCodes []contracts.Company
}

// NewCollector creates a new Collector instance
func NewCollector(source Source, store Store, cfg Config, m *metrics.Metrics, log *logger.Logger) *Collector {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Collector{
		source:  source,
		store:   store,
		cfg:     cfg,
		metrics: m,
		logger:  log.Module("collector"),
	}
}

// WithQualityGate scores every collected report before it is stored
func (c *Collector) WithQualityGate(gate *quality.Gate) *Collector {
	c.gate = gate
	return c
}

// SyncCorpCodes downloads the DART company list and stores it
func (c *Collector) SyncCorpCodes(ctx context.Context) (int, error) {
	companies, err := c.loadCorpCodes(ctx, true)
	if err != nil {
		return 0, err
	}
	if err := c.store.UpsertCompanies(ctx, companies); err != nil {
		return 0, fmt.Errorf("save corp codes: %w", err)
	}

	c.logger.WithField("count", len(companies)).Info("Synced DART corp codes")
	return len(companies), nil
}

// loadCorpCodes fetches the corp code list once per collector unless refresh is set
func (c *Collector) loadCorpCodes(ctx context.Context, refresh bool) ([]contracts.Company, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.corpCodes != nil && !refresh {
		return c.corpCodes, nil
	}

	companies, err := c.source.FetchCorpCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch corp codes: %w", err)
	}
	c.corpCodes = companies
	return companies, nil
}

// resolveCompany finds the corp code of a name, first in the database, then in DART
func (c *Collector) resolveCompany(ctx context.Context, name string) (contracts.Company, error) {
	stored, err := c.store.FindCompanyByName(ctx, name)
	if err != nil {
		return contracts.Company{}, fmt.Errorf("find company: %w", err)
	}
	if stored != nil {
		return *stored, nil
	}

	companies, err := c.loadCorpCodes(ctx, false)
	if err != nil {
		return contracts.Company{}, err
	}
	company, ok := dart.FindCompany(companies, name)
	if !ok {
		return contracts.Company{}, fmt.Errorf("%w: %s", ErrCompanyNotFound, name)
	}
	return company, nil
}

// CollectCompany fetches the latest annual report of one company and stores it.
// year <= 0 means the most recent business year.
func (c *Collector) CollectCompany(ctx context.Context, name string, year int) Result {
	result := c.collect(ctx, name, year)
	c.metrics.CollectResult(result.Status)

	log := c.logger.WithFields(map[string]interface{}{
		"company":   name,
		"corp_code": result.CorpCode,
		"year":      result.Year,
		"rows":      result.Rows,
		"status":    result.Status,
	})
	if result.Err != nil {
		log.WithError(result.Err).Error("Failed to collect financial statements")
	} else {
		log.Info("Collected financial statements")
	}
	return result
}

func (c *Collector) collect(ctx context.Context, name string, year int) Result {
	result := Result{CompanyName: name, Status: StatusFailed}

	company, err := c.resolveCompany(ctx, name)
	if err != nil {
		result.Err = err
		return result
	}
	result.CorpCode = company.CorpCode

	fs, err := c.source.FetchFinancialStatements(ctx, company.CorpCode, year)
	if err != nil {
		result.Err = err
		return result
	}
	if fs == nil || len(fs.Items) == 0 {
		result.Status = StatusEmpty
		return result
	}
	result.Year = fs.Year

	rows, err := fs.ToStatementRows(company)
	if err != nil {
		// 파싱 실패 행만 제외하고 나머지는 저장
		c.logger.WithError(err).WithField("company", name).Warn("Skipped unparsable statement rows")
	}
	if len(rows) == 0 {
		result.Status = StatusEmpty
		return result
	}

	if c.gate != nil {
		snap := c.gate.Check(rows)
		result.Quality = &snap
		if !snap.Passed {
			// 저장은 계속 진행, 비율 일부가 정의되지 않을 수 있음
			c.logger.WithFields(map[string]interface{}{
				"company": name,
				"year":    snap.Year,
				"score":   snap.Score,
				"missing": snap.Missing,
			}).Warn("Collected report below quality threshold")
		}
	}

	if err := c.store.SaveStatements(ctx, company, rows); err != nil {
		result.Err = fmt.Errorf("save statements: %w", err)
		return result
	}

	result.Rows = len(rows)
	result.Status = StatusOK
	return result
}

// CollectAll collects every company with bounded concurrency.
// One company's failure does not stop the others; results keep the input order.
func (c *Collector) CollectAll(ctx context.Context, names []string, year int) []Result {
	start := time.Now()
	results := make([]Result, len(names))

	c.logger.WithFields(map[string]interface{}{
		"companies": len(names),
		"year":      year,
		"workers":   c.cfg.Workers,
	}).Info("Starting financial statement collection")

	var g errgroup.Group
	g.SetLimit(c.cfg.Workers)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{CompanyName: name, Status: StatusFailed, Err: err}
				return nil
			}
			results[i] = c.CollectCompany(ctx, name, year)
			return nil
		})
	}
	_ = g.Wait()

	summary := Summarize(results)
	c.logger.WithFields(map[string]interface{}{
		"ok":       summary[StatusOK],
		"empty":    summary[StatusEmpty],
		"failed":   summary[StatusFailed],
		"duration": time.Since(start),
	}).Info("Financial statement collection completed")

	return results
}

// Summarize counts results by status
func Summarize(results []Result) map[string]int {
	counts := map[string]int{StatusOK: 0, StatusEmpty: 0, StatusFailed: 0}
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}

// FailedErr joins the errors of failed results, nil when none failed
func FailedErr(results []Result) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.CompanyName, r.Err))
		}
	}
	return errors.Join(errs...)
}
