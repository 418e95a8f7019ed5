package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/ratioservice/internal/collector"
	"github.com/wonny/ratioservice/internal/contracts"
	"github.com/wonny/ratioservice/pkg/logger"
)

// Crawler is the collector surface used by the job
type Crawler interface {
	CollectAll(ctx context.Context, names []string, year int) []collector.Result
}

// FinancialCrawlJob collects annual reports of the configured companies daily
// ⭐ SSOT: 재무제표 수집 스케줄은 이 Job에서만
type FinancialCrawlJob struct {
	crawler   Crawler
	companies contracts.CompanyRepository
	names     []string
	schedule  string
	logger    *logger.Logger
}

// NewFinancialCrawlJob creates the crawl job.
// With no names configured, every stored company is crawled.
func NewFinancialCrawlJob(crawler Crawler, companies contracts.CompanyRepository, names []string, schedule string, log *logger.Logger) *FinancialCrawlJob {
	if schedule == "" {
		schedule = "0 50 11 * * *"
	}
	return &FinancialCrawlJob{
		crawler:   crawler,
		companies: companies,
		names:     names,
		schedule:  schedule,
		logger:    log.Module("financial_crawl"),
	}
}

// Name returns the job name
func (j *FinancialCrawlJob) Name() string {
	return "financial_crawl"
}

// Schedule returns the cron schedule (default every day at 11:50)
func (j *FinancialCrawlJob) Schedule() string {
	return j.schedule
}

// Run executes the crawl. Partial failures are logged;
// the run fails only when every company failed.
func (j *FinancialCrawlJob) Run(ctx context.Context) error {
	names, err := j.targets(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		j.logger.Warn("No companies to crawl")
		return nil
	}

	j.logger.WithField("companies", len(names)).Info("Starting scheduled financial crawl")

	results := j.crawler.CollectAll(ctx, names, 0)
	summary := collector.Summarize(results)

	if summary[collector.StatusFailed] == len(results) {
		return fmt.Errorf("financial crawl failed for all %d companies: %w", len(results), collector.FailedErr(results))
	}

	j.logger.WithFields(map[string]interface{}{
		"ok":     summary[collector.StatusOK],
		"empty":  summary[collector.StatusEmpty],
		"failed": summary[collector.StatusFailed],
	}).Info("Scheduled financial crawl completed")
	return nil
}

func (j *FinancialCrawlJob) targets(ctx context.Context) ([]string, error) {
	if len(j.names) > 0 {
		return j.names, nil
	}

	stored, err := j.companies.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	names := make([]string, 0, len(stored))
	for _, c := range stored {
		if c.Listed() {
			names = append(names, c.CorpName)
		}
	}
	return names, nil
}
