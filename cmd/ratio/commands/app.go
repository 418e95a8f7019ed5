package commands

import (
	"context"
	"fmt"

	"github.com/wonny/ratioservice/internal/collector"
	"github.com/wonny/ratioservice/internal/external/dart"
	"github.com/wonny/ratioservice/internal/quality"
	"github.com/wonny/ratioservice/internal/ratio"
	"github.com/wonny/ratioservice/internal/store"
	"github.com/wonny/ratioservice/pkg/config"
	"github.com/wonny/ratioservice/pkg/database"
	"github.com/wonny/ratioservice/pkg/logger"
	"github.com/wonny/ratioservice/pkg/metrics"
	"github.com/wonny/ratioservice/pkg/redis"
)

// app holds the dependencies shared by commands
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	db      *database.DB
	redis   *redis.Client
	metrics *metrics.Metrics

	statements *store.StatementRepository
	service    *ratio.Service
}

// loadConfig applies the global flags on top of the environment
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if env != "" {
		cfg.Env = env
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// newApp connects to PostgreSQL and redis and wires the ratio pipeline
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	rdb, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	if err := rdb.Ping(ctx); err != nil {
		// 캐시 오류는 미스로 처리되므로 기동은 계속
		log.WithError(err).Warn("Redis ping failed")
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	statements := store.NewStatementRepository(db)
	ratioCache := store.NewRatioCache(
		store.NewRatioRepository(db.Pool),
		redis.NewCache(rdb, logger.ServiceName),
		cfg.Ratio.CacheTTL,
		log,
	)

	log.WithFields(map[string]interface{}{
		"env":           cfg.Env,
		"redis_enabled": rdb.Enabled(),
		"redis_addr":    rdb.Addr(),
		"year_window":   cfg.Ratio.YearWindow,
	}).Debug("Dependencies initialized")

	return &app{
		cfg:        cfg,
		log:        log,
		db:         db,
		redis:      rdb,
		metrics:    m,
		statements: statements,
		service:    ratio.NewDefaultService(statements, ratioCache, cfg.Ratio.YearWindow, m, log),
	}, nil
}

// collector wires the DART client; the daily quota is shared through redis
func (a *app) collector() *collector.Collector {
	var quota *redis.RateLimiter
	if a.redis.Enabled() {
		quota = redis.NewRateLimiter(a.redis, logger.ServiceName)
	}
	client := dart.NewClient(a.cfg, quota, a.log)
	gate := quality.NewGate(quality.Config{MinScore: a.cfg.Collector.MinQuality}, a.log)
	return collector.NewCollector(client, a.statements, collector.Config{Workers: a.cfg.Collector.Workers}, a.metrics, a.log).
		WithQualityGate(gate)
}

func (a *app) Close() {
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close redis")
	}
	a.db.Close()
}
