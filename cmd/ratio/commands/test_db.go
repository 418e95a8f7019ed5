package commands

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/ratioservice/pkg/database"
	"github.com/wonny/ratioservice/pkg/redis"
)

var testDBCmd = &cobra.Command{
	Use:   "test-db",
	Short: "PostgreSQL / Redis 연결 점검",
	Long: `저장소 연결 상태를 점검합니다.

- DATABASE_URL 연결 및 Ping
- 파이프라인 테이블 행 수 (companies, statement, financials, financial_ratios)
- 커넥션 풀 통계
- REDIS_ENABLED=true 이면 Redis Ping

Example:
  ratio test-db
  ratio test-db --env production`,
	RunE: runTestDB,
}

func init() {
	rootCmd.AddCommand(testDBCmd)
}

func runTestDB(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("❌ Failed to load config: %w", err)
	}
	fmt.Printf("ENV=%s  DATABASE_URL=%s\n\n", cfg.Env, maskPassword(cfg.Database.URL))

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("❌ Failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	status, err := db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("❌ Health check failed: %w", err)
	}
	fmt.Printf("✅ PostgreSQL ok (%v)\n", status.ResponseTime)
	fmt.Printf("   pool: total=%d acquired=%d idle=%d max=%d\n",
		status.Stats.TotalConns, status.Stats.AcquiredConns, status.Stats.IdleConns, status.Stats.MaxConns)

	tables := make([]string, 0, len(status.Tables))
	for table := range status.Tables {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	missing := 0
	for _, table := range tables {
		if n := status.Tables[table]; n >= 0 {
			fmt.Printf("   %-17s %d rows\n", table, n)
		} else {
			fmt.Printf("   %-17s missing\n", table)
			missing++
		}
	}
	if missing > 0 {
		fmt.Println("⚠️  Run `ratio migrate` to create missing tables")
	}

	rdb, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("❌ Invalid redis config: %w", err)
	}
	defer rdb.Close()

	if !rdb.Enabled() {
		fmt.Println("ℹ️  Redis disabled (ratio cache reads PostgreSQL only)")
		return nil
	}
	if err := rdb.Ping(ctx); err != nil {
		return fmt.Errorf("❌ Redis ping failed: %w", err)
	}
	fmt.Printf("✅ Redis ok (%s)\n", rdb.Addr())
	return nil
}

// maskPassword hides the password of a database URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
