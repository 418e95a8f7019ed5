package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/ratioservice/internal/collector"
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect [company_name...]",
	Short: "DART 재무제표 수집",
	Long: `DART 단일회사 주요계정(사업보고서)을 수집하여 financials 테이블에 저장합니다.
회사명을 생략하면 COLLECT_COMPANIES 환경변수의 회사를 수집합니다.

Example:
  go run ./cmd/ratio collect 삼성전자 SK하이닉스
  go run ./cmd/ratio collect 삼성전자 --year 2023
  go run ./cmd/ratio collect --sync-corp-codes`,
	RunE: runCollect,
}

var (
	collectYear     int
	collectSyncCorp bool
)

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().IntVar(&collectYear, "year", 0, "사업연도 (기본: 작년, 없으면 최대 2년 전까지)")
	collectCmd.Flags().BoolVar(&collectSyncCorp, "sync-corp-codes", false, "DART 회사 고유번호 목록을 먼저 동기화")
}

func runCollect(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	col := a.collector()
	start := time.Now()

	if collectSyncCorp {
		n, err := col.SyncCorpCodes(ctx)
		if err != nil {
			return fmt.Errorf("sync corp codes: %w", err)
		}
		fmt.Printf("[Collect] Synced %d listed companies\n", n)
	}

	names := args
	if len(names) == 0 {
		names = a.cfg.Collector.Companies
	}
	if len(names) == 0 {
		if collectSyncCorp {
			return nil
		}
		return fmt.Errorf("no companies given (args or COLLECT_COMPANIES)")
	}

	results := col.CollectAll(ctx, names, collectYear)
	for i, r := range results {
		line := fmt.Sprintf("%s (%s) %s", r.CompanyName, r.CorpCode, r.Status)
		if r.Status == collector.StatusOK {
			line += fmt.Sprintf(": %d rows, FY%d", r.Rows, r.Year)
			if r.Quality != nil {
				line += fmt.Sprintf(", quality %.0f%%", r.Quality.Score*100)
			}
		}
		if r.Err != nil {
			line += ": " + r.Err.Error()
		}
		fmt.Printf("[Collect] %s [%d/%d]\n", line, i+1, len(results))
	}

	summary := collector.Summarize(results)
	fmt.Printf("\n✅ Collected in %.2fs (ok=%d, empty=%d, failed=%d)\n",
		time.Since(start).Seconds(), summary[collector.StatusOK], summary[collector.StatusEmpty], summary[collector.StatusFailed])

	if summary[collector.StatusFailed] > 0 {
		return fmt.Errorf("%d companies failed", summary[collector.StatusFailed])
	}
	return nil
}
