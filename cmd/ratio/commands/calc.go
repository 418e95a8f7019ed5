package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/ratioservice/internal/contracts"
	"github.com/wonny/ratioservice/internal/export"
)

// calcCmd represents the calc command
var calcCmd = &cobra.Command{
	Use:   "calc [company_name]",
	Short: "재무비율 계산",
	Long: `저장된 재무제표로 재무비율과 성장률을 계산합니다.
계산 결과는 financial_ratios 테이블과 redis에 캐시됩니다.

Example:
  go run ./cmd/ratio calc 삼성전자
  go run ./cmd/ratio calc 삼성전자 --year 2023
  go run ./cmd/ratio calc 삼성전자 --json
  go run ./cmd/ratio calc 삼성전자 --xlsx out/samsung.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runCalc,
}

var (
	calcYear int
	calcJSON bool
	calcXLSX string
)

func init() {
	rootCmd.AddCommand(calcCmd)

	calcCmd.Flags().IntVar(&calcYear, "year", 0, "사업연도 (기본: 최근 3개년)")
	calcCmd.Flags().BoolVar(&calcJSON, "json", false, "JSON으로 출력")
	calcCmd.Flags().StringVar(&calcXLSX, "xlsx", "", "xlsx 파일로 저장")
}

func runCalc(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	var year *int
	if calcYear > 0 {
		year = &calcYear
	}

	resp, err := a.service.CalculateFinancialRatios(cmd.Context(), args[0], year)
	if err != nil {
		return fmt.Errorf("calculate: %w", err)
	}

	if calcJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	PrintMetricsTable(resp)

	if calcXLSX != "" {
		if err := export.SaveXLSX(calcXLSX, resp); err != nil {
			return fmt.Errorf("export xlsx: %w", err)
		}
		fmt.Printf("\n✅ Saved %s\n", calcXLSX)
	}
	return nil
}

// PrintMetricsTable prints a MetricsResponse as a year-by-metric table
func PrintMetricsTable(resp *contracts.MetricsResponse) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  %s\n", resp.CompanyName)
	fmt.Println("───────────────────────────────────────────────────────────")

	fmt.Printf("  %-16s", "")
	for _, y := range resp.Years {
		fmt.Printf("%12s", y)
	}
	fmt.Println()

	fm := resp.FinancialMetrics
	dl := resp.DebtLiquidityData
	gd := resp.GrowthData

	printRow("영업이익률(%)", fm.OperatingMargin)
	printRow("순이익률(%)", fm.NetMargin)
	printRow("ROE(%)", fm.ROE)
	printRow("ROA(%)", fm.ROA)
	printRow("부채비율(%)", dl.DebtRatio)
	printRow("유동비율(%)", dl.CurrentRatio)
	printGrowthRow("매출증가율(%)", gd.RevenueGrowth)
	printGrowthRow("순이익증가율(%)", gd.NetIncomeGrowth)

	fmt.Println("═══════════════════════════════════════════════════════════")
}

func printRow(label string, values []*float64) {
	cells := make([]string, len(values))
	for i, v := range values {
		if v == nil {
			cells[i] = "-"
			continue
		}
		cells[i] = fmt.Sprintf("%.2f", *v)
	}
	printCells(label, cells)
}

func printGrowthRow(label string, values []float64) {
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = fmt.Sprintf("%.2f", v)
	}
	printCells(label, cells)
}

func printCells(label string, cells []string) {
	// 한글 라벨은 폭이 2칸이라 %-16s 정렬이 어긋남
	pad := 16 - displayWidth(label)
	if pad < 1 {
		pad = 1
	}
	fmt.Printf("  %s%s", label, strings.Repeat(" ", pad))
	for _, c := range cells {
		fmt.Printf("%12s", c)
	}
	fmt.Println()
}

func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		if r >= 0x1100 {
			w += 2
		} else {
			w++
		}
	}
	return w
}
