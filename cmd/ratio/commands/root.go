package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ratio",
	Short: "재무비율 서비스 - DART 재무제표 기반 재무비율/성장률 계산",
	Long: `Ratio Service CLI

DART 사업보고서 주요계정을 수집하고
최근 3개 사업연도의 재무비율과 성장률을 계산합니다.

Usage:
  go run ./cmd/ratio [command]

Examples:
  go run ./cmd/ratio migrate
  go run ./cmd/ratio collect 삼성전자 SK하이닉스
  go run ./cmd/ratio calc 삼성전자 --xlsx out/samsung.xlsx
  go run ./cmd/ratio api`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment override (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logs)")
}
