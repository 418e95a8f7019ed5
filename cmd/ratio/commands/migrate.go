package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "DB 스키마 생성",
	Long: `companies, statement, financials, financial_ratios 테이블을 생성하고
재무제표 구분(BS, IS, CIS, CF, SCE)을 등록합니다. 여러 번 실행해도 안전합니다.

Example:
  go run ./cmd/ratio migrate`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()

	if err := a.db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	fmt.Println("✅ Schema migrated")

	if err := a.statements.SeedStatementDivisions(ctx); err != nil {
		return fmt.Errorf("seed statement divisions: %w", err)
	}
	fmt.Println("✅ Statement divisions seeded")

	return nil
}
