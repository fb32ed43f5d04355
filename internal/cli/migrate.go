package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sungsigun/SignageManagement/internal/database"
)

var withSeed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "스키마 마이그레이션 및 상태 이력 보정",
	Long: `테이블을 생성/갱신하고, 상태 이력이 없는 주문에 초기 이력을 추가합니다.
--seed 를 주면 비어 있는 테이블에 기본 제품과 샘플 데이터를 넣습니다.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().BoolVar(&withSeed, "seed", false, "기본 제품과 샘플 고객/주문 등록")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	_, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer database.Close(db)

	ctx := cmd.Context()

	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	n, err := database.BackfillStatusHistory(ctx, db)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "상태 이력 보정: %d건\n", n)

	if withSeed {
		if err := database.Seed(ctx, db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "샘플 데이터 등록 완료")
	}
	return nil
}
