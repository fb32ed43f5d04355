package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/sungsigun/SignageManagement/internal/database"
	"github.com/sungsigun/SignageManagement/internal/models"
	"github.com/sungsigun/SignageManagement/internal/services"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "업로드 저장소 점검",
}

var filesCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "메타데이터 없는 파일과 본문 없는 메타데이터 조회",
	RunE:  runFilesCheck,
}

var filesPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "메타데이터 없는 파일 삭제",
	RunE:  runFilesPrune,
}

func init() {
	rootCmd.AddCommand(filesCmd)
	filesCmd.AddCommand(filesCheckCmd)
	filesCmd.AddCommand(filesPruneCmd)
}

func runFilesCheck(cmd *cobra.Command, args []string) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer database.Close(db)

	report, err := services.NewFileService(db, cfg.File).FindOrphans(cmd.Context())
	if err != nil {
		return err
	}

	return renderOrphanReport(cmd.OutOrStdout(), report)
}

func runFilesPrune(cmd *cobra.Command, args []string) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer database.Close(db)

	removed, err := services.NewFileService(db, cfg.File).PruneOrphans(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, path := range removed {
		fmt.Fprintf(out, "삭제: %s\n", path)
	}
	fmt.Fprintf(out, "총 %d개 파일 삭제\n", len(removed))
	return nil
}

func renderOrphanReport(w io.Writer, report *models.OrphanReport) error {
	if len(report.UntrackedFiles) == 0 && len(report.MissingFiles) == 0 {
		fmt.Fprintln(w, "저장소와 메타데이터가 일치합니다.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("구분", "유형", "ID", "주문", "경로")
	for _, path := range report.UntrackedFiles {
		if err := table.Append([]string{"메타데이터 없음", "-", "-", "-", path}); err != nil {
			return err
		}
	}
	for _, a := range report.MissingFiles {
		row := []string{
			"파일 없음",
			string(a.Kind),
			strconv.FormatUint(uint64(a.ID), 10),
			strconv.FormatUint(uint64(a.OrderID), 10),
			a.FilePath,
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
