package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/sungsigun/SignageManagement/internal/config"
	"github.com/sungsigun/SignageManagement/internal/database"
	"github.com/sungsigun/SignageManagement/pkg/logger"
)

var (
	configPath string
	logFile    io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "signage",
	Short: "간판 제작 주문 관리 서버",
	Long: `간판 제작 업체의 고객, 제품, 주문, 첨부 파일을 관리하는 REST API 서버입니다.

인자 없이 실행하면 serve 명령과 같이 서버를 시작합니다.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath, "YAML 설정 파일 경로")
}

// Execute runs the root command
func Execute() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, initialises logging and opens the database.
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logFile = logger.Init(cfg.Log)
	gin.SetMode(cfg.Server.Mode)

	db, err := database.Connect(cfg.Database, !cfg.IsRelease())
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
