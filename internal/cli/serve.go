package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sungsigun/SignageManagement/internal/cache"
	"github.com/sungsigun/SignageManagement/internal/database"
	"github.com/sungsigun/SignageManagement/internal/models"
	"github.com/sungsigun/SignageManagement/internal/routes"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "HTTP API 서버 시작",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	if err := createUploadDirs(cfg.File.UploadPath); err != nil {
		return fmt.Errorf("failed to create upload directories: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logrus.WithError(err).Warn("Redis 연결 실패, 제품 캐시 없이 실행합니다")
	}
	if rdb != nil {
		defer rdb.Close()
	}

	router, release := routes.Setup(db, cfg, cache.New(rdb, cfg.Redis.TTL))
	defer release()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithFields(logrus.Fields{
			"addr":   srv.Addr,
			"mode":   cfg.Server.Mode,
			"driver": cfg.Database.Driver,
			"upload": cfg.File.UploadPath,
		}).Info("간판 제작 관리 시스템 서버 시작")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logrus.Info("서버 종료 중...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logrus.Info("서버가 정상 종료되었습니다")
	return nil
}

func createUploadDirs(basePath string) error {
	dirs := []string{basePath}
	for _, kind := range models.AttachmentKinds {
		dirs = append(dirs, filepath.Join(basePath, kind.Table()))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
