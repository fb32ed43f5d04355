// Package logger configures the process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sungsigun/SignageManagement/internal/config"
)

const timestampFormat = "2006-01-02 15:04:05"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Init 표준 logrus 로거에 설정을 적용한다. 콘솔에는 항상 기록하고,
// cfg.File 이 있으면 회전 파일에도 기록한다. 반환된 Closer 로 파일을 닫는다.
func Init(cfg config.LogConfig) io.Closer {
	return configure(logrus.StandardLogger(), os.Stdout, cfg)
}

func configure(l *logrus.Logger, console io.Writer, cfg config.LogConfig) io.Closer {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: timestampFormat})
	l.SetOutput(console)

	if cfg.File == "" {
		return nopCloser{}
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		l.WithError(err).WithField("file", cfg.File).Warn("로그 디렉터리를 만들 수 없어 콘솔에만 기록합니다")
		return nopCloser{}
	}

	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSize,
		MaxAge:     cfg.MaxAge,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
		Compress:   true,
	}
	l.SetOutput(io.MultiWriter(console, file))
	return file
}
