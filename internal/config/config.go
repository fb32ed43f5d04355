package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = "configs/config.yaml"

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	File      FileConfig      `yaml:"file"`
	Redis     RedisConfig     `yaml:"redis"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Port           int           `yaml:"port"`
	Mode           string        `yaml:"mode"`
	Version        string        `yaml:"version"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	PublicDir      string        `yaml:"public_dir"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	URL             string        `yaml:"url"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	DBName          string        `yaml:"dbname"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type RateLimitConfig struct {
	Window      time.Duration `yaml:"window"`
	MaxRequests int           `yaml:"max_requests"`
}

type FileConfig struct {
	UploadPath         string   `yaml:"upload_path"`
	MaxFileSize        int64    `yaml:"max_file_size"`
	MaxFilesPerRequest int      `yaml:"max_files_per_request"`
	AllowedMimeTypes   []string `yaml:"allowed_mime_types"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxAge     int    `yaml:"max_age"`
	MaxBackups int    `yaml:"max_backups"`
}

var defaultAllowedMimeTypes = []string{
	"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp", "image/svg+xml",
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath)
}

// LoadFrom reads the YAML file when it exists, then applies environment overrides and defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	// YAML 파일 우선 로드
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	// 환경 변수로 덮어쓰기
	cfg.overrideFromEnv()

	// 기본값 설정
	cfg.setDefaults()

	return cfg, nil
}

func (c *Config) overrideFromEnv() {
	// Server
	if val := os.Getenv("PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.Server.Port = port
		}
	}
	if val := os.Getenv("GIN_MODE"); val != "" {
		c.Server.Mode = val
	}
	if val := os.Getenv("REQUEST_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.Server.RequestTimeout = d
		}
	}

	// Database
	if val := os.Getenv("DB_DRIVER"); val != "" {
		c.Database.Driver = val
	}
	if val := os.Getenv("DATABASE_URL"); val != "" {
		c.Database.URL = val
	}
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.Database.Port = port
		}
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.DBName = val
	}
	if val := os.Getenv("DB_SSL"); val != "" {
		if val == "true" {
			c.Database.SSLMode = "require"
		} else {
			c.Database.SSLMode = "disable"
		}
	}

	// CORS
	if val := os.Getenv("ALLOWED_ORIGINS"); val != "" {
		c.CORS.AllowedOrigins = splitList(val)
	}

	// Rate limit
	if val := os.Getenv("RATE_LIMIT_WINDOW_MS"); val != "" {
		if ms, err := strconv.ParseInt(val, 10, 64); err == nil {
			c.RateLimit.Window = time.Duration(ms) * time.Millisecond
		}
	}
	if val := os.Getenv("RATE_LIMIT_MAX_REQUESTS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.RateLimit.MaxRequests = n
		}
	}

	// File
	if val := os.Getenv("UPLOAD_PATH"); val != "" {
		c.File.UploadPath = val
	}
	if val := os.Getenv("MAX_FILE_SIZE"); val != "" {
		if size, err := strconv.ParseInt(val, 10, 64); err == nil {
			c.File.MaxFileSize = size
		}
	}
	if val := os.Getenv("MAX_FILES_PER_REQUEST"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.File.MaxFilesPerRequest = n
		}
	}

	// Redis
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		c.Redis.Addr = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		c.Redis.Password = val
	}
	if val := os.Getenv("REDIS_DB"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.Redis.DB = n
		}
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FILE"); val != "" {
		c.Log.File = val
	}
}

func (c *Config) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3004
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "debug"
	}
	if c.Server.Version == "" {
		c.Server.Version = "2.0.0"
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 10 * time.Second
	}
	if c.Server.PublicDir == "" {
		c.Server.PublicDir = "./public"
	}

	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.User == "" {
		c.Database.User = "postgres"
	}
	if c.Database.DBName == "" {
		c.Database.DBName = "signage_works"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 20
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 30 * time.Minute
	}

	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:3003", "http://localhost:3004"}
	}

	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = 15 * time.Minute
	}
	if c.RateLimit.MaxRequests == 0 {
		c.RateLimit.MaxRequests = 100
	}

	if c.File.UploadPath == "" {
		c.File.UploadPath = "./uploads"
	}
	if c.File.MaxFileSize == 0 {
		c.File.MaxFileSize = 10485760 // 10MB
	}
	if c.File.MaxFilesPerRequest == 0 {
		c.File.MaxFilesPerRequest = 5
	}
	if len(c.File.AllowedMimeTypes) == 0 {
		c.File.AllowedMimeTypes = append([]string(nil), defaultAllowedMimeTypes...)
	}

	if c.Redis.TTL == 0 {
		c.Redis.TTL = 5 * time.Minute
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.File == "" {
		c.Log.File = "./logs/app.log"
	}
	if c.Log.MaxSize == 0 {
		c.Log.MaxSize = 100
	}
	if c.Log.MaxAge == 0 {
		c.Log.MaxAge = 30
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 10
	}
}

func (c *Config) GetDSN() string {
	return c.Database.DSN()
}

// DSN builds a driver-specific connection string unless a full URL was given.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	switch d.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			d.User, d.Password, d.Host, d.Port, d.DBName)
	case "sqlite":
		return d.DBName
	default:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=Asia/Seoul",
			d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
	}
}

func (c *Config) IsRelease() bool {
	return c.Server.Mode == "release"
}

func (c *Config) IsAllowedMimeType(mimeType string) bool {
	return c.File.IsAllowedMimeType(mimeType)
}

func (f FileConfig) IsAllowedMimeType(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	for _, allowed := range f.AllowedMimeTypes {
		if mimeType == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
