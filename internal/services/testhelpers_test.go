package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sungsigun/SignageManagement/internal/config"
	"github.com/sungsigun/SignageManagement/internal/database"
	"github.com/sungsigun/SignageManagement/internal/models"
)

// newTestDB opens a private in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func testFileConfig(t *testing.T) config.FileConfig {
	t.Helper()
	cfg := &config.Config{}
	cfg.File.UploadPath = t.TempDir()
	cfg.File.MaxFileSize = 1024
	cfg.File.MaxFilesPerRequest = 5
	cfg.File.AllowedMimeTypes = []string{"image/png", "image/jpeg", "application/pdf"}
	return cfg.File
}

func strp(s string) *string { return &s }

func mustCustomer(t *testing.T, svc *CustomerService, name, phone string) *models.Customer {
	t.Helper()
	c, err := svc.CreateCustomer(context.Background(), &models.CustomerRequest{Name: name, Phone: phone})
	require.NoError(t, err)
	return c
}

func orderRequest(customerID uint) *models.OrderCreateRequest {
	return &models.OrderCreateRequest{
		CustomerID:  customerID,
		ProductType: "LED 간판",
		Size:        strp("2m x 1m"),
		Width:       decimal.NewFromFloat(2),
		Height:      decimal.NewFromFloat(1),
		Amount:      500000,
		DueDate:     "2026-12-24",
	}
}

func mustOrder(t *testing.T, svc *OrderService, customerID uint) *models.Order {
	t.Helper()
	o, err := svc.CreateOrder(context.Background(), orderRequest(customerID))
	require.NoError(t, err)
	return o
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

type testUpload struct {
	field       string
	name        string
	contentType string
	data        []byte
}

// uploadFiles builds real multipart file headers the way an HTTP request would carry them.
func uploadFiles(t *testing.T, files ...testUpload) []UploadFile {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, f.field, f.name))
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	var out []UploadFile
	seen := map[string]bool{}
	for _, f := range files {
		if seen[f.field] {
			continue
		}
		seen[f.field] = true
		kind, ok := models.ParseAttachmentKind(f.field)
		require.True(t, ok, f.field)
		for _, header := range form.File[f.field] {
			out = append(out, UploadFile{Kind: kind, Header: header})
		}
	}
	return out
}
