package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sungsigun/SignageManagement/internal/config"
	"github.com/sungsigun/SignageManagement/internal/database"
)

type envelope struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	cfg    *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.File.UploadPath = t.TempDir()
	cfg.File.MaxFileSize = 1024
	cfg.Server.PublicDir = t.TempDir()
	cfg.RateLimit.MaxRequests = 1000

	router, release := Setup(db, cfg, nil)
	t.Cleanup(release)
	return &testServer{t: t, router: router, cfg: cfg}
}

func (s *testServer) do(method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.serve(req)
}

func (s *testServer) serve(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if bytes.HasPrefix(bytes.TrimSpace(w.Body.Bytes()), []byte("{")) {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v), string(raw))
}

type idOnly struct {
	ID uint `json:"id"`
}

type historyEntry struct {
	Status string  `json:"status"`
	Memo   *string `json:"memo"`
}

func (s *testServer) history(orderID uint) []historyEntry {
	s.t.Helper()
	w, env := s.do(http.MethodGet, fmt.Sprintf("/api/orders/%d/history", orderID), nil)
	require.Equal(s.t, http.StatusOK, w.Code)
	var h []historyEntry
	decode(s.t, env.Data, &h)
	return h
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(http.MethodPost, "/api/customers", map[string]interface{}{
		"name":  "Kim",
		"phone": "010-1111-2222",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var customer idOnly
	decode(t, env.Data, &customer)

	w, env = s.do(http.MethodPost, "/api/orders", map[string]interface{}{
		"customer_id":  customer.ID,
		"product_type": "LED Sign",
		"amount":       500000,
		"due_date":     "2025-01-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order struct {
		ID         uint   `json:"id"`
		Status     string `json:"status"`
		StatusCode string `json:"status_code"`
	}
	decode(t, env.Data, &order)
	assert.Equal(t, "주문접수", order.Status)
	assert.Equal(t, "received", order.StatusCode)
	assert.Len(t, s.history(order.ID), 1)

	w, _ = s.do(http.MethodPut, fmt.Sprintf("/api/orders/%d/status", order.ID), map[string]string{"status": "drafting"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, s.history(order.ID), 2)

	w, env = s.do(http.MethodPut, fmt.Sprintf("/api/orders/%d/status", order.ID), map[string]string{"status": "완료", "memo": "설치 완료"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, env.Data, &order)
	assert.Equal(t, "done", order.StatusCode)

	history := s.history(order.ID)
	require.Len(t, history, 3)
	assert.Equal(t, "완료", history[0].Status, "newest first")
	require.NotNil(t, history[0].Memo)
	assert.Equal(t, "설치 완료", *history[0].Memo)

	w, env = s.do(http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dash struct {
		TotalOrders  int64 `json:"total_orders"`
		TotalRevenue int64 `json:"total_revenue"`
	}
	decode(t, env.Data, &dash)
	assert.Equal(t, int64(1), dash.TotalOrders)
	assert.Equal(t, int64(500000), dash.TotalRevenue)

	w, env = s.do(http.MethodDelete, fmt.Sprintf("/api/customers/%d", customer.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var deleted struct {
		DeletedOrderCount int64 `json:"deleted_order_count"`
	}
	decode(t, env.Data, &deleted)
	assert.Equal(t, int64(1), deleted.DeletedOrderCount)

	w, _ = s.do(http.MethodGet, fmt.Sprintf("/api/orders/%d", order.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductRoundTripOverHTTP(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(http.MethodPost, "/api/products", map[string]interface{}{"name": "현수막", "unit_price": 50000})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var p struct {
		ID        uint   `json:"id"`
		Name      string `json:"name"`
		UnitPrice int64  `json:"unit_price"`
	}
	decode(t, env.Data, &p)

	path := fmt.Sprintf("/api/products/%d", p.ID)
	w, _ = s.do(http.MethodPut, path, map[string]interface{}{"name": "현수막", "unit_price": 55000})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = s.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &p)
	assert.Equal(t, int64(55000), p.UnitPrice)

	w, _ = s.do(http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, http.StatusNotFound, env.Code)
	assert.NotEmpty(t, env.Message)
}

func TestErrorResponses(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(http.MethodPost, "/api/customers", `{"name": "김철수",`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, http.StatusBadRequest, env.Code)

	w, env = s.do(http.MethodPost, "/api/customers", map[string]string{"name": "", "phone": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Errors, "phone")

	w, _ = s.do(http.MethodPost, "/api/customers", map[string]string{"name": "김철수", "phone": "010-1234-5678"})
	require.Equal(t, http.StatusCreated, w.Code)
	w, env = s.do(http.MethodPost, "/api/customers", map[string]string{"name": "김영수", "phone": "010-1234-5678"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, http.StatusConflict, env.Code)

	w, _ = s.do(http.MethodGet, "/api/customers/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPut, "/api/orders/1/status", map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.do(http.MethodGet, "/api/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, http.StatusNotFound, env.Code)

	w, _ = s.do(http.MethodGet, "/api/files/videos/1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodGet, "/api/stats?period=decade", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListResponseShape(t *testing.T) {
	s := newTestServer(t)

	for i, phone := range []string{"010-1111-1111", "010-2222-2222", "010-3333-3333"} {
		w, _ := s.do(http.MethodPost, "/api/customers", map[string]string{"name": fmt.Sprintf("고객%d", i), "phone": phone})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, env := s.do(http.MethodGet, "/api/customers?limit=2&offset=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Customers  []idOnly `json:"customers"`
		Pagination struct {
			Limit  int   `json:"limit"`
			Offset int   `json:"offset"`
			Total  int64 `json:"total"`
		} `json:"pagination"`
	}
	decode(t, env.Data, &list)
	assert.Len(t, list.Customers, 2)
	assert.Equal(t, 2, list.Pagination.Limit)
	assert.Equal(t, 1, list.Pagination.Offset)
	assert.Equal(t, int64(3), list.Pagination.Total)
}

func TestUploadAndDownloadOverHTTP(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(http.MethodPost, "/api/customers", map[string]string{"name": "김철수", "phone": "010-1234-5678"})
	require.Equal(t, http.StatusCreated, w.Code)
	var customer idOnly
	decode(t, env.Data, &customer)
	w, env = s.do(http.MethodPost, "/api/orders", map[string]interface{}{
		"customer_id": customer.ID, "product_type": "LED 간판", "width": 2, "height": 1,
		"amount": 500000, "due_date": "2026-12-24",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order idOnly
	decode(t, env.Data, &order)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("order_id", fmt.Sprint(order.ID)))
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="drawing"; filename="plan.pdf"`)
	h.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 plan"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w, env = s.serve(req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var uploaded []struct {
		ID       uint   `json:"id"`
		URL      string `json:"url"`
		FilePath string `json:"file_path"`
	}
	decode(t, env.Data, &uploaded)
	require.Len(t, uploaded, 1)

	w, _ = s.do(http.MethodGet, uploaded[0].URL, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF-1.4 plan", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "plan.pdf")

	w, env = s.do(http.MethodGet, fmt.Sprintf("/api/orders/%d/files", order.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var files struct {
		Drawings []idOnly `json:"drawings"`
		Photos   []idOnly `json:"photos"`
	}
	decode(t, env.Data, &files)
	assert.Len(t, files.Drawings, 1)
	assert.Empty(t, files.Photos)

	require.NoError(t, os.Remove(uploaded[0].FilePath))
	w, _ = s.do(http.MethodGet, uploaded[0].URL, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodDelete, uploaded[0].URL, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func (s *testServer) newOrder() uint {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/api/customers", map[string]string{"name": "이민호", "phone": "010-9999-0000"})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var customer idOnly
	decode(s.t, env.Data, &customer)
	w, env = s.do(http.MethodPost, "/api/orders", map[string]interface{}{
		"customer_id": customer.ID, "product_type": "채널 간판", "amount": 100000, "due_date": "2026-11-30",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var order idOnly
	decode(s.t, env.Data, &order)
	return order.ID
}

func uploadRequest(t *testing.T, orderID uint, field, filename string, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("order_id", fmt.Sprint(orderID)))
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (s *testServer) orderFileCount(orderID uint) int {
	s.t.Helper()
	w, env := s.do(http.MethodGet, fmt.Sprintf("/api/orders/%d/files", orderID), nil)
	require.Equal(s.t, http.StatusOK, w.Code)
	var files struct {
		Drawings []idOnly `json:"drawings"`
		Photos   []idOnly `json:"photos"`
	}
	decode(s.t, env.Data, &files)
	return len(files.Drawings) + len(files.Photos)
}

func TestUploadRejectsOversizedBody(t *testing.T) {
	s := newTestServer(t)
	orderID := s.newOrder()

	req := uploadRequest(t, orderID, "photo", "huge.png", bytes.Repeat([]byte("x"), 2<<20))
	w, env := s.serve(req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code, w.Body.String())
	assert.Equal(t, http.StatusRequestEntityTooLarge, env.Code)

	// chunked bodies carry no length up front and are cut off while reading
	req = uploadRequest(t, orderID, "photo", "huge.png", bytes.Repeat([]byte("x"), 2<<20))
	req.ContentLength = -1
	w, _ = s.serve(req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code, w.Body.String())

	assert.Zero(t, s.orderFileCount(orderID))
}

func TestUploadIgnoresUnknownFields(t *testing.T) {
	s := newTestServer(t)
	orderID := s.newOrder()

	for _, field := range []string{"files", "files[]", "attachment"} {
		w, env := s.serve(uploadRequest(t, orderID, field, "site.png", []byte("png")))
		assert.Equal(t, http.StatusBadRequest, w.Code, field)
		assert.Equal(t, "업로드할 파일이 없습니다.", env.Message, field)
	}
	assert.Zero(t, s.orderFileCount(orderID))

	w, _ := s.serve(uploadRequest(t, orderID, "photos", "site.png", []byte("png")))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 1, s.orderFileCount(orderID))
}

func TestHealthAndFallback(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "OK", health["status"])
	assert.Equal(t, s.cfg.Server.Version, health["version"])
	assert.NotEmpty(t, health["timestamp"])

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	require.NoError(t, os.WriteFile(filepath.Join(s.cfg.Server.PublicDir, "index.html"), []byte("<html>app</html>"), 0644))
	w, _ = s.do(http.MethodGet, "/orders/42", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "app")
}
