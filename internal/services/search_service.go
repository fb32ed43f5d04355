package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/sungsigun/SignageManagement/internal/models"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

type SearchService struct {
	db *gorm.DB
}

func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{db: db}
}

// Search looks up customers, orders and products containing q.
// kind is one of all, customers, orders, products.
func (s *SearchService) Search(ctx context.Context, q, kind string, limit int) (*models.SearchResult, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, invalid("검색어를 입력하세요.", map[string]string{"q": "필수 항목입니다"})
	}
	if kind == "" {
		kind = "all"
	}
	switch kind {
	case "all", "customers", "orders", "products":
	default:
		return nil, invalid("유효하지 않은 검색 유형입니다.", map[string]string{"type": "all, customers, orders, products 중 하나여야 합니다"})
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	db := s.db.WithContext(ctx)

	result := &models.SearchResult{
		Query:     q,
		Customers: []models.Customer{},
		Orders:    []models.OrderSummary{},
		Products:  []models.Product{},
	}

	if kind == "all" || kind == "customers" {
		cond, args := likeAny(db, q, "name", "phone", "address")
		err := db.Where(cond, args...).
			Order("name ASC").Limit(limit).Find(&result.Customers).Error
		if err != nil {
			return nil, err
		}
	}

	if kind == "all" || kind == "orders" {
		cond, args := likeAny(db, q, "orders.product_type", "orders.memo", "customers.name", "customers.phone")
		err := db.Table("orders").
			Select("orders.*, customers.name AS customer_name, customers.phone AS customer_phone").
			Joins("LEFT JOIN customers ON customers.id = orders.customer_id").
			Where(cond, args...).
			Order("orders.created_at DESC").Order("orders.id DESC").
			Limit(limit).
			Scan(&result.Orders).Error
		if err != nil {
			return nil, err
		}
		for i := range result.Orders {
			result.Orders[i].StatusCode = result.Orders[i].Status.Code()
		}
	}

	if kind == "all" || kind == "products" {
		cond, args := likeAny(db, q, "name", "description")
		err := db.Where(cond, args...).
			Order("name ASC").Limit(limit).Find(&result.Products).Error
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}
