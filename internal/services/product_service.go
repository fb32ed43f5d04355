package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sungsigun/SignageManagement/internal/cache"
	"github.com/sungsigun/SignageManagement/internal/models"
)

type ProductService struct {
	db    *gorm.DB
	cache cache.ProductCache
}

func NewProductService(db *gorm.DB, productCache cache.ProductCache) *ProductService {
	if productCache == nil {
		productCache = cache.NoopProductCache{}
	}
	return &ProductService{db: db, cache: productCache}
}

// GetProducts returns the whole catalog ordered by name. The list is small and
// read on every order form, so it goes through the product cache.
func (s *ProductService) GetProducts(ctx context.Context) ([]models.Product, error) {
	if products, ok := s.cache.Get(ctx); ok {
		return products, nil
	}

	products := []models.Product{}
	if err := s.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}

	s.cache.Set(ctx, products)
	return products, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if isNotFound(err) {
			return nil, notFound("제품을 찾을 수 없습니다.")
		}
		return nil, err
	}
	return &product, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, req *models.ProductRequest) (*models.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		return nil, err
	}

	product := models.Product{
		Name:        req.Name,
		UnitPrice:   *req.UnitPrice,
		Description: trimPtr(req.Description),
	}
	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	logrus.WithField("product_id", product.ID).Info("제품 등록")
	return &product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uint, req *models.ProductRequest) (*models.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		return nil, err
	}

	var product models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, id).Error; err != nil {
			if isNotFound(err) {
				return notFound("제품을 찾을 수 없습니다.")
			}
			return err
		}
		updates := map[string]interface{}{
			"name":        req.Name,
			"unit_price":  *req.UnitPrice,
			"description": trimPtr(req.Description),
		}
		if err := tx.Model(&product).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&product, id).Error
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return &product, nil
}

// DeleteProduct leaves orders untouched; they keep product_type as a name snapshot.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("제품을 찾을 수 없습니다.")
	}

	s.cache.Invalidate(ctx)
	return nil
}
