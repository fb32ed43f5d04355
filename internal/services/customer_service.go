package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sungsigun/SignageManagement/internal/models"
)

type CustomerService struct {
	db *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

func (s *CustomerService) GetCustomers(ctx context.Context, req *models.ListRequest) ([]models.Customer, *models.Pagination, error) {
	req.Normalize()

	db := s.db.WithContext(ctx)
	query := db.Model(&models.Customer{})

	if strings.TrimSpace(req.Search) != "" {
		cond, args := likeAny(db, req.Search, "name", "phone", "address")
		query = query.Where(cond, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	customers := []models.Customer{}
	err := query.Order("created_at DESC").Order("id DESC").
		Limit(req.Limit).Offset(req.Offset).Find(&customers).Error
	if err != nil {
		return nil, nil, err
	}

	return customers, &models.Pagination{Limit: req.Limit, Offset: req.Offset, Total: total}, nil
}

// GetCustomer returns the customer with its orders, newest first.
func (s *CustomerService) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.WithContext(ctx).
		Preload("Orders", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Order("id DESC")
		}).
		First(&customer, id).Error
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("고객을 찾을 수 없습니다.")
		}
		return nil, err
	}
	if customer.Orders == nil {
		customer.Orders = []models.Order{}
	}
	return &customer, nil
}

func (s *CustomerService) CreateCustomer(ctx context.Context, req *models.CustomerRequest) (*models.Customer, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if err := validate(req); err != nil {
		return nil, err
	}

	customer := models.Customer{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: trimPtr(req.Address),
		Memo:    trimPtr(req.Memo),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkPhone(tx, req.Phone, 0); err != nil {
			return err
		}
		return tx.Create(&customer).Error
	})
	if err != nil {
		return nil, phoneConflict(err)
	}

	logrus.WithField("customer_id", customer.ID).Info("고객 등록")
	return &customer, nil
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, id uint, req *models.CustomerRequest) (*models.Customer, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if err := validate(req); err != nil {
		return nil, err
	}

	var customer models.Customer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&customer, id).Error; err != nil {
			if isNotFound(err) {
				return notFound("고객을 찾을 수 없습니다.")
			}
			return err
		}
		if err := s.checkPhone(tx, req.Phone, id); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"name":    req.Name,
			"phone":   req.Phone,
			"address": trimPtr(req.Address),
			"memo":    trimPtr(req.Memo),
		}
		if err := tx.Model(&customer).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&customer, id).Error
	})
	if err != nil {
		return nil, phoneConflict(err)
	}

	return &customer, nil
}

// DeleteCustomer removes the customer together with its orders, their history and
// attachment rows. Attachment payloads are removed from disk after the commit.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uint) (*models.CustomerDeleteResult, error) {
	var (
		result models.CustomerDeleteResult
		paths  []string
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, id).Error; err != nil {
			if isNotFound(err) {
				return notFound("고객을 찾을 수 없습니다.")
			}
			return err
		}

		var orderIDs []uint
		if err := tx.Model(&models.Order{}).Where("customer_id = ?", id).Pluck("id", &orderIDs).Error; err != nil {
			return err
		}

		var err error
		paths, err = deleteOrderRows(tx, orderIDs)
		if err != nil {
			return err
		}
		result.DeletedOrderCount = int64(len(orderIDs))

		res := tx.Delete(&customer)
		if res.Error != nil {
			return fmt.Errorf("failed to delete customer: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound("고객을 찾을 수 없습니다.")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	removeFiles(paths)

	logrus.WithFields(logrus.Fields{
		"customer_id":   id,
		"deleted_order": result.DeletedOrderCount,
	}).Info("고객 삭제")
	return &result, nil
}

func (s *CustomerService) checkPhone(tx *gorm.DB, phone string, excludeID uint) error {
	var count int64
	query := tx.Model(&models.Customer{}).Where("phone = ?", phone)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return conflict("이미 등록된 전화번호입니다.")
	}
	return nil
}

func phoneConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflict("이미 등록된 전화번호입니다.")
	}
	return err
}

// deleteOrderRows deletes the given orders and every dependent row inside tx.
// It returns the payload paths of the deleted attachments.
func deleteOrderRows(tx *gorm.DB, orderIDs []uint) ([]string, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}

	var paths []string
	for _, kind := range models.AttachmentKinds {
		var kindPaths []string
		err := tx.Table(kind.Table()).Where("order_id IN ?", orderIDs).Pluck("file_path", &kindPaths).Error
		if err != nil {
			return nil, err
		}
		paths = append(paths, kindPaths...)
	}

	if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.OrderStatusHistory{}).Error; err != nil {
		return nil, fmt.Errorf("failed to delete status history: %w", err)
	}
	if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.Drawing{}).Error; err != nil {
		return nil, fmt.Errorf("failed to delete drawings: %w", err)
	}
	if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.Photo{}).Error; err != nil {
		return nil, fmt.Errorf("failed to delete photos: %w", err)
	}
	if err := tx.Where("id IN ?", orderIDs).Delete(&models.Order{}).Error; err != nil {
		return nil, fmt.Errorf("failed to delete orders: %w", err)
	}

	return paths, nil
}
