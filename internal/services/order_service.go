package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sungsigun/SignageManagement/internal/models"
)

const (
	createdMemo = "새 주문이 등록되었습니다."
	dateLayout  = "2006-01-02"
)

func statusChangedMemo(status models.OrderStatus) string {
	return fmt.Sprintf("상태가 '%s'로 변경되었습니다.", status)
}

type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// orderFields 요청 본문을 검증/정규화한 결과
type orderFields struct {
	customerID  uint
	productType string
	size        *string
	width       decimal.Decimal
	height      decimal.Decimal
	amount      int64
	dueDate     datatypes.Date
	memo        *string
	status      models.OrderStatus
}

func parseOrderFields(req *models.OrderCreateRequest) (*orderFields, error) {
	req.ProductType = strings.TrimSpace(req.ProductType)
	req.DueDate = strings.TrimSpace(req.DueDate)
	if err := validate(req); err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if req.Width.IsNegative() {
		fields["width"] = "0 이상이어야 합니다"
	}
	if req.Height.IsNegative() {
		fields["height"] = "0 이상이어야 합니다"
	}
	due, err := time.ParseInLocation(dateLayout, req.DueDate, time.Local)
	if err != nil {
		fields["due_date"] = "날짜 형식이 올바르지 않습니다 (2006-01-02)"
	}
	if len(fields) > 0 {
		return nil, invalid("입력값이 올바르지 않습니다", fields)
	}

	var status models.OrderStatus
	if req.Status != "" {
		status, _ = models.ParseOrderStatus(req.Status)
	}

	return &orderFields{
		customerID:  req.CustomerID,
		productType: req.ProductType,
		size:        trimPtr(req.Size),
		width:       req.Width.Round(2),
		height:      req.Height.Round(2),
		amount:      req.Amount,
		dueDate:     datatypes.Date(due),
		memo:        trimPtr(req.Memo),
		status:      status,
	}, nil
}

func (s *OrderService) GetOrders(ctx context.Context, req *models.OrderListRequest) ([]models.OrderSummary, *models.Pagination, error) {
	req.Normalize()

	db := s.db.WithContext(ctx)
	query := db.Table("orders").Joins("LEFT JOIN customers ON customers.id = orders.customer_id")

	if req.Status != "" {
		status, ok := models.ParseOrderStatus(req.Status)
		if !ok {
			return nil, nil, invalid("유효하지 않은 상태입니다.", map[string]string{"status": "유효하지 않은 상태입니다"})
		}
		query = query.Where("orders.status = ?", status)
	}
	if req.CustomerID != 0 {
		query = query.Where("orders.customer_id = ?", req.CustomerID)
	}
	if strings.TrimSpace(req.Search) != "" {
		cond, args := likeAny(db, req.Search,
			"orders.product_type", "orders.memo", "customers.name", "customers.phone")
		query = query.Where(cond, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	orders := []models.OrderSummary{}
	err := query.
		Select("orders.*, customers.name AS customer_name, customers.phone AS customer_phone").
		Order("orders.created_at DESC").Order("orders.id DESC").
		Limit(req.Limit).Offset(req.Offset).
		Scan(&orders).Error
	if err != nil {
		return nil, nil, err
	}
	for i := range orders {
		orders[i].StatusCode = orders[i].Status.Code()
	}

	return orders, &models.Pagination{Limit: req.Limit, Offset: req.Offset, Total: total}, nil
}

// GetOrder returns the order with customer contact, status history (newest first) and attachments.
func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.OrderSummary, error) {
	db := s.db.WithContext(ctx)

	newestFirst := func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC").Order("id DESC")
	}

	var order models.Order
	err := db.Preload("StatusHistory", newestFirst).
		Preload("Drawings", newestFirst).
		Preload("Photos", newestFirst).
		First(&order, id).Error
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("주문을 찾을 수 없습니다.")
		}
		return nil, err
	}

	if order.StatusHistory == nil {
		order.StatusHistory = []models.OrderStatusHistory{}
	}
	if order.Drawings == nil {
		order.Drawings = []models.Drawing{}
	}
	if order.Photos == nil {
		order.Photos = []models.Photo{}
	}
	for i := range order.Drawings {
		decorate(&order.Drawings[i].Attachment, models.KindDrawing)
	}
	for i := range order.Photos {
		decorate(&order.Photos[i].Attachment, models.KindPhoto)
	}

	detail := models.OrderSummary{Order: order}

	var customer models.Customer
	err = db.Select("id", "name", "phone", "address").First(&customer, order.CustomerID).Error
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if err == nil {
		detail.CustomerName = &customer.Name
		detail.CustomerPhone = &customer.Phone
		detail.CustomerAddress = customer.Address
	}

	return &detail, nil
}

// CreateOrder inserts the order and its first history row in one transaction.
func (s *OrderService) CreateOrder(ctx context.Context, req *models.OrderCreateRequest) (*models.Order, error) {
	fields, err := parseOrderFields(req)
	if err != nil {
		return nil, err
	}
	if fields.status == "" {
		fields.status = models.StatusReceived
	}

	order := models.Order{
		CustomerID:  fields.customerID,
		ProductType: fields.productType,
		Size:        fields.size,
		Width:       fields.width,
		Height:      fields.height,
		Amount:      fields.amount,
		DueDate:     fields.dueDate,
		Memo:        fields.memo,
		Status:      fields.status,
		Version:     1,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCustomer(tx, fields.customerID); err != nil {
			return err
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return appendHistory(tx, order.ID, order.Status, createdMemo)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"customer_id": order.CustomerID,
		"status":      order.Status,
	}).Info("주문 등록")
	return &order, nil
}

// UpdateOrder replaces every editable field. A status different from the current one
// is recorded in the history like ChangeStatus does; an unchanged status adds no row.
func (s *OrderService) UpdateOrder(ctx context.Context, id uint, req *models.OrderUpdateRequest) (*models.Order, error) {
	fields, err := parseOrderFields(&req.OrderCreateRequest)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	var order models.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := loadForUpdate(tx, id, req.Version, &order); err != nil {
			return err
		}
		if fields.customerID != order.CustomerID {
			if err := ensureCustomer(tx, fields.customerID); err != nil {
				return err
			}
		}

		status := order.Status
		if fields.status != "" {
			status = fields.status
		}

		updates := map[string]interface{}{
			"customer_id":  fields.customerID,
			"product_type": fields.productType,
			"size":         fields.size,
			"width":        fields.width,
			"height":       fields.height,
			"amount":       fields.amount,
			"due_date":     fields.dueDate,
			"memo":         fields.memo,
			"status":       status,
		}
		if err := bumpVersion(tx, &order, updates); err != nil {
			return err
		}

		if status != order.Status {
			if err := appendHistory(tx, id, status, statusChangedMemo(status)); err != nil {
				return err
			}
		}
		return tx.First(&order, id).Error
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// ChangeStatus sets the status and appends a history row in one transaction.
// Any status may follow any other, including itself.
func (s *OrderService) ChangeStatus(ctx context.Context, id uint, req *models.OrderStatusRequest) (*models.Order, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	status, _ := models.ParseOrderStatus(req.Status)

	memo := statusChangedMemo(status)
	if m := trimPtr(req.Memo); m != nil {
		memo = *m
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := loadForUpdate(tx, id, req.Version, &order); err != nil {
			return err
		}
		if err := bumpVersion(tx, &order, map[string]interface{}{"status": status}); err != nil {
			return err
		}
		if err := appendHistory(tx, id, status, memo); err != nil {
			return err
		}
		return tx.First(&order, id).Error
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order_id": id,
		"status":   status,
	}).Info("주문 상태 변경")
	return &order, nil
}

// DeleteOrder removes the order with its history and attachment rows, then the payloads.
func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	var paths []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return notFound("주문을 찾을 수 없습니다.")
		}

		var err error
		paths, err = deleteOrderRows(tx, []uint{id})
		return err
	})
	if err != nil {
		return err
	}

	removeFiles(paths)
	logrus.WithField("order_id", id).Info("주문 삭제")
	return nil
}

func (s *OrderService) GetHistory(ctx context.Context, id uint) ([]models.OrderStatusHistory, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, notFound("주문을 찾을 수 없습니다.")
	}

	history := []models.OrderStatusHistory{}
	err := db.Where("order_id = ?", id).Order("created_at DESC").Order("id DESC").Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}

func ensureCustomer(tx *gorm.DB, customerID uint) error {
	var count int64
	if err := tx.Model(&models.Customer{}).Where("id = ?", customerID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return notFound("존재하지 않는 고객입니다.")
	}
	return nil
}

func loadForUpdate(tx *gorm.DB, id uint, version *int, order *models.Order) error {
	if err := tx.First(order, id).Error; err != nil {
		if isNotFound(err) {
			return notFound("주문을 찾을 수 없습니다.")
		}
		return err
	}
	if version != nil && *version != order.Version {
		return conflict("다른 사용자가 주문을 먼저 수정했습니다. 새로고침 후 다시 시도하세요.")
	}
	return nil
}

// bumpVersion applies updates only if the row still carries the version read earlier.
func bumpVersion(tx *gorm.DB, order *models.Order, updates map[string]interface{}) error {
	updates["version"] = order.Version + 1
	res := tx.Model(&models.Order{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return conflict("다른 사용자가 주문을 먼저 수정했습니다. 새로고침 후 다시 시도하세요.")
	}
	return nil
}

func appendHistory(tx *gorm.DB, orderID uint, status models.OrderStatus, memo string) error {
	entry := models.OrderStatusHistory{
		OrderID: orderID,
		Status:  status,
		Memo:    &memo,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to append status history: %w", err)
	}
	return nil
}
