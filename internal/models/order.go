package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Order struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	CustomerID  uint            `json:"customer_id" gorm:"not null;index"`
	ProductType string          `json:"product_type" gorm:"size:100;not null"`
	Size        *string         `json:"size" gorm:"size:100"`
	Width       decimal.Decimal `json:"width" gorm:"type:decimal(10,2);not null"`
	Height      decimal.Decimal `json:"height" gorm:"type:decimal(10,2);not null"`
	Amount      int64           `json:"amount" gorm:"not null"`
	DueDate     datatypes.Date  `json:"due_date" gorm:"not null;index"`
	Memo        *string         `json:"memo" gorm:"type:text"`
	Status      OrderStatus     `json:"status" gorm:"size:20;not null;index"`
	Version     int             `json:"version" gorm:"not null;default:1"`
	CreatedAt   time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// 계산 필드
	StatusCode string `json:"status_code" gorm:"-"`

	// 관련
	StatusHistory []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Drawings      []Drawing            `json:"drawings,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Photos        []Photo              `json:"photos,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (o *Order) AfterFind(tx *gorm.DB) error {
	o.StatusCode = o.Status.Code()
	return nil
}

func (o *Order) AfterSave(tx *gorm.DB) error {
	o.StatusCode = o.Status.Code()
	return nil
}

// OrderSummary 고객 이름/연락처가 조인된 주문 행
type OrderSummary struct {
	Order
	CustomerName    *string `json:"customer_name"`
	CustomerPhone   *string `json:"customer_phone"`
	CustomerAddress *string `json:"customer_address,omitempty"`
}

type OrderCreateRequest struct {
	CustomerID  uint            `json:"customer_id" validate:"required"`
	ProductType string          `json:"product_type" validate:"required,max=100"`
	Size        *string         `json:"size" validate:"omitempty,max=100"`
	Width       decimal.Decimal `json:"width"`
	Height      decimal.Decimal `json:"height"`
	Amount      int64           `json:"amount" validate:"required,min=1"`
	DueDate     string          `json:"due_date" validate:"required,datetime=2006-01-02"`
	Memo        *string         `json:"memo"`
	Status      string          `json:"status" validate:"omitempty,orderstatus"`
}

// OrderUpdateRequest 전체 필드 수정. Version이 주어지면 낙관적 잠금으로 비교한다.
type OrderUpdateRequest struct {
	OrderCreateRequest
	Version *int `json:"version" validate:"omitempty,min=1"`
}

type OrderStatusRequest struct {
	Status  string  `json:"status" validate:"required,orderstatus"`
	Memo    *string `json:"memo"`
	Version *int    `json:"version" validate:"omitempty,min=1"`
}

type OrderListRequest struct {
	ListRequest
	Status     string `form:"status"`
	CustomerID uint   `form:"customer_id"`
}
