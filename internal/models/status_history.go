package models

import "time"

// OrderStatusHistory 주문 상태 변경 이력 (추가 전용)
type OrderStatusHistory struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	OrderID   uint        `json:"order_id" gorm:"not null;index"`
	Status    OrderStatus `json:"status" gorm:"size:20;not null"`
	Memo      *string     `json:"memo" gorm:"type:text"`
	CreatedAt time.Time   `json:"created_at" gorm:"index"`
}

func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}
