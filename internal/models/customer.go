package models

import "time"

type Customer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null;index"`
	Phone     string    `json:"phone" gorm:"size:20;uniqueIndex;not null"`
	Address   *string   `json:"address" gorm:"type:text"`
	Memo      *string   `json:"memo" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	// 관련
	Orders []Order `json:"orders,omitempty" gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

type CustomerRequest struct {
	Name    string  `json:"name" validate:"required,max=100"`
	Phone   string  `json:"phone" validate:"required,phone"`
	Address *string `json:"address"`
	Memo    *string `json:"memo"`
}

type CustomerDeleteResult struct {
	DeletedOrderCount int64 `json:"deleted_order_count"`
}
