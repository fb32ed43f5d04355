package models

import "time"

type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null;index"`
	UnitPrice   int64     `json:"unit_price" gorm:"not null"`
	Description *string   `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProductRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	UnitPrice   *int64  `json:"unit_price" validate:"required,min=0"`
	Description *string `json:"description"`
}
