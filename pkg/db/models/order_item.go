package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is the immutable snapshot of one cart line at placement time.
type OrderItem struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      *uuid.UUID `gorm:"column:product_id;type:uuid"`
	ProductName    string     `gorm:"column:product_name;not null"`
	ImageURL       *string    `gorm:"column:image_url"`
	UnitPricePaise int64      `gorm:"column:unit_price_paise;not null"`
	Quantity       int        `gorm:"column:quantity;not null"`
	TotalPaise     int64      `gorm:"column:total_paise;not null"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
}
