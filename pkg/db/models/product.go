package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/apmw/freshbrand-backend/pkg/enums"
)

// Product represents a catalog listing sold to retail shops.
type Product struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string              `gorm:"column:name;not null"`
	Description    *string             `gorm:"column:description"`
	Category       string              `gorm:"column:category;not null"`
	Unit           string              `gorm:"column:unit;not null;default:'unit'"`
	PricePaise     int64               `gorm:"column:price_paise;not null"`
	MinOrderQty    int                 `gorm:"column:min_order_qty;not null;default:1"`
	MaxOrderQty    int                 `gorm:"column:max_order_qty;not null;default:0"`
	AvailableStock int                 `gorm:"column:available_stock;not null;default:0"`
	Status         enums.ProductStatus `gorm:"column:status;type:text;not null;default:'available'"`
	Images         pq.StringArray      `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
