package models

import (
	"time"

	"github.com/google/uuid"
)

// CustomDesign stores a shop's branding request. One row per user; saving
// again overwrites the previous design.
type CustomDesign struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	BrandName string    `gorm:"column:brand_name;not null"`
	Title     *string   `gorm:"column:title"`
	ColorHex  string    `gorm:"column:color_hex;not null;default:'#4CAF50'"`
	LogoURL   *string   `gorm:"column:logo_url"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
