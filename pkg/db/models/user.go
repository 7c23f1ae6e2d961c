package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/apmw/freshbrand-backend/pkg/enums"
)

// User represents a buyer account or an administrator.
type User struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string           `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string           `gorm:"column:password_hash;not null"`
	Name         string           `gorm:"column:name;not null"`
	Phone        *string          `gorm:"column:phone"`
	CompanyName  *string          `gorm:"column:company_name"`
	GSTNumber    *string          `gorm:"column:gst_number"`
	Address      *string          `gorm:"column:address"`
	Role         enums.UserRole   `gorm:"column:role;type:text;not null;default:'client'"`
	Status       enums.UserStatus `gorm:"column:status;type:text;not null;default:'active'"`
	LastLoginAt  *time.Time       `gorm:"column:last_login_at"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
