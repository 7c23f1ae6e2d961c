package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/apmw/freshbrand-backend/pkg/enums"
)

// Order captures a placed order with buyer contact and pricing snapshots.
// Item lines are copied from the cart at placement and never re-derived.
type Order struct {
	ID                   uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID               uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	UserName             string              `gorm:"column:user_name;not null"`
	UserEmail            string              `gorm:"column:user_email;not null"`
	UserPhone            *string             `gorm:"column:user_phone"`
	UserAddress          *string             `gorm:"column:user_address"`
	SubtotalPaise        int64               `gorm:"column:subtotal_paise;not null"`
	TaxPaise             int64               `gorm:"column:tax_paise;not null"`
	TotalPaise           int64               `gorm:"column:total_paise;not null"`
	Status               enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentMethod        enums.PaymentMethod `gorm:"column:payment_method;type:text;not null;default:'not_set'"`
	PaymentStatus        enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	RazorpayOrderID      *string             `gorm:"column:razorpay_order_id"`
	RazorpayPaymentID    *string             `gorm:"column:razorpay_payment_id"`
	DeliveryDate         *time.Time          `gorm:"column:delivery_date"`
	Notes                *string             `gorm:"column:notes"`
	PaymentFailureReason *string             `gorm:"column:payment_failure_reason"`
	DesignID             *uuid.UUID          `gorm:"column:design_id;type:uuid"`
	Items                []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
