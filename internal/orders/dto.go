package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/apmw/freshbrand-backend/internal/users"
	"github.com/apmw/freshbrand-backend/pkg/db/models"
	"github.com/apmw/freshbrand-backend/pkg/enums"
)

// PlaceOrderRequest captures the checkout payload.
type PlaceOrderRequest struct {
	PaymentMethod enums.PaymentMethod `json:"payment_method,omitempty"`
	Notes         *string             `json:"notes,omitempty"`
}

// PlaceOrderInput is the resolved service-level input for Place.
type PlaceOrderInput struct {
	UserID        uuid.UUID
	PaymentMethod enums.PaymentMethod
	Notes         *string
}

// AdminOrderFilters describe the inputs supported by the admin order list.
type AdminOrderFilters struct {
	Status *enums.OrderStatus
	// ActiveOnly drops cancelled orders from the listing.
	ActiveOnly bool
}

// OrderItemDTO is a single immutable order line.
type OrderItemDTO struct {
	ID             uuid.UUID  `json:"id"`
	ProductID      *uuid.UUID `json:"product_id,omitempty"`
	ProductName    string     `json:"product_name"`
	ImageURL       *string    `json:"image_url,omitempty"`
	UnitPricePaise int64      `json:"unit_price_paise"`
	Quantity       int        `json:"quantity"`
	TotalPaise     int64      `json:"total_paise"`
}

// OrderDTO is the full order payload with item snapshots.
type OrderDTO struct {
	ID                   uuid.UUID           `json:"id"`
	UserID               uuid.UUID           `json:"user_id"`
	UserName             string              `json:"user_name"`
	UserEmail            string              `json:"user_email"`
	UserPhone            *string             `json:"user_phone,omitempty"`
	UserAddress          *string             `json:"user_address,omitempty"`
	SubtotalPaise        int64               `json:"subtotal_paise"`
	TaxPaise             int64               `json:"tax_paise"`
	TotalPaise           int64               `json:"total_paise"`
	Status               enums.OrderStatus   `json:"status"`
	PaymentMethod        enums.PaymentMethod `json:"payment_method"`
	PaymentStatus        enums.PaymentStatus `json:"payment_status"`
	RazorpayOrderID      *string             `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID    *string             `json:"razorpay_payment_id,omitempty"`
	DeliveryDate         *time.Time          `json:"delivery_date,omitempty"`
	Notes                *string             `json:"notes,omitempty"`
	PaymentFailureReason *string             `json:"payment_failure_reason,omitempty"`
	DesignID             *uuid.UUID          `json:"design_id,omitempty"`
	Items                []OrderItemDTO      `json:"items"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// OrderPage wraps a page of orders plus the next page cursor.
type OrderPage struct {
	Orders     []models.Order
	NextCursor string
}

// OrderListDTO is the client-facing page shape.
type OrderListDTO struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// AdminOrderListDTO pairs the page with a user lookup map keyed by user id.
type AdminOrderListDTO struct {
	Orders     []OrderDTO               `json:"orders"`
	Users      map[string]users.UserDTO `json:"users"`
	NextCursor string                   `json:"next_cursor,omitempty"`
}

// FromModel converts a persisted order into its transport shape.
func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items = append(items, OrderItemDTO{
			ID:             item.ID,
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			ImageURL:       item.ImageURL,
			UnitPricePaise: item.UnitPricePaise,
			Quantity:       item.Quantity,
			TotalPaise:     item.TotalPaise,
		})
	}
	return &OrderDTO{
		ID:                   o.ID,
		UserID:               o.UserID,
		UserName:             o.UserName,
		UserEmail:            o.UserEmail,
		UserPhone:            o.UserPhone,
		UserAddress:          o.UserAddress,
		SubtotalPaise:        o.SubtotalPaise,
		TaxPaise:             o.TaxPaise,
		TotalPaise:           o.TotalPaise,
		Status:               o.Status,
		PaymentMethod:        o.PaymentMethod,
		PaymentStatus:        o.PaymentStatus,
		RazorpayOrderID:      o.RazorpayOrderID,
		RazorpayPaymentID:    o.RazorpayPaymentID,
		DeliveryDate:         o.DeliveryDate,
		Notes:                o.Notes,
		PaymentFailureReason: o.PaymentFailureReason,
		DesignID:             o.DesignID,
		Items:                items,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}
