package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/apmw/freshbrand-backend/pkg/db/models"
)

// CartItemDTO is a single cart line with its price snapshot.
type CartItemDTO struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	ImageURL       *string   `json:"image_url,omitempty"`
	UnitPricePaise int64     `json:"unit_price_paise"`
	Quantity       int       `json:"quantity"`
	LineTotalPaise int64     `json:"line_total_paise"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CartDTO is the full cart with totals derived on every load.
type CartDTO struct {
	Items         []CartItemDTO `json:"items"`
	SubtotalPaise int64         `json:"subtotal_paise"`
	TaxPaise      int64         `json:"tax_paise"`
	TotalPaise    int64         `json:"total_paise"`
	ItemCount     int           `json:"item_count"`
}

// AddItemRequest is the payload for adding a product to the cart.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// SetQuantityRequest overwrites the quantity of an existing line.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func itemFromModel(item *models.CartItem) CartItemDTO {
	return CartItemDTO{
		ID:             item.ID,
		ProductID:      item.ProductID,
		ProductName:    item.ProductName,
		ImageURL:       item.ImageURL,
		UnitPricePaise: item.UnitPricePaise,
		Quantity:       item.Quantity,
		LineTotalPaise: item.LineTotalPaise,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
}
