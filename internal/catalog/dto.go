package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/apmw/freshbrand-backend/pkg/db/models"
	"github.com/apmw/freshbrand-backend/pkg/enums"
)

// ProductDTO is the catalog payload returned to clients and admins.
type ProductDTO struct {
	ID             uuid.UUID           `json:"id"`
	Name           string              `json:"name"`
	Description    *string             `json:"description,omitempty"`
	Category       string              `json:"category"`
	Unit           string              `json:"unit"`
	PricePaise     int64               `json:"price_paise"`
	MinOrderQty    int                 `json:"min_order_qty"`
	MaxOrderQty    int                 `json:"max_order_qty"`
	AvailableStock int                 `json:"available_stock"`
	Status         enums.ProductStatus `json:"status"`
	Images         []string            `json:"images"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// CreateProductRequest captures the admin payload for a new listing.
type CreateProductRequest struct {
	Name           string   `json:"name" validate:"required"`
	Description    *string  `json:"description,omitempty"`
	Category       string   `json:"category" validate:"required"`
	Unit           string   `json:"unit,omitempty"`
	PricePaise     int64    `json:"price_paise" validate:"required,gt=0"`
	MinOrderQty    int      `json:"min_order_qty,omitempty" validate:"omitempty,gte=1"`
	MaxOrderQty    int      `json:"max_order_qty,omitempty" validate:"omitempty,gte=0"`
	AvailableStock int      `json:"available_stock,omitempty" validate:"omitempty,gte=0"`
	Images         []string `json:"images,omitempty" validate:"omitempty,dive,url"`
}

// UpdateProductRequest carries optional catalog mutations; nil fields are untouched.
type UpdateProductRequest struct {
	Name        *string              `json:"name,omitempty"`
	Description *string              `json:"description,omitempty"`
	Category    *string              `json:"category,omitempty"`
	Unit        *string              `json:"unit,omitempty"`
	PricePaise  *int64               `json:"price_paise,omitempty" validate:"omitempty,gt=0"`
	MinOrderQty *int                 `json:"min_order_qty,omitempty" validate:"omitempty,gte=1"`
	MaxOrderQty *int                 `json:"max_order_qty,omitempty" validate:"omitempty,gte=0"`
	Status      *enums.ProductStatus `json:"status,omitempty"`
	Images      []string             `json:"images,omitempty" validate:"omitempty,dive,url"`
}

// FromModel converts a persisted product into its transport shape.
func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Category:       p.Category,
		Unit:           p.Unit,
		PricePaise:     p.PricePaise,
		MinOrderQty:    p.MinOrderQty,
		MaxOrderQty:    p.MaxOrderQty,
		AvailableStock: p.AvailableStock,
		Status:         p.Status,
		Images:         append([]string{}, p.Images...),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (r CreateProductRequest) toModel() *models.Product {
	unit := r.Unit
	if unit == "" {
		unit = "unit"
	}
	minQty := r.MinOrderQty
	if minQty <= 0 {
		minQty = 1
	}
	status := enums.ProductStatusAvailable
	if r.AvailableStock <= 0 {
		status = enums.ProductStatusOutOfStock
	}
	return &models.Product{
		Name:           r.Name,
		Description:    r.Description,
		Category:       r.Category,
		Unit:           unit,
		PricePaise:     r.PricePaise,
		MinOrderQty:    minQty,
		MaxOrderQty:    r.MaxOrderQty,
		AvailableStock: r.AvailableStock,
		Status:         status,
		Images:         pq.StringArray(r.Images),
	}
}
