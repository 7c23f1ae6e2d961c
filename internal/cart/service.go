package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/apmw/freshbrand-backend/pkg/db/models"
	pkgerrors "github.com/apmw/freshbrand-backend/pkg/errors"
	"github.com/apmw/freshbrand-backend/pkg/money"
)

// Service defines the cart behavior used by the cart controller and checkout.
type Service interface {
	Load(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	Add(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartDTO, error)
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type repository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	FindLine(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error)
	Upsert(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int, lineTotalPaise int64) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     repository
	products productLoader
}

// ServiceParams bundles cart service dependencies.
type ServiceParams struct {
	Repo     repository
	Products productLoader
}

// NewService constructs a cart service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product loader is required")
	}
	return &service{
		repo:     params.Repo,
		products: params.Products,
	}, nil
}

func (s *service) Load(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return buildCart(rows), nil
}

func (s *service) Add(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartDTO, error) {
	if req.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}

	var imageURL *string
	if len(product.Images) > 0 {
		url := product.Images[0]
		imageURL = &url
	}

	item := &models.CartItem{
		UserID:         userID,
		ProductID:      product.ID,
		ProductName:    product.Name,
		ImageURL:       imageURL,
		UnitPricePaise: product.PricePaise,
		Quantity:       req.Quantity,
		LineTotalPaise: money.LineTotal(product.PricePaise, req.Quantity),
	}
	if err := s.repo.Upsert(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
	}

	return s.Load(ctx, userID)
}

func (s *service) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error) {
	if quantity <= 0 {
		return s.Remove(ctx, userID, productID)
	}

	line, err := s.repo.FindLine(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup cart item")
	}

	// Line total is recomputed from the stored price snapshot, never
	// from the live catalog price.
	lineTotal := money.LineTotal(line.UnitPricePaise, quantity)
	if err := s.repo.UpdateQuantity(ctx, line.ID, quantity, lineTotal); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart quantity")
	}

	return s.Load(ctx, userID)
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error) {
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	return s.Load(ctx, userID)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func buildCart(rows []models.CartItem) *CartDTO {
	cart := &CartDTO{Items: make([]CartItemDTO, 0, len(rows))}
	for i := range rows {
		item := &rows[i]
		cart.Items = append(cart.Items, itemFromModel(item))
		cart.SubtotalPaise += item.LineTotalPaise
		cart.ItemCount += item.Quantity
	}
	cart.TaxPaise = money.Tax(cart.SubtotalPaise)
	cart.TotalPaise = cart.SubtotalPaise + cart.TaxPaise
	return cart
}
