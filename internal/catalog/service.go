package catalog

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/apmw/freshbrand-backend/pkg/db/models"
	"github.com/apmw/freshbrand-backend/pkg/enums"
	pkgerrors "github.com/apmw/freshbrand-backend/pkg/errors"
)

// Service defines the catalog behavior used by client and admin controllers.
type Service interface {
	ListAvailable(ctx context.Context) ([]ProductDTO, error)
	List(ctx context.Context) ([]ProductDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, req CreateProductRequest) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetStock(ctx context.Context, id uuid.UUID, qty int) (*ProductDTO, error)
	UploadImage(ctx context.Context, id uuid.UUID, filename, contentType string, data []byte) (*ProductDTO, error)
}

type repository interface {
	ListByStatus(ctx context.Context, status enums.ProductStatus) ([]models.Product, error)
	ListAll(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetStock(ctx context.Context, id uuid.UUID, qty int, status enums.ProductStatus) error
}

type imageStore interface {
	Upload(ctx context.Context, object, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, object string) error
}

type service struct {
	repo   repository
	images imageStore
}

// ServiceParams bundles catalog service dependencies.
type ServiceParams struct {
	Repo   repository
	Images imageStore
}

// NewService constructs a catalog service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	if params.Images == nil {
		return nil, fmt.Errorf("image store is required")
	}
	return &service{
		repo:   params.Repo,
		images: params.Images,
	}, nil
}

func (s *service) ListAvailable(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.ListByStatus(ctx, enums.ProductStatusAvailable)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list available products")
	}
	return toDTOs(rows), nil
}

func (s *service) List(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return toDTOs(rows), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(product), nil
}

func (s *service) Create(ctx context.Context, req CreateProductRequest) (*ProductDTO, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if req.PricePaise <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if req.MaxOrderQty > 0 && req.MinOrderQty > req.MaxOrderQty {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min order quantity exceeds max order quantity")
	}

	product, err := s.repo.Create(ctx, req.toModel())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return FromModel(product), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductDTO, error) {
	product, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := applyUpdate(product, req); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.mustFind(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, product.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) SetStock(ctx context.Context, id uuid.UUID, qty int) (*ProductDTO, error) {
	product, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}

	status := product.Status
	if qty <= 0 {
		if status == enums.ProductStatusAvailable {
			status = enums.ProductStatusOutOfStock
		}
	} else if status == enums.ProductStatusOutOfStock {
		status = enums.ProductStatusAvailable
	}

	if err := s.repo.SetStock(ctx, id, qty, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set product stock")
	}

	product.AvailableStock = qty
	product.Status = status
	return FromModel(product), nil
}

func (s *service) UploadImage(ctx context.Context, id uuid.UUID, filename, contentType string, data []byte) (*ProductDTO, error) {
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image data is required")
	}

	product, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}

	object := imageObjectName(id, filename)
	url, err := s.images.Upload(ctx, object, contentType, data)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload product image")
	}

	product.Images = append(product.Images, url)
	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist product image")
	}
	return FromModel(updated), nil
}

func (s *service) mustFind(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}
	return product, nil
}

func applyUpdate(product *models.Product, req UpdateProductRequest) error {
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.PricePaise != nil {
		if *req.PricePaise <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		product.PricePaise = *req.PricePaise
	}
	if req.MinOrderQty != nil {
		product.MinOrderQty = *req.MinOrderQty
	}
	if req.MaxOrderQty != nil {
		product.MaxOrderQty = *req.MaxOrderQty
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid product status %q", *req.Status))
		}
		product.Status = *req.Status
	}
	if req.Images != nil {
		product.Images = pq.StringArray(req.Images)
	}
	if product.MaxOrderQty > 0 && product.MinOrderQty > product.MaxOrderQty {
		return pkgerrors.New(pkgerrors.CodeValidation, "min order quantity exceeds max order quantity")
	}
	return nil
}

func imageObjectName(productID uuid.UUID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("products/%s/%s%s", productID, uuid.NewString(), ext)
}

func toDTOs(rows []models.Product) []ProductDTO {
	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos
}
