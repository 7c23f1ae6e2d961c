package designs

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/apmw/freshbrand-backend/pkg/db/models"
	pkgerrors "github.com/apmw/freshbrand-backend/pkg/errors"
)

// defaultColorHex is applied when a design is saved without a brand color.
const defaultColorHex = "#4CAF50"

// DesignDTO is the custom design payload returned to clients.
type DesignDTO struct {
	ID        uuid.UUID `json:"id"`
	BrandName string    `json:"brand_name"`
	Title     *string   `json:"title,omitempty"`
	ColorHex  string    `json:"color_hex"`
	LogoURL   *string   `json:"logo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaveDesignRequest captures the branding payload; saving overwrites any
// existing design for the user.
type SaveDesignRequest struct {
	BrandName string  `json:"brand_name" validate:"required"`
	Title     *string `json:"title,omitempty"`
	ColorHex  string  `json:"color_hex,omitempty" validate:"omitempty,hexcolor"`
	LogoURL   *string `json:"logo_url,omitempty" validate:"omitempty,url"`
}

// Service defines the custom design behavior used by the design controller.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*DesignDTO, error)
	Save(ctx context.Context, userID uuid.UUID, req SaveDesignRequest) (*DesignDTO, error)
	UploadLogo(ctx context.Context, userID uuid.UUID, filename, contentType string, data []byte) (*DesignDTO, error)
}

type repository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.CustomDesign, error)
	Upsert(ctx context.Context, design *models.CustomDesign) error
}

type logoStore interface {
	Upload(ctx context.Context, object, contentType string, data []byte) (string, error)
}

type service struct {
	repo  repository
	logos logoStore
}

// ServiceParams bundles designs service dependencies.
type ServiceParams struct {
	Repo  repository
	Logos logoStore
}

// NewService constructs a designs service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("designs repository is required")
	}
	if params.Logos == nil {
		return nil, fmt.Errorf("logo store is required")
	}
	return &service{
		repo:  params.Repo,
		logos: params.Logos,
	}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*DesignDTO, error) {
	design, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "design not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup design")
	}
	return fromModel(design), nil
}

func (s *service) Save(ctx context.Context, userID uuid.UUID, req SaveDesignRequest) (*DesignDTO, error) {
	if strings.TrimSpace(req.BrandName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand name is required")
	}

	colorHex := strings.TrimSpace(req.ColorHex)
	if colorHex == "" {
		colorHex = defaultColorHex
	}

	design := &models.CustomDesign{
		UserID:    userID,
		BrandName: strings.TrimSpace(req.BrandName),
		Title:     req.Title,
		ColorHex:  colorHex,
		LogoURL:   req.LogoURL,
	}
	if err := s.repo.Upsert(ctx, design); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save design")
	}

	saved, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload design")
	}
	return fromModel(saved), nil
}

func (s *service) UploadLogo(ctx context.Context, userID uuid.UUID, filename, contentType string, data []byte) (*DesignDTO, error) {
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logo data is required")
	}

	design, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "design not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup design")
	}

	ext := strings.ToLower(path.Ext(filename))
	object := fmt.Sprintf("designs/%s/%s%s", userID, uuid.NewString(), ext)
	url, err := s.logos.Upload(ctx, object, contentType, data)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload logo")
	}

	design.LogoURL = &url
	if err := s.repo.Upsert(ctx, design); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist logo url")
	}
	return fromModel(design), nil
}

func fromModel(d *models.CustomDesign) *DesignDTO {
	return &DesignDTO{
		ID:        d.ID,
		BrandName: d.BrandName,
		Title:     d.Title,
		ColorHex:  d.ColorHex,
		LogoURL:   d.LogoURL,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
