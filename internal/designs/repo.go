package designs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/apmw/freshbrand-backend/pkg/db/models"
)

// Repository handles custom design persistence. One design per user.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a designs repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByUser returns the user's design or gorm.ErrRecordNotFound.
func (r *Repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.CustomDesign, error) {
	var design models.CustomDesign
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&design).
		Error
	if err != nil {
		return nil, err
	}
	return &design, nil
}

// Upsert writes the design, overwriting any existing row for the user.
func (r *Repository) Upsert(ctx context.Context, design *models.CustomDesign) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"brand_name",
				"logo_url",
				"description",
				"updated_at",
			}),
		}).
		Create(design).
		Error
}

// Delete removes the user's design if present.
func (r *Repository) Delete(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CustomDesign{}).
		Error
}
