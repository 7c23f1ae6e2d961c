package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/apmw/freshbrand-backend/pkg/db/models"
	"github.com/apmw/freshbrand-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID        `json:"id"`
	Email       string           `json:"email"`
	Name        string           `json:"name"`
	Phone       *string          `json:"phone,omitempty"`
	CompanyName *string          `json:"company_name,omitempty"`
	GSTNumber   *string          `json:"gst_number,omitempty"`
	Address     *string          `json:"address,omitempty"`
	Role        enums.UserRole   `json:"role"`
	Status      enums.UserStatus `json:"status"`
	LastLoginAt *time.Time       `json:"last_login_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	Name         string
	Phone        *string
	CompanyName  *string
	GSTNumber    *string
	Address      *string
	Role         enums.UserRole
}

// UpdateUserDTO carries optional profile mutations.
type UpdateUserDTO struct {
	Name        *string
	Phone       *string
	CompanyName *string
	GSTNumber   *string
	Address     *string
	Status      *enums.UserStatus
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Phone:       u.Phone,
		CompanyName: u.CompanyName,
		GSTNumber:   u.GSTNumber,
		Address:     u.Address,
		Role:        u.Role,
		Status:      u.Status,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.UserRoleClient
	}

	return &models.User{
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Name:         c.Name,
		Phone:        c.Phone,
		CompanyName:  c.CompanyName,
		GSTNumber:    c.GSTNumber,
		Address:      c.Address,
		Role:         role,
		Status:       enums.UserStatusActive,
	}
}
