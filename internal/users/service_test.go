package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/apmw/freshbrand-backend/pkg/db/models"
	"github.com/apmw/freshbrand-backend/pkg/enums"
	pkgerrors "github.com/apmw/freshbrand-backend/pkg/errors"
)

func TestServiceSetStatusDeactivatesUser(t *testing.T) {
	user := &models.User{
		ID:     uuid.New(),
		Email:  "shop@example.com",
		Name:   "Asha Stores",
		Role:   enums.UserRoleClient,
		Status: enums.UserStatusActive,
	}
	repo := &stubRepo{users: map[uuid.UUID]*models.User{user.ID: user}}
	svc := mustService(t, repo)

	dto, err := svc.SetStatus(context.Background(), user.ID, enums.UserStatusInactive)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if dto.Status != enums.UserStatusInactive {
		t.Fatalf("expected inactive status, got %s", dto.Status)
	}
}

func TestServiceSetStatusRejectsUnknownValue(t *testing.T) {
	svc := mustService(t, &stubRepo{users: map[uuid.UUID]*models.User{}})

	_, err := svc.SetStatus(context.Background(), uuid.New(), enums.UserStatus("banned"))
	assertServiceCode(t, err, pkgerrors.CodeValidation)
}

func TestServiceGetUnknownUserReturnsNotFound(t *testing.T) {
	svc := mustService(t, &stubRepo{users: map[uuid.UUID]*models.User{}})

	_, err := svc.Get(context.Background(), uuid.New())
	assertServiceCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceUpdateProfileRejectsBlankName(t *testing.T) {
	svc := mustService(t, &stubRepo{users: map[uuid.UUID]*models.User{}})

	blank := "   "
	_, err := svc.UpdateProfile(context.Background(), uuid.New(), UpdateProfileRequest{Name: &blank})
	assertServiceCode(t, err, pkgerrors.CodeValidation)
}

func TestServiceUpdateProfileAppliesChanges(t *testing.T) {
	user := &models.User{
		ID:     uuid.New(),
		Email:  "shop@example.com",
		Name:   "Asha Stores",
		Role:   enums.UserRoleClient,
		Status: enums.UserStatusActive,
	}
	repo := &stubRepo{users: map[uuid.UUID]*models.User{user.ID: user}}
	svc := mustService(t, repo)

	company := "Asha Provision Mart Pvt Ltd"
	gst := "29ABCDE1234F1Z5"
	dto, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{
		CompanyName: &company,
		GSTNumber:   &gst,
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if dto.CompanyName == nil || *dto.CompanyName != company {
		t.Fatalf("expected company name to be updated")
	}
	if dto.GSTNumber == nil || *dto.GSTNumber != gst {
		t.Fatalf("expected gst number to be updated")
	}
}

func TestServiceDeleteRemovesUser(t *testing.T) {
	user := &models.User{
		ID:     uuid.New(),
		Email:  "shop@example.com",
		Name:   "Asha Stores",
		Role:   enums.UserRoleClient,
		Status: enums.UserStatusActive,
	}
	repo := &stubRepo{users: map[uuid.UUID]*models.User{user.ID: user}}
	svc := mustService(t, repo)

	if err := svc.Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), user.ID); pkgerrors.As(err) == nil {
		t.Fatalf("expected not found after delete")
	}
}

func mustService(t *testing.T, repo repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func assertServiceCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s error, got %v", code, err)
	}
}

type stubRepo struct {
	users map[uuid.UUID]*models.User
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubRepo) List(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *stubRepo) UpdateProfile(ctx context.Context, id uuid.UUID, dto UpdateUserDTO) error {
	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if dto.Name != nil {
		user.Name = *dto.Name
	}
	if dto.Phone != nil {
		user.Phone = dto.Phone
	}
	if dto.CompanyName != nil {
		user.CompanyName = dto.CompanyName
	}
	if dto.GSTNumber != nil {
		user.GSTNumber = dto.GSTNumber
	}
	if dto.Address != nil {
		user.Address = dto.Address
	}
	if dto.Status != nil {
		user.Status = *dto.Status
	}
	return nil
}

func (s *stubRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.UserStatus) error {
	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Status = status
	return nil
}

func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.users, id)
	return nil
}
