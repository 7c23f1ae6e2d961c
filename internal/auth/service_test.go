package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/apmw/freshbrand-backend/internal/users"
	pkgAuth "github.com/apmw/freshbrand-backend/pkg/auth"
	"github.com/apmw/freshbrand-backend/pkg/config"
	"github.com/apmw/freshbrand-backend/pkg/db/models"
	"github.com/apmw/freshbrand-backend/pkg/enums"
	pkgerrors "github.com/apmw/freshbrand-backend/pkg/errors"
	"github.com/apmw/freshbrand-backend/pkg/security"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "secret",
	Issuer:            "freshbrand",
	ExpirationMinutes: 30,
}

func TestServiceLoginIssuesClientToken(t *testing.T) {
	password := "client-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "shop@example.com",
		PasswordHash: mustHashPassword(t, password),
		Name:         "Asha Stores",
		Role:         enums.UserRoleClient,
		Status:       enums.UserStatusActive,
	}

	svc, _ := buildTestService(t, user)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.UserRoleClient {
		t.Fatalf("expected client role claim, got %s", claims.Role)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id claim %s, got %s", user.ID, claims.UserID)
	}
	if resp.RefreshToken == "" {
		t.Fatalf("expected refresh token to be set")
	}
	if user.LastLoginAt == nil {
		t.Fatalf("expected last login to be recorded")
	}
}

func TestServiceLoginRejectsWrongPassword(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "shop@example.com",
		PasswordHash: mustHashPassword(t, "right-password"),
		Name:         "Asha Stores",
		Role:         enums.UserRoleClient,
		Status:       enums.UserStatusActive,
	}

	svc, _ := buildTestService(t, user)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "wrong-password",
	})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestServiceLoginRejectsInactiveUser(t *testing.T) {
	password := "client-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "blocked@example.com",
		PasswordHash: mustHashPassword(t, password),
		Name:         "Blocked Shop",
		Role:         enums.UserRoleClient,
		Status:       enums.UserStatusInactive,
	}

	svc, _ := buildTestService(t, user)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestServiceRegisterCreatesClient(t *testing.T) {
	repo := &stubUserRepo{}
	svc := newStubbedService(t, repo, &stubSessionManager{refreshToken: "refresh-token"})

	company := "Asha Stores Pvt Ltd"
	gst := "29ABCDE1234F1Z5"
	resp, err := svc.Register(context.Background(), RegisterRequest{
		Name:        "Asha Stores",
		Email:       "Shop@Example.com",
		Password:    "client-secret",
		CompanyName: &company,
		GSTNumber:   &gst,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if repo.created == nil {
		t.Fatalf("expected user to be created")
	}
	if repo.created.Email != "shop@example.com" {
		t.Fatalf("expected lowercased email, got %s", repo.created.Email)
	}
	if repo.created.Role != enums.UserRoleClient {
		t.Fatalf("expected client role, got %s", repo.created.Role)
	}
	if repo.created.CompanyName == nil || *repo.created.CompanyName != company {
		t.Fatalf("expected company name to be stored")
	}
	if repo.created.GSTNumber == nil || *repo.created.GSTNumber != gst {
		t.Fatalf("expected gst number to be stored")
	}
	if resp.User == nil || resp.User.Email != "shop@example.com" {
		t.Fatalf("expected user dto in response")
	}
}

func TestServiceRegisterRejectsDuplicateEmail(t *testing.T) {
	user := &models.User{
		ID:     uuid.New(),
		Email:  "shop@example.com",
		Name:   "Asha Stores",
		Role:   enums.UserRoleClient,
		Status: enums.UserStatusActive,
	}
	svc, _ := buildTestService(t, user)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Asha Stores",
		Email:    user.Email,
		Password: "client-secret",
	})
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestServiceRefreshRotatesSession(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "shop@example.com",
		PasswordHash: mustHashPassword(t, "client-secret"),
		Name:         "Asha Stores",
		Role:         enums.UserRoleClient,
		Status:       enums.UserStatusActive,
	}
	sessionMgr := &stubSessionManager{
		refreshToken:   "refresh-token",
		rotatedID:      "new-access-id",
		rotatedRefresh: "new-refresh-token",
	}
	svc := newStubbedService(t, &stubUserRepo{user: user}, sessionMgr)

	accessToken, err := pkgAuth.MintAccessToken(testJWTConfig, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    "old-access-id",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  accessToken,
		RefreshToken: "refresh-token",
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if sessionMgr.rotatedFrom != "old-access-id" {
		t.Fatalf("expected rotation from old-access-id, got %s", sessionMgr.rotatedFrom)
	}
	if resp.RefreshToken != "new-refresh-token" {
		t.Fatalf("expected rotated refresh token, got %s", resp.RefreshToken)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse refreshed token: %v", err)
	}
	if claims.ID != "new-access-id" {
		t.Fatalf("expected new jti, got %s", claims.ID)
	}
}

func TestServiceLogoutRevokesSession(t *testing.T) {
	sessionMgr := &stubSessionManager{refreshToken: "refresh-token"}
	svc := newStubbedService(t, &stubUserRepo{}, sessionMgr)

	if err := svc.Logout(context.Background(), "access-id"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if sessionMgr.revoked != "access-id" {
		t.Fatalf("expected revoke of access-id, got %s", sessionMgr.revoked)
	}
}

func buildTestService(t *testing.T, user *models.User) (Service, *stubSessionManager) {
	t.Helper()
	sessionMgr := &stubSessionManager{refreshToken: "refresh-token"}
	return newStubbedService(t, &stubUserRepo{user: user}, sessionMgr), sessionMgr
}

func newStubbedService(t *testing.T, repo *stubUserRepo, sessionMgr *stubSessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessionMgr,
		JWTConfig:      testJWTConfig,
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s error, got %v", code, err)
	}
}

type stubUserRepo struct {
	user    *models.User
	created *models.User
}

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	user.ID = uuid.New()
	s.created = user
	return user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.user != nil && s.user.ID == id {
		s.user.LastLoginAt = &at
	}
	return nil
}

type stubSessionManager struct {
	refreshToken   string
	rotatedFrom    string
	rotatedID      string
	rotatedRefresh string
	revoked        string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	return s.refreshToken, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	s.rotatedFrom = oldAccessID
	return s.rotatedID, s.rotatedRefresh, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = accessID
	return nil
}
