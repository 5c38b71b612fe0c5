package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/userhubapp/userhub-backend/internal/users"
	pkgAuth "github.com/userhubapp/userhub-backend/pkg/auth"
	"github.com/userhubapp/userhub-backend/pkg/config"
	pkgmodels "github.com/userhubapp/userhub-backend/pkg/db/models"
	"github.com/userhubapp/userhub-backend/pkg/enums"
	pkgerrors "github.com/userhubapp/userhub-backend/pkg/errors"
)

type stubTxRunner struct{}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubUserRepository struct {
	byEmail   map[string]*pkgmodels.User
	byPhone   map[string]*pkgmodels.User
	created   *pkgmodels.User
	createErr error
}

func newStubUserRepository() *stubUserRepository {
	return &stubUserRepository{
		byEmail: map[string]*pkgmodels.User{},
		byPhone: map[string]*pkgmodels.User{},
	}
}

func (s *stubUserRepository) FindByEmail(ctx context.Context, email string) (*pkgmodels.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepository) FindByPhone(ctx context.Context, phone string) (*pkgmodels.User, error) {
	if user, ok := s.byPhone[phone]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepository) Create(ctx context.Context, dto users.CreateUserDTO) (*pkgmodels.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	user := dto.ToModel()
	user.ID = uuid.New()
	s.byEmail[dto.Email] = user
	if dto.Phone != nil {
		s.byPhone[*dto.Phone] = user
	}
	s.created = user
	return user, nil
}

type registerTestSetup struct {
	service  RegisterService
	userRepo *stubUserRepository
	sessions *fakeSessions
}

func newRegisterTestSetup(t *testing.T) *registerTestSetup {
	t.Helper()
	userRepo := newStubUserRepository()
	sessions := newFakeSessions()
	svc, err := NewRegisterService(RegisterServiceParams{
		TxRunner: stubTxRunner{},
		UserRepoFactory: func(tx *gorm.DB) registerUserRepository {
			return userRepo
		},
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}
	return &registerTestSetup{
		service:  svc,
		userRepo: userRepo,
		sessions: sessions,
	}
}

func sampleRegisterRequest(email string) RegisterRequest {
	return RegisterRequest{
		Name:     "Jamie Rivera",
		Email:    email,
		Password: "Secret123!",
	}
}

func TestRegisterCreatesUserAndLogsIn(t *testing.T) {
	setup := newRegisterTestSetup(t)

	resp, err := setup.service.Register(context.Background(), sampleRegisterRequest("New@Example.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	created := setup.userRepo.created
	if created == nil {
		t.Fatal("expected user to be created")
	}
	if created.Email != "new@example.com" {
		t.Fatalf("email not lowercased: %s", created.Email)
	}
	if created.Role != enums.UserRoleUser {
		t.Fatalf("new accounts must default to the user role, got %s", created.Role)
	}
	if created.PasswordHash == "Secret123!" || created.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}

	claims, err := pkgAuth.ParseToken(testJWTConfig(), resp.AccessToken, pkgAuth.TokenUseAccess)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != created.ID {
		t.Fatal("token not issued for the created user")
	}
	if _, ok := setup.sessions.live[claims.SessionID()]; !ok {
		t.Fatal("registration must open a session")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setup := newRegisterTestSetup(t)
	setup.userRepo.byEmail["taken@example.com"] = &pkgmodels.User{ID: uuid.New(), Email: "taken@example.com"}

	_, err := setup.service.Register(context.Background(), sampleRegisterRequest("taken@example.com"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	setup := newRegisterTestSetup(t)
	phone := "+15550001111"
	setup.userRepo.byPhone[phone] = &pkgmodels.User{ID: uuid.New(), Phone: &phone}

	req := sampleRegisterRequest("fresh@example.com")
	req.Phone = &phone
	_, err := setup.service.Register(context.Background(), req)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}
