package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/portal-api/internal/application/dto"
	"github.com/jhoicas/portal-api/internal/application/ports"
	"github.com/jhoicas/portal-api/internal/domain"
	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/jhoicas/portal-api/internal/infrastructure/memstore"
	"github.com/jhoicas/portal-api/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, key string, payload any) error {
	return m.Called(ctx, key, payload).Error(0)
}

func seedUser(t *testing.T, store *memstore.Store, email, password, status string) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entity.User{ID: email, Email: email, PasswordHash: string(hash), Name: "Usuario", Role: entity.RoleVendedor, Status: status}
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u
}

func newAuth(store *memstore.Store) *AuthUseCase {
	return NewAuthUseCase(store.Users(), memstore.NewTokenRevoker(), JWTConfig{Secret: testSecret, ExpMinutes: 30, Issuer: "portal-test"})
}

func TestLogin_OK(t *testing.T) {
	store := memstore.New()
	seedUser(t, store, "ana@portal.test", "secreto123", entity.UserStatusActive)
	uc := newAuth(store)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@portal.test", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "ana@portal.test", out.User.Email)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), out.ExpiresAt, time.Minute)

	claims, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendedor, claims.Role)
}

func TestLogin_Failures(t *testing.T) {
	store := memstore.New()
	seedUser(t, store, "ana@portal.test", "secreto123", entity.UserStatusActive)
	seedUser(t, store, "inactivo@portal.test", "secreto123", entity.UserStatusInactive)
	uc := newAuth(store)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@portal.test", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@portal.test", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "inactivo@portal.test", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLogout_RevokesJTI(t *testing.T) {
	uc := newAuth(memstore.New())
	ctx := context.Background()

	revoked, err := uc.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, uc.Logout(ctx, "jti-1", time.Now().Add(time.Hour)))
	revoked, err = uc.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.Error(t, uc.Logout(ctx, "", time.Now().Add(time.Hour)))
}

func newRegistration(store *memstore.Store, events ports.EventPublisher) *RegistrationUseCase {
	uc := NewRegistrationUseCase(store, store.RegistrationRequests(), store.Users(), events)
	uc.newPassword = func() string { return "temporal-123" }
	return uc
}

func TestRegistration_SubmitDuplicates(t *testing.T) {
	store := memstore.New()
	seedUser(t, store, "ana@portal.test", "secreto123", entity.UserStatusActive)
	uc := newRegistration(store, nil)
	ctx := context.Background()

	_, err := uc.Submit(ctx, dto.RegistrationRequestInput{Email: "ana@portal.test", Name: "Ana", RequestedRole: entity.RoleVendedor})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	in := dto.RegistrationRequestInput{Email: "luis@portal.test", Name: "Luis", RequestedRole: entity.RoleBodeguero}
	req, err := uc.Submit(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, entity.RegistrationPending, req.Status)

	_, err = uc.Submit(ctx, in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Submit(ctx, dto.RegistrationRequestInput{Email: "x@portal.test", Name: "X", RequestedRole: entity.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistration_ApproveCreatesUser(t *testing.T) {
	store := memstore.New()
	events := &mockPublisher{}
	events.On("Publish", mock.Anything, ports.EventRegistrationApproved, ports.RegistrationApproved{
		Email: "luis@portal.test", Name: "Luis", Role: entity.RoleBodeguero, TemporaryPassword: "temporal-123",
	}).Return(nil).Once()
	uc := newRegistration(store, events)
	ctx := context.Background()

	req, err := uc.Submit(ctx, dto.RegistrationRequestInput{Email: "luis@portal.test", Name: "Luis", RequestedRole: entity.RoleBodeguero})
	require.NoError(t, err)

	out, err := uc.Approve(ctx, req.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, entity.RegistrationApproved, out.Request.Status)
	assert.Equal(t, "admin-1", out.Request.ReviewedBy)
	assert.Equal(t, entity.RoleBodeguero, out.User.Role)
	events.AssertExpectations(t)

	// la contraseña temporal sirve para entrar
	login, err := newAuth(store).Login(ctx, dto.LoginRequest{Email: "luis@portal.test", Password: "temporal-123"})
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, login.User.ID)

	_, err = uc.Reject(ctx, req.ID, "admin-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegistration_RejectAndList(t *testing.T) {
	store := memstore.New()
	uc := newRegistration(store, nil)
	ctx := context.Background()

	req, err := uc.Submit(ctx, dto.RegistrationRequestInput{Email: "eva@portal.test", Name: "Eva", RequestedRole: entity.RoleVendedor})
	require.NoError(t, err)

	pending, err := uc.List(ctx, "", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, pending.Items, 1)

	out, err := uc.Reject(ctx, req.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, entity.RegistrationRejected, out.Status)

	pending, err = uc.List(ctx, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, pending.Items)

	user, err := store.Users().GetByEmail(ctx, "eva@portal.test")
	require.NoError(t, err)
	assert.Nil(t, user)

	_, err = uc.Approve(ctx, "no-existe", "admin-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
