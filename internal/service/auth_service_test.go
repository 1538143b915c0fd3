package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/grievance-service/internal/config"
	"github.com/spec-kit/grievance-service/internal/domain"
)

func newAuthService() (*AuthService, *fakeStaffRepo) {
	profiles := newFakeProfileRepo()
	staff := newFakeStaffRepo(profiles, nil)
	svc := NewAuthService(config.AuthConfig{JWTSecret: "test", AccessTokenTTLMinutes: 5, BcryptCost: 4},
		AuthDependencies{ProfileRepo: profiles, StaffRepo: staff})
	return svc, staff
}

func TestRegister_CreatesCitizen(t *testing.T) {
	svc, staff := newAuthService()

	session, err := svc.Register(context.Background(), " Ngozi ", "Ngozi@Example.com", "long-enough")
	require.NoError(t, err)
	assert.Equal(t, "ngozi@example.com", session.Profile.Email)
	assert.Equal(t, "Ngozi", *session.Profile.Name)
	assert.Equal(t, domain.RoleCitizen, session.Role)
	assert.Equal(t, domain.RoleCitizen, staff.roles[session.Profile.ID])

	claims, err := svc.TokenManager().ParseToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, session.Profile.ID, claims.Subject)
}

func TestRegister_Rejections(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "not-an-email", "long-enough")
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	_, err = svc.Register(ctx, "", "a@example.com", "short")
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	_, err = svc.Register(ctx, "", "a@example.com", "long-enough")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "", "A@example.com", "long-enough")
	assert.Equal(t, "CONFLICT", errCode(t, err))
}

func TestLogin_CarriesCurrentRole(t *testing.T) {
	svc, staff := newAuthService()
	ctx := context.Background()

	session, err := svc.Register(ctx, "", "boss@example.com", "long-enough")
	require.NoError(t, err)
	staff.roles[session.Profile.ID] = domain.RoleAdmin

	login, err := svc.Login(ctx, "boss@example.com", "long-enough")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, login.Role)

	_, err = svc.Login(ctx, "boss@example.com", "wrong-password")
	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))

	_, err = svc.Login(ctx, "nobody@example.com", "long-enough")
	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))
}
