package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mgiraldo/almacen/app/models"
	"github.com/mgiraldo/almacen/app/repositories"
	"github.com/mgiraldo/almacen/app/services"
	"github.com/mgiraldo/almacen/pkg/event"
	"github.com/mgiraldo/almacen/pkg/testkit"
)

func newAuthService(t *testing.T) (*services.AuthService, *gorm.DB) {
	t.Helper()
	event.Flush()
	db := testkit.NewDB(t, &models.User{})
	return services.NewAuthService(repositories.NewUserRepository(db)), db
}

func registerInput() services.RegisterInput {
	return services.RegisterInput{
		Email:           "ana@almacen.test",
		Name:            "Ana",
		Password:        "secreto",
		PasswordConfirm: "secreto",
		Role:            "vendedora",
	}
}

func TestRegisterMismatchedPasswordsCreatesNoUser(t *testing.T) {
	svc, db := newAuthService(t)

	in := registerInput()
	in.PasswordConfirm = "otra"
	_, err := svc.Register(in)
	require.ErrorIs(t, err, services.ErrPasswordMismatch)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)
}

func TestRegisterDuplicateEmailRejected(t *testing.T) {
	svc, db := newAuthService(t)

	_, err := svc.Register(registerInput())
	require.NoError(t, err)

	in := registerInput()
	in.Name = "Otra Ana"
	_, err = svc.Register(in)
	require.ErrorIs(t, err, services.ErrEmailTaken)

	var count int64
	db.Model(&models.User{}).Where("email = ?", in.Email).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	user, err := svc.Register(registerInput())
	require.NoError(t, err)
	assert.NotEqual(t, "secreto", user.Password)
	assert.NotEmpty(t, user.Password)
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	_, err := svc.Register(registerInput())
	require.NoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		user, err := svc.Login("ana@almacen.test", "secreto")
		require.NoError(t, err)
		assert.Equal(t, "Ana", user.Name)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login("ana@almacen.test", "incorrecta")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login("nadie@almacen.test", "secreto")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})
}

func TestAPILoginReturnsToken(t *testing.T) {
	svc, _ := newAuthService(t)
	_, err := svc.Register(registerInput())
	require.NoError(t, err)

	_, token, err := svc.APILogin("ana@almacen.test", "secreto")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, err = svc.APILogin("ana@almacen.test", "incorrecta")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}
