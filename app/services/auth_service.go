// Package services holds the business logic between the HTTP controllers
// and the repositories.
package services

import (
	"errors"

	"github.com/mgiraldo/almacen/app/models"
	"github.com/mgiraldo/almacen/app/repositories"
	"github.com/mgiraldo/almacen/pkg/auth"
	"github.com/mgiraldo/almacen/pkg/event"
	"github.com/mgiraldo/almacen/pkg/logger"
)

var (
	// ErrInvalidCredentials is returned for both unknown emails and wrong
	// passwords, so a caller can't tell which check failed.
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrEmailTaken         = errors.New("el correo ya está registrado")
	ErrPasswordMismatch   = errors.New("las contraseñas no coinciden")
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	Email           string `form:"email" json:"email" validate:"required,email"`
	Name            string `form:"nombre" json:"nombre" validate:"required"`
	Password        string `form:"password" json:"password" validate:"required,min=1"`
	PasswordConfirm string `form:"confirm_password" json:"confirm_password" validate:"required"`
	Role            string `form:"cargo" json:"cargo" validate:"nullable"`
}

// AuthService validates credentials and registers accounts.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Login checks email/password and returns the matching user. Any failure
// collapses into ErrInvalidCredentials.
func (s *AuthService) Login(email, password string) (models.User, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	if !auth.CheckPassword(user.Password, password) {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// APILogin is Login plus a signed JWT for API clients.
func (s *AuthService) APILogin(email, password string) (models.User, string, error) {
	user, err := s.Login(email, password)
	if err != nil {
		return models.User{}, "", err
	}
	token, err := auth.GenerateToken(user.ID, user.Name)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

// Register creates a new account. The password pair must match and the
// email must be unused.
func (s *AuthService) Register(in RegisterInput) (models.User, error) {
	if in.Password != in.PasswordConfirm {
		return models.User{}, ErrPasswordMismatch
	}

	taken, err := s.users.ExistsByEmail(in.Email)
	if err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, ErrEmailTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Role:     in.Role,
	}
	if err := s.users.Create(&user); err != nil {
		// Covers the duplicate-email race between ExistsByEmail and Create.
		logger.Warn("auth: create user failed", "email", in.Email, "error", err)
		return models.User{}, ErrEmailTaken
	}

	event.Fire("user.registered", user)
	return user, nil
}
