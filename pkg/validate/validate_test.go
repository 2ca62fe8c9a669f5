package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mgiraldo/almacen/pkg/validate"
)

type productForm struct {
	Name        string  `form:"nombre" validate:"required"`
	Description string  `form:"descripcion" validate:"nullable"`
	Stock       int     `form:"stock" validate:"integer"`
	Price       float64 `form:"precio" validate:"numeric,gte=0"`
}

type registerForm struct {
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=6,confirmed"`
	PasswordConfirm string `form:"confirm_password"`
}

func TestStructPassesValidInput(t *testing.T) {
	errs := validate.Struct(&productForm{Name: "Arroz", Stock: 10, Price: 2.5})
	assert.False(t, validate.HasErrors(errs))
}

func TestRequiredUsesFormTagInMessageKey(t *testing.T) {
	errs := validate.Struct(&productForm{Price: 1})
	assert.True(t, validate.HasErrors(errs))
	assert.Contains(t, errs, "nombre")
}

func TestEmailRule(t *testing.T) {
	errs := validate.Struct(&registerForm{
		Email: "no-es-un-correo", Password: "secreto", PasswordConfirm: "secreto",
	})
	assert.Contains(t, errs, "email")
}

func TestConfirmedRule(t *testing.T) {
	errs := validate.Struct(&registerForm{
		Email: "ana@almacen.test", Password: "secreto", PasswordConfirm: "otra",
	})
	assert.Contains(t, errs, "password")
}

func TestMinRuleOnStringLength(t *testing.T) {
	errs := validate.Struct(&registerForm{
		Email: "ana@almacen.test", Password: "abc", PasswordConfirm: "abc",
	})
	assert.Contains(t, errs, "password")
}

func TestGteRuleRejectsNegativePrice(t *testing.T) {
	errs := validate.Struct(&productForm{Name: "Arroz", Price: -1})
	assert.Contains(t, errs, "precio")
}
