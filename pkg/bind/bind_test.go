package bind_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgiraldo/almacen/pkg/bind"
	"github.com/mgiraldo/almacen/pkg/testkit"
	"github.com/mgiraldo/almacen/pkg/validate"
)

type productForm struct {
	Name  string  `form:"nombre" json:"nombre" validate:"required"`
	Stock int     `form:"stock" json:"stock" validate:"integer"`
	Price float64 `form:"precio" json:"precio" validate:"numeric,gte=0"`
}

func TestFormBindsURLEncoded(t *testing.T) {
	req := testkit.FormRequest("/agregar_stock", url.Values{
		"nombre": {"Arroz"},
		"stock":  {"12"},
		"precio": {"2.50"},
	})

	var in productForm
	errs, err := bind.Form(req, &in)
	require.NoError(t, err)
	assert.False(t, validate.HasErrors(errs))
	assert.Equal(t, "Arroz", in.Name)
	assert.Equal(t, 12, in.Stock)
	assert.Equal(t, 2.5, in.Price)
}

func TestFormBindsMultipart(t *testing.T) {
	req := testkit.MultipartRequest(t, "/agregar_stock", map[string]string{
		"nombre": "Aceite",
		"stock":  "3",
		"precio": "4.75",
	}, "", "", nil)

	var in productForm
	errs, err := bind.Form(req, &in)
	require.NoError(t, err)
	assert.False(t, validate.HasErrors(errs))
	assert.Equal(t, "Aceite", in.Name)
	assert.Equal(t, 3, in.Stock)
}

func TestFormReportsUnparseableNumbers(t *testing.T) {
	req := testkit.FormRequest("/agregar_stock", url.Values{
		"nombre": {"Arroz"},
		"stock":  {"muchos"},
		"precio": {"2.50"},
	})

	var in productForm
	errs, err := bind.Form(req, &in)
	require.NoError(t, err)
	assert.Contains(t, errs, "stock")
}

func TestFormRunsValidation(t *testing.T) {
	req := testkit.FormRequest("/agregar_stock", url.Values{
		"stock":  {"1"},
		"precio": {"2.50"},
	})

	var in productForm
	errs, err := bind.Form(req, &in)
	require.NoError(t, err)
	assert.Contains(t, errs, "nombre")
}

func TestJSONBindsAndValidates(t *testing.T) {
	req := testkit.JSONRequest("POST", "/api/products",
		strings.NewReader(`{"nombre":"Arroz","stock":5,"precio":2.5}`))

	var in productForm
	errs, err := bind.JSON(req, &in)
	require.NoError(t, err)
	assert.False(t, validate.HasErrors(errs))
	assert.Equal(t, "Arroz", in.Name)
}

func TestJSONRejectsMalformedBody(t *testing.T) {
	req := testkit.JSONRequest("POST", "/api/products", strings.NewReader(`{not json`))

	var in productForm
	_, err := bind.JSON(req, &in)
	assert.Error(t, err)
}
