package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgiraldo/almacen/app/controllers"
	"github.com/mgiraldo/almacen/app/models"
	"github.com/mgiraldo/almacen/app/repositories"
	"github.com/mgiraldo/almacen/app/routes"
	"github.com/mgiraldo/almacen/app/services"
	"github.com/mgiraldo/almacen/pkg/router"
	"github.com/mgiraldo/almacen/pkg/session"
	"github.com/mgiraldo/almacen/pkg/testkit"
)

// newWebApp wires the web routes onto a router backed by a fresh database
// and an in-process session store.
func newWebApp(t *testing.T) http.Handler {
	t.Helper()

	db := testkit.NewDB(t, &models.User{}, &models.Product{}, &models.Sale{}, &models.SaleItem{})

	authService := services.NewAuthService(repositories.NewUserRepository(db))
	stockService := services.NewStockService(repositories.NewProductRepository(db))
	saleService := services.NewSaleService(db, repositories.NewSaleRepository(db))

	r := router.New()
	r.Use(session.Middleware(session.NewMemoryStore(), session.DefaultOptions()))
	routes.RegisterWeb(r, routes.WebControllers{
		Auth:  controllers.NewAuthController(authService),
		Stock: controllers.NewStockController(stockService),
		Sales: controllers.NewSaleController(saleService, stockService),
		Pages: controllers.NewPageController(),
	})
	return r.Handler()
}

func TestHomeWithoutSessionRedirectsToLogin(t *testing.T) {
	app := newWebApp(t)

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestProtectedPagesRequireSession(t *testing.T) {
	app := newWebApp(t)

	for _, path := range []string{"/stock", "/ventas", "/agregar_stock", "/agregar_venta", "/proveedores", "/gastos"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code, "path %s", path)
		assert.Equal(t, "/", rec.Header().Get("Location"), "path %s", path)
	}
}

func TestLoginFlowEstablishesSession(t *testing.T) {
	app := newWebApp(t)

	// Register, then log in with the same credentials.
	form := url.Values{
		"email":            {"ana@almacen.test"},
		"nombre":           {"Ana"},
		"password":         {"secreto"},
		"confirm_password": {"secreto"},
		"cargo":            {"vendedora"},
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, testkit.FormRequest("/register", form))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))

	login := url.Values{
		"email":    {"ana@almacen.test"},
		"password": {"secreto"},
	}
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, testkit.FormRequest("/", login))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/home", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// The session cookie now opens the protected pages.
	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ana")
}

func TestLoginWithBadCredentialsRedirectsBack(t *testing.T) {
	app := newWebApp(t)

	login := url.Values{
		"email":    {"nadie@almacen.test"},
		"password": {"incorrecta"},
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, testkit.FormRequest("/", login))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}
