package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/mgiraldo/almacen/app/services"
	"github.com/mgiraldo/almacen/pkg/bind"
	"github.com/mgiraldo/almacen/pkg/session"
	"github.com/mgiraldo/almacen/pkg/validate"
)

// AuthController serves the login/register pages and the session lifecycle.
type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// ShowLogin renders the login page. Already-authenticated visitors go
// straight to the panel.
func (c *AuthController) ShowLogin(w http.ResponseWriter, r *http.Request) {
	sess := session.FromCtx(r)
	if id, ok := sess.GetUint("user_id"); ok && id != 0 {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}
	renderPage(w, r, "login", "Iniciar sesión", nil)
}

// Login handles the login form submission.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashRedirect(w, r, "error", "Formulario inválido.", "/")
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	user, err := c.service.Login(email, password)
	if err != nil {
		flashRedirect(w, r, "error", "Credenciales inválidas.", "/")
		return
	}

	sess := session.FromCtx(r)
	sess.Set("user_id", user.ID)
	sess.Set("nombre", user.Name)
	_ = sess.Save(w)
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

// ShowRegister renders the registration page.
func (c *AuthController) ShowRegister(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, "register", "Registro", nil)
}

// Register handles the registration form submission.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if errs, err := bind.Form(r, &in); err != nil || validate.HasErrors(errs) {
		flashRedirect(w, r, "error", "Revisa los datos del formulario.", "/register")
		return
	}

	if _, err := c.service.Register(in); err != nil {
		msg := "No se pudo crear la cuenta."
		switch {
		case errors.Is(err, services.ErrPasswordMismatch):
			msg = "Las contraseñas no coinciden."
		case errors.Is(err, services.ErrEmailTaken):
			msg = "El correo ya está registrado."
		}
		flashRedirect(w, r, "error", msg, "/register")
		return
	}

	flashRedirect(w, r, "success", "Cuenta creada. Ya puedes iniciar sesión.", "/")
}

// Home renders the authenticated landing page.
func (c *AuthController) Home(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, "home", "Panel", nil)
}

// Logout destroys the session and returns to the login page.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromCtx(r)
	sess.Invalidate()
	_ = sess.Save(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
