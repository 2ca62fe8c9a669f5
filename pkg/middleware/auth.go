package middleware

import (
	"net/http"
	"strings"

	"github.com/mgiraldo/almacen/pkg/auth"
	"github.com/mgiraldo/almacen/pkg/response"
	"github.com/mgiraldo/almacen/pkg/session"
)

// RequireAuth guards the server-rendered pages. A request with a session
// holding user_id gets an auth.User injected into its context; anything else
// is flashed a message and redirected to the login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)

		userID, ok := sess.GetUint("user_id")
		if !ok || userID == 0 {
			sess.Flash("error", "Debes iniciar sesión para acceder al inicio.")
			_ = sess.Save(w)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		name, _ := sess.GetString("nombre")
		ctx := auth.WithUser(r.Context(), auth.User{ID: userID, Name: name})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireToken guards the JSON API with a JWT bearer token.
func RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w)
			return
		}

		ctx := auth.WithUser(r.Context(), auth.User{ID: claims.UserID, Name: claims.Name})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
