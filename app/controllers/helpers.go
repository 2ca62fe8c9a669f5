// Package controllers holds the HTTP handlers: server-rendered pages under
// the web routes and JSON handlers under /api.
package controllers

import (
	"fmt"
	"net/http"

	"github.com/mgiraldo/almacen/app/views"
	"github.com/mgiraldo/almacen/pkg/auth"
	"github.com/mgiraldo/almacen/pkg/session"
)

// flashKeys are the flash slots pages render.
var flashKeys = []string{"error", "success"}

// pageData assembles the template payload: authenticated user (if any),
// pending flash messages, and the page's own data.
func pageData(r *http.Request, title string, data any) views.Data {
	sess := session.FromCtx(r)

	flash := map[string]string{}
	for _, key := range flashKeys {
		if v, ok := sess.GetFlash(key); ok {
			flash[key] = fmt.Sprintf("%v", v)
		}
	}

	user, _ := auth.FromCtx(r.Context())
	return views.Data{Title: title, User: user, Flash: flash, Data: data}
}

// renderPage saves the session (flash reads mutate it) and renders the page.
func renderPage(w http.ResponseWriter, r *http.Request, page, title string, data any) {
	pd := pageData(r, title, data)
	_ = session.FromCtx(r).Save(w)
	views.Render(w, page, pd)
}

// flashRedirect stores a flash message and redirects.
func flashRedirect(w http.ResponseWriter, r *http.Request, kind, msg, target string) {
	sess := session.FromCtx(r)
	sess.Flash(kind, msg)
	_ = sess.Save(w)
	http.Redirect(w, r, target, http.StatusSeeOther)
}
