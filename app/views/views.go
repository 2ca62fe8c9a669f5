// Package views renders the server-side HTML pages from templates embedded
// in the binary.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/mgiraldo/almacen/pkg/auth"
	"github.com/mgiraldo/almacen/pkg/logger"
)

//go:embed templates/*.html
var files embed.FS

//go:embed static
var static embed.FS

// Static serves the embedded assets (stylesheet) under /static/.
func Static() http.Handler {
	return http.FileServer(http.FS(static))
}

var tmpl = template.Must(template.New("").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
}).ParseFS(files, "templates/*.html"))

// Data is the payload every page template receives.
type Data struct {
	Title string
	User  auth.User
	Flash map[string]string
	Data  any
}

// Render writes the named page template. A render failure after headers are
// out can only be logged.
func Render(w http.ResponseWriter, page string, data Data) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, page, data); err != nil {
		logger.Error("views: render", "page", page, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
