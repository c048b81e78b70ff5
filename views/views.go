// Package views holds the embedded page templates and stylesheet.
package views

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/gofiber/template/html/v2"
)

//go:embed layouts/*.html courses/*.html topics/*.html notes/*.html *.html
var templates embed.FS

//go:embed static
var static embed.FS

// Layout is the default page layout.
const Layout = "layouts/main"

// NewEngine returns the template engine for all pages.
func NewEngine() *html.Engine {
	engine := html.NewFileSystem(http.FS(templates), ".html")
	engine.AddFunc("date", func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006")
	})
	return engine
}

// Static returns the stylesheet directory.
func Static() http.FileSystem {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
