// Package web serves the single-page form used to request meter readings.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

const indexTemplate = "index.html"

// Page holds the values rendered into the form page.
type Page struct {
	Title       string
	ExtractPath string
}

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

// Index renders the form page that posts to extractPath.
func Index(extractPath string) gin.HandlerFunc {
	page := Page{Title: "Water Meter OCR", ExtractPath: extractPath}
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, indexTemplate, page)
	}
}
