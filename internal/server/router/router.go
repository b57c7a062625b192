package router

import (
	"net/http"

	"meterocr/internal/server/handler"
	"meterocr/internal/server/middleware"
	"meterocr/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ExtractPath is where the form posts file names.
const ExtractPath = "/api/extract"

// ExtractHandler defines the interface for the extract handler.
type ExtractHandler interface {
	HandleExtract(c *gin.Context)
}

// New wires up handlers to the Gin engine.
func New(log logrus.FieldLogger, extractHandler ExtractHandler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.AccessLog(log), gin.Recovery())
	r.SetHTMLTemplate(web.Templates())

	// Health check endpoint
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	r.GET("/", web.Index(ExtractPath))

	r.POST(ExtractPath, extractHandler.HandleExtract)
	notAllowed := handler.MethodNotAllowed(http.MethodPost)
	for _, method := range []string{
		http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodOptions, http.MethodConnect, http.MethodTrace,
	} {
		r.Handle(method, ExtractPath, notAllowed)
	}

	// Extension methods (PROPFIND and the like) have no route tree of their own.
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		if c.Request.URL.Path == ExtractPath {
			notAllowed(c)
		}
	})

	return r
}
