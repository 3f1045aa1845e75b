package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// NewRouter wires middleware, templates, static assets and routes.
func NewRouter(h *Handler, log zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(log), gin.Recovery())

	// Optional: avoid “trusted all proxies” warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.SetHTMLTemplate(template.Must(template.New("").ParseFS(templateFS, "templates/*.html")))

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	router.StaticFS("/static", http.FS(static))

	h.RegisterRoutes(router)
	return router
}
