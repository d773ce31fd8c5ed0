package http

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/wordlookup/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(session.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(session.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.LoadSave())
	}

	tmpl := template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))
	router.SetHTMLTemplate(tmpl)

	health := NewHealthController(cfg.Database, cfg.Audio, cfg.Version)
	lookup := NewLookupController(cfg)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Pages
	router.GET("/", lookup.Index)
	router.GET("/search", lookup.Search)
	router.POST("/search", lookup.Search)

	// Lookup API
	router.GET("/api/lookup/:word", lookup.Lookup)
	router.GET("/api/history", lookup.History)

	// Audio endpoints
	if cfg.Audio != nil {
		audio := NewAudioController(cfg.Audio)
		router.GET("/api/audio/state", audio.State)
		router.POST("/api/audio/play", audio.Play)
		router.POST("/api/audio/toggle", audio.Toggle)
		router.POST("/api/audio/stop", audio.Stop)
		router.GET("/ws/audio", audio.Stream)
	}

	return router
}
