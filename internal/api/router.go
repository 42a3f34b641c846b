package api

import (
	"github.com/gin-gonic/gin"
	"github.com/timmy/brunca/internal/api/handler"
	"github.com/timmy/brunca/internal/api/middleware"
	"github.com/timmy/brunca/internal/logger"
	"github.com/timmy/brunca/internal/preferences"
	"github.com/timmy/brunca/internal/session"
)

// RouterConfig holds the settings of the HTTP layer.
type RouterConfig struct {
	Mode string
	CORS middleware.CORSConfig
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	registry *session.Registry,
	prefs *preferences.Service,
	cfg RouterConfig,
	log *logger.Logger,
) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(cfg.CORS))

	healthHandler := handler.NewHealthHandler(registry)
	locationHandler := handler.NewLocationHandler()
	sessionHandler := handler.NewSessionHandler(registry, prefs)
	collectionHandler := handler.NewCollectionHandler(registry)
	preferencesHandler := handler.NewPreferencesHandler(prefs)

	r.GET("/health", healthHandler.Health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/locations", locationHandler.List)

		// Sessions
		v1.POST("/sessions", sessionHandler.Create)
		v1.DELETE("/sessions/:id", sessionHandler.Delete)

		// Collections of a session
		coll := v1.Group("/sessions/:id/:collection")
		coll.GET("", collectionHandler.State)
		coll.PUT("/query", collectionHandler.SetQuery)
		coll.POST("/more", collectionHandler.LoadMore)
		coll.POST("/refresh", collectionHandler.Refresh)
		coll.GET("/items/:item_id", collectionHandler.GetItem)

		// Preferences
		v1.GET("/preferences", preferencesHandler.Get)
		v1.PATCH("/preferences", preferencesHandler.Update)
	}

	return r
}
