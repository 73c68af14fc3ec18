// Package api wires together all HTTP routes for the orgdesk backend.
//
// Route grouping:
//   - /login and /register are public; they are how a caller obtains a session.
//   - Everything else sits behind RequireAuth, which answers anonymous callers
//     with the same body the ownership gate uses.
//   - /health, /ready and /version are operational and unauthenticated.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orgdesk/orgdesk/internal/api/handlers"
	"github.com/orgdesk/orgdesk/internal/auth"
	"github.com/orgdesk/orgdesk/internal/config"
	"github.com/orgdesk/orgdesk/internal/db"
	"github.com/orgdesk/orgdesk/internal/middleware"
	"github.com/orgdesk/orgdesk/internal/services"
)

// Version is the build version reported by /version; set with -ldflags
var Version = "0.1.0"

// probeTimeout bounds each dependency check made by /health and /ready
const probeTimeout = 2 * time.Second

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, backend *db.Backend, sessions *auth.SessionManager) *gin.Engine {
	router := gin.New()

	sessionService := services.NewSessionService(backend.Users, sessions)
	orgService := services.NewOrgService(backend.Orgs, cfg.Authorization.EnforceOrgReadOwnership)
	clientService := services.NewClientService(backend.Orgs, backend.Clients, cfg.Authorization.RequireTargetOrgOwner)

	sessionHandlers := handlers.NewSessionHandlers(&cfg.Session, sessionService)
	orgHandlers := handlers.NewOrgHandlers(orgService)
	clientHandlers := handlers.NewClientHandlers(clientService)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Security.CORS.AllowedOrigins))
	router.Use(middleware.SecurityHeadersMiddleware(middleware.APISecurityHeadersConfig()))

	router.GET("/health", healthCheckHandler(backend))
	router.GET("/ready", readinessHandler(backend, sessions.Store()))
	router.GET("/version", versionHandler())

	app := router.Group("")
	app.Use(middleware.SessionMiddleware(sessions, backend.Users, cfg.Session.CookieName))
	{
		app.POST("/login", sessionHandlers.LoginHandler())
		app.POST("/register", sessionHandlers.RegisterHandler())

		authed := app.Group("")
		authed.Use(middleware.RequireAuth())
		{
			authed.GET("/me", sessionHandlers.MeHandler())
			authed.DELETE("/logout", sessionHandlers.LogoutHandler())

			orgs := authed.Group("/orgs")
			orgs.GET("/all", orgHandlers.ListHandler())
			orgs.POST("", orgHandlers.CreateHandler())
			orgs.GET("/:id", orgHandlers.GetHandler())
			orgs.PUT("/:id", orgHandlers.UpdateHandler())
			orgs.DELETE("/:id", orgHandlers.DeleteHandler())

			clients := authed.Group("/clients")
			clients.POST("", clientHandlers.CreateHandler())
			clients.GET("/:id", clientHandlers.GetHandler())
			clients.PUT("/:id", clientHandlers.UpdateHandler())
			clients.DELETE("/:id", clientHandlers.DeleteHandler())
		}
	}

	return router
}

// pinger is anything /health and /ready can probe
type pinger interface {
	Ping(ctx context.Context) error
}

// healthCheckHandler reports liveness: the store answers
func healthCheckHandler(store pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// readinessHandler additionally checks the session store, without which no
// authenticated request can succeed
func readinessHandler(store, sessionStore pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
		defer cancel()

		checks := gin.H{}
		for _, probe := range []struct {
			name string
			p    pinger
		}{
			{"database", store},
			{"sessions", sessionStore},
		} {
			if err := probe.p.Ping(ctx); err != nil {
				checks[probe.name] = "unhealthy"
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"ready":  false,
					"checks": checks,
					"error":  probe.name + " not ready",
				})
				return
			}
			checks[probe.name] = "healthy"
		}

		c.JSON(http.StatusOK, gin.H{
			"ready":  true,
			"checks": checks,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// versionHandler returns the build version
func versionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": Version})
	}
}
