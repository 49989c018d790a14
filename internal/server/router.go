package server

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/engramhq/engramview/client"
	"github.com/engramhq/engramview/internal/middleware"
	"github.com/engramhq/engramview/internal/view"
	"github.com/engramhq/engramview/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log          *logrus.Logger
	Hub          *ws.Hub
	Views        *view.Store
	Engine       ExpandService
	Backend      *client.Client
	CORSOrigins  []string
	Version      string
	DefaultDepth int
	MaxDepth     int
}

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.Prometheus())

	// Metrics endpoint (unauthenticated, like health).
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(appCtx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	health := NewHealthHandler(deps.Backend, deps.Hub, deps.Log, deps.Version)
	views := NewViewHandler(deps.Views, deps.Engine, deps.Hub, deps.Log, deps.DefaultDepth, deps.MaxDepth)

	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	api.GET("/palette", Palette)

	api.POST("/views", views.Create)
	api.GET("/views/:id", views.Get)
	api.POST("/views/:id/expand", views.Expand)
	api.PUT("/views/:id/positions", views.SetPosition)
	api.DELETE("/views/:id", views.Delete)

	api.GET("/views/:id/ws", wsHandler(appCtx, deps))
}

// wsHandler upgrades a dashboard connection and attaches it to the hub,
// scoped to one view session.
func wsHandler(appCtx context.Context, deps *RouterDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewID := c.Param("id")
		if _, err := deps.Views.Get(viewID); err != nil {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "view session not found")

			return
		}

		// CORS origins double as WebSocket origin patterns; the config
		// validator guarantees they are plain host patterns.
		conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
			OriginPatterns:       deps.CORSOrigins,
			CompressionMode:      websocket.CompressionContextTakeover,
			CompressionThreshold: 128,
		})
		if err != nil {
			deps.Log.WithError(err).Error("websocket accept failed")

			return
		}

		wsClient := ws.NewClient(deps.Hub, conn, viewID)
		deps.Hub.Register(wsClient)

		// Derive a context that cancels when either the server shuts down or the request ends.
		wsCtx, wsCancel := context.WithCancel(appCtx)
		go func() {
			select {
			case <-c.Request.Context().Done():
				wsCancel()
			case <-wsCtx.Done():
			}
		}()

		go wsClient.WritePump(wsCtx)
		wsClient.ReadPump(wsCtx)
		wsCancel()
	}
}

func ginLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}
		if rid, ok := c.Get(middleware.RequestIDKey); ok {
			fields["request_id"] = rid
		}

		entry := log.WithFields(fields)
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("request")
		case c.Writer.Status() >= 400:
			entry.Warn("request")
		default:
			entry.Debug("request")
		}
	}
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(r, deps)
	registerRoutes(ctx, r.Group("/api/v1"), deps)

	return r
}
