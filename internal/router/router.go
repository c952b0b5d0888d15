package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carelink/hospital-api/internal/handler"
	"github.com/carelink/hospital-api/internal/middleware"
	"github.com/carelink/hospital-api/pkg/metrics"
)

// Handler registers routes on an authenticated, tenant-scoped group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type PublicHandler interface {
	RegisterPublicRoutes(*gin.RouterGroup)
}

type Config struct {
	RateLimiter *middleware.RateLimiter
	CORS        middleware.CORSConfig
	Metrics     *metrics.Metrics
}

type Router struct {
	engine *gin.Engine
}

// NewRouter assembles the middleware chain and mounts every handler. The
// authenticated group runs the tenant isolation gate before any handler; the
// public group carries only onboarding and health.
func NewRouter(
	cfg Config,
	auth *middleware.AuthMiddleware,
	health *handler.HealthHandler,
	public []PublicHandler,
	authed []Handler,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger())
	engine.Use(middleware.Recovery())
	engine.Use(middleware.CORS(cfg.CORS))
	engine.Use(middleware.ErrorHandler())
	if cfg.Metrics != nil {
		engine.Use(metricsMiddleware(cfg.Metrics))
	}

	health.RegisterRoutes(engine)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	publicGroup := engine.Group("/api/v1")
	for _, h := range public {
		h.RegisterPublicRoutes(publicGroup)
	}

	authedGroup := engine.Group("/api/v1")
	authedGroup.Use(auth.Authenticate())
	authedGroup.Use(middleware.RequireTenant())
	if cfg.RateLimiter != nil {
		authedGroup.Use(cfg.RateLimiter.RateLimit())
	}
	for _, h := range authed {
		h.RegisterRoutes(authedGroup)
	}

	return &Router{engine: engine}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		m.RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}
