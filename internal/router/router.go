package router

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/triage-assistant/internal/handler/prometheus"
	"github.com/jwalitptl/triage-assistant/internal/middleware"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type RouterConfig struct {
	RateLimitEnabled bool
	RateLimit        rate.Limit
	RateBurst        int
	CORSConfig       middleware.CORSConfig
	SizeLimit        middleware.SizeLimitConfig
	Release          bool
}

type Router struct {
	engine  *gin.Engine
	config  RouterConfig
	auth    *middleware.AuthMiddleware
	metrics *prometheus.Handler
	health  Handler
	api     []Handler
}

// NewRouter builds the engine. auth may be nil, in which case the API is
// served without authentication. health routes are never authenticated.
func NewRouter(
	auth *middleware.AuthMiddleware,
	metrics *prometheus.Handler,
	health Handler,
	config RouterConfig,
	api ...Handler,
) *Router {
	if config.Release {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.MaxMultipartMemory = config.SizeLimit.MaxUploadSize

	r := &Router{
		engine:  engine,
		config:  config,
		auth:    auth,
		metrics: metrics,
		health:  health,
		api:     api,
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		metrics.Middleware(),
		middleware.ErrorHandler(),
		middleware.CORS(config.CORSConfig),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.Cache(middleware.NoStoreConfig()),
	)

	return r
}

func (r *Router) Setup() {
	r.metrics.RegisterRoutes(r.engine)

	api := r.engine.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.health.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.SizeLimit(r.config.SizeLimit))
	if r.config.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  r.config.RateLimit,
			Burst: r.config.RateBurst,
		})
		protected.Use(limiter.RateLimit())
	}
	if r.auth != nil {
		protected.Use(r.auth.Authenticate())
	}

	for _, h := range r.api {
		h.RegisterRoutes(protected)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
