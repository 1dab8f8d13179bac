package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	promhandler "github.com/jwalitptl/frontdesk-api/internal/handler/prometheus"
	"github.com/jwalitptl/frontdesk-api/internal/middleware"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// GuardedHandler accepts extra middleware for its sensitive routes.
type GuardedHandler interface {
	RegisterRoutes(*gin.RouterGroup, ...gin.HandlerFunc)
}

type Handlers struct {
	Patient Handler
	Visit   Handler
	LabTest Handler
	Nurse   Handler
	Health  Handler
	Auth    GuardedHandler
}

type RouterConfig struct {
	RequestsPerSecond float64
	Burst             int
	LoginPerMinute    int
	AllowedOrigins    []string
	RequestTimeout    time.Duration
	MaxBodyBytes      int64
}

type Router struct {
	engine   *gin.Engine
	handlers Handlers
	metrics  *promhandler.Handler
	login    *middleware.ClientRateLimiter
}

func NewRouter(handlers Handlers, metrics *promhandler.Handler, config RouterConfig) *Router {
	engine := gin.New()
	middleware.UseJSONFieldNames()

	r := &Router{
		engine:   engine,
		handlers: handlers,
		metrics:  metrics,
		login:    middleware.NewLoginRateLimiter(config.LoginPerMinute),
	}

	sizeLimit := middleware.DefaultSizeLimitConfig()
	if config.MaxBodyBytes > 0 {
		sizeLimit.MaxBodySize = config.MaxBodyBytes
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		metrics.Middleware(),
		middleware.CORS(config.AllowedOrigins),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.SizeLimit(sizeLimit),
		middleware.Timeout(config.RequestTimeout),
	)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  rate.Limit(config.RequestsPerSecond),
		Burst: config.Burst,
	})
	engine.Use(rateLimiter.RateLimit())

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	})

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api")

	r.handlers.Health.RegisterRoutes(api)
	r.handlers.Auth.RegisterRoutes(api, r.login.RateLimit())
	r.handlers.Patient.RegisterRoutes(api)
	r.handlers.Visit.RegisterRoutes(api)
	r.handlers.LabTest.RegisterRoutes(api)
	r.handlers.Nurse.RegisterRoutes(api)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
