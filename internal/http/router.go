package http

import (
	"log/slog"
	"net/http"

	"github.com/geocoder89/taskhub/internal/config"
	"github.com/geocoder89/taskhub/internal/http/handlers"
	"github.com/geocoder89/taskhub/internal/http/middlewares"
	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/geocoder89/taskhub/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RouterDeps is everything the HTTP layer needs; main builds it once.
type RouterDeps struct {
	Cfg      config.Config
	Log      *slog.Logger
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer

	Auth     handlers.AuthService
	Sessions middlewares.Authenticator
	Tasks    handlers.TaskService

	// optional
	ListCache   handlers.ListCache
	Limiter     ratelimit.Limiter
	ReadyChecks map[string]handlers.Check
}

func NewRouter(d RouterDeps) *gin.Engine {
	if d.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(otelgin.Middleware(observability.ServiceName))
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(middlewares.ParseOrigins(d.Cfg.FrontEndURL)))
	r.Use(middlewares.MaxBodyBytes(d.Cfg.MaxBodyBytes))
	r.Use(middlewares.RequireJSON())

	// health
	h := handlers.NewHealthHandler(d.ReadyChecks)
	r.GET("/", h.Root)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	authHandler := handlers.NewAuthHandler(d.Auth, d.Prom)
	tasksHandler := handlers.NewTasksHandler(d.Tasks, d.ListCache, d.Prom)
	authMW := middlewares.NewAuthMiddleware(d.Sessions, d.Auth)

	credentials := []gin.HandlerFunc{}
	if d.Limiter != nil {
		credentials = append(credentials, middlewares.RateLimit(d.Limiter, middlewares.KeyByRouteAndIP, d.Prom))
	}

	r.POST("/register", append(credentials, authHandler.Register)...)
	r.POST("/login", append(credentials, authHandler.Login)...)
	r.POST("/logout", authHandler.Logout)

	// the browser client calls everything under /user
	for _, prefix := range []string{"", "/user"} {
		private := r.Group(prefix, authMW.RequireAuth())
		private.GET("/me", authHandler.Me)
		private.GET("/tasks", tasksHandler.ListTasks)
		private.POST("/tasks", tasksHandler.CreateTask)
		private.PUT("/tasks/:id", tasksHandler.UpdateTask)
		private.DELETE("/tasks/:id", tasksHandler.DeleteTask)
	}

	r.NoRoute(func(ctx *gin.Context) {
		handlers.RespondError(ctx, http.StatusNotFound, "not_found", "Route not found", nil)
	})

	return r
}
