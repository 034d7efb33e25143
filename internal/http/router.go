package http

import (
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/gallerie/storefront/internal/http/handlers"
	"github.com/gallerie/storefront/internal/http/middlewares"
	"github.com/gallerie/storefront/internal/observability"
)

// Deps carries the wired services; main decides which store backends
// sit behind the interfaces.
type Deps struct {
	Auth          handlers.AuthService
	Sessions      middlewares.SessionResolver
	Receipts      handlers.ReceiptStore
	Workflow      handlers.AccessWorkflow
	Notifications handlers.NotificationStore
	Gateway       handlers.PaymentGateway
	Ready         func() error
	CORSOrigins   []string
	MaxBodyBytes  int64

	// Prom defaults to a fresh set on the global registerer; main and
	// tests pass their own so metrics can be shared with the mail and
	// payment instrumentation without double-registering.
	Prom *observability.Prom
}

func NewRouter(log *slog.Logger, deps Deps) *gin.Engine {
	cfgEnv := os.Getenv("APP_ENV")

	if cfgEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	prom := deps.Prom
	if prom == nil {
		prom = observability.NewProm(prometheus.DefaultRegisterer)
	}

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(otelgin.Middleware("storefront"))
	r.Use(prom.GinHandleMiddleware())

	if len(deps.CORSOrigins) > 0 {
		r.Use(middlewares.CORSMiddleware(deps.CORSOrigins))
	}
	if deps.MaxBodyBytes > 0 {
		r.Use(middlewares.MaxBodyBytes(deps.MaxBodyBytes))
	}
	r.Use(middlewares.RequireJSON())

	// health + metrics
	h := handlers.NewHealthHandler(deps.Ready)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// handlers
	authHandler := handlers.NewAuthHandler(deps.Auth)
	receiptsHandler := handlers.NewReceiptsHandler(deps.Receipts)
	accessHandler := handlers.NewAccessRequestsHandler(deps.Workflow)
	notificationsHandler := handlers.NewNotificationsHandler(deps.Notifications)
	paymentsHandler := handlers.NewPaymentsHandler(deps.Gateway)

	authmw := middlewares.NewAuth(deps.Sessions)

	// brute-force protection on the credential endpoints
	credLimiter := middlewares.NewRateLimiter(10, time.Minute)

	api := r.Group("/api")

	api.POST("/signup", credLimiter.Middleware(middlewares.KeyByIP), authHandler.SignUp)
	api.POST("/signin", credLimiter.Middleware(middlewares.KeyByIP), authHandler.SignIn)

	protected := api.Group("")
	protected.Use(authmw.RequireAuth())

	protected.GET("/profile", authHandler.Profile)
	protected.POST("/signout", authHandler.SignOut)

	protected.POST("/receipts", receiptsHandler.Create)
	protected.GET("/receipts", receiptsHandler.List)
	protected.GET("/receipts/:orderId", receiptsHandler.Get)

	protected.POST("/receipt-access-request", accessHandler.File)

	protected.GET("/notifications", notificationsHandler.List)
	protected.POST("/notifications/mark-read", notificationsHandler.MarkManyRead)
	protected.POST("/notifications/mark-all-read", notificationsHandler.MarkAllRead)
	protected.POST("/notifications/:id/read", notificationsHandler.MarkRead)

	protected.POST("/payments/initialize", paymentsHandler.Initialize)
	protected.GET("/payments/verify/:reference", paymentsHandler.Verify)

	admin := protected.Group("")
	admin.Use(authmw.RequireAdmin())

	admin.GET("/access-requests", accessHandler.List)
	admin.POST("/access-requests/:id/resolve", accessHandler.Resolve)
	admin.POST("/notifications", notificationsHandler.Create)

	return r
}
