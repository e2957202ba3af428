// Package httpapi wires the HTTP transport (Gin) to the recharge services,
// middleware and route handlers.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-recharge-backend/docs"
	"github.com/tbourn/go-recharge-backend/internal/config"
	"github.com/tbourn/go-recharge-backend/internal/domain"
	"github.com/tbourn/go-recharge-backend/internal/events"
	"github.com/tbourn/go-recharge-backend/internal/http/handlers"
	"github.com/tbourn/go-recharge-backend/internal/http/middleware"
	"github.com/tbourn/go-recharge-backend/internal/repo"
	"github.com/tbourn/go-recharge-backend/internal/services"
)

// catalogRepoShim adapts the repo free functions to services.CatalogRepo.
type catalogRepoShim struct{}

func (catalogRepoShim) ListOperators(ctx context.Context, db *gorm.DB) ([]domain.Operator, error) {
	return repo.ListOperators(ctx, db)
}

func (catalogRepoShim) GetOperatorByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Operator, error) {
	return repo.GetOperatorByCode(ctx, db, code)
}

func (catalogRepoShim) ListPlans(ctx context.Context, db *gorm.DB) ([]domain.RechargePlan, error) {
	return repo.ListPlans(ctx, db)
}

func (catalogRepoShim) ListPlansByOperator(ctx context.Context, db *gorm.DB, operatorID uint) ([]domain.RechargePlan, error) {
	return repo.ListPlansByOperator(ctx, db, operatorID)
}

func (catalogRepoShim) GetPlan(ctx context.Context, db *gorm.DB, id uint) (*domain.RechargePlan, error) {
	return repo.GetPlan(ctx, db, id)
}

func (catalogRepoShim) OperatorsStats(ctx context.Context, db *gorm.DB) (int64, uint, error) {
	return repo.OperatorsStats(ctx, db)
}

func (catalogRepoShim) PlansStats(ctx context.Context, db *gorm.DB) (int64, uint, error) {
	return repo.PlansStats(ctx, db)
}

// paymentRepoShim adapts the repo free functions to services.PaymentRepo.
type paymentRepoShim struct{}

func (paymentRepoShim) GetPlan(ctx context.Context, db *gorm.DB, id uint) (*domain.RechargePlan, error) {
	return repo.GetPlan(ctx, db, id)
}

func (paymentRepoShim) GetOperator(ctx context.Context, db *gorm.DB, id uint) (*domain.Operator, error) {
	return repo.GetOperator(ctx, db, id)
}

func (paymentRepoShim) CreatePayment(ctx context.Context, db *gorm.DB, in repo.NewPayment) (*domain.Payment, error) {
	return repo.CreatePayment(ctx, db, in)
}

func (paymentRepoShim) GetPaymentByTransactionID(ctx context.Context, db *gorm.DB, transactionID string) (*domain.Payment, error) {
	return repo.GetPaymentByTransactionID(ctx, db, transactionID)
}

func (paymentRepoShim) UpdatePaymentStatus(ctx context.Context, db *gorm.DB, id uint, status domain.PaymentStatus, completedAt *time.Time) (*domain.Payment, error) {
	return repo.UpdatePaymentStatus(ctx, db, id, status, completedAt)
}

// RegisterRoutes attaches middleware and endpoints to r. A nil publisher
// disables payment events.
//
// Middleware order:
//  1. OpenTelemetry
//  2. RequestID
//  3. RedactingLogger (mobile numbers and signatures scrubbed)
//  4. Recovery
//  5. Body size limit
//  6. Metrics
//  7. Rate limiter (per IP; probes and the gateway webhook exempt)
//  8. CORS, security headers, gzip
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, publisher events.Publisher) {
	r.HandleMethodNotAllowed = true

	api := cfg.APIBasePath
	if api == "/" {
		api = ""
	}
	webhookPath := api + "/webhooks/upi"

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(1 << 20))
	r.Use(middleware.Metrics("/health", "/metrics"))
	r.Use(middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP()).
		Exempt("/health", "/metrics", webhookPath).
		Handler())
	r.Use(cors.New(corsConfig(cfg.CORS.AllowedOrigins)))
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:      cfg.Security.EnableHSTS,
		HSTSMaxAge:      cfg.Security.HSTSMaxAge,
		NoStorePrefixes: []string{api + "/payments", webhookPath},
		EnablePolicy:    true,
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	catalogSvc := services.NewCatalogService(db, catalogRepoShim{})
	paymentSvc := services.NewPaymentService(db, paymentRepoShim{})
	if cfg.Payments.MerchantUPIID != "" {
		paymentSvc.MerchantUPIID = cfg.Payments.MerchantUPIID
	}
	paymentSvc.WebhookSecret = []byte(cfg.Payments.WebhookSecret)
	if publisher != nil {
		paymentSvc.Events = publisher
	}

	h := handlers.New(catalogSvc, paymentSvc)

	g := r.Group(api)
	{
		g.GET("/operators", h.ListOperators)
		g.GET("/operators/:code", h.GetOperator)

		g.GET("/plans", h.ListPlans)
		g.GET("/plans/operator/:operatorId", h.ListPlansByOperator)
		g.GET("/plans/:id", h.GetPlan)

		g.POST("/payments", h.CreatePayment)
		g.GET("/payments/:transactionId", h.GetPayment)
		g.PATCH("/payments/:transactionId/status", h.UpdatePaymentStatus)
		g.POST("/payments/:transactionId/upi-link", h.GenerateUPILink)

		if cfg.WebhookEnabled() {
			g.POST("/webhooks/upi", h.UPIWebhook)
		}
	}
}

// corsConfig allows any origin when none are configured. Credentials are
// never allowed; the API is anonymous.
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "If-None-Match", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID", "ETag", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

// limitBody caps request bodies at maxBytes; reads past the cap fail.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
