package router

import (
	"time"

	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/config"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/gateway"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/handler"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/infra"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/middleware"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/repository"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/service"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Gateway/Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, billingCB *infra.CircuitBreaker, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	var gw gateway.BillGateway = gateway.NewClient(cfg.BillingAPIURL, cfg.BillingAPIToken)
	gw = gateway.WithBreaker(gw, billingCB)

	// ── Repositories ─────────────────────────────────────────────────────────
	importRunRepo := repository.NewImportRunRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	defaults := service.PayloadDefaults{
		CustomerID: cfg.ImportDefaultCustomerID,
		OrderID:    cfg.ImportDefaultOrderID,
		CarID:      cfg.ImportDefaultCarID,
		AdminID:    cfg.ImportDefaultAdminID,
	}
	billSvc := service.NewBillService(gw, rdb, defaults, cfg.PDFCachePath)
	refundSvc := service.NewRefundService(gw)
	importSvc := service.NewImportService(gw, importRunRepo, dispatcher, defaults, cfg.ImportReportEmail)

	// ── Handlers ─────────────────────────────────────────────────────────────
	billsH := handler.NewBillsHandler(billSvc)
	refundsH := handler.NewRefundsHandler(refundSvc, billSvc)
	importsH := handler.NewImportsHandler(importSvc)
	healthH := handler.NewHealthHandler(db, rdb, billingCB)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", healthH.Health)

	v1 := r.Group("/v1")
	{
		bills := v1.Group("/bills")
		{
			bills.GET("", billsH.List)
			bills.POST("", billsH.Create)
			bills.GET("/filters", billsH.Filters)

			// Import routes are registered before /:id so Gin does not treat
			// "import" as a bill id.
			bills.POST("/import", importsH.Upload)
			bills.GET("/import/template", importsH.Template)
			bills.GET("/import/runs", importsH.Runs)

			bills.GET("/:id", billsH.Get)
			bills.PUT("/:id", billsH.Update)
			bills.DELETE("/:id", billsH.Delete)
			bills.POST("/:id/refund", refundsH.Refund)
			bills.GET("/:id/refund/presets", refundsH.Presets)
			bills.POST("/:id/send-email", billsH.SendEmail)
			bills.GET("/:id/pdf", billsH.DownloadPDF)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
