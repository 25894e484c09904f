package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmacia/internal/server/handlers"
	"github.com/mamadbah2/farmacia/internal/service/access"
	"github.com/mamadbah2/farmacia/internal/service/session"
)

// Handlers groups the endpoint adapters mounted by New.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Sale    *handlers.SaleHandler
	Catalog *handlers.CatalogHandler
	Stock   *handlers.StockHandler
	Alerts  *handlers.AlertHandler
	Logs    *handlers.LogHandler
}

// New wires the Gin engine with the console routes and middlewares.
func New(h Handlers, sess *session.Session, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	handlers.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.POST("/auth/login", h.Auth.Login)
	r.POST("/auth/logout", h.Auth.Logout)
	r.GET("/auth/session", h.Auth.Session)

	authed := r.Group("/", handlers.RequireSession(sess))
	authed.POST("/auth/avatar", h.Auth.UploadAvatar)
	authed.GET("/nav", h.Auth.Navigation)

	sale := authed.Group("/sale", handlers.Allow(access.Sell))
	sale.GET("", h.Sale.Get)
	sale.POST("/customer", h.Sale.IdentifyCustomer)
	sale.POST("/search", h.Sale.Search)
	sale.POST("/cart", h.Sale.AddToCart)
	sale.PUT("/cart/:id", h.Sale.SetQuantity)
	sale.DELETE("/cart/:id", h.Sale.RemoveFromCart)
	sale.POST("/finalize", h.Sale.Finalize)
	sale.POST("/abandon", h.Sale.Abandon)

	catalog := authed.Group("/", handlers.Allow(access.ViewCatalog))
	catalog.GET("/medicines", h.Catalog.ListMedicines)
	catalog.GET("/medicines/:id", h.Catalog.GetMedicine)
	catalog.GET("/categories", h.Catalog.ListCategories)
	catalog.GET("/categories/:id", h.Catalog.GetCategory)
	catalog.GET("/customers", h.Catalog.ListCustomers)
	catalog.GET("/customers/:id", h.Catalog.GetCustomer)

	medicines := authed.Group("/medicines", handlers.Allow(access.ManageMedicines))
	medicines.POST("", h.Catalog.CreateMedicine)
	medicines.PUT("/:id", h.Catalog.UpdateMedicine)
	medicines.PATCH("/:id/status", h.Catalog.SetMedicineStatus)
	medicines.POST("/:id/images", h.Catalog.UploadMedicineImages)
	medicines.DELETE("/:id/images", h.Catalog.RemoveMedicineImages)
	medicines.DELETE("/:id", h.Catalog.DeleteMedicine)

	categories := authed.Group("/categories", handlers.Allow(access.ManageCategories))
	categories.POST("", h.Catalog.CreateCategory)
	categories.PUT("/:id", h.Catalog.UpdateCategory)
	categories.DELETE("/:id", h.Catalog.DeleteCategory)

	customers := authed.Group("/customers", handlers.Allow(access.ManageCustomers))
	customers.POST("", h.Catalog.CreateCustomer)
	customers.PUT("/:id", h.Catalog.UpdateCustomer)
	customers.DELETE("/:id", h.Catalog.DeleteCustomer)

	history := authed.Group("/", handlers.Allow(access.ViewSales))
	history.GET("/sales", h.Catalog.ListSales)
	history.GET("/sales/:id", h.Catalog.GetSale)
	history.GET("/customers/:id/sales", h.Catalog.ListCustomerSales)
	history.POST("/sales/:id/cancel", handlers.Allow(access.Sell), h.Catalog.CancelSale)

	users := authed.Group("/users", handlers.Allow(access.ManageUsers))
	users.GET("", h.Catalog.ListUsers)
	users.GET("/:id", h.Catalog.GetUser)
	users.POST("", h.Catalog.CreateUser)
	users.PUT("/:id", h.Catalog.UpdateUser)
	users.DELETE("/:id", h.Catalog.DeleteUser)

	stock := authed.Group("/stock", handlers.Allow(access.MoveStock))
	stock.POST("/entry", h.Stock.Entry)
	stock.POST("/exit", h.Stock.Exit)
	stock.GET("/:medicineId", h.Stock.Current)

	alerts := authed.Group("/alerts", handlers.Allow(access.ViewAlerts))
	alerts.GET("", h.Alerts.Dashboard)
	alerts.GET("/history", h.Alerts.History)
	alerts.POST("/refresh", h.Alerts.Refresh)
	alerts.PUT("/:id/read", h.Alerts.MarkRead)

	logs := authed.Group("/logs", handlers.Allow(access.ViewAuditLogs))
	logs.GET("", h.Logs.List)
	logs.POST("/export", h.Logs.Export)
	logs.POST("/publish", h.Logs.Publish)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)

		c.Next()

		logger.Info("request completed",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
