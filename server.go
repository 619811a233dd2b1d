package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vshopvn/banhang_backend/config"
	"github.com/vshopvn/banhang_backend/handlers"
	"github.com/vshopvn/banhang_backend/middlewares"
	"github.com/vshopvn/banhang_backend/models"
	"github.com/vshopvn/banhang_backend/utils"
)

const defaultPort = "8080"

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})

	corsConfig := cors.DefaultConfig()
	// In production require an explicit allowlist via CORS_ALLOWED_ORIGINS
	// (comma separated); elsewhere allow all for developer convenience.
	if strings.EqualFold(os.Getenv("GO_ENV"), "production") {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.POST("/auth/login", handlers.Login)

	api := r.Group("/api", middlewares.AuthMiddleware())
	{
		api.GET("/me", handlers.Me)

		api.GET("/products", handlers.ListProducts)
		api.POST("/products", handlers.CreateProduct)
		api.GET("/products/:id", handlers.GetProduct)
		api.PUT("/products/:id", handlers.UpdateProduct)
		api.DELETE("/products/:id", handlers.DeleteProduct)

		api.GET("/materials", handlers.ListMaterials)
		api.POST("/materials", handlers.CreateMaterial)
		api.GET("/materials/:id", handlers.GetMaterial)
		api.PUT("/materials/:id", handlers.UpdateMaterial)
		api.DELETE("/materials/:id", handlers.DeleteMaterial)

		api.GET("/customers", handlers.ListCustomers)
		api.POST("/customers", handlers.CreateCustomer)
		api.GET("/customers/:id", handlers.GetCustomer)
		api.PUT("/customers/:id", handlers.UpdateCustomer)
		api.DELETE("/customers/:id", handlers.DeleteCustomer)

		api.GET("/invoices", handlers.ListInvoices)
		api.POST("/invoices", handlers.CreateInvoice)
		api.GET("/invoices/:id", handlers.GetInvoice)
		api.PUT("/invoices/:id", handlers.UpdateInvoice)
		api.POST("/invoices/:id/pay", handlers.PayInvoice)
		api.POST("/invoices/:id/cancel", handlers.CancelInvoice)
		api.DELETE("/invoices/:id", handlers.DeleteInvoice)

		api.GET("/purchases", handlers.ListPurchases)
		api.POST("/purchases", handlers.CreatePurchase)
		api.GET("/purchases/:id", handlers.GetPurchase)
		api.PUT("/purchases/:id", handlers.UpdatePurchase)
		api.DELETE("/purchases/:id", handlers.DeletePurchase)

		api.GET("/cashflows", handlers.ListCashFlows)
		api.POST("/cashflows", handlers.CreateCashFlow)
		api.GET("/cashflows/:id", handlers.GetCashFlow)
		api.PUT("/cashflows/:id", handlers.UpdateCashFlow)
		api.DELETE("/cashflows/:id", handlers.DeleteCashFlow)

		api.GET("/reports/revenue", handlers.RevenueReport)
		api.GET("/reports/revenue/export", handlers.ExportRevenueExcel)
		api.GET("/reports/profit", handlers.ProfitReport)
		api.GET("/reports/summary", handlers.BusinessSummary)

		admin := api.Group("/users", middlewares.AdminOnly())
		{
			admin.GET("", handlers.ListUsers)
			admin.POST("", handlers.CreateUser)
			admin.GET("/:id", handlers.GetUser)
			admin.PUT("/:id", handlers.UpdateUser)
			admin.DELETE("/:id", handlers.DeleteUser)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "không tìm thấy đường dẫn"})
	})
	return r
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	r := setupRouter()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// AutoMigrate can run DDL that blocks tables; allow running migrations as
	// a separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	log.Println("Server started successfully on port " + port)

	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}
}
