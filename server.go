package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mmautosoft/dealership_backend/config"
	"github.com/mmautosoft/dealership_backend/middlewares"
	"github.com/mmautosoft/dealership_backend/models"
	"github.com/mmautosoft/dealership_backend/sheet"
	"github.com/mmautosoft/dealership_backend/utils"
)

const defaultPort = "8080"

func newRouter(logger *logrus.Logger, getStore func() sheet.Client, getStorage func() *config.StorageConfig) *gin.Engine {
	r := gin.New()

	// Correlation IDs: generate once per request and echo back.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Set("correlationId", cid)
		c.Header("x-correlation-id", cid)
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		// Always allow the startup probe.
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		// Gate API endpoints on store readiness.
		if getStore() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// Production-safe CORS: explicit allowlist via CORS_ALLOWED_ORIGINS
	// in production, allow-all otherwise.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = utils.SplitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	r.POST("/api/auth/login", loginHandler())

	api := r.Group("/api", middlewares.AuthMiddleware())
	api.GET("/cars", listCarsHandler(getStore))
	api.GET("/cars/available", availableCarsHandler(getStore))
	api.GET("/cars/:id", getCarHandler(getStore))

	api.GET("/repairs", listRepairsHandler(getStore))
	api.GET("/repairs/:id", getRepairHandler(getStore))

	api.GET("/sales", listSalesHandler(getStore))
	api.GET("/sales/:id", getSaleHandler(getStore))

	api.GET("/rentals", listRentalsHandler(getStore))
	api.GET("/rentals/:id", getRentalHandler(getStore))

	api.GET("/partners", partnersHandler(getStore))
	api.GET("/recent-entries", recentEntriesHandler(getStore))
	api.GET("/dashboard", dashboardHandler(getStore))

	// Writes need the admin role; viewer tokens are read-only.
	admin := api.Group("", middlewares.RequireAdmin())
	admin.POST("/cars", createCarHandler(getStore, getStorage))
	admin.PUT("/cars/:id", updateCarHandler(getStore, getStorage))
	admin.POST("/repairs", createRepairHandler(getStore))
	admin.PUT("/repairs/:id", updateRepairHandler(getStore))
	admin.POST("/sales", createSaleHandler(getStore))
	admin.PUT("/sales/:id", updateSaleHandler(getStore))
	admin.POST("/rentals", createRentalHandler(getStore))
	admin.PUT("/rentals/:id", updateRentalHandler(getStore))

	r.NoRoute(customNotFoundHandler)
	return r
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

// customErrorLogger logs only requests that collected errors.
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Cloud Run sends SIGTERM on revision shutdown; handle it for a
	// graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Written once here, read by serving goroutines.
	var storageCfg atomic.Pointer[config.StorageConfig]
	r := newRouter(logger, config.GetStore, storageCfg.Load)

	// Start listening immediately; the readiness gate returns 503 until
	// the store is open.
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	// Open dependencies after the port is open.
	config.OpenStoreWithRetry(models.AllSchemas())

	// Blob storage is optional at startup: record traffic still works,
	// upload endpoints report it as unconfigured.
	initCtx, cancelInit := context.WithTimeout(context.Background(), time.Minute)
	if cfg, err := config.InitStorage(initCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "storage"}).Warn("blob storage unavailable: " + err.Error())
	} else {
		storageCfg.Store(cfg)
	}
	cancelInit()

	logger.WithFields(logrus.Fields{
		"info": "store ready",
	}).Info("listening on http://localhost:", port, "/")

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

	if x, ok := config.GetStore().(*sheet.XLSXStore); ok {
		_ = x.Close()
	}
}
