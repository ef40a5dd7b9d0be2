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
	"github.com/mmsoftworks/campusfees_backend/config"
	"github.com/mmsoftworks/campusfees_backend/middlewares"
	"github.com/mmsoftworks/campusfees_backend/models"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
)

const defaultPort = "8080"

var tracer = otel.Tracer("campusfees-backend")

func healthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		dbReady := config.GetDB() != nil
		redisReady := config.GetRedisDB() != nil
		status := "ok"
		code := http.StatusOK
		if !dbReady {
			status = "starting"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":   status,
			"database": dbReady,
			"redis":    redisReady,
		})
	}
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

func registerRoutes(r *gin.Engine) {
	r.GET("/api/health", healthHandler())
	r.POST("/api/login", loginHandler())
	r.POST("/api/logout", logoutHandler())

	api := r.Group("/api", middlewares.RequireSession())
	{
		api.GET("/settings", getSettingsHandler())
		api.GET("/settings/org", getOrgSettingsHandler())
		api.POST("/settings/org", upsertOrgSettingsHandler())
		api.POST("/settings/logo", uploadLogoHandler())

		api.POST("/settings/semester", createCatalogHandler(createSemester))
		api.DELETE("/settings/semester/:id", deleteCatalogHandler(deleteSemester))
		api.POST("/settings/session", createCatalogHandler(createAcademicSession))
		api.DELETE("/settings/session/:id", deleteCatalogHandler(deleteAcademicSession))
		api.POST("/settings/branch", createCatalogHandler(createBranch))
		api.DELETE("/settings/branch/:id", deleteCatalogHandler(deleteBranch))

		staff := api.Group("/settings/staff", middlewares.RequireAdmin())
		{
			staff.POST("", createStaffHandler())
			staff.PUT("/:id", updateStaffHandler())
			staff.DELETE("/:id", deleteStaffHandler())
		}

		api.GET("/fee-plans", listFeePlansHandler())
		api.POST("/fee-plans", createFeePlanHandler())
		api.GET("/fee-plans/:id", getFeePlanHandler())
		api.PUT("/fee-plans/:id", updateFeePlanHandler())
		api.DELETE("/fee-plans/:id", deleteFeePlanHandler())

		api.GET("/students", listStudentsHandler())
		api.POST("/students", enrollStudentHandler())
		api.GET("/students/:id", getStudentHandler())
		api.PUT("/students/:id", updateStudentHandler())
		api.DELETE("/students/:id", deleteStudentHandler())

		api.GET("/transactions", listTransactionsHandler())
		api.POST("/transactions", createTransactionHandler())
		api.GET("/transactions/:id", getTransactionHandler())

		api.GET("/reports/summary", summaryReportHandler())
		api.GET("/reports/ledger", ledgerReportHandler())
		api.GET("/reports/ledger/export-token", ledgerExportTokenHandler())
	}

	// Export is opened from a download link, so the short-lived export
	// token travels as a query parameter instead of the session header.
	r.GET("/api/reports/ledger/export", ledgerExportHandler())
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

	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP so Cloud Run considers the revision healthy.
	// Until the DB is ready, app endpoints return 503.
	r := gin.New()
	r.Use(middlewares.CorrelationMiddleware())
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/api/health" {
			c.Next()
			return
		}
		// Redis is optional; only the DB gates readiness.
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	corsConfig := cors.DefaultConfig()
	// In production, require an explicit allowlist via CORS_ALLOWED_ORIGINS.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(middlewares.SessionMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())
	registerRoutes(r)
	r.NoRoute(customNotFoundHandler)

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
	config.ConnectRedisWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// AutoMigrate can run DDL that blocks tables; allow running it as a
	// separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	if created, err := models.SeedDefaultAdmin(context.Background(), db); err != nil {
		config.LogError(logger, "server.go", "main", "SeedDefaultAdmin", nil, err)
	} else if created {
		logger.WithFields(logrus.Fields{"field": "seed"}).Info("default admin account created")
	}

	// Set the session isolation level to READ COMMITTED
	for attempt := 1; ; attempt++ {
		err := db.Exec("SET SESSION TRANSACTION ISOLATION LEVEL READ COMMITTED").Error
		if err == nil {
			break
		}
		sleep := time.Second * time.Duration(1<<minInt(attempt, 5))
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
		logger.WithFields(logrus.Fields{
			"field":   "database",
			"attempt": attempt,
		}).Warn("failed to set isolation level; retrying in " + sleep.String() + ": " + err.Error())
		time.Sleep(sleep)
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port)
	log.Println("Server started successfully")

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

	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

// customErrorLogger logs only requests that attached errors.
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
