package main

import (
	"context"
	"errors"
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

	"github.com/greatlakespos/pricebook_backend/config"
	"github.com/greatlakespos/pricebook_backend/models"
	"github.com/greatlakespos/pricebook_backend/utils"
)

const defaultPort = "8080"

// app carries the process-wide stores. They are constructed once in main and
// injected into the handlers, so tests can build isolated instances.
type app struct {
	logger   *logrus.Logger
	catalog  *models.Catalog
	sessions *models.SessionStore
	names    *models.CustomNameRegistry
}

func newApp(logger *logrus.Logger) *app {
	return &app{
		logger:   logger,
		catalog:  models.NewCatalog(),
		sessions: models.NewSessionStore(),
		names:    models.NewCustomNameRegistry(),
	}
}

func (a *app) routes(r *gin.Engine) {
	r.POST("/pricebook/upload", a.uploadPriceBookHandler())
	r.POST("/pricebook/fetch", a.fetchPriceBookHandler())
	r.GET("/pricebook/stats", a.priceBookStatsHandler())
	r.GET("/pricebook/export", a.exportCatalogHandler())
	r.GET("/pricebook/search", a.searchCatalogHandler())

	r.POST("/scan", a.scanHandler())

	r.GET("/sessions", a.listSessionsHandler())
	r.POST("/sessions", a.createSessionHandler())
	r.GET("/sessions/active", a.activeSessionHandler())
	r.POST("/sessions/:id/activate", a.activateSessionHandler())
	r.DELETE("/sessions/:id", a.deleteSessionHandler())

	r.GET("/sessions/:id/items", a.listItemsHandler())
	r.POST("/sessions/:id/items", a.addItemHandler())
	r.POST("/sessions/:id/items/clear", a.clearItemsHandler())
	r.DELETE("/items/:id", a.deleteItemHandler())
	r.PUT("/items/:id/price", a.updateItemPriceHandler())

	r.POST("/custom-names/upload", a.uploadCustomNamesHandler())
	r.GET("/custom-names", a.listCustomNamesHandler())
	r.DELETE("/custom-names", a.clearCustomNamesHandler())

	r.GET("/sessions/:id/export/xlsx", a.exportSessionXlsxHandler())
	r.GET("/sessions/:id/export/pos-csv", a.exportSessionPOSCSVHandler())
	r.GET("/sessions/:id/export/labels", a.exportSessionLabelsHandler())
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

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

func main() {
	port := config.GetEnvDefault("PORT", defaultPort)
	logger := config.GetLogger()

	// Shutdown coordination: handle SIGTERM for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	a := newApp(logger)

	// Scanning needs an active session from the first request.
	a.sessions.CreateSession(models.DefaultSessionName())

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
	r.Use(customErrorLogger(logger))

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// In production require an explicit allowlist; allow all in development.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(config.GetEnvDefault("GO_ENV", ""), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	r.Use(cors.New(corsConfig))

	a.routes(r)
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

	logger.WithFields(logrus.Fields{
		"port": port,
	}).Info("price book backend listening")

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	// Drain HTTP requests.
	shutdownTimeout := 30 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only log when there are errors
		if len(c.Errors) > 0 {
			cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
			logger.WithFields(logrus.Fields{
				"correlationId": cid,
			}).Error(c.Errors.String())
		}
	}
}
