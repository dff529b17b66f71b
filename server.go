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

	"github.com/Techno-SamXa/Fungus-sub000/config"
	"github.com/Techno-SamXa/Fungus-sub000/middlewares"
	"github.com/Techno-SamXa/Fungus-sub000/models"
	"github.com/Techno-SamXa/Fungus-sub000/utils"
)

const defaultPort = "8080"

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func newRouter(provider middlewares.IdentityProvider) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.HandleMethodNotAllowed = true

	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Header("x-correlation-id", cid)
		c.Next()
	})
	r.Use(customErrorLogger(config.GetLogger()))

	corsConfig := cors.DefaultConfig()
	// In production, require an explicit allowlist via CORS_ALLOWED_ORIGINS.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
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
	corsConfig.AddExposeHeaders("Content-Length")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	r.GET("/health", healthHandler)
	r.POST("/auth/login", loginHandler)
	r.Static("/uploads", utils.UploadDir())

	api := r.Group("/", middlewares.AuthMiddleware(provider))
	{
		api.GET("/auth/me", meHandler)

		// Family routes take the id as a path segment or, on the bare
		// collection path, as ?id=.
		api.GET("/compras", listComprasHandler)
		api.POST("/compras", createCompraHandler)
		api.PUT("/compras", updateCompraHandler)
		api.DELETE("/compras", deleteCompraHandler)
		api.GET("/compras/:id", getCompraHandler)
		api.PUT("/compras/:id", updateCompraHandler)
		api.DELETE("/compras/:id", deleteCompraHandler)

		api.GET("/ventas", listVentasHandler)
		api.POST("/ventas", createVentaHandler)
		api.PUT("/ventas", updateVentaHandler)
		api.DELETE("/ventas", deleteVentaHandler)
		api.GET("/ventas/export", exportVentasHandler)
		api.GET("/ventas/:id", getVentaHandler)
		api.PUT("/ventas/:id", updateVentaHandler)
		api.DELETE("/ventas/:id", deleteVentaHandler)

		api.GET("/cotizaciones", listCotizacionesHandler)
		api.POST("/cotizaciones", createCotizacionHandler)
		api.PUT("/cotizaciones", updateCotizacionHandler)
		api.DELETE("/cotizaciones", deleteCotizacionHandler)
		api.GET("/cotizaciones/:id", getCotizacionHandler)
		api.PUT("/cotizaciones/:id", updateCotizacionHandler)
		api.DELETE("/cotizaciones/:id", deleteCotizacionHandler)

		api.GET("/productos", listProductosHandler)
		api.POST("/productos", createProductoHandler)
		api.GET("/productos/:id", getProductoHandler)
		api.PUT("/productos/:id", updateProductoHandler)
		api.DELETE("/productos/:id", deleteProductoHandler)

		api.GET("/insumos", listInsumosHandler)
		api.POST("/insumos", createInsumoHandler)
		api.GET("/insumos/:id", getInsumoHandler)
		api.PUT("/insumos/:id", updateInsumoHandler)
		api.DELETE("/insumos/:id", deleteInsumoHandler)

		api.GET("/clientes", listClientesHandler)
		api.POST("/clientes", createClienteHandler)
		api.GET("/clientes/:id", getClienteHandler)
		api.PUT("/clientes/:id", updateClienteHandler)
		api.DELETE("/clientes/:id", deleteClienteHandler)

		api.GET("/proveedores", listProveedoresHandler)
		api.POST("/proveedores", createProveedorHandler)
		api.GET("/proveedores/:id", getProveedorHandler)
		api.PUT("/proveedores/:id", updateProveedorHandler)
		api.DELETE("/proveedores/:id", deleteProveedorHandler)

		api.POST("/uploads/imagen", uploadImagenHandler)
	}

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

	r := newRouter(middlewares.NewIdentityProvider())

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
	// AutoMigrate can run DDL that blocks tables; allow running it as a
	// separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port, "/")
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
}

// customErrorLogger logs only requests that failed.
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}
		fields := logrus.Fields{
			"status": status,
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}
		if username, ok := utils.GetUsernameFromContext(c.Request.Context()); ok {
			fields["user"] = username
		}
		if role, ok := utils.GetRoleFromContext(c.Request.Context()); ok {
			fields["role"] = role
		}
		entry := logger.WithFields(fields)
		if len(c.Errors) > 0 {
			entry.Error(c.Errors.String())
			return
		}
		entry.Warn("request failed")
	}
}

func healthHandler(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	sqlDB, err := db.DB()
	if err != nil || sqlDB.Ping() != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
