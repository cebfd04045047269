package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	catalogadapters "go-shop/internal/catalog/adapters"
	catalogapp "go-shop/internal/catalog/application"
	cataloghttp "go-shop/internal/catalog/infrastructure"
	catalogports "go-shop/internal/catalog/ports"
	couponadapters "go-shop/internal/coupons/adapters"
	couponapp "go-shop/internal/coupons/application"
	couponhttp "go-shop/internal/coupons/infrastructure"
	orderadapters "go-shop/internal/orders/adapters"
	orderapp "go-shop/internal/orders/application"
	orderhttp "go-shop/internal/orders/infrastructure"
	orderports "go-shop/internal/orders/ports"
	useradapters "go-shop/internal/users/adapters"
	userapp "go-shop/internal/users/application"
	userhttp "go-shop/internal/users/infrastructure"
	"go-shop/pkg/config"
	"go-shop/pkg/db"
	"go-shop/pkg/events"
	"go-shop/pkg/logger"
	"go-shop/pkg/metrics"
	"go-shop/pkg/middleware"
	"go-shop/pkg/rabbitmq"
	tlspkg "go-shop/pkg/tls"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log := logger.New(cfg.ServiceName, cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	log.Info("starting shop api")

	// Connect to database
	dbConn, err := db.NewConnection(db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
		Timeout:  cfg.DBTimeout,
	})
	if err != nil {
		log.Fatal("failed to connect to database: " + err.Error())
	}
	log.Info("connected to database")

	// Initialize repositories and run migrations
	productRepo := catalogadapters.NewPostgresProductRepository(dbConn)
	couponRepo := couponadapters.NewPostgresCouponRepository(dbConn)
	orderRepo := orderadapters.NewPostgresOrderRepository(dbConn)
	userRepo := useradapters.NewPostgresUserRepository(dbConn)
	sessionRepo := useradapters.NewPostgresSessionRepository(dbConn)

	for _, migrate := range []func() error{
		productRepo.Migrate,
		couponRepo.Migrate,
		orderRepo.Migrate,
		userRepo.Migrate,
		sessionRepo.Migrate,
	} {
		if err := migrate(); err != nil {
			log.Fatal("failed to migrate database: " + err.Error())
		}
	}

	// Connect to RabbitMQ; stock notifications are best-effort, so a
	// missing broker degrades to no notifications instead of failing boot.
	var stockNotifier *catalogadapters.RabbitMQStockNotifier
	rabbitConn, err := rabbitmq.NewConnection(cfg.RabbitMQURL, log)
	if err != nil {
		log.Warn("failed to connect to RabbitMQ, stock notifications disabled: " + err.Error())
	} else {
		defer rabbitConn.Close()

		pub, err := rabbitmq.NewPublisher(rabbitConn, events.ExchangeStock, log)
		if err != nil {
			log.Warn("failed to create publisher: " + err.Error())
		} else {
			stockNotifier = catalogadapters.NewRabbitMQStockNotifier(pub, log)
		}
	}

	// Metrics
	shopMetrics := metrics.New()

	// Initialize use cases
	productUseCase := catalogapp.NewProductUseCase(productRepo, notifierOrNil(stockNotifier), log)
	couponUseCase := couponapp.NewCouponUseCase(couponRepo, log)
	userUseCase := userapp.NewUserUseCase(userRepo, sessionRepo, cfg.TokenTTL, log)

	orderUseCase := orderapp.NewOrderUseCase(
		orderRepo,
		orderadapters.NewCatalogStoreAdapter(productRepo),
		orderadapters.NewCouponStoreAdapter(couponRepo),
		publisherOrNil(stockNotifier),
		orderadapters.NewUserDirectoryAdapter(userRepo),
		orderadapters.NewPDFInvoiceRenderer(),
		shopMetrics,
		cfg.StockRetryAttempts,
		cfg.StockRetryDelay,
		log,
	)

	// HTTP server
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.TraceID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.Metrics(shopMetrics))
	router.Use(middleware.CORS())

	auth := middleware.Auth(userUseCase)
	admin := middleware.RequireAdmin()

	api := router.Group("/api/v1")
	userhttp.NewHTTPHandler(userUseCase).RegisterRoutes(api, auth)
	cataloghttp.NewHTTPHandler(productUseCase).RegisterRoutes(api.Group("", auth), admin)
	couponhttp.NewHTTPHandler(couponUseCase).RegisterRoutes(api.Group("", auth), admin)
	orderhttp.NewHTTPHandler(orderUseCase).RegisterRoutes(api.Group("", auth), admin)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
	}

	go func() {
		if cfg.TLSEnabled {
			tlsConfig, err := tlspkg.ServerConfig(cfg.TLSCertFile, cfg.TLSKeyFile)
			if err != nil {
				log.Fatal("failed to load TLS config: " + err.Error())
			}
			httpServer.Addr = ":" + cfg.HTTPSPort
			httpServer.TLSConfig = tlsConfig

			log.Info("HTTPS server listening on :" + cfg.HTTPSPort)
			if err := httpServer.ListenAndServeTLS("", ""); err != nil && err != http.ErrServerClosed {
				log.Fatal("HTTPS server error: " + err.Error())
			}
			return
		}

		log.Info("HTTP server listening on :" + cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error: " + err.Error())
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown error: " + err.Error())
	}

	log.Info("server stopped")
}

// notifierOrNil avoids handing a typed nil to the catalog use case
func notifierOrNil(n *catalogadapters.RabbitMQStockNotifier) catalogports.StockNotifier {
	if n == nil {
		return nil
	}
	return n
}

// publisherOrNil avoids handing a typed nil to the order use case
func publisherOrNil(n *catalogadapters.RabbitMQStockNotifier) orderports.StockPublisher {
	if n == nil {
		return nil
	}
	return n
}
