package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/apmw/freshbrand-backend/api/routes"
	"github.com/apmw/freshbrand-backend/internal/auth"
	"github.com/apmw/freshbrand-backend/internal/cart"
	"github.com/apmw/freshbrand-backend/internal/catalog"
	"github.com/apmw/freshbrand-backend/internal/designs"
	"github.com/apmw/freshbrand-backend/internal/orders"
	"github.com/apmw/freshbrand-backend/internal/payments"
	"github.com/apmw/freshbrand-backend/internal/users"
	"github.com/apmw/freshbrand-backend/pkg/auth/session"
	"github.com/apmw/freshbrand-backend/pkg/config"
	"github.com/apmw/freshbrand-backend/pkg/db"
	"github.com/apmw/freshbrand-backend/pkg/logger"
	"github.com/apmw/freshbrand-backend/pkg/metrics"
	"github.com/apmw/freshbrand-backend/pkg/migrate"
	"github.com/apmw/freshbrand-backend/pkg/pubsub"
	"github.com/apmw/freshbrand-backend/pkg/razorpay"
	"github.com/apmw/freshbrand-backend/pkg/redis"
	"github.com/apmw/freshbrand-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := context.Background()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap cloud storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(ctx, "error closing cloud storage", err)
		}
	}()
	assetBucket := gcsClient.BucketHandle(gcsClient.DefaultBucket())

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(ctx, "error closing pubsub", err)
		}
	}()

	razorpayClient, err := razorpay.NewClient(ctx, cfg.Razorpay, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap razorpay", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	productRepo := catalog.NewRepository(dbClient.DB())
	designRepo := designs.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(userRepo)
	if err != nil {
		logg.Error(ctx, "failed to create users service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Repo:   productRepo,
		Images: assetBucket,
	})
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		Repo:     cartRepo,
		Products: productRepo,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cart service", err)
		os.Exit(1)
	}

	designsService, err := designs.NewService(designs.ServiceParams{
		Repo:  designRepo,
		Logos: assetBucket,
	})
	if err != nil {
		logg.Error(ctx, "failed to create designs service", err)
		os.Exit(1)
	}

	orderEvents, err := orders.NewPubSubPublisher(pubsubClient.OrdersPublisher())
	if err != nil {
		logg.Error(ctx, "failed to create order event publisher", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		TxRunner: dbClient,
		Repo:     orderRepo,
		Carts:    cartRepo,
		Users:    userRepo,
		Products: productRepo,
		Designs:  designRepo,
		Events:   orderEvents,
		Metrics:  metrics.NewOrderMetrics(prometheus.DefaultRegisterer),
		Logger:   logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create orders service", err)
		os.Exit(1)
	}

	paymentsService, err := payments.NewService(payments.ServiceParams{
		Orders:  ordersService,
		Gateway: razorpayClient,
		Users:   userRepo,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create payments service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			Storage:     gcsClient,
			Sessions:    sessionManager,
			HTTPMetrics: httpMetrics,
			Auth:        authService,
			Catalog:     catalogService,
			Cart:        cartService,
			Orders:      ordersService,
			Payments:    paymentsService,
			Designs:     designsService,
			Users:       usersService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
