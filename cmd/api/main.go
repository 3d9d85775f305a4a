package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/pawmart/backoffice-backend/api/routes"
	"github.com/pawmart/backoffice-backend/internal/bulk"
	"github.com/pawmart/backoffice-backend/internal/cart"
	"github.com/pawmart/backoffice-backend/internal/catalog"
	"github.com/pawmart/backoffice-backend/internal/certificates"
	"github.com/pawmart/backoffice-backend/internal/coupons"
	"github.com/pawmart/backoffice-backend/internal/inventory"
	"github.com/pawmart/backoffice-backend/internal/media"
	"github.com/pawmart/backoffice-backend/internal/notifications"
	"github.com/pawmart/backoffice-backend/internal/policies"
	"github.com/pawmart/backoffice-backend/internal/wallet"
	"github.com/pawmart/backoffice-backend/internal/wishlist"
	"github.com/pawmart/backoffice-backend/pkg/config"
	"github.com/pawmart/backoffice-backend/pkg/db"
	"github.com/pawmart/backoffice-backend/pkg/logger"
	"github.com/pawmart/backoffice-backend/pkg/migrate"
	"github.com/pawmart/backoffice-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	svcs, err := buildServices(cfg, logg, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, svcs),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client) (routes.Services, error) {
	conn := dbClient.DB()
	catalogRepo := catalog.NewRepository(conn)
	inventoryRepo := inventory.NewRepository(conn)
	cartRepo := cart.NewRepository(conn)
	couponRepo := coupons.NewRepository(conn)
	wishlistRepo := wishlist.NewRepository(conn)
	notificationRepo := notifications.NewRepository(conn)
	walletRepo := wallet.NewRepository(conn)
	policyRepo := policies.NewRepository(conn)
	certificateRepo := certificates.NewRepository(conn)

	catalogSvc, err := catalog.NewService(catalogRepo, dbClient, inventoryRepo)
	if err != nil {
		return routes.Services{}, fmt.Errorf("catalog service: %w", err)
	}
	vocabSvc, err := catalog.NewVocabService(catalogRepo)
	if err != nil {
		return routes.Services{}, fmt.Errorf("vocab service: %w", err)
	}
	inventorySvc, err := inventory.NewService(inventoryRepo, dbClient, catalogRepo, catalogRepo)
	if err != nil {
		return routes.Services{}, fmt.Errorf("inventory service: %w", err)
	}
	reconciler, err := inventory.NewReconciler(inventoryRepo, catalogRepo, dbClient, logg)
	if err != nil {
		return routes.Services{}, fmt.Errorf("inventory reconciler: %w", err)
	}
	bulkSvc, err := bulk.NewService(catalogRepo, reconciler, dbClient, logg, cfg.Uploads.ImportWindow)
	if err != nil {
		return routes.Services{}, fmt.Errorf("bulk service: %w", err)
	}
	cartSvc, err := cart.NewService(cartRepo, dbClient, catalogRepo, couponRepo)
	if err != nil {
		return routes.Services{}, fmt.Errorf("cart service: %w", err)
	}
	wishlistSvc, err := wishlist.NewService(wishlistRepo, catalogRepo)
	if err != nil {
		return routes.Services{}, fmt.Errorf("wishlist service: %w", err)
	}
	couponSvc, err := coupons.NewService(couponRepo)
	if err != nil {
		return routes.Services{}, fmt.Errorf("coupon service: %w", err)
	}
	notificationSvc, err := notifications.NewService(notificationRepo)
	if err != nil {
		return routes.Services{}, fmt.Errorf("notification service: %w", err)
	}
	walletSvc, err := wallet.NewService(walletRepo, dbClient, notificationRepo)
	if err != nil {
		return routes.Services{}, fmt.Errorf("wallet service: %w", err)
	}
	policySvc, err := policies.NewService(policyRepo)
	if err != nil {
		return routes.Services{}, fmt.Errorf("policy service: %w", err)
	}
	certificateSvc, err := certificates.NewService(certificateRepo)
	if err != nil {
		return routes.Services{}, fmt.Errorf("certificate service: %w", err)
	}
	mediaStore, err := media.NewStorage(cfg.Uploads.PublicDir, "/uploads")
	if err != nil {
		return routes.Services{}, fmt.Errorf("media storage: %w", err)
	}

	return routes.Services{
		Catalog:       catalogSvc,
		Vocab:         vocabSvc,
		Inventory:     inventorySvc,
		Bulk:          bulkSvc,
		Cart:          cartSvc,
		Wishlist:      wishlistSvc,
		Coupons:       couponSvc,
		Notifications: notificationSvc,
		Wallet:        walletSvc,
		Policies:      policySvc,
		Certificates:  certificateSvc,
		Media:         mediaStore,
	}, nil
}
