package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pawmart/backoffice-backend/api/controllers"
	"github.com/pawmart/backoffice-backend/api/middleware"
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
	"github.com/pawmart/backoffice-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Catalog       catalog.Service
	Vocab         catalog.VocabService
	Inventory     inventory.Service
	Bulk          bulk.Service
	Cart          cart.Service
	Wishlist      wishlist.Service
	Coupons       coupons.Service
	Notifications notifications.Service
	Wallet        wallet.Service
	Policies      policies.Service
	Certificates  certificates.Service
	Media         *media.Storage
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbClient, redisClient))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Uploaded product images are served straight from the public dir.
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Uploads.PublicDir))))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity(logg))

		r.Route("/brands", func(r chi.Router) {
			r.Get("/", controllers.ListBrands(svcs.Vocab, logg))
			r.Post("/", controllers.CreateBrand(svcs.Vocab, logg))
			r.Put("/{brandId}", controllers.UpdateBrand(svcs.Vocab, logg))
			r.Delete("/{brandId}", controllers.DeleteBrand(svcs.Vocab, logg))
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(svcs.Vocab, logg))
			r.Post("/", controllers.CreateCategory(svcs.Vocab, logg))
			r.Put("/{categoryId}", controllers.UpdateCategory(svcs.Vocab, logg))
			r.Delete("/{categoryId}", controllers.DeleteCategory(svcs.Vocab, logg))
		})
		r.Route("/special-categories", func(r chi.Router) {
			r.Get("/", controllers.ListSpecialCategories(svcs.Vocab, logg))
			r.Post("/", controllers.CreateSpecialCategory(svcs.Vocab, logg))
		})
		r.Route("/tags", func(r chi.Router) {
			r.Get("/", controllers.ListTags(svcs.Vocab, logg))
			r.Post("/", controllers.CreateTag(svcs.Vocab, logg))
			r.Delete("/{tagId}", controllers.DeleteTag(svcs.Vocab, logg))
		})
		r.Route("/variants", func(r chi.Router) {
			r.Get("/", controllers.ListVariants(svcs.Vocab, logg))
			r.Post("/", controllers.CreateVariant(svcs.Vocab, logg))
		})
		r.Route("/cities", func(r chi.Router) {
			r.Get("/", controllers.ListCities(svcs.Vocab, logg))
			r.Post("/", controllers.CreateCity(svcs.Vocab, logg))
		})
		r.Route("/warehouses", func(r chi.Router) {
			r.Get("/", controllers.ListWarehouses(svcs.Vocab, logg))
			r.Post("/", controllers.CreateWarehouse(svcs.Vocab, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svcs.Catalog, logg))
			r.Post("/", controllers.CreateProduct(svcs.Catalog, logg))
			r.Get("/{productId}", controllers.GetProduct(svcs.Catalog, logg))
			r.Patch("/{productId}", controllers.UpdateProduct(svcs.Catalog, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(svcs.Catalog, logg))
			r.Post("/{productId}/images", controllers.UploadProductImages(svcs.Catalog, svcs.Media, cfg.Uploads, logg))
		})
		r.Route("/special-products", func(r chi.Router) {
			r.Get("/", controllers.ListSpecialProducts(svcs.Catalog, logg))
			r.Post("/", controllers.CreateSpecialProduct(svcs.Catalog, logg))
			r.Get("/{productId}", controllers.GetSpecialProduct(svcs.Catalog, logg))
			r.Patch("/{productId}", controllers.UpdateSpecialProduct(svcs.Catalog, logg))
			r.Delete("/{productId}", controllers.DeleteSpecialProduct(svcs.Catalog, logg))
			r.Post("/{productId}/images", controllers.UploadSpecialProductImages(svcs.Catalog, svcs.Media, cfg.Uploads, logg))
		})

		r.Route("/bulk", func(r chi.Router) {
			r.Post("/products/import", controllers.ImportProductsCSV(svcs.Bulk, cfg.Uploads, logg))
			r.Post("/inventory/import", controllers.ImportInventoryCSV(svcs.Bulk, cfg.Uploads, logg))
			r.Get("/products/export", controllers.ExportProductsCSV(svcs.Bulk, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.ListInventory(svcs.Inventory, logg))
			r.Post("/", controllers.CreateInventoryRecord(svcs.Inventory, logg))
			r.Get("/{recordId}", controllers.GetInventoryRecord(svcs.Inventory, logg))
			r.Patch("/{recordId}", controllers.UpdateInventoryRecord(svcs.Inventory, logg))
			r.Delete("/{recordId}", controllers.DeleteInventoryRecord(svcs.Inventory, logg))
			r.Post("/{recordId}/add-stock", controllers.AddStock(svcs.Inventory, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(svcs.Cart, logg))
			r.Post("/items", controllers.CartAddItem(svcs.Cart, logg))
			r.Patch("/items", controllers.CartUpdateItem(svcs.Cart, logg))
			r.Post("/items/remove", controllers.CartRemoveItem(svcs.Cart, logg))
			r.Delete("/", controllers.CartClear(svcs.Cart, logg))
			r.Post("/coupon", controllers.CartApplyCoupon(svcs.Cart, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistList(svcs.Wishlist, logg))
			r.Post("/", controllers.WishlistAdd(svcs.Wishlist, logg))
			r.Post("/remove", controllers.WishlistRemove(svcs.Wishlist, logg))
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", controllers.ListCoupons(svcs.Coupons, logg))
			r.Post("/", controllers.CreateCoupon(svcs.Coupons, logg))
			r.Get("/{couponId}", controllers.GetCoupon(svcs.Coupons, logg))
			r.Patch("/{couponId}", controllers.UpdateCoupon(svcs.Coupons, logg))
			r.Delete("/{couponId}", controllers.DeleteCoupon(svcs.Coupons, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Post("/", controllers.CreateNotification(svcs.Notifications, logg))
			r.Get("/admin", controllers.ListAdminNotifications(svcs.Notifications, logg))
			r.Get("/me", controllers.ListCustomerNotifications(svcs.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Post("/admin/read-all", controllers.MarkAllAdminNotificationsRead(svcs.Notifications, logg))
			r.Post("/me/read-all", controllers.MarkAllCustomerNotificationsRead(svcs.Notifications, logg))
		})

		r.Route("/wallet/requests", func(r chi.Router) {
			r.Get("/", controllers.WalletList(svcs.Wallet, logg))
			r.Post("/", controllers.WalletSubmit(svcs.Wallet, logg))
			r.Post("/{requestId}/approve", controllers.WalletApprove(svcs.Wallet, logg))
			r.Post("/{requestId}/reject", controllers.WalletReject(svcs.Wallet, logg))
		})

		r.Route("/policies", func(r chi.Router) {
			r.Get("/", controllers.ListPolicies(svcs.Policies, logg))
			r.Post("/", controllers.CreatePolicy(svcs.Policies, logg))
			r.Get("/slug/{slug}", controllers.GetPolicyBySlug(svcs.Policies, logg))
			r.Put("/{policyId}", controllers.UpdatePolicy(svcs.Policies, logg))
			r.Delete("/{policyId}", controllers.DeletePolicy(svcs.Policies, logg))
		})

		r.Route("/certificates", func(r chi.Router) {
			r.Get("/", controllers.CertificateList(svcs.Certificates, logg))
			r.Post("/", controllers.CertificateSubmit(svcs.Certificates, logg))
			r.Post("/{requestId}/decision", controllers.CertificateDecide(svcs.Certificates, logg))
		})
	})

	return r
}
