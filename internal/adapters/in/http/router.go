// internal/adapters/in/http/router.go
package httpin

import (
	"net/http"

	usecase "simo/internal/application/usecase"
	custdom "simo/internal/domain/customer"
	productdom "simo/internal/domain/product"

	"simo/internal/adapters/in/http/handlers"
	"simo/internal/adapters/in/http/middleware"
)

// RouterDeps collects everything injected from the DI container.
type RouterDeps struct {
	CartUC     *usecase.CartUsecase
	CheckoutUC *usecase.CheckoutUsecase
	OrderUC    *usecase.OrderUsecase
	CouponUC   *usecase.CouponUsecase
	ZoneUC     *usecase.DeliveryZoneUsecase
	ReportUC   *usecase.ReportUsecase

	Products  productdom.Repository
	Customers custdom.Repository

	Auth *middleware.AuthMiddleware
}

// NewRouter sets up HTTP routing for the storefront and back office.
//
// Three tiers:
//   - public:        catalog and delivery zones
//   - authenticated: cart, checkout, own orders, own profile, coupon check
//   - admin:         order management, coupon/zone CRUD, reports
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	// Health check (always on)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	authed := func(h http.Handler) http.Handler {
		return deps.Auth.Handler(h)
	}
	admin := func(h http.Handler) http.Handler {
		return deps.Auth.Handler(middleware.RequireAdmin(h))
	}

	// Public storefront reads
	if deps.Products != nil {
		h := handlers.NewProductHandler(deps.Products)
		mux.Handle("/shop/products", h)
		mux.Handle("/shop/products/", h)
	}
	if deps.ZoneUC != nil {
		mux.Handle("/shop/delivery-zones", handlers.NewZoneHandler(deps.ZoneUC))
	}

	// Authenticated storefront
	if deps.CartUC != nil {
		h := authed(handlers.NewCartHandler(deps.CartUC))
		mux.Handle("/shop/cart", h)
		mux.Handle("/shop/cart/", h)
	}
	if deps.CheckoutUC != nil {
		mux.Handle("/shop/checkout", authed(handlers.NewCheckoutHandler(deps.CheckoutUC)))
	}
	if deps.OrderUC != nil {
		h := authed(handlers.NewOrderHandler(deps.OrderUC))
		mux.Handle("/shop/orders", h)
		mux.Handle("/shop/orders/", h)
	}
	if deps.CouponUC != nil {
		mux.Handle("/shop/coupons/validate", authed(handlers.NewCouponHandler(deps.CouponUC)))
	}
	if deps.Customers != nil {
		mux.Handle("/shop/me", authed(handlers.NewCustomerHandler(deps.Customers)))
	}

	// Back office
	if deps.OrderUC != nil {
		h := admin(handlers.NewAdminOrderHandler(deps.OrderUC))
		mux.Handle("/admin/orders", h)
		mux.Handle("/admin/orders/", h)
	}
	if deps.CouponUC != nil {
		h := admin(handlers.NewAdminCouponHandler(deps.CouponUC))
		mux.Handle("/admin/coupons", h)
		mux.Handle("/admin/coupons/", h)
	}
	if deps.ZoneUC != nil {
		h := admin(handlers.NewAdminZoneHandler(deps.ZoneUC))
		mux.Handle("/admin/delivery-zones", h)
		mux.Handle("/admin/delivery-zones/", h)
	}
	if deps.Customers != nil {
		mux.Handle("/admin/customers", admin(handlers.NewAdminCustomerHandler(deps.Customers)))
	}
	if deps.ReportUC != nil {
		h := admin(handlers.NewReportHandler(deps.ReportUC))
		mux.Handle("/admin/stats", h)
		mux.Handle("/admin/reports/", h)
	}

	// Panic recovery innermost response writer, CORS outermost.
	return middleware.CORS(middleware.Recover(mux))
}
