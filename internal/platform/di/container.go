// internal/platform/di/container.go
package di

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	firebase "firebase.google.com/go/v4"

	httpin "simo/internal/adapters/in/http"
	"simo/internal/adapters/in/http/middleware"
	outfs "simo/internal/adapters/out/firestore"
	"simo/internal/adapters/out/mail"
	outpg "simo/internal/adapters/out/postgres"
	usecase "simo/internal/application/usecase"
	"simo/internal/infra/config"
	"simo/internal/infra/database"
	firestoreinfra "simo/internal/infra/firestore"
	"simo/internal/infra/secrets"
)

// Container bundles everything main.go needs: the root handler plus the
// resources to close on shutdown.
type Container struct {
	Handler http.Handler

	fs *firestoreinfra.ClientWrapper
	db *database.DB
}

// Close releases outbound connections. Safe on a partially built container.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.db != nil {
		_ = c.db.Close()
	}
	if c.fs != nil {
		return c.fs.Close()
	}
	return nil
}

// Build wires config -> clients -> repositories -> usecases -> router.
//
// Firestore is strict: no document store, no service. Postgres, SendGrid and
// Firebase Auth are best-effort; a missing piece degrades the feature and
// logs, it does not block boot.
func Build(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{}

	// 1. Firestore (strict)
	fs, err := firestoreinfra.NewClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("di: firestore init: %w", err)
	}
	c.fs = fs

	// 2. Firebase Auth (best-effort; authed routes answer 503 until present)
	var authClient *middleware.FirebaseAuthClient
	{
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID})
		if err != nil {
			log.Printf("[di] WARN: firebase app init failed: %v", err)
		} else if authClient, err = app.Auth(ctx); err != nil {
			authClient = nil
			log.Printf("[di] WARN: firebase auth init failed: %v", err)
		}
	}

	// 3. Repositories
	carts := outfs.NewCartRepositoryFS(fs.Client)
	products := outfs.NewProductRepositoryFS(fs.Client)
	coupons := outfs.NewCouponRepositoryFS(fs.Client)
	zones := outfs.NewDeliveryZoneRepositoryFS(fs.Client)
	customers := outfs.NewCustomerRepositoryFS(fs.Client)
	orders := outfs.NewOrderRepositoryFS(fs.Client)
	checkoutStore := outfs.NewCheckoutStoreFS(fs.Client)

	// 4. Reporting archive (best-effort)
	var reportStore usecase.ReportStore = noopReportStore{}
	var archiver usecase.OrderArchiver
	if cfg.PostgresEnabled() {
		db, err := database.NewConnection(
			cfg.PostgresHost, cfg.PostgresPort,
			cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB,
		)
		if err != nil {
			log.Printf("[di] WARN: postgres init failed, reports disabled: %v", err)
		} else {
			c.db = db
			archive := outpg.NewOrderArchivePG(db.Client)
			if err := archive.EnsureSchema(ctx); err != nil {
				log.Printf("[di] WARN: archive schema: %v", err)
			}
			reportStore = archive
			archiver = archive
		}
	} else {
		log.Printf("[di] INFO: POSTGRES_HOST not set, sales reports disabled")
	}

	// 5. Confirmation mail (best-effort)
	var mailer usecase.ConfirmationMailer
	if cfg.MailEnabled() {
		apiKey := cfg.SendGridAPIKey
		if apiKey == "" {
			key, err := secrets.FetchSendGridKey(ctx, cfg.FirestoreProjectID, cfg.SendGridSecretName)
			if err != nil {
				log.Printf("[di] WARN: sendgrid key fetch failed, mail disabled: %v", err)
			} else {
				apiKey = key
			}
		}
		if apiKey != "" {
			mailer = mail.NewOrderMailer(mail.NewSendGridClient(apiKey), cfg.SendGridFrom)
		}
	} else {
		log.Printf("[di] INFO: no SendGrid credentials, confirmation mail disabled")
	}

	// 6. Usecases
	cartUC := usecase.NewCartUsecase(carts, products)
	couponUC := usecase.NewCouponUsecase(coupons)
	zoneUC := usecase.NewDeliveryZoneUsecase(zones)
	orderUC := usecase.NewOrderUsecase(orders)
	reportUC := usecase.NewReportUsecase(reportStore, orders, products, customers)

	checkoutUC := usecase.NewCheckoutUsecase(carts, products, zones, coupons, orders, checkoutStore)
	if mailer != nil {
		checkoutUC = checkoutUC.WithMailer(mailer)
	}
	if archiver != nil {
		checkoutUC = checkoutUC.WithArchiver(archiver)
	}

	// 7. Router
	c.Handler = httpin.NewRouter(httpin.RouterDeps{
		CartUC:     cartUC,
		CheckoutUC: checkoutUC,
		OrderUC:    orderUC,
		CouponUC:   couponUC,
		ZoneUC:     zoneUC,
		ReportUC:   reportUC,
		Products:   products,
		Customers:  customers,
		Auth: &middleware.AuthMiddleware{
			FirebaseAuth: authClient,
			Customers:    customers,
		},
	})

	return c, nil
}

// noopReportStore keeps the dashboard alive when Postgres is not configured:
// counters still come from Firestore, revenue figures read as zero.
type noopReportStore struct{}

func (noopReportStore) Summary(context.Context, time.Time, time.Time) (usecase.ReportSummary, error) {
	return usecase.ReportSummary{}, nil
}

func (noopReportStore) DailySales(context.Context, time.Time, time.Time) ([]usecase.DailySales, error) {
	return nil, nil
}

func (noopReportStore) StatusBreakdown(context.Context, time.Time, time.Time) ([]usecase.StatusSales, error) {
	return nil, nil
}

func (noopReportStore) TopProducts(context.Context, time.Time, time.Time, int) ([]usecase.ProductSales, error) {
	return nil, nil
}

func (noopReportStore) TotalRevenue(context.Context) (float64, error) {
	return 0, nil
}
