// Package server exposes the quoting engine to the sales UI: price
// resolution, totals, override editing, the billboard catalog, booking
// submission and the printable documents.
package server

import (
	"context"
	"net/http"
	"time"

	"alfares-pricing/internal/documents"
	"alfares-pricing/internal/export"
	"alfares-pricing/internal/notify"
	"alfares-pricing/internal/overrides"
	"alfares-pricing/internal/pricing"
	"alfares-pricing/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Catalog is the slice of the storage layer the handlers need. The
// PostgreSQL storage satisfies it; tests substitute an in-memory one.
type Catalog interface {
	GetBillboardByID(ctx context.Context, id int64) (*storage.Billboard, error)
	ListBillboards(ctx context.Context, filter storage.BillboardFilter) ([]storage.Billboard, error)
	GetBillboardsByIDs(ctx context.Context, ids []int64) ([]storage.Billboard, error)
	SaveBookingRequest(ctx context.Context, req storage.BookingRequest) (int64, error)
	ListBookingRequests(ctx context.Context, limit int) ([]storage.BookingRequest, error)
	CheckRateLimit(ctx context.Context, caller string, limit int64, window time.Duration) (bool, error)
}

type Deps struct {
	Table          *pricing.Table
	Resolver       *pricing.Resolver
	Overrides      *overrides.Store
	ExtraCustomers *overrides.CustomerList
	CustomSizes    *overrides.SizeCatalog
	Catalog        Catalog
	Documents      *documents.Builder
	Exporter       *export.Exporter
	Notifier       *notify.Notifier
	Logger         *zap.Logger
}

type Server struct {
	router         *gin.Engine
	table          *pricing.Table
	resolver       *pricing.Resolver
	overrides      *overrides.Store
	extraCustomers *overrides.CustomerList
	customSizes    *overrides.SizeCatalog
	catalog        Catalog
	docs           *documents.Builder
	exporter       *export.Exporter
	notifier       *notify.Notifier
	logger         *zap.Logger
}

func New(deps Deps) *Server {
	s := &Server{
		table:          deps.Table,
		resolver:       deps.Resolver,
		overrides:      deps.Overrides,
		extraCustomers: deps.ExtraCustomers,
		customSizes:    deps.CustomSizes,
		catalog:        deps.Catalog,
		docs:           deps.Documents,
		exporter:       deps.Exporter,
		notifier:       deps.Notifier,
		logger:         deps.Logger,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(deps.Logger), metricsMiddleware())

	api := router.Group("/api")
	{
		p := api.Group("/pricing")
		{
			p.GET("/resolve", s.handleResolve)
			p.POST("/total", s.handleTotal)
			p.PUT("/overrides", s.handleSetOverride)
			p.GET("/levels", s.handleLevels)
			p.GET("/sizes", s.handleSizes)
			p.PUT("/sizes/custom", s.handleSetCustomSizes)
			p.GET("/customers", s.handleCustomers)
			p.PUT("/customers/extra", s.handleSetExtraCustomers)
		}

		api.GET("/billboards", s.handleListBillboards)
		api.GET("/billboards/:id", s.handleGetBillboard)

		api.POST("/bookings", s.handleCreateBooking)
		api.GET("/bookings", s.handleListBookings)

		api.GET("/documents/offer", s.handleOfferDocument)
		api.GET("/documents/invoice", s.handleInvoiceDocument)
		api.GET("/quotes/export", s.handleExportQuote)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router = router
	return s
}

// Router exposes the handler tree for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
