package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Simplici0/glassworks/internal/config"
	"github.com/Simplici0/glassworks/internal/db"
	"github.com/Simplici0/glassworks/internal/logging"
	"github.com/Simplici0/glassworks/internal/migrations"
	"github.com/Simplici0/glassworks/internal/seed"
	"github.com/Simplici0/glassworks/internal/store"
)

type server struct {
	store *store.Store
	cfg   config.Config
	log   *zap.Logger
	now   func() time.Time
}

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.String("path", cfg.DBPath), zap.Error(err))
	}
	defer database.Close()

	if cfg.MigrateOnStart || cfg.IsDev() {
		if err := migrations.Up(database, logger); err != nil {
			logger.Fatal("failed to run database migrations", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := seed.Run(ctx, database, seed.DefaultConfig())
	if err != nil {
		logger.Fatal("failed to seed database", zap.Error(err))
	}
	logger.Info("seed complete", zap.Int("inserts", stats.Inserts))

	srv := &server{
		store: store.New(database),
		cfg:   cfg,
		log:   logger,
		now:   time.Now,
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", zap.String("addr", httpServer.Addr), zap.String("env", cfg.Env))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/settings", s.handleSettings)

		r.Route("/calc", func(r chi.Router) {
			r.Post("/invoice-item", s.handleCalcInvoiceItem)
			r.Post("/invoice-item/edit", s.handleEditInvoiceItem)
			r.Post("/invoice-item/price-rule", s.handleApplyPriceRule)
			r.Post("/invoice-row", s.handleNewInvoiceRow)
			r.Post("/toggle-attribute", s.handleToggleAttribute)
			r.Post("/invoice-totals", s.handleInvoiceTotals)
			r.Post("/goods-receipt-item", s.handleCalcGoodsReceiptItem)
			r.Post("/goods-receipt-item/edit", s.handleEditGoodsReceiptItem)
			r.Post("/ticket-item", s.handleCalcTicketItem)
			r.Post("/ticket-item/edit", s.handleEditTicketItem)
			r.Post("/ticket-transfer", s.handleDraftTicketTransfer)
		})

		r.Get("/grinding-types", s.handleListGrindingTypes)
		r.Put("/grinding-types", s.handleReplaceGrindingTypes)
		r.Get("/price-lists/{key}", s.handleListPriceRules)
		r.Put("/price-lists/{key}", s.handleReplacePriceRules)

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", s.handleListCustomers)
			r.Post("/", s.handleSaveCustomer)
			r.Get("/next-code", s.handleNextCode(s.store.NextCustomerCode))
			r.Get("/lookup", s.handleLookupCustomer)
			r.Get("/{id}", s.handleGetCustomer)
			r.Put("/{id}", s.handleSaveCustomer)
			r.Delete("/{id}", s.handleDelete(s.store.DeleteCustomer))
			r.Get("/{id}/debt-summaries", s.handleListDebtSummaries)
			r.Post("/{id}/debt-summaries", s.handleGenerateDebtSummary)
			r.Delete("/{id}/debt-summaries/{summaryID}", s.handleDeleteDebtSummary)
		})

		r.Route("/agencies", func(r chi.Router) {
			r.Get("/", s.handleListAgencies)
			r.Post("/", s.handleSaveAgency)
			r.Get("/next-code", s.handleNextCode(s.store.NextAgencyCode))
			r.Get("/{id}", s.handleGetAgency)
			r.Put("/{id}", s.handleSaveAgency)
			r.Delete("/{id}", s.handleDelete(s.store.DeleteAgency))
		})

		r.Route("/processing-units", func(r chi.Router) {
			r.Get("/", s.handleListProcessingUnits)
			r.Post("/", s.handleSaveProcessingUnit)
			r.Get("/next-code", s.handleNextCode(s.store.NextProcessingUnitCode))
			r.Get("/{id}", s.handleGetProcessingUnit)
			r.Put("/{id}", s.handleSaveProcessingUnit)
			r.Delete("/{id}", s.handleDelete(s.store.DeleteProcessingUnit))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.handleListProducts)
			r.Post("/", s.handleSaveProduct)
			r.Get("/next-code", s.handleNextCode(s.store.NextProductCode))
			r.Put("/{id}", s.handleSaveProduct)
			r.Delete("/{id}", s.handleDelete(s.store.DeleteProduct))
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", s.handleListInvoices)
			r.Post("/", s.handleSaveInvoice)
			r.Get("/next-id", s.handleNextInvoiceID)
			r.Get("/{id}", s.handleGetInvoice)
			r.Put("/{id}", s.handleSaveInvoice)
			r.Post("/{id}/payment-status", s.handleInvoicePaymentStatus)
			r.Delete("/{id}", s.handleDelete(s.store.DeleteInvoice))
		})

		r.Route("/goods-receipts", func(r chi.Router) {
			r.Get("/", s.handleListGoodsReceipts)
			r.Post("/", s.handleSaveGoodsReceipt)
			r.Get("/next-id", s.handleNextGoodsReceiptID)
			r.Get("/{id}", s.handleGetGoodsReceipt)
			r.Put("/{id}", s.handleSaveGoodsReceipt)
			r.Delete("/{id}", s.handleDelete(s.store.DeleteGoodsReceipt))
		})

		r.Route("/processing-tickets", func(r chi.Router) {
			r.Get("/", s.handleListProcessingTickets)
			r.Post("/", s.handleSaveProcessingTicket)
			r.Get("/{id}", s.handleGetProcessingTicket)
			r.Put("/{id}", s.handleSaveProcessingTicket)
			r.Post("/{id}/transfer", s.handleTicketTransfer)
			r.Delete("/{id}", s.handleDelete(s.store.DeleteProcessingTicket))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/", s.handleListPayments)
			r.Post("/", s.handleSavePayment)
			r.Put("/{id}", s.handleSavePayment)
			r.Delete("/{id}", s.handleDelete(s.store.DeletePayment))
		})
	})

	return r
}

func (s *server) handleDelete(del func(ctx context.Context, id string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := del(r.Context(), chi.URLParam(r, "id")); err != nil {
			s.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *server) handleNextCode(next func(ctx context.Context) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, err := next(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"code": code})
	}
}
