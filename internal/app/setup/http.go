package setup

import (
	"github.com/LavaJover/shvark-ipo-ledger/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-ipo-ledger/internal/delivery/http/router"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

func InitializeHTTP(deps *Dependencies, uc *UseCases) *fiber.App {
	cfg := deps.Config
	opts := router.Options{
		BodyLimitMB:  cfg.HTTPServer.BodyLimitMB,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		MetricsPath:  cfg.Metrics.Path,
	}
	if deps.Registry != nil {
		opts.Gatherer = prometheus.Gatherer(deps.Registry)
	}
	return router.New(router.Handlers{
		Allocation: handlers.NewAllocationHandler(uc.Allocation),
		Ingest:     handlers.NewIngestHandler(uc.Ingest),
		Status:     handlers.NewStatusHandler(uc.Status),
		Archive:    handlers.NewArchiveHandler(uc.Archive),
		Billing:    handlers.NewBillingHandler(uc.Billing),
		Payment:    handlers.NewPaymentHandler(uc.Payment),
		Registry:   handlers.NewRegistryHandler(uc.Offering, uc.Group, uc.Client, uc.Remark),
	}, opts)
}
