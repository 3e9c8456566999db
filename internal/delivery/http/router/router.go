package router

import (
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-ipo-ledger/internal/delivery/http/handlers"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Allocation *handlers.AllocationHandler
	Ingest     *handlers.IngestHandler
	Status     *handlers.StatusHandler
	Archive    *handlers.ArchiveHandler
	Billing    *handlers.BillingHandler
	Payment    *handlers.PaymentHandler
	Registry   *handlers.RegistryHandler
}

type Options struct {
	BodyLimitMB  int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// MetricsPath is left unrouted when Gatherer is nil.
	MetricsPath string
	Gatherer    prometheus.Gatherer
}

func New(h Handlers, opts Options) *fiber.App {
	cfg := fiber.Config{
		AppName:      "ipo-ledger",
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	if opts.BodyLimitMB > 0 {
		cfg.BodyLimit = opts.BodyLimitMB * 1024 * 1024
	}
	app := fiber.New(cfg)

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(accessLog)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if opts.Gatherer != nil && opts.MetricsPath != "" {
		app.Get(opts.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api/v1", handlers.Scope())

	offerings := api.Group("/offerings")
	offerings.Post("/", h.Registry.CreateOffering)
	offerings.Get("/", h.Registry.ListOfferings)
	offerings.Get("/:id", h.Registry.GetOffering)
	offerings.Put("/:id", h.Registry.UpdateOffering)
	offerings.Delete("/:id", h.Registry.DeleteOffering)

	offerings.Get("/:offering_id/remarks", h.Registry.ListRemarks)
	offerings.Get("/:offering_id/orders/recent", h.Allocation.RecentLines)
	offerings.Post("/:offering_id/orders/upload", h.Ingest.Upload)
	offerings.Delete("/:offering_id/orders", h.Archive.DeleteAll)
	offerings.Get("/:offering_id/status", h.Status.Summary)
	offerings.Get("/:offering_id/billing/groups", h.Billing.GroupWise)
	offerings.Get("/:offering_id/billing/clients", h.Billing.ClientWise)

	groups := api.Group("/groups")
	groups.Post("/", h.Registry.CreateGroup)
	groups.Get("/", h.Registry.ListGroups)
	groups.Get("/:id", h.Registry.GetGroup)
	groups.Put("/:id", h.Registry.UpdateGroup)
	groups.Delete("/:id", h.Registry.DeleteGroup)

	clients := api.Group("/clients")
	clients.Post("/", h.Registry.CreateClient)
	clients.Get("/", h.Registry.ListClients)
	clients.Delete("/", h.Registry.DeleteAllClients)
	clients.Get("/delete-histories", h.Registry.ListClientDeleteHistories)
	clients.Get("/:id", h.Registry.GetClient)
	clients.Put("/:id", h.Registry.UpdateClient)
	clients.Delete("/:id", h.Registry.DeleteClient)

	api.Post("/remarks", h.Registry.CreateRemark)

	orders := api.Group("/orders")
	orders.Post("/", h.Allocation.Place)
	orders.Get("/masters/:id", h.Allocation.GetMaster)
	orders.Put("/lines/:id", h.Allocation.Edit)
	orders.Delete("/lines/:id", h.Allocation.Delete)
	orders.Put("/units", h.Allocation.FillUnitDetails)

	archives := api.Group("/archives")
	archives.Get("/", h.Archive.ListHistories)
	archives.Get("/:id", h.Archive.GetArchive)

	payments := api.Group("/payments")
	payments.Post("/", h.Payment.Create)
	payments.Get("/", h.Payment.List)
	payments.Post("/transfer", h.Payment.Transfer)
	payments.Get("/dashboard", h.Payment.Dashboard)

	return app
}

func accessLog(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	slog.Debug("http request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
	)
	return err
}
