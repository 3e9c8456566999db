package setup

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/LavaJover/shvark-ipo-ledger/internal/config"
	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	publisher "github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/postgres/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config    *config.LedgerConfig
	DB        *gorm.DB
	Store     domain.LedgerStore
	Publisher domain.EventPublisher
	Audit     domain.AuditLogger
	Registry  *prometheus.Registry
	Metrics   *metrics.LedgerMetrics

	closers []io.Closer
}

// InitializeDependencies opens the store selected by ledger_db.driver and
// the event publisher, a no-op one when kafka is disabled.
func InitializeDependencies(cfg *config.LedgerConfig) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg}

	switch cfg.LedgerDB.Driver {
	case "memory":
		deps.Store = memory.NewStore()
		slog.Warn("using in-memory ledger store, data is lost on restart")
	default:
		db := postgres.MustInitDB(cfg)
		if err := migrate.RunMigrations(db, cfg.LedgerDB.MigrationsPath); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		deps.DB = db
		deps.Store = repository.NewDefaultLedgerStore(db)
		deps.Audit = logger.NewPGAuditLogger(db)
	}

	if cfg.KafkaService.Enabled {
		pub := publisher.NewDefaultKafkaPublisher(cfg.KafkaBrokers(), cfg.KafkaService.Topic)
		deps.Publisher = pub
		deps.closers = append(deps.closers, pub)
		slog.Info("ledger events enabled", "brokers", cfg.KafkaBrokers(), "topic", cfg.KafkaService.Topic)
	} else {
		deps.Publisher = publisher.NopPublisher{}
	}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		deps.Registry = reg
		deps.Metrics = metrics.NewLedgerMetrics(reg)
	}
	return deps, nil
}

func (d *Dependencies) Close() {
	for _, c := range d.closers {
		if err := c.Close(); err != nil {
			slog.Error("failed to close dependency", "error", err)
		}
	}
	if d.DB != nil {
		if sqlDB, err := d.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
