package setup

import (
	"testing"

	"github.com/LavaJover/shvark-ipo-ledger/internal/config"
	publisher "github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/memory"
)

func TestInitializeDependencies_MemoryWithoutKafka(t *testing.T) {
	cfg := &config.LedgerConfig{
		LedgerDB: config.LedgerDB{Driver: "memory"},
		Metrics:  config.Metrics{Enabled: true, Path: "/metrics"},
	}

	deps, err := InitializeDependencies(cfg)
	if err != nil {
		t.Fatalf("InitializeDependencies: %v", err)
	}
	defer deps.Close()

	if _, ok := deps.Store.(*memory.Store); !ok {
		t.Fatalf("expected the memory store, got %T", deps.Store)
	}
	if _, ok := deps.Publisher.(publisher.NopPublisher); !ok {
		t.Fatalf("expected NopPublisher with kafka disabled, got %T", deps.Publisher)
	}
	if deps.Registry == nil || deps.Metrics == nil {
		t.Fatal("expected metrics to be registered")
	}
	if deps.DB != nil {
		t.Fatal("memory driver must not open a database")
	}

	uc := InitializeUseCases(deps)
	if uc == nil {
		t.Fatal("expected usecases")
	}
}
