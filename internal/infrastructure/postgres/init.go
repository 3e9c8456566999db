package postgres

import (
	"log"

	"github.com/LavaJover/shvark-ipo-ledger/internal/config"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// AllModels lists every table the ledger owns, in dependency order.
func AllModels() []any {
	return []any{
		&models.OfferingModel{},
		&models.GroupModel{},
		&models.ClientModel{},
		&models.ClientDeleteHistoryModel{},
		&models.ClientDeleteDetailModel{},
		&models.RemarkModel{},
		&models.OrderMasterModel{},
		&models.OrderLineModel{},
		&models.LineRemarkModel{},
		&models.AllocationUnitModel{},
		&models.DeleteHistoryModel{},
		&models.MasterSnapshotModel{},
		&models.LineSnapshotModel{},
		&models.UnitSnapshotModel{},
		&models.PaymentTransactionModel{},
		&logger.AuditEntryModel{},
	}
}

func MustInitDB(cfg *config.LedgerConfig) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.LedgerDB.Dsn), &gorm.Config{CreateBatchSize: 500})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	if cfg.LedgerDB.AutoMigrate {
		if err := db.AutoMigrate(AllModels()...); err != nil {
			log.Fatalf("failed to auto-migrate: %v\n", err.Error())
		}
	}
	return db
}
