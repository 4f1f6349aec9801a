package database

import (
	"log"
	"strings"

	"pipecrm/internal/domain"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// Connect opens PostgreSQL when the DSN looks like one, otherwise falls back
// to the CGO-free SQLite driver for local development and tests.
func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate keeps the schema current. Production migrations run out of band;
// this covers local development, the seeder and tests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Lead{},
		&domain.Pipeline{},
		&domain.PipelineStage{},
		&domain.Deal{},
		&domain.QuoteItem{},
		&domain.StageHistory{},
		&domain.LeadActivity{},
		&domain.ClientMachine{},
		&domain.LossReason{},
		&domain.SalePerformanceReason{},
		&domain.MachineBrand{},
		&domain.MachineModel{},
	)
}
