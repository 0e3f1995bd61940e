package db

import (
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/imobflow/imob-crm-api/internal/config"
	"github.com/imobflow/imob-crm-api/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("falha ao conectar no banco")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("falha ao obter sql.DB")
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.WorkingHours{},
		&models.Cliente{},
		&models.ClienteNote{},
		&models.Appointment{},
		&models.Visit{},
		&models.Sale{},
		&models.WhatsappInstance{},
		&models.AuditLog{},
	); err != nil {
		log.Fatal().Err(err).Msg("falha ao migrar o banco")
	}

	db.Exec(`
        UPDATE clientes
        SET status = 'novo'
        WHERE status IS NULL OR status = ''
    `)

	return db
}
