package db

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Curtis1706/lahamarchand-main-sub001/internal/capability"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/config"
	"github.com/Curtis1706/lahamarchand-main-sub001/internal/models"
)

func ConnectAndMigrate() (*gorm.DB, error) {
	dsn := GetNormalizedDSN()
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN est vide, vérifiez la configuration de l'environnement")
	}
	var db *gorm.DB
	var err error
	logLevel := logger.Silent
	if config.ParseBool("DB_DEBUG", false) {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}
	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(dsn), cfg)
		if err == nil {
			break
		}
		log.Warn().Err(err).Msg("Retrying DB connection...")
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}

	// Basic connectivity test
	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	masked := dsn
	if strings.Contains(masked, "password=") {
		re := regexp.MustCompile(`(password=)([^\s]+)`)
		masked = re.ReplaceAllString(masked, `${1}***`)
	}
	log.Info().Str("dsn", masked).Msg("DB connected")

	// MIGRATIONS=1 runs sql migrations via golang-migrate; otherwise AutoMigrate (dev convenience)
	if config.ParseBool("MIGRATIONS", false) {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		modelsToMigrate := []interface{}{
			&models.Role{}, &models.User{}, &models.Discipline{}, &models.TypeLivre{},
			&models.Work{}, &models.Order{}, &models.OrderItem{}, &models.Payment{},
			&models.RoyaltySale{}, &models.PaymentBatch{},
			&models.RistourneRecord{}, &models.RistourneLigne{},
			&models.CorrectionEntry{},
		}
		for _, m := range modelsToMigrate {
			if migErr := db.AutoMigrate(m); migErr != nil {
				return nil, fmt.Errorf("automigrate %T: %w", m, migErr)
			}
		}
	}

	// sanity check: ensure required core tables exist
	for _, table := range []string{"roles", "users", "works", "orders"} {
		if !db.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}
	// Reference data is always seeded: roles and book types are the fixed
	// vocabulary of the capability and settlement engines.
	if err := seed(db); err != nil {
		return nil, fmt.Errorf("seed reference data: %w", err)
	}
	return db, nil
}

func seed(db *gorm.DB) error {
	roles := []models.Role{
		{Name: capability.RoleClient, Description: "Acheteur au détail"},
		{Name: capability.RoleAuteur, Description: "Auteur d'œuvres"},
		{Name: capability.RoleConcepteur, Description: "Concepteur d'œuvres"},
		{Name: capability.RolePartenaire, Description: "Partenaire institutionnel"},
		{Name: capability.RoleRepresentant, Description: "Représentant commercial"},
		{Name: capability.RoleResponsable, Description: "Responsable diffusion en gros"},
		{Name: capability.RoleDirection, Description: "Direction générale"},
	}
	for _, r := range roles {
		var existing models.Role
		if err := db.Where("name = ?", r.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := db.Create(&r).Error; err != nil {
				return err
			}
		}
	}
	typesLivre := []models.TypeLivre{
		{Name: "primaire", Code: "PRI", TauxRistournePct: 15},
		{Name: "secondaire", Code: "SEC", TauxRistournePct: 12},
		{Name: "promotionnel", Code: "PRO", TauxRistournePct: 8},
	}
	for _, tl := range typesLivre {
		var existing models.TypeLivre
		if err := db.Where("name = ?", tl.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := db.Create(&tl).Error; err != nil {
				return err
			}
		}
	}
	disciplines := []models.Discipline{
		{Name: "Mathématiques"}, {Name: "Français"}, {Name: "Sciences"}, {Name: "Histoire-Géographie"},
	}
	for _, d := range disciplines {
		var existing models.Discipline
		if err := db.Where("name = ?", d.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := db.Create(&d).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// runSQLMigrations executes migrations in ./migrations using golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", ToURLDSN(dsn))
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
