package infra

import (
	"fmt"

	"gin-inventory/config"
	"gin-inventory/models"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func SetupDB(cfg config.DatabaseConfig, env string, log zerolog.Logger) (*gorm.DB, error) {
	level := gormlogger.Error
	switch env {
	case "dev":
		level = gormlogger.Warn
	case "test":
		level = gormlogger.Silent
	}
	gormCfg := &gorm.Config{
		Logger: NewGormLogger(log, level),
		// 一意制約違反を gorm.ErrDuplicatedKey に変換する
		TranslateError: true,
	}

	// データベース名が設定されている場合はPostgreSQLを使用
	if cfg.Name != "" {
		sslmode := cfg.SSLMode
		if env == "prod" && (sslmode == "" || sslmode == "disable") {
			sslmode = "require"
		}

		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			cfg.Host,
			cfg.User,
			cfg.Password,
			cfg.Name,
			cfg.Port,
			sslmode,
			cfg.TimeZone,
		)

		db, err := gorm.Open(postgres.Open(dsn), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		log.Info().Str("host", cfg.Host).Str("dbname", cfg.Name).Msg("Setup postgres database")
		return db, nil
	}

	path := cfg.SQLitePath
	if path == "" {
		path = ":memory:"
	}
	db, err := gorm.Open(sqlite.Open(path), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	if path == ":memory:" {
		// in-memory sqlite is per connection
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	log.Info().Str("path", path).Msg("Setup sqlite database")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Book{},
		&models.FoodItem{},
		&models.EmergencyItem{},
		&models.Notification{},
		&models.BlacklistedToken{},
	)
}
