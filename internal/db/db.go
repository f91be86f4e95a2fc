package db

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/arencloud/provisio/internal/config"
	"github.com/arencloud/provisio/internal/logging"
	"github.com/arencloud/provisio/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

func Init(cfg *config.Config, logger logging.Logger) error {
	// Route GORM logs through our structured logger so SQL logs are not plain text
	var gormLevel gormlogger.LogLevel
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		gormLevel = gormlogger.Info // log SQL traces at debug level
	case "error", "fatal":
		gormLevel = gormlogger.Error
	default:
		gormLevel = gormlogger.Warn
	}
	gormLogger := newGormLogger(logger, gormLevel)

	var dialector gorm.Dialector
	driver := strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if driver == "postgres" || driver == "postgresql" {
		// PostgreSQL via DATABASE_URL / DB_DSN
		if cfg.DBDsn == "" {
			return &os.PathError{Op: "open", Path: "DATABASE_URL/DB_DSN", Err: os.ErrInvalid}
		}
		dialector = postgres.Open(cfg.DBDsn)
		logger.Info("db connect", "driver", "postgres")
	} else {
		// Default to sqlite
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return err
		}
		dialector = sqlite.Open(cfg.DBPath)
		logger.Info("db connect", "driver", "sqlite", "path", cfg.DBPath)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return err
	}
	if err := gdb.AutoMigrate(&models.Target{}, &models.ProvisionRecord{}, &models.APIToken{}); err != nil {
		return err
	}
	DB = gdb

	// Bootstrap an API token if none exist, so the service is reachable on
	// first start. The plaintext is logged exactly once.
	var count int64
	if err := DB.Model(&models.APIToken{}).Count(&count).Error; err == nil && count == 0 {
		raw := make([]byte, 24)
		if _, err := rand.Read(raw); err == nil {
			secret := hex.EncodeToString(raw)
			hash, _ := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
			tok := models.APIToken{Name: "bootstrap", Hash: string(hash)}
			if err := DB.Create(&tok).Error; err == nil {
				logger.Info("bootstrap token created", "token", tok.Name+"."+secret)
			} else {
				logger.Error("failed to create bootstrap token", "error", err)
			}
		}
	}
	return nil
}
