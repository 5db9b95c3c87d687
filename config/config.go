package config

import (
	"os"

	"mealmatch/models"
	"mealmatch/store"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// JWTSecret used to sign tokens — read from env or fallback
var JWTSecret []byte

// Init loads the optional .env file and derives settings from the
// environment.
func Init() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using process environment")
	}
	JWTSecret = []byte(GetEnv("JWT_SECRET", "mealmatch_super_secret_2024"))
}

func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InitDB opens the sqlite database backing both the key-value store and the
// relational search mirror.
func InitDB() {
	var err error
	DB, err = gorm.Open(sqlite.Open(GetEnv("DB_PATH", "mealmatch.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}

	err = DB.AutoMigrate(
		&store.KVEntry{},
		&models.Restaurant{},
		&models.MenuItem{},
	)
	if err != nil {
		logrus.WithError(err).Fatal("failed to migrate database")
	}

	logrus.Info("database connected and migrated")
}
