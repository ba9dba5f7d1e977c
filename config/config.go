package config

import (
	"fmt"
	"os"

	"github.com/rishikeshvarma/NutriVision/models"
	"github.com/rishikeshvarma/NutriVision/store"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB(log *zap.Logger) {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system env")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		getEnv("DB_HOST", log),
		getEnv("DB_USER", log),
		getEnv("DB_PASSWORD", log),
		getEnv("DB_NAME", log),
		getEnv("DB_PORT", log),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	DB = db

	if err := DB.AutoMigrate(
		&models.User{},
		&store.Document{},
	); err != nil {
		log.Fatal("AutoMigrate failed", zap.Error(err))
	}
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("required environment variable not set", zap.String("key", key))
	panic("missing required environment variable: " + key)
}
