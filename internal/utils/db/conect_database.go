package db

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func ConnectDataBase(port uint, host, dbname, username, password string) (*gorm.DB, error) {
	sslDisabled := os.Getenv("DB_SSL_MODE_DISABLE")
	var sslMode string
	if sslDisabled == "true" {
		sslMode = " sslmode=disable"
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d%s", host, username, password, dbname, port, sslMode)
	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("abrir conexão com o banco: %w", err)
	}

	return database, nil
}
