package db

import (
	"database/sql"
	"fmt"

	"mpfm/config"
	"mpfm/logger"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Successfully connected to the database.")
	return nil
}

// InitDB initializes the database schema, creating tables if they don't exist.
func InitDB() error {
	if err := createSidecarsTable(); err != nil {
		return err
	}
	logger.Info("Database initialization completed.")
	return nil
}

func createSidecarsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS sidecars (
		title VARCHAR(255) PRIMARY KEY,
		date VARCHAR(32) NOT NULL,
		time VARCHAR(32) NOT NULL,
		length DOUBLE NOT NULL,
		bpm INT NOT NULL,
		user_bpm INT NOT NULL,
		location VARCHAR(512) NOT NULL,
		stars INT NOT NULL,
		playing TINYINT NOT NULL,
		disk VARCHAR(32) NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create sidecars table: %w", err)
	}
	return nil
}
