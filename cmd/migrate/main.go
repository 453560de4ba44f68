package main

import (
	"fmt"

	"gamevault/internal/config" // Custom import path (Config)
	"gamevault/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus"
)

// Main entry point for migration
func main() {
	if err := run(); err != nil {
		logrus.Fatalf("migrate: %v", err)
	}
	logrus.Info("Database migrated successfully")
}

func run() error {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	return db.Migrate(gdb)
}
