package cli

import (
	"fmt"

	"github.com/AI2HU/dbmanager/internal/config"
	"github.com/AI2HU/dbmanager/internal/db"
	"github.com/AI2HU/dbmanager/internal/db/memory"
	"github.com/AI2HU/dbmanager/internal/db/mongodb"
	"github.com/AI2HU/dbmanager/internal/db/postgres"
	"github.com/AI2HU/dbmanager/internal/db/sqlite"
)

// openDatabase creates the adapter for a config block without connecting it
func openDatabase(dbc config.DatabaseConfig) (db.Database, error) {
	var (
		database db.Database
		err      error
	)

	switch dbc.Provider {
	case "sqlite":
		database, err = sqlite.New(dbc.ToModel())
	case "postgres":
		database, err = postgres.New(dbc.ToModel())
	case "mongodb":
		database, err = mongodb.New(dbc.ToModel())
	case "memory":
		database = memory.New()
	default:
		return nil, fmt.Errorf("unsupported database provider: %s", dbc.Provider)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}
	return database, nil
}
