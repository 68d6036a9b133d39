package main

import (
	"context"
	"database/sql"

	"github.com/xavierca1/maria-crm/internal/config"
	"github.com/xavierca1/maria-crm/internal/infra/database"
)

func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, err
	}
	return database.NewDBConnection(ctx, cfg.DatabaseURL, database.PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnectAttempts: cfg.DBConnectAttempts,
		ConnectBackoff:  cfg.DBConnectBackoff,
	})
}
