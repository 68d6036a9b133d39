package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Driver do Postgres
	"github.com/sethvargo/go-retry"
)

type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectAttempts uint64
	ConnectBackoff  time.Duration
}

// NewDBConnection abre a conexão e testa o Ping, com backoff exponencial
// enquanto o Postgres ainda está subindo.
func NewDBConnection(ctx context.Context, connString string, opts PoolOptions) (*sql.DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	attempts := opts.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}
	backoff := opts.ConnectBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	try := 0
	err = retry.Do(ctx, retry.WithMaxRetries(attempts-1, retry.NewExponential(backoff)), func(ctx context.Context) error {
		try++
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := db.PingContext(pingCtx); err != nil {
			log.Printf("⏳ [DB] ping %d/%d failed: %v", try, attempts, err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable after %d attempts: %w", try, err)
	}

	log.Printf("✅ [DB] connected (max_open=%d max_idle=%d)", opts.MaxOpenConns, opts.MaxIdleConns)
	return db, nil
}
