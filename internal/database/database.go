package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"shopping-cart/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Service owns the process-wide connection pool.
type Service interface {
	DB() *sql.DB
	Health(ctx context.Context) map[string]string
	Close() error
}

type service struct {
	db *sql.DB
}

var (
	instance *service
	initErr  error
	once     sync.Once
)

// New opens the pool on first use and hands back the same instance afterwards.
func New(cfg config.DatabaseConfig) (Service, error) {
	once.Do(func() {
		db, err := sql.Open("pgx", cfg.DSN())
		if err != nil {
			initErr = fmt.Errorf("failed to open database: %w", err)
			return
		}

		if cfg.MaxConns > 0 {
			db.SetMaxOpenConns(cfg.MaxConns)
			db.SetMaxIdleConns(cfg.MaxConns / 2)
		}
		db.SetConnMaxIdleTime(5 * time.Minute)

		instance = &service{db: db}
	})

	if initErr != nil {
		return nil, initErr
	}
	return instance, nil
}

func (s *service) DB() *sql.DB {
	return s.db
}

// Health pings the database and reports pool statistics.
func (s *service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.db.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	dbStats := s.db.Stats()
	stats["status"] = "up"
	stats["open_connections"] = fmt.Sprintf("%d", dbStats.OpenConnections)
	stats["in_use"] = fmt.Sprintf("%d", dbStats.InUse)
	stats["idle"] = fmt.Sprintf("%d", dbStats.Idle)
	stats["wait_count"] = fmt.Sprintf("%d", dbStats.WaitCount)

	return stats
}

func (s *service) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
