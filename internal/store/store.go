// Package store provides the durable mirrors for job state. The
// in-process registry stays authoritative; mirrors exist so state
// survives restarts for offline inspection.
package store

import (
	"fmt"
	"log"

	"github.com/drugscope/drugscope/config"
	"github.com/drugscope/drugscope/internal/job"
)

// New builds the mirror selected by storage.driver. A "none" driver
// returns nil, which disables mirroring.
func New(cfg config.StorageConfig, logger *log.Logger) (job.Mirror, error) {
	if logger == nil {
		logger = log.New(log.Writer(), "[STORE] ", log.LstdFlags)
	}
	switch cfg.Driver {
	case "", "none":
		return nil, nil
	case "postgres":
		return NewPostgres(cfg.Postgres, logger)
	case "redis":
		return NewRedis(cfg.Redis, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
