package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	_ "github.com/lib/pq"

	"github.com/drugscope/drugscope/config"
	"github.com/drugscope/drugscope/internal/job"
)

// Postgres mirrors job snapshots into the jobs table. One row per job,
// replaced wholesale on every save.
type Postgres struct {
	db     *sql.DB
	logger *log.Logger
}

func NewPostgres(cfg config.PostgresConfig, logger *log.Logger) (*Postgres, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Postgres{db: db, logger: logger}, nil
}

// NewPostgresDB wraps an existing connection; used by tests.
func NewPostgresDB(db *sql.DB, logger *log.Logger) *Postgres {
	if logger == nil {
		logger = log.New(log.Writer(), "[STORE] ", log.LstdFlags)
	}
	return &Postgres{db: db, logger: logger}
}

const upsertJob = `
INSERT INTO jobs (id, query, status, progress, state, error, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET
    status = EXCLUDED.status,
    progress = EXCLUDED.progress,
    state = EXCLUDED.state,
    error = EXCLUDED.error,
    updated_at = EXCLUDED.updated_at`

func (p *Postgres) Save(ctx context.Context, st job.State) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshalling job %s: %w", st.JobID, err)
	}
	_, err = p.db.ExecContext(ctx, upsertJob,
		st.JobID, st.Query, string(st.Status), st.Progress, payload, st.Error,
		st.CreatedAt, st.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting job %s: %w", st.JobID, err)
	}
	return nil
}

// Load reads one mirrored snapshot back, mostly for operational
// inspection after a restart.
func (p *Postgres) Load(ctx context.Context, jobID string) (job.State, error) {
	var payload []byte
	err := p.db.QueryRowContext(ctx, `SELECT state FROM jobs WHERE id = $1`, jobID).Scan(&payload)
	if err == sql.ErrNoRows {
		return job.State{}, job.ErrJobNotFound
	}
	if err != nil {
		return job.State{}, fmt.Errorf("loading job %s: %w", jobID, err)
	}
	var st job.State
	if err := json.Unmarshal(payload, &st); err != nil {
		return job.State{}, fmt.Errorf("unmarshalling job %s: %w", jobID, err)
	}
	return st, nil
}

func (p *Postgres) Close() error { return p.db.Close() }
