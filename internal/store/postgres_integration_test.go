package store

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/drugscope/drugscope/internal/job"
)

const jobsTable = `
CREATE TABLE IF NOT EXISTS jobs (
    id TEXT PRIMARY KEY,
    query TEXT NOT NULL,
    status TEXT NOT NULL,
    progress INT NOT NULL DEFAULT 0,
    state JSONB NOT NULL,
    error TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`

func TestPostgresMirrorRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	pgC, err := tcPostgres.RunContainer(ctx,
		tcPostgres.WithDatabase("drugscope"),
		tcPostgres.WithUsername("drugscope"),
		tcPostgres.WithPassword("drugscope"),
		testcontainers.WithWaitStrategy(wait.ForListeningPort("5432/tcp")),
	)
	if err != nil {
		t.Fatalf("postgres container: %v", err)
	}
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	if err != nil {
		t.Fatalf("postgres host: %v", err)
	}
	port, err := pgC.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("postgres port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://drugscope:drugscope@%s:%s/drugscope?sslmode=disable", host, port.Port())

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	deadline := time.Now().Add(30 * time.Second)
	for {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("ping: %v", err)
		}
		time.Sleep(500 * time.Millisecond)
	}
	if _, err := db.ExecContext(ctx, jobsTable); err != nil {
		t.Fatalf("create table: %v", err)
	}

	mirror := NewPostgresDB(db, nil)

	st := job.NewState("job_abc123def456", "glp-1 research", job.DefaultOptions())
	if err := mirror.Save(ctx, st); err != nil {
		t.Fatalf("initial save: %v", err)
	}

	running := job.StatusRunning
	fifty := 50
	st = st.Apply(job.Update{Status: &running, Progress: &fifty})
	if err := mirror.Save(ctx, st); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	loaded, err := mirror.Load(ctx, st.JobID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.JobID != st.JobID || loaded.Status != job.StatusRunning || loaded.Progress != 50 {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("upsert created %d rows, want 1", count)
	}

	if _, err := mirror.Load(ctx, "job_missing"); err != job.ErrJobNotFound {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}
