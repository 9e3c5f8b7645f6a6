package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/drugscope/drugscope/config"
	"github.com/drugscope/drugscope/internal/job"
)

const (
	jobKeyPrefix = "drugscope:jobs:"
	jobsByTime   = "drugscope:jobs_by_time"
)

// Redis mirrors job snapshots as JSON values keyed by job id, with a
// sorted-set recency index for listing.
type Redis struct {
	client *redis.Client
	logger *log.Logger
}

func NewRedis(cfg config.RedisConfig, logger *log.Logger) (*Redis, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: timeout,
	})
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return &Redis{client: client, logger: logger}, nil
}

// NewRedisClient wraps an existing client; used by tests.
func NewRedisClient(client *redis.Client, logger *log.Logger) *Redis {
	if logger == nil {
		logger = log.New(log.Writer(), "[STORE] ", log.LstdFlags)
	}
	return &Redis{client: client, logger: logger}
}

func (r *Redis) Save(ctx context.Context, st job.State) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshalling job %s: %w", st.JobID, err)
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, jobKeyPrefix+st.JobID, payload, 0)
	pipe.ZAdd(ctx, jobsByTime, redis.Z{
		Score:  float64(st.CreatedAt.UnixNano()),
		Member: st.JobID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("saving job %s: %w", st.JobID, err)
	}
	return nil
}

// Load reads one mirrored snapshot back.
func (r *Redis) Load(ctx context.Context, jobID string) (job.State, error) {
	payload, err := r.client.Get(ctx, jobKeyPrefix+jobID).Bytes()
	if err == redis.Nil {
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

func (r *Redis) Close() error { return r.client.Close() }
