package jobstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobparser/internal/config"
	"jobparser/internal/errors"
	"jobparser/internal/types"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS job_postings (
	job_code   TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	company    TEXT NOT NULL,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const insertPostingSQL = `INSERT INTO job_postings (job_code, title, company, payload)
SELECT $1, $2, $3, $4::jsonb
WHERE NOT EXISTS (
	SELECT 1 FROM job_postings WHERE job_code = $1
)`

// execer is the slice of *pgxpool.Pool the store needs.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore keeps a copy of every published posting, keyed by job code.
type PostgresStore struct {
	db     execer
	close  func()
	logger *errors.Logger
}

// OpenPostgres connects a pool and verifies it with a ping.
func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig, logger *errors.Logger) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "invalid database url", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed, "failed to create database pool", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed, "postgres ping failed", err)
	}

	logger.Info("Connected to postgres", "max_conns", poolCfg.MaxConns)
	store := newPostgresStore(pool, logger)
	store.close = pool.Close
	return store, nil
}

func newPostgresStore(db execer, logger *errors.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

func (s *PostgresStore) Name() string { return "postgres" }

// Migrate creates the job_postings table when it does not exist
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createTableSQL); err != nil {
		return errors.NewStorageError(errors.ErrCodeStorageFailed, "failed to create job_postings table", err)
	}
	return nil
}

// Publish inserts p unless a posting with the same job code is already stored.
func (s *PostgresStore) Publish(ctx context.Context, p types.Posting) (types.PublishResult, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return types.PublishResult{}, errors.NewInternalError(errors.ErrCodeStorageFailed, "failed to encode posting", err)
	}

	tag, err := s.db.Exec(ctx, insertPostingSQL, p.JobCode, p.JobTitle, p.Company, string(payload))
	if err != nil {
		return types.PublishResult{}, errors.NewStorageError(errors.ErrCodeStorageFailed,
			fmt.Sprintf("failed to store posting %s", p.JobCode), err)
	}

	result := types.PublishResult{Publisher: s.Name(), ID: p.JobCode}
	if tag.RowsAffected() == 0 {
		result.Duplicate = true
		if s.logger != nil {
			s.logger.Debug("Posting already stored", "job_code", p.JobCode)
		}
	}
	return result, nil
}

// Close releases the pool
func (s *PostgresStore) Close() {
	if s.close != nil {
		s.close()
	}
}
