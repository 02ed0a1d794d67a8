package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/untillpro/goutils/logger"

	"github.com/goliatone/go-formkit/pkg/model"
)

// PostgresRepository keeps schemas in an append-only table ordered by a
// serial column.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository wraps an existing pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// OpenPostgres connects to dsn and runs Migrate.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: connect postgres: %w", err)
	}
	repo := NewPostgresRepository(pool)
	if err := repo.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return repo, nil
}

// Close releases the pool.
func (r *PostgresRepository) Close() {
	r.pool.Close()
}

// Migrate creates the schema table when missing.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS form_schemas (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			body JSONB NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_form_schemas_id ON form_schemas(id);`,
	}
	for _, q := range queries {
		if _, err := r.pool.Exec(ctx, q); err != nil {
			return fmt.Errorf("store: migration failed: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) Load(ctx context.Context) ([]model.FormSchema, error) {
	const query = `SELECT body FROM form_schemas ORDER BY seq;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: postgres load: %w", err)
	}
	defer rows.Close()

	var schemas []model.FormSchema
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("store: postgres scan: %w", err)
		}
		schema, err := decodeSchema(body)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, schema)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: postgres load: %w", err)
	}
	return schemas, nil
}

func (r *PostgresRepository) Append(ctx context.Context, schema model.FormSchema) error {
	const query = `
	INSERT INTO form_schemas (id, name, created_at, body)
	VALUES ($1, $2, $3, $4);
	`
	body, err := encodeSchema(schema)
	if err != nil {
		return err
	}
	if _, err := r.pool.Exec(ctx, query, schema.ID, schema.Name, schema.CreatedAt, body); err != nil {
		return fmt.Errorf("store: postgres append %q: %w", schema.ID, err)
	}
	if logger.IsVerbose() {
		logger.Verbose("store: postgres appended schema", schema.ID)
	}
	return nil
}

// Truncate removes every stored schema.
func (r *PostgresRepository) Truncate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `TRUNCATE form_schemas;`); err != nil {
		return fmt.Errorf("store: postgres truncate: %w", err)
	}
	return nil
}
