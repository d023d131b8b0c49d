package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/angsant/trabalho-2-bd-2/pkg/records"
)

type Config struct {
	host     string
	user     string
	password string
	port     string
	dbname   string
	sslmode  string
}

func LoadConfiguration(ctx context.Context) Config {
	return Config{
		host:     env.GetVariableOrDefault(ctx, "POSTGRES_HOST", ""),
		user:     env.GetVariableOrDefault(ctx, "POSTGRES_USER", ""),
		password: env.GetVariableOrDefault(ctx, "POSTGRES_PASSWORD", ""),
		port:     env.GetVariableOrDefault(ctx, "POSTGRES_PORT", "5432"),
		dbname:   env.GetVariableOrDefault(ctx, "POSTGRES_DBNAME", "catalog"),
		sslmode:  env.GetVariableOrDefault(ctx, "POSTGRES_SSLMODE", "disable"),
	}
}

func (c Config) ConnStr() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.user, c.password, c.host, c.port, c.dbname, c.sslmode)
}

// PostgresReader reads document collections from a single jsonb table.
type PostgresReader struct {
	pool *pgxpool.Pool
}

// Connect opens a pgx pool, verifies the connection and makes sure the
// documents table exists.
func Connect(ctx context.Context, cfg Config) (*PostgresReader, error) {
	pool, err := pgxpool.New(ctx, cfg.ConnStr())
	if err != nil {
		return nil, err
	}

	err = pool.Ping(ctx)
	if err != nil {
		return nil, err
	}

	r := &PostgresReader{pool: pool}

	err = r.initialize(ctx)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresReader) initialize(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			row_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			collection TEXT NOT NULL,
			data JSONB NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS documents_collection_idx ON documents (collection);`,
	}

	for _, sql := range ddl {
		_, err := r.pool.Exec(ctx, sql)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *PostgresReader) Close() {
	r.pool.Close()
}

func (r *PostgresReader) Scan(ctx context.Context, collection string, filter *records.FieldFilter) ([]records.Record, error) {
	sql := `SELECT row_id, data FROM documents WHERE collection=$1 ORDER BY row_id;`

	rows, err := r.pool.Query(ctx, sql, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to scan collection %s: %w", collection, err)
	}
	defer rows.Close()

	result := make([]records.Record, 0)

	for rows.Next() {
		var rowID string
		var data []byte

		err := rows.Scan(&rowID, &data)
		if err != nil {
			return nil, err
		}

		rec := records.Record{}
		err = json.Unmarshal(data, &rec)
		if err != nil {
			return nil, fmt.Errorf("malformed document %s in collection %s: %w", rowID, collection, err)
		}

		if _, ok := rec[records.InternalIDField]; !ok {
			rec[records.InternalIDField] = rowID
		}

		result = append(result, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// filtering happens here rather than in SQL so that the tri-form match
	// semantics are defined in exactly one place
	return filter.Apply(result), nil
}

func (r *PostgresReader) ScanProjected(ctx context.Context, collection string, filter *records.FieldFilter, fields []string) ([]records.Record, error) {
	recs, err := r.Scan(ctx, collection, filter)
	if err != nil {
		return nil, err
	}

	return records.Project(recs, fields), nil
}
