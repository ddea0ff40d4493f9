package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresStore persists capsule records in a single memory_records table.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

const createTableQuery = `
	CREATE TABLE IF NOT EXISTS memory_records (
		id UUID PRIMARY KEY,
		capsule TEXT NOT NULL,
		content TEXT NOT NULL,
		metadata JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// NewPostgresStore connects, verifies the connection, and creates the
// records table if absent.
func NewPostgresStore(cfg *PostgresConfig) (*PostgresStore, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	_, err = db.Exec(createTableQuery)
	if err != nil {
		return nil, fmt.Errorf("create records table: %w", err)
	}

	cfg.Logger.Info("postgres-store-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresStore{
		db:     db,
		logger: cfg.Logger,
	}, nil
}

// Store appends a record to a capsule.
func (s *PostgresStore) Store(ctx context.Context, capsule, content string, metadata map[string]string) error {
	var metadataJSON []byte
	if metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
	}

	query := `
		INSERT INTO memory_records (id, capsule, content, metadata, created_at)
		VALUES ($1, $2, $3, $4, now())
	`

	_, err := s.db.ExecContext(ctx, query, uuid.NewString(), capsule, content, metadataJSON)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}

	s.logger.Debug("record-stored", zap.String("capsule", capsule))
	return nil
}

// SemanticSearch uses Postgres full-text search ranked by ts_rank. The
// closest relevance signal available without an embedding service.
func (s *PostgresStore) SemanticSearch(ctx context.Context, capsule, query string, k int) ([]Record, error) {
	sqlQuery := `
		SELECT id, capsule, content, metadata, created_at
		FROM memory_records
		WHERE capsule = $1
		  AND to_tsvector('english', content) @@ plainto_tsquery('english', $2)
		ORDER BY ts_rank(to_tsvector('english', content), plainto_tsquery('english', $2)) DESC,
		         created_at DESC
		LIMIT $3
	`

	return s.queryRecords(ctx, sqlQuery, capsule, query, k)
}

// TextSearch matches the query as a case-insensitive substring, newest first.
func (s *PostgresStore) TextSearch(ctx context.Context, capsule, query string, k int) ([]Record, error) {
	sqlQuery := `
		SELECT id, capsule, content, metadata, created_at
		FROM memory_records
		WHERE capsule = $1 AND content ILIKE '%' || $2 || '%'
		ORDER BY created_at DESC
		LIMIT $3
	`

	return s.queryRecords(ctx, sqlQuery, capsule, query, k)
}

// Recent returns the newest records first.
func (s *PostgresStore) Recent(ctx context.Context, capsule string, limit int) ([]Record, error) {
	sqlQuery := `
		SELECT id, capsule, content, metadata, created_at
		FROM memory_records
		WHERE capsule = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	return s.queryRecords(ctx, sqlQuery, capsule, limit)
}

func (s *PostgresStore) queryRecords(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var record Record
		var metadataJSON []byte

		err = rows.Scan(&record.ID, &record.Capsule, &record.Content, &metadataJSON, &record.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		if len(metadataJSON) > 0 {
			err = json.Unmarshal(metadataJSON, &record.Metadata)
			if err != nil {
				return nil, fmt.Errorf("unmarshal metadata: %w", err)
			}
		}

		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	s.logger.Info("closing-postgres-store")
	return s.db.Close()
}
