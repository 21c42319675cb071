package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jaekwang-park/todo-app/internal/model"
)

// NewDB opens and pings a postgres connection pool.
func NewDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// PostgresGateway stores records as JSONB documents in a per-namespace schema.
type PostgresGateway struct {
	db    *sql.DB
	table string
}

func NewPostgres(db *sql.DB, namespace string) *PostgresGateway {
	return &PostgresGateway{
		db:    db,
		table: pq.QuoteIdentifier(namespace) + ".documents",
	}
}

// Migrate creates the namespace schema and the documents table if they are missing.
func (g *PostgresGateway) Migrate(ctx context.Context, namespace string) error {
	stmts := []string{
		`CREATE SCHEMA IF NOT EXISTS ` + pq.QuoteIdentifier(namespace),
		`CREATE TABLE IF NOT EXISTS ` + g.table + ` (
			resource   TEXT        NOT NULL,
			id         TEXT        NOT NULL,
			body       JSONB       NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (resource, id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := g.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate documents table: %w", err)
		}
	}
	return nil
}

func (g *PostgresGateway) Select(ctx context.Context, resource string) ([]model.TodoRecord, error) {
	query := `SELECT id, body FROM ` + g.table + ` WHERE resource = $1 ORDER BY id`

	rows, err := g.db.QueryContext(ctx, query, resource)
	if err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", resource, err)
	}
	defer rows.Close()

	records := []model.TodoRecord{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", resource, err)
	}

	return records, nil
}

func (g *PostgresGateway) Create(ctx context.Context, resource string, record model.TodoRecord) (model.TodoRecord, error) {
	body, err := json.Marshal(toDocument(record))
	if err != nil {
		return model.TodoRecord{}, fmt.Errorf("failed to encode record: %w", err)
	}

	oid := primitive.NewObjectID()
	query := `INSERT INTO ` + g.table + ` (resource, id, body) VALUES ($1, $2, $3)`

	if _, err := g.db.ExecContext(ctx, query, resource, oid.Hex(), body); err != nil {
		return model.TodoRecord{}, fmt.Errorf("failed to create %s: %w", resource, err)
	}

	record.ID = &oid
	return record, nil
}

func (g *PostgresGateway) Delete(ctx context.Context, thing model.Thing) error {
	query := `DELETE FROM ` + g.table + ` WHERE resource = $1 AND id = $2`

	if _, err := g.db.ExecContext(ctx, query, thing.Resource, thing.ID.Hex()); err != nil {
		return fmt.Errorf("failed to delete %s: %w", thing, err)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (model.TodoRecord, error) {
	var (
		id   string
		body []byte
	)
	if err := row.Scan(&id, &body); err != nil {
		return model.TodoRecord{}, fmt.Errorf("failed to scan record: %w", err)
	}
	return decodeRecord(id, body)
}

func decodeRecord(id string, body []byte) (model.TodoRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.TodoRecord{}, fmt.Errorf("invalid record id %q: %w", id, err)
	}
	var doc document
	if err := json.Unmarshal(body, &doc); err != nil {
		return model.TodoRecord{}, fmt.Errorf("failed to decode record %s: %w", id, err)
	}
	return model.TodoRecord{ID: &oid, Title: doc.Title, Completed: doc.Completed}, nil
}

// ensure compile-time interface compliance
var _ Gateway = (*PostgresGateway)(nil)
