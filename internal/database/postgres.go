package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/solar-dashboard/solar-dashboard-backend/internal/domain"
)

const documentsSchema = `
CREATE TABLE IF NOT EXISTS documents (
	seq        BIGSERIAL PRIMARY KEY,
	id         TEXT NOT NULL,
	collection TEXT NOT NULL,
	doc        JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS documents_collection_idx ON documents (collection, seq);`

// PostgresStore keeps every collection in one jsonb table. seq preserves
// insertion order so Find returns documents in store order.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore { return &PostgresStore{db: db} }

// ConnectPostgres opens dsn with the pgx driver and creates the documents table.
func ConnectPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	s := NewPostgresStore(db)
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, documentsSchema); err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}
	return nil
}

// whereClause renders the predicate for collection and filter. Field names are
// bound as parameters, never spliced into the SQL.
func whereClause(collection string, filter domain.Filter) (string, []any) {
	var b strings.Builder
	args := []any{collection}
	b.WriteString("collection = $1")
	for _, k := range filterKeys(filter) {
		args = append(args, k, filter[k])
		fmt.Fprintf(&b, " AND doc->>($%d::text) = $%d", len(args)-1, len(args))
	}
	return b.String(), args
}

func (s *PostgresStore) Find(ctx context.Context, collection string, filter domain.Filter, out any) error {
	where, args := whereClause(collection, filter)
	q := "SELECT doc::text FROM documents WHERE " + where + " ORDER BY seq"

	var rows []string
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return fmt.Errorf("failed to query %s: %w", collection, err)
	}

	docs := make([]json.RawMessage, len(rows))
	for i, r := range rows {
		docs[i] = json.RawMessage(r)
	}
	return decodeAll(docs, out)
}

type documentRow struct {
	ID         string `db:"id"`
	Collection string `db:"collection"`
	Doc        string `db:"doc"`
}

func (s *PostgresStore) Insert(ctx context.Context, collection string, docs ...any) error {
	if len(docs) == 0 {
		return nil
	}

	rows := make([]documentRow, 0, len(docs))
	for _, d := range docs {
		doc, err := toDocument(d)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		rows = append(rows, documentRow{ID: doc["_id"].(string), Collection: collection, Doc: string(raw)})
	}

	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO documents (id, collection, doc) VALUES (:id, :collection, CAST(:doc AS jsonb))`, rows)
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", collection, err)
	}
	return nil
}

func (s *PostgresStore) DeleteMany(ctx context.Context, collection string, filter domain.Filter) error {
	where, args := whereClause(collection, filter)
	if _, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE "+where, args...); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", collection, err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *PostgresStore) Close(context.Context) error { return s.db.Close() }
