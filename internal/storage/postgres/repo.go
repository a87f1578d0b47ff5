package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"csvsniff/internal/storage"
)

// Repo implements storage.Repository for Postgres, backed by a pgx
// connection pool.
type Repo struct {
	pool *pgxpool.Pool
}

func init() {
	storage.Register("postgres", New)
}

// New creates a Postgres-backed Repo and validates connectivity.
func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Repo{pool: pool}, nil
}

// Close closes the connection pool.
func (r *Repo) Close() {
	r.pool.Close()
}

// EnsureTable creates the destination table (and its schema, when the name
// is schema-qualified) if missing.
func (r *Repo) EnsureTable(ctx context.Context, spec storage.TableSpec) error {
	schemaSQL, ddl, err := buildCreateSQL(spec)
	if err != nil {
		return err
	}
	if schemaSQL != "" {
		if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema for %s: %w", spec.Name, err)
		}
	}
	if _, err := r.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", spec.Name, err)
	}
	return nil
}

// InsertRows performs a bulk INSERT.
func (r *Repo) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	sql, args := buildInsertSQL(table, columns, rows)
	cmd, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// pgIdent returns a double-quoted identifier, escaping embedded quotes.
func pgIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// pgTableIdent quotes a possibly schema-qualified table name part by part.
func pgTableIdent(name string) string {
	parts := strings.Split(name, ".")
	for i := range parts {
		parts[i] = pgIdent(strings.TrimSpace(parts[i]))
	}
	return strings.Join(parts, ".")
}

// splitQualifiedName splits "public.imports" into ("public", "imports").
// Unqualified names return an empty schema.
func splitQualifiedName(name string) (schema, table string) {
	i := strings.Index(name, ".")
	if i < 0 {
		return "", name
	}
	return strings.TrimSpace(name[:i]), strings.TrimSpace(name[i+1:])
}

// columnType maps a contract type onto a Postgres column type.
func columnType(t string) string {
	switch t {
	case "bigint":
		return "BIGINT"
	case "float":
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}

// buildCreateSQL generates idempotent DDL for the destination table, plus a
// CREATE SCHEMA statement when the table name is schema-qualified.
//
// It is pure and deterministic so quoting and type mapping are unit-testable
// without a database.
func buildCreateSQL(spec storage.TableSpec) (schemaSQL, ddl string, err error) {
	if strings.TrimSpace(spec.Name) == "" {
		return "", "", fmt.Errorf("table name is empty")
	}
	if len(spec.Fields) == 0 {
		return "", "", fmt.Errorf("%s has no columns", spec.Name)
	}

	if schemaName, _ := splitQualifiedName(spec.Name); schemaName != "" {
		schemaSQL = fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s;`, pgIdent(schemaName))
	}

	parts := make([]string, 0, len(spec.Fields))
	for _, f := range spec.Fields {
		parts = append(parts, fmt.Sprintf("%s %s", pgIdent(f.Name), columnType(f.Type)))
	}

	ddl = fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", pgTableIdent(spec.Name), strings.Join(parts, ",\n  "))
	return schemaSQL, ddl, nil
}

// buildInsertSQL constructs a single INSERT statement and its args.
//
// Placeholder numbering is sequential across rows ($1..$N), which is the
// part most worth pinning down in tests.
func buildInsertSQL(table string, columns []string, rows [][]any) (string, []any) {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(pgTableIdent(table))
	b.WriteString(" (")
	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(pgIdent(c))
	}
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(columns))
	p := 1
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j := range columns {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(fmt.Sprintf("$%d", p))
			args = append(args, row[j])
			p++
		}
		b.WriteString(")")
	}
	b.WriteString(";")
	return b.String(), args
}
