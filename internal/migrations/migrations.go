// Package migrations embeds the schema files and applies them in name order.
// Every file must be idempotent; there is no version table.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed *.sql
var files embed.FS

// Names returns the embedded migration file names in apply order.
func Names() ([]string, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Apply executes every embedded migration against db.
func Apply(ctx context.Context, db *pgxpool.Pool) error {
	names, err := Names()
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	for _, name := range names {
		b, err := files.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read file %s: %w", name, err)
		}
		if _, err := db.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}
	return nil
}

// Tables lists the tables the API cannot run without.
var Tables = []string{"users", "books", "tasks"}

// Row is satisfied by *pgxpool.Pool.
type Row interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Missing returns the entries of Tables that do not exist in the current schema.
func Missing(ctx context.Context, db Row) ([]string, error) {
	var missing []string
	err := db.QueryRow(ctx,
		`SELECT COALESCE(array_agg(t), '{}')
		 FROM unnest($1::text[]) AS t
		 WHERE to_regclass(t) IS NULL`,
		Tables,
	).Scan(&missing)
	if err != nil {
		return nil, fmt.Errorf("check tables: %w", err)
	}
	return missing, nil
}
