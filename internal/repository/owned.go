package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool the repositories use. Each call
// checks a connection out of the pool and returns it when the rows are closed.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Table describes a table whose rows belong to exactly one user via user_id.
type Table struct {
	Name    string
	Columns []string
	// Sortable maps accepted sort_by values to column names.
	Sortable map[string]string
}

// Field is a column assignment for inserts and updates.
type Field struct {
	Column string
	Value  any
}

type FilterOp int

const (
	// Contains is a case-insensitive substring match.
	Contains FilterOp = iota
	Equals
)

// Filter restricts a listing. A Contains filter with an empty value and an
// Equals filter with a nil value are ignored.
type Filter struct {
	Column string
	Op     FilterOp
	Value  any
}

type ListQuery struct {
	Filters   []Filter
	SortBy    string
	SortOrder string
	Offset    int
	// Limit nil means no limit.
	Limit *int
}

// OwnedStore runs owner-scoped statements against a single table and scans
// rows into T by db tag. Every statement filters on user_id, so rows that
// belong to another user look exactly like missing rows.
type OwnedStore[T any] struct {
	db    DBTX
	table Table
}

func NewOwnedStore[T any](db DBTX, table Table) *OwnedStore[T] {
	return &OwnedStore[T]{db: db, table: table}
}

func (s *OwnedStore[T]) columns() string {
	return strings.Join(s.table.Columns, ", ")
}

// Insert stores a new row stamped with owner and returns it.
func (s *OwnedStore[T]) Insert(ctx context.Context, owner int64, fields []Field) (*T, error) {
	cols := make([]string, 0, len(fields)+1)
	marks := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+1)
	for _, f := range fields {
		args = append(args, f.Value)
		cols = append(cols, f.Column)
		marks = append(marks, fmt.Sprintf("$%d", len(args)))
	}
	args = append(args, owner)
	cols = append(cols, "user_id")
	marks = append(marks, fmt.Sprintf("$%d", len(args)))

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
		s.table.Name, strings.Join(cols, ", "), strings.Join(marks, ", "), s.columns())
	return s.one(ctx, query, args...)
}

func (s *OwnedStore[T]) Get(ctx context.Context, owner, id int64) (*T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND user_id = $2`, s.columns(), s.table.Name)
	return s.one(ctx, query, id, owner)
}

func (s *OwnedStore[T]) List(ctx context.Context, owner int64, q ListQuery) ([]*T, error) {
	query, args := s.listSQL(owner, q)
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.table.Name, err)
	}
	res, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.table.Name, err)
	}
	return res, nil
}

// Update changes only the given fields. With no fields it returns the current row.
func (s *OwnedStore[T]) Update(ctx context.Context, owner, id int64, fields []Field) (*T, error) {
	if len(fields) == 0 {
		return s.Get(ctx, owner, id)
	}
	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+2)
	for _, f := range fields {
		args = append(args, f.Value)
		sets = append(sets, fmt.Sprintf("%s = $%d", f.Column, len(args)))
	}
	args = append(args, id, owner)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d AND user_id = $%d RETURNING %s`,
		s.table.Name, strings.Join(sets, ", "), len(args)-1, len(args), s.columns())
	return s.one(ctx, query, args...)
}

func (s *OwnedStore[T]) Delete(ctx context.Context, owner, id int64) error {
	tag, err := s.db.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, s.table.Name), id, owner)
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.table.Name, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *OwnedStore[T]) one(ctx context.Context, query string, args ...any) (*T, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table.Name, translate(err))
	}
	v, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return nil, translate(err)
	}
	return v, nil
}

func (s *OwnedStore[T]) listSQL(owner int64, q ListQuery) (string, []any) {
	args := []any{owner}
	where := []string{"user_id = $1"}
	for _, f := range q.Filters {
		switch f.Op {
		case Contains:
			v, _ := f.Value.(string)
			if v == "" {
				continue
			}
			args = append(args, "%"+escapeLike(v)+"%")
			where = append(where, fmt.Sprintf(`%s ILIKE $%d`, f.Column, len(args)))
		case Equals:
			if f.Value == nil {
				continue
			}
			args = append(args, f.Value)
			where = append(where, fmt.Sprintf("%s = $%d", f.Column, len(args)))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s WHERE %s ORDER BY %s",
		s.columns(), s.table.Name, strings.Join(where, " AND "), s.orderBy(q.SortBy, q.SortOrder))
	if q.Limit != nil {
		args = append(args, *q.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}
	return b.String(), args
}

// orderBy falls back to id for unknown sort keys instead of rejecting them.
func (s *OwnedStore[T]) orderBy(sortBy, sortOrder string) string {
	dir := "ASC"
	if sortOrder == "desc" {
		dir = "DESC"
	}
	col, ok := s.table.Sortable[sortBy]
	if !ok || col == "id" {
		return "id " + dir
	}
	return col + " " + dir + ", id ASC"
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
