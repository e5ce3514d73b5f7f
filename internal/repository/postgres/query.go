package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/coursehub-service/internal/pagination"
	"github.com/maxviazov/coursehub-service/internal/repository"
)

// where is the WHERE clause and its arguments for one filter. It is built once
// per list call and handed to both the COUNT and the SELECT, so the two can
// never disagree on which rows match.
type where struct {
	conds []string
	args  []any
}

// add appends a condition. Each '?' in cond becomes the next $n placeholder
// and consumes one argument.
func (s *where) add(cond string, args ...any) {
	var b strings.Builder
	next := 0
	for _, r := range cond {
		if r == '?' && next < len(args) {
			s.args = append(s.args, args[next])
			next++
			b.WriteString("$" + strconv.Itoa(len(s.args)))
			continue
		}
		b.WriteRune(r)
	}
	s.conds = append(s.conds, b.String())
}

func (s where) clause() string {
	if len(s.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(s.conds, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching term anywhere, with LIKE
// wildcards in term taken literally.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// table describes how one entity is stored and scanned.
type table[T any] struct {
	name    string
	columns string
	scan    func(row pgx.Row) (T, error)
}

// orderBy renders the ORDER BY list. Unknown fields fall back to the entity
// default so nothing unvalidated ever reaches the SQL text; id is always the
// last key.
func orderBy(s repository.Sort, allowed []string) string {
	s = repository.SortOrDefault(s, allowed)
	if !repository.IsSortable(s.Field, allowed) {
		s.Field = allowed[0]
	}
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	return s.Field + " " + dir + ", id " + dir
}

// listSource implements pagination.Source over one table.
type listSource[T any] struct {
	pool  *pgxpool.Pool
	table table[T]
	order string
}

func (s listSource[T]) Count(ctx context.Context, sp where) (int, error) {
	var n int
	err := getQ(ctx, s.pool).
		QueryRow(ctx, "SELECT COUNT(*) FROM "+s.table.name+sp.clause(), sp.args...).
		Scan(&n)
	if err != nil {
		return 0, repository.MapPgError(err)
	}
	return n, nil
}

func (s listSource[T]) Fetch(ctx context.Context, sp where, w pagination.Window) ([]T, error) {
	n := len(sp.args)
	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s LIMIT $%d OFFSET $%d",
		s.table.columns, s.table.name, sp.clause(), s.order, n+1, n+2)
	args := make([]any, 0, n+2)
	args = append(args, sp.args...)
	args = append(args, w.Take, w.Skip)

	rows, err := getQ(ctx, s.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()

	out := make([]T, 0, min(w.Take, 64))
	for rows.Next() {
		it, err := s.table.scan(rows)
		if err != nil {
			return nil, repository.MapPgError(err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

// listPage runs the list-query contract for one table. Count and fetch go out
// in parallel on the pool, sequentially inside a transaction.
func listPage[T any](ctx context.Context, pool *pgxpool.Pool, t table[T], sp where, sort repository.Sort, allowed []string, req pagination.Request) (pagination.Result[T], error) {
	if err := ensurePool(pool); err != nil {
		return pagination.Result[T]{}, err
	}
	src := listSource[T]{pool: pool, table: t, order: orderBy(sort, allowed)}
	return pagination.List[T, where](ctx, src, sp, req, pagination.Concurrently(!inTx(ctx)))
}

// getByID loads one row by primary key; a missing row is ErrNotFound.
func getByID[T any](ctx context.Context, pool *pgxpool.Pool, t table[T], id int64) (T, error) {
	var zero T
	if err := ensurePool(pool); err != nil {
		return zero, err
	}
	row := getQ(ctx, pool).QueryRow(ctx, "SELECT "+t.columns+" FROM "+t.name+" WHERE id = $1", id)
	return scanOne(row, t.scan)
}

func scanOne[T any](row pgx.Row, scan func(pgx.Row) (T, error)) (T, error) {
	it, err := scan(row)
	if err != nil {
		var zero T
		return zero, repository.MapPgError(err)
	}
	return it, nil
}
