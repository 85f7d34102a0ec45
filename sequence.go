package veloxq

import (
	"context"
	"iter"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// Executor runs statements. ent's *sql.Driver and the drivers of the
// dialect/sql package implement it. Use Bind for a transaction.
type Executor interface {
	Query(ctx context.Context, query string, args, v any) error
	Dialect() string
}

// Bind returns an Executor running statements for the given dialect on q,
// typically a dialect.Tx.
func Bind(q dialect.ExecQuerier, dialectName string) Executor {
	return &bound{ExecQuerier: q, dialect: dialectName}
}

type bound struct {
	dialect.ExecQuerier
	dialect string
}

func (b *bound) Dialect() string { return b.dialect }

type executionKey struct{}

// ExecutionID returns the id of the sequence traversal whose statement is
// executed with ctx. Executors use it to correlate statements with the
// debug log of the traversal.
func ExecutionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(executionKey{}).(string)
	return id, ok
}

// Sequence is a lazily executed query. Every traversal runs the statement
// again and decodes the produced rows.
type Sequence[T any] struct {
	stmt   *Statement
	result Result[T]
	cfg    config
}

// Statement returns the resolved statement.
func (q *Sequence[T]) Statement() *Statement { return q.stmt }

// SQL renders the statement for the given dialect.
func (q *Sequence[T]) SQL(d string) (string, []any, error) { return q.stmt.SQL(d) }

// All returns an iterator over the decoded rows. Iteration stops after the
// first error, which is yielded with the zero value of T. Errors returned by
// the executor are yielded unchanged.
func (q *Sequence[T]) All(ctx context.Context, ex Executor) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		query, args, err := q.stmt.SQL(ex.Dialect())
		if err != nil {
			yield(zero, err)
			return
		}
		id := uuid.NewString()
		ctx := context.WithValue(ctx, executionKey{}, id)
		q.cfg.logger.DebugContext(ctx, "veloxq: executing query", "id", id, "query", query, "args", len(args))
		start := time.Now()
		rows := &entsql.Rows{}
		if err := ex.Query(ctx, query, args, rows); err != nil {
			q.cfg.logger.DebugContext(ctx, "veloxq: query failed", "id", id, "error", err)
			yield(zero, err)
			return
		}
		defer rows.Close()
		shape := newRow(q.stmt.Projection())
		n := 0
		for rows.Next() {
			row, err := shape.scan(rows)
			if err != nil {
				yield(zero, err)
				return
			}
			v, err := q.result.decode(row)
			if !yield(v, err) || err != nil {
				return
			}
			n++
		}
		if err := rows.Err(); err != nil {
			yield(zero, err)
			return
		}
		q.cfg.logger.DebugContext(ctx, "veloxq: query done", "id", id, "rows", n, "duration", time.Since(start))
	}
}

// Collect executes the query and returns every decoded row.
func (q *Sequence[T]) Collect(ctx context.Context, ex Executor) ([]T, error) {
	var vs []T
	for v, err := range q.All(ctx, ex) {
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, nil
}

// First executes the query and returns the first decoded row. It returns a
// NotFoundError when the query produces no rows.
func (q *Sequence[T]) First(ctx context.Context, ex Executor) (T, error) {
	for v, err := range q.All(ctx, ex) {
		return v, err
	}
	var zero T
	return zero, NewNotFoundError("row")
}

// CollectCached is like Collect but serves the result from c when a result
// of the same rendered statement is cached. Results are stored msgpack
// encoded for ttl, so T must be encodable by msgpack.
func (q *Sequence[T]) CollectCached(ctx context.Context, ex Executor, c Cache, ttl time.Duration) ([]T, error) {
	query, args, err := q.stmt.SQL(ex.Dialect())
	if err != nil {
		return nil, err
	}
	key, err := CacheKey{Dialect: Dialect(ex.Dialect()), Query: query, Args: args}.Hash()
	if err != nil {
		return nil, err
	}
	data, err := c.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if data != nil {
		var vs []T
		if err := msgpack.Unmarshal(data, &vs); err != nil {
			return nil, err
		}
		q.cfg.logger.DebugContext(ctx, "veloxq: cache hit", "key", key, "rows", len(vs))
		return vs, nil
	}
	vs, err := q.Collect(ctx, ex)
	if err != nil {
		return nil, err
	}
	if data, err = msgpack.Marshal(vs); err != nil {
		return nil, err
	}
	if err := c.Set(ctx, key, data, ttl); err != nil {
		return nil, err
	}
	return vs, nil
}
