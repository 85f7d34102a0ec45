package veloxq

import (
	"fmt"
	"strings"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/syssam/veloxq/expr"
)

// Row is one decoded result row. Values are looked up by the identity of
// the expression that produced them, not by column name.
type Row struct {
	exprs  []expr.Expr
	values []any
	index  map[string]int
}

// newRow returns an empty row shaped for the given select list.
func newRow(exprs []expr.Expr) Row {
	index := make(map[string]int, len(exprs))
	for i, e := range exprs {
		if _, ok := index[rowKey(e)]; !ok {
			index[rowKey(e)] = i
		}
	}
	return Row{exprs: exprs, index: index}
}

// rowKey identifies e within a row. The Go type keeps apart expressions
// that render alike but decode to different types, such as int and int64
// literals of the same value.
func rowKey(e expr.Expr) string {
	return fmt.Sprintf("%T:%s", e, e)
}

// scan reads the current row of rows.
func (r Row) scan(rows *entsql.Rows) (Row, error) {
	dests := make([]any, len(r.exprs))
	for i, e := range r.exprs {
		dests[i] = e.(expr.Decoder).NewDest()
	}
	if err := rows.Scan(dests...); err != nil {
		return Row{}, err
	}
	values := make([]any, len(dests))
	for i, e := range r.exprs {
		values[i] = e.(expr.Decoder).FromDest(dests[i])
	}
	return Row{exprs: r.exprs, values: values, index: r.index}, nil
}

// Len returns the number of values in the row.
func (r Row) Len() int { return len(r.values) }

// Exprs returns the expressions of the row, in select list order.
func (r Row) Exprs() []expr.Expr { return r.exprs }

// Has reports whether the row holds a value for e.
func (r Row) Has(e expr.Expr) bool {
	_, ok := r.index[rowKey(e)]
	return ok
}

// Value returns the value produced by e.
func (r Row) Value(e expr.Expr) (any, error) {
	i, ok := r.index[rowKey(e)]
	if !ok || i >= len(r.values) {
		return nil, &NotSelectedError{expr: e.String()}
	}
	return r.values[i], nil
}

func (r Row) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, v := range r.values {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", r.exprs[i], v)
	}
	b.WriteByte('}')
	return b.String()
}

// Get returns the value produced by e in r.
func Get[T any](r Row, e expr.Typed[T]) (T, error) {
	v, err := r.Value(e)
	if err != nil {
		var zero T
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("veloxq: value of %s has type %T", e, v)
	}
	return t, nil
}

// MustGet is like Get but panics if the row does not hold e.
func MustGet[T any](r Row, e expr.Typed[T]) T {
	v, err := Get(r, e)
	if err != nil {
		panic(err)
	}
	return v
}
