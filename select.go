package veloxq

import (
	"github.com/syssam/veloxq/expr"
)

// Result decodes rows of a resolved query into values of type T. It is
// returned by the selecting functions of a scope.
type Result[T any] struct {
	decode func(Row) (T, error)
}

// Decode decodes one row.
func (r Result[T]) Decode(row Row) (T, error) {
	return r.decode(row)
}

// Pair holds the values of a two expression selection.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Triple holds the values of a three expression selection.
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// EntityMapper reconstructs an entity from a row holding every column of
// the query sources.
type EntityMapper[E any] interface {
	FromRow(Row) (E, error)
}

// EntityFunc is an adapter to allow the use of ordinary functions as
// EntityMapper.
type EntityFunc[E any] func(Row) (E, error)

// FromRow calls f(row).
func (f EntityFunc[E]) FromRow(row Row) (E, error) {
	return f(row)
}

// selectExprs replaces the projection of the scope with es.
func (s *Scope) selectExprs(es ...expr.Expr) {
	s.sel = selector{exprs: es}
}

// selectAll replaces the projection of the scope with every visible column.
func (s *Scope) selectAll() {
	s.sel = selector{all: true}
}

// Select projects e and decodes its value.
func Select[T any](s *Scope, e expr.Typed[T]) Result[T] {
	s.selectExprs(e)
	return Result[T]{decode: func(row Row) (T, error) {
		return Get(row, e)
	}}
}

// Select2 projects a and b and decodes their values as a pair.
func Select2[A, B any](s *Scope, a expr.Typed[A], b expr.Typed[B]) Result[Pair[A, B]] {
	s.selectExprs(a, b)
	return Result[Pair[A, B]]{decode: func(row Row) (p Pair[A, B], err error) {
		if p.First, err = Get(row, a); err != nil {
			return p, err
		}
		p.Second, err = Get(row, b)
		return p, err
	}}
}

// Select3 projects a, b and c and decodes their values as a triple.
func Select3[A, B, C any](s *Scope, a expr.Typed[A], b expr.Typed[B], c expr.Typed[C]) Result[Triple[A, B, C]] {
	s.selectExprs(a, b, c)
	return Result[Triple[A, B, C]]{decode: func(row Row) (t Triple[A, B, C], err error) {
		if t.First, err = Get(row, a); err != nil {
			return t, err
		}
		if t.Second, err = Get(row, b); err != nil {
			return t, err
		}
		t.Third, err = Get(row, c)
		return t, err
	}}
}

// SelectTuple projects es and returns the rows as they are. Values are read
// with Get.
func SelectTuple(s *Scope, es ...expr.Expr) Result[Row] {
	s.selectExprs(es...)
	return Result[Row]{decode: func(row Row) (Row, error) {
		for _, e := range es {
			if !row.Has(e) {
				return Row{}, &NotSelectedError{expr: e.String()}
			}
		}
		return row, nil
	}}
}

// SelectAs selects every column of the query sources and reconstructs
// entities from the rows with m.
func SelectAs[E any](s *Scope, m EntityMapper[E]) Result[E] {
	s.selectAll()
	return Result[E]{decode: m.FromRow}
}

// SelectRow selects every column of the query sources and returns the rows
// as they are.
func (s *Scope) SelectRow() Result[Row] {
	s.selectAll()
	return Result[Row]{decode: func(row Row) (Row, error) {
		return row, nil
	}}
}
