package veloxq

import (
	"strconv"

	"github.com/syssam/veloxq/expr"
)

// Scope accumulates the description of a query: its sources, the transforms
// applied to it and the projection it selects. A Scope is built by a query
// body and resolved once into a Statement.
type Scope struct {
	sources    []sourceDesc
	transforms []Transform
	sel        selector
	cfg        config
}

// sourceDesc is a declared root source or join.
type sourceDesc struct {
	src  Source
	root bool
	kind JoinKind
	on   func() expr.Predicate
}

// selector is the projection of the scope: every visible column, or an
// explicit expression list.
type selector struct {
	all   bool
	exprs []expr.Expr
}

// NewScope returns an empty scope.
func NewScope(opts ...Option) *Scope {
	return &Scope{
		sel: selector{all: true},
		cfg: newConfig(opts),
	}
}

// From declares src as a root source of the query and returns it.
// Root sources after the first are combined with the running source using
// the configured source join, with no condition.
func From[S Source](s *Scope, src S) S {
	s.sources = append(s.sources, sourceDesc{src: src, root: true})
	return src
}

// Join declares a join with src and returns it. The condition is built by
// on from the joined source when the query is resolved. A nil on infers the
// condition from the foreign keys declared between src and the sources
// before it.
func Join[S Source](s *Scope, src S, kind JoinKind, on func(S) expr.Predicate) S {
	d := sourceDesc{src: src, kind: kind}
	if on != nil {
		d.on = func() expr.Predicate { return on(src) }
	}
	s.sources = append(s.sources, d)
	return src
}

// InnerJoin declares an inner join with src.
func InnerJoin[S Source](s *Scope, src S, on func(S) expr.Predicate) S {
	return Join(s, src, JoinInner, on)
}

// LeftJoin declares a left outer join with src.
func LeftJoin[S Source](s *Scope, src S, on func(S) expr.Predicate) S {
	return Join(s, src, JoinLeft, on)
}

// RightJoin declares a right outer join with src.
func RightJoin[S Source](s *Scope, src S, on func(S) expr.Predicate) S {
	return Join(s, src, JoinRight, on)
}

// FullJoin declares a full outer join with src.
func FullJoin[S Source](s *Scope, src S, on func(S) expr.Predicate) S {
	return Join(s, src, JoinFull, on)
}

// CrossJoin declares a cross join with src.
func CrossJoin[S Source](s *Scope, src S) S {
	return Join[S](s, src, JoinCross, nil)
}

// Using registers a transform. Transforms apply in registration order.
func (s *Scope) Using(t Transform) {
	s.transforms = append(s.transforms, t)
}

// Where filters the query by p.
func (s *Scope) Where(p expr.Predicate) {
	s.Using(func(st *Statement) *Statement { return st.Where(p) })
}

// GroupBy groups the query by es.
func (s *Scope) GroupBy(es ...expr.Expr) {
	s.Using(func(st *Statement) *Statement { return st.GroupBy(es...) })
}

// Having filters the groups of the query by p.
func (s *Scope) Having(p expr.Predicate) {
	s.Using(func(st *Statement) *Statement { return st.Having(p) })
}

// OrderBy orders the query by os.
func (s *Scope) OrderBy(os ...expr.Order) {
	s.Using(func(st *Statement) *Statement { return st.OrderBy(os...) })
}

// WithDistinct drops duplicate rows.
func (s *Scope) WithDistinct() {
	s.Using((*Statement).Distinct)
}

// WithDistinctOn keeps one row per distinct value of es.
func (s *Scope) WithDistinctOn(es ...expr.Expr) {
	s.Using(func(st *Statement) *Statement { return st.DistinctOn(es...) })
}

// Limit returns at most n rows.
func (s *Scope) Limit(n int) {
	s.Using(func(st *Statement) *Statement { return st.Limit(n) })
}

// Offset skips the first n rows.
func (s *Scope) Offset(n int) {
	s.Using(func(st *Statement) *Statement { return st.Offset(n) })
}

// Resolve builds the statement described by the scope.
func (s *Scope) Resolve() (*Statement, error) {
	if len(s.sources) == 0 {
		return nil, newBuildError(ErrNoSource)
	}
	if !s.sources[0].root {
		return nil, newBuildError(ErrJoinBeforeFrom)
	}
	c := &combined{root: s.sources[0].src}
	prev := []Source{c.root}
	for _, d := range s.sources[1:] {
		j := join{src: d.src, kind: d.kind}
		switch {
		case d.root:
			j.kind = s.cfg.sourceJoin
		case d.on != nil:
			j.on = d.on()
		case d.kind != JoinCross:
			on, err := inferJoin(prev, d.src)
			if err != nil {
				return nil, newBuildError(err)
			}
			j.on = on
		}
		c.joins = append(c.joins, j)
		prev = append(prev, d.src)
	}
	st := &Statement{from: c, all: s.sel.all}
	if !s.sel.all {
		n := 0
		for _, e := range s.sel.exprs {
			f := field{e: e}
			if !expr.IsColumn(e) {
				n++
				f.as = s.cfg.aliasPrefix + strconv.Itoa(n)
			}
			st.fields = append(st.fields, f)
		}
	}
	for _, t := range s.transforms {
		if st = t(st); st == nil {
			return nil, newBuildError(ErrNilStatement)
		}
	}
	return st, nil
}
