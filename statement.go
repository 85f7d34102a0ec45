package veloxq

import (
	"slices"
	"strconv"

	"github.com/syssam/veloxq/expr"
)

// Statement is a composed SELECT statement.
//
// A Statement is never modified in place: every transform returns a new
// Statement. Filtering, grouping, ordering and distinctness applied after
// a limit or offset operate on the paged rows. The paged statement is
// wrapped as a derived table and later expressions are re-targeted to it.
type Statement struct {
	from       origin
	fields     []field
	all        bool
	where      expr.Predicate
	group      []expr.Expr
	having     expr.Predicate
	order      []expr.Order
	distinct   bool
	distinctOn []expr.Expr
	limit      *int
	offset     *int
	depth      int
}

// Transform is a deferred operation over a statement.
type Transform func(*Statement) *Statement

// field is a projected expression with an optional output alias.
type field struct {
	e  expr.Expr
	as string
}

// name returns the output column name of the field.
func (f field) name() string {
	if f.as != "" {
		return f.as
	}
	if c, ok := f.e.(expr.ColumnRef); ok {
		return c.Name()
	}
	return f.e.String()
}

// origin is the FROM part of a statement.
type origin interface {
	// columns returns the columns visible to the statement.
	columns() []expr.Expr
}

type join struct {
	src  Source
	kind JoinKind
	on   expr.Predicate
}

// combined is a left fold of sources and joins.
type combined struct {
	root  Source
	joins []join
}

func (c *combined) columns() []expr.Expr {
	cols := slices.Clone(c.root.Columns())
	for _, j := range c.joins {
		cols = append(cols, j.src.Columns()...)
	}
	return cols
}

// wrapped is a statement used as the derived table of its successor.
type wrapped struct {
	inner   *Statement
	alias   string
	exposed []field
	names   map[string]expr.Expr
}

func (w *wrapped) RelationName() string { return w.alias }

func (w *wrapped) columns() []expr.Expr {
	cols := make([]expr.Expr, len(w.exposed))
	for i, f := range w.exposed {
		cols[i] = f.e
	}
	return cols
}

func (s *Statement) clone() *Statement {
	st := *s
	st.fields = slices.Clone(s.fields)
	st.group = slices.Clone(s.group)
	st.order = slices.Clone(s.order)
	st.distinctOn = slices.Clone(s.distinctOn)
	return &st
}

// Columns returns the columns visible to the statement: those of its
// sources, or those exposed by the paged statement it wraps.
func (s *Statement) Columns() []expr.Expr {
	return s.from.columns()
}

// Projection returns the expressions the statement selects, in order.
func (s *Statement) Projection() []expr.Expr {
	out := s.output()
	es := make([]expr.Expr, len(out))
	for i, f := range out {
		es[i] = f.e
	}
	return es
}

// output returns the select list of the statement.
func (s *Statement) output() []field {
	if !s.all {
		return slices.Clone(s.fields)
	}
	cols := s.from.columns()
	fields := make([]field, len(cols))
	for i, c := range cols {
		fields[i] = field{e: c}
	}
	return fields
}

func (s *Statement) paged() bool {
	return s.limit != nil || s.offset != nil
}

// next returns the statement a row-level transform is applied to.
func (s *Statement) next() *Statement {
	if s.paged() {
		return s.wrap()
	}
	return s.clone()
}

// wrap embeds s as the derived table of a new statement selecting the same
// output. The derived table exposes the output of s and, when grouping and
// distinctness allow it, every column visible to s.
func (s *Statement) wrap() *Statement {
	out := s.output()
	var exposed []expr.Expr
	for _, f := range out {
		exposed = append(exposed, f.e)
	}
	switch {
	case s.distinct:
	case len(s.group) > 0 || slices.ContainsFunc(exposed, expr.IsAggregate):
		exposed = append(exposed, s.group...)
	default:
		exposed = append(s.from.columns(), exposed...)
	}
	w := &wrapped{
		inner: s,
		alias: "sq" + strconv.Itoa(s.depth+1),
		names: make(map[string]expr.Expr, len(exposed)),
	}
	for _, e := range exposed {
		key := e.String()
		if _, ok := w.names[key]; ok {
			continue
		}
		name := "__c" + strconv.Itoa(len(w.exposed)+1)
		w.exposed = append(w.exposed, field{e: e, as: name})
		w.names[key] = e.(expr.Projector).Project(w, name)
	}
	return &Statement{from: w, fields: out, depth: s.depth + 1}
}

// Where returns a statement filtered by p. Multiple filters are AND-ed.
func (s *Statement) Where(p expr.Predicate) *Statement {
	if p == nil {
		return s
	}
	st := s.next()
	st.where = expr.And(st.where, p)
	return st
}

// GroupBy returns a statement grouped by es.
func (s *Statement) GroupBy(es ...expr.Expr) *Statement {
	st := s.next()
	st.group = append(st.group, es...)
	return st
}

// Having returns a statement whose groups are filtered by p. Multiple
// filters are AND-ed.
func (s *Statement) Having(p expr.Predicate) *Statement {
	if p == nil {
		return s
	}
	st := s.next()
	st.having = expr.And(st.having, p)
	return st
}

// OrderBy returns a statement ordered by os, after any ordering already
// declared.
func (s *Statement) OrderBy(os ...expr.Order) *Statement {
	st := s.next()
	st.order = append(st.order, os...)
	return st
}

// Distinct returns a statement that drops duplicate rows.
func (s *Statement) Distinct() *Statement {
	st := s.next()
	st.distinct = true
	return st
}

// DistinctOn returns a statement keeping one row per distinct value of es.
func (s *Statement) DistinctOn(es ...expr.Expr) *Statement {
	st := s.next()
	st.distinctOn = append(st.distinctOn, es...)
	return st
}

// Limit returns a statement returning at most n rows.
func (s *Statement) Limit(n int) *Statement {
	st := s.clone()
	st.limit = &n
	return st
}

// Offset returns a statement skipping the first n rows.
func (s *Statement) Offset(n int) *Statement {
	st := s.clone()
	st.offset = &n
	return st
}

// String returns the statement rendered for PostgreSQL.
func (s *Statement) String() string {
	query, _, err := s.SQL("postgres")
	if err != nil {
		return err.Error()
	}
	return query
}
