package veloxq

import (
	"errors"
	"fmt"
	"math"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/syssam/veloxq/expr"
)

// Dialect returns the ent dialect name for d. It accepts the database/sql
// driver names of the supported databases as well.
func Dialect(d string) string {
	switch d {
	case "sqlite", dialect.SQLite:
		return dialect.SQLite
	case "postgresql", "pgx", dialect.Postgres:
		return dialect.Postgres
	default:
		return d
	}
}

// SQL renders the statement for the given dialect.
func (s *Statement) SQL(d string) (string, []any, error) {
	r := &renderer{dialect: Dialect(d)}
	sel, err := r.selector(s, nil)
	if err != nil {
		return "", nil, err
	}
	query, args := sel.Query()
	if r.err != nil {
		return "", nil, r.err
	}
	return query, args, nil
}

// Selector translates the statement into an ent selector for the given
// dialect.
func (s *Statement) Selector(d string) (*entsql.Selector, error) {
	return (&renderer{dialect: Dialect(d)}).selector(s, nil)
}

// renderer translates statements into ent selectors for one dialect.
// Expressions are written when the selector is queried. Errors found at
// that point are kept in err.
type renderer struct {
	dialect string
	err     error
}

func (r *renderer) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *renderer) check(s *Statement) error {
	switch r.dialect {
	case dialect.Postgres, dialect.SQLite, dialect.MySQL:
	default:
		return unsupported(r.dialect, "dialect")
	}
	if s.distinct && len(s.distinctOn) > 0 {
		return fmt.Errorf("%w: DISTINCT together with DISTINCT ON", ErrUnsupported)
	}
	if len(s.distinctOn) > 0 {
		switch {
		case r.dialect == dialect.MySQL:
			return unsupported(r.dialect, "DISTINCT ON")
		case r.dialect == dialect.SQLite && len(s.group) > 0:
			return unsupported(r.dialect, "DISTINCT ON with GROUP BY")
		}
	}
	if r.dialect == dialect.MySQL {
		for _, o := range s.order {
			if o.Direction.Nulls() != "" {
				return unsupported(r.dialect, "NULLS "+o.Direction.Nulls())
			}
		}
	}
	return nil
}

// selector translates s. A non-nil fields overrides the select list of s.
func (r *renderer) selector(s *Statement, fields []field) (*entsql.Selector, error) {
	if s == nil {
		return nil, ErrNilStatement
	}
	if err := r.check(s); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = s.output()
	}
	var names map[string]expr.Expr
	if w, ok := s.from.(*wrapped); ok {
		names = w.names
	}
	sel := entsql.Dialect(r.dialect).SelectExpr(entsql.ExprFunc(func(b *entsql.Builder) {
		if len(s.distinctOn) > 0 && r.dialect == dialect.Postgres {
			b.WriteString("DISTINCT ON (")
			r.list(b, s.distinctOn, names)
			b.WriteString(") ")
		}
		for i, f := range fields {
			if i > 0 {
				b.Comma()
			}
			r.expr(b, f.e, names)
			if as := outputAlias(f, names); as != "" {
				b.WriteString(" AS ").WriteString(b.Quote(as))
			}
		}
	}))
	if s.distinct {
		sel.Distinct()
	}
	if err := r.from(sel, s.from); err != nil {
		return nil, err
	}
	if s.where != nil {
		sel.Where(r.pred(s.where, names))
	}
	group := s.group
	if len(s.distinctOn) > 0 && r.dialect == dialect.SQLite {
		group = s.distinctOn
	}
	if len(group) > 0 {
		columns, err := r.texts(group, names)
		if err != nil {
			return nil, err
		}
		sel.GroupBy(columns...)
	}
	if s.having != nil {
		sel.Having(r.pred(s.having, names))
	}
	for _, o := range s.order {
		sel.OrderExpr(entsql.ExprFunc(func(b *entsql.Builder) {
			r.expr(b, o.Expr, names)
			b.WriteString(" " + o.Direction.String())
		}))
	}
	switch {
	case s.limit != nil:
		sel.Limit(*s.limit)
	case s.offset != nil && r.dialect != dialect.Postgres:
		// SQLite and MySQL accept OFFSET only after LIMIT.
		sel.Limit(math.MaxInt)
	}
	if s.offset != nil {
		sel.Offset(*s.offset)
	}
	return sel, nil
}

// outputAlias returns the alias f is selected under. Columns re-targeted to
// a wrapped statement keep their original name.
func outputAlias(f field, names map[string]expr.Expr) string {
	if f.as != "" {
		return f.as
	}
	if _, ok := names[f.e.String()]; ok {
		if c, ok := f.e.(expr.ColumnRef); ok {
			return c.Name()
		}
	}
	return ""
}

func (r *renderer) from(sel *entsql.Selector, o origin) error {
	switch o := o.(type) {
	case *combined:
		v, err := o.root.view(r, false)
		if err != nil {
			return err
		}
		sel.From(v)
		for _, j := range o.joins {
			v, err := j.src.view(r, true)
			if err != nil {
				return err
			}
			switch j.kind {
			case JoinInner, JoinCross:
				sel.Join(v)
			case JoinLeft:
				sel.LeftJoin(v)
			case JoinRight:
				sel.RightJoin(v)
			case JoinFull:
				if r.dialect == dialect.MySQL {
					return unsupported(r.dialect, "FULL JOIN")
				}
				sel.FullJoin(v)
			default:
				return fmt.Errorf("veloxq: unknown join kind %d", j.kind)
			}
			sel.OnP(r.pred(j.on, nil))
		}
		return nil
	case *wrapped:
		inner, err := r.selector(o.inner, o.exposed)
		if err != nil {
			return err
		}
		sel.From(inner.As(o.alias))
		return nil
	default:
		return fmt.Errorf("veloxq: unknown statement origin %T", o)
	}
}

// pred returns p as an ent predicate. A nil p is always true.
func (r *renderer) pred(p expr.Predicate, names map[string]expr.Expr) *entsql.Predicate {
	return entsql.P(func(b *entsql.Builder) {
		if p == nil {
			b.WriteString("1 = 1")
			return
		}
		r.expr(b, p, names)
	})
}

// texts renders es as plain SQL fragments. Fragments cannot bind arguments.
func (r *renderer) texts(es []expr.Expr, names map[string]expr.Expr) ([]string, error) {
	texts := make([]string, len(es))
	for i, e := range es {
		b := &entsql.Builder{}
		b.SetDialect(r.dialect)
		r.expr(b, e, names)
		query, args := b.Query()
		if len(args) > 0 {
			return nil, fmt.Errorf("veloxq: grouping by %s binds arguments", e)
		}
		texts[i] = query
	}
	return texts, nil
}

func (r *renderer) list(b *entsql.Builder, es []expr.Expr, names map[string]expr.Expr) {
	for i, e := range es {
		if i > 0 {
			b.Comma()
		}
		r.expr(b, e, names)
	}
}

// expr writes e to b. Sub-expressions found in names are replaced by the
// column they map to.
func (r *renderer) expr(b *entsql.Builder, e expr.Expr, names map[string]expr.Expr) {
	if m, ok := names[e.String()]; ok {
		e, names = m, nil
	}
	switch e := e.(type) {
	case expr.ColumnRef:
		if q := e.Qualifier(); q != "" {
			b.WriteString(b.Quote(q)).WriteByte('.')
		}
		b.WriteString(b.Quote(e.Name()))
	case expr.LiteralRef:
		b.Arg(e.Value())
	case expr.FuncRef:
		b.WriteString(e.Name()).WriteByte('(')
		if e.IsDistinct() {
			b.WriteString("DISTINCT ")
		}
		if e.IsStar() {
			b.WriteByte('*')
		}
		r.list(b, e.Args(), names)
		b.WriteByte(')')
	case expr.ArithRef:
		l, rr := e.Operands()
		b.WriteByte('(')
		r.expr(b, l, names)
		b.WriteString(" " + e.Operator() + " ")
		r.expr(b, rr, names)
		b.WriteByte(')')
	case *expr.Compare:
		r.expr(b, e.Left, names)
		b.WriteString(" " + e.Op + " ")
		r.expr(b, e.Right, names)
	case *expr.Logical:
		switch len(e.Operands) {
		case 0:
			if e.Op == expr.OpOr {
				b.WriteString("1 = 0")
			} else {
				b.WriteString("1 = 1")
			}
		case 1:
			r.expr(b, e.Operands[0], names)
		default:
			b.WriteByte('(')
			for i, p := range e.Operands {
				if i > 0 {
					b.WriteString(" " + e.Op + " ")
				}
				r.expr(b, p, names)
			}
			b.WriteByte(')')
		}
	case *expr.Negation:
		b.WriteString("NOT (")
		r.expr(b, e.Operand, names)
		b.WriteByte(')')
	case *expr.NullCheck:
		r.expr(b, e.Operand, names)
		if e.Negate {
			b.WriteString(" IS NOT NULL")
		} else {
			b.WriteString(" IS NULL")
		}
	case *expr.Membership:
		if len(e.Values) == 0 {
			if e.Negate {
				b.WriteString("1 = 1")
			} else {
				b.WriteString("1 = 0")
			}
			return
		}
		r.expr(b, e.Operand, names)
		if e.Negate {
			b.WriteString(" NOT")
		}
		b.WriteString(" IN (")
		r.list(b, e.Values, names)
		b.WriteByte(')')
	case *expr.Match:
		r.expr(b, e.Operand, names)
		if e.Negate {
			b.WriteString(" NOT")
		}
		b.WriteString(" LIKE ")
		r.expr(b, e.Pattern, names)
	default:
		r.fail(errors.New("veloxq: unknown expression " + e.String()))
	}
}
