package veloxq

import (
	"strconv"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/syssam/veloxq/expr"
)

// Derived is a statement embedded as a source of another statement.
//
// Its columns are the statement projection under their output names: the
// column name for plain columns and the synthesized alias for computed
// expressions.
type Derived struct {
	stmt  *Statement
	alias string
	cols  []expr.Expr
	keys  map[string]int
}

// As embeds the statement as a derived source named alias.
func (s *Statement) As(alias string) *Derived {
	st := s.clone()
	st.fields = s.output()
	st.all = false
	seen := make(map[string]bool, len(st.fields))
	for i, f := range st.fields {
		if name := f.name(); seen[name] {
			st.fields[i].as = name + "_" + strconv.Itoa(i+1)
		}
		seen[st.fields[i].name()] = true
	}
	d := &Derived{stmt: st, alias: alias, keys: make(map[string]int, len(st.fields))}
	for i, f := range st.fields {
		d.cols = append(d.cols, f.e.(expr.Projector).Project(d, f.name()))
		if _, ok := d.keys[f.e.String()]; !ok {
			d.keys[f.e.String()] = i
		}
	}
	return d
}

// Statement returns the embedded statement.
func (d *Derived) Statement() *Statement { return d.stmt }

// RelationName returns the alias of the derived source.
func (d *Derived) RelationName() string { return d.alias }

// Columns returns the output columns of the derived source.
func (d *Derived) Columns() []expr.Expr { return d.cols }

func (d *Derived) String() string { return "(" + d.stmt.String() + ") AS " + d.alias }

func (d *Derived) ref(e expr.Expr) (expr.Expr, bool) {
	i, ok := d.keys[e.String()]
	if !ok {
		return nil, false
	}
	return d.cols[i], true
}

func (*Derived) tableName() string { return "" }

func (*Derived) foreignKeys() []foreignKey { return nil }

func (d *Derived) view(r *renderer, _ bool) (entsql.TableView, error) {
	sel, err := r.selector(d.stmt, nil)
	if err != nil {
		return nil, err
	}
	return sel.As(d.alias), nil
}

var _ Source = (*Derived)(nil)
