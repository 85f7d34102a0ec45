package veloxq

import (
	"fmt"
	"reflect"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/go-openapi/inflect"

	"github.com/syssam/veloxq/expr"
)

// Table is a database table usable as a query source.
//
// Typed table handles embed *Table and hold their columns as fields:
//
//	type Films struct {
//	    *veloxq.Table
//	    ID   *expr.Column[int64]
//	    Name *expr.Column[string]
//	}
//
//	func NewFilms() *Films {
//	    t := veloxq.NewTable("films")
//	    return &Films{
//	        Table: t,
//	        ID:    veloxq.Column[int64](t, "id"),
//	        Name:  veloxq.Column[string](t, "name"),
//	    }
//	}
type Table struct {
	name    string
	alias   string
	columns []expr.Expr
	fks     []foreignKey
}

// NewTable returns a table with the given name and no columns.
func NewTable(name string) *Table {
	return &Table{name: name}
}

// TableFor returns a table named after the entity type E: the type name
// pluralized and converted to snake case. StarWarsFilm becomes star_wars_films.
func TableFor[E any]() *Table {
	t := reflect.TypeFor[E]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return NewTable(inflect.Underscore(inflect.Pluralize(t.Name())))
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Alias returns the table alias, or "" if the table is not aliased.
func (t *Table) Alias() string { return t.alias }

// RelationName returns the name columns are qualified with.
func (t *Table) RelationName() string {
	if t.alias != "" {
		return t.alias
	}
	return t.name
}

// Columns returns the table columns in declaration order.
func (t *Table) Columns() []expr.Expr { return t.columns }

// As returns a copy of the table under the given alias. Every column and
// foreign key of t is re-bound to the alias.
func (t *Table) As(alias string) *Table {
	a := &Table{name: t.name, alias: alias}
	for _, c := range t.columns {
		a.columns = append(a.columns, c.(expr.Projector).Project(a, c.(expr.ColumnRef).Name()))
	}
	for _, fk := range t.fks {
		c, _ := a.column(fk.column.(expr.ColumnRef).Name())
		a.fks = append(a.fks, foreignKey{column: c, target: fk.target, targetColumn: fk.targetColumn})
	}
	return a
}

func (t *Table) String() string {
	if t.alias != "" {
		return t.name + " AS " + t.alias
	}
	return t.name
}

func (t *Table) column(name string) (expr.Expr, bool) {
	for _, c := range t.columns {
		if c.(expr.ColumnRef).Name() == name {
			return c, true
		}
	}
	return nil, false
}

func (t *Table) ref(e expr.Expr) (expr.Expr, bool) {
	c, ok := e.(expr.ColumnRef)
	if !ok {
		return nil, false
	}
	return t.column(c.Name())
}

func (t *Table) tableName() string { return t.name }

func (t *Table) foreignKeys() []foreignKey { return t.fks }

// view returns t as an ent table. ent names unaliased joined tables t1, t2
// and so on, so a joined table is always aliased, by its name if need be.
func (t *Table) view(_ *renderer, joined bool) (entsql.TableView, error) {
	v := entsql.Table(t.name)
	if t.alias != "" || joined {
		v = v.As(t.RelationName())
	}
	return v, nil
}

// Column declares a column of t. Declaring a name twice returns the column
// declared first.
func Column[T any](t *Table, name string) *expr.Column[T] {
	if c, ok := t.column(name); ok {
		col, ok := c.(*expr.Column[T])
		if !ok {
			panic(fmt.Sprintf("veloxq: column %s.%s redeclared with type %T", t.RelationName(), name, *new(T)))
		}
		return col
	}
	c := expr.NewColumn[T](t, name)
	t.columns = append(t.columns, c)
	return c
}

// Reference declares a column of t that references the target column of
// another table. Joins declared without a condition use it to infer one.
func Reference[T any](t *Table, name string, target *expr.Column[T]) *expr.Column[T] {
	c := Column[T](t, name)
	rel, ok := target.Relation().(*Table)
	if !ok {
		panic(fmt.Sprintf("veloxq: %s does not reference a table column", target))
	}
	t.fks = append(t.fks, foreignKey{column: c, target: rel.name, targetColumn: target.Name()})
	return c
}

var _ Source = (*Table)(nil)
