package expr

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Expr is a node of the expression tree.
//
// This is a sealed interface - only types in this package implement it.
// The marker method keeps type switches in the SQL renderer exhaustive.
type Expr interface {
	fmt.Stringer
	exprNode()
}

// Decoder creates scan destinations for a typed expression and extracts
// the decoded value back out of them.
type Decoder interface {
	// NewDest returns a fresh destination suitable for (*sql.Rows).Scan.
	NewDest() any
	// FromDest returns the value held by a destination created by NewDest.
	// A NULL column yields the zero value of the expression type.
	FromDest(dest any) any
}

// Projector re-exposes an expression as a column of another relation.
// Aliased tables and derived sources use it to keep column types.
type Projector interface {
	Project(rel Relation, name string) Expr
}

// Typed is an expression producing values of type T.
type Typed[T any] interface {
	Expr
	Decoder
	Projector
	typed() T
}

// Relation is anything a column can be qualified by: a table, an aliased
// table or a derived source.
type Relation interface {
	RelationName() string
}

// typ implements Decoder, Projector and the Typed marker for T.
type typ[T any] struct{}

func (typ[T]) typed() (v T) { return v }

// NewDest implements Decoder.
func (typ[T]) NewDest() any { return new(sql.Null[T]) }

// FromDest implements Decoder.
func (typ[T]) FromDest(dest any) any {
	n, ok := dest.(*sql.Null[T])
	if !ok || !n.Valid {
		var zero T
		return zero
	}
	return n.V
}

// Project implements Projector.
func (typ[T]) Project(rel Relation, name string) Expr {
	return NewColumn[T](rel, name)
}

// ColumnRef is implemented by column references.
type ColumnRef interface {
	Expr
	// Qualifier returns the relation name the column is qualified with.
	Qualifier() string
	// Name returns the unqualified column name.
	Name() string
}

// Column is a typed reference to a column of a relation.
type Column[T any] struct {
	typ[T]
	rel  Relation
	name string
}

// NewColumn returns a column named name that belongs to rel.
// A nil rel yields an unqualified column.
func NewColumn[T any](rel Relation, name string) *Column[T] {
	return &Column[T]{rel: rel, name: name}
}

func (*Column[T]) exprNode() {}

// Relation returns the relation the column belongs to.
func (c *Column[T]) Relation() Relation { return c.rel }

// Qualifier implements ColumnRef.
func (c *Column[T]) Qualifier() string {
	if c.rel == nil {
		return ""
	}
	return c.rel.RelationName()
}

// Name implements ColumnRef.
func (c *Column[T]) Name() string { return c.name }

// String returns the qualified column name.
func (c *Column[T]) String() string {
	if q := c.Qualifier(); q != "" {
		return q + "." + c.name
	}
	return c.name
}

// EQ returns a predicate that checks if the column equals v.
func (c *Column[T]) EQ(v T) Predicate { return EQ[T](c, Value(v)) }

// NEQ returns a predicate that checks if the column does not equal v.
func (c *Column[T]) NEQ(v T) Predicate { return NEQ[T](c, Value(v)) }

// LT returns a predicate that checks if the column is less than v.
func (c *Column[T]) LT(v T) Predicate { return LT[T](c, Value(v)) }

// LTE returns a predicate that checks if the column is less than or equal to v.
func (c *Column[T]) LTE(v T) Predicate { return LTE[T](c, Value(v)) }

// GT returns a predicate that checks if the column is greater than v.
func (c *Column[T]) GT(v T) Predicate { return GT[T](c, Value(v)) }

// GTE returns a predicate that checks if the column is greater than or equal to v.
func (c *Column[T]) GTE(v T) Predicate { return GTE[T](c, Value(v)) }

// EQCol returns a predicate that checks if the column equals another expression.
func (c *Column[T]) EQCol(o Typed[T]) Predicate { return EQ[T](c, o) }

// In returns a predicate that checks if the column value is in vs.
func (c *Column[T]) In(vs ...T) Predicate { return in(c, vs, false) }

// NotIn returns a predicate that checks if the column value is not in vs.
func (c *Column[T]) NotIn(vs ...T) Predicate { return in(c, vs, true) }

// IsNull returns a predicate that checks if the column is NULL.
func (c *Column[T]) IsNull() Predicate { return &NullCheck{Operand: c} }

// NotNull returns a predicate that checks if the column is not NULL.
func (c *Column[T]) NotNull() Predicate { return &NullCheck{Operand: c, Negate: true} }

// LiteralRef is implemented by bound values.
type LiteralRef interface {
	Expr
	Value() any
}

// Literal is a typed value bound as a statement argument.
type Literal[T any] struct {
	typ[T]
	v T
}

// Value returns a literal holding v.
func Value[T any](v T) *Literal[T] {
	return &Literal[T]{v: v}
}

func (*Literal[T]) exprNode() {}

// Value implements LiteralRef.
func (l *Literal[T]) Value() any { return l.v }

func (l *Literal[T]) String() string { return formatValue(l.v) }

// formatValue renders v the way it would appear in a statement.
func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case []byte:
		return fmt.Sprintf("x'%x'", v)
	case time.Time:
		return "'" + v.Format(time.RFC3339Nano) + "'"
	case fmt.Stringer:
		return "'" + strings.ReplaceAll(v.String(), "'", "''") + "'"
	default:
		return fmt.Sprint(v)
	}
}

// IsColumn reports whether e is a bare column reference.
func IsColumn(e Expr) bool {
	_, ok := e.(ColumnRef)
	return ok
}

// IsAggregate reports whether e contains an aggregate function call.
func IsAggregate(e Expr) bool {
	if f, ok := e.(FuncRef); ok && f.IsAggregate() {
		return true
	}
	for _, c := range Children(e) {
		if IsAggregate(c) {
			return true
		}
	}
	return false
}

// Children returns the direct sub-expressions of e.
func Children(e Expr) []Expr {
	switch e := e.(type) {
	case FuncRef:
		return e.Args()
	case ArithRef:
		l, r := e.Operands()
		return []Expr{l, r}
	case *Compare:
		return []Expr{e.Left, e.Right}
	case *Logical:
		children := make([]Expr, len(e.Operands))
		for i, p := range e.Operands {
			children[i] = p
		}
		return children
	case *Negation:
		return []Expr{e.Operand}
	case *NullCheck:
		return []Expr{e.Operand}
	case *Membership:
		return append([]Expr{e.Operand}, e.Values...)
	case *Match:
		return []Expr{e.Operand, e.Pattern}
	default:
		return nil
	}
}
