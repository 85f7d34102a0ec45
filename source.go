package veloxq

import (
	entsql "entgo.io/ent/dialect/sql"

	"github.com/syssam/veloxq/expr"
)

// Source is a relation that can appear in the FROM clause of a statement:
// a table, an aliased table or a derived source.
//
// User-defined table types satisfy Source by embedding *Table.
type Source interface {
	expr.Relation
	// Columns returns the columns the source exposes, in declaration order.
	Columns() []expr.Expr

	// ref returns the column of the source that stands for e.
	ref(e expr.Expr) (expr.Expr, bool)
	// tableName returns the underlying table name, or "" for derived sources.
	tableName() string
	foreignKeys() []foreignKey
	// view returns the ent view of the source, on the right side of a join
	// when joined is set.
	view(r *renderer, joined bool) (entsql.TableView, error)
}

// JoinKind is the kind of a join between two sources.
type JoinKind int

// Join kinds.
const (
	JoinInner JoinKind = iota
	JoinLeft
	JoinRight
	JoinFull
	JoinCross
)

func (k JoinKind) String() string {
	switch k {
	case JoinInner:
		return "INNER"
	case JoinLeft:
		return "LEFT"
	case JoinRight:
		return "RIGHT"
	case JoinFull:
		return "FULL"
	case JoinCross:
		return "CROSS"
	default:
		return "JoinKind(?)"
	}
}

// foreignKey links a column of a table to a column of another table.
type foreignKey struct {
	column       expr.Expr
	target       string
	targetColumn string
}

// Ref returns the column of src that stands for e: the same column of an
// aliased table, or the output column of a derived source.
// It panics if src exposes no such column.
func Ref[T any](src Source, e expr.Typed[T]) *expr.Column[T] {
	if c, ok := src.ref(e); ok {
		if col, ok := c.(*expr.Column[T]); ok {
			return col
		}
	}
	panic("veloxq: " + e.String() + " is not a column of " + src.RelationName())
}

// inferJoin returns the join condition between src and the sources declared
// before it, derived from their foreign keys. Exactly one key must match.
func inferJoin(prev []Source, src Source) (expr.Predicate, error) {
	var found []expr.Predicate
	for _, p := range prev {
		for _, fk := range src.foreignKeys() {
			if fk.target != p.tableName() {
				continue
			}
			if c, ok := columnNamed(p, fk.targetColumn); ok {
				found = append(found, &expr.Compare{Op: expr.OpEQ, Left: c, Right: fk.column})
			}
		}
		for _, fk := range p.foreignKeys() {
			if fk.target != src.tableName() {
				continue
			}
			if c, ok := columnNamed(src, fk.targetColumn); ok {
				found = append(found, &expr.Compare{Op: expr.OpEQ, Left: fk.column, Right: c})
			}
		}
	}
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return nil, &joinError{src: src.RelationName(), reason: "no foreign key"}
	default:
		return nil, &joinError{src: src.RelationName(), reason: "ambiguous foreign keys"}
	}
}

func columnNamed(src Source, name string) (expr.Expr, bool) {
	for _, c := range src.Columns() {
		if ref, ok := c.(expr.ColumnRef); ok && ref.Name() == name {
			return c, true
		}
	}
	return nil, false
}

type joinError struct {
	src    string
	reason string
}

func (e *joinError) Error() string {
	return "veloxq: cannot infer join condition for " + e.src + ": " + e.reason
}

func (e *joinError) Is(err error) bool {
	return err == ErrJoinCondition
}
