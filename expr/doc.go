// Package expr provides the typed expression tree used by veloxq to describe
// columns, computed values and predicates.
//
// Expressions are plain values built with constructor functions instead of
// operator overloading. A tree is translated into SQL by the veloxq package;
// this package has no knowledge of dialects or drivers.
//
// # Node Types
//
// Expr is a sealed interface. The node kinds are:
//
//   - Column: a relation-qualified column reference
//   - Literal: a bound value
//   - Func: a scalar or aggregate function call
//   - Arith: a binary arithmetic expression
//   - Compare, Logical, Negation, NullCheck, Membership, Match: predicates
//
// # Typed Expressions
//
// Typed[T] is an expression known to produce values of the Go type T. Typed
// expressions know how to scan themselves out of a result row, which is what
// lets a selection keep a precise result type:
//
//	name := expr.NewColumn[string](films, "name")
//	count := expr.Count(name)            // *expr.Func[int64]
//	p := expr.And(
//	    name.NotNull(),
//	    expr.GT[int64](count, expr.Value[int64](1)),
//	)
//
// # Identity
//
// The String form of an expression is its identity: two expressions with the
// same String are interchangeable when decoding a row.
package expr
