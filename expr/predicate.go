package expr

import "strings"

// Predicate is a boolean expression usable in WHERE, HAVING and ON clauses.
// Predicates are Typed[bool] and may be projected as well.
type Predicate interface {
	Typed[bool]
	predicateNode()
}

// pred is embedded by all predicate nodes.
type pred struct {
	typ[bool]
}

func (pred) exprNode()      {}
func (pred) predicateNode() {}

// Comparison operators.
const (
	OpEQ  = "="
	OpNEQ = "<>"
	OpLT  = "<"
	OpLTE = "<="
	OpGT  = ">"
	OpGTE = ">="
)

// Compare is a binary comparison.
type Compare struct {
	pred
	Op          string
	Left, Right Expr
}

func (c *Compare) String() string {
	return c.Left.String() + " " + c.Op + " " + c.Right.String()
}

func compare(op string, l, r Expr) Predicate {
	return &Compare{Op: op, Left: l, Right: r}
}

// EQ returns l = r.
func EQ[T any](l, r Typed[T]) Predicate { return compare(OpEQ, l, r) }

// NEQ returns l <> r.
func NEQ[T any](l, r Typed[T]) Predicate { return compare(OpNEQ, l, r) }

// LT returns l < r.
func LT[T any](l, r Typed[T]) Predicate { return compare(OpLT, l, r) }

// LTE returns l <= r.
func LTE[T any](l, r Typed[T]) Predicate { return compare(OpLTE, l, r) }

// GT returns l > r.
func GT[T any](l, r Typed[T]) Predicate { return compare(OpGT, l, r) }

// GTE returns l >= r.
func GTE[T any](l, r Typed[T]) Predicate { return compare(OpGTE, l, r) }

// Logical operators.
const (
	OpAnd = "AND"
	OpOr  = "OR"
)

// Logical is a conjunction or disjunction. An empty AND is always true and
// an empty OR is always false.
type Logical struct {
	pred
	Op       string
	Operands []Predicate
}

func (l *Logical) String() string {
	switch len(l.Operands) {
	case 0:
		if l.Op == OpOr {
			return "1 = 0"
		}
		return "1 = 1"
	case 1:
		return l.Operands[0].String()
	}
	parts := make([]string, len(l.Operands))
	for i, p := range l.Operands {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, " "+l.Op+" ") + ")"
}

func logical(op string, ps []Predicate) Predicate {
	operands := make([]Predicate, 0, len(ps))
	for _, p := range ps {
		if p == nil {
			continue
		}
		if l, ok := p.(*Logical); ok && l.Op == op {
			operands = append(operands, l.Operands...)
			continue
		}
		operands = append(operands, p)
	}
	if len(operands) == 1 {
		return operands[0]
	}
	return &Logical{Op: op, Operands: operands}
}

// And returns the conjunction of ps. Nil predicates are skipped and nested
// conjunctions are flattened.
func And(ps ...Predicate) Predicate { return logical(OpAnd, ps) }

// Or returns the disjunction of ps. Nil predicates are skipped and nested
// disjunctions are flattened.
func Or(ps ...Predicate) Predicate { return logical(OpOr, ps) }

// Negation is NOT p.
type Negation struct {
	pred
	Operand Predicate
}

func (n *Negation) String() string { return "NOT (" + n.Operand.String() + ")" }

// Not returns the negation of p.
func Not(p Predicate) Predicate { return &Negation{Operand: p} }

// NullCheck is `e IS NULL` or `e IS NOT NULL`.
type NullCheck struct {
	pred
	Operand Expr
	Negate  bool
}

func (n *NullCheck) String() string {
	if n.Negate {
		return n.Operand.String() + " IS NOT NULL"
	}
	return n.Operand.String() + " IS NULL"
}

// IsNull returns e IS NULL.
func IsNull(e Expr) Predicate { return &NullCheck{Operand: e} }

// NotNull returns e IS NOT NULL.
func NotNull(e Expr) Predicate { return &NullCheck{Operand: e, Negate: true} }

// Membership is `e IN (...)` or `e NOT IN (...)`.
// An empty IN list is always false and an empty NOT IN list is always true.
type Membership struct {
	pred
	Operand Expr
	Values  []Expr
	Negate  bool
}

func (m *Membership) String() string {
	if len(m.Values) == 0 {
		if m.Negate {
			return "1 = 1"
		}
		return "1 = 0"
	}
	parts := make([]string, len(m.Values))
	for i, v := range m.Values {
		parts[i] = v.String()
	}
	op := " IN ("
	if m.Negate {
		op = " NOT IN ("
	}
	return m.Operand.String() + op + strings.Join(parts, ", ") + ")"
}

func in[T any](e Typed[T], vs []T, negate bool) Predicate {
	values := make([]Expr, len(vs))
	for i, v := range vs {
		values[i] = Value(v)
	}
	return &Membership{Operand: e, Values: values, Negate: negate}
}

// In returns e IN (vs...).
func In[T any](e Typed[T], vs ...T) Predicate { return in(e, vs, false) }

// NotIn returns e NOT IN (vs...).
func NotIn[T any](e Typed[T], vs ...T) Predicate { return in(e, vs, true) }

// Match is `e LIKE pattern` or `e NOT LIKE pattern`.
type Match struct {
	pred
	Operand Expr
	Pattern Expr
	Negate  bool
}

func (m *Match) String() string {
	if m.Negate {
		return m.Operand.String() + " NOT LIKE " + m.Pattern.String()
	}
	return m.Operand.String() + " LIKE " + m.Pattern.String()
}

// Like returns e LIKE pattern.
func Like(e Typed[string], pattern string) Predicate {
	return &Match{Operand: e, Pattern: Value(pattern)}
}

// NotLike returns e NOT LIKE pattern.
func NotLike(e Typed[string], pattern string) Predicate {
	return &Match{Operand: e, Pattern: Value(pattern), Negate: true}
}
