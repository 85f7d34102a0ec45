package expr

import "strings"

// Number is the set of Go types arithmetic and numeric aggregates accept.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// FuncRef is implemented by function calls.
type FuncRef interface {
	Expr
	// Name returns the upper-cased function name.
	Name() string
	// Args returns the call arguments. It is empty for COUNT(*).
	Args() []Expr
	// IsStar reports whether the call takes the `*` argument.
	IsStar() bool
	// IsDistinct reports whether DISTINCT prefixes the arguments.
	IsDistinct() bool
	// IsAggregate reports whether the function is an aggregate.
	IsAggregate() bool
}

// Func is a scalar or aggregate function call producing values of type T.
type Func[T any] struct {
	typ[T]
	name      string
	args      []Expr
	star      bool
	distinct  bool
	aggregate bool
}

func (*Func[T]) exprNode() {}

// Name implements FuncRef.
func (f *Func[T]) Name() string { return f.name }

// Args implements FuncRef.
func (f *Func[T]) Args() []Expr { return f.args }

// IsStar implements FuncRef.
func (f *Func[T]) IsStar() bool { return f.star }

// IsDistinct implements FuncRef.
func (f *Func[T]) IsDistinct() bool { return f.distinct }

// IsAggregate implements FuncRef.
func (f *Func[T]) IsAggregate() bool { return f.aggregate }

func (f *Func[T]) String() string {
	var b strings.Builder
	b.WriteString(f.name)
	b.WriteByte('(')
	if f.distinct {
		b.WriteString("DISTINCT ")
	}
	if f.star {
		b.WriteByte('*')
	}
	for i, a := range f.args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Fn returns a call of the scalar function name.
func Fn[T any](name string, args ...Expr) *Func[T] {
	return &Func[T]{name: strings.ToUpper(name), args: args}
}

// Agg returns a call of the aggregate function name.
func Agg[T any](name string, args ...Expr) *Func[T] {
	return &Func[T]{name: strings.ToUpper(name), args: args, aggregate: true}
}

// Count returns COUNT(e).
func Count(e Expr) *Func[int64] {
	return Agg[int64]("COUNT", e)
}

// CountAll returns COUNT(*).
func CountAll() *Func[int64] {
	return &Func[int64]{name: "COUNT", star: true, aggregate: true}
}

// CountDistinct returns COUNT(DISTINCT e).
func CountDistinct(e Expr) *Func[int64] {
	f := Agg[int64]("COUNT", e)
	f.distinct = true
	return f
}

// Sum returns SUM(e).
func Sum[T Number](e Typed[T]) *Func[T] {
	return Agg[T]("SUM", e)
}

// Avg returns AVG(e).
func Avg[T Number](e Typed[T]) *Func[float64] {
	return Agg[float64]("AVG", e)
}

// Min returns MIN(e).
func Min[T any](e Typed[T]) *Func[T] {
	return Agg[T]("MIN", e)
}

// Max returns MAX(e).
func Max[T any](e Typed[T]) *Func[T] {
	return Agg[T]("MAX", e)
}

// Lower returns LOWER(e).
func Lower(e Typed[string]) *Func[string] {
	return Fn[string]("LOWER", e)
}

// Upper returns UPPER(e).
func Upper(e Typed[string]) *Func[string] {
	return Fn[string]("UPPER", e)
}

// Coalesce returns COALESCE(es...).
func Coalesce[T any](es ...Typed[T]) *Func[T] {
	args := make([]Expr, len(es))
	for i, e := range es {
		args[i] = e
	}
	return Fn[T]("COALESCE", args...)
}

// ArithRef is implemented by arithmetic expressions.
type ArithRef interface {
	Expr
	Operator() string
	Operands() (Expr, Expr)
}

// Arith is a binary arithmetic expression.
type Arith[T Number] struct {
	typ[T]
	op   string
	l, r Typed[T]
}

func (*Arith[T]) exprNode() {}

// Operator implements ArithRef.
func (a *Arith[T]) Operator() string { return a.op }

// Operands implements ArithRef.
func (a *Arith[T]) Operands() (Expr, Expr) { return a.l, a.r }

func (a *Arith[T]) String() string {
	return "(" + a.l.String() + " " + a.op + " " + a.r.String() + ")"
}

// Add returns l + r.
func Add[T Number](l, r Typed[T]) *Arith[T] { return &Arith[T]{op: "+", l: l, r: r} }

// Sub returns l - r.
func Sub[T Number](l, r Typed[T]) *Arith[T] { return &Arith[T]{op: "-", l: l, r: r} }

// Mul returns l * r.
func Mul[T Number](l, r Typed[T]) *Arith[T] { return &Arith[T]{op: "*", l: l, r: r} }

// Div returns l / r.
func Div[T Number](l, r Typed[T]) *Arith[T] { return &Arith[T]{op: "/", l: l, r: r} }
