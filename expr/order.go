package expr

// Direction is the sort direction of an ordering term.
type Direction int

// Sort directions.
const (
	Asc Direction = iota
	Desc
	AscNullsFirst
	AscNullsLast
	DescNullsFirst
	DescNullsLast
)

var directions = [...]string{
	Asc:            "ASC",
	Desc:           "DESC",
	AscNullsFirst:  "ASC NULLS FIRST",
	AscNullsLast:   "ASC NULLS LAST",
	DescNullsFirst: "DESC NULLS FIRST",
	DescNullsLast:  "DESC NULLS LAST",
}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directions) {
		return "ASC"
	}
	return directions[d]
}

// Descending reports whether d sorts in descending order.
func (d Direction) Descending() bool {
	return d == Desc || d == DescNullsFirst || d == DescNullsLast
}

// Nulls returns the NULL placement of d: "FIRST", "LAST" or "" when the
// database default applies.
func (d Direction) Nulls() string {
	switch d {
	case AscNullsFirst, DescNullsFirst:
		return "FIRST"
	case AscNullsLast, DescNullsLast:
		return "LAST"
	default:
		return ""
	}
}

// Order is an ordering term.
type Order struct {
	Expr      Expr
	Direction Direction
}

func (o Order) String() string {
	return o.Expr.String() + " " + o.Direction.String()
}

// By returns an ordering term for e.
func By(e Expr, d Direction) Order {
	return Order{Expr: e, Direction: d}
}
