package veloxq

// Query runs build on a fresh scope, resolves it and returns the resulting
// lazy sequence. No statement is executed until the sequence is traversed.
//
//	films := starwars.Films
//	q, err := veloxq.Query(func(s *veloxq.Scope) veloxq.Result[string] {
//	    veloxq.From(s, films)
//	    s.Where(films.SequelID.GT(3))
//	    return veloxq.Select(s, films.Name)
//	})
func Query[T any](build func(*Scope) Result[T], opts ...Option) (*Sequence[T], error) {
	s := NewScope(opts...)
	st, res, err := resolve(s, build)
	if err != nil {
		return nil, err
	}
	return &Sequence[T]{stmt: st, result: res, cfg: s.cfg}, nil
}

// MustQuery is like Query but panics if the query cannot be resolved.
func MustQuery[T any](build func(*Scope) Result[T], opts ...Option) *Sequence[T] {
	q, err := Query(build, opts...)
	if err != nil {
		panic(err)
	}
	return q
}

// SubQuery runs build on a fresh scope and returns the resolved statement
// without executing it. It takes the same bodies as Query. The statement
// can be embedded in another query with Statement.As.
func SubQuery[T any](build func(*Scope) Result[T], opts ...Option) (*Statement, error) {
	st, _, err := resolve(NewScope(opts...), build)
	return st, err
}

// MustSubQuery is like SubQuery but panics if the query cannot be resolved.
func MustSubQuery[T any](build func(*Scope) Result[T], opts ...Option) *Statement {
	st, err := SubQuery(build, opts...)
	if err != nil {
		panic(err)
	}
	return st
}

func resolve[T any](s *Scope, build func(*Scope) Result[T]) (*Statement, Result[T], error) {
	res := build(s)
	if res.decode == nil {
		return nil, res, newBuildError(ErrNoResult)
	}
	st, err := s.Resolve()
	if err != nil {
		return nil, res, err
	}
	return st, res, nil
}
