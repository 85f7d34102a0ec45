package veloxq_test

import (
	"github.com/syssam/veloxq"
	"github.com/syssam/veloxq/expr"
)

type films struct {
	*veloxq.Table
	ID       *expr.Column[int64]
	SequelID *expr.Column[int64]
	Name     *expr.Column[string]
	Director *expr.Column[string]
}

func newFilms() *films { return filmsOf(veloxq.NewTable("films")) }

func filmsOf(t *veloxq.Table) *films {
	return &films{
		Table:    t,
		ID:       veloxq.Column[int64](t, "id"),
		SequelID: veloxq.Column[int64](t, "sequel_id"),
		Name:     veloxq.Column[string](t, "name"),
		Director: veloxq.Column[string](t, "director"),
	}
}

func (f *films) As(alias string) *films { return filmsOf(f.Table.As(alias)) }

type actors struct {
	*veloxq.Table
	ID       *expr.Column[int64]
	SequelID *expr.Column[int64]
	Name     *expr.Column[string]
}

func newActors() *actors {
	t := veloxq.NewTable("actors")
	return &actors{
		Table:    t,
		ID:       veloxq.Column[int64](t, "id"),
		SequelID: veloxq.Column[int64](t, "sequel_id"),
		Name:     veloxq.Column[string](t, "name"),
	}
}

type roles struct {
	*veloxq.Table
	ID       *expr.Column[int64]
	SequelID *expr.Column[int64]
	ActorID  *expr.Column[int64]
	Name     *expr.Column[string]
}

func newRoles() *roles {
	t := veloxq.NewTable("roles")
	return &roles{
		Table:    t,
		ID:       veloxq.Column[int64](t, "id"),
		SequelID: veloxq.Column[int64](t, "sequel_id"),
		ActorID:  veloxq.Reference(t, "actor_id", newActors().ID),
		Name:     veloxq.Column[string](t, "name"),
	}
}
