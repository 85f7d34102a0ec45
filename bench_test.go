package veloxq_test

import (
	"testing"

	"entgo.io/ent/dialect"

	"github.com/syssam/veloxq"
	"github.com/syssam/veloxq/expr"
)

func BenchmarkResolve_Simple(b *testing.B) {
	f := newFilms()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := veloxq.Query(func(s *veloxq.Scope) veloxq.Result[string] {
			veloxq.From(s, f)
			s.Where(f.SequelID.IsNull())
			return veloxq.Select(s, f.Name)
		})
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkResolve_Joins(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		roleCounts()
	}
}

func BenchmarkSQL(b *testing.B) {
	q := veloxq.MustQuery(func(s *veloxq.Scope) veloxq.Result[veloxq.Pair[int64, string]] {
		a := veloxq.From(s, newActors())
		r := veloxq.InnerJoin(s, newRoles(), nil)
		s.Where(expr.Like(r.Name, "%Skywalker%"))
		s.GroupBy(a.Name)
		s.OrderBy(expr.By(a.Name, expr.Asc))
		s.Limit(10)
		s.Offset(5)
		return veloxq.Select2(s, expr.Count(r.Name), a.Name)
	})
	for _, d := range []string{dialect.Postgres, dialect.MySQL, dialect.SQLite} {
		b.Run(d, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, _, err := q.SQL(d); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkSQL_Wrapped(b *testing.B) {
	f := newFilms()
	q := veloxq.MustQuery(func(s *veloxq.Scope) veloxq.Result[string] {
		veloxq.From(s, f)
		s.Limit(3)
		s.Where(f.Director.EQ("George Lucas"))
		return veloxq.Select(s, f.Name)
	})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := q.SQL(dialect.Postgres); err != nil {
			b.Fatal(err)
		}
	}
}
