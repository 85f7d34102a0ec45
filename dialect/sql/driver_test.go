package sql

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/veloxq"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		driverName  string
		dialectName string
		wantErr     bool
	}{
		{name: "sqlite", driverName: SQLite, dialectName: dialect.SQLite},
		{name: "sqlite3", driverName: SQLite, dialectName: dialect.SQLite},
		{name: "postgres", driverName: Postgres, dialectName: dialect.Postgres},
		{name: "PostgreSQL", driverName: Postgres, dialectName: dialect.Postgres},
		{name: "mysql", driverName: MySQL, dialectName: dialect.MySQL},
		{name: "oracle", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driverName, dialectName, err := Resolve(tt.name)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.driverName, driverName)
			assert.Equal(t, tt.dialectName, dialectName)
		})
	}
}

func TestOpenDB(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
	}{
		{Postgres, dialect.Postgres},
		{MySQL, dialect.MySQL},
		{SQLite, dialect.SQLite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			drv, err := OpenDB(tt.name, db)
			require.NoError(t, err)
			assert.Equal(t, tt.dialect, drv.Dialect())
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		_, err = OpenDB("mssql", db)
		require.Error(t, err)
	})
}

func TestOpenMemory(t *testing.T) {
	drv, err := Open(SQLite, MemoryDSN(t.Name()))
	require.NoError(t, err)
	defer drv.Close()

	ctx := context.Background()
	require.NoError(t, drv.Exec(ctx, "CREATE TABLE t (v INTEGER)", []any{}, nil))
	require.NoError(t, drv.Exec(ctx, "INSERT INTO t (v) VALUES (?)", []any{7}, nil))

	rows := &entsql.Rows{}
	require.NoError(t, drv.Query(ctx, "SELECT v FROM t", []any{}, rows))
	defer rows.Close()
	require.True(t, rows.Next())
	var v int64
	require.NoError(t, rows.Scan(&v))
	assert.Equal(t, int64(7), v)
}

func TestRecorder(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	rec := NewRecorder(entsql.OpenDB(dialect.Postgres, db), WithLogger(logger), WithSlowThreshold(time.Hour))
	ctx := context.Background()

	t.Run("query", func(t *testing.T) {
		for range 2 {
			mock.ExpectQuery("SELECT name FROM actors").
				WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Mark Hamill"))
			rows := &entsql.Rows{}
			require.NoError(t, rec.Query(ctx, "SELECT name FROM actors", []any{}, rows))
			require.NoError(t, rows.Close())
		}
	})

	t.Run("exec_error", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM actors").WillReturnError(errors.New("constraint violation"))
		require.Error(t, rec.Exec(ctx, "DELETE FROM actors", []any{}, nil))
	})

	require.NoError(t, mock.ExpectationsWereMet())
	sum := rec.Summary()
	assert.Equal(t, int64(2), sum.Queries)
	assert.Equal(t, int64(1), sum.Execs)
	assert.Equal(t, 2, sum.Statements)
	assert.Equal(t, int64(1), sum.Errors)
	assert.Zero(t, sum.Slow)
	assert.Contains(t, sum.String(), "queries=2 execs=1 statements=2 ")

	stmts := rec.Statements()
	require.Len(t, stmts, 2)
	byQuery := map[string]StatementStats{}
	for _, st := range stmts {
		byQuery[st.Query] = st
	}
	assert.Equal(t, int64(2), byQuery["SELECT name FROM actors"].Calls)
	assert.Equal(t, int64(1), byQuery["DELETE FROM actors"].Errors)
	assert.Empty(t, byQuery["SELECT name FROM actors"].LastID)
	assert.Contains(t, logs.String(), "msg=statement ")
	assert.Contains(t, logs.String(), `msg="statement failed"`)

	rec.Reset()
	assert.Equal(t, Summary{}, rec.Summary())
	assert.Empty(t, rec.Statements())
	assert.Zero(t, StatementStats{}.Mean())
}

func TestRecorderSlowStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var logs bytes.Buffer
	rec := NewRecorder(entsql.OpenDB(dialect.SQLite, db),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
		WithSlowThreshold(time.Nanosecond),
	)
	mock.ExpectExec("UPDATE films").WillDelayFor(time.Millisecond).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, rec.Exec(context.Background(), "UPDATE films SET name = ?", []any{"Return of the Jedi"}, nil))
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, int64(1), rec.Summary().Slow)
	assert.Contains(t, logs.String(), `level=WARN msg="slow statement"`)
	assert.Equal(t, dialect.SQLite, rec.Dialect())
}

func TestRecorderExecutionID(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()
	rec := NewRecorder(entsql.OpenDB(dialect.Postgres, db), WithHistory(1))

	actors := veloxq.NewTable("actors")
	name := veloxq.Column[string](actors, "name")
	q := veloxq.MustQuery(func(s *veloxq.Scope) veloxq.Result[string] {
		veloxq.From(s, actors)
		return veloxq.Select(s, name)
	})
	const query = `SELECT "actors"."name" FROM "actors"`
	for range 2 {
		mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Carrie Fisher"))
	}

	ctx := context.Background()
	_, err = q.Collect(ctx, rec)
	require.NoError(t, err)
	first := rec.Statements()[0].LastID
	require.NotEmpty(t, first)
	e, ok := rec.Execution(first)
	require.True(t, ok)
	assert.Equal(t, query, e.Query)
	assert.False(t, e.Exec)

	_, err = q.Collect(ctx, rec)
	require.NoError(t, err)
	second := rec.Statements()[0].LastID
	assert.NotEqual(t, first, second)
	_, ok = rec.Execution(first)
	assert.False(t, ok, "history holds one execution")
	_, ok = rec.Execution(second)
	assert.True(t, ok)
	assert.Equal(t, int64(2), rec.Statements()[0].Calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenRecorder(t *testing.T) {
	rec, err := OpenRecorder(SQLite, MemoryDSN(t.Name()))
	require.NoError(t, err)
	defer rec.Close()

	rows := &entsql.Rows{}
	require.NoError(t, rec.Query(context.Background(), "SELECT 1", []any{}, rows))
	require.NoError(t, rows.Close())
	assert.Equal(t, int64(1), rec.Summary().Queries)

	_, err = OpenRecorder("oracle", "")
	require.Error(t, err)
}
