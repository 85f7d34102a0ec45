package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/veloxq/dialect/sql"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "veloxq", cmd.Use)

	for _, name := range []string{"sql", "demo", "list"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSQLCommand(t *testing.T) {
	t.Run("postgres", func(t *testing.T) {
		out, err := execute(t, "sql", "--dialect", "postgres", "role_counts")
		require.NoError(t, err)
		assert.Equal(t, "-- role_counts\n"+
			`SELECT COUNT("roles"."name") AS "__alias1", "actors"."name" FROM "actors" `+
			`JOIN "roles" AS "roles" ON "actors"."id" = "roles"."actor_id" GROUP BY "actors"."name";`+
			"\n-- args: []\n\n", out)
	})

	t.Run("mysql", func(t *testing.T) {
		out, err := execute(t, "sql", "-d", "mysql", "directors_by_sequel")
		require.NoError(t, err)
		assert.Contains(t, out, "-- directors_by_sequel\n-- veloxq: unsupported by dialect: DISTINCT ON on mysql\n")
	})

	t.Run("unknown_example", func(t *testing.T) {
		_, err := execute(t, "sql", "missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown example")
	})

	t.Run("unknown_dialect", func(t *testing.T) {
		_, err := execute(t, "sql", "-d", "oracle")
		require.Error(t, err)
	})
}

func TestListCommand(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Equal(t, "directors_by_sequel\nfilms_by_sequel\nrole_counts\nearly_films\nfilm_casts\n", out)
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("file_and_env", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "veloxq.yaml")
		require.NoError(t, os.WriteFile(path, []byte("driver: postgres\ndsn: postgres://localhost/starwars\nslow_threshold: 250ms\nworkers: 2\nseed: false\n"), 0o600))
		t.Setenv(EnvDSN, "postgres://db/starwars")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, Config{
			Driver:        sql.Postgres,
			DSN:           "postgres://db/starwars",
			SlowThreshold: 250 * time.Millisecond,
			Workers:       2,
		}, cfg)
	})

	t.Run("invalid", func(t *testing.T) {
		t.Setenv(EnvDriver, "oracle")
		_, err := LoadConfig("")
		require.Error(t, err)
	})

	t.Run("missing_file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})
}

func TestDemoCommand(t *testing.T) {
	t.Setenv(EnvDSN, sql.MemoryDSN(t.Name()))
	out, err := execute(t, "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "== role_counts (3 rows)")
	assert.Contains(t, out, "== film_casts (2 rows)")
	assert.Contains(t, out, "Sequel Id")
	assert.Contains(t, out, "Mark Hamill")
	assert.Contains(t, out, "-- queries=5 ")

	t.Run("selected", func(t *testing.T) {
		t.Setenv(EnvDSN, sql.MemoryDSN("selected"))
		out, err := execute(t, "demo", "film_casts")
		require.NoError(t, err)
		assert.Contains(t, out, "A New Hope")
		assert.NotContains(t, out, "role_counts")
	})

	t.Run("verbose", func(t *testing.T) {
		t.Setenv(EnvDSN, sql.MemoryDSN("verbose"))
		out, err := execute(t, "demo", "-v", "role_counts")
		require.NoError(t, err)
		assert.Contains(t, out, "-- queries=1 execs=0 statements=1 ")
		assert.Contains(t, out, "JOIN `roles` AS `roles` ON `actors`.`id` = `roles`.`actor_id`")
		assert.Contains(t, out, " calls=1 mean=")
	})
}
