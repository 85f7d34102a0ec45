package sql

import (
	"database/sql"
	"fmt"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Database drivers registered with database/sql.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Names accepted by Open and OpenDB.
const (
	SQLite   = "sqlite"
	Postgres = "postgres"
	MySQL    = "mysql"
)

// Driver is the ent driver returned by Open.
type Driver = entsql.Driver

// Resolve returns the database/sql driver name and the ent dialect of the
// database called name. It accepts the ent dialect names as well.
func Resolve(name string) (driverName, dialectName string, err error) {
	switch strings.ToLower(name) {
	case SQLite, dialect.SQLite:
		return SQLite, dialect.SQLite, nil
	case Postgres, "postgresql":
		return Postgres, dialect.Postgres, nil
	case MySQL:
		return MySQL, dialect.MySQL, nil
	default:
		return "", "", fmt.Errorf("dialect/sql: unsupported database %q", name)
	}
}

// Open opens a database/sql connection pool for the database called name
// and wraps it with an ent driver of the matching dialect.
//
// An in-memory SQLite database lives as long as its connection, so its pool
// is limited to one connection.
func Open(name, source string) (*Driver, error) {
	driverName, dialectName, err := Resolve(name)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driverName, source)
	if err != nil {
		return nil, err
	}
	if dialectName == dialect.SQLite && strings.Contains(source, "memory") {
		db.SetMaxOpenConns(1)
	}
	return entsql.OpenDB(dialectName, db), nil
}

// OpenDB wraps db with an ent driver for the database called name.
func OpenDB(name string, db *sql.DB) (*Driver, error) {
	_, dialectName, err := Resolve(name)
	if err != nil {
		return nil, err
	}
	return entsql.OpenDB(dialectName, db), nil
}

// MemoryDSN returns the DSN of a private in-memory SQLite database with
// foreign keys enforced.
func MemoryDSN(name string) string {
	return "file:" + name + "?mode=memory&_pragma=foreign_keys(1)"
}
