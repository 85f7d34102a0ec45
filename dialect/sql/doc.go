// Package sql opens database connections for veloxq queries and records
// the statements they run.
//
// Statements are executed through ent's dialect/sql driver. Open maps a
// database name to its database/sql driver and ent dialect:
//
//	sqlite    modernc.org/sqlite            (dialect "sqlite3")
//	postgres  github.com/lib/pq             (dialect "postgres")
//	mysql     github.com/go-sql-driver/mysql (dialect "mysql")
//
// # Statistics
//
// Recorder records every statement it runs, by statement text and by the
// execution id of the veloxq traversal that ran it:
//
//	rec, err := sql.OpenRecorder("sqlite", sql.MemoryDSN("demo"),
//	    sql.WithSlowThreshold(50*time.Millisecond),
//	    sql.WithLogger(logger),
//	)
//	...
//	fmt.Println(rec.Summary())
//
// Statements are logged at debug level and slow statements at warn level.
package sql
