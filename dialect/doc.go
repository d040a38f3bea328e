// Package dialect abstracts the differences between backend SQL engines so
// that a single database-agnostic query representation can be compiled into
// correct SQL text for each of them.
//
// A dialect driver bundles the behaviors that vary per backend: the mapping
// from native column types to semantic types, the compilation of temporal
// bucketing operations, the construction of connection descriptors, and the
// classification of backend error messages.
//
// # Supported Dialects
//
// Each dialect lives in its own sub-package and registers itself on import:
//
//   - dialect/mysql: MySQL and MariaDB
//   - dialect/postgres: PostgreSQL
//   - dialect/sqlite: SQLite
//
// Blank-import the dialects a program needs:
//
//	import (
//	    _ "github.com/exceedzhang/metabase/dialect/mysql"
//	    _ "github.com/exceedzhang/metabase/dialect/postgres"
//	)
//
// # Driver Interface
//
// The Driver interface is the per-dialect contract. Dialects embed the
// generic baseline from dialect/sqlbase and override only the behaviors
// that differ:
//
//	type Dialect struct {
//	    sqlbase.Dialect
//	}
//
//	func (Dialect) QuoteStyle() sqlexpr.QuoteStyle { return sqlexpr.QuoteBacktick }
//
// # Lookup and Use
//
// The engine resolves a driver by id and invokes its operations without
// knowing which dialect it is talking to:
//
//	d, err := dialect.Lookup("mysql")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	expr := d.TemporalBucket(dialect.UnitQuarter, sqlexpr.Col("created_at"))
//	sql := sqlexpr.Render(expr, d.QuoteStyle())
//
// # Connections
//
// Connection parameters are generic; the driver derives the dialect's
// descriptor and DSN from them:
//
//	params := dialect.NewParams("db.internal", "analytics",
//	    dialect.WithUser("reader"),
//	    dialect.WithPassword(secret),
//	    dialect.WithSSL(),
//	)
//	ok, err := dialect.CanConnect(ctx, d, params)
//
// All compiler, mapper, builder and classifier operations are pure and safe
// for concurrent use; only CanConnect and the introspection helpers perform
// I/O, through database/sql.
package dialect
