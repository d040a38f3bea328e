package dialect

import (
	"context"
	"database/sql"

	"github.com/exceedzhang/metabase/dialect/sqlexpr"
)

// Driver is the bundle of overridable behaviors that defines how the query
// engine talks to one SQL dialect. Implementations embed the generic
// baseline in dialect/sqlbase and override only what differs.
//
// Every method is a pure function over immutable inputs, so a registered
// Driver is shared read-only by any number of concurrent query
// compilations. The operations that touch a live connection (CanConnect,
// Probe, Tables, Columns, SetTimezone) are package functions that take a
// Driver, not methods on it.
type Driver interface {
	// Name returns the identifier the driver is registered under, e.g. "mysql".
	Name() string

	// QuoteStyle returns the identifier-quoting style for rendered SQL.
	QuoteStyle() sqlexpr.QuoteStyle

	// MapColumnType maps a native column type name, as reported by schema
	// introspection, to its semantic type. Unmapped names yield TypeUnknown,
	// never an error.
	MapColumnType(native string) Semantic

	// TemporalBucket returns the SQL expression that buckets or truncates
	// expr to the given granularity. The unit switch is exhaustive; passing
	// a value outside the TemporalUnit enumeration is a programming error
	// and panics.
	TemporalBucket(unit TemporalUnit, expr sqlexpr.Expr) sqlexpr.Expr

	// UnixTimestamp returns the SQL expression converting a numeric epoch
	// column to a timestamp. A milliseconds expression is divided by 1000
	// before conversion, so the milliseconds tree is identical to the
	// seconds tree over the divided expression; fractional-second handling
	// follows the dialect's division semantics.
	UnixTimestamp(expr sqlexpr.Expr, unit TimestampUnit) sqlexpr.Expr

	// DateInterval returns "now" offset by the given amount of units, e.g.
	// CURRENT_TIMESTAMP + INTERVAL 30 DAY. The amount is truncated to an
	// integer before it is formatted into the raw interval fragment; NaN,
	// infinite and out-of-range amounts are rejected.
	DateInterval(unit TemporalUnit, amount float64) (sqlexpr.Expr, error)

	// CurrentTimestamp returns the dialect's "now" expression.
	CurrentTimestamp() sqlexpr.Expr

	// Epoch returns the dialect's expression for the Unix epoch,
	// 1970-01-01 00:00:00.
	Epoch() sqlexpr.Expr

	// StringLength returns the dialect's character-length expression.
	StringLength(expr sqlexpr.Expr) sqlexpr.Expr

	// ConnectionSpec derives the dialect-specific connection descriptor
	// from generic connection parameters. It is pure and total: unset
	// optional fields take documented defaults, and identical parameters
	// always produce a byte-identical descriptor.
	ConnectionSpec(p ConnectionParameters) ConnDescriptor

	// ClassifyMessage matches a raw backend error message against the
	// dialect's ordered pattern list and returns the first matching
	// category. Unmatched messages yield an Unclassified category carrying
	// the original text.
	ClassifyMessage(raw string) ErrorCategory

	// ProbeSQL returns the no-op probe query used by CanConnect. The probe
	// must return exactly one row with the single value 1.
	ProbeSQL() string

	// ExcludedSchemas returns schema names hidden from introspection,
	// e.g. INFORMATION_SCHEMA.
	ExcludedSchemas() []string

	// TimezoneSQL returns the statement template for setting the session
	// timezone, with a single %s placeholder for the escaped zone value.
	// An empty template means the dialect has no session timezone.
	TimezoneSQL() string

	// TablesSQL returns a query yielding (table_name, table_schema) rows
	// for the connected database.
	TablesSQL() string

	// ColumnsSQL returns a query yielding (column_name, native_type) rows
	// for one table, with a single placeholder binding the table name.
	ColumnsSQL() string
}

// DriverErrorClassifier is implemented by dialects that can classify typed
// driver errors (error numbers, SQLSTATE codes) without consulting the
// message text. Classify tries it before falling back to pattern matching.
type DriverErrorClassifier interface {
	ClassifyDriverError(err error) (ErrorCategory, bool)
}

// ExecQuerier wraps the standard ExecContext and QueryContext methods.
// It is implemented by *sql.DB, *sql.Conn and *sql.Tx.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Classify returns the user-facing category for a backend error. Dialects
// implementing DriverErrorClassifier get first look at the typed error;
// otherwise the error text goes through the dialect's message patterns.
// A nil error yields an unclassified category with empty text.
func Classify(d Driver, err error) ErrorCategory {
	if err == nil {
		return ErrorCategory{}
	}
	if dc, ok := d.(DriverErrorClassifier); ok {
		if cat, ok := dc.ClassifyDriverError(err); ok {
			return cat
		}
	}
	return d.ClassifyMessage(err.Error())
}
