// Package sqlbase implements the generic-SQL baseline dialect. Concrete
// dialects embed Dialect and override only the behaviors that differ from
// it, so a new backend supplies just its own type table, temporal forms,
// connection format and error patterns.
package sqlbase

import (
	"fmt"
	"strings"

	"github.com/exceedzhang/metabase/dialect"
	"github.com/exceedzhang/metabase/dialect/sqlexpr"
)

// Dialect is the generic-SQL baseline. It is a complete dialect.Driver:
// ANSI-leaning SQL forms, double-quote identifier quoting and
// information_schema catalog queries. It carries no real transport; embed
// it in a dialect bound to a database/sql driver to connect anywhere.
type Dialect struct {
	// DriverName is the registry identifier and database/sql driver name.
	DriverName string
}

// New returns a baseline dialect named name.
func New(name string) Dialect {
	return Dialect{DriverName: name}
}

// Name returns the driver identifier.
func (d Dialect) Name() string { return d.DriverName }

// QuoteStyle returns ANSI double-quote quoting.
func (Dialect) QuoteStyle() sqlexpr.QuoteStyle { return sqlexpr.QuoteANSI }

// columnTypes is the ANSI column-type vocabulary. Every key maps to a
// non-Unknown semantic type; unlisted names degrade to TypeUnknown.
var columnTypes = map[string]dialect.Semantic{
	"BIGINT":           dialect.TypeBigInteger,
	"BLOB":             dialect.TypeBlob,
	"CHAR":             dialect.TypeText,
	"CHARACTER":        dialect.TypeText,
	"DATE":             dialect.TypeDate,
	"DECIMAL":          dialect.TypeDecimal,
	"DOUBLE PRECISION": dialect.TypeFloat,
	"FLOAT":            dialect.TypeFloat,
	"INT":              dialect.TypeInteger,
	"INTEGER":          dialect.TypeInteger,
	"NUMERIC":          dialect.TypeDecimal,
	"REAL":             dialect.TypeFloat,
	"SMALLINT":         dialect.TypeInteger,
	"TEXT":             dialect.TypeText,
	"TIME":             dialect.TypeTime,
	"TIMESTAMP":        dialect.TypeDateTime,
	"VARCHAR":          dialect.TypeText,
}

// MapColumnType maps an ANSI type name to its semantic type. Names are
// upper-cased and trimmed before lookup; unknown names yield TypeUnknown.
func (Dialect) MapColumnType(native string) dialect.Semantic {
	key := strings.ToUpper(strings.TrimSpace(native))
	if t, ok := columnTypes[key]; ok {
		return t
	}
	return dialect.TypeUnknown
}

// TemporalBucket compiles a temporal bucketing operation using the
// DATE_TRUNC/DATE_PART family. Units without a native truncation are
// synthesized: Week concatenates year and week-of-year into a sortable
// composite key, Month and Quarter build a "YYYY-MM-01" string and parse
// it back into a date. The first month of a quarter is (quarter*3)-2.
func (Dialect) TemporalBucket(unit dialect.TemporalUnit, expr sqlexpr.Expr) sqlexpr.Expr {
	switch unit {
	case dialect.UnitDefault:
		return expr
	case dialect.UnitMinute:
		return sqlexpr.Call("DATE_TRUNC", sqlexpr.Lit("minute"), expr)
	case dialect.UnitMinuteOfHour:
		return datePart("minute", expr)
	case dialect.UnitHour:
		return sqlexpr.Call("DATE_TRUNC", sqlexpr.Lit("hour"), expr)
	case dialect.UnitHourOfDay:
		return datePart("hour", expr)
	case dialect.UnitDay:
		return sqlexpr.Call("DATE_TRUNC", sqlexpr.Lit("day"), expr)
	case dialect.UnitDayOfWeek:
		// DATE_PART dow is 0-6 starting Sunday; shift to 1-7.
		return sqlexpr.Op(datePart("dow", expr), "+", sqlexpr.Lit(1))
	case dialect.UnitDayOfMonth:
		return datePart("day", expr)
	case dialect.UnitDayOfYear:
		return datePart("doy", expr)
	case dialect.UnitWeek:
		// Same week numbering as UnitWeekOfYear, zero-padded to two digits
		// and prefixed with the year, so composite keys sort chronologically.
		week := sqlexpr.Call("LPAD", datePart("week", expr), sqlexpr.Lit(2), sqlexpr.Lit("0"))
		return sqlexpr.Call("CONCAT", datePart("year", expr), week)
	case dialect.UnitWeekOfYear:
		return datePart("week", expr)
	case dialect.UnitMonth:
		return sqlexpr.Call("TO_DATE",
			sqlexpr.Call("CONCAT", sqlexpr.Call("TO_CHAR", expr, sqlexpr.Lit("YYYY-MM")), sqlexpr.Lit("-01")),
			sqlexpr.Lit("YYYY-MM-DD"),
		)
	case dialect.UnitMonthOfYear:
		return datePart("month", expr)
	case dialect.UnitQuarter:
		return sqlexpr.Call("TO_DATE",
			sqlexpr.Call("CONCAT",
				datePart("year", expr),
				sqlexpr.Lit("-"),
				firstMonthOfQuarter(datePart("quarter", expr)),
				sqlexpr.Lit("-01"),
			),
			sqlexpr.Lit("YYYY-MM-DD"),
		)
	case dialect.UnitQuarterOfYear:
		return datePart("quarter", expr)
	case dialect.UnitYear:
		return datePart("year", expr)
	}
	panic(fmt.Sprintf("sqlbase: unhandled temporal unit %q", unit))
}

func datePart(part string, expr sqlexpr.Expr) sqlexpr.Expr {
	return sqlexpr.Call("DATE_PART", sqlexpr.Lit(part), expr)
}

// FirstMonthOfQuarter maps a quarter-number expression to the number of the
// quarter's first month: (quarter*3)-2, so quarters 1-4 give months
// 1, 4, 7 and 10.
func FirstMonthOfQuarter(quarter sqlexpr.Expr) sqlexpr.Expr {
	return firstMonthOfQuarter(quarter)
}

func firstMonthOfQuarter(quarter sqlexpr.Expr) sqlexpr.Expr {
	return sqlexpr.Op(sqlexpr.Op(quarter, "*", sqlexpr.Lit(3)), "-", sqlexpr.Lit(2))
}

// UnixTimestamp converts a numeric epoch expression to a timestamp by
// adding that many seconds to the epoch constant. A milliseconds
// expression is divided by 1000 and re-dispatched through the seconds
// branch, so both resolutions build the same tree shape.
func (d Dialect) UnixTimestamp(expr sqlexpr.Expr, unit dialect.TimestampUnit) sqlexpr.Expr {
	switch unit {
	case dialect.Milliseconds:
		return d.UnixTimestamp(sqlexpr.Op(expr, "/", sqlexpr.Lit(1000)), dialect.Seconds)
	default:
		return sqlexpr.Op(d.Epoch(), "+", sqlexpr.Op(expr, "*", sqlexpr.Raw("INTERVAL '1' SECOND")))
	}
}

// DateInterval returns "now" offset by amount units as a raw interval
// fragment, CURRENT_TIMESTAMP + INTERVAL <n> <unit>. The amount is
// validated and truncated to an integer before it is formatted; see
// SanitizeAmount.
func (d Dialect) DateInterval(unit dialect.TemporalUnit, amount float64) (sqlexpr.Expr, error) {
	n, err := SanitizeAmount(unit, amount)
	if err != nil {
		return nil, err
	}
	kw, ok := IntervalKeyword(unit)
	if !ok {
		return nil, &dialect.IntervalError{Unit: unit, Amount: amount, Reason: "unit not usable in an interval"}
	}
	return sqlexpr.Op(d.CurrentTimestamp(), "+", sqlexpr.Raw(fmt.Sprintf("INTERVAL %d %s", n, kw))), nil
}

// CurrentTimestamp returns CURRENT_TIMESTAMP.
func (Dialect) CurrentTimestamp() sqlexpr.Expr {
	return sqlexpr.Raw("CURRENT_TIMESTAMP")
}

// Epoch returns the timestamp literal for 1970-01-01 00:00:00.
func (Dialect) Epoch() sqlexpr.Expr {
	return sqlexpr.Raw("TIMESTAMP '1970-01-01 00:00:00'")
}

// StringLength returns CHAR_LENGTH(expr).
func (Dialect) StringLength(expr sqlexpr.Expr) sqlexpr.Expr {
	return sqlexpr.Call("CHAR_LENGTH", expr)
}

// ConnectionSpec derives a neutral, URL-style descriptor. The address
// carries only host and port; database, user, password and the ssl flag
// become ordered properties, where values may contain characters unsafe in
// a raw connection string. Extra options are appended to the DSN with "&",
// joined by "?" unless a prior segment already added one.
func (d Dialect) ConnectionSpec(p dialect.ConnectionParameters) dialect.ConnDescriptor {
	addr := p.Host()
	if port := p.Port(); port != 0 {
		addr = fmt.Sprintf("%s:%d", addr, port)
	}
	props := []dialect.Property{
		{Key: "dbname", Value: p.Database()},
		{Key: "user", Value: p.UserOr(dialect.DefaultUser)},
	}
	if pw, ok := p.Password(); ok {
		props = append(props, dialect.Property{Key: "password", Value: pw})
	}
	if p.SSL() {
		props = append(props, dialect.Property{Key: "ssl", Value: "true"})
	}
	dsn := fmt.Sprintf("%s://%s/%s", d.DriverName, addr, p.Database())
	dsn = dialect.AppendOptions(dsn, p.Options(), "&", "?")
	return dialect.ConnDescriptor{
		DriverName: d.DriverName,
		Protocol:   d.DriverName,
		Address:    addr,
		Properties: props,
		DSN:        dsn,
	}
}

// ProbeSQL returns the no-op connectivity probe.
func (Dialect) ProbeSQL() string { return "SELECT 1" }

// ExcludedSchemas returns nil; the baseline hides nothing.
func (Dialect) ExcludedSchemas() []string { return nil }

// TimezoneSQL returns the empty template; generic SQL has no portable
// session timezone statement.
func (Dialect) TimezoneSQL() string { return "" }

// TablesSQL lists base tables from information_schema.
func (Dialect) TablesSQL() string {
	return "SELECT table_name, table_schema FROM information_schema.tables WHERE table_type = 'BASE TABLE' ORDER BY table_schema, table_name"
}

// ColumnsSQL lists the columns of one table from information_schema.
func (Dialect) ColumnsSQL() string {
	return "SELECT column_name, data_type FROM information_schema.columns WHERE table_name = ? ORDER BY ordinal_position"
}

// ClassifyMessage matches transport-level failures every backend can
// produce; dialects prepend their backend-specific patterns.
func (Dialect) ClassifyMessage(raw string) dialect.ErrorCategory {
	return Classify(basePatterns, raw)
}

var _ dialect.Driver = (*Dialect)(nil)
