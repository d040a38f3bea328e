// Package sqlite implements the SQLite dialect. SQLite stores temporal
// values as text and exposes no interval arithmetic, so every bucketing
// form routes through STRFTIME and the date-function modifiers. The
// connection "address" is the database file path; there is no network,
// user or password.
package sqlite

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/exceedzhang/metabase/dialect"
	"github.com/exceedzhang/metabase/dialect/sqlbase"
	"github.com/exceedzhang/metabase/dialect/sqlexpr"
)

// Name is the registry identifier and database/sql driver name.
const Name = "sqlite"

// DefaultPath is the database used when parameters carry none: a private
// in-memory database.
const DefaultPath = ":memory:"

func init() {
	dialect.Register(New())
}

// Dialect is the SQLite dialect.
type Dialect struct {
	sqlbase.Dialect
}

// New returns the SQLite dialect.
func New() Dialect {
	return Dialect{sqlbase.New(Name)}
}

// columnTypes maps declared SQLite type names to semantic types. Declared
// types are free-form in SQLite; this covers the standard vocabulary and
// lets anything else degrade to TypeUnknown.
var columnTypes = map[string]dialect.Semantic{
	"BIGINT":            dialect.TypeBigInteger,
	"INT8":              dialect.TypeBigInteger,
	"UNSIGNED BIG INT":  dialect.TypeBigInteger,
	"BLOB":              dialect.TypeBlob,
	"BOOLEAN":           dialect.TypeInteger,
	"CHARACTER":         dialect.TypeText,
	"CLOB":              dialect.TypeText,
	"NATIVE CHARACTER":  dialect.TypeText,
	"NCHAR":             dialect.TypeText,
	"NVARCHAR":          dialect.TypeText,
	"TEXT":              dialect.TypeText,
	"VARCHAR":           dialect.TypeText,
	"VARYING CHARACTER": dialect.TypeText,
	"DATE":              dialect.TypeDate,
	"DATETIME":          dialect.TypeDateTime,
	"TIMESTAMP":         dialect.TypeDateTime,
	"TIME":              dialect.TypeTime,
	"DECIMAL":           dialect.TypeDecimal,
	"NUMERIC":           dialect.TypeDecimal,
	"DOUBLE":            dialect.TypeFloat,
	"DOUBLE PRECISION":  dialect.TypeFloat,
	"FLOAT":             dialect.TypeFloat,
	"REAL":              dialect.TypeFloat,
	"INT":               dialect.TypeInteger,
	"INT2":              dialect.TypeInteger,
	"INTEGER":           dialect.TypeInteger,
	"MEDIUMINT":         dialect.TypeInteger,
	"SMALLINT":          dialect.TypeInteger,
	"TINYINT":           dialect.TypeInteger,
}

// MapColumnType maps a declared type to its semantic type, ignoring any
// length suffix such as VARCHAR(255). Typeless columns yield TypeUnknown.
func (Dialect) MapColumnType(native string) dialect.Semantic {
	s := strings.ToUpper(strings.TrimSpace(native))
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if t, ok := columnTypes[s]; ok {
		return t
	}
	return dialect.TypeUnknown
}

func strftime(format string, expr sqlexpr.Expr) sqlexpr.Expr {
	return sqlexpr.Call("STRFTIME", sqlexpr.Lit(format), expr)
}

func strftimeInt(format string, expr sqlexpr.Expr) sqlexpr.Expr {
	return sqlexpr.Cast(strftime(format, expr), "INTEGER")
}

// TemporalBucket compiles a temporal bucketing operation with STRFTIME.
// STRFTIME yields text, so extraction units cast back to INTEGER and
// truncation units re-enter DATETIME or DATE.
func (Dialect) TemporalBucket(unit dialect.TemporalUnit, expr sqlexpr.Expr) sqlexpr.Expr {
	switch unit {
	case dialect.UnitDefault:
		return expr
	case dialect.UnitMinute:
		return sqlexpr.Call("DATETIME", strftime("%Y-%m-%d %H:%M:00", expr))
	case dialect.UnitMinuteOfHour:
		return strftimeInt("%M", expr)
	case dialect.UnitHour:
		return sqlexpr.Call("DATETIME", strftime("%Y-%m-%d %H:00:00", expr))
	case dialect.UnitHourOfDay:
		return strftimeInt("%H", expr)
	case dialect.UnitDay:
		return sqlexpr.Call("DATE", expr)
	case dialect.UnitDayOfWeek:
		// %w is 0-6 starting Sunday; shift to 1-7.
		return sqlexpr.Op(strftimeInt("%w", expr), "+", sqlexpr.Lit(1))
	case dialect.UnitDayOfMonth:
		return strftimeInt("%d", expr)
	case dialect.UnitDayOfYear:
		return strftimeInt("%j", expr)
	case dialect.UnitWeek:
		// The INTEGER cast keeps week numbering aligned with UnitWeekOfYear;
		// PRINTF restores the two-digit width the cast strips.
		week := sqlexpr.Call("PRINTF", sqlexpr.Lit("%02d"), strftimeInt("%W", expr))
		return sqlexpr.Op(strftime("%Y", expr), "||", week)
	case dialect.UnitWeekOfYear:
		return strftimeInt("%W", expr)
	case dialect.UnitMonth:
		return sqlexpr.Call("DATE", expr, sqlexpr.Lit("start of month"))
	case dialect.UnitMonthOfYear:
		return strftimeInt("%m", expr)
	case dialect.UnitQuarter:
		// No quarter function: derive the quarter number from the month,
		// map it to the quarter's first month and rebuild a date string.
		month := sqlbase.FirstMonthOfQuarter(quarterOfYear(expr))
		return sqlexpr.Call("DATE",
			sqlexpr.Op(
				sqlexpr.Op(
					sqlexpr.Op(strftime("%Y", expr), "||", sqlexpr.Lit("-")),
					"||",
					sqlexpr.Call("PRINTF", sqlexpr.Lit("%02d"), month),
				),
				"||",
				sqlexpr.Lit("-01"),
			),
		)
	case dialect.UnitQuarterOfYear:
		return quarterOfYear(expr)
	case dialect.UnitYear:
		return strftimeInt("%Y", expr)
	}
	panic(fmt.Sprintf("sqlite: unhandled temporal unit %q", unit))
}

func quarterOfYear(expr sqlexpr.Expr) sqlexpr.Expr {
	return sqlexpr.Op(sqlexpr.Op(strftimeInt("%m", expr), "+", sqlexpr.Lit(2)), "/", sqlexpr.Lit(3))
}

// UnixTimestamp converts an epoch expression with the unixepoch modifier.
// Milliseconds divide by 1000 and reuse the seconds branch.
func (d Dialect) UnixTimestamp(expr sqlexpr.Expr, unit dialect.TimestampUnit) sqlexpr.Expr {
	switch unit {
	case dialect.Milliseconds:
		return d.UnixTimestamp(sqlexpr.Op(expr, "/", sqlexpr.Lit(1000)), dialect.Seconds)
	default:
		return sqlexpr.Call("DATETIME", expr, sqlexpr.Lit("unixepoch"))
	}
}

// intervalModifiers maps interval units onto SQLite date modifiers.
// SQLite knows no week or quarter modifier, so those scale into days and
// months.
var intervalModifiers = map[dialect.TemporalUnit]struct {
	factor int64
	word   string
}{
	dialect.UnitMinute:  {1, "minutes"},
	dialect.UnitHour:    {1, "hours"},
	dialect.UnitDay:     {1, "days"},
	dialect.UnitWeek:    {7, "days"},
	dialect.UnitMonth:   {1, "months"},
	dialect.UnitQuarter: {3, "months"},
	dialect.UnitYear:    {1, "years"},
}

// DateInterval returns "now" offset by amount units as a DATETIME
// modifier, DATETIME('now', '+30 days').
func (Dialect) DateInterval(unit dialect.TemporalUnit, amount float64) (sqlexpr.Expr, error) {
	n, err := sqlbase.SanitizeAmount(unit, amount)
	if err != nil {
		return nil, err
	}
	mod, ok := intervalModifiers[unit]
	if !ok {
		return nil, &dialect.IntervalError{Unit: unit, Amount: amount, Reason: "unit not usable in an interval"}
	}
	if mod.factor != 1 && (n > math.MaxInt64/mod.factor || n < math.MinInt64/mod.factor) {
		return nil, &dialect.IntervalError{Unit: unit, Amount: amount, Reason: "amount out of range"}
	}
	n *= mod.factor
	return sqlexpr.Call("DATETIME", sqlexpr.Lit("now"), sqlexpr.Lit(fmt.Sprintf("%+d %s", n, mod.word))), nil
}

// CurrentTimestamp returns DATETIME('now').
func (Dialect) CurrentTimestamp() sqlexpr.Expr {
	return sqlexpr.Call("DATETIME", sqlexpr.Lit("now"))
}

// Epoch returns DATETIME(0, 'unixepoch').
func (Dialect) Epoch() sqlexpr.Expr {
	return sqlexpr.Call("DATETIME", sqlexpr.Lit(0), sqlexpr.Lit("unixepoch"))
}

// StringLength returns LENGTH(expr).
func (Dialect) StringLength(expr sqlexpr.Expr) sqlexpr.Expr {
	return sqlexpr.Call("LENGTH", expr)
}

// ConnectionSpec treats the database parameter as the file path; host,
// port and credentials do not apply to an embedded database and are
// ignored. An empty path opens a private in-memory database. Options are
// appended as query parameters.
func (Dialect) ConnectionSpec(p dialect.ConnectionParameters) dialect.ConnDescriptor {
	path := p.Database()
	if path == "" {
		path = DefaultPath
	}
	return dialect.ConnDescriptor{
		DriverName: Name,
		Protocol:   "file",
		Address:    path,
		Properties: []dialect.Property{{Key: "path", Value: path}},
		DSN:        dialect.AppendOptions(path, p.Options(), "&", "?"),
	}
}

// TablesSQL lists user tables from sqlite_master; internal sqlite_*
// tables are excluded. The schema column is the constant main database.
func (Dialect) TablesSQL() string {
	return "SELECT name, 'main' FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"
}

// ColumnsSQL lists columns through the pragma_table_info table-valued
// function.
func (Dialect) ColumnsSQL() string {
	return "SELECT name, type FROM pragma_table_info(?) ORDER BY cid"
}

var messagePatterns = append([]sqlbase.Pattern{
	{Match: regexp.MustCompile(`unable to open database file`), Kind: dialect.KindDatabaseNameIncorrect},
	{Match: regexp.MustCompile(`not a database`), Kind: dialect.KindDatabaseNameIncorrect},
}, sqlbase.BasePatterns()...)

// ClassifyMessage matches SQLite messages first, then the shared
// transport patterns.
func (Dialect) ClassifyMessage(raw string) dialect.ErrorCategory {
	return sqlbase.Classify(messagePatterns, raw)
}

var _ dialect.Driver = (*Dialect)(nil)
