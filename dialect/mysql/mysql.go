// Package mysql implements the MySQL dialect on top of the generic-SQL
// baseline. Importing it registers the dialect, so callers that select
// drivers by name need only a blank import.
package mysql

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/exceedzhang/metabase/dialect"
	"github.com/exceedzhang/metabase/dialect/sqlbase"
	"github.com/exceedzhang/metabase/dialect/sqlexpr"
)

// Name is the registry identifier and database/sql driver name.
const Name = "mysql"

// DefaultPort is used when connection parameters carry no port.
const DefaultPort = 3306

func init() {
	dialect.Register(New())
}

// Dialect is the MySQL dialect. MySQL keeps the baseline's interval
// keywords and catalog queries but replaces the whole temporal family:
// there is no DATE_TRUNC, so truncation formats the value down to the
// wanted precision and parses it back with STR_TO_DATE.
type Dialect struct {
	sqlbase.Dialect
}

// New returns the MySQL dialect.
func New() Dialect {
	return Dialect{sqlbase.New(Name)}
}

// QuoteStyle returns backtick quoting.
func (Dialect) QuoteStyle() sqlexpr.QuoteStyle { return sqlexpr.QuoteBacktick }

// columnTypes maps MySQL type names to semantic types. BIT is absent on
// purpose: it may hold either a flag or a bitmask, so it degrades to
// TypeUnknown instead of guessing.
var columnTypes = map[string]dialect.Semantic{
	"BIGINT":     dialect.TypeBigInteger,
	"BINARY":     dialect.TypeBlob,
	"BLOB":       dialect.TypeBlob,
	"CHAR":       dialect.TypeText,
	"DATE":       dialect.TypeDate,
	"DATETIME":   dialect.TypeDateTime,
	"DECIMAL":    dialect.TypeDecimal,
	"DOUBLE":     dialect.TypeFloat,
	"ENUM":       dialect.TypeText,
	"FLOAT":      dialect.TypeFloat,
	"INT":        dialect.TypeInteger,
	"INTEGER":    dialect.TypeInteger,
	"LONGBLOB":   dialect.TypeBlob,
	"LONGTEXT":   dialect.TypeText,
	"MEDIUMBLOB": dialect.TypeBlob,
	"MEDIUMINT":  dialect.TypeInteger,
	"MEDIUMTEXT": dialect.TypeText,
	"NUMERIC":    dialect.TypeDecimal,
	"REAL":       dialect.TypeFloat,
	"SET":        dialect.TypeText,
	"SMALLINT":   dialect.TypeInteger,
	"TEXT":       dialect.TypeText,
	"TIME":       dialect.TypeTime,
	"TIMESTAMP":  dialect.TypeDateTime,
	"TINYBLOB":   dialect.TypeBlob,
	"TINYINT":    dialect.TypeInteger,
	"TINYTEXT":   dialect.TypeText,
	"VARBINARY":  dialect.TypeBlob,
	"VARCHAR":    dialect.TypeText,
	"YEAR":       dialect.TypeInteger,
}

// MapColumnType maps a MySQL type name to its semantic type. Display
// widths and the UNSIGNED attribute are stripped first, so "BIGINT(20)
// UNSIGNED" and "bigint" land on the same entry.
func (Dialect) MapColumnType(native string) dialect.Semantic {
	if t, ok := columnTypes[normalizeColumnType(native)]; ok {
		return t
	}
	return dialect.TypeUnknown
}

func normalizeColumnType(native string) string {
	s := strings.ToUpper(strings.TrimSpace(native))
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return strings.TrimSuffix(s, " UNSIGNED")
}

// trunc formats the value down to the precision in format and parses it
// back into a temporal value.
func trunc(expr sqlexpr.Expr, format string) sqlexpr.Expr {
	return sqlexpr.Call("STR_TO_DATE", sqlexpr.Call("DATE_FORMAT", expr, sqlexpr.Lit(format)), sqlexpr.Lit(format))
}

// TemporalBucket compiles a temporal bucketing operation using MySQL's
// date functions.
func (Dialect) TemporalBucket(unit dialect.TemporalUnit, expr sqlexpr.Expr) sqlexpr.Expr {
	switch unit {
	case dialect.UnitDefault:
		return expr
	case dialect.UnitMinute:
		return trunc(expr, "%Y-%m-%d %H:%i")
	case dialect.UnitMinuteOfHour:
		return sqlexpr.Call("MINUTE", expr)
	case dialect.UnitHour:
		return trunc(expr, "%Y-%m-%d %H")
	case dialect.UnitHourOfDay:
		return sqlexpr.Call("HOUR", expr)
	case dialect.UnitDay:
		return sqlexpr.Call("DATE", expr)
	case dialect.UnitDayOfWeek:
		return sqlexpr.Call("DAYOFWEEK", expr)
	case dialect.UnitDayOfMonth:
		return sqlexpr.Call("DAYOFMONTH", expr)
	case dialect.UnitDayOfYear:
		return sqlexpr.Call("DAYOFYEAR", expr)
	case dialect.UnitWeek:
		return sqlexpr.Call("CONCAT",
			sqlexpr.Call("YEAR", expr),
			sqlexpr.Call("LPAD", sqlexpr.Call("WEEK", expr), sqlexpr.Lit(2), sqlexpr.Lit("0")),
		)
	case dialect.UnitWeekOfYear:
		return sqlexpr.Call("WEEK", expr)
	case dialect.UnitMonth:
		return sqlexpr.Call("STR_TO_DATE",
			sqlexpr.Call("CONCAT", sqlexpr.Call("DATE_FORMAT", expr, sqlexpr.Lit("%Y-%m")), sqlexpr.Lit("-01")),
			sqlexpr.Lit("%Y-%m-%d"),
		)
	case dialect.UnitMonthOfYear:
		return sqlexpr.Call("MONTH", expr)
	case dialect.UnitQuarter:
		return sqlexpr.Call("STR_TO_DATE",
			sqlexpr.Call("CONCAT",
				sqlexpr.Call("YEAR", expr),
				sqlexpr.Lit("-"),
				sqlbase.FirstMonthOfQuarter(sqlexpr.Call("QUARTER", expr)),
				sqlexpr.Lit("-01"),
			),
			sqlexpr.Lit("%Y-%m-%d"),
		)
	case dialect.UnitQuarterOfYear:
		return sqlexpr.Call("QUARTER", expr)
	case dialect.UnitYear:
		return sqlexpr.Call("YEAR", expr)
	}
	panic(fmt.Sprintf("mysql: unhandled temporal unit %q", unit))
}

// UnixTimestamp converts an epoch expression with FROM_UNIXTIME.
// Milliseconds divide by 1000 and reuse the seconds branch.
func (d Dialect) UnixTimestamp(expr sqlexpr.Expr, unit dialect.TimestampUnit) sqlexpr.Expr {
	switch unit {
	case dialect.Milliseconds:
		return d.UnixTimestamp(sqlexpr.Op(expr, "/", sqlexpr.Lit(1000)), dialect.Seconds)
	default:
		return sqlexpr.Call("FROM_UNIXTIME", expr)
	}
}

// DateInterval returns NOW() offset by amount units via DATE_ADD.
func (Dialect) DateInterval(unit dialect.TemporalUnit, amount float64) (sqlexpr.Expr, error) {
	n, err := sqlbase.SanitizeAmount(unit, amount)
	if err != nil {
		return nil, err
	}
	kw, ok := sqlbase.IntervalKeyword(unit)
	if !ok {
		return nil, &dialect.IntervalError{Unit: unit, Amount: amount, Reason: "unit not usable in an interval"}
	}
	return sqlexpr.Call("DATE_ADD", sqlexpr.Raw("NOW()"), sqlexpr.Raw(fmt.Sprintf("INTERVAL %d %s", n, kw))), nil
}

// CurrentTimestamp returns NOW().
func (Dialect) CurrentTimestamp() sqlexpr.Expr {
	return sqlexpr.Raw("NOW()")
}

// ConnectionSpec builds a go-sql-driver DSN of the form
// user:password@tcp(host:port)/dbname. parseTime=true is always set so
// temporal columns scan into time.Time; TLS and extra options join the
// existing query string with "&".
func (Dialect) ConnectionSpec(p dialect.ConnectionParameters) dialect.ConnDescriptor {
	var (
		user = p.UserOr(dialect.DefaultUser)
		addr = fmt.Sprintf("%s:%d", p.Host(), p.PortOr(DefaultPort))
	)
	props := []dialect.Property{
		{Key: "user", Value: user},
	}
	if pw, ok := p.Password(); ok {
		props = append(props, dialect.Property{Key: "password", Value: pw})
	}
	props = append(props, dialect.Property{Key: "parseTime", Value: "true"})
	if p.SSL() {
		props = append(props, dialect.Property{Key: "tls", Value: "true"})
	}

	var b strings.Builder
	b.WriteString(user)
	if pw, ok := p.Password(); ok {
		b.WriteByte(':')
		b.WriteString(pw)
	}
	fmt.Fprintf(&b, "@tcp(%s)/%s?parseTime=true", addr, p.Database())
	if p.SSL() {
		b.WriteString("&tls=true")
	}
	return dialect.ConnDescriptor{
		DriverName: Name,
		Protocol:   "tcp",
		Address:    addr,
		Properties: props,
		DSN:        dialect.AppendOptions(b.String(), p.Options(), "&", "?"),
	}
}

// ExcludedSchemas returns the MySQL system schemas.
func (Dialect) ExcludedSchemas() []string {
	return []string{"information_schema", "performance_schema", "mysql", "sys"}
}

// TimezoneSQL returns the session timezone statement template.
func (Dialect) TimezoneSQL() string {
	return "SET @@session.time_zone = '%s'"
}

var messagePatterns = append([]sqlbase.Pattern{
	{Match: regexp.MustCompile(`Unknown database`), Kind: dialect.KindDatabaseNameIncorrect},
	{Match: regexp.MustCompile(`Access denied for user`), Kind: dialect.KindUsernameOrPasswordIncorrect},
	{Match: regexp.MustCompile(`Unknown MySQL server host`), Kind: dialect.KindInvalidHostname},
	{Match: regexp.MustCompile(`Communications link failure`), Kind: dialect.KindCannotConnectHostPort},
}, sqlbase.BasePatterns()...)

// ClassifyMessage matches MySQL server messages first, then the shared
// transport patterns.
func (Dialect) ClassifyMessage(raw string) dialect.ErrorCategory {
	return sqlbase.Classify(messagePatterns, raw)
}

// ClassifyDriverError inspects go-sql-driver errors by server error
// number, skipping the message scan for the codes worth mapping.
func (Dialect) ClassifyDriverError(err error) (dialect.ErrorCategory, bool) {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return dialect.ErrorCategory{}, false
	}
	cat := dialect.ErrorCategory{Raw: err.Error()}
	switch myErr.Number {
	case 1044, 1045: // ER_DBACCESS_DENIED_ERROR, ER_ACCESS_DENIED_ERROR
		cat.Kind = dialect.KindUsernameOrPasswordIncorrect
	case 1049: // ER_BAD_DB_ERROR
		cat.Kind = dialect.KindDatabaseNameIncorrect
	default:
		return dialect.ErrorCategory{}, false
	}
	return cat, true
}

var (
	_ dialect.Driver                = (*Dialect)(nil)
	_ dialect.DriverErrorClassifier = (*Dialect)(nil)
)
