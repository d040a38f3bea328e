// Package postgres implements the PostgreSQL dialect. The generic-SQL
// baseline already speaks Postgres for most operations, so this dialect
// overrides the narrow set where native forms are better: DATE_TRUNC for
// the synthesized week/month/quarter buckets, TO_TIMESTAMP for epochs,
// and the conninfo connection format.
package postgres

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/lib/pq"

	"github.com/exceedzhang/metabase/dialect"
	"github.com/exceedzhang/metabase/dialect/sqlbase"
	"github.com/exceedzhang/metabase/dialect/sqlexpr"
)

// Name is the registry identifier and database/sql driver name.
const Name = "postgres"

// DefaultPort is used when connection parameters carry no port.
const DefaultPort = 5432

func init() {
	dialect.Register(New())
}

// Dialect is the PostgreSQL dialect.
type Dialect struct {
	sqlbase.Dialect
}

// New returns the PostgreSQL dialect.
func New() Dialect {
	return Dialect{sqlbase.New(Name)}
}

// columnTypes maps pg_catalog udt names, as reported by ColumnsSQL, to
// semantic types. Booleans map to integers; richer text-ish types (uuid,
// json, network addresses) degrade to text rather than TypeUnknown.
var columnTypes = map[string]dialect.Semantic{
	"bigint":      dialect.TypeBigInteger,
	"bigserial":   dialect.TypeBigInteger,
	"int8":        dialect.TypeBigInteger,
	"serial8":     dialect.TypeBigInteger,
	"bool":        dialect.TypeInteger,
	"boolean":     dialect.TypeInteger,
	"bytea":       dialect.TypeBlob,
	"bpchar":      dialect.TypeText,
	"char":        dialect.TypeText,
	"character":   dialect.TypeText,
	"cidr":        dialect.TypeText,
	"citext":      dialect.TypeText,
	"inet":        dialect.TypeText,
	"json":        dialect.TypeText,
	"jsonb":       dialect.TypeText,
	"macaddr":     dialect.TypeText,
	"name":        dialect.TypeText,
	"text":        dialect.TypeText,
	"uuid":        dialect.TypeText,
	"varchar":     dialect.TypeText,
	"xml":         dialect.TypeText,
	"date":        dialect.TypeDate,
	"decimal":     dialect.TypeDecimal,
	"money":       dialect.TypeDecimal,
	"numeric":     dialect.TypeDecimal,
	"float4":      dialect.TypeFloat,
	"float8":      dialect.TypeFloat,
	"real":        dialect.TypeFloat,
	"int":         dialect.TypeInteger,
	"int2":        dialect.TypeInteger,
	"int4":        dialect.TypeInteger,
	"integer":     dialect.TypeInteger,
	"serial":      dialect.TypeInteger,
	"serial2":     dialect.TypeInteger,
	"serial4":     dialect.TypeInteger,
	"smallint":    dialect.TypeInteger,
	"smallserial": dialect.TypeInteger,
	"time":        dialect.TypeTime,
	"timetz":      dialect.TypeTime,
	"timestamp":   dialect.TypeDateTime,
	"timestamptz": dialect.TypeDateTime,

	"character varying":           dialect.TypeText,
	"double precision":            dialect.TypeFloat,
	"time with time zone":         dialect.TypeTime,
	"time without time zone":      dialect.TypeTime,
	"timestamp with time zone":    dialect.TypeDateTime,
	"timestamp without time zone": dialect.TypeDateTime,
}

// MapColumnType maps a Postgres type name to its semantic type.
func (Dialect) MapColumnType(native string) dialect.Semantic {
	key := strings.ToLower(strings.TrimSpace(native))
	if t, ok := columnTypes[key]; ok {
		return t
	}
	return dialect.TypeUnknown
}

// TemporalBucket keeps the baseline forms except where Postgres truncates
// natively: week, month and quarter collapse to a single DATE_TRUNC
// instead of the baseline's string synthesis.
func (d Dialect) TemporalBucket(unit dialect.TemporalUnit, expr sqlexpr.Expr) sqlexpr.Expr {
	switch unit {
	case dialect.UnitWeek:
		return sqlexpr.Call("DATE_TRUNC", sqlexpr.Lit("week"), expr)
	case dialect.UnitMonth:
		return sqlexpr.Call("DATE_TRUNC", sqlexpr.Lit("month"), expr)
	case dialect.UnitQuarter:
		return sqlexpr.Call("DATE_TRUNC", sqlexpr.Lit("quarter"), expr)
	default:
		return d.Dialect.TemporalBucket(unit, expr)
	}
}

// UnixTimestamp converts an epoch expression with TO_TIMESTAMP.
// Milliseconds divide by 1000 and reuse the seconds branch.
func (d Dialect) UnixTimestamp(expr sqlexpr.Expr, unit dialect.TimestampUnit) sqlexpr.Expr {
	switch unit {
	case dialect.Milliseconds:
		return d.UnixTimestamp(sqlexpr.Op(expr, "/", sqlexpr.Lit(1000)), dialect.Seconds)
	default:
		return sqlexpr.Call("TO_TIMESTAMP", expr)
	}
}

// DateInterval returns NOW() offset by amount units, using the quoted
// interval literal Postgres prefers.
func (d Dialect) DateInterval(unit dialect.TemporalUnit, amount float64) (sqlexpr.Expr, error) {
	n, err := sqlbase.SanitizeAmount(unit, amount)
	if err != nil {
		return nil, err
	}
	kw, ok := sqlbase.IntervalKeyword(unit)
	if !ok {
		return nil, &dialect.IntervalError{Unit: unit, Amount: amount, Reason: "unit not usable in an interval"}
	}
	return sqlexpr.Op(d.CurrentTimestamp(), "+", sqlexpr.Raw(fmt.Sprintf("INTERVAL '%d %s'", n, strings.ToLower(kw)))), nil
}

// CurrentTimestamp returns NOW().
func (Dialect) CurrentTimestamp() sqlexpr.Expr {
	return sqlexpr.Raw("NOW()")
}

// ConnectionSpec builds a lib/pq conninfo string of space-separated
// key=value pairs. SSL maps onto sslmode=require, its absence onto
// sslmode=disable. Values are quoted when they contain characters the
// conninfo syntax would misread.
func (Dialect) ConnectionSpec(p dialect.ConnectionParameters) dialect.ConnDescriptor {
	var (
		port = p.PortOr(DefaultPort)
		user = p.UserOr(dialect.DefaultUser)
		addr = fmt.Sprintf("%s:%d", p.Host(), port)
	)
	sslmode := "disable"
	if p.SSL() {
		sslmode = "require"
	}
	props := []dialect.Property{
		{Key: "dbname", Value: p.Database()},
		{Key: "user", Value: user},
	}
	if pw, ok := p.Password(); ok {
		props = append(props, dialect.Property{Key: "password", Value: pw})
	}
	props = append(props, dialect.Property{Key: "sslmode", Value: sslmode})

	var b strings.Builder
	writeConnPair(&b, "host", p.Host())
	writeConnPair(&b, "port", fmt.Sprintf("%d", port))
	for _, prop := range props {
		writeConnPair(&b, prop.Key, prop.Value)
	}
	for _, opt := range p.Options() {
		writeConnPair(&b, opt.Key, opt.Value)
	}
	return dialect.ConnDescriptor{
		DriverName: Name,
		Protocol:   "postgresql",
		Address:    addr,
		Properties: props,
		DSN:        b.String(),
	}
}

// writeConnPair appends key=value, single-quoting the value when it is
// empty or contains spaces, quotes or backslashes.
func writeConnPair(b *strings.Builder, key, value string) {
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(key)
	b.WriteByte('=')
	if value == "" || strings.ContainsAny(value, ` '\`) {
		value = strings.ReplaceAll(value, `\`, `\\`)
		value = strings.ReplaceAll(value, `'`, `\'`)
		b.WriteByte('\'')
		b.WriteString(value)
		b.WriteByte('\'')
		return
	}
	b.WriteString(value)
}

// ExcludedSchemas returns the Postgres system schemas.
func (Dialect) ExcludedSchemas() []string {
	return []string{"pg_catalog", "information_schema"}
}

// TimezoneSQL returns the session timezone statement template.
func (Dialect) TimezoneSQL() string {
	return "SET SESSION TIMEZONE TO '%s'"
}

// ColumnsSQL uses udt_name, which carries the concrete type where
// data_type says only "USER-DEFINED" or the verbose spelled-out name, and
// the $1 placeholder style lib/pq expects.
func (Dialect) ColumnsSQL() string {
	return "SELECT column_name, udt_name FROM information_schema.columns WHERE table_name = $1 ORDER BY ordinal_position"
}

var messagePatterns = append([]sqlbase.Pattern{
	{Match: regexp.MustCompile(`database ".*" does not exist`), Kind: dialect.KindDatabaseNameIncorrect},
	{Match: regexp.MustCompile(`password authentication failed for user`), Kind: dialect.KindUsernameOrPasswordIncorrect},
	{Match: regexp.MustCompile(`role ".*" does not exist`), Kind: dialect.KindUsernameOrPasswordIncorrect},
	{Match: regexp.MustCompile(`no pg_hba\.conf entry for host`), Kind: dialect.KindUsernameOrPasswordIncorrect},
}, sqlbase.BasePatterns()...)

// ClassifyMessage matches Postgres server messages first, then the shared
// transport patterns.
func (Dialect) ClassifyMessage(raw string) dialect.ErrorCategory {
	return sqlbase.Classify(messagePatterns, raw)
}

// ClassifyDriverError inspects lib/pq errors by SQLSTATE code.
func (Dialect) ClassifyDriverError(err error) (dialect.ErrorCategory, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return dialect.ErrorCategory{}, false
	}
	cat := dialect.ErrorCategory{Raw: err.Error()}
	switch pqErr.Code {
	case "3D000": // invalid_catalog_name
		cat.Kind = dialect.KindDatabaseNameIncorrect
	case "28000", "28P01": // invalid_authorization_specification, invalid_password
		cat.Kind = dialect.KindUsernameOrPasswordIncorrect
	default:
		return dialect.ErrorCategory{}, false
	}
	return cat, true
}

var (
	_ dialect.Driver                = (*Dialect)(nil)
	_ dialect.DriverErrorClassifier = (*Dialect)(nil)
)
