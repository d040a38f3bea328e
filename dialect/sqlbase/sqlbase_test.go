package sqlbase

import (
	"fmt"
	"math"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exceedzhang/metabase/dialect"
	"github.com/exceedzhang/metabase/dialect/sqlexpr"
)

func render(e sqlexpr.Expr) string {
	return sqlexpr.Render(e, sqlexpr.QuoteANSI)
}

func TestMapColumnType(t *testing.T) {
	d := New("generic")
	tests := []struct {
		native string
		want   dialect.Semantic
	}{
		{"BIGINT", dialect.TypeBigInteger},
		{"VARCHAR", dialect.TypeText},
		{"varchar", dialect.TypeText},
		{"  timestamp  ", dialect.TypeDateTime},
		{"DOUBLE PRECISION", dialect.TypeFloat},
		{"NUMERIC", dialect.TypeDecimal},
		{"BLOB", dialect.TypeBlob},
		{"GEOMETRY", dialect.TypeUnknown},
		{"", dialect.TypeUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, d.MapColumnType(tt.native), "native type %q", tt.native)
	}
}

// Every key in the type table is a real mapping; only names outside the
// table may degrade to TypeUnknown.
func TestColumnTypeTableIsTotal(t *testing.T) {
	d := New("generic")
	for native, want := range columnTypes {
		require.NotEqual(t, dialect.TypeUnknown, want, "table key %q", native)
		assert.Equal(t, want, d.MapColumnType(native), "table key %q", native)
	}
}

func TestTemporalBucket(t *testing.T) {
	d := New("generic")
	col := sqlexpr.Col("d")
	tests := []struct {
		unit dialect.TemporalUnit
		want string
	}{
		{dialect.UnitDefault, `"d"`},
		{dialect.UnitMinute, `DATE_TRUNC('minute', "d")`},
		{dialect.UnitMinuteOfHour, `DATE_PART('minute', "d")`},
		{dialect.UnitHour, `DATE_TRUNC('hour', "d")`},
		{dialect.UnitHourOfDay, `DATE_PART('hour', "d")`},
		{dialect.UnitDay, `DATE_TRUNC('day', "d")`},
		{dialect.UnitDayOfWeek, `(DATE_PART('dow', "d") + 1)`},
		{dialect.UnitDayOfMonth, `DATE_PART('day', "d")`},
		{dialect.UnitDayOfYear, `DATE_PART('doy', "d")`},
		{dialect.UnitWeek, `CONCAT(DATE_PART('year', "d"), LPAD(DATE_PART('week', "d"), 2, '0'))`},
		{dialect.UnitWeekOfYear, `DATE_PART('week', "d")`},
		{dialect.UnitMonth, `TO_DATE(CONCAT(TO_CHAR("d", 'YYYY-MM'), '-01'), 'YYYY-MM-DD')`},
		{dialect.UnitMonthOfYear, `DATE_PART('month', "d")`},
		{dialect.UnitQuarter, `TO_DATE(CONCAT(DATE_PART('year', "d"), '-', ((DATE_PART('quarter', "d") * 3) - 2), '-01'), 'YYYY-MM-DD')`},
		{dialect.UnitQuarterOfYear, `DATE_PART('quarter', "d")`},
		{dialect.UnitYear, `DATE_PART('year', "d")`},
	}
	for _, tt := range tests {
		t.Run(string(tt.unit), func(t *testing.T) {
			assert.Equal(t, tt.want, render(d.TemporalBucket(tt.unit, col)))
		})
	}
}

func TestTemporalBucketCoversAllUnits(t *testing.T) {
	d := New("generic")
	col := sqlexpr.Col("d")
	for _, unit := range dialect.Units() {
		assert.NotPanics(t, func() {
			d.TemporalBucket(unit, col)
		}, "unit %q", unit)
	}
}

func TestTemporalBucketUnknownUnitPanics(t *testing.T) {
	d := New("generic")
	assert.PanicsWithValue(t, `sqlbase: unhandled temporal unit "fortnight"`, func() {
		d.TemporalBucket(dialect.TemporalUnit("fortnight"), sqlexpr.Col("d"))
	})
}

func TestWeekEmbedsWeekOfYear(t *testing.T) {
	d := New("generic")
	col := sqlexpr.Col("d")
	week := render(d.TemporalBucket(dialect.UnitWeek, col))
	weekOfYear := render(d.TemporalBucket(dialect.UnitWeekOfYear, col))
	assert.Contains(t, week, weekOfYear, "composite week must reuse the week-of-year numbering")
}

func TestFirstMonthOfQuarter(t *testing.T) {
	for quarter, month := range map[int]int{1: 1, 2: 4, 3: 7, 4: 10} {
		got := render(FirstMonthOfQuarter(sqlexpr.Lit(quarter)))
		assert.Equal(t, fmt.Sprintf("((%d * 3) - 2)", quarter), got)
		assert.Equal(t, month, quarter*3-2)
	}
}

func TestUnixTimestamp(t *testing.T) {
	d := New("generic")
	col := sqlexpr.Col("ts")

	seconds := d.UnixTimestamp(col, dialect.Seconds)
	assert.Equal(t, `(TIMESTAMP '1970-01-01 00:00:00' + ("ts" * INTERVAL '1' SECOND))`, render(seconds))

	// Milliseconds divide by 1000 and reuse the seconds form, so the two
	// trees render identically once the division is written out.
	millis := d.UnixTimestamp(col, dialect.Milliseconds)
	divided := d.UnixTimestamp(sqlexpr.Op(col, "/", sqlexpr.Lit(1000)), dialect.Seconds)
	assert.Equal(t, render(divided), render(millis))
}

func TestDateInterval(t *testing.T) {
	d := New("generic")
	tests := []struct {
		unit   dialect.TemporalUnit
		amount float64
		want   string
	}{
		{dialect.UnitMinute, 15, "(CURRENT_TIMESTAMP + INTERVAL 15 MINUTE)"},
		{dialect.UnitDay, 30, "(CURRENT_TIMESTAMP + INTERVAL 30 DAY)"},
		{dialect.UnitDay, -30, "(CURRENT_TIMESTAMP + INTERVAL -30 DAY)"},
		{dialect.UnitMonth, 2.9, "(CURRENT_TIMESTAMP + INTERVAL 2 MONTH)"},
		{dialect.UnitQuarter, -1.5, "(CURRENT_TIMESTAMP + INTERVAL -1 QUARTER)"},
		{dialect.UnitYear, 1, "(CURRENT_TIMESTAMP + INTERVAL 1 YEAR)"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%v", tt.unit, tt.amount), func(t *testing.T) {
			expr, err := d.DateInterval(tt.unit, tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, render(expr))
		})
	}
}

func TestDateIntervalRejectsBadAmounts(t *testing.T) {
	d := New("generic")
	tests := []struct {
		name   string
		unit   dialect.TemporalUnit
		amount float64
	}{
		{"nan", dialect.UnitDay, math.NaN()},
		{"positive infinity", dialect.UnitDay, math.Inf(1)},
		{"negative infinity", dialect.UnitDay, math.Inf(-1)},
		{"beyond int64", dialect.UnitDay, 1e19},
		{"below int64", dialect.UnitDay, -1e19},
		{"extraction unit", dialect.UnitHourOfDay, 1},
		{"default unit", dialect.UnitDefault, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := d.DateInterval(tt.unit, tt.amount)
			require.Error(t, err)
			assert.Nil(t, expr)
			assert.True(t, dialect.IsIntervalError(err), "expected IntervalError, got %v", err)
		})
	}
}

func TestSanitizeAmount(t *testing.T) {
	n, err := SanitizeAmount(dialect.UnitDay, -30.9)
	require.NoError(t, err)
	assert.Equal(t, int64(-30), n, "truncation goes toward zero")

	n, err = SanitizeAmount(dialect.UnitDay, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	_, err = SanitizeAmount(dialect.UnitDay, float64(1<<63))
	require.Error(t, err)
}

func TestConnectionSpec(t *testing.T) {
	d := New("generic")

	t.Run("defaults", func(t *testing.T) {
		spec := d.ConnectionSpec(dialect.NewParams("db.example.com", "reports"))
		assert.Equal(t, "generic", spec.DriverName)
		assert.Equal(t, "db.example.com", spec.Address)
		assert.Equal(t, "generic://db.example.com/reports", spec.DSN)
		user, ok := spec.Property("user")
		require.True(t, ok)
		assert.Equal(t, dialect.DefaultUser, user)
		_, ok = spec.Property("password")
		assert.False(t, ok)
	})

	t.Run("port and options", func(t *testing.T) {
		spec := d.ConnectionSpec(dialect.NewParams("db.example.com", "reports",
			dialect.WithPort(5432),
			dialect.WithUser("alice"),
			dialect.WithPassword("sekrit"),
			dialect.WithSSL(),
			dialect.WithOption("connect_timeout", "10"),
		))
		assert.Equal(t, "db.example.com:5432", spec.Address)
		assert.Equal(t, "generic://db.example.com:5432/reports?connect_timeout=10", spec.DSN)
		pw, ok := spec.Property("password")
		require.True(t, ok)
		assert.Equal(t, "sekrit", pw)
		ssl, ok := spec.Property("ssl")
		require.True(t, ok)
		assert.Equal(t, "true", ssl)
	})

	t.Run("deterministic", func(t *testing.T) {
		params := dialect.NewParams("db.example.com", "reports",
			dialect.WithUser("alice"),
			dialect.WithOption("a", "1"),
			dialect.WithOption("b", "2"),
		)
		first := d.ConnectionSpec(params)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, d.ConnectionSpec(params))
		}
	})
}

func TestClassify(t *testing.T) {
	d := New("generic")
	tests := []struct {
		raw  string
		want dialect.ErrorKind
	}{
		{"dial tcp 127.0.0.1:5432: connect: connection refused", dialect.KindCannotConnectHostPort},
		{"dial tcp 10.0.0.1:3306: i/o timeout", dialect.KindCannotConnectHostPort},
		{"dial tcp: lookup nosuch.invalid: no such host", dialect.KindInvalidHostname},
		{"syntax error at or near SELECT", dialect.KindUnclassified},
	}
	for _, tt := range tests {
		cat := d.ClassifyMessage(tt.raw)
		assert.Equal(t, tt.want, cat.Kind, "message %q", tt.raw)
		assert.Equal(t, tt.raw, cat.Raw, "raw message must be preserved")
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	patterns := []Pattern{
		{Match: regexp.MustCompile(`Unknown database`), Kind: dialect.KindDatabaseNameIncorrect},
		{Match: regexp.MustCompile(`Unknown`), Kind: dialect.KindInvalidHostname},
	}
	cat := Classify(patterns, "Unknown database foo")
	assert.Equal(t, dialect.KindDatabaseNameIncorrect, cat.Kind)
}

func TestProbeSQL(t *testing.T) {
	assert.Equal(t, "SELECT 1", New("generic").ProbeSQL())
}
