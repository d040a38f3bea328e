package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exceedzhang/metabase/dialect"
	"github.com/exceedzhang/metabase/dialect/sqlexpr"
)

func render(e sqlexpr.Expr) string {
	return sqlexpr.Render(e, sqlexpr.QuoteANSI)
}

func TestRegistered(t *testing.T) {
	d, err := dialect.Lookup(Name)
	require.NoError(t, err)
	assert.Equal(t, Name, d.Name())
}

func TestMapColumnType(t *testing.T) {
	d := New()
	tests := []struct {
		native string
		want   dialect.Semantic
	}{
		{"INTEGER", dialect.TypeInteger},
		{"integer", dialect.TypeInteger},
		{"VARCHAR(255)", dialect.TypeText},
		{"varying character(70)", dialect.TypeText},
		{"unsigned big int", dialect.TypeBigInteger},
		{"BOOLEAN", dialect.TypeInteger},
		{"DOUBLE PRECISION", dialect.TypeFloat},
		{"decimal(10,5)", dialect.TypeDecimal},
		{"DATETIME", dialect.TypeDateTime},
		{"BLOB", dialect.TypeBlob},
		{"", dialect.TypeUnknown},
		{"STRING", dialect.TypeUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, d.MapColumnType(tt.native), "native type %q", tt.native)
	}
}

// Every key in the type table is a real mapping; only names outside the
// table may degrade to TypeUnknown.
func TestColumnTypeTableIsTotal(t *testing.T) {
	d := New()
	for native, want := range columnTypes {
		require.NotEqual(t, dialect.TypeUnknown, want, "table key %q", native)
		assert.Equal(t, want, d.MapColumnType(native), "table key %q", native)
	}
}

func TestTemporalBucket(t *testing.T) {
	d := New()
	col := sqlexpr.Col("d")
	tests := []struct {
		unit dialect.TemporalUnit
		want string
	}{
		{dialect.UnitDefault, `"d"`},
		{dialect.UnitMinute, `DATETIME(STRFTIME('%Y-%m-%d %H:%M:00', "d"))`},
		{dialect.UnitMinuteOfHour, `CAST(STRFTIME('%M', "d") AS INTEGER)`},
		{dialect.UnitHour, `DATETIME(STRFTIME('%Y-%m-%d %H:00:00', "d"))`},
		{dialect.UnitHourOfDay, `CAST(STRFTIME('%H', "d") AS INTEGER)`},
		{dialect.UnitDay, `DATE("d")`},
		{dialect.UnitDayOfWeek, `(CAST(STRFTIME('%w', "d") AS INTEGER) + 1)`},
		{dialect.UnitDayOfMonth, `CAST(STRFTIME('%d', "d") AS INTEGER)`},
		{dialect.UnitDayOfYear, `CAST(STRFTIME('%j', "d") AS INTEGER)`},
		{dialect.UnitWeek, `(STRFTIME('%Y', "d") || PRINTF('%02d', CAST(STRFTIME('%W', "d") AS INTEGER)))`},
		{dialect.UnitWeekOfYear, `CAST(STRFTIME('%W', "d") AS INTEGER)`},
		{dialect.UnitMonth, `DATE("d", 'start of month')`},
		{dialect.UnitMonthOfYear, `CAST(STRFTIME('%m', "d") AS INTEGER)`},
		{dialect.UnitQuarterOfYear, `((CAST(STRFTIME('%m', "d") AS INTEGER) + 2) / 3)`},
		{dialect.UnitYear, `CAST(STRFTIME('%Y', "d") AS INTEGER)`},
	}
	for _, tt := range tests {
		t.Run(string(tt.unit), func(t *testing.T) {
			assert.Equal(t, tt.want, render(d.TemporalBucket(tt.unit, col)))
		})
	}
}

func TestTemporalBucketQuarter(t *testing.T) {
	d := New()
	got := render(d.TemporalBucket(dialect.UnitQuarter, sqlexpr.Col("d")))
	want := `DATE((((STRFTIME('%Y', "d") || '-') || PRINTF('%02d', ((((CAST(STRFTIME('%m', "d") AS INTEGER) + 2) / 3) * 3) - 2))) || '-01'))`
	assert.Equal(t, want, got)
	// The quarter-to-month mapping keeps the (quarter*3)-2 shape.
	assert.Contains(t, got, "* 3) - 2")
}

func TestTemporalBucketCoversAllUnits(t *testing.T) {
	d := New()
	col := sqlexpr.Col("d")
	for _, unit := range dialect.Units() {
		assert.NotPanics(t, func() {
			d.TemporalBucket(unit, col)
		}, "unit %q", unit)
	}
}

func TestWeekEmbedsWeekOfYear(t *testing.T) {
	d := New()
	col := sqlexpr.Col("d")
	week := render(d.TemporalBucket(dialect.UnitWeek, col))
	weekOfYear := render(d.TemporalBucket(dialect.UnitWeekOfYear, col))
	assert.Contains(t, week, weekOfYear)
}

func TestUnixTimestamp(t *testing.T) {
	d := New()
	col := sqlexpr.Col("ts")

	assert.Equal(t, `DATETIME("ts", 'unixepoch')`, render(d.UnixTimestamp(col, dialect.Seconds)))

	millis := d.UnixTimestamp(col, dialect.Milliseconds)
	divided := d.UnixTimestamp(sqlexpr.Op(col, "/", sqlexpr.Lit(1000)), dialect.Seconds)
	assert.Equal(t, render(divided), render(millis))
	assert.Equal(t, `DATETIME(("ts" / 1000), 'unixepoch')`, render(millis))
}

func TestDateInterval(t *testing.T) {
	d := New()
	tests := []struct {
		unit   dialect.TemporalUnit
		amount float64
		want   string
	}{
		{dialect.UnitDay, 30, "DATETIME('now', '+30 days')"},
		{dialect.UnitDay, -30, "DATETIME('now', '-30 days')"},
		{dialect.UnitWeek, 2, "DATETIME('now', '+14 days')"},
		{dialect.UnitQuarter, -1, "DATETIME('now', '-3 months')"},
		{dialect.UnitYear, 1, "DATETIME('now', '+1 years')"},
		{dialect.UnitMinute, 90.7, "DATETIME('now', '+90 minutes')"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			expr, err := d.DateInterval(tt.unit, tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, render(expr))
		})
	}

	_, err := d.DateInterval(dialect.UnitDayOfYear, 1)
	require.Error(t, err)
	assert.True(t, dialect.IsIntervalError(err))
}

func TestCurrentTimestampAndEpoch(t *testing.T) {
	d := New()
	assert.Equal(t, "DATETIME('now')", render(d.CurrentTimestamp()))
	assert.Equal(t, "DATETIME(0, 'unixepoch')", render(d.Epoch()))
	assert.Equal(t, `LENGTH("name")`, render(d.StringLength(sqlexpr.Col("name"))))
}

func TestConnectionSpec(t *testing.T) {
	d := New()

	t.Run("file path", func(t *testing.T) {
		spec := d.ConnectionSpec(dialect.NewParams("", "/var/db/app.db"))
		assert.Equal(t, Name, spec.DriverName)
		assert.Equal(t, "/var/db/app.db", spec.Address)
		assert.Equal(t, "/var/db/app.db", spec.DSN)
	})

	t.Run("empty path means in-memory", func(t *testing.T) {
		spec := d.ConnectionSpec(dialect.NewParams("", ""))
		assert.Equal(t, DefaultPath, spec.DSN)
	})

	t.Run("options", func(t *testing.T) {
		spec := d.ConnectionSpec(dialect.NewParams("", "app.db",
			dialect.WithOption("mode", "ro"),
			dialect.WithOption("cache", "shared"),
		))
		assert.Equal(t, "app.db?mode=ro&cache=shared", spec.DSN)
	})

	t.Run("network parameters are ignored", func(t *testing.T) {
		spec := d.ConnectionSpec(dialect.NewParams("ignored-host", "app.db",
			dialect.WithPort(5432),
			dialect.WithUser("alice"),
			dialect.WithPassword("sekrit"),
		))
		assert.Equal(t, "app.db", spec.DSN)
		_, ok := spec.Property("password")
		assert.False(t, ok)
	})
}

func TestTimezoneUnsupported(t *testing.T) {
	assert.Empty(t, New().TimezoneSQL())
}

func TestClassifyMessage(t *testing.T) {
	d := New()
	tests := []struct {
		raw  string
		want dialect.ErrorKind
	}{
		{"unable to open database file: no such file or directory", dialect.KindDatabaseNameIncorrect},
		{"file is not a database", dialect.KindDatabaseNameIncorrect},
		{"no such table: users", dialect.KindUnclassified},
	}
	for _, tt := range tests {
		cat := d.ClassifyMessage(tt.raw)
		assert.Equal(t, tt.want, cat.Kind, "message %q", tt.raw)
		assert.Equal(t, tt.raw, cat.Raw)
	}
}

func TestCatalogSQL(t *testing.T) {
	d := New()
	assert.Contains(t, d.TablesSQL(), "sqlite_master")
	assert.Contains(t, d.ColumnsSQL(), "pragma_table_info")
}
