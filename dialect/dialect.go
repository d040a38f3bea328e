package dialect

// Semantic is the engine-agnostic classification of a native column type.
// Drivers map their backend's type vocabulary onto this closed set; anything
// a driver does not recognize maps to TypeUnknown so schema sync can proceed
// over unanticipated vendor types.
type Semantic string

// Semantic type constants.
const (
	TypeText       Semantic = "text"
	TypeBigInteger Semantic = "biginteger"
	TypeBlob       Semantic = "blob"
	TypeDecimal    Semantic = "decimal"
	TypeFloat      Semantic = "float"
	TypeInteger    Semantic = "integer"
	TypeDate       Semantic = "date"
	TypeTime       Semantic = "time"
	TypeDateTime   Semantic = "datetime"
	TypeUnknown    Semantic = "unknown"
)

// String implements fmt.Stringer.
func (s Semantic) String() string { return string(s) }

// TemporalUnit is a temporal bucketing granularity. The non-"Of" members
// truncate a value to the unit; the "Of" members extract the numeric
// sub-part (e.g. UnitMinuteOfHour is 0-59).
type TemporalUnit string

// Temporal unit constants.
const (
	UnitDefault       TemporalUnit = "default"
	UnitMinute        TemporalUnit = "minute"
	UnitMinuteOfHour  TemporalUnit = "minute-of-hour"
	UnitHour          TemporalUnit = "hour"
	UnitHourOfDay     TemporalUnit = "hour-of-day"
	UnitDay           TemporalUnit = "day"
	UnitDayOfWeek     TemporalUnit = "day-of-week"
	UnitDayOfMonth    TemporalUnit = "day-of-month"
	UnitDayOfYear     TemporalUnit = "day-of-year"
	UnitWeek          TemporalUnit = "week"
	UnitWeekOfYear    TemporalUnit = "week-of-year"
	UnitMonth         TemporalUnit = "month"
	UnitMonthOfYear   TemporalUnit = "month-of-year"
	UnitQuarter       TemporalUnit = "quarter"
	UnitQuarterOfYear TemporalUnit = "quarter-of-year"
	UnitYear          TemporalUnit = "year"
)

// String implements fmt.Stringer.
func (u TemporalUnit) String() string { return string(u) }

// Units returns all temporal units in a stable order. The returned slice is
// a copy; callers may mutate it freely.
func Units() []TemporalUnit {
	return []TemporalUnit{
		UnitDefault,
		UnitMinute,
		UnitMinuteOfHour,
		UnitHour,
		UnitHourOfDay,
		UnitDay,
		UnitDayOfWeek,
		UnitDayOfMonth,
		UnitDayOfYear,
		UnitWeek,
		UnitWeekOfYear,
		UnitMonth,
		UnitMonthOfYear,
		UnitQuarter,
		UnitQuarterOfYear,
		UnitYear,
	}
}

// Valid reports whether u is a member of the temporal unit enumeration.
func (u TemporalUnit) Valid() bool {
	switch u {
	case UnitDefault, UnitMinute, UnitMinuteOfHour, UnitHour, UnitHourOfDay,
		UnitDay, UnitDayOfWeek, UnitDayOfMonth, UnitDayOfYear,
		UnitWeek, UnitWeekOfYear, UnitMonth, UnitMonthOfYear,
		UnitQuarter, UnitQuarterOfYear, UnitYear:
		return true
	}
	return false
}

// TimestampUnit is the resolution of a numeric epoch column.
type TimestampUnit string

// Timestamp unit constants.
const (
	Seconds      TimestampUnit = "seconds"
	Milliseconds TimestampUnit = "milliseconds"
)

// String implements fmt.Stringer.
func (u TimestampUnit) String() string { return string(u) }
