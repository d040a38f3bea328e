package sqlbase

import (
	"math"

	"github.com/exceedzhang/metabase/dialect"
)

// intervalKeywords are the temporal units usable in a relative date
// interval, with their SQL keyword. Sub-unit extractions (hour-of-day and
// friends) have no interval meaning and are absent.
var intervalKeywords = map[dialect.TemporalUnit]string{
	dialect.UnitMinute:  "MINUTE",
	dialect.UnitHour:    "HOUR",
	dialect.UnitDay:     "DAY",
	dialect.UnitWeek:    "WEEK",
	dialect.UnitMonth:   "MONTH",
	dialect.UnitQuarter: "QUARTER",
	dialect.UnitYear:    "YEAR",
}

// IntervalKeyword returns the SQL interval keyword for unit, or false when
// the unit cannot be used in a date interval.
func IntervalKeyword(unit dialect.TemporalUnit) (string, bool) {
	kw, ok := intervalKeywords[unit]
	return kw, ok
}

// SanitizeAmount validates an interval amount and truncates it toward zero.
// NaN, infinities and values outside the int64 range are rejected with an
// IntervalError; interval amounts are formatted into SQL text, so a value
// that cannot round-trip through a plain integer must never reach the
// statement.
func SanitizeAmount(unit dialect.TemporalUnit, amount float64) (int64, error) {
	switch {
	case math.IsNaN(amount):
		return 0, &dialect.IntervalError{Unit: unit, Amount: amount, Reason: "amount is NaN"}
	case math.IsInf(amount, 0):
		return 0, &dialect.IntervalError{Unit: unit, Amount: amount, Reason: "amount is infinite"}
	case amount >= float64(1<<63) || amount < -float64(1<<63):
		return 0, &dialect.IntervalError{Unit: unit, Amount: amount, Reason: "amount out of range"}
	}
	return int64(amount), nil
}
