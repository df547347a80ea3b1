package format

import (
	"errors"
	"math"
	"strconv"
)

// ErrNegativeDuration is returned when a duration below zero is formatted.
var ErrNegativeDuration = errors.New("duration must not be negative")

type timeUnit struct {
	suffix string
	// factor is the size of the unit in microseconds.
	factor int64
	// divisor is how many of the next smaller unit make one of this unit.
	divisor int64
}

var timeUnits = []timeUnit{
	{suffix: "d", factor: 24 * 60 * 60 * 1000 * 1000, divisor: 24},
	{suffix: "h", factor: 60 * 60 * 1000 * 1000, divisor: 60},
	{suffix: "m", factor: 60 * 1000 * 1000, divisor: 60},
	{suffix: "s", factor: 1000 * 1000, divisor: 1000},
	{suffix: "ms", factor: 1000, divisor: 1000},
	{suffix: "μs", factor: 1, divisor: 1000},
}

// FormatDuration renders a microsecond count in the largest unit that fits.
// Day, hour and minute values carry a remainder in the next smaller unit
// ("1h 30m"), the decimal units are rounded to two places ("1.23s").
func FormatDuration(microseconds int64) (string, error) {
	if microseconds < 0 {
		return "", ErrNegativeDuration
	}

	idx := len(timeUnits) - 1
	for i, u := range timeUnits {
		if u.factor <= microseconds {
			idx = i
			break
		}
	}
	unit := timeUnits[idx]

	if unit.divisor == 1000 {
		value := math.Round(float64(microseconds)/float64(unit.factor)*100) / 100
		return strconv.FormatFloat(value, 'f', -1, 64) + unit.suffix, nil
	}

	primary := microseconds / unit.factor
	next := timeUnits[idx+1]
	secondary := int64(math.Round(math.Mod(float64(microseconds)/float64(next.factor), float64(unit.divisor))))

	out := strconv.FormatInt(primary, 10) + unit.suffix
	if secondary == 0 {
		return out, nil
	}
	return out + " " + strconv.FormatInt(secondary, 10) + next.suffix, nil
}
