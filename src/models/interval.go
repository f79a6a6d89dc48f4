package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type TimespanUnit string

const (
	TimespanUnitMinute TimespanUnit = "minute"
	TimespanUnitHour   TimespanUnit = "hour"
	TimespanUnitDay    TimespanUnit = "day"
	TimespanUnitWeek   TimespanUnit = "week"
)

// Timespan is the vendor representation of a bar interval, e.g. 15 x minute.
type Timespan struct {
	Multiplier int
	Unit       TimespanUnit
}

type Interval time.Duration

// ParseInterval accepts the short forms used in configs: 1m, 5m, 15m, 30m, 1h, 4h, 1d, 1w.
func ParseInterval(value string) (Interval, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if len(value) < 2 {
		return 0, fmt.Errorf("%q: %w", value, ErrUnsupportedInterval)
	}

	n, err := strconv.Atoi(value[:len(value)-1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%q: %w", value, ErrUnsupportedInterval)
	}

	var unit time.Duration
	switch value[len(value)-1] {
	case 'm':
		unit = time.Minute
	case 'h':
		unit = time.Hour
	case 'd':
		unit = 24 * time.Hour
	case 'w':
		unit = 7 * 24 * time.Hour
	default:
		return 0, fmt.Errorf("%q: %w", value, ErrUnsupportedInterval)
	}

	return Interval(time.Duration(n) * unit), nil
}

func (i Interval) Duration() time.Duration {
	return time.Duration(i)
}

func (i Interval) ToTimespan() (Timespan, error) {
	d := time.Duration(i)
	switch {
	case d <= 0:
		return Timespan{}, fmt.Errorf("%v: %w", d, ErrUnsupportedInterval)
	case d%(7*24*time.Hour) == 0:
		return Timespan{Multiplier: int(d / (7 * 24 * time.Hour)), Unit: TimespanUnitWeek}, nil
	case d%(24*time.Hour) == 0:
		return Timespan{Multiplier: int(d / (24 * time.Hour)), Unit: TimespanUnitDay}, nil
	case d%time.Hour == 0:
		return Timespan{Multiplier: int(d / time.Hour), Unit: TimespanUnitHour}, nil
	case d%time.Minute == 0:
		return Timespan{Multiplier: int(d / time.Minute), Unit: TimespanUnitMinute}, nil
	default:
		return Timespan{}, fmt.Errorf("%v: %w", d, ErrUnsupportedInterval)
	}
}

func (i Interval) String() string {
	ts, err := i.ToTimespan()
	if err != nil {
		return time.Duration(i).String()
	}

	return fmt.Sprintf("%d%c", ts.Multiplier, ts.Unit[0])
}
