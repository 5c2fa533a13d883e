package types

import (
	"database/sql/driver"
	"fmt"
	"time"
)

const TimeFormat = "15:04:05"

// Time maps a TIME column to a clock time on the zero date. Working-hour and
// delivery-hour endpoints are stored with this type.
type Time time.Time

func NewTime(hour, min, sec int) Time {
	return Time(time.Date(0, time.January, 1, hour, min, sec, 0, time.UTC))
}

// FromTime keeps only the time-of-day of t.
func FromTime(t time.Time) Time {
	return NewTime(t.Hour(), t.Minute(), t.Second())
}

func (t *Time) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return t.unmarshalText(string(v))
	case string:
		return t.unmarshalText(v)
	case time.Time:
		*t = FromTime(v)
	case nil:
		*t = Time{}
	default:
		return fmt.Errorf("cannot scan TIME from %#v", v)
	}

	return nil
}

func (t *Time) unmarshalText(value string) error {
	parsed, err := time.Parse(TimeFormat, value)
	if err != nil {
		return err
	}

	*t = Time(parsed)
	return nil
}

func (t Time) Value() (driver.Value, error) {
	return driver.Value(time.Time(t).Format(TimeFormat)), nil
}

func (t Time) String() string {
	return time.Time(t).Format(TimeFormat)
}

func (Time) GormDataType() string {
	return "TIME"
}
