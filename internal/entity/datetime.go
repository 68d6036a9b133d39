package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// DateTime is a request timestamp. Besides RFC 3339 it accepts the local
// layouts the web client sends ("2026-03-14 09:30:00", "2026-03-14T09:30",
// "2026-03-14"), read in the configured business time zone. An empty string
// decodes to the zero value, which is stored as NULL.
type DateTime struct {
	time.Time
}

var localDateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

var dateTimeLocation atomic.Pointer[time.Location]

// SetDateTimeLocation sets the zone local layouts are parsed in. UTC until set.
func SetDateTimeLocation(loc *time.Location) {
	if loc != nil {
		dateTimeLocation.Store(loc)
	}
}

func businessLocation() *time.Location {
	if loc := dateTimeLocation.Load(); loc != nil {
		return loc
	}
	return time.UTC
}

func ParseDateTime(raw string) (DateTime, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DateTime{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return DateTime{Time: t}, nil
	}
	loc := businessLocation()
	for _, layout := range localDateTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return DateTime{Time: t}, nil
		}
	}
	return DateTime{}, fmt.Errorf("invalid date %q", raw)
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDateTime(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d DateTime) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

// TimePtr is nil for a missing or empty date.
func (d *DateTime) TimePtr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
