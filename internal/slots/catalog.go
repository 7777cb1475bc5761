// Package slots holds the fixed partition of a business day into
// bookable windows and the interval math shared by availability and
// conflict checks. It is pure: nothing here reads the booking store.
package slots

import (
	"fmt"
	"time"

	"ms-facility-booking/internal/models"
)

// Config describes the catalog of candidate windows. The default is
// seven two-hour windows between 08:00 and 22:00.
type Config struct {
	DayStart  string
	DayEnd    string
	SlotWidth time.Duration
}

func DefaultConfig() Config {
	return Config{
		DayStart:  "08:00",
		DayEnd:    "22:00",
		SlotWidth: 2 * time.Hour,
	}
}

// Catalog returns the ordered, non-overlapping candidate windows for a
// business day. A trailing window that would run past DayEnd is not
// emitted.
func (c Config) Catalog() ([]models.TimeSlot, error) {
	start, err := ParseClock(c.DayStart)
	if err != nil {
		return nil, fmt.Errorf("invalid day start: %w", err)
	}
	end, err := ParseClock(c.DayEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid day end: %w", err)
	}
	width := int(c.SlotWidth.Minutes())
	if width <= 0 || start >= end {
		return nil, fmt.Errorf("invalid slot configuration: %s-%s every %s", c.DayStart, c.DayEnd, c.SlotWidth)
	}

	var catalog []models.TimeSlot
	for at := start; at+width <= end; at += width {
		catalog = append(catalog, models.TimeSlot{
			StartTime: FormatClock(at),
			EndTime:   FormatClock(at + width),
		})
	}
	return catalog, nil
}

// ParseClock converts an HH:MM string to minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// MinutesOfDay converts an instant to minutes since midnight UTC.
func MinutesOfDay(t time.Time) int {
	return t.UTC().Hour()*60 + t.UTC().Minute()
}

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Back-to-back intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}
