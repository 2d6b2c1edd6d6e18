package models

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate accepts the wire format used by the clients for all DATE columns.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, validationError("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

func ParseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func FormatDate(d time.Time) string {
	return d.Format(dateLayout)
}

func FormatDatePtr(d *time.Time) *string {
	if d == nil {
		return nil
	}
	s := d.Format(dateLayout)
	return &s
}

// FormatROCDate renders a date in the Republic of China calendar
// (year minus 1911), the format the desk clients display.
func FormatROCDate(d time.Time) string {
	return fmt.Sprintf("%d/%02d/%02d", d.Year()-1911, int(d.Month()), d.Day())
}
