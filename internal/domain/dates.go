package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// PredictionDateLayout is how prediction kinds store their date (DD-MM-YYYY).
const PredictionDateLayout = "02-01-2006"

// ErrInvalidDate is returned when a stored or requested date cannot be decoded.
var ErrInvalidDate = errors.New("invalid date")

// DD-MM-YY or DD-MM-YYYY, optionally followed by HH:MM or HH:MM:SS.
var dayMonthYear = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{2}|\d{4})(?:[ T](\d{1,2}):(\d{2})(?::(\d{2}))?)?$`)

// ParseDayMonthYear decodes the day-first strings used by the tariff and energy
// reading kinds. A two-digit year is read as 20YY, so values are only meaningful
// for years 2000-2099. The time of day, when present, is kept.
func ParseDayMonthYear(s string) (time.Time, error) {
	m := dayMonthYear.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if len(m[3]) == 2 {
		year += 2000
	}

	var hour, minute, second int
	if m[4] != "" {
		hour, _ = strconv.Atoi(m[4])
		minute, _ = strconv.Atoi(m[5])
	}
	if m[6] != "" {
		second, _ = strconv.Atoi(m[6])
	}
	if hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	// time.Date normalizes overflow (31-02 becomes March), reject that.
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatPredictionDate renders t the way prediction kinds store it.
func FormatPredictionDate(t time.Time) string {
	return t.Format(PredictionDateLayout)
}

var leadingHour = regexp.MustCompile(`^\s*(\d+)`)

// StartHour returns the integer prefix of a savings hour range, e.g. 9 for
// "9:00 - 10:00".
func StartHour(hourRange string) (int, bool) {
	m := leadingHour.FindStringSubmatch(hourRange)
	if m == nil {
		return 0, false
	}
	h, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return h, true
}

// HourRange is the inverse of StartHour: 9 becomes "9:00 - 10:00".
func HourRange(hour int) string {
	return fmt.Sprintf("%d:00 - %d:00", hour, hour+1)
}

// When decodes the tariff's DateTime.
func (t Tariff) When() (time.Time, error) {
	return ParseDayMonthYear(t.DateTime)
}

// When decodes the reading's sendDate.
func (r EnergyReading) When() (time.Time, error) {
	return ParseDayMonthYear(r.SendDate)
}
