package model

import (
	"time"
)

// Dates and times-of-day are carried as civil strings end to end. Everyone
// involved lives in one timezone, so nothing is ever converted to UTC.
const (
	DateLayout      = "2006-01-02"
	TimeLayout      = "15:04:05"
	TimeShortLayout = "15:04"
	DateLayoutFR    = "02/01/2006"
)

// ValidDate reports whether s is a strict YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ValidTime reports whether s is a strict HH:mm or HH:mm:ss time of day.
// Widths are exact: time.Parse alone would accept single-digit hours, which
// NormalizeTime cannot pad.
func ValidTime(s string) bool {
	switch len(s) {
	case 5:
		_, err := time.Parse(TimeShortLayout, s)
		return err == nil
	case 8:
		_, err := time.Parse(TimeLayout, s)
		return err == nil
	default:
		return false
	}
}

// NormalizeTime pads HH:mm to HH:mm:ss. Input is assumed valid.
func NormalizeTime(s string) string {
	if len(s) == 5 {
		return s + ":00"
	}
	return s
}

// FormatDateFR renders a YYYY-MM-DD date as DD/MM/YYYY.
func FormatDateFR(s string) string {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return s
	}
	return d.Format(DateLayoutFR)
}

// FormatTimeShort renders HH:mm:ss as HH:mm.
func FormatTimeShort(s string) string {
	if len(s) >= 5 {
		return s[:5]
	}
	return s
}

// FormatTimestampFR renders a timestamp as "DD/MM/YYYY à HH:mm".
func FormatTimestampFR(t time.Time) string {
	return t.Format("02/01/2006 à 15:04")
}

// DayName returns the English weekday name of a YYYY-MM-DD date.
func DayName(s string) string {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return ""
	}
	return d.Weekday().String()
}
