package entity

import "time"

// Rangos de fecha semiabiertos [from, to) calculados en la zona de now.

// StartOfDay 00:00 del día de t en su zona.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayRange hoy completo.
func DayRange(now time.Time) (time.Time, time.Time) {
	from := StartOfDay(now)
	return from, from.AddDate(0, 0, 1)
}

// WeekRange desde hace 7 días (00:00) hasta el final de hoy.
func WeekRange(now time.Time) (time.Time, time.Time) {
	from, to := DayRange(now)
	return from.AddDate(0, 0, -7), to
}

// MonthRange mes calendario en curso hasta el final de hoy.
func MonthRange(now time.Time) (time.Time, time.Time) {
	_, to := DayRange(now)
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), to
}

// TrailingDays últimos n días incluyendo hoy.
func TrailingDays(now time.Time, n int) (time.Time, time.Time) {
	from, to := DayRange(now)
	return from.AddDate(0, 0, -(n - 1)), to
}
