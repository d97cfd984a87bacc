package utils

import "time"

// All daily bookkeeping (check-ins, streaks, DAU) runs in one fixed,
// server-authoritative timezone: UTC+7. Comparisons use local calendar dates,
// never a sliding 24-hour window. The offset lives only here.
var appZone = time.FixedZone("UTC+7", 7*60*60)

// AppZone exposes the fixed application timezone.
func AppZone() *time.Location {
	return appZone
}

// LocalDate formats t as its calendar date (YYYY-MM-DD) in the fixed zone.
func LocalDate(t time.Time) string {
	return t.In(appZone).Format("2006-01-02")
}

// StartOfLocalDay returns the instant at which t's local calendar day began.
func StartOfLocalDay(t time.Time) time.Time {
	lt := t.In(appZone)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, appZone)
}

// SameLocalDay reports whether a and b fall on the same local calendar day.
func SameLocalDay(a, b time.Time) bool {
	return LocalDate(a) == LocalDate(b)
}

// IsLocalYesterday reports whether last falls on the local calendar day
// immediately before now's.
func IsLocalYesterday(last, now time.Time) bool {
	return LocalDate(last) == LocalDate(StartOfLocalDay(now).AddDate(0, 0, -1))
}
