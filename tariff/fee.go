// Package tariff computes parking fees for a stay, billing every
// calendar day it touches as an independently capped segment.
package tariff

import (
	"fmt"
	"time"
)

const (
	// GraceMinutes is the free parking period, inclusive
	GraceMinutes = 10

	// HourlyRate is charged for every whole hour
	HourlyRate = 10

	// HalfHourSurcharge is charged when the remainder is at most half an hour
	HalfHourSurcharge = 7

	// DailyCap is the maximum fee charged for a single calendar day
	DailyCap = 50
)

// Fee maps elapsed minutes within one day to a fee in currency units.
func Fee(minutes int) int {
	if minutes < 0 {
		panic(fmt.Sprintf("tariff: negative duration of %d minutes", minutes))
	}

	hours := minutes / 60
	rem := minutes % 60

	var fee int

	switch {
	case hours == 0 && rem <= GraceMinutes:
		fee = 0
	case rem == 0:
		fee = hours * HourlyRate
	case rem >= 1 && rem <= 30:
		fee = hours*HourlyRate + HalfHourSurcharge
	case rem >= 31 && rem <= 59:
		fee = hours*HourlyRate + HourlyRate
	default:
		panic(fmt.Sprintf("tariff: cannot calculate fee for %d minutes", minutes))
	}

	if fee > DailyCap {
		return DailyCap
	}

	return fee
}

// ElapsedMinutes returns whole minutes between the wall clock readings
// of from and to, dropping any partial minute. Daylight saving shifts
// do not change the result.
func ElapsedMinutes(from, to time.Time) int {
	return int(wallClock(to).Sub(wallClock(from)) / time.Minute)
}

// wallClock drops the zone of t, keeping its date and time of day.
func wallClock(t time.Time) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	return time.Date(y, m, d, hh, mm, ss, t.Nanosecond(), time.UTC)
}

// FeeBetween charges the time between two instants of the same day.
func FeeBetween(from, to time.Time) int {
	return Fee(ElapsedMinutes(from, to))
}
