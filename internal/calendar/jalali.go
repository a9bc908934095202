// Package calendar converts between Gregorian and Solar Hijri (Jalali) dates.
// The store runs its books on the Jalali calendar, so report and list filters
// accept Jalali dates and convert at the edge; everything stored is Gregorian.
package calendar

import (
	"fmt"
	"time"
)

var (
	gDaysInMonth = [...]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	jDaysInMonth = [...]int{31, 31, 31, 31, 31, 31, 30, 30, 30, 30, 30, 29}
)

func isGregorianLeap(y int) bool {
	return (y%4 == 0 && y%100 != 0) || y%400 == 0
}

// ToJalali converts a Gregorian date to Jalali year/month/day.
func ToJalali(gy, gm, gd int) (jy, jm, jd int) {
	gy2 := gy - 1600
	gm2 := gm - 1
	gd2 := gd - 1

	gDayNo := 365*gy2 + (gy2+3)/4 - (gy2+99)/100 + (gy2+399)/400
	for i := 0; i < gm2; i++ {
		gDayNo += gDaysInMonth[i]
	}
	if gm2 > 1 && isGregorianLeap(gy) {
		gDayNo++
	}
	gDayNo += gd2

	jDayNo := gDayNo - 79
	jNp := jDayNo / 12053 // 12053 days in a 33-year cycle
	jDayNo %= 12053

	jy = 979 + 33*jNp + 4*(jDayNo/1461)
	jDayNo %= 1461

	if jDayNo >= 366 {
		jy += (jDayNo - 1) / 365
		jDayNo = (jDayNo - 1) % 365
	}

	var i int
	for i = 0; i < 11 && jDayNo >= jDaysInMonth[i]; i++ {
		jDayNo -= jDaysInMonth[i]
	}
	return jy, i + 1, jDayNo + 1
}

// ToGregorian converts a Jalali date to a Gregorian year/month/day.
func ToGregorian(jy, jm, jd int) (gy, gm, gd int) {
	jy2 := jy - 979
	jm2 := jm - 1
	jd2 := jd - 1

	jDayNo := 365*jy2 + (jy2/33)*8 + (jy2%33+3)/4
	for i := 0; i < jm2; i++ {
		jDayNo += jDaysInMonth[i]
	}
	jDayNo += jd2

	gDayNo := jDayNo + 79

	gy = 1600 + 400*(gDayNo/146097) // 146097 days in 400 years
	gDayNo %= 146097

	leap := true
	if gDayNo >= 36525 { // 36525 days in the first 100-year block
		gDayNo--
		gy += 100 * (gDayNo / 36524)
		gDayNo %= 36524
		if gDayNo >= 365 {
			gDayNo++
		} else {
			leap = false
		}
	}

	gy += 4 * (gDayNo / 1461)
	gDayNo %= 1461

	if gDayNo >= 366 {
		leap = false
		gDayNo--
		gy += gDayNo / 365
		gDayNo %= 365
	}

	var i int
	for i = 0; gDayNo >= gDaysInMonth[i]+leapAdd(i, leap); i++ {
		gDayNo -= gDaysInMonth[i] + leapAdd(i, leap)
	}
	return gy, i + 1, gDayNo + 1
}

func leapAdd(monthIdx int, leap bool) int {
	if monthIdx == 1 && leap {
		return 1
	}
	return 0
}

// ParseDate parses a YYYY-MM-DD string, interpreting it as Jalali when
// jalali is true, and returns the Gregorian midnight UTC time.
func ParseDate(s string, jalali bool) (time.Time, error) {
	var y, m, d int
	if _, err := fmt.Sscanf(s, "%d-%d-%d", &y, &m, &d); err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	if jalali {
		y, m, d = ToGregorian(y, m, d)
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC), nil
}

// FormatJalali renders a time as a Jalali YYYY-MM-DD string.
func FormatJalali(t time.Time) string {
	jy, jm, jd := ToJalali(t.Year(), int(t.Month()), t.Day())
	return fmt.Sprintf("%04d-%02d-%02d", jy, jm, jd)
}
