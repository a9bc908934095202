package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToJalaliKnownDates(t *testing.T) {
	cases := []struct {
		gy, gm, gd int
		jy, jm, jd int
	}{
		{2024, 3, 20, 1403, 1, 1},  // Nowruz 1403
		{2025, 3, 21, 1404, 1, 1},  // Nowruz 1404
		{2024, 3, 19, 1402, 12, 29},
		{2024, 6, 1, 1403, 3, 12},
		{2000, 1, 1, 1378, 10, 11},
		{2026, 8, 29, 1405, 6, 7},
	}
	for _, c := range cases {
		jy, jm, jd := ToJalali(c.gy, c.gm, c.gd)
		assert.Equal(t, [3]int{c.jy, c.jm, c.jd}, [3]int{jy, jm, jd},
			"gregorian %d-%d-%d", c.gy, c.gm, c.gd)
	}
}

func TestRoundTrip(t *testing.T) {
	start := time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 15000; i += 17 {
		d := start.AddDate(0, 0, i)
		jy, jm, jd := ToJalali(d.Year(), int(d.Month()), d.Day())
		gy, gm, gd := ToGregorian(jy, jm, jd)
		assert.Equal(t, [3]int{d.Year(), int(d.Month()), d.Day()}, [3]int{gy, gm, gd},
			"round trip via %d-%d-%d", jy, jm, jd)
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-06-01", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDate("1403-01-01", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("not-a-date", false)
	require.Error(t, err)

	_, err = ParseDate("2024-13-01", false)
	require.Error(t, err)
}

func TestFormatJalali(t *testing.T) {
	assert.Equal(t, "1403-01-01", FormatJalali(time.Date(2024, 3, 20, 12, 30, 0, 0, time.UTC)))
}
