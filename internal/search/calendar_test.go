package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-08-19 is a Wednesday.
var wednesday = time.Date(2026, 8, 19, 10, 0, 0, 0, time.UTC)

func TestBusinessDays_MostRecentFirst(t *testing.T) {
	days := businessDays(wednesday, 5, nil)
	require.Len(t, days, 3)

	assert.Equal(t, "2026-08-18", days[0].date.Format("2006-01-02"))
	assert.Equal(t, 1, days[0].age)
	assert.Equal(t, "2026-08-17", days[1].date.Format("2006-01-02"))
	assert.Equal(t, "2026-08-14", days[2].date.Format("2006-01-02"))
	assert.Equal(t, 5, days[2].age)
}

func TestBusinessDays_SkipsWeekends(t *testing.T) {
	days := businessDays(wednesday, 7, nil)
	for _, d := range days {
		wd := d.date.Weekday()
		assert.NotEqual(t, time.Saturday, wd)
		assert.NotEqual(t, time.Sunday, wd)
	}
	// Ages 1..7 minus Saturday (age 4) and Sunday (age 3).
	assert.Len(t, days, 5)
}

func TestBusinessDays_SkipsHolidays(t *testing.T) {
	holidays := map[string]bool{"2026-08-18": true}
	days := businessDays(wednesday, 2, holidays)
	require.Len(t, days, 1)
	assert.Equal(t, "2026-08-17", days[0].date.Format("2006-01-02"))
}

func TestBusinessDays_TodayNeverIncluded(t *testing.T) {
	days := businessDays(wednesday, 30, nil)
	for _, d := range days {
		assert.True(t, d.date.Before(wednesday))
		assert.GreaterOrEqual(t, d.age, 1)
	}
}

func TestBusinessDays_ZeroWindow(t *testing.T) {
	assert.Empty(t, businessDays(wednesday, 0, nil))
}
