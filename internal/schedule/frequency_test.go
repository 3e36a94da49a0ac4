package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestFrequencySpec_Daily(t *testing.T) {
	spec := FrequencySpec{Frequency: FreqDaily, Times: []TimeOfDay{"08:00"}}

	for _, day := range []string{"2025-01-01", "2025-01-02", "2025-06-15", "2025-12-31"} {
		fires, times, warn := spec.Fires(mustDate(t, day))
		assert.Nil(t, warn)
		assert.True(t, fires, "daily should fire on %s", day)
		assert.Equal(t, []TimeOfDay{"08:00"}, times)
	}
}

func TestFrequencySpec_DailyDefaultsTime(t *testing.T) {
	spec := FrequencySpec{Frequency: FreqDaily}

	fires, times, warn := spec.Fires(mustDate(t, "2025-03-10"))
	assert.Nil(t, warn)
	assert.True(t, fires)
	assert.Equal(t, []TimeOfDay{DefaultServiceTime}, times)
}

func TestFrequencySpec_TwiceDaily(t *testing.T) {
	t.Run("fires with exactly two times", func(t *testing.T) {
		spec := FrequencySpec{Frequency: Freq2xDaily, Times: []TimeOfDay{"07:00", "16:00"}}
		fires, times, warn := spec.Fires(mustDate(t, "2025-01-15"))
		assert.Nil(t, warn)
		assert.True(t, fires)
		assert.Len(t, times, 2)
	})

	t.Run("wrong time count is a warning, not a crash", func(t *testing.T) {
		spec := FrequencySpec{Frequency: Freq2xDaily, Times: []TimeOfDay{"07:00"}}
		fires, _, warn := spec.Fires(mustDate(t, "2025-01-15"))
		assert.False(t, fires)
		require.NotNil(t, warn)
		assert.Equal(t, WarnTimesCountMismatch, warn.Code)
	})
}

func TestFrequencySpec_ThriceDaily(t *testing.T) {
	spec := FrequencySpec{Frequency: Freq3xDaily, Times: []TimeOfDay{"06:00", "12:00", "18:00"}}
	fires, times, warn := spec.Fires(mustDate(t, "2025-01-15"))
	assert.Nil(t, warn)
	assert.True(t, fires)
	assert.Len(t, times, 3)

	spec.Times = spec.Times[:2]
	fires, _, warn = spec.Fires(mustDate(t, "2025-01-15"))
	assert.False(t, fires)
	require.NotNil(t, warn)
	assert.Equal(t, WarnTimesCountMismatch, warn.Code)
}

func TestFrequencySpec_EveryOtherDayParity(t *testing.T) {
	spec := FrequencySpec{
		Frequency: FreqEveryOtherDay,
		Times:     []TimeOfDay{"09:00"},
		Anchor:    mustDate(t, "2025-01-01"),
	}

	tests := []struct {
		date  string
		fires bool
	}{
		{"2025-01-01", true}, // the anchor day itself always fires
		{"2025-01-02", false},
		{"2025-01-03", true},
		{"2025-01-04", false},
		{"2025-01-05", true},
		{"2024-12-31", false}, // parity holds before the anchor too
		{"2024-12-30", true},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			fires, _, warn := spec.Fires(mustDate(t, tt.date))
			assert.Nil(t, warn)
			assert.Equal(t, tt.fires, fires)
		})
	}
}

func TestFrequencySpec_EveryOtherDayNeedsAnchor(t *testing.T) {
	spec := FrequencySpec{Frequency: FreqEveryOtherDay, Times: []TimeOfDay{"09:00"}}
	fires, _, warn := spec.Fires(mustDate(t, "2025-01-01"))
	assert.False(t, fires)
	require.NotNil(t, warn)
	assert.Equal(t, WarnMalformedConfig, warn.Code)
}

func TestFrequencySpec_Weekly(t *testing.T) {
	// 2025-01-06 is a Monday.
	anchor := mustDate(t, "2025-01-06")

	t.Run("fires on the anchor weekday", func(t *testing.T) {
		spec := FrequencySpec{Frequency: FreqWeekly, Times: []TimeOfDay{"10:00"}, Anchor: anchor}

		fires, _, warn := spec.Fires(mustDate(t, "2025-01-13")) // next Monday
		assert.Nil(t, warn)
		assert.True(t, fires)

		fires, _, warn = spec.Fires(mustDate(t, "2025-01-14")) // Tuesday
		assert.Nil(t, warn)
		assert.False(t, fires)
	})

	t.Run("explicit weekday wins over anchor", func(t *testing.T) {
		spec := FrequencySpec{
			Frequency: FreqWeekly,
			Times:     []TimeOfDay{"10:00"},
			Anchor:    anchor,
			Days:      []time.Weekday{time.Friday},
		}

		fires, _, _ := spec.Fires(mustDate(t, "2025-01-10")) // Friday
		assert.True(t, fires)
		fires, _, _ = spec.Fires(mustDate(t, "2025-01-13")) // Monday
		assert.False(t, fires)
	})

	t.Run("no anchor and no weekday is a warning", func(t *testing.T) {
		spec := FrequencySpec{Frequency: FreqWeekly}
		fires, _, warn := spec.Fires(mustDate(t, "2025-01-13"))
		assert.False(t, fires)
		require.NotNil(t, warn)
		assert.Equal(t, WarnMalformedConfig, warn.Code)
	})
}

func TestFrequencySpec_SpecificDaysFourWeekWindow(t *testing.T) {
	// Mon/Wed/Fri over four full weeks starting Monday 2025-01-06.
	spec := FrequencySpec{
		Frequency: FreqSpecificDays,
		Times:     []TimeOfDay{"09:00"},
		Days:      []time.Weekday{time.Monday, time.Wednesday, time.Friday},
	}

	start := mustDate(t, "2025-01-06")
	var fired []time.Weekday
	for i := 0; i < 28; i++ {
		day := start.AddDate(0, 0, i)
		fires, _, warn := spec.Fires(day)
		require.Nil(t, warn)
		if fires {
			fired = append(fired, day.Weekday())
		}
	}

	assert.Len(t, fired, 12, "3 firing days x 4 weeks")
	for _, wd := range fired {
		assert.Contains(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, wd)
	}
}

func TestFrequencySpec_SpecificDaysEmptyNeverFires(t *testing.T) {
	spec := FrequencySpec{Frequency: FreqSpecificDays, Times: []TimeOfDay{"09:00"}}
	fires, _, warn := spec.Fires(mustDate(t, "2025-01-06"))
	assert.False(t, fires)
	require.NotNil(t, warn)
	assert.Equal(t, WarnEmptySpecificDays, warn.Code)
}

func TestFrequencySpec_CustomSentinel(t *testing.T) {
	spec := FrequencySpec{Frequency: FreqCustom}
	fires, _, warn := spec.Fires(mustDate(t, "2025-01-06"))
	assert.False(t, fires)
	require.NotNil(t, warn)
	assert.Equal(t, WarnNoCustomSchedule, warn.Code)
}

func TestFrequencySpec_UnknownFrequency(t *testing.T) {
	spec := FrequencySpec{Frequency: "fortnightly"}
	fires, _, warn := spec.Fires(mustDate(t, "2025-01-06"))
	assert.False(t, fires)
	require.NotNil(t, warn)
	assert.Equal(t, WarnUnknownFrequency, warn.Code)
}

func TestDaysBetween(t *testing.T) {
	a := mustDate(t, "2025-01-01")
	b := mustDate(t, "2025-01-05")
	assert.Equal(t, 4, DaysBetween(a, b))
	assert.Equal(t, -4, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}
