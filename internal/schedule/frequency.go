package schedule

import (
	"strconv"
	"time"
)

// Fires decides whether the base recurrence fires on date and at which
// times. A non-nil warning means the config is malformed; the asset then
// contributes zero tasks for the day (the caller fills in the asset ID).
func (s FrequencySpec) Fires(date time.Time) (bool, []TimeOfDay, *Warning) {
	date = DateOnly(date)

	times := s.Times
	if len(times) == 0 {
		times = []TimeOfDay{DefaultServiceTime}
	}

	switch s.Frequency {
	case FreqDaily:
		return true, times, nil

	case Freq2xDaily:
		if len(s.Times) != 2 {
			return false, nil, &Warning{Code: WarnTimesCountMismatch,
				Message: "2x_daily requires exactly 2 service times, got " + strconv.Itoa(len(s.Times))}
		}
		return true, s.Times, nil

	case Freq3xDaily:
		if len(s.Times) != 3 {
			return false, nil, &Warning{Code: WarnTimesCountMismatch,
				Message: "3x_daily requires exactly 3 service times, got " + strconv.Itoa(len(s.Times))}
		}
		return true, s.Times, nil

	case FreqEveryOtherDay:
		if s.Anchor.IsZero() {
			return false, nil, &Warning{Code: WarnMalformedConfig,
				Message: "every_other_day requires an anchor date"}
		}
		// The anchor day itself always fires; parity is taken on the signed
		// day difference so dates before the anchor behave consistently.
		d := DaysBetween(s.Anchor, date)
		if ((d%2)+2)%2 == 0 {
			return true, times, nil
		}
		return false, nil, nil

	case FreqWeekly:
		day, ok := s.weeklyDay()
		if !ok {
			return false, nil, &Warning{Code: WarnMalformedConfig,
				Message: "weekly requires an anchor date or an explicit weekday"}
		}
		if date.Weekday() == day {
			return true, times, nil
		}
		return false, nil, nil

	case FreqSpecificDays:
		if len(s.Days) == 0 {
			return false, nil, &Warning{Code: WarnEmptySpecificDays,
				Message: "specific_days schedule has no weekdays configured"}
		}
		for _, d := range s.Days {
			if date.Weekday() == d {
				return true, times, nil
			}
		}
		return false, nil, nil

	case FreqCustom:
		// Sentinel: the compiler routes custom-frequency assets to their
		// custom schedule and never evaluates the base spec.
		return false, nil, &Warning{Code: WarnNoCustomSchedule,
			Message: "frequency is custom but no active custom schedule exists"}

	default:
		return false, nil, &Warning{Code: WarnUnknownFrequency,
			Message: "unknown frequency " + string(s.Frequency)}
	}
}

// weeklyDay returns the firing weekday for a weekly spec: an explicitly
// configured weekday wins over the anchor's weekday.
func (s FrequencySpec) weeklyDay() (time.Weekday, bool) {
	if len(s.Days) > 0 {
		return s.Days[0], true
	}
	if !s.Anchor.IsZero() {
		return s.Anchor.Weekday(), true
	}
	return 0, false
}
