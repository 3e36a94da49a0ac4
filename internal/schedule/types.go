// Package schedule implements the recurring schedule computation engine:
// given a property snapshot and a calendar date, it determines which assets
// are due for service that day, reconciling per-asset base frequencies,
// custom schedule overrides, company templates, and property rotation rules.
//
// Resolution precedence is strict: CustomSchedule > ScheduleTemplate >
// PropertySchedulingRule > base asset frequency. An asset never receives
// tasks from two sources for the same date.
//
// All evaluators are pure functions of (asset, date, rule config). The only
// I/O lives in Service, which loads and validates the snapshot.
package schedule

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Frequency is a validated recurrence enum.
type Frequency string

const (
	FreqDaily         Frequency = "daily"
	Freq2xDaily       Frequency = "2x_daily"
	Freq3xDaily       Frequency = "3x_daily"
	FreqEveryOtherDay Frequency = "every_other_day"
	FreqWeekly        Frequency = "weekly"
	FreqSpecificDays  Frequency = "specific_days"

	// FreqCustom is a sentinel meaning "defer to the asset's custom
	// schedule". The frequency evaluator is never invoked for it.
	FreqCustom Frequency = "custom"
)

// KnownFrequency reports whether f is a recognized frequency value.
func KnownFrequency(f Frequency) bool {
	switch f {
	case FreqDaily, Freq2xDaily, Freq3xDaily, FreqEveryOtherDay, FreqWeekly, FreqSpecificDays, FreqCustom:
		return true
	}
	return false
}

// TriggerKey returns the service-type lookup key for a firing frequency
// (e.g. serviceTypes["daily"] for a daily schedule). Complex schedules use
// TriggerKeyDates instead.
func (f Frequency) TriggerKey() string {
	return string(f)
}

// TriggerKeyDates is the service-type key for complex (explicit fire-date)
// custom schedules.
const TriggerKeyDates = "dates"

// TimeOfDay is a zero-padded "HH:MM" clock time. Values are validated at
// snapshot load, so lexical ordering is chronological ordering.
type TimeOfDay string

// DefaultServiceTime is used when a firing schedule has no configured time.
const DefaultServiceTime TimeOfDay = "09:00"

var timeOfDayRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ParseTimeOfDay validates an "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if !timeOfDayRe.MatchString(s) {
		return "", fmt.Errorf("invalid time of day %q (want HH:MM)", s)
	}
	return TimeOfDay(s), nil
}

// DateLayout is the wire format for service dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date into a UTC-midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// DateOnly normalizes t to UTC midnight so day arithmetic is DST-safe.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole-day difference to - from. Both arguments are
// normalized first, so the result is exact.
func DaysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}

// FrequencySpec is the validated form of an asset's recurrence configuration.
type FrequencySpec struct {
	Frequency Frequency
	// Times holds the ordered service times. Validation guarantees it is
	// non-empty for every frequency except the 2x/3x variants, whose entry
	// count is checked at evaluation time.
	Times []TimeOfDay
	// Days holds the firing weekdays for specific_days (time.Weekday,
	// Sunday = 0).
	Days []time.Weekday
	// Anchor is the date the recurrence is computed relative to: parity base
	// for every_other_day and default weekday for weekly. Zero means unset.
	Anchor time.Time
}

// ScheduleType distinguishes simple (frequency-driven) from complex
// (explicit fire-date) custom schedules.
type ScheduleType string

const (
	ScheduleSimple  ScheduleType = "simple"
	ScheduleComplex ScheduleType = "complex"
)

// CustomSchedule is the validated per-asset override. While active it
// replaces the asset's base frequency entirely. Template resolution produces
// synthetic values of this type (FromTemplate set) consumed identically.
type CustomSchedule struct {
	ID      uuid.UUID
	AssetID uuid.UUID
	Type    ScheduleType

	// Spec drives simple schedules and supplies the time preference for
	// complex ones.
	Spec FrequencySpec

	// FireDates are the explicit UTC-midnight fire dates of a complex
	// schedule, service types read from the "dates" trigger key.
	FireDates []time.Time

	// ServiceTypes maps a trigger key to the ordered service type tags
	// emitted when the schedule fires on that trigger.
	ServiceTypes map[string][]string

	// FromTemplate is set when this value was synthesized by template
	// resolution rather than authored for the asset.
	FromTemplate bool
	TemplateName string

	// Invalid marks a schedule whose stored config failed validation at
	// snapshot load. It still supersedes every other source (the asset
	// contributes zero tasks); the warning was emitted by the loader.
	Invalid bool
}

// RotationRule is the validated form of a property scheduling rule of type
// random_selection: deterministically pick N of the candidate pool per day.
type RotationRule struct {
	ID         uuid.UUID
	PropertyID uuid.UUID

	SelectionCount int
	// AssetType restricts the candidate pool ("unit", "equipment",
	// "plant_room").
	AssetType string

	ServiceTypes []string
	Times        []TimeOfDay
}

// Template is the validated form of a company schedule template.
type Template struct {
	ID       uuid.UUID
	Name     string
	IsPublic bool

	// Applicability filters. An empty WaterTypes list matches any water type.
	AssetTypes []string
	WaterTypes []string

	Type      ScheduleType
	Spec      FrequencySpec
	FireDates []time.Time

	ServiceTypes map[string][]string
}

// Asset is the read-only view of an asset the compiler operates on.
type Asset struct {
	ID         uuid.UUID
	PropertyID uuid.UUID
	Name       string
	Type       string
	WaterType  string

	Base FrequencySpec
}

// TaskSource tags which mechanism produced a task, for debuggability.
type TaskSource string

const (
	SourceCustomSchedule TaskSource = "custom_schedule"
	SourceTemplate       TaskSource = "template"
	SourceRotation       TaskSource = "rotation_rule"
	SourceBaseFrequency  TaskSource = "base_frequency"
)

// ScheduledTask is one concrete due item for a date. Tasks are computed, not
// persisted.
type ScheduledTask struct {
	Date        string     `json:"date"`
	AssetID     uuid.UUID  `json:"asset_id"`
	AssetName   string     `json:"asset_name"`
	ServiceType string     `json:"service_type"`
	Time        TimeOfDay  `json:"time"`
	Source      TaskSource `json:"source"`
}

// Snapshot is the immutable rule-source view of one property, validated at
// load time. Compilation never mutates it.
type Snapshot struct {
	PropertyID uuid.UUID
	CompanyID  uuid.UUID

	Assets []Asset
	// Custom holds the single active custom schedule per asset.
	Custom    map[uuid.UUID]CustomSchedule
	Rules     []RotationRule
	Templates []Template

	// Warnings collected while validating raw configs into the types above.
	Warnings []Warning
}

// Result is the output of one compilation.
type Result struct {
	Date       string          `json:"date"`
	PropertyID uuid.UUID       `json:"property_id"`
	Tasks      []ScheduledTask `json:"tasks"`
	Warnings   []Warning       `json:"warnings,omitempty"`
}
