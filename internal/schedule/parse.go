package schedule

import (
	"encoding/json"
	"time"
)

// The rule sources store their configuration as jsonb blobs. Everything here
// decodes those blobs ONCE, at snapshot load, into the validated types the
// evaluators consume. Malformed blobs surface as data-integrity warnings,
// never as type errors inside an evaluation.

// rawScheduleConfig mirrors the stored shape of schedule_config /
// template_config blobs. time_preference is the single-time shorthand used
// by most schedules; times is the explicit list used by 2x/3x variants.
type rawScheduleConfig struct {
	Frequency      string   `json:"frequency"`
	TimePreference string   `json:"time_preference"`
	Times          []string `json:"times"`
	Days           []int    `json:"days"`
	AnchorDate     string   `json:"anchor_date"`
	Dates          []string `json:"dates"`
}

// ParseScheduleConfig validates one schedule/template config blob. For
// complex schedules the frequency field is ignored and the explicit dates
// list drives firing.
func ParseScheduleConfig(raw []byte, typ ScheduleType, defaultTime TimeOfDay) (FrequencySpec, []time.Time, *Warning) {
	var cfg rawScheduleConfig
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return FrequencySpec{}, nil, &Warning{Code: WarnMalformedConfig,
				Message: "schedule config is not valid JSON: " + err.Error()}
		}
	}

	spec := FrequencySpec{Frequency: Frequency(cfg.Frequency)}

	if typ == ScheduleComplex {
		dates, warn := parseDates(cfg.Dates)
		if warn != nil {
			return FrequencySpec{}, nil, warn
		}
		if len(dates) == 0 {
			return FrequencySpec{}, nil, &Warning{Code: WarnMalformedConfig,
				Message: "complex schedule defines no fire dates"}
		}
		times, warn := parseTimes(cfg)
		if warn != nil {
			return FrequencySpec{}, nil, warn
		}
		if len(times) == 0 {
			times = []TimeOfDay{defaultTime}
		}
		spec.Times = times
		return spec, dates, nil
	}

	if !KnownFrequency(spec.Frequency) {
		return FrequencySpec{}, nil, &Warning{Code: WarnUnknownFrequency,
			Message: "unknown frequency " + cfg.Frequency}
	}

	times, warn := parseTimes(cfg)
	if warn != nil {
		return FrequencySpec{}, nil, warn
	}
	// 2x/3x variants keep their literal count so the evaluator can enforce
	// it; everything else falls back to the default service time.
	if len(times) == 0 && spec.Frequency != Freq2xDaily && spec.Frequency != Freq3xDaily {
		times = []TimeOfDay{defaultTime}
	}
	spec.Times = times

	days, warn := parseWeekdays(cfg.Days)
	if warn != nil {
		return FrequencySpec{}, nil, warn
	}
	spec.Days = days

	if cfg.AnchorDate != "" {
		anchor, err := ParseDate(cfg.AnchorDate)
		if err != nil {
			return FrequencySpec{}, nil, &Warning{Code: WarnMalformedConfig,
				Message: err.Error()}
		}
		spec.Anchor = anchor
	}

	return spec, nil, nil
}

// ParseServiceTypes validates a service-type mapping blob, e.g.
// {"daily":["full_service"],"weekly":["filter_clean"]}.
func ParseServiceTypes(raw []byte) (map[string][]string, *Warning) {
	if len(raw) == 0 {
		return nil, nil
	}
	var m map[string][]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, &Warning{Code: WarnMalformedConfig,
			Message: "service types mapping is not valid JSON: " + err.Error()}
	}
	return m, nil
}

// rawRuleConfig mirrors the stored shape of rule_config blobs.
type rawRuleConfig struct {
	SelectionCount int      `json:"selection_count"`
	AssetType      string   `json:"asset_type"`
	ServiceTypes   []string `json:"service_types"`
	TimePreference string   `json:"time_preference"`
	Times          []string `json:"times"`
}

// ParseRuleConfig validates a rotation rule's config blob. selection_count
// is range-checked by the compiler (a non-positive count skips the rule),
// not here, so the rule still shows up in the result's warnings.
func ParseRuleConfig(raw []byte, defaultTime TimeOfDay) (RotationRule, *Warning) {
	var cfg rawRuleConfig
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return RotationRule{}, &Warning{Code: WarnMalformedConfig,
				Message: "rule config is not valid JSON: " + err.Error()}
		}
	}

	rule := RotationRule{
		SelectionCount: cfg.SelectionCount,
		AssetType:      cfg.AssetType,
		ServiceTypes:   cfg.ServiceTypes,
	}
	if len(rule.ServiceTypes) == 0 {
		rule.ServiceTypes = []string{DefaultServiceType}
	}

	times, warn := parseTimes(rawScheduleConfig{TimePreference: cfg.TimePreference, Times: cfg.Times})
	if warn != nil {
		return RotationRule{}, warn
	}
	if len(times) == 0 {
		times = []TimeOfDay{defaultTime}
	}
	rule.Times = times
	return rule, nil
}

// ParseStringList validates a JSON string-array blob (applicability filters).
func ParseStringList(raw []byte) ([]string, *Warning) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, &Warning{Code: WarnMalformedConfig,
			Message: "string list is not valid JSON: " + err.Error()}
	}
	return list, nil
}

// ParseTimeList validates a JSON array of "HH:MM" strings (asset base times).
func ParseTimeList(raw []byte) ([]TimeOfDay, *Warning) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, &Warning{Code: WarnMalformedConfig,
			Message: "time list is not valid JSON: " + err.Error()}
	}
	out := make([]TimeOfDay, 0, len(list))
	for _, s := range list {
		tod, err := ParseTimeOfDay(s)
		if err != nil {
			return nil, &Warning{Code: WarnMalformedConfig, Message: err.Error()}
		}
		out = append(out, tod)
	}
	return out, nil
}

// ParseWeekdayList validates a JSON array of weekday integers 0-6.
func ParseWeekdayList(raw []byte) ([]time.Weekday, *Warning) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []int
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, &Warning{Code: WarnMalformedConfig,
			Message: "weekday list is not valid JSON: " + err.Error()}
	}
	return parseWeekdays(list)
}

func parseTimes(cfg rawScheduleConfig) ([]TimeOfDay, *Warning) {
	var out []TimeOfDay
	for _, s := range cfg.Times {
		tod, err := ParseTimeOfDay(s)
		if err != nil {
			return nil, &Warning{Code: WarnMalformedConfig, Message: err.Error()}
		}
		out = append(out, tod)
	}
	if len(out) == 0 && cfg.TimePreference != "" {
		tod, err := ParseTimeOfDay(cfg.TimePreference)
		if err != nil {
			return nil, &Warning{Code: WarnMalformedConfig, Message: err.Error()}
		}
		out = []TimeOfDay{tod}
	}
	return out, nil
}

func parseWeekdays(days []int) ([]time.Weekday, *Warning) {
	var out []time.Weekday
	for _, d := range days {
		if d < 0 || d > 6 {
			return nil, &Warning{Code: WarnMalformedConfig,
				Message: "weekday out of range 0-6"}
		}
		out = append(out, time.Weekday(d))
	}
	return out, nil
}

func parseDates(dates []string) ([]time.Time, *Warning) {
	var out []time.Time
	for _, s := range dates {
		d, err := ParseDate(s)
		if err != nil {
			return nil, &Warning{Code: WarnMalformedConfig, Message: err.Error()}
		}
		out = append(out, d)
	}
	return out, nil
}
