package schedule

import (
	"fmt"

	"github.com/google/uuid"
)

// WarningCode classifies non-fatal problems found while loading or compiling
// a schedule. A warned asset or rule contributes zero tasks for the day; the
// rest of the compilation proceeds.
type WarningCode string

const (
	// Data-integrity warnings (per asset).
	WarnUnknownFrequency    WarningCode = "unknown_frequency"
	WarnMalformedConfig     WarningCode = "malformed_config"
	WarnTimesCountMismatch  WarningCode = "times_count_mismatch"
	WarnEmptySpecificDays   WarningCode = "empty_specific_days"
	WarnMissingServiceTypes WarningCode = "missing_service_types"
	WarnNoCustomSchedule    WarningCode = "no_custom_schedule"
	WarnDuplicateActive     WarningCode = "duplicate_active_schedule"

	// Configuration errors (per rule; the rule is skipped).
	WarnInvalidSelectionCount WarningCode = "invalid_selection_count"
	WarnUnknownRuleType       WarningCode = "unknown_rule_type"
	WarnEmptyCandidatePool    WarningCode = "empty_candidate_pool"
)

// Warning is a structured, non-fatal diagnostic surfaced alongside results.
type Warning struct {
	Code    WarningCode `json:"code"`
	AssetID uuid.UUID   `json:"asset_id,omitempty"`
	RuleID  uuid.UUID   `json:"rule_id,omitempty"`
	Message string      `json:"message"`
}

func assetWarning(code WarningCode, assetID uuid.UUID, format string, args ...any) *Warning {
	return &Warning{Code: code, AssetID: assetID, Message: fmt.Sprintf(format, args...)}
}

func ruleWarning(code WarningCode, ruleID uuid.UUID, format string, args ...any) *Warning {
	return &Warning{Code: code, RuleID: ruleID, Message: fmt.Sprintf(format, args...)}
}
