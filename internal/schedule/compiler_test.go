package schedule

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// neverFires is a base spec that stays quiet on the test dates so a test can
// isolate one resolution source.
func neverFires() FrequencySpec {
	return FrequencySpec{
		Frequency: FreqSpecificDays,
		Times:     []TimeOfDay{"09:00"},
		Days:      []time.Weekday{time.Saturday},
	}
}

func TestComputeScheduleForDate_OverridePrecedence(t *testing.T) {
	// A daily base frequency with an active weekly custom schedule must fire
	// only on the custom schedule's weekday.
	assetID := uuid.New()
	snap := Snapshot{
		PropertyID: uuid.New(),
		Assets: []Asset{{
			ID:   assetID,
			Name: "Main Pool",
			Type: "unit",
			Base: FrequencySpec{Frequency: FreqDaily, Times: []TimeOfDay{"08:00"}},
		}},
		Custom: map[uuid.UUID]CustomSchedule{
			assetID: {
				ID:      uuid.New(),
				AssetID: assetID,
				Type:    ScheduleSimple,
				Spec: FrequencySpec{
					Frequency: FreqWeekly,
					Times:     []TimeOfDay{"10:00"},
					Days:      []time.Weekday{time.Wednesday},
				},
				ServiceTypes: map[string][]string{"weekly": {"filter_clean"}},
			},
		},
	}

	wednesday := ComputeScheduleForDate(snap, mustDate(t, "2025-01-08"))
	require.Len(t, wednesday.Tasks, 1)
	assert.Equal(t, SourceCustomSchedule, wednesday.Tasks[0].Source)
	assert.Equal(t, "filter_clean", wednesday.Tasks[0].ServiceType)
	assert.Equal(t, TimeOfDay("10:00"), wednesday.Tasks[0].Time)

	// Any other day: the daily base must NOT leak through the override.
	thursday := ComputeScheduleForDate(snap, mustDate(t, "2025-01-09"))
	assert.Empty(t, thursday.Tasks)
}

func TestComputeScheduleForDate_Idempotent(t *testing.T) {
	assetID := uuid.New()
	snap := Snapshot{
		PropertyID: uuid.New(),
		Assets: []Asset{
			{ID: assetID, Name: "Spa", Type: "unit",
				Base: FrequencySpec{Frequency: FreqDaily, Times: []TimeOfDay{"09:00"}}},
			{ID: uuid.New(), Name: "Lap Pool", Type: "unit",
				Base: FrequencySpec{Frequency: FreqDaily, Times: []TimeOfDay{"07:00"}}},
		},
	}
	date := mustDate(t, "2025-01-15")

	first := ComputeScheduleForDate(snap, date)
	second := ComputeScheduleForDate(snap, date)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b, "same snapshot and date must yield byte-identical output")
}

func TestComputeScheduleForDate_TemplateFallback(t *testing.T) {
	asset := Asset{
		ID:        uuid.New(),
		Name:      "Main Pool",
		Type:      "unit",
		WaterType: "chlorine",
		Base:      neverFires(),
	}
	snap := Snapshot{
		PropertyID: uuid.New(),
		Assets:     []Asset{asset},
		Templates: []Template{{
			ID:         uuid.New(),
			Name:       "Weekly Maintenance",
			AssetTypes: []string{"unit"},
			Type:       ScheduleSimple,
			Spec: FrequencySpec{
				Frequency: FreqWeekly,
				Times:     []TimeOfDay{"08:30"},
				Days:      []time.Weekday{time.Monday},
			},
			ServiceTypes: map[string][]string{"weekly": {"template_service"}},
		}},
	}

	monday := ComputeScheduleForDate(snap, mustDate(t, "2025-01-06"))
	require.Len(t, monday.Tasks, 1)
	assert.Equal(t, SourceTemplate, monday.Tasks[0].Source)
	assert.Equal(t, "template_service", monday.Tasks[0].ServiceType)
}

func TestComputeScheduleForDate_CustomWinsOverTemplate(t *testing.T) {
	assetID := uuid.New()
	snap := Snapshot{
		PropertyID: uuid.New(),
		Assets: []Asset{{
			ID: assetID, Name: "Main Pool", Type: "unit", Base: neverFires(),
		}},
		Custom: map[uuid.UUID]CustomSchedule{
			assetID: {
				ID: uuid.New(), AssetID: assetID, Type: ScheduleSimple,
				Spec:         FrequencySpec{Frequency: FreqDaily, Times: []TimeOfDay{"09:00"}},
				ServiceTypes: map[string][]string{"daily": {"custom_service"}},
			},
		},
		Templates: []Template{{
			ID: uuid.New(), Name: "Daily Template", AssetTypes: []string{"unit"},
			Type:         ScheduleSimple,
			Spec:         FrequencySpec{Frequency: FreqDaily, Times: []TimeOfDay{"09:00"}},
			ServiceTypes: map[string][]string{"daily": {"template_service"}},
		}},
	}

	result := ComputeScheduleForDate(snap, mustDate(t, "2025-01-15"))
	require.Len(t, result.Tasks, 1)
	assert.Equal(t, SourceCustomSchedule, result.Tasks[0].Source)
	assert.Equal(t, "custom_service", result.Tasks[0].ServiceType)
}

func TestComputeScheduleForDate_RotationRule(t *testing.T) {
	propertyID := uuid.New()
	snap := Snapshot{
		PropertyID: propertyID,
		Assets: []Asset{
			{ID: uuid.New(), Name: "Pool A", Type: "unit", PropertyID: propertyID, Base: neverFires()},
			{ID: uuid.New(), Name: "Pool B", Type: "unit", PropertyID: propertyID, Base: neverFires()},
			{ID: uuid.New(), Name: "Pool C", Type: "unit", PropertyID: propertyID, Base: neverFires()},
			{ID: uuid.New(), Name: "Pool D", Type: "unit", PropertyID: propertyID, Base: neverFires()},
		},
		Rules: []RotationRule{{
			ID:             uuid.New(),
			PropertyID:     propertyID,
			SelectionCount: 2,
			AssetType:      "unit",
			ServiceTypes:   []string{"rotation_service"},
			Times:          []TimeOfDay{"10:00"},
		}},
	}

	// Wednesday 2025-01-08: a plain weekday, the base specs stay quiet.
	result := ComputeScheduleForDate(snap, mustDate(t, "2025-01-08"))
	require.Len(t, result.Tasks, 2)
	for _, task := range result.Tasks {
		assert.Equal(t, SourceRotation, task.Source)
		assert.Equal(t, "rotation_service", task.ServiceType)
		assert.Equal(t, TimeOfDay("10:00"), task.Time)
	}
	assert.NotEqual(t, result.Tasks[0].AssetID, result.Tasks[1].AssetID)
}

func TestComputeScheduleForDate_RuleConfigErrors(t *testing.T) {
	propertyID := uuid.New()
	asset := Asset{
		ID: uuid.New(), Name: "Pool A", Type: "unit", PropertyID: propertyID,
		Base: FrequencySpec{Frequency: FreqDaily, Times: []TimeOfDay{"09:00"}},
	}

	t.Run("non-positive selection count skips the rule only", func(t *testing.T) {
		badRule := uuid.New()
		snap := Snapshot{
			PropertyID: propertyID,
			Assets:     []Asset{asset},
			Rules: []RotationRule{{
				ID: badRule, PropertyID: propertyID, SelectionCount: 0, AssetType: "unit",
			}},
		}

		result := ComputeScheduleForDate(snap, mustDate(t, "2025-01-08"))
		require.Len(t, result.Warnings, 1)
		assert.Equal(t, WarnInvalidSelectionCount, result.Warnings[0].Code)
		assert.Equal(t, badRule, result.Warnings[0].RuleID)
		// The asset still resolves normally, via its base frequency.
		require.Len(t, result.Tasks, 1)
		assert.Equal(t, SourceBaseFrequency, result.Tasks[0].Source)
	})

	t.Run("empty candidate pool skips the rule", func(t *testing.T) {
		snap := Snapshot{
			PropertyID: propertyID,
			Assets:     []Asset{asset},
			Rules: []RotationRule{{
				ID: uuid.New(), PropertyID: propertyID, SelectionCount: 1, AssetType: "plant_room",
			}},
		}

		result := ComputeScheduleForDate(snap, mustDate(t, "2025-01-08"))
		require.Len(t, result.Warnings, 1)
		assert.Equal(t, WarnEmptyCandidatePool, result.Warnings[0].Code)
		require.Len(t, result.Tasks, 1)
	})
}

func TestComputeScheduleForDate_CustomSentinelWithoutOverride(t *testing.T) {
	assetID := uuid.New()
	snap := Snapshot{
		PropertyID: uuid.New(),
		Assets: []Asset{{
			ID: assetID, Name: "Orphan Spa", Type: "unit",
			Base: FrequencySpec{Frequency: FreqCustom},
		}},
	}

	result := ComputeScheduleForDate(snap, mustDate(t, "2025-01-08"))
	assert.Empty(t, result.Tasks)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarnNoCustomSchedule, result.Warnings[0].Code)
	assert.Equal(t, assetID, result.Warnings[0].AssetID)
}

func TestComputeScheduleForDate_Deduplicates(t *testing.T) {
	assetID := uuid.New()
	snap := Snapshot{
		PropertyID: uuid.New(),
		Assets: []Asset{{
			ID: assetID, Name: "Main Pool", Type: "unit", Base: neverFires(),
		}},
		Custom: map[uuid.UUID]CustomSchedule{
			assetID: {
				ID: uuid.New(), AssetID: assetID, Type: ScheduleSimple,
				Spec: FrequencySpec{Frequency: FreqDaily, Times: []TimeOfDay{"09:00"}},
				// A malformed config listing the same service twice.
				ServiceTypes: map[string][]string{"daily": {"full_service", "full_service"}},
			},
		},
	}

	result := ComputeScheduleForDate(snap, mustDate(t, "2025-01-15"))
	assert.Len(t, result.Tasks, 1)
}

func TestComputeScheduleForDate_StableOrdering(t *testing.T) {
	snap := Snapshot{
		PropertyID: uuid.New(),
		Assets: []Asset{
			{ID: uuid.New(), Name: "Zebra Spa", Type: "unit",
				Base: FrequencySpec{Frequency: FreqDaily, Times: []TimeOfDay{"08:00"}}},
			{ID: uuid.New(), Name: "Alpha Pool", Type: "unit",
				Base: FrequencySpec{Frequency: FreqDaily, Times: []TimeOfDay{"08:00"}}},
			{ID: uuid.New(), Name: "Mid Pool", Type: "unit",
				Base: FrequencySpec{Frequency: FreqDaily, Times: []TimeOfDay{"07:00"}}},
		},
	}

	result := ComputeScheduleForDate(snap, mustDate(t, "2025-01-15"))
	require.Len(t, result.Tasks, 3)
	assert.Equal(t, "Mid Pool", result.Tasks[0].AssetName, "earlier time first")
	assert.Equal(t, "Alpha Pool", result.Tasks[1].AssetName, "then by asset name")
	assert.Equal(t, "Zebra Spa", result.Tasks[2].AssetName)
}

func TestComputeScheduleForDate_CarriesSnapshotWarnings(t *testing.T) {
	snap := Snapshot{
		PropertyID: uuid.New(),
		Warnings: []Warning{
			{Code: WarnMalformedConfig, Message: "schedule config is not valid JSON"},
		},
	}

	result := ComputeScheduleForDate(snap, mustDate(t, "2025-01-15"))
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarnMalformedConfig, result.Warnings[0].Code)
}
