package schedule

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// DefaultServiceType is emitted for tasks produced by a bare base frequency,
// which carries no service type configuration of its own.
const DefaultServiceType = "standard_service"

// ComputeScheduleForDate compiles the due-set for one property and date.
// Pure: it performs no I/O and never mutates the snapshot, so concurrent
// invocations need no locking and a result can be discarded without side
// effects.
//
// Per asset, first match wins:
//  1. active custom schedule,
//  2. resolved company template (evaluated as a synthetic custom schedule),
//  3. membership in a rotation rule's daily selection,
//  4. base asset frequency.
//
// Malformed assets or rules degrade to zero tasks plus a structured warning;
// only the caller can fail a compilation (by not invoking it).
func ComputeScheduleForDate(snap Snapshot, date time.Time) Result {
	date = DateOnly(date)
	result := Result{
		Date:       date.Format(DateLayout),
		PropertyID: snap.PropertyID,
	}
	result.Warnings = append(result.Warnings, snap.Warnings...)

	var tasks []ScheduledTask
	var unresolved []Asset

	emit := func(a Asset, specs []TaskSpec, source TaskSource) {
		for _, ts := range specs {
			tasks = append(tasks, ScheduledTask{
				Date:        result.Date,
				AssetID:     a.ID,
				AssetName:   a.Name,
				ServiceType: ts.ServiceType,
				Time:        ts.Time,
				Source:      source,
			})
		}
	}

	for _, a := range snap.Assets {
		if cs, ok := snap.Custom[a.ID]; ok {
			_, specs, warn := cs.Fires(date)
			if warn != nil {
				result.Warnings = append(result.Warnings, *warn)
			}
			emit(a, specs, SourceCustomSchedule)
			continue
		}

		if synth := ResolveTemplate(a, snap.Templates); synth != nil {
			_, specs, warn := synth.Fires(date)
			if warn != nil {
				result.Warnings = append(result.Warnings, *warn)
			}
			emit(a, specs, SourceTemplate)
			continue
		}

		unresolved = append(unresolved, a)
	}

	rotated := make(map[uuid.UUID]bool)
	for _, rule := range snap.Rules {
		if rule.SelectionCount <= 0 {
			result.Warnings = append(result.Warnings, *ruleWarning(WarnInvalidSelectionCount, rule.ID,
				"rotation rule has selection_count %d, skipping", rule.SelectionCount))
			continue
		}

		var pool []Asset
		for _, a := range unresolved {
			if a.Type == rule.AssetType && !rotated[a.ID] {
				pool = append(pool, a)
			}
		}
		if len(pool) == 0 {
			result.Warnings = append(result.Warnings, *ruleWarning(WarnEmptyCandidatePool, rule.ID,
				"rotation rule targets asset type %q but no candidates exist", rule.AssetType))
			continue
		}

		selected := rule.Select(pool, date)
		specs := rule.Tasks()
		for _, a := range pool {
			if selected[a.ID] {
				emit(a, specs, SourceRotation)
				rotated[a.ID] = true
			}
		}
	}

	for _, a := range unresolved {
		if rotated[a.ID] {
			continue
		}

		fires, times, warn := a.Base.Fires(date)
		if warn != nil {
			warn.AssetID = a.ID
			result.Warnings = append(result.Warnings, *warn)
			continue
		}
		if !fires {
			continue
		}
		for _, tm := range times {
			tasks = append(tasks, ScheduledTask{
				Date:        result.Date,
				AssetID:     a.ID,
				AssetName:   a.Name,
				ServiceType: DefaultServiceType,
				Time:        tm,
				Source:      SourceBaseFrequency,
			})
		}
	}

	result.Tasks = finalize(tasks)
	return result
}

// finalize deduplicates by (asset, service type, time) and orders the list
// for stable, human-readable output. Duplicates should be structurally
// impossible given the precedence rules; the pass guards against malformed
// overlapping configs.
func finalize(tasks []ScheduledTask) []ScheduledTask {
	type key struct {
		assetID     uuid.UUID
		serviceType string
		time        TimeOfDay
	}
	seen := make(map[key]bool, len(tasks))
	out := make([]ScheduledTask, 0, len(tasks))
	for _, t := range tasks {
		k := key{t.AssetID, t.ServiceType, t.Time}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, t)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		if out[i].AssetName != out[j].AssetName {
			return out[i].AssetName < out[j].AssetName
		}
		if out[i].ServiceType != out[j].ServiceType {
			return out[i].ServiceType < out[j].ServiceType
		}
		return out[i].AssetID.String() < out[j].AssetID.String()
	})
	return out
}
