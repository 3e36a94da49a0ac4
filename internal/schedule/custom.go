package schedule

import "time"

// TaskSpec is one (time, service type) pair produced by a firing schedule.
type TaskSpec struct {
	Time        TimeOfDay
	ServiceType string
}

// Fires decides whether the custom schedule fires on date and which tasks it
// produces. A firing schedule with no service types for its trigger key
// produces zero tasks plus a warning.
func (cs CustomSchedule) Fires(date time.Time) (bool, []TaskSpec, *Warning) {
	if cs.Invalid {
		return false, nil, nil
	}
	switch cs.Type {
	case ScheduleComplex:
		return cs.firesComplex(date)
	default:
		return cs.firesSimple(date)
	}
}

// firesSimple delegates the fire decision to the frequency evaluator, then
// expands the trigger key's service types across the configured times.
func (cs CustomSchedule) firesSimple(date time.Time) (bool, []TaskSpec, *Warning) {
	fires, times, warn := cs.Spec.Fires(date)
	if warn != nil {
		warn.AssetID = cs.AssetID
		return false, nil, warn
	}
	if !fires {
		return false, nil, nil
	}

	key := cs.Spec.Frequency.TriggerKey()
	services := cs.ServiceTypes[key]
	if len(services) == 0 {
		return true, nil, assetWarning(WarnMissingServiceTypes, cs.AssetID,
			"custom schedule fires on trigger %q but defines no service types for it", key)
	}

	return true, expandTasks(times, services), nil
}

// firesComplex fires on the explicit date list, service types read from the
// "dates" trigger key at the configured time preference.
func (cs CustomSchedule) firesComplex(date time.Time) (bool, []TaskSpec, *Warning) {
	date = DateOnly(date)

	var fires bool
	for _, d := range cs.FireDates {
		if DateOnly(d).Equal(date) {
			fires = true
			break
		}
	}
	if !fires {
		return false, nil, nil
	}

	services := cs.ServiceTypes[TriggerKeyDates]
	if len(services) == 0 {
		return true, nil, assetWarning(WarnMissingServiceTypes, cs.AssetID,
			"complex schedule fires but defines no service types under %q", TriggerKeyDates)
	}

	times := cs.Spec.Times
	if len(times) == 0 {
		times = []TimeOfDay{DefaultServiceTime}
	}
	return true, expandTasks(times, services), nil
}

func expandTasks(times []TimeOfDay, services []string) []TaskSpec {
	tasks := make([]TaskSpec, 0, len(times)*len(services))
	for _, tm := range times {
		for _, svc := range services {
			tasks = append(tasks, TaskSpec{Time: tm, ServiceType: svc})
		}
	}
	return tasks
}
