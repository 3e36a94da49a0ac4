package schedule

import (
	"hash/fnv"
	"sort"
	"time"

	"github.com/google/uuid"
)

// rotationEpoch is the fixed origin for day ordinals. Any constant date
// works; it only has to be stable across processes.
var rotationEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Select picks the rule's daily subset of the candidate pool. The selection
// is a pure function of (propertyID, ruleID, date):
//
//   - the pool is ordered by (name, id) so the walk order is stable,
//   - the window start is (dayOrdinal*count + seed) mod len(pool), where
//     seed is derived from the property and rule IDs,
//   - the window wraps around and has size min(count, len(pool)).
//
// Because the window advances by count positions per day, every candidate is
// selected at least once within ceil(len(pool)/count) consecutive days.
func (r RotationRule) Select(pool []Asset, date time.Time) map[uuid.UUID]bool {
	selected := make(map[uuid.UUID]bool)
	if r.SelectionCount <= 0 || len(pool) == 0 {
		return selected
	}

	ordered := make([]Asset, len(pool))
	copy(ordered, pool)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Name != ordered[j].Name {
			return ordered[i].Name < ordered[j].Name
		}
		return ordered[i].ID.String() < ordered[j].ID.String()
	})

	n := len(ordered)
	count := r.SelectionCount
	if count > n {
		count = n
	}

	ordinal := DaysBetween(rotationEpoch, date)
	start := (ordinal*r.SelectionCount + r.seed()) % n
	if start < 0 {
		start += n
	}

	for i := 0; i < count; i++ {
		selected[ordered[(start+i)%n].ID] = true
	}
	return selected
}

// seed spreads different rules across different windows so two rules on the
// same property do not rotate in lockstep.
func (r RotationRule) seed() int {
	h := fnv.New32a()
	h.Write(r.PropertyID[:])
	h.Write(r.ID[:])
	return int(h.Sum32() % 1000)
}

// Tasks expands the rule's configured service types and times for one
// selected asset.
func (r RotationRule) Tasks() []TaskSpec {
	times := r.Times
	if len(times) == 0 {
		times = []TimeOfDay{DefaultServiceTime}
	}
	return expandTasks(times, r.ServiceTypes)
}
