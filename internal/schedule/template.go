package schedule

import "sort"

// ResolveTemplate finds the template applicable to the asset, if any, and
// synthesizes a custom-schedule value from it. The synthetic value is
// consumed by the same evaluator as an authored custom schedule; the
// resolver never duplicates firing logic.
//
// Tie-break when several templates match: company-authored (non-public)
// templates win over public ones, then name ascending.
func ResolveTemplate(asset Asset, templates []Template) *CustomSchedule {
	var matches []Template
	for _, t := range templates {
		if t.appliesTo(asset) {
			matches = append(matches, t)
		}
	}
	if len(matches) == 0 {
		return nil
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].IsPublic != matches[j].IsPublic {
			return !matches[i].IsPublic
		}
		return matches[i].Name < matches[j].Name
	})
	return matches[0].synthesize(asset)
}

func (t Template) appliesTo(asset Asset) bool {
	if !containsString(t.AssetTypes, asset.Type) {
		return false
	}
	// An empty water type filter matches any water type.
	if len(t.WaterTypes) > 0 && !containsString(t.WaterTypes, asset.WaterType) {
		return false
	}
	return true
}

func (t Template) synthesize(asset Asset) *CustomSchedule {
	return &CustomSchedule{
		ID:           t.ID,
		AssetID:      asset.ID,
		Type:         t.Type,
		Spec:         t.Spec,
		FireDates:    t.FireDates,
		ServiceTypes: t.ServiceTypes,
		FromTemplate: true,
		TemplateName: t.Name,
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
