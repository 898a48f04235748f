package extraction

import "sort"

// GroupMatches partitions matches into groups of nearby hits. Matches are
// sorted by start offset (stable, so equal starts keep discovery order) and
// a new group begins whenever the distance from the previous match's end to
// the next match's start reaches maxGap. The input slice is not modified.
func GroupMatches(matches []Match, maxGap int) []MatchGroup {
	if len(matches) == 0 {
		return nil
	}

	sorted := make([]Match, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var groups []MatchGroup
	current := MatchGroup{sorted[0]}
	for _, m := range sorted[1:] {
		if m.Start-current[len(current)-1].End < maxGap {
			current = append(current, m)
			continue
		}
		groups = append(groups, current)
		current = MatchGroup{m}
	}
	return append(groups, current)
}
