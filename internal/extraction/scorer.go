package extraction

import (
	"math"
	"strings"
)

// actionWords raise confidence when they appear in a group's contexts.
var actionWords = []string{"implement", "create", "build", "fix", "complete", "add"}

// ScoreConfidence returns how likely a group is to describe unfinished work,
// in [0, 1]. It sums a volume term (0.2 per match, at most 1), a diversity
// term (0.1 per distinct lowercased keyword) and an action term (0.1 per
// action word found in the lowercased contexts, at most 0.3), then caps the
// total at 1.
func ScoreConfidence(group MatchGroup) float64 {
	if len(group) == 0 {
		return 0
	}

	score := math.Min(1.0, float64(len(group))*0.2)
	score += float64(distinctLower(group.Keywords())) * 0.1
	score += math.Min(0.3, float64(countActionWords(group))*0.1)
	return math.Min(1.0, score)
}

func distinctLower(words []string) int {
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[strings.ToLower(w)] = struct{}{}
	}
	return len(seen)
}

func countActionWords(group MatchGroup) int {
	contexts := make([]string, len(group))
	for i, m := range group {
		contexts[i] = strings.ToLower(m.Context)
	}
	text := strings.Join(contexts, " ")

	n := 0
	for _, w := range actionWords {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}
