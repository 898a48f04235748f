package extraction

import (
	"math"
	"sort"
	"time"
	"unicode/utf8"
)

const (
	confidenceWeight = 0.4
	recencyWeight    = 0.3
	recencyHorizon   = 365.0
	keywordWeight    = 0.05
	maxKeywordBonus  = 0.2
	longContextLen   = 500
	longContextBonus = 0.1
)

// PriorityScore blends confidence, recency of DetectedAt relative to now,
// keyword richness and context volume into a score in [0, 1].
func PriorityScore(p UnfinishedProject, now time.Time) float64 {
	score := p.Confidence * confidenceWeight

	if p.DetectedAt != nil {
		days := math.Floor(now.Sub(*p.DetectedAt).Hours() / 24)
		recency := math.Max(0, 1.0-days/recencyHorizon)
		score += recency * recencyWeight
	}

	score += math.Min(maxKeywordBonus, float64(len(p.KeywordsFound))*keywordWeight)

	if utf8.RuneCountInString(p.Context) > longContextLen {
		score += longContextBonus
	}

	return math.Max(0, math.Min(1.0, score))
}

// Rank sets every project's priority and sorts the slice by priority,
// highest first. Ties keep their input order.
func Rank(projects []UnfinishedProject, now time.Time) {
	for i := range projects {
		projects[i].PriorityScore = PriorityScore(projects[i], now)
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].PriorityScore > projects[j].PriorityScore
	})
}
