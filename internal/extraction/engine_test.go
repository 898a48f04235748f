package extraction

import (
	"math/rand"
	"regexp"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/aihistory/internal/conversation"
)

func mustCompile(t *testing.T, patterns ...string) []*regexp.Regexp {
	t.Helper()
	compiled, err := CompilePatterns(patterns)
	require.NoError(t, err)
	return compiled
}

func TestCompilePatterns(t *testing.T) {
	t.Run("defaults when empty", func(t *testing.T) {
		compiled, err := CompilePatterns(nil)
		require.NoError(t, err)
		assert.Len(t, compiled, len(DefaultRules()))
		assert.Len(t, compiled, 23)
	})

	t.Run("case insensitive", func(t *testing.T) {
		compiled := mustCompile(t, `\bTODO\b`)
		assert.True(t, compiled[0].MatchString("remember the todo list"))
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := CompilePatterns([]string{`\bok\b`, `([`})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidPattern)

		var perr *InvalidPatternError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, 1, perr.Index)
		assert.Equal(t, `([`, perr.Pattern)
	})
}

func TestLocateMatches(t *testing.T) {
	text := "We still need to ship. TODO: docs"
	matches := LocateMatches(text, mustCompile(t, `\bTODO\b`, `\bneed to\b`), 200)

	// Pattern order first, then position.
	require.Len(t, matches, 2)
	assert.Equal(t, Match{Keyword: "TODO", Start: 23, End: 27, Context: text}, matches[0])
	assert.Equal(t, Match{Keyword: "need to", Start: 9, End: 16, Context: text}, matches[1])
}

func TestLocateMatches_ContextWindow(t *testing.T) {
	text := strings.Repeat("a", 50) + " TODO " + strings.Repeat("b", 50)
	matches := LocateMatches(text, mustCompile(t, `\bTODO\b`), 10)

	require.Len(t, matches, 1)
	assert.Equal(t, 51, matches[0].Start)
	assert.Equal(t, 55, matches[0].End)
	assert.Equal(t, "aaaaaaaaa TODO bbbbbbbbb", matches[0].Context)
}

func TestLocateMatches_CharacterOffsets(t *testing.T) {
	text := "héllo wörld TODO: ünïcode"
	matches := LocateMatches(text, mustCompile(t, `\bTODO\b`), 3)

	require.Len(t, matches, 1)
	assert.Equal(t, 12, matches[0].Start)
	assert.Equal(t, 16, matches[0].End)
	assert.Equal(t, "ld TODO: ü", matches[0].Context)
}

func TestLocateMatches_NoMatches(t *testing.T) {
	assert.Empty(t, LocateMatches("all finished here", mustCompile(t), 200))
	assert.Empty(t, LocateMatches("", mustCompile(t), 200))
}

func TestGroupMatches(t *testing.T) {
	tests := []struct {
		name string
		gap  int
		want int
	}{
		{name: "600 apart splits", gap: 600, want: 2},
		{name: "100 apart joins", gap: 100, want: 1},
		{name: "exactly max gap splits", gap: 500, want: 2},
		{name: "one below max gap joins", gap: 499, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := []Match{
				{Keyword: "FIXME", Start: 4 + tt.gap, End: 9 + tt.gap},
				{Keyword: "TODO", Start: 0, End: 4},
			}
			groups := GroupMatches(matches, DefaultMaxGap)
			require.Len(t, groups, tt.want)
			assert.Equal(t, "TODO", groups[0][0].Keyword)
		})
	}
}

func TestGroupMatches_StableOnEqualStart(t *testing.T) {
	matches := []Match{
		{Keyword: "still need", Start: 10, End: 20},
		{Keyword: "need to", Start: 16, End: 23},
		{Keyword: "STILL NEED", Start: 10, End: 20},
	}
	groups := GroupMatches(matches, DefaultMaxGap)

	require.Len(t, groups, 1)
	assert.Equal(t, []string{"still need", "STILL NEED", "need to"}, groups[0].Keywords())
}

func TestGroupMatches_Partition(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 50; round++ {
		var matches []Match
		pos := 0
		n := 1 + rng.Intn(40)
		for i := 0; i < n; i++ {
			pos += rng.Intn(1200)
			length := 1 + rng.Intn(10)
			matches = append(matches, Match{Keyword: "k", Start: pos, End: pos + length})
			pos += length
		}
		rng.Shuffle(len(matches), func(i, j int) { matches[i], matches[j] = matches[j], matches[i] })

		groups := GroupMatches(matches, DefaultMaxGap)
		require.NotEmpty(t, groups)

		var flat []Match
		for gi, g := range groups {
			require.NotEmpty(t, g)
			for i := 1; i < len(g); i++ {
				assert.Less(t, g[i].Start-g[i-1].End, DefaultMaxGap)
			}
			if gi > 0 {
				prev := groups[gi-1]
				assert.GreaterOrEqual(t, g[0].Start-prev[len(prev)-1].End, DefaultMaxGap)
			}
			flat = append(flat, g...)
		}

		sorted := append([]Match(nil), matches...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
		assert.Equal(t, sorted, flat)
	}
}

func TestScoreConfidence(t *testing.T) {
	tests := []struct {
		name  string
		group MatchGroup
		want  float64
	}{
		{
			name:  "single keyword with one action word",
			group: MatchGroup{{Keyword: "TODO", Context: "TODO: implement the login flow"}},
			want:  0.4,
		},
		{
			name: "repeated keyword counts once for diversity",
			group: MatchGroup{
				{Keyword: "TODO", Context: "TODO one"},
				{Keyword: "todo", Context: "todo two"},
			},
			want: 0.5,
		},
		{
			name: "action term capped",
			group: MatchGroup{
				{Keyword: "WIP", Context: "implement create build fix complete add"},
			},
			want: 0.6,
		},
		{
			name: "clamped at one",
			group: MatchGroup{
				{Keyword: "still need", Context: "implement"},
				{Keyword: "need to", Context: "add"},
				{Keyword: "TODO", Context: "x"},
			},
			want: 1.0,
		},
		{
			name: "volume and diversity clamped",
			group: MatchGroup{
				{Keyword: "a"}, {Keyword: "b"}, {Keyword: "c"}, {Keyword: "d"},
			},
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ScoreConfidence(tt.group), 1e-9)
		})
	}
}

func TestScoreConfidence_LoginFlowBelowDefaultThreshold(t *testing.T) {
	group := MatchGroup{{Keyword: "TODO", Start: 0, End: 4, Context: "TODO: implement the login flow"}}
	assert.Less(t, ScoreConfidence(group), DefaultMinConfidence)
}

func TestScoreConfidence_BoundsAndMonotonic(t *testing.T) {
	assert.Equal(t, 0.0, ScoreConfidence(nil))

	words := []string{"TODO", "FIXME", "WIP", "missing", "need to", "going to"}
	prev := 0.0
	for n := 1; n <= 12; n++ {
		var group MatchGroup
		for i := 0; i < n; i++ {
			group = append(group, Match{Keyword: "TODO", Context: "fix " + words[i%len(words)]})
		}
		got := ScoreConfidence(group)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
		assert.GreaterOrEqual(t, got, prev, "n=%d", n)
		prev = got
	}
}

func TestProjectID(t *testing.T) {
	assert.Equal(t, "972ff990ab32", ProjectID("conv-1", 0, 0))
	assert.Equal(t, "df51005a8297", ProjectID("conv-1", 1, 604))
	assert.Equal(t, ProjectID("conv-1", 0, 0), ProjectID("conv-1", 0, 0))
	assert.NotEqual(t, ProjectID("conv-1", 0, 0), ProjectID("conv-1", 1, 0))
	assert.Len(t, ProjectID("x", 9, 99), 12)
}

func TestProjectTitle(t *testing.T) {
	tests := []struct {
		name      string
		convTitle string
		group     MatchGroup
		want      string
	}{
		{
			name: "sentence with keyword",
			group: MatchGroup{{
				Keyword: "need to",
				Context: "We built the parser. Still need to wire the exporter into the CLI! Done.",
			}},
			want: "Still need to wire the exporter into the CLI",
		},
		{
			name: "second keyword qualifies",
			group: MatchGroup{
				{Keyword: "WIP", Context: "Short. The billing migration is still a WIP for now"},
				{Keyword: "missing", Context: "ignored"},
			},
			want: "The billing migration is still a WIP for now",
		},
		{
			name:      "short sentence falls back to conversation title",
			convTitle: "Planning",
			group:     MatchGroup{{Keyword: "need to", Context: "need to go."}},
			want:      "Planning - need to",
		},
		{
			name:  "no title falls back to keyword",
			group: MatchGroup{{Keyword: "TODO", Context: "TODO"}},
			want:  "Unfinished Project: TODO",
		},
		{
			name:  "long sentence truncated",
			group: MatchGroup{{Keyword: "TODO", Context: "TODO " + strings.Repeat("z", 200)}},
			want:  "TODO " + strings.Repeat("z", 95),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, projectTitle(tt.convTitle, tt.group))
		})
	}
}

func TestProjectDescription(t *testing.T) {
	t.Run("skips duplicates", func(t *testing.T) {
		group := MatchGroup{{Context: "a"}, {Context: "a"}, {Context: "b"}, {Context: "c"}}
		assert.Equal(t, "a\n\nb", projectDescription(group))
		assert.Equal(t, "a\n\na\n\nb", joinContexts(group))
	})

	t.Run("truncates long text", func(t *testing.T) {
		group := MatchGroup{{Context: strings.Repeat("x", 300)}, {Context: strings.Repeat("y", 300)}}
		desc := projectDescription(group)
		assert.Len(t, desc, 503)
		assert.True(t, strings.HasSuffix(desc, "..."))
	})
}

func TestUniqueKeywords(t *testing.T) {
	group := MatchGroup{{Keyword: "TODO"}, {Keyword: "need to"}, {Keyword: "TODO"}, {Keyword: "todo"}}
	assert.Equal(t, []string{"TODO", "need to", "todo"}, uniqueKeywords(group))
}

func TestExtractTags(t *testing.T) {
	tests := []struct {
		name     string
		platform conversation.Platform
		keywords []string
		want     []string
	}{
		{
			name:     "all rules once",
			platform: conversation.PlatformChatGPT,
			keywords: []string{"should implement", "will fix", "should add", "will create"},
			want:     []string{"chatgpt", "implementation", "bugfix", "feature"},
		},
		{
			name:     "unknown platform",
			keywords: []string{"will build"},
			want:     []string{},
		},
		{
			name:     "case insensitive keywords",
			platform: conversation.PlatformGemini,
			keywords: []string{"FIXME"},
			want:     []string{"gemini", "bugfix"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTags(tt.platform, tt.keywords))
		})
	}
}

func TestPriorityScore(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	t.Run("confidence only", func(t *testing.T) {
		conf := 0.75
		p := UnfinishedProject{Confidence: conf, Context: "short"}
		assert.Equal(t, conf*0.4, PriorityScore(p, now))
	})

	tests := []struct {
		name string
		p    UnfinishedProject
		want float64
	}{
		{
			name: "fresh",
			p:    UnfinishedProject{Confidence: 0.5, DetectedAt: at(0)},
			want: 0.2 + 0.3,
		},
		{
			name: "73 days old",
			p:    UnfinishedProject{Confidence: 0.5, DetectedAt: at(73 * 24 * time.Hour)},
			want: 0.2 + 0.8*0.3,
		},
		{
			name: "partial day rounds down",
			p:    UnfinishedProject{Confidence: 0.5, DetectedAt: at(73*24*time.Hour + 23*time.Hour)},
			want: 0.2 + 0.8*0.3,
		},
		{
			name: "older than a year",
			p:    UnfinishedProject{Confidence: 0.5, DetectedAt: at(800 * 24 * time.Hour)},
			want: 0.2,
		},
		{
			name: "keyword bonus capped",
			p:    UnfinishedProject{Confidence: 0.5, KeywordsFound: []string{"a", "b", "c", "d", "e", "f"}},
			want: 0.2 + 0.2,
		},
		{
			name: "long context bonus",
			p:    UnfinishedProject{Confidence: 0.5, Context: strings.Repeat("é", 501)},
			want: 0.2 + 0.1,
		},
		{
			name: "clamped",
			p: UnfinishedProject{
				Confidence:    1,
				DetectedAt:    at(-30 * 24 * time.Hour),
				KeywordsFound: []string{"a", "b", "c", "d"},
				Context:       strings.Repeat("x", 600),
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriorityScore(tt.p, now)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestRank(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	projects := []UnfinishedProject{
		{ID: "low", Confidence: 0.5},
		{ID: "high", Confidence: 1},
		{ID: "tie-a", Confidence: 0.75},
		{ID: "tie-b", Confidence: 0.75},
	}

	Rank(projects, now)

	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"high", "tie-a", "tie-b", "low"}, ids)
	assert.InDelta(t, 0.4, projects[0].PriorityScore, 1e-9)
}

func TestFixedClock(t *testing.T) {
	ts := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	clock := FixedClock(ts)
	assert.Equal(t, ts, clock.Now())
	assert.Equal(t, ts, clock.Now())
	assert.WithinDuration(t, time.Now(), SystemClock.Now(), time.Minute)
}
