package extraction

import (
	"time"

	"github.com/fyrsmithlabs/aihistory/internal/conversation"
	"github.com/fyrsmithlabs/aihistory/internal/logging"
)

// Match is a single rule hit in a conversation's text buffer.
type Match struct {
	Keyword string `json:"keyword"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Context string `json:"context"`
}

// MatchGroup is a run of matches sorted by start offset, each within the
// configured gap of its predecessor.
type MatchGroup []Match

// Keywords returns the matched keyword strings in group order.
func (g MatchGroup) Keywords() []string {
	out := make([]string, len(g))
	for i, m := range g {
		out[i] = m.Keyword
	}
	return out
}

// UnfinishedProject is an accepted match group rendered as a work item.
type UnfinishedProject struct {
	ID                   string                `json:"id"`
	Title                string                `json:"title"`
	Description          string                `json:"description"`
	SourceConversationID string                `json:"source_conversation_id"`
	SourcePlatform       conversation.Platform `json:"source_platform"`
	DetectedAt           *time.Time            `json:"detected_at"`
	Confidence           float64               `json:"confidence"`
	PriorityScore        float64               `json:"priority_score"`
	KeywordsFound        []string              `json:"keywords_found"`
	Tags                 []string              `json:"tags"`
	Context              string                `json:"context"`
	Metadata             map[string]any        `json:"metadata"`
}

// AnalysisResult is the output of one analyzer run.
type AnalysisResult struct {
	Platform              conversation.Platform `json:"platform"`
	ConversationsAnalyzed int                   `json:"conversations_analyzed"`
	AnalysisDate          time.Time             `json:"analysis_date"`
	UnfinishedProjects    []UnfinishedProject   `json:"unfinished_projects"`
	Metadata              map[string]any        `json:"metadata"`
}

// Config holds analyzer configuration. Zero values select defaults.
type Config struct {
	// Patterns replaces the default rule set when non-empty.
	Patterns []string `json:"patterns,omitempty"`

	// MinConfidence is the acceptance threshold in [0, 1]; nil means 0.5.
	// A threshold of 0 accepts every group.
	MinConfidence *float64 `json:"min_confidence,omitempty"`

	// ContextRadius is the number of characters captured on each side of
	// a match; 0 means 200.
	ContextRadius int `json:"context_radius"`

	// MaxGap is the distance from one match's end to the next match's start
	// at which a new group begins; 0 means 500.
	MaxGap int `json:"max_gap"`

	Clock Clock `json:"-"`

	// Logger overrides the logger carried by the Analyze context.
	Logger  *logging.Logger `json:"-"`
	Metrics *Metrics        `json:"-"`
}

const (
	DefaultMinConfidence = 0.5
	DefaultContextRadius = 200
	DefaultMaxGap        = 500
)

// Threshold returns a pointer to v for Config.MinConfidence.
func Threshold(v float64) *float64 {
	return &v
}

// DefaultConfig returns the analyzer defaults with the default rule set.
func DefaultConfig() Config {
	return Config{
		Patterns:      DefaultPatterns(),
		MinConfidence: Threshold(DefaultMinConfidence),
		ContextRadius: DefaultContextRadius,
		MaxGap:        DefaultMaxGap,
		Clock:         SystemClock,
	}
}
