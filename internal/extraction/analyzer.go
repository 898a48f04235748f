package extraction

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/aihistory/internal/conversation"
	"github.com/fyrsmithlabs/aihistory/internal/logging"
)

// Analyzer turns conversations into an AnalysisResult.
type Analyzer interface {
	// Name returns the canonical analyzer name.
	Name() string

	// Analyze runs the analyzer over all conversations. The context is
	// checked between conversations; a cancelled run returns no result.
	Analyze(ctx context.Context, conversations []conversation.Conversation) (*AnalysisResult, error)
}

// UnfinishedProjectsAnalyzer detects unfinished work with lexical patterns.
type UnfinishedProjectsAnalyzer struct {
	patterns      []*regexp.Regexp
	minConfidence float64
	contextRadius int
	maxGap        int
	clock         Clock
	logger        *logging.Logger
	metrics       *Metrics
}

// NewUnfinishedProjectsAnalyzer validates cfg and compiles its patterns.
func NewUnfinishedProjectsAnalyzer(cfg Config) (*UnfinishedProjectsAnalyzer, error) {
	minConfidence := DefaultMinConfidence
	if cfg.MinConfidence != nil {
		minConfidence = *cfg.MinConfidence
	}
	if minConfidence < 0 || minConfidence > 1 {
		return nil, fmt.Errorf("%w: min confidence %v outside [0, 1]", ErrInvalidConfig, minConfidence)
	}
	if cfg.ContextRadius < 0 {
		return nil, fmt.Errorf("%w: context radius %d is negative", ErrInvalidConfig, cfg.ContextRadius)
	}
	if cfg.MaxGap < 0 {
		return nil, fmt.Errorf("%w: max gap %d is negative", ErrInvalidConfig, cfg.MaxGap)
	}

	patterns, err := CompilePatterns(cfg.Patterns)
	if err != nil {
		return nil, err
	}

	contextRadius := cfg.ContextRadius
	if contextRadius == 0 {
		contextRadius = DefaultContextRadius
	}

	maxGap := cfg.MaxGap
	if maxGap == 0 {
		maxGap = DefaultMaxGap
	}

	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock
	}

	var logger *logging.Logger
	if cfg.Logger != nil {
		logger = cfg.Logger.Named("extraction")
	}

	return &UnfinishedProjectsAnalyzer{
		patterns:      patterns,
		minConfidence: minConfidence,
		contextRadius: contextRadius,
		maxGap:        maxGap,
		clock:         clock,
		logger:        logger,
		metrics:       cfg.Metrics,
	}, nil
}

// Name implements Analyzer.
func (a *UnfinishedProjectsAnalyzer) Name() string {
	return NameUnfinishedProjects
}

// MinConfidence returns the effective acceptance threshold.
func (a *UnfinishedProjectsAnalyzer) MinConfidence() float64 {
	return a.minConfidence
}

// loggerFor returns the configured logger, else the one carried by ctx.
func (a *UnfinishedProjectsAnalyzer) loggerFor(ctx context.Context) *logging.Logger {
	if a.logger != nil {
		return a.logger
	}
	return logging.FromContext(ctx).Named("extraction")
}

// runStats accumulates per-run counters for result metadata.
type runStats struct {
	groups  int
	dropped int
}

// Analyze implements Analyzer.
func (a *UnfinishedProjectsAnalyzer) Analyze(ctx context.Context, conversations []conversation.Conversation) (*AnalysisResult, error) {
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	now := a.clock.Now()
	logger := a.loggerFor(ctx)

	logger.Debug(ctx, "analysis started",
		zap.Int("conversations", len(conversations)),
		zap.Int("patterns", len(a.patterns)),
		zap.Float64("min_confidence", a.minConfidence))

	var (
		platform conversation.Platform
		projects = []UnfinishedProject{}
		stats    runStats
	)
	for i := range conversations {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("analysis stopped after %d of %d conversations: %w", i, len(conversations), err)
		}

		conv := &conversations[i]
		if platform == "" {
			platform = conv.Platform
		}
		projects = append(projects, a.analyzeConversation(ctx, logger, conv, now, &stats)...)
	}

	Rank(projects, now)

	if platform == "" {
		platform = conversation.PlatformOther
	}

	logger.Info(ctx, "analysis complete",
		zap.Int("conversations", len(conversations)),
		zap.Int("projects", len(projects)),
		zap.Int("groups_dropped", stats.dropped))

	return &AnalysisResult{
		Platform:              platform,
		ConversationsAnalyzed: len(conversations),
		AnalysisDate:          now,
		UnfinishedProjects:    projects,
		Metadata: map[string]any{
			"run_id":         runID,
			"analyzer":       a.Name(),
			"min_confidence": a.minConfidence,
			"pattern_count":  len(a.patterns),
			"groups_found":   stats.groups,
			"groups_dropped": stats.dropped,
		},
	}, nil
}

func (a *UnfinishedProjectsAnalyzer) analyzeConversation(ctx context.Context, logger *logging.Logger, conv *conversation.Conversation, now time.Time, stats *runStats) []UnfinishedProject {
	matches := LocateMatches(conv.Text(), a.patterns, a.contextRadius)
	a.metrics.recordConversation(len(matches))
	if len(matches) == 0 {
		return nil
	}

	groups := GroupMatches(matches, a.maxGap)
	stats.groups += len(groups)

	var projects []UnfinishedProject
	for _, group := range groups {
		confidence := ScoreConfidence(group)
		accepted := confidence >= a.minConfidence
		a.metrics.recordGroup(confidence, accepted)

		if !accepted {
			stats.dropped++
			logger.Trace(ctx, "group below threshold",
				zap.String("conversation", conv.ID),
				zap.Int("start", group[0].Start),
				zap.Int("matches", len(group)),
				zap.Float64("confidence", confidence))
			continue
		}

		projects = append(projects, newProject(conv, group, confidence, len(projects), now))
	}

	logger.Debug(ctx, "conversation analyzed",
		zap.String("conversation", conv.ID),
		zap.Int("matches", len(matches)),
		zap.Int("groups", len(groups)),
		zap.Int("projects", len(projects)))

	return projects
}

// Ensure UnfinishedProjectsAnalyzer implements Analyzer.
var _ Analyzer = (*UnfinishedProjectsAnalyzer)(nil)
