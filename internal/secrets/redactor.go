package secrets

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/zricethezav/gitleaks/v8/detect"
	"github.com/zricethezav/gitleaks/v8/report"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/aihistory/internal/extraction"
	"github.com/fyrsmithlabs/aihistory/internal/logging"
)

// Summary counts the secrets removed by a redaction pass.
type Summary struct {
	Total  int            `json:"total"`
	ByRule map[string]int `json:"by_rule"`
}

// add folds other into s.
func (s *Summary) add(other Summary) {
	s.Total += other.Total
	for rule, n := range other.ByRule {
		if s.ByRule == nil {
			s.ByRule = make(map[string]int)
		}
		s.ByRule[rule] += n
	}
}

// Redactor replaces secrets found by the Gitleaks default rules.
// A Redactor is not safe for concurrent use.
type Redactor struct {
	detector *detect.Detector
	logger   *logging.Logger
}

// NewRedactor builds a redactor with the Gitleaks default configuration
// plus the allowlist at allowlistPath, if any.
func NewRedactor(allowlistPath string, logger *logging.Logger) (*Redactor, error) {
	allowlist, err := LoadAllowlist(allowlistPath)
	if err != nil {
		return nil, fmt.Errorf("loading allowlist: %w", err)
	}

	detector, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("creating gitleaks detector: %w", err)
	}
	if err := applyAllowlist(&detector.Config, allowlist); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = logging.NewNop()
	}
	return &Redactor{detector: detector, logger: logger.Named("secrets")}, nil
}

// Redact returns content with every detected secret replaced by a
// [REDACTED:<rule-id>] marker.
func (r *Redactor) Redact(content string) (string, Summary) {
	if content == "" {
		return content, Summary{}
	}
	return replaceFindings(content, r.detector.DetectString(content))
}

// RedactProjects redacts the title, description and context of each
// project in place and returns the combined summary.
func (r *Redactor) RedactProjects(ctx context.Context, projects []extraction.UnfinishedProject) Summary {
	var total Summary
	for i := range projects {
		p := &projects[i]

		var s Summary
		p.Title, s = r.Redact(p.Title)
		total.add(s)
		p.Description, s = r.Redact(p.Description)
		total.add(s)
		p.Context, s = r.Redact(p.Context)
		total.add(s)
	}

	if total.Total > 0 {
		r.logger.Info(ctx, "secrets redacted",
			zap.Int("projects", len(projects)),
			zap.Int("secrets", total.Total),
			zap.Any("by_rule", total.ByRule),
		)
	}
	return total
}

// replaceFindings swaps each finding's secret for its marker. Longer
// secrets are replaced first so a secret that contains another is not
// split by the shorter one's marker.
func replaceFindings(content string, findings []report.Finding) (string, Summary) {
	summary := Summary{}
	if len(findings) == 0 {
		return content, summary
	}

	type target struct {
		secret string
		rule   string
	}
	seen := make(map[string]bool, len(findings))
	targets := make([]target, 0, len(findings))
	for _, f := range findings {
		secret := f.Secret
		if secret == "" {
			secret = f.Match
		}
		if secret == "" || seen[secret] {
			continue
		}
		seen[secret] = true
		targets = append(targets, target{secret: secret, rule: f.RuleID})
	}

	sort.SliceStable(targets, func(i, j int) bool {
		return len(targets[i].secret) > len(targets[j].secret)
	})

	summary.ByRule = make(map[string]int)
	for _, t := range targets {
		n := strings.Count(content, t.secret)
		if n == 0 {
			continue
		}
		content = strings.ReplaceAll(content, t.secret, Marker(t.rule))
		summary.Total += n
		summary.ByRule[t.rule] += n
	}
	return content, summary
}

// Marker is the replacement text for a secret found by rule.
func Marker(rule string) string {
	return "[REDACTED:" + rule + "]"
}
