package extraction

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fyrsmithlabs/aihistory/internal/conversation"
)

const (
	maxTitleLen       = 100
	minTitleLen       = 20
	maxDescriptionLen = 500
	maxContexts       = 3
)

var sentenceBreak = regexp.MustCompile(`[.!?]\s+`)

// newProject renders an accepted group. index is the group's ordinal among
// the conversation's accepted groups; now backs DetectedAt when the
// conversation carries no timestamps.
func newProject(conv *conversation.Conversation, group MatchGroup, confidence float64, index int, now time.Time) UnfinishedProject {
	detected := conv.LastActivity()
	if detected == nil {
		t := now
		detected = &t
	}

	platform := conv.Platform
	if platform == "" {
		platform = conversation.PlatformOther
	}

	keywords := uniqueKeywords(group)
	return UnfinishedProject{
		ID:                   ProjectID(conv.ID, index, group[0].Start),
		Title:                projectTitle(conv.Title, group),
		Description:          projectDescription(group),
		SourceConversationID: conv.ID,
		SourcePlatform:       platform,
		DetectedAt:           detected,
		Confidence:           confidence,
		KeywordsFound:        keywords,
		Tags:                 ExtractTags(conv.Platform, keywords),
		Context:              joinContexts(group),
		Metadata:             map[string]any{},
	}
}

// ProjectID derives a stable 12-character identifier from a conversation
// id, a group ordinal and the group's first match offset.
func ProjectID(conversationID string, index, firstStart int) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s_%d_%d", conversationID, index, firstStart)))
	return hex.EncodeToString(sum[:])[:12]
}

// projectTitle picks the first sentence of the first context that mentions
// one of the first two keywords and is long enough to read as a title.
func projectTitle(convTitle string, group MatchGroup) string {
	leadKeywords := make([]string, 0, 2)
	for _, m := range group[:min(2, len(group))] {
		leadKeywords = append(leadKeywords, strings.ToLower(m.Keyword))
	}

	for _, sentence := range sentenceBreak.Split(group[0].Context, -1) {
		lower := strings.ToLower(sentence)
		if !containsAny(lower, leadKeywords) {
			continue
		}
		title, _ := truncateRunes(strings.TrimSpace(sentence), maxTitleLen)
		if utf8.RuneCountInString(title) > minTitleLen {
			return title
		}
	}

	if convTitle != "" {
		return convTitle + " - " + group[0].Keyword
	}
	return "Unfinished Project: " + group[0].Keyword
}

// projectDescription joins the first contexts, skipping exact repeats.
func projectDescription(group MatchGroup) string {
	var contexts []string
	seen := make(map[string]struct{}, maxContexts)
	for _, m := range group[:min(maxContexts, len(group))] {
		if _, dup := seen[m.Context]; dup {
			continue
		}
		seen[m.Context] = struct{}{}
		contexts = append(contexts, m.Context)
	}

	desc, truncated := truncateRunes(strings.Join(contexts, "\n\n"), maxDescriptionLen)
	if truncated {
		desc += "..."
	}
	return desc
}

func joinContexts(group MatchGroup) string {
	contexts := make([]string, 0, maxContexts)
	for _, m := range group[:min(maxContexts, len(group))] {
		contexts = append(contexts, m.Context)
	}
	return strings.Join(contexts, "\n\n")
}

// uniqueKeywords returns the group's keywords in first-seen order.
func uniqueKeywords(group MatchGroup) []string {
	out := make([]string, 0, len(group))
	seen := make(map[string]struct{}, len(group))
	for _, m := range group {
		if _, ok := seen[m.Keyword]; ok {
			continue
		}
		seen[m.Keyword] = struct{}{}
		out = append(out, m.Keyword)
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
