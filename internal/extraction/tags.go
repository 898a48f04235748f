package extraction

import (
	"strings"

	"github.com/fyrsmithlabs/aihistory/internal/conversation"
)

// TagRule assigns Tag when the matched keyword text contains any of Terms.
type TagRule struct {
	Tag   string
	Terms []string
}

// DefaultTagRules are applied in order; each tag is added at most once.
var DefaultTagRules = []TagRule{
	{Tag: "implementation", Terms: []string{"implement", "create"}},
	{Tag: "bugfix", Terms: []string{"fix", "bug"}},
	{Tag: "feature", Terms: []string{"add", "feature"}},
}

// ExtractTags returns the platform tag, when known, followed by the tags of
// every rule whose terms occur in the lowercased keywords.
func ExtractTags(platform conversation.Platform, keywords []string) []string {
	tags := make([]string, 0, len(DefaultTagRules)+1)
	if platform != "" {
		tags = append(tags, platform.String())
	}

	text := strings.ToLower(strings.Join(keywords, " "))
	for _, rule := range DefaultTagRules {
		for _, term := range rule.Terms {
			if strings.Contains(text, term) {
				tags = appendUnique(tags, rule.Tag)
				break
			}
		}
	}
	return tags
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
