package extraction

import (
	"fmt"
	"regexp"

	"github.com/BurntSushi/toml"
)

// Pattern is a named detection rule.
type Pattern struct {
	Name  string `toml:"name" json:"name"`
	Regex string `toml:"regex" json:"regex"`
}

// DefaultRules returns the built-in detection rules.
func DefaultRules() []Pattern {
	return []Pattern{
		// Code markers
		{Name: "todo", Regex: `\bTODO\b`},
		{Name: "fixme", Regex: `\bFIXME\b`},
		{Name: "xxx", Regex: `\bXXX\b`},
		{Name: "hack", Regex: `\bHACK\b`},

		// Stated intent
		{Name: "need_to", Regex: `\bneed to\b`},
		{Name: "needs_to", Regex: `\bneeds to\b`},
		{Name: "should_action", Regex: `\bshould\s+(?:implement|add|create|build|fix|complete|finish)`},
		{Name: "next_steps", Regex: `\bnext steps?\b`},
		{Name: "to_do", Regex: `\bto do\b`},
		{Name: "not_yet", Regex: `\bnot\s+(?:yet|done|complete|finished)`},
		{Name: "still", Regex: `\bstill\s+(?:need|have|working)`},
		{Name: "will_action", Regex: `\bwill\s+(?:implement|add|create|build|fix|complete)`},
		{Name: "planning_to", Regex: `\bplanning to\b`},
		{Name: "going_to", Regex: `\bgoing to\b`},
		{Name: "intend_to", Regex: `\bintend to\b`},

		// Status words
		{Name: "unfinished", Regex: `\bunfinished\b`},
		{Name: "incomplete", Regex: `\bincomplete\b`},
		{Name: "work_in_progress", Regex: `\bwork in progress\b`},
		{Name: "wip", Regex: `\bWIP\b`},
		{Name: "partially", Regex: `\bpartially\s+(?:done|complete|implemented)`},
		{Name: "missing", Regex: `\bmissing\b`},
		{Name: "not_implemented", Regex: `\bnot implemented\b`},
		{Name: "not_done", Regex: `\bnot done\b`},
	}
}

// DefaultPatterns returns the regular expressions of DefaultRules.
func DefaultPatterns() []string {
	return Regexes(DefaultRules())
}

// Regexes returns the regular expression of each rule.
func Regexes(rules []Pattern) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.Regex
	}
	return out
}

// CompilePatterns compiles each pattern case-insensitively. An empty list
// compiles the default rules.
func CompilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns()
	}

	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, &InvalidPatternError{Index: i, Pattern: p, Err: err}
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// patternFile is the TOML layout of a pattern pack:
//
//	[[pattern]]
//	name = "todo"
//	regex = '\bTODO\b'
type patternFile struct {
	Patterns []Pattern `toml:"pattern"`
}

// LoadPatternFile reads a TOML pattern pack. Every rule is compiled so a
// broken pack fails here rather than at analysis time.
func LoadPatternFile(path string) ([]Pattern, error) {
	var file patternFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("loading pattern file %s: %w", path, err)
	}
	if len(file.Patterns) == 0 {
		return nil, fmt.Errorf("pattern file %s: no [[pattern]] entries", path)
	}

	for i, p := range file.Patterns {
		if p.Regex == "" {
			return nil, fmt.Errorf("pattern file %s: entry %d (%q) has no regex", path, i, p.Name)
		}
		if p.Name == "" {
			file.Patterns[i].Name = fmt.Sprintf("pattern_%d", i+1)
		}
	}
	if _, err := CompilePatterns(Regexes(file.Patterns)); err != nil {
		return nil, fmt.Errorf("pattern file %s: %w", path, err)
	}
	return file.Patterns, nil
}
