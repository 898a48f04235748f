package extraction

import (
	"sort"
	"strings"
)

// NameUnfinishedProjects is the canonical name of the unfinished projects
// analyzer.
const NameUnfinishedProjects = "unfinished_projects"

// analyzers maps every accepted name to its canonical name and constructor.
var analyzers = map[string]struct {
	canonical string
	build     func(Config) (Analyzer, error)
}{
	"unfinished":          {NameUnfinishedProjects, newUnfinished},
	"unfinished-projects": {NameUnfinishedProjects, newUnfinished},
	"unfinished_projects": {NameUnfinishedProjects, newUnfinished},
}

func newUnfinished(cfg Config) (Analyzer, error) {
	return NewUnfinishedProjectsAnalyzer(cfg)
}

// NewAnalyzer creates the analyzer registered under name. Unknown names
// return an *UnsupportedKindError before any configuration is inspected.
func NewAnalyzer(name string, cfg Config) (Analyzer, error) {
	entry, ok := analyzers[normalizeName(name)]
	if !ok {
		return nil, &UnsupportedKindError{Name: name}
	}
	return entry.build(cfg)
}

// CanonicalAnalyzerName maps any accepted alias to the canonical name used
// for configuration sections and result metadata.
func CanonicalAnalyzerName(name string) (string, error) {
	entry, ok := analyzers[normalizeName(name)]
	if !ok {
		return "", &UnsupportedKindError{Name: name}
	}
	return entry.canonical, nil
}

// AnalyzerNames lists every accepted analyzer name, sorted.
func AnalyzerNames() []string {
	names := make([]string, 0, len(analyzers))
	for name := range analyzers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
