package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fyrsmithlabs/aihistory/internal/extraction"
	"github.com/fyrsmithlabs/aihistory/internal/sanitize"
)

// IndexFilename is the name of the index note.
const IndexFilename = "Unfinished Projects Index.md"

// Priority band thresholds.
const (
	HighPriority   = 0.7
	MediumPriority = 0.4
)

// ObsidianExporter writes an index note plus one note per project.
type ObsidianExporter struct{}

// Name implements Exporter.
func (e *ObsidianExporter) Name() string { return "obsidian" }

// Export implements Exporter. When outputPath is an existing directory it is
// treated as a vault and notes go into its Options.Folder subfolder;
// otherwise notes go next to outputPath. It returns the index note path.
func (e *ObsidianExporter) Export(result *extraction.AnalysisResult, outputPath string, opts Options) (string, error) {
	if result == nil {
		return "", fmt.Errorf("obsidian export: nil result")
	}

	dir := filepath.Dir(outputPath)
	if isDir(outputPath) {
		folder := opts.folder()
		if err := sanitize.ValidateFolder(folder); err != nil {
			return "", fmt.Errorf("obsidian folder: %w", err)
		}
		dir = filepath.Join(outputPath, folder)
	}

	names := noteNames(result.UnfinishedProjects)

	indexPath := filepath.Join(dir, IndexFilename)
	if err := writeFile(indexPath, []byte(renderIndex(result, names, opts))); err != nil {
		return "", err
	}

	for i, p := range result.UnfinishedProjects {
		notePath, err := sanitize.ValidatePath(filepath.Join(dir, names[i]+".md"), dir)
		if err != nil {
			return "", fmt.Errorf("note for project %s: %w", p.ID, err)
		}
		if err := writeFile(notePath, []byte(renderProject(p))); err != nil {
			return "", err
		}
	}
	return indexPath, nil
}

// noteNames assigns each project a filename stem. A stem already taken by
// an earlier project gets the project ID appended so no note is overwritten.
func noteNames(projects []extraction.UnfinishedProject) []string {
	names := make([]string, len(projects))
	used := make(map[string]bool, len(projects))
	for i, p := range projects {
		name := sanitize.Filename(p.Title, p.ID)
		if used[name] {
			name = name + "-" + p.ID
		}
		used[name] = true
		names[i] = name
	}
	return names
}

// Band returns the priority band marker for a score.
func Band(priority float64) string {
	switch {
	case priority >= HighPriority:
		return "🔴"
	case priority >= MediumPriority:
		return "🟡"
	default:
		return "🟢"
	}
}

func renderIndex(result *extraction.AnalysisResult, names []string, opts Options) string {
	var high, medium, low int
	for _, p := range result.UnfinishedProjects {
		switch {
		case p.PriorityScore >= HighPriority:
			high++
		case p.PriorityScore >= MediumPriority:
			medium++
		default:
			low++
		}
	}

	var b strings.Builder
	b.WriteString("# Unfinished Projects Index\n\n")
	fmt.Fprintf(&b, "*Generated: %s*\n\n", opts.now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Platform:** %s\n", titleCase(string(result.Platform)))
	fmt.Fprintf(&b, "**Conversations Analyzed:** %d\n", result.ConversationsAnalyzed)
	fmt.Fprintf(&b, "**Total Unfinished Projects:** %d\n\n", len(result.UnfinishedProjects))
	b.WriteString("---\n\n")

	b.WriteString("## Priority Summary\n\n")
	fmt.Fprintf(&b, "- **High Priority:** %d\n", high)
	fmt.Fprintf(&b, "- **Medium Priority:** %d\n", medium)
	fmt.Fprintf(&b, "- **Low Priority:** %d\n\n", low)
	b.WriteString("---\n\n")

	b.WriteString("## All Projects\n\n")
	for i, p := range result.UnfinishedProjects {
		fmt.Fprintf(&b, "### %d. %s [%s](%s.md)\n\n", i+1, Band(p.PriorityScore), p.Title, names[i])
		fmt.Fprintf(&b, "**Priority Score:** %.2f  \n", p.PriorityScore)
		fmt.Fprintf(&b, "**Confidence:** %.2f  \n", p.Confidence)
		fmt.Fprintf(&b, "**Platform:** %s  \n", p.SourcePlatform)
		detected := "Unknown"
		if p.DetectedAt != nil {
			detected = p.DetectedAt.Format("2006-01-02")
		}
		fmt.Fprintf(&b, "**Detected:** %s  \n", detected)
		if len(p.Tags) > 0 {
			fmt.Fprintf(&b, "**Tags:** %s  \n", hashtags(p.Tags))
		}
		fmt.Fprintf(&b, "\n%s...\n\n", prefixRunes(p.Description, 200))
		b.WriteString("---\n\n")
	}
	return b.String()
}

func renderProject(p extraction.UnfinishedProject) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Title)

	b.WriteString("## Metadata\n\n")
	fmt.Fprintf(&b, "- **ID:** `%s`\n", p.ID)
	fmt.Fprintf(&b, "- **Priority Score:** %.2f\n", p.PriorityScore)
	fmt.Fprintf(&b, "- **Confidence:** %.2f\n", p.Confidence)
	fmt.Fprintf(&b, "- **Platform:** %s\n", p.SourcePlatform)
	fmt.Fprintf(&b, "- **Source Conversation:** `%s`\n", p.SourceConversationID)
	detected := "Unknown"
	if p.DetectedAt != nil {
		detected = p.DetectedAt.Format("2006-01-02 15:04:05")
	}
	fmt.Fprintf(&b, "- **Detected:** %s\n", detected)
	if len(p.Tags) > 0 {
		fmt.Fprintf(&b, "- **Tags:** %s\n", hashtags(p.Tags))
	}
	b.WriteString("\n---\n\n")

	b.WriteString("## Description\n\n")
	fmt.Fprintf(&b, "%s\n\n", p.Description)

	if len(p.KeywordsFound) > 0 {
		b.WriteString("## Keywords Detected\n\n")
		for _, kw := range p.KeywordsFound {
			fmt.Fprintf(&b, "- `%s`\n", kw)
		}
		b.WriteString("\n")
	}

	if p.Context != "" {
		b.WriteString("## Context\n\n")
		b.WriteString("```\n")
		b.WriteString(p.Context)
		b.WriteString("\n```\n\n")
	}

	b.WriteString("## Links\n\n")
	fmt.Fprintf(&b, "- [Back to Index](%s)\n", IndexFilename)

	b.WriteString("\n---\n\n")
	b.WriteString("```yaml\n")
	b.WriteString("tags:\n")
	for _, tag := range p.Tags {
		fmt.Fprintf(&b, "  - %s\n", tag)
	}
	fmt.Fprintf(&b, "platform: %s\n", p.SourcePlatform)
	fmt.Fprintf(&b, "priority: %.2f\n", p.PriorityScore)
	fmt.Fprintf(&b, "confidence: %.2f\n", p.Confidence)
	b.WriteString("```\n")
	return b.String()
}

func hashtags(tags []string) string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = "#" + t
	}
	return strings.Join(out, ", ")
}

// titleCase upper-cases the first letter of a single-word name.
func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

func prefixRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
