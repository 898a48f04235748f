package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fyrsmithlabs/aihistory/internal/extraction"
)

// JSONFilename is written inside outputPath when it is a directory.
const JSONFilename = "analysis_results.json"

// isoLayout renders timestamps as ISO 8601 with microsecond precision.
const isoLayout = "2006-01-02T15:04:05.999999Z07:00"

// JSONExporter writes the result as one indented JSON document.
type JSONExporter struct{}

// Name implements Exporter.
func (e *JSONExporter) Name() string { return "json" }

type jsonResult struct {
	Platform              string         `json:"platform"`
	ConversationsAnalyzed int            `json:"conversations_analyzed"`
	AnalysisDate          string         `json:"analysis_date"`
	UnfinishedProjects    []jsonProject  `json:"unfinished_projects"`
	Metadata              map[string]any `json:"metadata"`
}

type jsonProject struct {
	ID                   string         `json:"id"`
	Title                string         `json:"title"`
	Description          string         `json:"description"`
	SourceConversationID string         `json:"source_conversation_id"`
	SourcePlatform       string         `json:"source_platform"`
	DetectedAt           *string        `json:"detected_at"`
	Confidence           float64        `json:"confidence"`
	PriorityScore        float64        `json:"priority_score"`
	KeywordsFound        []string       `json:"keywords_found"`
	Tags                 []string       `json:"tags"`
	Context              string         `json:"context"`
	Metadata             map[string]any `json:"metadata"`
}

// Export implements Exporter.
func (e *JSONExporter) Export(result *extraction.AnalysisResult, outputPath string, _ Options) (string, error) {
	if result == nil {
		return "", fmt.Errorf("json export: nil result")
	}

	target := outputPath
	if isDir(outputPath) {
		target = filepath.Join(outputPath, JSONFilename)
	}

	data, err := MarshalJSON(result)
	if err != nil {
		return "", err
	}
	if err := writeFile(target, data); err != nil {
		return "", err
	}
	return target, nil
}

// MarshalJSON renders result in the export layout. Empty lists and maps are
// written as [] and {} rather than null.
func MarshalJSON(result *extraction.AnalysisResult) ([]byte, error) {
	doc := jsonResult{
		Platform:              string(result.Platform),
		ConversationsAnalyzed: result.ConversationsAnalyzed,
		AnalysisDate:          formatISO(result.AnalysisDate),
		UnfinishedProjects:    make([]jsonProject, 0, len(result.UnfinishedProjects)),
		Metadata:              nonNilMap(result.Metadata),
	}

	for _, p := range result.UnfinishedProjects {
		jp := jsonProject{
			ID:                   p.ID,
			Title:                p.Title,
			Description:          p.Description,
			SourceConversationID: p.SourceConversationID,
			SourcePlatform:       string(p.SourcePlatform),
			Confidence:           p.Confidence,
			PriorityScore:        p.PriorityScore,
			KeywordsFound:        nonNilSlice(p.KeywordsFound),
			Tags:                 nonNilSlice(p.Tags),
			Context:              p.Context,
			Metadata:             nonNilMap(p.Metadata),
		}
		if p.DetectedAt != nil {
			s := formatISO(*p.DetectedAt)
			jp.DetectedAt = &s
		}
		doc.UnfinishedProjects = append(doc.UnfinishedProjects, jp)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding analysis result: %w", err)
	}
	return buf.Bytes(), nil
}

func formatISO(t time.Time) string {
	return t.Format(isoLayout)
}

func nonNilSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
