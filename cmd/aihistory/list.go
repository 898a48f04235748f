package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/aihistory/internal/extraction"
	"github.com/fyrsmithlabs/aihistory/internal/logging"
)

var listFormats = []string{"table", "list", "json"}

type listOptions struct {
	inputs      inputFlags
	minPriority float64
	format      string
}

func newListCmd(root *rootOptions) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list-unfinished",
		Short: "List unfinished projects from chat histories",
		Long: `List unfinished projects found in one or more chat history exports.

Examples:
  # Table of everything found
  aihistory list-unfinished -i claude.json -p claude

  # Only high-priority projects, as JSON
  aihistory list-unfinished -i claude.json -p claude --min-priority 0.7 -f json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, root, opts)
		},
	}

	opts.inputs.register(cmd)
	cmd.Flags().Float64Var(&opts.minPriority, "min-priority", 0, "minimum priority score to show")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "output format: "+strings.Join(listFormats, ", "))
	return cmd
}

func runList(cmd *cobra.Command, root *rootOptions, opts *listOptions) error {
	if err := opts.inputs.validate(); err != nil {
		return err
	}
	if !slices.Contains(listFormats, opts.format) {
		return fmt.Errorf("unsupported format %q (want one of %s)", opts.format, strings.Join(listFormats, ", "))
	}

	s, err := root.open()
	if err != nil {
		return err
	}
	defer s.close()

	ctx := logging.WithLogger(cmd.Context(), s.logger)

	analyzer, err := s.analyzer(extraction.NameUnfinishedProjects)
	if err != nil {
		return err
	}
	convs, err := loadConversations(ctx, &opts.inputs)
	if err != nil {
		return err
	}
	result, err := analyzer.Analyze(ctx, convs)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	var projects []extraction.UnfinishedProject
	for _, p := range result.UnfinishedProjects {
		if p.PriorityScore >= opts.minPriority {
			projects = append(projects, p)
		}
	}

	out := cmd.OutOrStdout()
	if len(projects) == 0 {
		fmt.Fprintln(out, "No unfinished projects found")
		return nil
	}

	switch opts.format {
	case "json":
		return writeProjectsJSON(out, projects)
	case "list":
		for i, p := range projects {
			fmt.Fprintf(out, "%d. %s (Priority: %.2f)\n", i+1, p.Title, p.PriorityScore)
		}
	default:
		writeProjectsTable(out, projects)
	}
	return nil
}

type listItem struct {
	Title      string   `json:"title"`
	Priority   float64  `json:"priority"`
	Confidence float64  `json:"confidence"`
	Platform   string   `json:"platform"`
	Tags       []string `json:"tags"`
}

func writeProjectsJSON(w io.Writer, projects []extraction.UnfinishedProject) error {
	items := make([]listItem, len(projects))
	for i, p := range projects {
		tags := p.Tags
		if tags == nil {
			tags = []string{}
		}
		items[i] = listItem{
			Title:      p.Title,
			Priority:   p.PriorityScore,
			Confidence: p.Confidence,
			Platform:   p.SourcePlatform.String(),
			Tags:       tags,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encoding projects: %w", err)
	}
	return nil
}

func writeProjectsTable(w io.Writer, projects []extraction.UnfinishedProject) {
	fmt.Fprintf(w, "\n%-4s %-50s %-10s %-10s %-10s\n", "#", "Title", "Priority", "Confidence", "Platform")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for i, p := range projects {
		fmt.Fprintf(w, "%-4d %-50s %-10.2f %-10.2f %-10s\n",
			i+1, shorten(p.Title, 50), p.PriorityScore, p.Confidence, p.SourcePlatform)
	}
}
