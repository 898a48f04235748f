package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/aihistory/internal/export"
	"github.com/fyrsmithlabs/aihistory/internal/extraction"
	"github.com/fyrsmithlabs/aihistory/internal/logging"
	"github.com/fyrsmithlabs/aihistory/internal/secrets"
)

type analyzeOptions struct {
	inputs       inputFlags
	analyzer     string
	output       string
	exporter     string
	obsidian     bool
	obsidianPath string
	redact       bool
	patternFile  string
	metricsFile  string
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze chat history files",
		Long: `Analyze one or more chat history exports for unfinished projects.

Each --input needs a matching --platform in the same position. Without
--output a summary of the top projects is printed.

Examples:
  # Summarize a Claude export
  aihistory analyze -i claude.json -p claude

  # Combine exports and write JSON
  aihistory analyze -i chatgpt.json -p chatgpt -i gemini.json -p gemini -o results.json

  # Write notes into an Obsidian vault
  aihistory analyze -i claude.json -p claude --obsidian --obsidian-path ~/Vault`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, root, opts)
		},
	}

	opts.inputs.register(cmd)
	f := cmd.Flags()
	f.StringVarP(&opts.analyzer, "analyzer", "a", "unfinished-projects", "analyzer to use")
	f.StringVarP(&opts.output, "output", "o", "", "output path (file or directory)")
	f.StringVarP(&opts.exporter, "exporter", "e", "json", "exporter to use: "+strings.Join(export.Formats(), ", "))
	f.BoolVar(&opts.obsidian, "obsidian", false, "export to Obsidian (shortcut for --exporter obsidian)")
	f.StringVar(&opts.obsidianPath, "obsidian-path", "", "path to the Obsidian vault")
	f.BoolVar(&opts.redact, "redact", false, "redact secrets from exported projects")
	f.StringVar(&opts.patternFile, "patterns", "", "TOML pattern pack replacing the configured keywords")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write run metrics in Prometheus text format")
	return cmd
}

func runAnalyze(cmd *cobra.Command, root *rootOptions, opts *analyzeOptions) error {
	if err := opts.inputs.validate(); err != nil {
		return err
	}

	s, err := root.open()
	if err != nil {
		return err
	}
	defer s.close()

	ctx := logging.WithLogger(cmd.Context(), s.logger)
	out := cmd.OutOrStdout()

	if opts.patternFile != "" {
		s.cfg.Analysis.UnfinishedProjects.PatternFile = opts.patternFile
	}

	exporterName, output := opts.exporter, opts.output
	if opts.obsidian {
		exporterName = "obsidian"
		switch {
		case opts.obsidianPath != "":
			output = opts.obsidianPath
		case output == "" && s.cfg.Obsidian.VaultPath != "":
			output = expandHome(s.cfg.Obsidian.VaultPath)
		}
	}

	var exporter export.Exporter
	if output != "" {
		if exporter, err = export.NewExporter(exporterName); err != nil {
			return err
		}
	}

	analyzer, err := s.analyzer(opts.analyzer)
	if err != nil {
		return err
	}

	convs, err := loadConversations(ctx, &opts.inputs)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Analyzing %d conversations...\n", len(convs))
	result, err := analyzer.Analyze(ctx, convs)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	fmt.Fprintf(out, "Found %d unfinished projects\n", len(result.UnfinishedProjects))

	if opts.redact || s.cfg.Redaction.Enabled {
		redactor, err := secrets.NewRedactor(s.cfg.Redaction.AllowlistFile, s.logger)
		if err != nil {
			return err
		}
		summary := redactor.RedactProjects(ctx, result.UnfinishedProjects)
		result.Metadata["secrets_redacted"] = summary.Total
	}

	if exporter != nil {
		path, err := exportResult(cmd, s, exporter, result, output)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Exported to %s\n", path)
	} else {
		printSummary(out, result)
	}

	metricsFile := opts.metricsFile
	if metricsFile == "" {
		metricsFile = s.cfg.Metrics.Textfile
	}
	return s.writeMetrics(metricsFile)
}

// exportResult writes result with exporter. An Obsidian vault that does
// not exist yet is created.
func exportResult(cmd *cobra.Command, s *session, exporter export.Exporter, result *extraction.AnalysisResult, output string) (string, error) {
	if exporter.Name() == "obsidian" {
		if _, err := os.Stat(output); errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Obsidian path should be a directory. Creating: %s\n", output)
			if err := os.MkdirAll(output, 0o755); err != nil {
				return "", fmt.Errorf("failed to create vault directory: %w", err)
			}
		}
	}

	path, err := exporter.Export(result, output, export.Options{Folder: s.cfg.ObsidianFolder()})
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}
	return path, nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
