package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/aihistory/internal/extraction"
)

func newPatternsCmd(root *rootOptions) *cobra.Command {
	var (
		patternFile string
		asTOML      bool
	)

	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Print the active detection rules",
		Long: `Print the detection rules the analyzer would use with the current
configuration. With --toml the rules are written as a pattern pack that
can be edited and passed back with --patterns.

Examples:
  aihistory patterns
  aihistory patterns --toml > rules.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.open()
			if err != nil {
				return err
			}
			defer s.close()

			if patternFile != "" {
				s.cfg.Analysis.UnfinishedProjects.PatternFile = patternFile
			}
			rules, err := s.cfg.Rules()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asTOML {
				pack := struct {
					Patterns []extraction.Pattern `toml:"pattern"`
				}{Patterns: rules}
				if err := toml.NewEncoder(out).Encode(pack); err != nil {
					return fmt.Errorf("encoding pattern pack: %w", err)
				}
				return nil
			}

			for _, r := range rules {
				fmt.Fprintf(out, "%-20s %s\n", r.Name, r.Regex)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&patternFile, "patterns", "", "TOML pattern pack to print instead of the configured keywords")
	cmd.Flags().BoolVar(&asTOML, "toml", false, "print as a TOML pattern pack")
	return cmd
}
