package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/aihistory/internal/config"
)

func newInitConfigCmd() *cobra.Command {
	var (
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Create a default configuration file",
		Long: `Write the default configuration, including the full keyword rule set,
to a YAML file. An existing file is kept unless --force is given.

Examples:
  aihistory init-config
  aihistory init-config -o ~/.config/aihistory/config.yaml --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteDefault(output, force); err != nil {
				if errors.Is(err, config.ErrConfigExists) {
					return fmt.Errorf("%s already exists (use --force to overwrite)", output)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", config.DefaultFile, "output path for the config file")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
