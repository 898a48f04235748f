package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/aihistory/internal/conversation"
	"github.com/fyrsmithlabs/aihistory/internal/logging"
)

var errNoConversations = errors.New("no conversations found to analyze")

// inputFlags pairs each --input file with the --platform at the same position.
type inputFlags struct {
	files     []string
	platforms []string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.files, "input", "i", nil, "input export file (repeatable)")
	cmd.Flags().StringArrayVarP(&f.platforms, "platform", "p", nil,
		"platform of each input: "+platformList()+" (repeatable)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("platform")
}

func platformList() string {
	names := make([]string, 0, len(conversation.SupportedPlatforms()))
	for _, p := range conversation.SupportedPlatforms() {
		names = append(names, p.String())
	}
	return strings.Join(names, ", ")
}

func (f *inputFlags) validate() error {
	if len(f.files) != len(f.platforms) {
		return fmt.Errorf("number of input files (%d) must match number of platforms (%d)",
			len(f.files), len(f.platforms))
	}
	return nil
}

// loadConversations parses every input. An input that cannot be parsed is
// logged and skipped; having nothing left is an error.
func loadConversations(ctx context.Context, f *inputFlags) ([]conversation.Conversation, error) {
	logger := logging.FromContext(ctx)

	var all []conversation.Conversation
	for i, path := range f.files {
		inputCtx := logging.WithInput(ctx, path)

		adapter, err := conversation.NewAdapter(f.platforms[i])
		if err != nil {
			logger.Warn(inputCtx, "skipping input", zap.Error(err))
			continue
		}

		convs, err := conversation.ParseFile(adapter, path)
		if err != nil {
			logger.Warn(inputCtx, "skipping input", zap.Error(err))
			continue
		}

		logger.Debug(inputCtx, "parsed input",
			zap.String("platform", adapter.Platform().String()),
			zap.Int("conversations", len(convs)))
		all = append(all, convs...)
	}

	if len(all) == 0 {
		return nil, errNoConversations
	}
	return all, nil
}
