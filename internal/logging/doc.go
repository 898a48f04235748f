// Package logging provides structured logging for aihistory.
//
// # Overview
//
// Logging package wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - Context field injection (analysis run ID, input file)
//   - JSON or console encoding on stderr, keeping stdout free for reports
//
// # Usage
//
// Create logger from config:
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
// Log with context:
//
//	ctx = logging.WithRunID(ctx, runID)
//	ctx = logging.WithInput(ctx, "conversations.json")
//	logger.Warn(ctx, "skipping input", zap.Error(err))
//
// # Configuration Precedence
//
//  1. Defaults (NewDefaultConfig)
//  2. File (config.yaml, "logging" section)
//  3. Environment variables (AIHISTORY_LOGGING_*)
//  4. Command-line flag --verbose (raises the level to debug)
//
// # Testing
//
// Use TestLogger for test assertions:
//
//	tl := logging.NewTestLogger()
//	analyzer, _ := extraction.NewUnfinishedProjectsAnalyzer(extraction.Config{Logger: tl.Logger})
//	tl.AssertLogged(t, zapcore.InfoLevel, "analysis complete")
//
// Logger is safe for concurrent use. Child loggers (With, Named) are
// independent and do not affect parent or siblings.
package logging
