// Package extraction detects unfinished work in conversations using lexical
// pattern matching and ranks the findings as unfinished projects.
//
// # Architecture
//
// The pipeline runs once per conversation, then once over all findings:
//   - Patterns: case-insensitive regular expressions flagging indicators such
//     as "TODO", "need to" or "not implemented"
//   - LocateMatches: every rule hit with its span and a context window
//   - GroupMatches: clusters hits that sit close together in the text
//   - ScoreConfidence: volume, keyword diversity and action verbs, capped at 1
//   - synthesis: title, description, keywords, tags and a stable identifier
//     for each group at or above the confidence threshold
//   - Rank: priority from confidence, recency, keyword richness and context
//     volume, sorted descending
//
// All offsets are character (rune) offsets into conversation.Conversation.Text.
//
// # Usage
//
//	analyzer, err := extraction.NewAnalyzer("unfinished-projects", extraction.Config{
//	    MinConfidence: extraction.Threshold(0.6),
//	    Clock:         extraction.FixedClock(now),
//	})
//	if err != nil {
//	    return err
//	}
//	result, err := analyzer.Analyze(ctx, conversations)
//
// # Determinism
//
// Identical input and an identical Clock produce identical results: keywords
// and tags keep first-seen order and every sort is stable.
package extraction
