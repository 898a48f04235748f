// Package export writes analysis results to disk.
//
// Two formats are registered:
//   - json: a single document mirroring extraction.AnalysisResult with
//     snake_case keys, ISO 8601 timestamps and null for unknown times
//   - obsidian: a folder of linked markdown notes, one index note with a
//     priority summary plus one note per project
//
// Exporters are looked up by name with NewExporter; unknown names fail with
// ErrUnsupportedFormat before anything is written.
package export
