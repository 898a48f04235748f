package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fyrsmithlabs/aihistory/internal/extraction"
)

// ErrUnsupportedFormat is returned by NewExporter for unknown names.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// DefaultFolder is the vault subfolder used by the obsidian exporter.
const DefaultFolder = "AI Projects"

// Exporter writes an AnalysisResult to outputPath and returns the path of
// the primary artifact it wrote.
type Exporter interface {
	Name() string
	Export(result *extraction.AnalysisResult, outputPath string, opts Options) (string, error)
}

// Options tunes an export.
type Options struct {
	// Folder is the vault subfolder for obsidian exports into a directory.
	Folder string

	// Now stamps generated documents; zero means the current time.
	Now time.Time
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

func (o Options) folder() string {
	if o.Folder == "" {
		return DefaultFolder
	}
	return o.Folder
}

var exporters = map[string]func() Exporter{
	"json":     func() Exporter { return &JSONExporter{} },
	"obsidian": func() Exporter { return &ObsidianExporter{} },
}

// NewExporter returns the exporter registered under name.
func NewExporter(name string) (Exporter, error) {
	ctor, ok := exporters[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnsupportedFormat, name, strings.Join(Formats(), ", "))
	}
	return ctor(), nil
}

// Formats lists the registered exporter names, sorted.
func Formats() []string {
	names := make([]string, 0, len(exporters))
	for name := range exporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// writeFile writes data, creating parent directories as needed.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
