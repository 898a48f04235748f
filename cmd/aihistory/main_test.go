package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/aihistory/internal/config"
	"github.com/fyrsmithlabs/aihistory/internal/export"
	"github.com/fyrsmithlabs/aihistory/internal/logging"
)

const claudeExport = `[
  {
    "uuid": "billing",
    "name": "Billing",
    "updated_at": "2024-03-20T10:00:00Z",
    "chat_messages": [
      {
        "sender": "human",
        "text": "I started the billing service but still need to implement the invoice export. TODO: add retries to the webhook client."
      }
    ]
  },
  {
    "uuid": "smalltalk",
    "name": "Weather",
    "chat_messages": [
      {"sender": "human", "text": "What is the weather like on Mars?"}
    ]
  }
]`

const billingTitle = "I started the billing service but still need to implement the invoice export"

// setup isolates the test from any config.yaml in the working directory
// and writes the Claude fixture.
func setup(t *testing.T) (dir, input string) {
	t.Helper()
	dir = t.TempDir()
	t.Chdir(dir)
	input = filepath.Join(dir, "claude.json")
	require.NoError(t, os.WriteFile(input, []byte(claudeExport), 0o644))
	return dir, input
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestAnalyze_Summary(t *testing.T) {
	_, input := setup(t)

	out, _, err := execute(t, "analyze", "-i", input, "-p", "claude")
	require.NoError(t, err)

	assert.Contains(t, out, "Analyzing 2 conversations...")
	assert.Contains(t, out, "Found 1 unfinished projects")
	assert.Contains(t, out, "=== Analysis Summary ===")
	assert.Contains(t, out, "Platform: claude")
	assert.Contains(t, out, "Conversations Analyzed: 2")
	assert.Contains(t, out, "Unfinished Projects Found: 1")
	assert.Contains(t, out, "1. "+billingTitle)
	assert.Contains(t, out, "Confidence: 1.00")
}

func TestAnalyze_JSONExport(t *testing.T) {
	dir, input := setup(t)
	target := filepath.Join(dir, "out", "results.json")

	out, _, err := execute(t, "analyze", "-i", input, "-p", "claude", "-o", target)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Exported to "+target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)

	var doc struct {
		Platform string `json:"platform"`
		Projects []struct {
			ID       string   `json:"id"`
			Title    string   `json:"title"`
			Keywords []string `json:"keywords_found"`
		} `json:"unfinished_projects"`
		Metadata map[string]any `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "claude", doc.Platform)
	require.Len(t, doc.Projects, 1)
	assert.Equal(t, "75103b1ac121", doc.Projects[0].ID)
	assert.Equal(t, billingTitle, doc.Projects[0].Title)
	assert.Equal(t, "unfinished_projects", doc.Metadata["analyzer"])
	assert.NotContains(t, doc.Metadata, "secrets_redacted")
}

func TestAnalyze_ObsidianShortcut(t *testing.T) {
	dir, input := setup(t)
	vault := filepath.Join(dir, "vault")

	_, stderr, err := execute(t, "analyze", "-i", input, "-p", "claude", "--obsidian", "--obsidian-path", vault)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Creating: "+vault)

	assert.FileExists(t, filepath.Join(vault, export.DefaultFolder, export.IndexFilename))
}

func TestAnalyze_ObsidianWithoutVaultPrintsSummary(t *testing.T) {
	dir, input := setup(t)
	t.Setenv("HOME", dir)

	out, _, err := execute(t, "analyze", "-i", input, "-p", "claude", "--obsidian")
	require.NoError(t, err)
	assert.Contains(t, out, "=== Analysis Summary ===")
	assert.NotContains(t, out, "Exported to")
	assert.NoDirExists(t, filepath.Join(dir, "Documents"))
}

func TestAnalyze_ObsidianVaultFromConfig(t *testing.T) {
	dir, input := setup(t)
	vault := filepath.Join(dir, "vault")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("obsidian:\n  vault_path: "+vault+"\n"), 0o644))

	out, _, err := execute(t, "analyze", "-i", input, "-p", "claude", "--obsidian")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Exported to "+filepath.Join(vault, export.DefaultFolder, export.IndexFilename))
}

func TestAnalyze_ObsidianFolderFromConfig(t *testing.T) {
	dir, input := setup(t)
	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("obsidian:\n  folder: Inbox\n"), 0o644))
	vault := t.TempDir()

	_, _, err := execute(t, "analyze", "-c", cfgPath, "-i", input, "-p", "claude", "-e", "obsidian", "-o", vault)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(vault, "Inbox", export.IndexFilename))
}

func TestAnalyze_Redact(t *testing.T) {
	dir, input := setup(t)
	target := filepath.Join(dir, "results.json")

	_, _, err := execute(t, "analyze", "-i", input, "-p", "claude", "-o", target, "--redact")
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	var doc struct {
		Metadata map[string]any `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, float64(0), doc.Metadata["secrets_redacted"])
}

func TestAnalyze_MetricsFile(t *testing.T) {
	dir, input := setup(t)
	metrics := filepath.Join(dir, "run.prom")

	_, _, err := execute(t, "analyze", "-i", input, "-p", "claude", "--metrics-file", metrics)
	require.NoError(t, err)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "aihistory_extraction_conversations_total 2")
	assert.Contains(t, string(data), "aihistory_extraction_projects_total 1")
}

func TestAnalyze_PatternFile(t *testing.T) {
	dir, input := setup(t)
	pack := filepath.Join(dir, "rules.toml")
	require.NoError(t, os.WriteFile(pack, []byte("[[pattern]]\nname = \"weather\"\nregex = '\\bweather\\b'\n"), 0o644))

	out, _, err := execute(t, "analyze", "-i", input, "-p", "claude", "--patterns", pack)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 0 unfinished projects")
}

func TestAnalyze_Errors(t *testing.T) {
	dir, input := setup(t)
	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{not json"), 0o644))

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "mismatched inputs",
			args:    []string{"analyze", "-i", input, "-i", input, "-p", "claude"},
			wantErr: "must match number of platforms",
		},
		{
			name:    "every input skipped",
			args:    []string{"analyze", "-i", broken, "-p", "claude"},
			wantErr: errNoConversations.Error(),
		},
		{
			name:    "unknown platform skipped",
			args:    []string{"analyze", "-i", input, "-p", "myspace"},
			wantErr: errNoConversations.Error(),
		},
		{
			name:    "unknown analyzer",
			args:    []string{"analyze", "-i", input, "-p", "claude", "-a", "sentiment"},
			wantErr: "sentiment",
		},
		{
			name:    "unknown analyzer before pattern file",
			args:    []string{"analyze", "-i", input, "-p", "claude", "-a", "sentiment", "--patterns", filepath.Join(dir, "none.toml")},
			wantErr: "unsupported analyzer",
		},
		{
			name:    "unknown exporter",
			args:    []string{"analyze", "-i", input, "-p", "claude", "-e", "csv", "-o", filepath.Join(dir, "x")},
			wantErr: "csv",
		},
		{
			name:    "missing config",
			args:    []string{"analyze", "-c", filepath.Join(dir, "none.yaml"), "-i", input, "-p", "claude"},
			wantErr: "config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAnalyze_SkipsBrokenInput(t *testing.T) {
	dir, input := setup(t)
	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{not json"), 0o644))

	out, _, err := execute(t, "analyze", "-i", broken, "-p", "chatgpt", "-i", input, "-p", "claude")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 unfinished projects")
}

func TestListUnfinished(t *testing.T) {
	_, input := setup(t)

	t.Run("table", func(t *testing.T) {
		out, _, err := execute(t, "list-unfinished", "-i", input, "-p", "claude")
		require.NoError(t, err)
		assert.Contains(t, out, "#    Title")
		assert.Contains(t, out, strings.Repeat("-", 90))
		assert.Contains(t, out, "1    I started the billing service but still need to...")
		assert.Contains(t, out, "claude")
	})

	t.Run("list", func(t *testing.T) {
		out, _, err := execute(t, "list-unfinished", "-i", input, "-p", "claude", "-f", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "1. "+billingTitle+" (Priority: ")
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := execute(t, "list-unfinished", "-i", input, "-p", "claude", "-f", "json")
		require.NoError(t, err)

		var items []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &items))
		require.Len(t, items, 1)
		assert.Equal(t, billingTitle, items[0]["title"])
		assert.Equal(t, "claude", items[0]["platform"])
		assert.Equal(t, 1.0, items[0]["confidence"])
		assert.Contains(t, items[0]["tags"], "claude")
	})

	t.Run("min priority filters everything", func(t *testing.T) {
		out, _, err := execute(t, "list-unfinished", "-i", input, "-p", "claude", "--min-priority", "1.1")
		require.NoError(t, err)
		assert.Equal(t, "No unfinished projects found\n", out)
	})

	t.Run("bad format", func(t *testing.T) {
		_, _, err := execute(t, "list-unfinished", "-i", input, "-p", "claude", "-f", "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unsupported format "xml"`)
	})
}

func TestInitConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, _, err := execute(t, "init-config")
	require.NoError(t, err)
	assert.Contains(t, out, "Created configuration file: config.yaml")

	cfg, err := config.LoadWithFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, _, err = execute(t, "init-config")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = execute(t, "init-config", "--force")
	require.NoError(t, err)
}

func TestPatterns(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, _, err := execute(t, "patterns")
	require.NoError(t, err)
	assert.Contains(t, out, "todo")
	assert.Contains(t, out, `\bTODO\b`)

	out, _, err = execute(t, "patterns", "--toml")
	require.NoError(t, err)
	assert.Contains(t, out, "[[pattern]]")

	pack := filepath.Join(dir, "rules.toml")
	require.NoError(t, os.WriteFile(pack, []byte(out), 0o644))
	out, _, err = execute(t, "patterns", "--patterns", pack)
	require.NoError(t, err)
	assert.Contains(t, out, "not_implemented")
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "Vault"), expandHome("~/Vault"))
	assert.Equal(t, home, expandHome("~"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path"))
	assert.Equal(t, "~user/x", expandHome("~user/x"))
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "short", shorten("short", 50))
	assert.Equal(t, "abcdefg...", shorten("abcdefghijklmnop", 10))
	assert.Equal(t, "ééééééé...", shorten(strings.Repeat("é", 20), 10))
}

func TestLoadConversations_LogsThroughContext(t *testing.T) {
	dir, input := setup(t)
	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{not json"), 0o644))

	tl := logging.NewTestLogger()
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	convs, err := loadConversations(ctx, &inputFlags{
		files:     []string{broken, input},
		platforms: []string{"claude", "claude"},
	})
	require.NoError(t, err)
	assert.Len(t, convs, 2)

	tl.AssertLogged(t, zapcore.WarnLevel, "skipping input")
	tl.AssertField(t, "skipping input", "input", broken)
	tl.AssertLogged(t, zapcore.DebugLevel, "parsed input")
}
