package cmd

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theirongolddev/tally/internal/config"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/pipeline"
)

func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TALLY_DATA_DIR", "")
	t.Setenv("TALLY_BACKEND", "")
	t.Setenv("TALLY_LOG_LEVEL", "")
	return t.TempDir()
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func records(t *testing.T, dir, backend string) []model.Record {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.General.DataDir = dir
	cfg.General.Backend = backend
	res, err := pipeline.Load(cfg, nil)
	require.NoError(t, err)
	defer func() { _ = res.Close() }()
	return res.Store.List()
}

func TestRecordLifecycleThroughCommands(t *testing.T) {
	dir := isolate(t)

	require.NoError(t, run(t, "add", "-q", "-d", dir, "-b", "sqlite",
		"--date", "2024-03-01", "--category", "Groceries", "--price", "12,50", "--note", "market"))

	got := records(t, dir, "sqlite")
	require.Len(t, got, 1)
	assert.Equal(t, "Groceries", got[0].Category)
	assert.True(t, got[0].Price.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, got[0].Date.Equal(model.NewDate(2024, 3, 1)))
	id := strconv.FormatInt(got[0].ID, 10)

	require.NoError(t, run(t, "edit", "-q", "-d", dir, "-b", "sqlite", id, "--price", "14"))
	got = records(t, dir, "sqlite")
	require.Len(t, got, 1)
	assert.True(t, got[0].Price.Equal(decimal.NewFromInt(14)))
	assert.Equal(t, "market", got[0].Note)

	require.NoError(t, run(t, "rm", "-q", "-d", dir, "-b", "sqlite", id))
	assert.Empty(t, records(t, dir, "sqlite"))
}

func TestEditUnknownIDFails(t *testing.T) {
	dir := isolate(t)
	err := run(t, "edit", "-q", "-d", dir, "-b", "file", "42", "--note", "x")
	assert.Error(t, err)
}

func TestImportAppendsLegacyDump(t *testing.T) {
	dir := isolate(t)
	dump := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, os.WriteFile(dump, []byte(`[
		{"date":"2024-01-05T10:00:00Z","category":"Fun","price":"3,5","note":""},
		{"date":"2024-01-06","category":"","price":"2"},
		{"date":"2024-01-06","category":"Car","price":20}
	]`), 0o600))

	require.NoError(t, run(t, "import", "-q", "-d", dir, "-b", "bolt", dump))

	got := records(t, dir, "bolt")
	require.Len(t, got, 2)
	assert.Equal(t, "Fun", got[0].Category)
	assert.Equal(t, "Car", got[1].Category)
	assert.NotEqual(t, got[0].ID, got[1].ID)
}

func TestExportWritesIntoOutDir(t *testing.T) {
	dir := isolate(t)
	out := t.TempDir()
	require.NoError(t, run(t, "add", "-q", "-d", dir, "-b", "file",
		"--category", "Fun", "--price", "1"))

	require.NoError(t, run(t, "export", "-q", "-d", dir, "-b", "file", "--out", out))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".csv", filepath.Ext(entries[0].Name()))
}

func TestClearWithYesSkipsPrompt(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, run(t, "add", "-q", "-d", dir, "-b", "file",
		"--category", "Fun", "--price", "1"))

	require.NoError(t, run(t, "clear", "-q", "-d", dir, "-b", "file", "--yes"))
	assert.Empty(t, records(t, dir, "file"))
}

func TestUnknownBackendRejected(t *testing.T) {
	dir := isolate(t)
	err := run(t, "list", "-d", dir, "-b", "postgres")
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	for _, bad := range []string{"", "abc", "0", "-3", "1.5"} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
	id, err := parseID("1789")
	require.NoError(t, err)
	assert.Equal(t, int64(1789), id)
}
