package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledger/internal/commands"
	"github.com/cleared-dev/ledger/internal/config"
	"github.com/cleared-dev/ledger/internal/journal"
)

func runLedger(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	out, err := runLedger(t, "init", dir, "--name", "My Company")
	require.NoError(t, err)
	assert.Contains(t, out, `Initialized ledger "My Company"`)

	data, err := os.ReadFile(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: My Company")
	assert.Contains(t, contents, "currency: USD")
	assert.Contains(t, contents, "- journal.csv")

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestInit_Journal(t *testing.T) {
	dir := t.TempDir()
	_, err := runLedger(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "journal.csv"))
	require.NoError(t, err)
	assert.Equal(t, journal.Header+"\n", string(data))
}

func TestInit_Currency(t *testing.T) {
	dir := t.TempDir()
	_, err := runLedger(t, "init", dir, "--name", "Euro Co", "--currency", "eur")
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.Ledger.Currency)
}

func TestInit_UnknownCurrency(t *testing.T) {
	dir := t.TempDir()
	_, err := runLedger(t, "init", dir, "--name", "X", "--currency", "ZZZ")
	require.Error(t, err)

	_, err = os.Stat(filepath.Join(dir, config.FileName))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestInit_RequiresName(t *testing.T) {
	dir := t.TempDir()
	_, err := runLedger(t, "init", dir)
	require.Error(t, err, "init without --name should fail")
}

func TestInit_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	_, err := runLedger(t, "init", dir, "--name", "First")
	require.NoError(t, err)

	_, err = runLedger(t, "init", dir, "--name", "Second")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "First", cfg.Ledger.Name)
}

func TestInit_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "books", "2025")
	_, err := runLedger(t, "init", dir, "--name", "Nested")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, config.FileName))
	assert.NoError(t, err)
}
