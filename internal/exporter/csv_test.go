package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSimpleCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	err := w.WriteSimpleCSV("out.csv",
		[]string{"MachineID", "TotalProduction"},
		[][]string{{"1", "10"}, {"2", "8"}})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)

	// UTF-8 BOM for Excel compatibility
	assert.True(t, strings.HasPrefix(string(data), "\xEF\xBB\xBF"))

	body := strings.TrimPrefix(string(data), "\xEF\xBB\xBF")
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "MachineID,TotalProduction", lines[0])
	assert.Equal(t, "1,10", lines[1])
}

func TestWriteCSVCreatesNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	err := w.WriteSimpleCSV(filepath.Join("nested", "deep", "out.csv"),
		[]string{"A"}, [][]string{{"1"}})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "nested", "deep", "out.csv"))
}

func TestAppendToCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	require.NoError(t, w.WriteSimpleCSV("out.csv", []string{"A"}, [][]string{{"1"}}))
	require.NoError(t, w.AppendToCSV("out.csv", [][]string{{"2"}}))

	data, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3)
}

func TestQuotingOfEmbeddedCommas(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	err := w.WriteSimpleCSV("out.csv",
		[]string{"OperatorName", "MachinesHandled"},
		[][]string{{"Alice", "1, 2, 10"}})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"1, 2, 10"`)
}

func TestResolvePathKeepsAbsolutePaths(t *testing.T) {
	w := NewCSVWriter("/reports")

	abs := filepath.Join(string(filepath.Separator), "tmp", "x.csv")
	assert.Equal(t, abs, w.resolvePath(abs))
	assert.Equal(t, filepath.Join("/reports", "x.csv"), w.resolvePath("x.csv"))
}
