package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdash/internal/config"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	base := t.TempDir()
	return &config.Paths{
		ExecutableDir: base,
		DataDir:       filepath.Join(base, "data"),
		ReportsDir:    filepath.Join(base, "reports"),
		LogsDir:       filepath.Join(base, "logs"),
	}
}

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Strip BOM if present
	content := strings.TrimPrefix(string(data), "\xef\xbb\xbf")
	records, err := csv.NewReader(strings.NewReader(content)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteSimpleCSV(t *testing.T) {
	paths := testPaths(t)
	w := NewCSVWriter(paths)

	err := w.WriteSimpleCSV("out.csv", []string{"A", "B"}, [][]string{
		{"1", "2"},
		{"3", "4"},
	})
	require.NoError(t, err)

	fullPath := paths.GetReportPath("out.csv")

	// BOM prefix present for Excel compatibility
	raw, err := os.ReadFile(fullPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "\xef\xbb\xbf"))

	records := readCSVFile(t, fullPath)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"A", "B"}, records[0])
	assert.Equal(t, []string{"3", "4"}, records[2])
}

func TestWriteCSVAppend(t *testing.T) {
	paths := testPaths(t)
	w := NewCSVWriter(paths)

	require.NoError(t, w.WriteSimpleCSV("out.csv", []string{"A"}, [][]string{{"1"}}))
	require.NoError(t, w.AppendToCSV("out.csv", [][]string{{"2"}}))

	records := readCSVFile(t, paths.GetReportPath("out.csv"))
	require.Len(t, records, 3)
	assert.Equal(t, []string{"2"}, records[2])
}

func TestCSVWriterResolvesDataPrefix(t *testing.T) {
	paths := testPaths(t)
	w := NewCSVWriter(paths)

	err := w.WriteSimpleCSV("data/seed.csv", []string{"A"}, [][]string{{"1"}})
	require.NoError(t, err)

	_, err = os.Stat(paths.GetDataFilePath("seed.csv"))
	assert.NoError(t, err)
}

func TestStreamWriter(t *testing.T) {
	paths := testPaths(t)
	w := NewCSVWriter(paths)

	stream, err := w.CreateStreamWriter("stream.csv", []string{"A", "B"})
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		require.NoError(t, stream.WriteRecord([]string{"x", "y"}))
	}
	require.NoError(t, stream.Close())

	records := readCSVFile(t, paths.GetReportPath("stream.csv"))
	assert.Len(t, records, 101)
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "13.40", formatFloat(13.4))
	assert.Equal(t, "0.012345", formatReturn(0.0123452))
	assert.Equal(t, "42", formatInt(42))

	v := 0.5
	assert.Equal(t, "0.5000", formatNullableFloat(&v, 4))
	assert.Equal(t, "", formatNullableFloat(nil, 4))
}
