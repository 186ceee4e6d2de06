package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/jamesainslie/modpack/pkg/modpack/archive"
	"github.com/jamesainslie/modpack/pkg/modpack/history"
	"github.com/jamesainslie/modpack/pkg/modpack/modinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"json", "yaml"}, Available())

	_, err := Get("xml")
	assert.ErrorContains(t, err, "unknown formatter: xml")

	r := NewRegistry()
	r.Register("json", func() Formatter { return &JSONFormatter{} })
	f, err := r.Get("json")
	require.NoError(t, err)
	assert.IsType(t, &JSONFormatter{}, f)
}

func TestJSONFormatter_BuildReport(t *testing.T) {
	r := testResult()
	r.RecordPath = "version.json"

	var buf bytes.Buffer
	f, err := Get("json")
	require.NoError(t, err)
	require.NoError(t, f.Format(&buf, NewBuildReport(r)))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "1.2.3", got["version"])
	assert.Equal(t, "NestRarityLocker_1.2.3.zip", got["archive"])
	assert.Equal(t, float64(2048), got["size"])
	assert.Equal(t, "2.0 KiB", got["size_human"])
	assert.Equal(t, "version.json", got["version_record"])
	assert.Equal(t, "1.5s", got["duration"])
	assert.NotContains(t, got, "staging_root")
	assert.NotContains(t, got, "history_id")
}

func TestNewBuildReport_StagingKept(t *testing.T) {
	r := testResult()
	r.StagingKept = true

	report := NewBuildReport(r)
	assert.Equal(t, ".temp", report.StagingRoot)
	assert.Equal(t, 3, report.Files)
	assert.Equal(t, int64(4096), report.UncompressedBytes)
}

func TestYAMLFormatter_ArchiveReport(t *testing.T) {
	entries := []archive.Entry{
		{Name: "modinfo.ini", Size: 120, CompressedSize: 90},
		{Name: "reframework/", IsDir: true},
	}
	info := modinfo.NewRecord(modinfo.Info{Name: "Nest Rarity Locker"}, "1.2.3")

	var buf bytes.Buffer
	f, err := Get("yaml")
	require.NoError(t, err)
	require.NoError(t, f.Format(&buf, NewArchiveReport("out.zip", entries, info)))

	var got ArchiveReport
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "out.zip", got.Path)
	assert.Equal(t, 1, got.Files)
	assert.Equal(t, int64(120), got.TotalBytes)
	require.Len(t, got.Entries, 2)
	assert.True(t, got.Entries[1].Dir)
	require.NotEmpty(t, got.Modinfo)
	assert.Equal(t, FieldReport{Key: modinfo.KeyName, Value: "Nest Rarity Locker"}, got.Modinfo[0])
	assert.Equal(t, FieldReport{Key: modinfo.KeyVersion, Value: "1.2.3"}, got.Modinfo[len(got.Modinfo)-1])
}

func TestYAMLFormatter_HistoryEntries(t *testing.T) {
	entries := []history.Entry{{
		ID:        "build-a",
		Timestamp: time.Date(2026, 10, 19, 4, 5, 6, 0, time.UTC),
		Version:   "1.2.3",
		Record:    "version.json",
	}}

	var buf bytes.Buffer
	require.NoError(t, (&YAMLFormatter{}).Format(&buf, entries))

	out := buf.String()
	assert.Contains(t, out, "id: build-a")
	assert.Contains(t, out, "version_record: version.json")
	assert.Contains(t, out, "total_files: 0")
}
