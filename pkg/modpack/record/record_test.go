package record

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			name: "utc input shifts forward eight hours",
			in:   time.Date(2026, 3, 1, 10, 30, 45, 0, time.UTC),
			want: "2026-03-01 18:30:45 (UTC+8)",
		},
		{
			name: "crosses midnight",
			in:   time.Date(2025, 12, 31, 20, 0, 0, 0, time.UTC),
			want: "2026-01-01 04:00:00 (UTC+8)",
		},
		{
			name: "local offset is normalised",
			in:   time.Date(2026, 6, 1, 9, 0, 0, 0, time.FixedZone("UTC-5", -5*60*60)),
			want: "2026-06-01 22:00:00 (UTC+8)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FormatDate(tt.in))
		})
	}
}

func TestWrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "version.json")
	r := New("1.2.3", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, Write(path, r))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, 2)
	assert.Equal(t, "1.2.3", decoded["version"])
	assert.True(t, strings.HasSuffix(decoded["build_date"], "(UTC+8)"))
	assert.Contains(t, string(data), "\n    \"version\": \"1.2.3\"")

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, r, *got)
}

func TestWrite_KeepsNonASCII(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "version.json")
	require.NoError(t, Write(path, Record{Version: "1.0-β<rc>", BuildDate: "x"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "1.0-β<rc>")
}

func TestWrite_Unwritable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := Write(filepath.Join(blocker, "version.json"), New("1", time.Now()))
	assert.Error(t, err)
}
