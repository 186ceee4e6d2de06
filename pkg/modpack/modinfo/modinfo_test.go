package modinfo

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInfo(t *testing.T) Info {
	t.Helper()
	shot := filepath.Join(t.TempDir(), "assets", "screenshot.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(shot), 0o755))
	require.NoError(t, os.WriteFile(shot, []byte("\x89PNG\r\n\x1a\nfake"), 0o644))

	return Info{
		Name:        "Nest Rarity Locker",
		Description: "Locks nest rarity.",
		Author:      "Egg Targaryen, Someone Else",
		Screenshot:  shot,
		Category:    "Gameplay",
		Homepage:    "https://www.nexusmods.com/#",
	}
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	info := testInfo(t)
	dir := t.TempDir()

	rec, err := Generate(info, "1.2.3", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)

	want := "name=Nest Rarity Locker\n" +
		"description=Locks nest rarity.\n" +
		"author=Egg Targaryen, Someone Else\n" +
		"screenshot=cover.png\n" +
		"category=Gameplay\n" +
		"homepage=https://www.nexusmods.com/#\n" +
		"version=1.2.3\n"
	assert.Equal(t, want, string(data))
	assert.Equal(t, want, rec.String())

	cover, err := os.ReadFile(filepath.Join(dir, CoverFileName))
	require.NoError(t, err)
	src, err := os.ReadFile(info.Screenshot)
	require.NoError(t, err)
	assert.Equal(t, src, cover)
}

func TestGenerate_ScreenshotNeverLeaks(t *testing.T) {
	t.Parallel()

	info := testInfo(t)
	dir := t.TempDir()

	_, err := Generate(info, "1.0", dir)
	require.NoError(t, err)

	rec, err := ParseFile(filepath.Join(dir, FileName))
	require.NoError(t, err)

	shot, ok := rec.Get(KeyScreenshot)
	require.True(t, ok)
	assert.Equal(t, CoverFileName, shot)

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.NotContains(t, string(data), info.Screenshot)
}

func TestGenerate_VersionIsLast(t *testing.T) {
	t.Parallel()

	rec, err := Generate(testInfo(t), "Unknown", t.TempDir())
	require.NoError(t, err)

	require.Len(t, rec.Fields, 7)
	last := rec.Fields[len(rec.Fields)-1]
	assert.Equal(t, Field{KeyVersion, "Unknown"}, last)
}

func TestGenerate_MissingScreenshot(t *testing.T) {
	t.Parallel()

	info := testInfo(t)
	info.Screenshot = filepath.Join(t.TempDir(), "missing.png")
	dir := t.TempDir()

	_, err := Generate(info, "1.0", dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, statErr := os.Stat(filepath.Join(dir, FileName))
	assert.True(t, os.IsNotExist(statErr), "manifest must not be written without a cover")
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("order insensitive pairs", func(t *testing.T) {
		t.Parallel()

		rec, err := Parse(strings.NewReader("version=2.0\n\n; comment\n# another\nname = Mod \nhomepage=https://x/?a=b\n"))
		require.NoError(t, err)

		assert.Equal(t, map[string]string{
			"version":  "2.0",
			"name":     "Mod",
			"homepage": "https://x/?a=b",
		}, rec.Map())
	})

	t.Run("malformed line", func(t *testing.T) {
		t.Parallel()

		_, err := Parse(strings.NewReader("name=Mod\nnot a pair\n"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMalformedLine))
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("round trips generated record", func(t *testing.T) {
		t.Parallel()

		orig := NewRecord(Info{Name: "A", Author: "B, C", Screenshot: "ignored.png"}, "9")
		rec, err := Parse(strings.NewReader(orig.String()))
		require.NoError(t, err)
		assert.Equal(t, orig.Fields, rec.Fields)
	})
}
