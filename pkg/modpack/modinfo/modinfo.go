// Package modinfo writes and reads modinfo.ini, the metadata file Fluffy Mod
// Manager reads from the root of a mod archive.
//
// The format is line-oriented key=value text. Consumers treat it as a set of
// pairs; line order carries no meaning, though Generate always writes the
// version last.
package modinfo

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// FileName is the manifest file name at the archive root.
	FileName = "modinfo.ini"

	// CoverFileName is the name the screenshot is copied to. The manifest's
	// screenshot key always points here.
	CoverFileName = "cover.png"
)

// Manifest keys, in the order Generate writes them.
const (
	KeyName        = "name"
	KeyDescription = "description"
	KeyAuthor      = "author"
	KeyScreenshot  = "screenshot"
	KeyCategory    = "category"
	KeyHomepage    = "homepage"
	KeyVersion     = "version"
)

// ErrMalformedLine is returned by Parse for a non-comment line without '='.
var ErrMalformedLine = errors.New("malformed modinfo line")

// Info is the mod metadata the manifest is generated from.
type Info struct {
	Name        string
	Description string
	Author      string

	// Screenshot is the path of the source image, not the staged copy.
	Screenshot string
	Category   string
	Homepage   string
}

// Field is a single key=value line.
type Field struct {
	Key   string
	Value string
}

// Record is an ordered manifest.
type Record struct {
	Fields []Field
}

// Get returns the value of the first field with the given key.
func (r *Record) Get(key string) (string, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Map returns the fields as a map. Later duplicates win.
func (r *Record) Map() map[string]string {
	m := make(map[string]string, len(r.Fields))
	for _, f := range r.Fields {
		m[f.Key] = f.Value
	}
	return m
}

// WriteTo writes the record as key=value lines.
func (r *Record) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, f := range r.Fields {
		written, err := fmt.Fprintf(w, "%s=%s\n", f.Key, f.Value)
		n += int64(written)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// String returns the record as it appears on disk.
func (r *Record) String() string {
	var sb strings.Builder
	_, _ = r.WriteTo(&sb)
	return sb.String()
}

// NewRecord builds the manifest for info at version. The screenshot value
// is replaced by CoverFileName.
func NewRecord(info Info, version string) *Record {
	return &Record{Fields: []Field{
		{KeyName, info.Name},
		{KeyDescription, info.Description},
		{KeyAuthor, info.Author},
		{KeyScreenshot, CoverFileName},
		{KeyCategory, info.Category},
		{KeyHomepage, info.Homepage},
		{KeyVersion, version},
	}}
}

// Generate copies the screenshot into dir as CoverFileName, then writes
// dir/modinfo.ini. The cover is copied first so the manifest never refers
// to a file that is not there. If the screenshot is missing nothing is
// written.
func Generate(info Info, version, dir string) (*Record, error) {
	if err := copyFile(info.Screenshot, filepath.Join(dir, CoverFileName)); err != nil {
		return nil, fmt.Errorf("copying cover image: %w", err)
	}

	rec := NewRecord(info, version)

	f, err := os.Create(filepath.Join(dir, FileName))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", FileName, err)
	}
	if _, err := rec.WriteTo(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("writing %s: %w", FileName, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("closing %s: %w", FileName, err)
	}

	return rec, nil
}

// Parse reads a manifest. Blank lines and lines starting with ';' or '#'
// are skipped. Values may contain '='; only the first one splits.
func Parse(r io.Reader) (*Record, error) {
	rec := &Record{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("%w at line %d: %q", ErrMalformedLine, lineNo, line)
		}
		rec.Fields = append(rec.Fields, Field{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}
	return rec, nil
}

// ParseFile reads the manifest at path.
func ParseFile(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
