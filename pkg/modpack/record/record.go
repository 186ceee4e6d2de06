// Package record writes version.json, the small build record the release
// page publishes alongside the archive.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// FileName is the default record file name.
	FileName = "version.json"

	// OffsetLabel is appended to every build date.
	OffsetLabel = "(UTC+8)"

	dateLayout = "2006-01-02 15:04:05"
)

// Zone is the fixed +8 hour offset build dates are reported in.
var Zone = time.FixedZone("UTC+8", 8*60*60)

// Record is the content of version.json.
type Record struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
}

// New returns the record for a build of version finished at now.
func New(version string, now time.Time) Record {
	return Record{
		Version:   version,
		BuildDate: FormatDate(now),
	}
}

// FormatDate renders t as "YYYY-MM-DD HH:MM:SS (UTC+8)".
func FormatDate(t time.Time) string {
	return t.In(Zone).Format(dateLayout) + " " + OffsetLabel
}

// Write stores r at path as indented JSON. Non-ASCII text is kept as is.
func Write(path string, r Record) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding version record: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating version record directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing version record: %w", err)
	}
	return nil
}

// Read loads a record from path.
func Read(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading version record: %w", err)
	}

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing version record: %w", err)
	}
	return &r, nil
}
