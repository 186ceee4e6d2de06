// Package history keeps a record of completed builds on disk.
package history

import "time"

// Entry represents a single recorded build.
type Entry struct {
	ID        string       `json:"id" yaml:"id"`
	Timestamp time.Time    `json:"timestamp" yaml:"timestamp"`
	Version   string       `json:"version" yaml:"version"`
	Archive   string       `json:"archive" yaml:"archive"`
	Size      int64        `json:"size" yaml:"size"`
	SHA256    string       `json:"sha256" yaml:"sha256"`
	Debug     bool         `json:"debug" yaml:"debug"`
	Record    string       `json:"version_record,omitempty" yaml:"version_record,omitempty"`
	Files     []FileRecord `json:"files" yaml:"files"`
	Summary   Summary      `json:"summary" yaml:"summary"`
}

// FileRecord is a file packed into the archive.
type FileRecord struct {
	Path string `json:"path" yaml:"path"`
	Size int64  `json:"size" yaml:"size"`
}

// Summary totals the packed files.
type Summary struct {
	TotalFiles int64 `json:"total_files" yaml:"total_files"`
	TotalBytes int64 `json:"total_bytes" yaml:"total_bytes"`
}

// Build is what the pipeline reports about a finished build.
type Build struct {
	Version string
	Archive string
	Size    int64
	SHA256  string
	Debug   bool
	Record  string
	Files   []FileRecord
}
