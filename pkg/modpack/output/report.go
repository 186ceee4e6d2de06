package output

import (
	"time"

	"github.com/jamesainslie/modpack/pkg/modpack/archive"
	"github.com/jamesainslie/modpack/pkg/modpack/modinfo"
	"github.com/jamesainslie/modpack/pkg/modpack/pipeline"
)

// BuildReport is the machine-readable form of a finished build.
type BuildReport struct {
	Version           string `json:"version" yaml:"version"`
	VersionFound      bool   `json:"version_found" yaml:"version_found"`
	Archive           string `json:"archive" yaml:"archive"`
	Size              int64  `json:"size" yaml:"size"`
	SizeHuman         string `json:"size_human" yaml:"size_human"`
	Entries           int    `json:"entries" yaml:"entries"`
	Files             int    `json:"files" yaml:"files"`
	UncompressedBytes int64  `json:"uncompressed_bytes" yaml:"uncompressed_bytes"`
	SHA256            string `json:"sha256" yaml:"sha256"`
	StagingRoot       string `json:"staging_root,omitempty" yaml:"staging_root,omitempty"`
	VersionRecord     string `json:"version_record,omitempty" yaml:"version_record,omitempty"`
	HistoryID         string `json:"history_id,omitempty" yaml:"history_id,omitempty"`
	Duration          string `json:"duration" yaml:"duration"`
}

// NewBuildReport converts a pipeline result. StagingRoot is only set when
// the staging tree was kept.
func NewBuildReport(r *pipeline.Result) BuildReport {
	report := BuildReport{
		Version:       r.Version,
		VersionFound:  r.VersionFound,
		Archive:       r.ArchivePath,
		VersionRecord: r.RecordPath,
		HistoryID:     r.HistoryID,
		Duration:      r.Duration.Round(time.Millisecond).String(),
	}
	if r.Archive != nil {
		report.Size = r.Archive.Size
		report.SizeHuman = FormatSize(r.Archive.Size)
		report.Entries = r.Archive.Entries
		report.Files = r.Archive.Files
		report.UncompressedBytes = r.Archive.Bytes
		report.SHA256 = r.Archive.SHA256
	}
	if r.StagingKept {
		report.StagingRoot = r.StagingRoot
	}
	return report
}

// EntryReport is a single archive entry.
type EntryReport struct {
	Name           string `json:"name" yaml:"name"`
	Dir            bool   `json:"dir,omitempty" yaml:"dir,omitempty"`
	Size           int64  `json:"size" yaml:"size"`
	CompressedSize int64  `json:"compressed_size" yaml:"compressed_size"`
}

// FieldReport is a modinfo.ini key/value pair. A slice keeps file order.
type FieldReport struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// ArchiveReport is the machine-readable form of an archive listing.
type ArchiveReport struct {
	Path       string        `json:"path" yaml:"path"`
	Files      int           `json:"files" yaml:"files"`
	TotalBytes int64         `json:"total_bytes" yaml:"total_bytes"`
	Entries    []EntryReport `json:"entries" yaml:"entries"`
	Modinfo    []FieldReport `json:"modinfo,omitempty" yaml:"modinfo,omitempty"`
}

// NewArchiveReport builds an ArchiveReport. info may be nil.
func NewArchiveReport(path string, entries []archive.Entry, info *modinfo.Record) ArchiveReport {
	report := ArchiveReport{
		Path:    path,
		Entries: make([]EntryReport, 0, len(entries)),
	}
	for _, e := range entries {
		report.Entries = append(report.Entries, EntryReport{
			Name:           e.Name,
			Dir:            e.IsDir,
			Size:           e.Size,
			CompressedSize: e.CompressedSize,
		})
		if !e.IsDir {
			report.Files++
			report.TotalBytes += e.Size
		}
	}
	if info != nil {
		for _, f := range info.Fields {
			report.Modinfo = append(report.Modinfo, FieldReport{Key: f.Key, Value: f.Value})
		}
	}
	return report
}
