// Package pipeline runs a complete mod build: stage the script, write the
// mod manager metadata, archive the staging tree, clean up and optionally
// record the version.
//
// Steps run strictly in order and the first failure stops the build.
// Files already written when a step fails stay on disk.
package pipeline

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/jamesainslie/modpack/pkg/modpack/archive"
	"github.com/jamesainslie/modpack/pkg/modpack/config"
	"github.com/jamesainslie/modpack/pkg/modpack/history"
	"github.com/jamesainslie/modpack/pkg/modpack/logging"
	"github.com/jamesainslie/modpack/pkg/modpack/modinfo"
	"github.com/jamesainslie/modpack/pkg/modpack/modversion"
	"github.com/jamesainslie/modpack/pkg/modpack/record"
	"github.com/jamesainslie/modpack/pkg/modpack/stage"
	"github.com/jamesainslie/modpack/pkg/modpack/workspace"
)

// Options are the per-run switches exposed on the command line.
type Options struct {
	// Debug keeps the staging tree and suppresses the version record.
	Debug bool

	// CreateVersionRecord writes version.json after archiving, unless Debug
	// is set.
	CreateVersionRecord bool
}

// WritesRecord reports whether a run with these options writes version.json.
func (o Options) WritesRecord() bool {
	return !o.Debug && o.CreateVersionRecord
}

// Result describes a finished build.
type Result struct {
	Version      string
	VersionFound bool
	ArchivePath  string
	Archive      *archive.Summary
	Manifest     *modinfo.Record
	StagingRoot  string
	StagingKept  bool
	RecordPath   string
	HistoryID    string
	Duration     time.Duration
}

// Pipeline builds a mod archive from a configuration.
type Pipeline struct {
	cfg     *config.Config
	baseDir string
	now     func() time.Time
	logger  *logging.Logger
	history *history.History
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithBaseDir resolves relative configured paths against dir instead of
// the working directory.
func WithBaseDir(dir string) Option {
	return func(p *Pipeline) {
		p.baseDir = dir
	}
}

// WithClock overrides the time source used for build dates.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *logging.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// WithHistory records every successful build in h.
func WithHistory(h *history.History) Option {
	return func(p *Pipeline) {
		p.history = h
	}
}

// New returns a pipeline for cfg.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:     cfg,
		baseDir: ".",
		now:     time.Now,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Workspace returns the staging workspace the pipeline builds in.
func (p *Pipeline) Workspace() *workspace.Workspace {
	return workspace.New(p.path(p.cfg.Paths.WorkDir), p.cfg.Paths.ModRoot, p.cfg.Paths.ModuleName)
}

func (p *Pipeline) path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.baseDir, rel)
}

// Run executes the build.
func (p *Pipeline) Run(opts Options) (*Result, error) {
	if err := p.cfg.Validate(p.baseDir); err != nil {
		return nil, err
	}

	start := p.now()
	paths := p.cfg.Paths
	ws := p.Workspace()

	if err := ws.Reset(); err != nil {
		return nil, fmt.Errorf("preparing workspace: %w", err)
	}
	p.logger.Debug("workspace ready", "root", ws.Root())

	staged, err := stage.Script(p.path(paths.Script), ws, paths.ScriptName)
	if err != nil {
		return nil, err
	}
	version := staged.Version
	if !staged.VersionFound {
		p.logger.Warn("no version declaration found in script, using fallback",
			"script", paths.Script, "version", version)
	}
	log := p.logger.With("version", version)
	log.Info("script staged", "bytes", len(staged.Content))

	info := modinfo.Info{
		Name:        p.cfg.Mod.Name,
		Description: p.cfg.Mod.Description,
		Author:      p.cfg.Mod.Author(),
		Screenshot:  p.path(p.cfg.Mod.Screenshot),
		Category:    p.cfg.Mod.Category,
		Homepage:    p.cfg.Mod.Homepage,
	}
	manifest, err := modinfo.Generate(info, version, ws.Root())
	if err != nil {
		return nil, fmt.Errorf("generating %s: %w", modinfo.FileName, err)
	}
	log.Debug("manifest written", "fields", len(manifest.Fields))

	fileVersion, sanitized := modversion.FileSafe(version)
	if sanitized {
		log.Warn("version contains characters not allowed in file names, archive name sanitized",
			"script", paths.Script, "archive_version", fileVersion)
	}
	archivePath := filepath.Join(p.path(paths.OutputDir), archive.FileName(paths.ArchivePrefix, fileVersion))
	summary, err := archive.Create(ws.Root(), archivePath)
	if err != nil {
		return nil, fmt.Errorf("creating archive: %w", err)
	}
	log.Info("archive written", "path", archivePath, "entries", summary.Entries, "size", summary.Size)

	if err := ws.Teardown(opts.Debug); err != nil {
		return nil, fmt.Errorf("cleaning up: %w", err)
	}
	if opts.Debug {
		log.Info("debug mode, staging tree kept", "root", ws.Root())
	}

	result := &Result{
		Version:      version,
		VersionFound: staged.VersionFound,
		ArchivePath:  archivePath,
		Archive:      summary,
		Manifest:     manifest,
		StagingRoot:  ws.Root(),
		StagingKept:  opts.Debug,
	}

	if opts.WritesRecord() {
		recordPath := p.path(paths.VersionRecord)
		if err := record.Write(recordPath, record.New(version, p.now())); err != nil {
			return nil, err
		}
		result.RecordPath = recordPath
		log.Info("version record written", "path", recordPath)
	}

	if p.history != nil {
		entry, err := p.history.Log(p.historyBuild(result, opts))
		if err != nil {
			// History is best effort.
			p.logger.Warn("could not record build history", "err", err)
		} else {
			result.HistoryID = entry.ID
		}
	}

	result.Duration = p.now().Sub(start)
	return result, nil
}

func (p *Pipeline) historyBuild(r *Result, opts Options) history.Build {
	b := history.Build{
		Version: r.Version,
		Archive: r.ArchivePath,
		Size:    r.Archive.Size,
		SHA256:  r.Archive.SHA256,
		Debug:   opts.Debug,
		Record:  r.RecordPath,
	}

	entries, err := archive.List(r.ArchivePath)
	if err != nil {
		p.logger.Warn("could not list archive for history", "err", err)
		return b
	}
	for _, e := range entries {
		if e.IsDir {
			continue
		}
		b.Files = append(b.Files, history.FileRecord{Path: e.Name, Size: e.Size})
	}
	return b
}
