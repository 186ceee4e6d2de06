// Package archive compresses a staging tree into a zip file and reads it
// back.
package archive

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
)

// Extension is the archive file extension.
const Extension = ".zip"

var (
	// ErrEmptySource is returned when the directory to archive has no entries.
	ErrEmptySource = errors.New("nothing to archive")

	// ErrUnsafePath is returned by Extract for entries that would escape the
	// destination directory.
	ErrUnsafePath = errors.New("archive entry escapes destination")
)

// FileName returns the archive name for a build: <prefix>_<version>.zip.
func FileName(prefix, version string) string {
	return prefix + "_" + version + Extension
}

// Summary describes a written archive.
type Summary struct {
	Path    string
	Entries int
	Files   int
	// Bytes is the total uncompressed size of all files.
	Bytes int64
	// Size is the size of the archive itself.
	Size   int64
	SHA256 string
}

// Entry is a single item in an archive.
type Entry struct {
	Name           string
	IsDir          bool
	Size           int64
	CompressedSize int64
}

type walkedEntry struct {
	rel   string
	path  string
	isDir bool
}

// Create writes every file and directory under srcDir to a zip at
// destPath. Entry names are relative to srcDir, so srcDir itself is the
// archive's implicit top level. The archive is written to a temporary
// name and renamed into place once complete.
func Create(srcDir, destPath string) (*Summary, error) {
	entries, err := collect(srcDir)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrEmptySource, srcDir)
	}

	absSrc, err := filepath.Abs(srcDir)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", srcDir, err)
	}
	absDest, err := filepath.Abs(destPath)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", destPath, err)
	}
	if strings.HasPrefix(absDest, absSrc+string(filepath.Separator)) {
		return nil, fmt.Errorf("archive %q must not be inside %q", destPath, srcDir)
	}

	tmpPath := destPath + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("creating archive: %w", err)
	}

	hash := sha256.New()
	counter := &countingWriter{w: io.MultiWriter(out, hash)}
	summary := &Summary{Path: destPath}

	if err := writeEntries(counter, entries, summary); err != nil {
		_ = out.Close()
		_ = os.Remove(tmpPath)
		return nil, err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("closing archive: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("renaming archive into place: %w", err)
	}

	summary.Size = counter.n
	summary.SHA256 = hex.EncodeToString(hash.Sum(nil))
	return summary, nil
}

// collect walks srcDir and returns its entries sorted by archive name.
// fastwalk invokes the callback from several goroutines.
func collect(srcDir string) ([]walkedEntry, error) {
	info, err := os.Stat(srcDir)
	if err != nil {
		return nil, fmt.Errorf("reading staging tree: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("staging root %q is not a directory", srcDir)
	}

	var (
		mu      sync.Mutex
		entries []walkedEntry
	)

	conf := fastwalk.Config{
		Follow: false,
	}
	err = fastwalk.Walk(&conf, srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		if !d.IsDir() && !d.Type().IsRegular() {
			return fmt.Errorf("unsupported file type in staging tree: %s", rel)
		}

		mu.Lock()
		entries = append(entries, walkedEntry{
			rel:   filepath.ToSlash(rel),
			path:  path,
			isDir: d.IsDir(),
		})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking staging tree: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].rel < entries[j].rel
	})
	return entries, nil
}

func writeEntries(w io.Writer, entries []walkedEntry, summary *Summary) error {
	zw := zip.NewWriter(w)

	for _, e := range entries {
		info, err := os.Stat(e.path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", e.rel, err)
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return fmt.Errorf("creating header for %s: %w", e.rel, err)
		}

		if e.isDir {
			header.Name = e.rel + "/"
			header.Method = zip.Store
			if _, err := zw.CreateHeader(header); err != nil {
				return fmt.Errorf("adding %s: %w", e.rel, err)
			}
			summary.Entries++
			continue
		}

		header.Name = e.rel
		header.Method = zip.Deflate
		dst, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("adding %s: %w", e.rel, err)
		}

		n, err := copyFrom(dst, e.path)
		if err != nil {
			return fmt.Errorf("compressing %s: %w", e.rel, err)
		}
		summary.Entries++
		summary.Files++
		summary.Bytes += n
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}
	return nil
}

func copyFrom(dst io.Writer, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return io.Copy(dst, f)
}

// List returns the entries of the archive at path in stored order.
func List(path string) ([]Entry, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer r.Close()

	entries := make([]Entry, 0, len(r.File))
	for _, f := range r.File {
		entries = append(entries, Entry{
			Name:           f.Name,
			IsDir:          f.FileInfo().IsDir(),
			Size:           int64(f.UncompressedSize64),
			CompressedSize: int64(f.CompressedSize64),
		})
	}
	return entries, nil
}

// ReadFile returns the contents of a single archive entry.
func ReadFile(path, name string) ([]byte, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer r.Close()

	rc, err := r.Open(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// Extract unpacks the archive at path into dest, creating it if needed.
func Extract(path, dest string) error {
	r, err := zip.OpenReader(path)
	if errors.Is(err, zip.ErrInsecurePath) {
		_ = r.Close()
		return fmt.Errorf("%w: %v", ErrUnsafePath, err)
	}
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer r.Close()

	absDest, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("resolving %q: %w", dest, err)
	}
	if err := os.MkdirAll(absDest, 0o755); err != nil {
		return fmt.Errorf("creating %q: %w", dest, err)
	}

	for _, f := range r.File {
		target := filepath.Join(absDest, filepath.FromSlash(f.Name))
		if target != absDest && !strings.HasPrefix(target, absDest+string(filepath.Separator)) {
			return fmt.Errorf("%w: %s", ErrUnsafePath, f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", f.Name, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("creating parent of %s: %w", f.Name, err)
		}
		if err := extractFile(f, target); err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
