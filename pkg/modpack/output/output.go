package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/modpack/pkg/modpack/archive"
	"github.com/jamesainslie/modpack/pkg/modpack/history"
	"github.com/jamesainslie/modpack/pkg/modpack/modinfo"
	"github.com/jamesainslie/modpack/pkg/modpack/pipeline"
)

// FormatSize renders a byte count using IEC units.
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}

func field(label, value string) string {
	return fmt.Sprintf("%s %s", LabelStyle.Render(label), value)
}

// Summary writes a framed summary of a finished build.
func Summary(w io.Writer, r *pipeline.Result) error {
	lines := []string{
		TitleStyle.Render("Build complete"),
		field("Version:", versionValue(r)),
		field("Archive:", ValueStyle.Render(r.ArchivePath)),
		field("Size:", fmt.Sprintf("%s %s",
			SizeStyle.Render(FormatSize(r.Archive.Size)),
			MutedStyle.Render(fmt.Sprintf("(%s in %d files)", FormatSize(r.Archive.Bytes), r.Archive.Files)))),
		field("SHA-256:", MutedStyle.Render(r.Archive.SHA256)),
	}

	if r.StagingKept {
		lines = append(lines, field("Staging:", WarningStyle.Render(r.StagingRoot+" (kept)")))
	}
	if r.RecordPath != "" {
		lines = append(lines, field("Record:", ValueStyle.Render(r.RecordPath)))
	}
	if r.HistoryID != "" {
		lines = append(lines, field("History:", MutedStyle.Render(r.HistoryID)))
	}
	lines = append(lines, field("Took:", MutedStyle.Render(r.Duration.Round(time.Millisecond).String())))

	_, err := fmt.Fprintln(w, SummaryBox.Render(strings.Join(lines, "\n")))
	return err
}

func versionValue(r *pipeline.Result) string {
	if r.VersionFound {
		return SuccessStyle.Render(r.Version)
	}
	return WarningStyle.Render(r.Version + " (no version declaration found)")
}

// Listing writes the contents of an archive and, when present, its parsed
// modinfo.ini.
func Listing(w io.Writer, path string, entries []archive.Entry, info *modinfo.Record) error {
	var total int64
	files := 0
	for _, e := range entries {
		if !e.IsDir {
			total += e.Size
			files++
		}
	}

	header := strings.Join([]string{
		field("Archive:", ValueStyle.Render(path)),
		field("Entries:", ValueStyle.Render(fmt.Sprintf("%d (%d files, %s)", len(entries), files, FormatSize(total)))),
	}, "\n")

	var sb strings.Builder
	sb.WriteString(HeaderBox.Render(header))
	sb.WriteString("\n")

	sizeWidth := 8
	for _, e := range entries {
		if n := len(FormatSize(e.Size)); n > sizeWidth {
			sizeWidth = n
		}
	}

	sb.WriteString(fmt.Sprintf("  %s  %s\n",
		TableHeaderStyle.Render(padLeft("SIZE", sizeWidth)),
		TableHeaderStyle.Render("PATH")))
	for _, e := range entries {
		size := strings.Repeat(" ", sizeWidth)
		if !e.IsDir {
			size = padLeft(FormatSize(e.Size), sizeWidth)
		}
		sb.WriteString(fmt.Sprintf("  %s  %s\n", SizeStyle.Render(size), ValueStyle.Render(e.Name)))
	}

	if info != nil {
		sb.WriteString("\n")
		sb.WriteString(TitleStyle.Render(modinfo.FileName))
		sb.WriteString("\n")
		for _, f := range info.Fields {
			sb.WriteString(fmt.Sprintf("  %s %s\n", LabelStyle.Render(padRight(f.Key, 12)), ValueStyle.Render(f.Value)))
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// HistoryTable writes a table of build history entries.
func HistoryTable(w io.Writer, entries []history.Entry, now time.Time) error {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s  %s  %s  %s\n",
		TableHeaderStyle.Render(padRight("ID", 36)),
		TableHeaderStyle.Render(padRight("VERSION", 12)),
		TableHeaderStyle.Render(padLeft("SIZE", 10)),
		TableHeaderStyle.Render("BUILT")))

	for _, e := range entries {
		version := e.Version
		if e.Debug {
			version += "*"
		}
		sb.WriteString(fmt.Sprintf("%s  %s  %s  %s\n",
			ValueStyle.Render(padRight(e.ID, 36)),
			ValueStyle.Render(padRight(version, 12)),
			SizeStyle.Render(padLeft(FormatSize(e.Size), 10)),
			MutedStyle.Render(humanize.RelTime(e.Timestamp, now, "ago", "from now"))))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// HistoryDetail writes a single history entry with its files.
func HistoryDetail(w io.Writer, e *history.Entry) error {
	lines := []string{
		field("ID:", ValueStyle.Render(e.ID)),
		field("Built:", ValueStyle.Render(e.Timestamp.Local().Format("2006-01-02 15:04:05 MST"))),
		field("Version:", ValueStyle.Render(e.Version)),
		field("Archive:", ValueStyle.Render(e.Archive)),
		field("Size:", SizeStyle.Render(FormatSize(e.Size))),
		field("SHA-256:", MutedStyle.Render(e.SHA256)),
	}
	if e.Debug {
		lines = append(lines, field("Debug:", WarningStyle.Render("staging tree kept")))
	}
	if e.Record != "" {
		lines = append(lines, field("Record:", ValueStyle.Render(e.Record)))
	}

	var sb strings.Builder
	sb.WriteString(HeaderBox.Render(strings.Join(lines, "\n")))
	sb.WriteString("\n")
	for _, f := range e.Files {
		sb.WriteString(fmt.Sprintf("  %s  %s\n", SizeStyle.Render(padLeft(FormatSize(f.Size), 10)), ValueStyle.Render(f.Path)))
	}
	sb.WriteString(MutedStyle.Render(fmt.Sprintf("%d files, %s uncompressed", e.Summary.TotalFiles, FormatSize(e.Summary.TotalBytes))))
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
