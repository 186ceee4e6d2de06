package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/jamesainslie/modpack/pkg/modpack/archive"
	"github.com/jamesainslie/modpack/pkg/modpack/modinfo"
	"github.com/jamesainslie/modpack/pkg/modpack/output"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <archive.zip>",
	Short: "List the contents of a built archive",
	Long: `List every entry of a mod archive with its size and print the
metadata from its modinfo.ini.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// runInspect lists an archive.
func runInspect(cmd *cobra.Command, args []string) error {
	return inspect(cmd.OutOrStdout(), args[0], getFormat())
}

func inspect(out io.Writer, path, format string) error {
	entries, err := archive.List(path)
	if err != nil {
		return err
	}

	var info *modinfo.Record
	data, err := archive.ReadFile(path, modinfo.FileName)
	switch {
	case err == nil:
		info, err = modinfo.Parse(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("parsing %s: %w", modinfo.FileName, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		printVerbose("%s has no %s", path, modinfo.FileName)
	default:
		return err
	}

	return render(out, format, output.NewArchiveReport(path, entries, info), func(w io.Writer) error {
		return output.Listing(w, path, entries, info)
	})
}
