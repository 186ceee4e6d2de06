package main

import (
	"fmt"
	"io"
	"time"

	"github.com/jamesainslie/modpack/pkg/modpack/config"
	"github.com/jamesainslie/modpack/pkg/modpack/history"
	"github.com/jamesainslie/modpack/pkg/modpack/output"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View build history",
	Long: `View the history of mod builds.

Every successful build is recorded with its version, archive checksum and
the list of packaged files.`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show details of a specific build",
	Long:  `Display detailed information about a build by its ID or a unique ID prefix.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean up old history entries",
	Long:  `Remove history entries older than the retention period.`,
	RunE:  runHistoryClean,
}

var (
	historyLimit int
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of entries to show")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// getHistory returns the build history with the configured directory.
func getHistory() (*history.History, *config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		// Use the default history path if config fails to load
		printVerbose("Failed to load configuration: %v", err)
		cfg = config.Default()
	}

	h, err := history.New(cfg.History.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history: %w", err)
	}
	return h, cfg, nil
}

// runHistory lists recent builds.
func runHistory(cmd *cobra.Command, args []string) error {
	h, _, err := getHistory()
	if err != nil {
		return err
	}

	entries, err := h.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	formatter, err := formatterFor(getFormat())
	if err != nil {
		return err
	}
	if formatter != nil {
		return formatter.Format(cmd.OutOrStdout(), entries)
	}

	if len(entries) == 0 {
		printInfo("No history entries found.")
		printInfo("Run 'modpack' in a mod project to build an archive.")
		return nil
	}

	if err := output.HistoryTable(cmd.OutOrStdout(), entries, time.Now()); err != nil {
		return err
	}

	printInfo("\nShowing %d entries. Use --limit to see more.", len(entries))
	printInfo("Use 'modpack history show <id>' for details on a specific build.")
	return nil
}

// runHistoryShow displays details of a specific build.
func runHistoryShow(cmd *cobra.Command, args []string) error {
	h, _, err := getHistory()
	if err != nil {
		return err
	}

	entry, err := h.Get(args[0])
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	return render(cmd.OutOrStdout(), getFormat(), entry, func(w io.Writer) error {
		return output.HistoryDetail(w, entry)
	})
}

// runHistoryClean removes old history entries.
func runHistoryClean(cmd *cobra.Command, args []string) error {
	h, cfg, err := getHistory()
	if err != nil {
		return err
	}

	retentionDays := cfg.History.RetentionDays
	if retentionDays <= 0 {
		retentionDays = config.DefaultRetentionDays
	}

	printInfo("Cleaning history entries older than %d days...", retentionDays)

	removed, err := h.Cleanup(retentionDays)
	if err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}

	printInfo("Removed %d entries.", removed)
	return nil
}
