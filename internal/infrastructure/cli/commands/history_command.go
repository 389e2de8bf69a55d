package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/doeshing/foodscan/internal/app"
	"github.com/doeshing/foodscan/internal/infrastructure/cli/helpers"
	"github.com/doeshing/foodscan/internal/ports"
)

// NewHistoryCommand creates the history command with all subcommands.
// History lives in process memory, so the interactive session runs these
// against its own container. prompter confirms destructive actions; nil
// falls back to container.Prompter.
func NewHistoryCommand(container *app.Container, prompter ports.ConfirmationPrompter) *cobra.Command {
	if prompter == nil {
		prompter = container.Prompter
	}

	historyCmd := &cobra.Command{
		Use:           "history",
		Short:         "Inspect the recent-scan history",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	historyCmd.CompletionOptions.DisableDefaultCmd = true

	historyCmd.AddCommand(
		newHistoryRecentCommand(container),
		newHistoryListCommand(container),
		newHistoryRemoveCommand(container),
		newHistoryClearCommand(container, prompter),
	)

	return historyCmd
}

// newHistoryRecentCommand creates the 'history recent [n]' subcommand
func newHistoryRecentCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent [n]",
		Short: "Show the newest scans",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.ScanService == nil {
				return fmt.Errorf(ErrScanServiceUnavailable)
			}
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("recent: %q is not a number", args[0])
				}
				limit = n
			}
			helpers.RenderHistory(cmd.OutOrStdout(), container.ScanService.Recent(limit))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", container.Config.History.RecentLimit, "Max entries to show")
	return cmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every scan, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.ScanService == nil {
				return fmt.Errorf(ErrScanServiceUnavailable)
			}
			helpers.RenderHistory(cmd.OutOrStdout(), container.ScanService.History())
			return nil
		},
	}
}

// newHistoryRemoveCommand creates the 'history remove' subcommand
func newHistoryRemoveCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <barcode>",
		Short: "Drop one product from the history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.ScanService == nil {
				return fmt.Errorf(ErrScanServiceUnavailable)
			}
			container.ScanService.Forget(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(container *app.Container, prompter ports.ConfirmationPrompter) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the scan history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return clearHistory(cmd.OutOrStdout(), container, prompter, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

// clearHistory empties the store after confirming with the user when a prompter is available
func clearHistory(out io.Writer, container *app.Container, prompter ports.ConfirmationPrompter, skipConfirm bool) error {
	if container.ScanService == nil {
		return fmt.Errorf(ErrScanServiceUnavailable)
	}
	if !skipConfirm && prompter != nil && prompter.Enabled() {
		ok, err := prompter.Confirm("Clear all scan history?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, MsgClearCancelled)
			return nil
		}
	}
	container.ScanService.ClearHistory()
	fmt.Fprintln(out, MsgHistoryCleared)
	return nil
}
