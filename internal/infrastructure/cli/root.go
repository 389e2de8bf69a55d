package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/doeshing/foodscan/internal/app"
	"github.com/doeshing/foodscan/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose    bool
	ConfigPath string
	Metrics    bool
}

// NewRootCmd wires the cobra root command. The returned container must be
// closed by the caller once the command has run.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, *app.Container, error) {
	container, err := app.BuildContainer(ctx, app.Options{
		Verbose:    opts.Verbose,
		ConfigPath: opts.ConfigPath,
		Metrics:    opts.Metrics,
	})
	if err != nil {
		return nil, nil, err
	}
	container.Prompter = NewPrompter(nil, nil)

	return newRootCmd(container), container, nil
}

func newRootCmd(container *app.Container) *cobra.Command {
	root := &cobra.Command{
		Use:   "foodscan",
		Short: "foodscan - food barcode lookup",
		Long:  "foodscan looks up food barcodes, keeps a recent-scan history and manages product reviews.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(commands.NewScanCommand(container))
	root.AddCommand(commands.NewProductCommand(container))
	root.AddCommand(newSessionCommand(container))
	root.AddCommand(commands.NewReviewCommand(container))
	root.AddCommand(commands.NewServeCommand(container))
	root.AddCommand(commands.NewConfigCommand(container))
	root.AddCommand(commands.NewDoctorCommand(container))
	root.AddCommand(commands.NewVersionCommand())
	return root
}

// AddGlobalFlags registers the flags main reads before cobra runs so that
// cobra accepts them.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging (or FOODSCAN_DEBUG=1)")
	root.PersistentFlags().String("config", "", "Config file path (or FOODSCAN_CONFIG)")
}
