package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/uhppoted/briefing-sync/commands"
)

var cli = []commands.Command{
	&commands.VersionCmd,
	&commands.AuthoriseCmd,
	&commands.SyncCmd,
	&commands.CheckCmd,
	&commands.GetCmd,
}

var options = commands.Options{
	Debug:   false,
	Timeout: 0,
}

func main() {
	root := &cobra.Command{
		Use:           commands.APP,
		Short:         "Syncs a spreadsheet to a single Cloud Firestore document",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogger(options.Debug)
		},
	}

	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().BoolVar(&options.Debug, "debug", options.Debug, "Enable debugging information")
	root.PersistentFlags().DurationVar(&options.Timeout, "timeout", options.Timeout, "Maximum time allowed for the command e.g. 2m (0 for no limit)")

	for _, c := range cli {
		root.AddCommand(wrap(c))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "\n   ERROR: %v\n\n", err)
		cancel()
		os.Exit(1)
	}
}

func wrap(c commands.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s %s", c.Name(), c.Usage()),
		Short: c.Description(),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer zap.S().Sync()

			ctx := cmd.Context()
			if options.Timeout > 0 {
				var cancel context.CancelFunc

				ctx, cancel = context.WithTimeout(ctx, options.Timeout)
				defer cancel()
			}

			return c.Execute(ctx, &options)
		},
	}

	cmd.Flags().AddGoFlagSet(c.FlagSet())
	cmd.SetHelpFunc(func(*cobra.Command, []string) {
		c.Help()
	})

	return cmd
}

func initLogger(debug bool) error {
	var logger *zap.Logger
	var err error

	if debug {
		z := zap.NewDevelopmentConfig()
		z.OutputPaths = []string{"stdout"}
		logger, err = z.Build()
	} else {
		z := zap.NewProductionConfig()
		z.Encoding = "console"
		z.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.DateTime)
		z.OutputPaths = []string{"stdout"}
		logger, err = z.Build()
	}

	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	zap.ReplaceGlobals(logger)

	return nil
}
