package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/fkconsole/internal/app"
	"github.com/five82/fkconsole/internal/config"
	"github.com/five82/fkconsole/internal/export"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fkconsole: %v\n", err)
		return 1
	}
	return 0
}

type rootOptions struct {
	configPath string
	prefsPath  string
	mirrorPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "fkconsole",
		Short: "In-process debug console with a terminal overlay",
		Long: `fkconsole runs a terminal overlay over a log capture pipeline.
Press ` + "`" + ` to show or hide the console. History is persisted between runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: opts.configPath,
				PrefsPath:  opts.prefsPath,
				MirrorPath: opts.mirrorPath,
				Stderr:     cmd.ErrOrStderr(),
			})
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", fmt.Sprintf("config file (default %s)", config.DefaultPath()))
	cmd.Flags().StringVar(&opts.prefsPath, "prefs", "", "overlay preferences file (optional)")
	cmd.Flags().StringVar(&opts.mirrorPath, "mirror-file", "", "append mirrored entries to this file (optional)")

	cmd.AddCommand(newDumpCmd(opts), newClearCmd(opts))
	return cmd
}

func newDumpCmd(opts *rootOptions) *cobra.Command {
	var formatName string
	names := make([]string, 0, len(export.Formats()))
	for _, f := range export.Formats() {
		names = append(names, string(f))
	}

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the persisted log history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}
			return app.Dump(cmd.OutOrStdout(), opts.configPath, f)
		},
	}
	cmd.Flags().StringVarP(&formatName, "format", "f", string(export.Text),
		fmt.Sprintf("output format (%s)", strings.Join(names, ", ")))
	return cmd
}

func newClearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the persisted log history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.ClearHistory(opts.configPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
			return nil
		},
	}
}
