package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newWatchCmd(global *globalOptions) *cobra.Command {
	opts := analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "watch [dir...]",
		Short: "Analyze, then rerun whenever a source file or the config changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := global.openSession(cmd, sessionOptions{dirs: args, uiMode: opts.ui, mutate: opts.mutate(cmd)})
			if err != nil {
				return err
			}
			defer s.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !opts.ui {
				slog.Info("watching for changes", "roots", s.app.ScanRoots())
				return s.app.Watch(ctx, s.configPath)
			}

			ctx, cancel := context.WithCancel(ctx)
			done := make(chan error, 1)
			started := make(chan struct{})
			go func() {
				<-started
				done <- s.app.Watch(ctx, s.configPath)
			}()

			uiErr := runUI(s.app, started)
			cancel()
			if err := <-done; err != nil && uiErr == nil {
				return err
			}
			return uiErr
		},
	}

	cmd.Flags().StringVarP(&opts.keyword, "keyword", "k", "", "scope the diagram to components whose name contains this text")
	cmd.Flags().BoolVar(&opts.ui, "ui", false, "show live results in a terminal UI")
	cmd.Flags().BoolVar(&opts.history, "history", false, "record a history snapshot of every run")
	cmd.Flags().BoolVar(&opts.includeTests, "include-tests", false, "include test and mock sources")

	return cmd
}
