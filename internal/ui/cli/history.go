package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"incdeps/internal/core/config"
	"incdeps/internal/core/errors"
	"incdeps/internal/shared/util"
	"incdeps/internal/ui/report"
)

type historyOptions struct {
	since  string
	limit  int
	format string
	window time.Duration
	output string
}

func newHistoryCmd(global *globalOptions) *cobra.Command {
	opts := historyOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show stored run snapshots with deltas and moving averages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			since, err := parseSince(opts.since)
			if err != nil {
				return err
			}
			if opts.format != "tsv" && opts.format != "json" {
				return errors.Newf(errors.CodeValidationError, "--format must be tsv or json; got %q", opts.format)
			}

			s, err := global.openSession(cmd, sessionOptions{mutate: func(cfg *config.Config) {
				cfg.History.Enabled = true
				if opts.window > 0 {
					cfg.History.TrendWindow = opts.window
				}
			}})
			if err != nil {
				return err
			}
			defer s.close()

			trends, err := s.app.Trends(since, opts.limit)
			if err != nil {
				return err
			}

			var data []byte
			if opts.format == "json" {
				if data, err = report.RenderTrendJSON(trends); err != nil {
					return err
				}
			} else {
				data = report.RenderTrendTSV(trends)
			}

			if opts.output != "" {
				return util.WriteFileWithDirs(opts.output, data, 0o644)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.since, "since", "", "only snapshots at or after this time (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "keep only the most recent N snapshots")
	cmd.Flags().StringVar(&opts.format, "format", "tsv", "output format: tsv or json")
	cmd.Flags().DurationVar(&opts.window, "window", 0, "moving-average window (default: history.trend_window)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the report to this file instead of stdout")

	return cmd
}

func parseSince(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC(), nil
	}
	if day, err := time.Parse("2006-01-02", raw); err == nil {
		return day.UTC(), nil
	}
	return time.Time{}, errors.Newf(errors.CodeValidationError, "invalid --since %q: use RFC3339 or YYYY-MM-DD", raw)
}
