package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"incdeps/internal/core/config"
	"incdeps/internal/core/errors"
	"incdeps/internal/data/query"
	"incdeps/internal/engine/graph"
)

type analyzeOptions struct {
	keyword      string
	trace        string
	impact       string
	query        string
	print        string
	ui           bool
	history      bool
	includeTests bool
}

// mutate applies command line overrides on top of the loaded config.
func (o analyzeOptions) mutate(cmd *cobra.Command) func(*config.Config) {
	return func(cfg *config.Config) {
		if cmd.Flags().Changed("keyword") {
			cfg.Output.Keyword = o.keyword
		}
		if o.history {
			cfg.History.Enabled = true
		}
		if o.includeTests {
			cfg.Scan.IncludeTests = true
		}
	}
}

func newAnalyzeCmd(global *globalOptions) *cobra.Command {
	opts := analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [dir...]",
		Short: "Scan sources once, write the configured outputs and print the report",
		Long: `Scan every directory (default: watch_paths from the config), build the
module include graph, write the configured artifacts and print the result.

--trace from:to prints the shortest include chain between two modules and
--impact prints what depends on a module or file and --query filters modules
with SELECT modules [WHERE field op value AND ...] [LIMIT n] over name,
component, component_index, cycle_size, depth, fan_in, fan_out and
dependents.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch opts.print {
			case "report", "mermaid", "none":
			default:
				return errors.Newf(errors.CodeValidationError, "--print must be report, mermaid or none; got %q", opts.print)
			}
			var from, to string
			if opts.trace != "" {
				var err error
				if from, to, err = parseTrace(opts.trace); err != nil {
					return err
				}
			}

			s, err := global.openSession(cmd, sessionOptions{dirs: args, uiMode: opts.ui, mutate: opts.mutate(cmd)})
			if err != nil {
				return err
			}
			defer s.close()

			analyzer, err := s.app.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case opts.trace != "":
				return printTrace(out, analyzer, from, to)
			case opts.query != "":
				rows, err := query.NewService(analyzer).ExecuteCQL(cmd.Context(), opts.query, 0)
				if err != nil {
					return err
				}
				printRows(out, rows)
				return nil
			case opts.impact != "":
				report, err := analyzer.AnalyzeImpact(opts.impact)
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatImpactReport(report))
				return nil
			case opts.ui:
				return runUI(s.app, nil)
			}

			switch opts.print {
			case "report":
				fmt.Fprint(out, s.app.Report(analyzer))
			case "mermaid":
				fmt.Fprint(out, s.app.Mermaid(analyzer))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.keyword, "keyword", "k", "", "scope the diagram to components whose name contains this text")
	cmd.Flags().StringVar(&opts.trace, "trace", "", "print the shortest include chain between two modules (<from>:<to>)")
	cmd.Flags().StringVar(&opts.impact, "impact", "", "print the modules affected by a change to this module or file")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", `list modules matching a query, e.g. "SELECT modules WHERE fan_in > 3"`)
	cmd.Flags().StringVar(&opts.print, "print", "report", "what to print on success: report, mermaid or none")
	cmd.Flags().BoolVar(&opts.ui, "ui", false, "browse the result in a terminal UI")
	cmd.Flags().BoolVar(&opts.history, "history", false, "record a history snapshot of this run")
	cmd.Flags().BoolVar(&opts.includeTests, "include-tests", false, "include test and mock sources")
	cmd.MarkFlagsMutuallyExclusive("trace", "impact", "query", "ui")

	return cmd
}

func parseTrace(raw string) (string, string, error) {
	from, to, ok := strings.Cut(raw, ":")
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if !ok || from == "" || to == "" {
		return "", "", errors.Newf(errors.CodeValidationError, "--trace expects <from>:<to>, got %q", raw)
	}
	return from, to, nil
}

func printTrace(w io.Writer, analyzer *graph.Analyzer, from, to string) error {
	for _, module := range []string{from, to} {
		if _, ok := analyzer.ComponentOf(module); !ok {
			return errors.AddContext(errors.Newf(errors.CodeNotFound, "unknown module %q", module), errors.CtxModule, module)
		}
	}
	chain, ok := analyzer.FindDependencyChain(from, to)
	if !ok {
		return errors.Newf(errors.CodeNotFound, "no include chain from %s to %s", from, to)
	}
	fmt.Fprintln(w, strings.Join(chain, " -> "))
	return nil
}

func formatImpactReport(r graph.ImpactReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Impact of %s\n", r.TargetModule)
	if r.InCycle {
		fmt.Fprintf(&b, "  component: %s (include cycle)\n", r.Component)
	}
	writeList(&b, "depends on", r.Dependencies)
	writeList(&b, "direct dependents", r.DirectDependents)
	writeList(&b, "transitive dependents", r.TransitiveDependents)
	fmt.Fprintf(&b, "  total affected: %d\n", len(r.DirectDependents)+len(r.TransitiveDependents))
	return b.String()
}

func printRows(w io.Writer, rows []query.ModuleRow) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODULE\tCOMPONENT\tDEPTH\tFAN_IN\tFAN_OUT\tDEPENDENTS")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\n", r.Name, r.Component, r.Depth, r.FanIn, r.FanOut, r.Dependents)
	}
	_ = tw.Flush()
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(b, "  %s: none\n", label)
		return
	}
	fmt.Fprintf(b, "  %s (%d): %s\n", label, len(items), strings.Join(items, ", "))
}
