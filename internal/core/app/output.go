package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"

	"incdeps/internal/core/config"
	"incdeps/internal/core/errors"
	"incdeps/internal/engine/graph"
	"incdeps/internal/shared/util"
	"incdeps/internal/ui/report"
	"incdeps/internal/ui/report/formats"
)

// Mermaid renders the diagram the way the configured keyword asks for.
func (a *App) Mermaid(analyzer *graph.Analyzer) string {
	return formats.NewMermaidGenerator(analyzer).GenerateForKeyword(a.Config().Output.Keyword)
}

// Report renders the markdown analysis report.
func (a *App) Report(analyzer *graph.Analyzer) string {
	return report.RenderMarkdown(analyzer, report.Options{Keyword: a.Config().Output.Keyword})
}

// GenerateOutputs writes every configured artifact. Artifacts with an empty
// file name are skipped.
func (a *App) GenerateOutputs(ctx context.Context, analyzer *graph.Analyzer) error {
	s := a.settings()
	paths, out := s.paths, s.cfg.Output
	var mermaid string
	if out.Mermaid != "" || len(out.UpdateMarkdown) > 0 {
		mermaid = formats.NewMermaidGenerator(analyzer).GenerateForKeyword(out.Keyword)
	}

	if path := paths.OutputPath(out.Mermaid); path != "" {
		if err := writeArtifact("Mermaid", path, mermaid); err != nil {
			return err
		}
	}

	var dot string
	if out.DOT != "" || out.SVG != "" {
		dot = formats.NewDOTGenerator(analyzer).Generate()
	}
	if path := paths.OutputPath(out.DOT); path != "" {
		if err := writeArtifact("DOT", path, dot); err != nil {
			return err
		}
	}
	if path := paths.OutputPath(out.SVG); path != "" {
		svg, err := formats.RenderSVG(ctx, dot)
		if err != nil {
			return fmt.Errorf("render SVG output: %w", err)
		}
		if err := writeArtifact("SVG", path, string(svg)); err != nil {
			return err
		}
	}

	if path := paths.OutputPath(out.PlantUML); path != "" {
		if err := writeArtifact("PlantUML", path, formats.NewPlantUMLGenerator(analyzer).Generate()); err != nil {
			return err
		}
	}

	if path := paths.OutputPath(out.TSV); path != "" {
		tsvGen := formats.NewTSVGenerator(analyzer)
		tsv := tsvGen.Generate()
		if len(analyzer.Unresolved()) > 0 {
			tsv += "\n" + tsvGen.GenerateUnresolved()
		}
		if err := writeArtifact("TSV", path, tsv); err != nil {
			return err
		}
	}

	if path := paths.OutputPath(out.YAML); path != "" {
		yaml, err := formats.NewYAMLGenerator(analyzer).Generate()
		if err != nil {
			return fmt.Errorf("generate YAML output: %w", err)
		}
		if err := writeArtifact("YAML", path, yaml); err != nil {
			return err
		}
	}

	if path := paths.OutputPath(out.Report); path != "" {
		if err := writeArtifact("report", path, report.RenderMarkdown(analyzer, report.Options{Keyword: out.Keyword})); err != nil {
			return err
		}
	}

	for _, injection := range out.UpdateMarkdown {
		path := config.ResolveRelative(paths.BaseDir, injection.File)
		err := report.InjectMermaid(path, injection.Marker, mermaid)
		switch {
		case err == nil:
			slog.Debug("markdown diagram updated", "path", path, "marker", injection.Marker)
		case stderrors.Is(err, fs.ErrNotExist), errors.IsCode(err, errors.CodeValidationError):
			slog.Warn("skipping markdown update", "path", path, "marker", injection.Marker, "error", err)
		default:
			return fmt.Errorf("update markdown %q: %w", path, err)
		}
	}

	return nil
}

func writeArtifact(kind, path, content string) error {
	if err := util.WriteStringWithDirs(path, content, 0o644); err != nil {
		return fmt.Errorf("write %s output %q: %w", kind, path, err)
	}
	slog.Debug("output written", "kind", kind, "path", path)
	return nil
}
