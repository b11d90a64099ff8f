package indents

import (
	"context"

	"github.com/reusee/dscope"
	"github.com/reusee/exindent/logs"
	"github.com/reusee/exindent/styles"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}

// AnalyzeFile is Analyze with per-file logging. content is the raw file.
type AnalyzeFile func(ctx context.Context, name string, content []byte) (Report, error)

func (Module) AnalyzeFile(
	logger logs.Logger,
	newSpan logs.NewSpan,
	style styles.Style,
) AnalyzeFile {
	return func(ctx context.Context, name string, content []byte) (Report, error) {
		ctx, _ = newSpan(ctx, "", "file", name)

		report, err := Analyze(string(content), style)
		if err != nil {
			logger.ErrorContext(ctx, "analyze",
				"file", name,
				"error", err,
			)
			return report, logs.WrapSpan(ctx, err)
		}

		logger.DebugContext(ctx, "analyzed",
			"file", name,
			"lines", len(report.Lines),
			"mismatches", len(report.Mismatches),
			"diagnostics", len(report.Diagnostics),
		)
		for _, d := range report.Structural() {
			logger.WarnContext(ctx, d.Kind.String(),
				"file", name,
				"line", d.Line,
				"opener", d.OpenerLine,
				"message", d.Message,
			)
		}

		return report, nil
	}
}
