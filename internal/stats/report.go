package stats

import (
	"context"
	"fmt"
	"io"

	"github.com/verte-zerg/zodis/internal/model"
)

// ResultSource lists stored practice results, oldest first.
type ResultSource interface {
	ListResults(ctx context.Context, level, last int) ([]model.ResultAggregate, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Results []model.ResultAggregate
	Window  int
}

// ReportConfig selects which results a report covers.
type ReportConfig struct {
	// Level filters results; zero means all levels.
	Level int
	// Last keeps only the most recent sessions; zero means all.
	Last        int
	CurveWindow int
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, src ResultSource, cfg ReportConfig) (Report, error) {
	results, err := src.ListResults(ctx, cfg.Level, cfg.Last)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load practice results: %w", err)
	}
	if cfg.Last > 0 && len(results) > cfg.Last {
		results = results[len(results)-cfg.Last:]
	}
	window := cfg.CurveWindow
	if window <= 0 {
		window = 1
	}
	return Report{Results: results, Window: window}, nil
}

// Render writes the summary and learning curves for the report.
func (r Report) Render(w io.Writer, width int) error {
	if err := RenderSummary(w, r.Results); err != nil {
		return err
	}
	return RenderCurves(w, r.Results, r.Window, width)
}
