package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"mediascope/internal/config"
	"mediascope/internal/dataset"
	"mediascope/internal/insight"
	"mediascope/internal/summary"
)

// StepResult holds the outcome of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
}

// Analysis is the complete outcome of one upload: cleaning diagnostics, the
// five summary views, and per-view commentary. A new upload produces a new
// Analysis; analyses are never merged or updated.
type Analysis struct {
	ID         string
	FileName   string
	UploadedAt time.Time
	Report     dataset.CleanReport
	Views      []summary.View
	Insights   map[string]string
	Steps      []StepResult
}

// Pipeline runs the ingest -> clean -> aggregate -> insight stages for one
// uploaded CSV at a time. Stages run sequentially; each completes before the
// next begins.
type Pipeline struct {
	cfg       *config.Config
	requester *insight.Requester
}

// New creates a pipeline. The insight provider is constructed here, from the
// configured model, endpoint, and credential environment variable; a missing
// credential is a constructor-time state that degrades commentary without
// network access.
func New(cfg *config.Config) *Pipeline {
	provider := insight.NewGeminiProvider(
		cfg.Gemini.Model,
		cfg.Gemini.Endpoint,
		os.Getenv(cfg.Gemini.APIKeyEnv),
		time.Duration(cfg.Gemini.TimeoutSeconds)*time.Second,
	)
	return &Pipeline{
		cfg:       cfg,
		requester: insight.NewRequester(provider, cfg.Gemini.MaxTokens),
	}
}

// SetProvider replaces the insight provider. Tests use this to avoid network
// access; a nil provider degrades commentary to the configuration warning.
func (p *Pipeline) SetProvider(provider insight.Provider) {
	p.requester = insight.NewRequester(provider, p.cfg.Gemini.MaxTokens)
}

// DisableInsights skips the insight stage entirely. Analysis.Insights stays
// nil.
func (p *Pipeline) DisableInsights() {
	p.requester = nil
}

// Run executes the full pipeline for one uploaded CSV. Malformed CSV and
// missing required columns are fatal to the upload and returned as errors
// with no partial Analysis; insight failures are not errors and degrade the
// affected view's commentary only.
func (p *Pipeline) Run(ctx context.Context, fileName string, r io.Reader) (*Analysis, error) {
	a := &Analysis{
		ID:         uuid.NewString(),
		FileName:   fileName,
		UploadedAt: time.Now(),
	}

	log.Printf("Step 1/4: Ingesting %s...", fileName)
	table, err := dataset.ReadCSV(r)
	if err != nil {
		return nil, fmt.Errorf("ingesting %s: %w", fileName, err)
	}
	a.Steps = append(a.Steps, StepResult{
		Name:    "Ingest",
		Summary: fmt.Sprintf("Read %d rows, %d columns", len(table.Rows), len(table.Header)),
	})

	log.Println("Step 2/4: Cleaning...")
	records, report, err := dataset.Clean(table)
	if err != nil {
		return nil, err
	}
	a.Report = report
	a.Steps = append(a.Steps, StepResult{
		Name: "Clean",
		Summary: fmt.Sprintf("Kept %d of %d rows (%d dropped for invalid dates)",
			report.FinalRows, report.OriginalRows, report.DroppedDates),
	})

	log.Println("Step 3/4: Aggregating...")
	a.Views = summary.Build(records, p.cfg.Analysis.TopLocations)
	a.Steps = append(a.Steps, StepResult{
		Name:    "Aggregate",
		Summary: fmt.Sprintf("Derived %d summary views", len(a.Views)),
	})

	if p.requester == nil {
		a.Steps = append(a.Steps, StepResult{Name: "Insights", Summary: "Skipped"})
		return a, nil
	}

	log.Println("Step 4/4: Requesting insights...")
	a.Insights = p.requester.ForViews(ctx, a.Views)
	a.Steps = append(a.Steps, StepResult{
		Name:    "Insights",
		Summary: fmt.Sprintf("Generated commentary for %d views", len(a.Insights)),
	})

	return a, nil
}
