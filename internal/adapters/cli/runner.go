package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mikey/netsereno/internal/core"
	"github.com/mikey/netsereno/internal/report"
	"go.uber.org/zap"
)

// stdinName is the artifact name given to a message read from stdin
const stdinName = "stdin.eml"

// previewChars is how much of the body is printed in verbose mode
const previewChars = 500

// ErrNoContent is returned when neither a file, text nor stdin data is given
var ErrNoContent = errors.New("no content provided")

// Request describes one CLI analysis
type Request struct {
	File       string    // path to a .eml or .txt file
	Text       string    // pasted text, used when File is empty
	Stdin      io.Reader // raw message, used when File and Text are empty
	JSON       bool      // print the analysis as JSON instead of a summary
	ReportPath string    // write the PDF report here when set
}

// Runner analyzes a single artifact from the command line and prints the result
type Runner struct {
	service  *core.AnalysisService
	renderer *report.Renderer
	logger   *zap.Logger
	out      io.Writer
	verbose  bool
}

// NewRunner creates a new CLI runner writing to out
func NewRunner(
	service *core.AnalysisService,
	renderer *report.Renderer,
	logger *zap.Logger,
	out io.Writer,
	verbose bool,
) *Runner {
	return &Runner{
		service:  service,
		renderer: renderer,
		logger:   logger,
		out:      out,
		verbose:  verbose,
	}
}

// Run analyzes the requested input, prints the outcome and writes the report
func (r *Runner) Run(ctx context.Context, req Request) (*core.Analysis, error) {
	start := time.Now()

	analysis, err := r.analyze(ctx, req)
	if err != nil {
		r.logger.Error("Failed to analyze input", zap.Error(err))
		return nil, err
	}
	duration := time.Since(start)

	if req.JSON {
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(analysis); err != nil {
			return nil, fmt.Errorf("failed to encode analysis: %w", err)
		}
	} else {
		r.printSummary(analysis, duration)
	}

	if req.ReportPath != "" {
		if err := r.writeReport(req.ReportPath, analysis.Analysis); err != nil {
			return nil, err
		}
		if !req.JSON {
			fmt.Fprintf(r.out, "Report written to: %s\n", req.ReportPath)
		}
	}

	return analysis, nil
}

func (r *Runner) analyze(ctx context.Context, req Request) (*core.Analysis, error) {
	switch {
	case req.File != "":
		data, err := os.ReadFile(req.File)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
		r.logger.Info("Reading email from file", zap.String("file", req.File))
		return r.service.AnalyzeArtifact(ctx, core.Artifact{
			Name: filepath.Base(req.File),
			Data: data,
		})

	case strings.TrimSpace(req.Text) != "":
		return r.service.AnalyzeText(ctx, req.Text), nil

	case req.Stdin != nil:
		data, err := io.ReadAll(req.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		if len(strings.TrimSpace(string(data))) == 0 {
			return nil, ErrNoContent
		}
		r.logger.Info("Reading email from stdin")
		return r.service.AnalyzeArtifact(ctx, core.Artifact{Name: stdinName, Data: data})

	default:
		return nil, ErrNoContent
	}
}

func (r *Runner) printSummary(analysis *core.Analysis, duration time.Duration) {
	meta, result := analysis.Meta, analysis.Analysis

	fmt.Fprintf(r.out, "\n=== Email Summary ===\n")
	fmt.Fprintf(r.out, "From: %s\n", meta.Sender)
	fmt.Fprintf(r.out, "Subject: %s\n", meta.Subject)
	fmt.Fprintf(r.out, "Body length: %d bytes\n", len(meta.Body))

	if r.verbose {
		preview := []rune(meta.Body)
		if len(preview) > previewChars {
			preview = append(preview[:previewChars], []rune("...")...)
		}
		fmt.Fprintf(r.out, "\nBody preview:\n%s\n", string(preview))
	}

	fmt.Fprintf(r.out, "\n=== Results ===\n")
	fmt.Fprintf(r.out, "Verdict: %s\n", result.Verdict)
	fmt.Fprintf(r.out, "Score: %d%%\n", result.Score)
	fmt.Fprintf(r.out, "Summary: %s\n", result.Summary)
	if len(result.Reasons) > 0 {
		fmt.Fprintf(r.out, "Reasons:\n")
		for _, reason := range result.Reasons {
			fmt.Fprintf(r.out, "  - %s\n", reason)
		}
	}
	fmt.Fprintf(r.out, "Processing time: %v\n", duration)
}

func (r *Runner) writeReport(path string, record core.AssessmentRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	if err := r.renderer.Render(f, record); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}

	r.logger.Info("Report written", zap.String("path", path))
	return nil
}
