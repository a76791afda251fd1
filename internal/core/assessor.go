package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mikey/netsereno/internal/metrics"
	"github.com/mikey/netsereno/internal/utils"
	"go.uber.org/zap"
)

// Assessor turns EmailRecords into AssessmentRecords using a Generator
type Assessor struct {
	generator     Generator
	template      PromptTemplate
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// assessmentResponse is the JSON object the model is asked to return.
// Pointers distinguish missing fields from zero values.
type assessmentResponse struct {
	Score   *json.Number `json:"score"`
	Verdict *string      `json:"verdict"`
	Summary *string      `json:"summary"`
	Reasons []string     `json:"reasons"`
}

// NewAssessor creates a new Assessor
func NewAssessor(
	generator Generator,
	template PromptTemplate,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *Assessor {
	return &Assessor{
		generator:     generator,
		template:      template,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// BuildPrompt renders the prompt for a record, truncating the body first
func (a *Assessor) BuildPrompt(record EmailRecord) string {
	body := a.textProcessor.Truncate(record.Body, MaxPromptBodyChars)
	return a.template.Render(record.Subject, record.Sender, body)
}

// Assess scores an email. It never fails: generator and parsing errors
// produce an ERROR record carrying the diagnostic.
func (a *Assessor) Assess(ctx context.Context, record EmailRecord) AssessmentRecord {
	prompt := a.BuildPrompt(record)

	start := time.Now()
	text, err := a.generator.Generate(ctx, prompt)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RecordGeneratorLatency(status, time.Since(start))

	if err != nil {
		a.logger.Warn("Assessment service call failed", zap.Error(err))
		return a.errorRecord(err)
	}

	result, err := ParseAssessment(text)
	if err != nil {
		a.logger.Warn("Unusable assessment response",
			zap.Error(err),
			zap.Int("response_size", len(text)))
		return a.errorRecord(err)
	}

	a.logger.Debug("Assessment completed",
		zap.Int("score", result.Score),
		zap.String("verdict", string(result.Verdict)),
		zap.Int("reasons", len(result.Reasons)))

	return result
}

func (a *Assessor) errorRecord(err error) AssessmentRecord {
	return AssessmentRecord{
		Score:   0,
		Verdict: VerdictError,
		Summary: a.template.ErrorSummary,
		Reasons: []string{err.Error()},
	}
}

// stripCodeFences removes markdown code fences the model may wrap around JSON
func stripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```JSON", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// ParseAssessment decodes a model response into an AssessmentRecord
func ParseAssessment(text string) (AssessmentRecord, error) {
	cleaned := stripCodeFences(text)
	if cleaned == "" {
		return AssessmentRecord{}, errors.New("empty response from assessment service")
	}

	var resp assessmentResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		// Retry on the outermost object in case the model added prose around it
		start := strings.Index(cleaned, "{")
		end := strings.LastIndex(cleaned, "}")
		if start < 0 || end <= start {
			return AssessmentRecord{}, fmt.Errorf("failed to parse assessment response as JSON: %w", err)
		}
		resp = assessmentResponse{}
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &resp); err != nil {
			return AssessmentRecord{}, fmt.Errorf("failed to parse assessment response as JSON: %w", err)
		}
	}

	return resp.record()
}

func (r assessmentResponse) record() (AssessmentRecord, error) {
	switch {
	case r.Score == nil:
		return AssessmentRecord{}, errors.New("assessment response is missing \"score\"")
	case r.Verdict == nil:
		return AssessmentRecord{}, errors.New("assessment response is missing \"verdict\"")
	case r.Summary == nil:
		return AssessmentRecord{}, errors.New("assessment response is missing \"summary\"")
	case len(r.Reasons) == 0:
		return AssessmentRecord{}, errors.New("assessment response has no \"reasons\"")
	}

	score, err := integralScore(*r.Score)
	if err != nil {
		return AssessmentRecord{}, err
	}

	verdict := Verdict(strings.TrimSpace(*r.Verdict))
	switch verdict.Level() {
	case "":
		return AssessmentRecord{}, fmt.Errorf("assessment response has unknown verdict %q", *r.Verdict)
	case VerdictError:
		return AssessmentRecord{}, errors.New("assessment service reported an error verdict")
	}

	return AssessmentRecord{
		Score:   score,
		Verdict: verdict,
		Summary: *r.Summary,
		Reasons: r.Reasons,
	}, nil
}

// integralScore accepts 85 and 85.0 but not 85.5, clamping into [0,100]
func integralScore(n json.Number) (int, error) {
	if i, err := n.Int64(); err == nil {
		return clampScore(float64(i)), nil
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.Trunc(f) != f {
		return 0, fmt.Errorf("assessment response has non-integer score %q", n.String())
	}
	return clampScore(f), nil
}

func clampScore(f float64) int {
	return int(math.Max(0, math.Min(100, f)))
}
