package core

import (
	"context"
	"errors"
	"strings"

	"github.com/mikey/netsereno/internal/metrics"
	"go.uber.org/zap"
)

// AnalysisService runs the normalizer and the assessor in sequence
type AnalysisService struct {
	normalizer *Normalizer
	assessor   *Assessor
	logger     *zap.Logger
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(normalizer *Normalizer, assessor *Assessor, logger *zap.Logger) *AnalysisService {
	return &AnalysisService{
		normalizer: normalizer,
		assessor:   assessor,
		logger:     logger,
	}
}

// AnalyzeArtifact normalizes an uploaded file and assesses it. Extraction
// failures are returned before the assessment service is contacted.
func (s *AnalysisService) AnalyzeArtifact(ctx context.Context, artifact Artifact) (*Analysis, error) {
	record, err := s.normalizer.Normalize(artifact)
	if err != nil {
		reason := "corrupt"
		if errors.Is(err, ErrUnsupportedFormat) {
			reason = "unsupported"
		}
		metrics.IncrementExtractionFailure(reason)
		s.logger.Info("Rejected artifact",
			zap.String("name", artifact.Name),
			zap.String("content_type", artifact.ContentType),
			zap.String("reason", reason),
			zap.Error(err))
		return nil, err
	}

	return s.assess(ctx, record), nil
}

// AnalyzeText assesses text pasted directly by the user
func (s *AnalysisService) AnalyzeText(ctx context.Context, text string) *Analysis {
	return s.assess(ctx, s.normalizer.NewManualRecord(text))
}

func (s *AnalysisService) assess(ctx context.Context, record EmailRecord) *Analysis {
	result := s.assessor.Assess(ctx, record)

	level := string(result.Verdict.Level())
	metrics.IncrementAssessment(strings.ToLower(level))

	s.logger.Info("Analyzed email",
		zap.String("sender", record.Sender),
		zap.String("sender_domain", senderDomain(record.Sender)),
		zap.Int("body_size", len(record.Body)),
		zap.Int("score", result.Score),
		zap.String("verdict", string(result.Verdict)))

	return &Analysis{Meta: record, Analysis: result}
}

// senderDomain extracts the domain part of a From value for logging
func senderDomain(sender string) string {
	address := sender
	if start, end := strings.LastIndex(sender, "<"), strings.LastIndex(sender, ">"); start >= 0 && end > start {
		address = sender[start+1 : end]
	}
	if at := strings.LastIndex(address, "@"); at >= 0 && at < len(address)-1 {
		return strings.ToLower(strings.TrimSpace(address[at+1:]))
	}
	return "unknown"
}
