package factory

import (
	"github.com/mikey/netsereno/internal/adapters/gemini"
	"github.com/mikey/netsereno/internal/config"
	"github.com/mikey/netsereno/internal/core"
	"go.uber.org/zap"
)

// GeminiFactory creates Gemini generators
type GeminiFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewGeminiFactory creates a new Gemini factory
func NewGeminiFactory(cfg *config.Config, logger *zap.Logger) *GeminiFactory {
	return &GeminiFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateGenerator creates a Gemini generator
func (f *GeminiFactory) CreateGenerator() (core.Generator, error) {
	geminiCfg := f.cfg.GetGemini()

	return gemini.NewGenerator(
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		geminiCfg.MaxTokens,
		geminiCfg.Temperature,
		geminiCfg.TopP,
		f.logger.Named("gemini"),
	)
}
