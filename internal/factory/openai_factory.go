package factory

import (
	"github.com/mikey/netsereno/internal/adapters/openai"
	"github.com/mikey/netsereno/internal/config"
	"github.com/mikey/netsereno/internal/core"
	"go.uber.org/zap"
)

// OpenAIFactory creates OpenAI generators
type OpenAIFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewOpenAIFactory creates a new OpenAI factory
func NewOpenAIFactory(cfg *config.Config, logger *zap.Logger) *OpenAIFactory {
	return &OpenAIFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateGenerator creates an OpenAI generator
func (f *OpenAIFactory) CreateGenerator() (core.Generator, error) {
	openaiCfg := f.cfg.GetOpenAI()

	return openai.NewGenerator(
		openaiCfg.APIKey,
		openaiCfg.BaseURL,
		openaiCfg.ModelName,
		openaiCfg.MaxTokens,
		openaiCfg.Temperature,
		openaiCfg.TopP,
		f.logger.Named("openai"),
	)
}
