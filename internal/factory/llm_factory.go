package factory

import (
	"fmt"
	"strings"

	"github.com/mikey/netsereno/internal/config"
	"github.com/mikey/netsereno/internal/core"
	"go.uber.org/zap"
)

// GeneratorFactory creates the generator for the configured LLM provider
type GeneratorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewGeneratorFactory creates a new generator factory
func NewGeneratorFactory(cfg *config.Config, logger *zap.Logger) *GeneratorFactory {
	return &GeneratorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateGenerator creates a new generator based on the configuration
func (f *GeneratorFactory) CreateGenerator() (core.Generator, error) {
	provider := strings.ToLower(f.cfg.GetLLM().Provider)

	f.logger.Info("Creating generator", zap.String("provider", provider))

	switch provider {
	case "gemini":
		return NewGeminiFactory(f.cfg, f.logger).CreateGenerator()
	case "openai":
		return NewOpenAIFactory(f.cfg, f.logger).CreateGenerator()
	case "bedrock":
		return NewBedrockFactory(f.cfg, f.logger).CreateGenerator()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
