package factory

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/netsereno/internal/adapters/bedrock"
	"github.com/mikey/netsereno/internal/config"
	"github.com/mikey/netsereno/internal/core"
	"go.uber.org/zap"
)

// BedrockFactory creates Bedrock generators
type BedrockFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewBedrockFactory creates a new Bedrock factory
func NewBedrockFactory(cfg *config.Config, logger *zap.Logger) *BedrockFactory {
	return &BedrockFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateGenerator creates a Bedrock generator using the default AWS
// credential chain
func (f *BedrockFactory) CreateGenerator() (core.Generator, error) {
	bedrockCfg := f.cfg.GetBedrock()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(bedrockCfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return bedrock.NewGenerator(
		bedrockruntime.NewFromConfig(awsCfg),
		bedrockCfg.ModelID,
		bedrockCfg.MaxTokens,
		bedrockCfg.Temperature,
		bedrockCfg.TopP,
		f.logger.Named("bedrock"),
	), nil
}
