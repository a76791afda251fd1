package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/netsereno/internal/adapters/httpapi"
	"github.com/mikey/netsereno/internal/config"
	"github.com/mikey/netsereno/internal/core"
	"github.com/mikey/netsereno/internal/factory"
	"github.com/mikey/netsereno/internal/logging"
	"github.com/mikey/netsereno/internal/ports"
	"github.com/mikey/netsereno/internal/report"
	"github.com/mikey/netsereno/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideAnalysis(container); err != nil {
		return nil, err
	}

	// Register HTTP front-end
	if err := container.Provide(func(
		cfg *config.Config,
		service *core.AnalysisService,
		renderer *report.Renderer,
		logger *zap.Logger,
	) (ports.Frontend, error) {
		serverCfg, err := cfg.GetServer()
		if err != nil {
			return nil, err
		}
		return httpapi.NewServer(service, renderer, serverCfg, logger.Named("http")), nil
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideAnalysis registers everything between the configuration and the
// analysis service. It expects *config.Config and *zap.Logger to be provided.
func provideAnalysis(container *dig.Container) error {
	// Register factories
	if err := container.Provide(factory.NewGeneratorFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return err
	}

	// Register generator
	if err := container.Provide(func(f *factory.GeneratorFactory) (core.Generator, error) {
		return f.CreateGenerator()
	}); err != nil {
		return err
	}

	// Register prompt template
	if err := container.Provide(func(cfg *config.Config) (core.PromptTemplate, error) {
		return core.LookupPromptTemplate(cfg.GetAssessment().Language)
	}); err != nil {
		return err
	}

	// Register normalizer and assessor
	if err := container.Provide(core.NewNormalizer); err != nil {
		return err
	}
	if err := container.Provide(core.NewAssessor); err != nil {
		return err
	}

	// Register analysis service
	if err := container.Provide(core.NewAnalysisService); err != nil {
		return err
	}

	// Register report renderer
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) (*report.Renderer, error) {
		reportCfg := cfg.GetReport()
		return report.NewRenderer(reportCfg.Brand, reportCfg.Language, logger.Named("report"))
	}); err != nil {
		return err
	}

	return nil
}
