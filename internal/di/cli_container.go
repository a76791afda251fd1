package di

import (
	"flag"
	"os"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/netsereno/internal/adapters/cli"
	"github.com/mikey/netsereno/internal/config"
	"github.com/mikey/netsereno/internal/core"
	"github.com/mikey/netsereno/internal/logging"
	"github.com/mikey/netsereno/internal/report"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// LLM provider flags
	Provider    string
	MaxTokens   int
	Temperature float64
	TopP        float64

	// Bedrock flags
	BedrockRegion  string
	BedrockModelID string

	// Gemini flags
	GeminiAPIKey    string
	GeminiModelName string

	// OpenAI flags
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIModelName string

	// Output language flags
	Language       string
	ReportLanguage string

	// Input and output flags
	InputFile  string
	Text       string
	JSON       bool
	ReportPath string
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	return parseFlags(flag.CommandLine, os.Args[1:])
}

func parseFlags(fs *flag.FlagSet, args []string) *CLIFlags {
	flags := &CLIFlags{}

	// LLM provider flags
	fs.StringVar(&flags.Provider, "provider", "gemini", "LLM provider (gemini, openai, bedrock)")
	fs.IntVar(&flags.MaxTokens, "max-tokens", 1000, "Maximum tokens for LLM response")
	fs.Float64Var(&flags.Temperature, "temperature", 0.2, "Temperature for LLM generation")
	fs.Float64Var(&flags.TopP, "top-p", 0.9, "Top-p for LLM generation")

	// Bedrock flags
	fs.StringVar(&flags.BedrockRegion, "bedrock-region", "us-east-1", "AWS region for Bedrock")
	fs.StringVar(&flags.BedrockModelID, "bedrock-model", "anthropic.claude-3-haiku-20240307-v1:0", "Bedrock model ID")

	// Gemini flags
	fs.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini (default $GOOGLE_API_KEY)")
	fs.StringVar(&flags.GeminiModelName, "gemini-model", "gemini-1.5-flash", "Gemini model name")

	// OpenAI flags
	fs.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI (default $OPENAI_API_KEY)")
	fs.StringVar(&flags.OpenAIBaseURL, "openai-base-url", "", "Base URL of an OpenAI compatible API")
	fs.StringVar(&flags.OpenAIModelName, "openai-model", "gpt-4o-mini", "OpenAI model name")

	// Output language flags
	fs.StringVar(&flags.Language, "lang", "es", "Assessment prompt language (es, en)")
	fs.StringVar(&flags.ReportLanguage, "report-lang", "es", "PDF report language (es, en)")

	// Input and output flags
	fs.StringVar(&flags.InputFile, "file", "", "Input .eml or .txt file")
	fs.StringVar(&flags.Text, "text", "", "Text to analyze (stdin is read as a raw message if neither -file nor -text is given)")
	fs.BoolVar(&flags.JSON, "json", false, "Print the analysis as JSON")
	fs.StringVar(&flags.ReportPath, "report", "", "Write the PDF report to this path")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	// flag.CommandLine exits on error
	_ = fs.Parse(args)
	return flags
}

// Request converts the input flags into a CLI request
func (f *CLIFlags) Request() cli.Request {
	req := cli.Request{
		File:       f.InputFile,
		Text:       f.Text,
		JSON:       f.JSON,
		ReportPath: f.ReportPath,
	}
	if f.InputFile == "" && f.Text == "" {
		req.Stdin = os.Stdin
	}
	return req
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.NewFromFile(flags.ConfigFile)
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		// Create config from command line flags
		return createConfigFromFlags(flags)
	}); err != nil {
		return nil, err
	}

	if err := provideAnalysis(container); err != nil {
		return nil, err
	}

	// Register CLI runner
	if err := container.Provide(func(
		flags *CLIFlags,
		service *core.AnalysisService,
		renderer *report.Renderer,
		logger *zap.Logger,
	) *cli.Runner {
		return cli.NewRunner(service, renderer, logger.Named("cli"), os.Stdout, flags.Verbose)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags.
// API keys left empty fall back to the environment.
func createConfigFromFlags(flags *CLIFlags) (*config.Config, error) {
	v := config.NewEmptyViper()
	if err := config.BindEnv(v); err != nil {
		return nil, err
	}

	// Set LLM provider
	v.Set("llm.provider", flags.Provider)

	// Set provider-specific configuration
	switch flags.Provider {
	case "bedrock":
		v.Set("bedrock.region", flags.BedrockRegion)
		v.Set("bedrock.model_id", flags.BedrockModelID)
		v.Set("bedrock.max_tokens", flags.MaxTokens)
		v.Set("bedrock.temperature", flags.Temperature)
		v.Set("bedrock.top_p", flags.TopP)
	case "gemini":
		if flags.GeminiAPIKey != "" {
			v.Set("gemini.api_key", flags.GeminiAPIKey)
		}
		v.Set("gemini.model_name", flags.GeminiModelName)
		v.Set("gemini.max_tokens", flags.MaxTokens)
		v.Set("gemini.temperature", flags.Temperature)
		v.Set("gemini.top_p", flags.TopP)
	case "openai":
		if flags.OpenAIAPIKey != "" {
			v.Set("openai.api_key", flags.OpenAIAPIKey)
		}
		v.Set("openai.base_url", flags.OpenAIBaseURL)
		v.Set("openai.model_name", flags.OpenAIModelName)
		v.Set("openai.max_tokens", flags.MaxTokens)
		v.Set("openai.temperature", flags.Temperature)
		v.Set("openai.top_p", flags.TopP)
	}

	// Set output languages
	v.Set("assessment.language", flags.Language)
	v.Set("report.language", flags.ReportLanguage)

	return config.NewFromViper(v), nil
}
