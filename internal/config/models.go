package config

import (
	"fmt"
	"time"
)

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// ServerConfig represents the configuration for the HTTP front-end
type ServerConfig struct {
	ListenAddress   string
	Mode            string
	AnalysisTimeout time.Duration
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64
}

// AssessmentConfig selects the prompt used for risk assessment
type AssessmentConfig struct {
	Language string
}

// ReportConfig represents the configuration for PDF reports
type ReportConfig struct {
	Brand    string
	Language string
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		BaseURL:     c.GetString("openai.base_url"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetServer returns the HTTP server configuration
func (c *Config) GetServer() (ServerConfig, error) {
	analysisTimeout, err := c.GetDuration("server.analysis_timeout")
	if err != nil {
		return ServerConfig{}, fmt.Errorf("invalid server.analysis_timeout: %w", err)
	}
	shutdownTimeout, err := c.GetDuration("server.shutdown_timeout")
	if err != nil {
		return ServerConfig{}, fmt.Errorf("invalid server.shutdown_timeout: %w", err)
	}
	maxUpload := c.GetInt64("server.max_upload_bytes")
	if maxUpload <= 0 {
		return ServerConfig{}, fmt.Errorf("server.max_upload_bytes must be positive, got %d", maxUpload)
	}

	return ServerConfig{
		ListenAddress:   c.GetString("server.listen_address"),
		Mode:            c.GetString("server.mode"),
		AnalysisTimeout: analysisTimeout,
		ShutdownTimeout: shutdownTimeout,
		MaxUploadBytes:  maxUpload,
	}, nil
}

// GetAssessment returns the assessment configuration
func (c *Config) GetAssessment() AssessmentConfig {
	return AssessmentConfig{
		Language: c.GetString("assessment.language"),
	}
}

// GetReport returns the report configuration
func (c *Config) GetReport() ReportConfig {
	return ReportConfig{
		Brand:    c.GetString("report.brand"),
		Language: c.GetString("report.language"),
	}
}
