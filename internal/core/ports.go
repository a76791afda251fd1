package core

import (
	"context"
)

// Generator defines the interface for the external text-generation service
type Generator interface {
	// Generate sends a prompt and returns the raw text produced by the model
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f(ctx, prompt)
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
