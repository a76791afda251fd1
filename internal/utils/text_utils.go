package utils

import (
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
)

// TextProcessor provides utilities for processing email text
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// Truncate returns at most maxChars characters of text. A non-positive
// limit disables truncation. Truncation is silent: no marker is appended.
func (tp *TextProcessor) Truncate(text string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}

	count := 0
	for i := range text {
		if count == maxChars {
			tp.logger.Debug("Text truncated",
				zap.Int("original_bytes", len(text)),
				zap.Int("truncated_bytes", i),
				zap.Int("max_chars", maxChars))
			return text[:i]
		}
		count++
	}
	return text
}

// SanitizeUTF8 decodes raw bytes as UTF-8, replacing every ill-formed
// sequence with U+FFFD.
func (tp *TextProcessor) SanitizeUTF8(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}

	decoded, err := unicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		tp.logger.Warn("UTF-8 repair failed", zap.Error(err))
		return string([]rune(string(raw)))
	}

	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(raw)),
		zap.Int("sanitized_size", len(decoded)))

	return string(decoded)
}

// SanitizeString is SanitizeUTF8 for text already held in a string
func (tp *TextProcessor) SanitizeString(text string) string {
	if utf8.ValidString(text) {
		return text
	}
	return tp.SanitizeUTF8([]byte(text))
}
