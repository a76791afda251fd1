package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/gabriel-vasile/mimetype"
	"github.com/mikey/netsereno/internal/utils"
	"go.uber.org/zap"
)

const (
	plainTextExt = ".txt"
	mailExt      = ".eml"
)

// Normalizer converts uploaded artifacts into EmailRecords
type Normalizer struct {
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewNormalizer creates a new Normalizer
func NewNormalizer(logger *zap.Logger, textProcessor *utils.TextProcessor) *Normalizer {
	return &Normalizer{
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// Normalize classifies the artifact and extracts its subject, sender and body.
// The returned error, if any, is always an *ExtractionError.
func (n *Normalizer) Normalize(a Artifact) (EmailRecord, error) {
	name := strings.ToLower(a.Name)

	switch {
	case isPlainText(a.ContentType) || strings.HasSuffix(name, plainTextExt):
		n.logger.Debug("Treating artifact as plain text",
			zap.String("name", a.Name),
			zap.String("content_type", a.ContentType))
		return EmailRecord{
			Subject: SubjectPastedText,
			Sender:  SenderPlainText,
			Body:    n.textProcessor.SanitizeUTF8(a.Data),
		}, nil
	case strings.HasSuffix(name, mailExt):
		return n.parseMessage(a)
	default:
		return EmailRecord{}, &ExtractionError{Name: a.Name, Err: ErrUnsupportedFormat}
	}
}

// NewManualRecord builds the record for text pasted directly by a user
func (n *Normalizer) NewManualRecord(text string) EmailRecord {
	return EmailRecord{
		Subject: SubjectManual,
		Sender:  SenderManual,
		Body:    n.textProcessor.SanitizeString(text),
	}
}

func isPlainText(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Browsers occasionally send parameters we cannot parse
		mediaType = strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	}
	return strings.EqualFold(mediaType, "text/plain")
}

// isTextual reports whether sniffed content is a mail message or descends
// from text/plain.
func isTextual(data []byte) bool {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is("text/plain") || m.Is("message/rfc822") {
			return true
		}
	}
	return false
}

func (n *Normalizer) parseMessage(a Artifact) (EmailRecord, error) {
	if len(a.Data) > 0 && !isTextual(a.Data) {
		return EmailRecord{}, corrupt(a.Name, fmt.Errorf("content sniffed as %s", mimetype.Detect(a.Data).String()))
	}

	mr, err := mail.CreateReader(bytes.NewReader(a.Data))
	if err != nil && (mr == nil || !isUnknownTextEncoding(err)) {
		return EmailRecord{}, corrupt(a.Name, err)
	}

	record := EmailRecord{
		Subject: n.headerText(mr.Header, "Subject", SubjectMissing),
		Sender:  n.headerText(mr.Header, "From", SenderMissing),
	}

	plain, html, err := n.selectBodies(mr)
	if err != nil {
		return EmailRecord{}, corrupt(a.Name, err)
	}

	switch {
	case plain != nil:
		record.Body = n.textProcessor.SanitizeUTF8(plain)
	case html != nil:
		record.Body = n.textProcessor.SanitizeUTF8(html)
	default:
		record.Body = BodyMissing
	}

	n.logger.Debug("Parsed mail container",
		zap.String("name", a.Name),
		zap.Bool("plain_part", plain != nil),
		zap.Bool("html_part", html != nil),
		zap.Int("body_size", len(record.Body)))

	return record, nil
}

// headerText returns the decoded header value, its raw value when decoding
// fails, or fallback when the header is absent or blank.
func (n *Normalizer) headerText(h mail.Header, key, fallback string) string {
	value, err := h.Text(key)
	if err != nil {
		n.logger.Debug("Could not decode header, using raw value",
			zap.String("header", key),
			zap.Error(err))
		value = h.Get(key)
	}
	value = n.textProcessor.SanitizeString(strings.TrimSpace(value))
	if value == "" {
		return fallback
	}
	return value
}

// selectBodies returns the content of the first inline text/plain part and
// of the first inline text/html part. Either may be nil.
func (n *Normalizer) selectBodies(mr *mail.Reader) (plain, html []byte, err error) {
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if !isUnknownTextEncoding(err) {
				return nil, nil, err
			}
			if part == nil {
				n.logger.Debug("Skipping undecodable part", zap.Error(err))
				continue
			}
			// The body is left undecoded; SanitizeUTF8 repairs it later
			n.logger.Debug("Using undecoded part", zap.Error(err))
		}

		inline, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType := partType(inline)

		switch {
		case contentType == "text/plain" && plain == nil:
			if plain, err = io.ReadAll(part.Body); err != nil {
				return nil, nil, fmt.Errorf("read text/plain part: %w", err)
			}
		case contentType == "text/html" && html == nil:
			if html, err = io.ReadAll(part.Body); err != nil {
				return nil, nil, fmt.Errorf("read text/html part: %w", err)
			}
		}

		if plain != nil {
			break
		}
	}
	return plain, html, nil
}

// isUnknownTextEncoding reports errors after which go-message still returns
// the raw, undecoded content
func isUnknownTextEncoding(err error) bool {
	return message.IsUnknownCharset(err) || message.IsUnknownEncoding(err)
}

// partType returns the lower-cased media type of a part; parts without a
// Content-Type header are text/plain as per RFC 2045.
func partType(h *mail.InlineHeader) string {
	if h.Get("Content-Type") == "" {
		return "text/plain"
	}
	contentType, _, err := h.ContentType()
	if err != nil {
		return ""
	}
	return strings.ToLower(contentType)
}
