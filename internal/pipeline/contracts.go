package pipeline

import (
	"context"
	"errors"

	"github.com/tdalton7/earnex/internal/extract"
	"github.com/tdalton7/earnex/internal/oracle"
)

// Document is one input to the extraction pipeline: an opaque payload
// plus a display name. It is owned by the worker processing it and
// discarded once the strategy reaches a terminal state.
type Document struct {
	Name string
	Data []byte
}

// Oracle is the external model client the strategy calls. Implemented
// by *oracle.Client; faked in tests.
type Oracle interface {
	InvokeText(ctx context.Context, prompt, text string) (string, error)
	InvokeDocument(ctx context.Context, prompt string, doc []byte, mediaType string) (string, error)
}

// TextExtractor converts document bytes to plain text for the cheap
// tier. A failure here triggers escalation, never a user-facing error.
type TextExtractor func(doc Document) (string, error)

// Result is the terminal outcome of one strategy run. Exactly one of
// Record and Err is set.
type Result struct {
	Document   string                    `json:"document"`
	Record     *extract.ExtractionRecord `json:"record,omitempty"`
	Validation extract.ValidationOutcome `json:"validation"`
	Tier       oracle.Tier               `json:"tier,omitempty"`
	Err        error                     `json:"-"`
}

// BatchOutcome holds one Result per input document, in input order.
type BatchOutcome []Result

// FailureKind tags a terminal strategy error for the boundary layer.
func FailureKind(err error) string {
	if err == nil {
		return ""
	}
	var parseErr *extract.ParseError
	if errors.As(err, &parseErr) {
		return "parse_failure"
	}
	return string(oracle.KindOf(err))
}
