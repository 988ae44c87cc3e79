package pipeline

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/tdalton7/earnex/internal/extract"
	"github.com/tdalton7/earnex/internal/oracle"
	"github.com/tdalton7/earnex/internal/parser"
)

// StrategyConfig holds the escalation thresholds. Both are tunables
// without a derived value; the defaults come from observed behavior.
type StrategyConfig struct {
	// MinTextChars is the minimum extracted-text length below which the
	// cheap tier is skipped entirely.
	MinTextChars int
	// MinFieldCount is the minimum number of present financial fields
	// (besides company) a cheap-tier record needs to be accepted.
	MinFieldCount int
}

// Strategy decides, per document, whether the cheap text tier
// suffices or the document must escalate to the vision tier.
//
// States: Start -> TextAttempted -> {Accepted | Escalating} ->
// VisionAttempted -> Accepted | Failed.
type Strategy struct {
	oracle      Oracle
	cheapPool   *Pool
	visionPool  *Pool
	retry       Retry
	cfg         StrategyConfig
	extractText TextExtractor
	log         *slog.Logger
}

func NewStrategy(oc Oracle, cheap, vision *Pool, retry Retry, cfg StrategyConfig, log *slog.Logger) *Strategy {
	if cfg.MinTextChars <= 0 {
		cfg.MinTextChars = 100
	}
	if cfg.MinFieldCount <= 0 {
		cfg.MinFieldCount = 2
	}
	return &Strategy{
		oracle:      oc,
		cheapPool:   cheap,
		visionPool:  vision,
		retry:       retry,
		cfg:         cfg,
		extractText: ExtractDocumentText,
		log:         log,
	}
}

// SetTextExtractor overrides the text extraction collaborator (for tests).
func (s *Strategy) SetTextExtractor(fn TextExtractor) {
	s.extractText = fn
}

// ExtractDocumentText is the default text extractor, dispatching on
// file extension.
func ExtractDocumentText(doc Document) (string, error) {
	p, err := parser.ForFile(doc.Name)
	if err != nil {
		return "", err
	}
	return p.Parse(bytes.NewReader(doc.Data), doc.Name)
}

// Run drives one document to a terminal state. The cheap path is
// attempted first; escalation targets structural failure (no text, no
// company), not mere field sparsity.
func (s *Strategy) Run(ctx context.Context, doc Document) Result {
	log := s.log.With("document", doc.Name)
	prompt := extract.BuildPrompt(doc.Name)

	text, err := s.extractText(doc)
	if err != nil {
		log.Warn("text extraction failed, escalating", "error", err)
		return s.runVision(ctx, doc, prompt, log)
	}
	if n := len(strings.TrimSpace(text)); n < s.cfg.MinTextChars {
		log.Info("extracted text too short, escalating", "chars", n)
		return s.runVision(ctx, doc, prompt, log)
	}

	reply, err := s.retry.Do(ctx, func(ctx context.Context) (string, error) {
		if err := s.cheapPool.Acquire(ctx); err != nil {
			return "", err
		}
		defer s.cheapPool.Release()
		return s.oracle.InvokeText(ctx, prompt, text)
	})
	if err != nil {
		log.Error("text tier failed", "error", err, "kind", FailureKind(err))
		return Result{Document: doc.Name, Err: err}
	}

	rec, err := extract.ParseReply(reply)
	if err != nil {
		log.Error("text tier reply unparseable", "error", err)
		return Result{Document: doc.Name, Err: err}
	}

	if !rec.HasCompany() || rec.FinancialFieldCount() < s.cfg.MinFieldCount {
		log.Info("text tier insufficient, escalating",
			"has_company", rec.HasCompany(),
			"fields", rec.FinancialFieldCount(),
		)
		return s.runVision(ctx, doc, prompt, log)
	}

	log.Info("accepted from text tier", "fields", rec.FinancialFieldCount())
	return Result{
		Document:   doc.Name,
		Record:     rec,
		Validation: extract.Validate(rec),
		Tier:       oracle.TierText,
	}
}

// runVision submits the raw document to the expensive tier.
func (s *Strategy) runVision(ctx context.Context, doc Document, prompt string, log *slog.Logger) Result {
	reply, err := s.retry.Do(ctx, func(ctx context.Context) (string, error) {
		if err := s.visionPool.Acquire(ctx); err != nil {
			return "", err
		}
		defer s.visionPool.Release()
		return s.oracle.InvokeDocument(ctx, prompt, doc.Data, parser.MediaType(doc.Name))
	})
	if err != nil {
		log.Error("vision tier failed", "error", err, "kind", FailureKind(err))
		return Result{Document: doc.Name, Err: err}
	}

	rec, err := extract.ParseReply(reply)
	if err != nil {
		log.Error("vision tier reply unparseable", "error", err)
		return Result{Document: doc.Name, Err: err}
	}

	log.Info("accepted from vision tier", "fields", rec.FinancialFieldCount())
	return Result{
		Document:   doc.Name,
		Record:     rec,
		Validation: extract.Validate(rec),
		Tier:       oracle.TierVision,
	}
}
