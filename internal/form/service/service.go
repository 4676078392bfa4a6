// Package service orchestrates field classification, the template
// catalog, and the storage collaborator behind the HTTP handlers.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"formdetect/internal/classify"
	"formdetect/internal/form/models"
	"formdetect/internal/form/tracer"
	"formdetect/internal/platform/metrics"
	"formdetect/internal/sentinel"
	dErrors "formdetect/pkg/domain-errors"
)

// Catalog is the in-memory template collection. Implementations must make
// the duplicate check and the append atomic and support concurrent reads.
type Catalog interface {
	Register(ctx context.Context, t *models.Template) error
	FindBySignature(ctx context.Context, query models.Signature) (*models.Template, error)
	All(ctx context.Context) ([]*models.Template, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Storage is the persistence collaborator: it loads the catalog at
// startup and appends each newly registered template.
type Storage interface {
	LoadAll(ctx context.Context) ([]*models.Template, error)
	Append(ctx context.Context, t *models.Template) error
}

// Service holds no per-request state; every operation is safe to call
// from concurrent HTTP handlers. registerMu serializes registrations so
// the order of appends in storage always matches the catalog's
// registration order: match resolution is order-dependent, and a reload
// replays storage order into the catalog.
type Service struct {
	catalog    Catalog
	storage    Storage
	classifier *classify.Classifier
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     tracer.Tracer

	registerMu sync.Mutex
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer attaches a tracer. Defaults to a no-op tracer.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New creates the form service.
func New(catalog Catalog, storage Storage, classifier *classify.Classifier, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		catalog:    catalog,
		storage:    storage,
		classifier: classifier,
		logger:     logger,
		tracer:     tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Match classifies every field of form and scans the catalog for the
// first template whose declared fields are all satisfied. It is total
// over any mapping of strings: unclassifiable values degrade to text,
// and a miss is a result, not an error.
func (s *Service) Match(ctx context.Context, form map[string]string) (*models.MatchResult, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanMatch, tracer.Int(tracer.AttrFieldCount, len(form)))

	signature := models.BuildSignature(s.classifier, form)

	s.metrics.MarkSubmission()
	for _, fieldType := range signature {
		s.metrics.MarkField(string(fieldType))
	}

	template, err := s.catalog.FindBySignature(ctx, signature)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			span.SetAttributes(tracer.Bool(tracer.AttrMatched, false))
			span.End(nil)
			s.metrics.MarkMiss()
			s.logger.InfoContext(ctx, "no template matched", "field_count", len(form))
			return &models.MatchResult{Matched: false, Signature: signature}, nil
		}
		span.End(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "catalog lookup failed")
	}

	span.SetAttributes(
		tracer.Bool(tracer.AttrMatched, true),
		tracer.String(tracer.AttrTemplate, template.Name),
	)
	span.End(nil)
	s.metrics.MarkMatch(template.Name)
	s.logger.InfoContext(ctx, "template matched", "template", template.Name, "field_count", len(form))

	return &models.MatchResult{Matched: true, TemplateName: template.Name, Signature: signature}, nil
}

// Register classifies the example field values, registers the resulting
// signature in the catalog, and writes it through to storage. A storage
// failure rolls the catalog insert back so the catalog never holds a
// template the storage collaborator did not confirm.
func (s *Service) Register(ctx context.Context, name string, fields map[string]string) (*models.Template, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanRegister, tracer.String(tracer.AttrTemplate, name))

	name = strings.TrimSpace(name)
	if name == "" {
		err := dErrors.New(dErrors.CodeValidation, "template name is required")
		span.End(err)
		return nil, err
	}
	if len(fields) == 0 {
		err := dErrors.New(dErrors.CodeValidation, "template must declare at least one field")
		span.End(err)
		return nil, err
	}

	template := models.NewTemplate(name, models.BuildSignature(s.classifier, fields))

	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	if err := s.catalog.Register(ctx, template); err != nil {
		span.End(err)
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "a template with an identical signature is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "catalog registration failed")
	}

	if err := s.storage.Append(ctx, template); err != nil {
		if rollbackErr := s.catalog.Delete(ctx, template.ID); rollbackErr != nil {
			s.logger.ErrorContext(ctx, "rollback after storage failure failed",
				"template", name, "error", rollbackErr)
		}
		span.End(err)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "catalog storage unavailable")
	}

	span.End(nil)
	s.metrics.MarkRegistration()
	s.logger.InfoContext(ctx, "template registered", "template", name, "fields", len(fields))

	return template, nil
}

// Templates returns a snapshot of the catalog in registration order.
func (s *Service) Templates(ctx context.Context) ([]*models.Template, error) {
	templates, err := s.catalog.All(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "catalog enumeration failed")
	}
	return templates, nil
}

// Load hydrates the catalog from storage at startup. Templates whose
// signatures collide are skipped with a warning so a hand-edited catalog
// file cannot wedge startup, but an unreadable file is fatal.
func (s *Service) Load(ctx context.Context) (int, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanLoad)

	templates, err := s.storage.LoadAll(ctx)
	if err != nil {
		span.End(err)
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, fmt.Sprintf("catalog storage unreadable: %v", err))
	}

	loaded := 0
	for _, template := range templates {
		if err := s.catalog.Register(ctx, template); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				s.logger.WarnContext(ctx, "skipping stored template with duplicate signature",
					"template", template.Name)
				continue
			}
			span.End(err)
			return loaded, dErrors.Wrap(err, dErrors.CodeInternal, "catalog hydration failed")
		}
		loaded++
	}

	span.SetAttributes(tracer.Int(tracer.AttrTemplateCount, loaded))
	span.End(nil)
	return loaded, nil
}
