// Package seeder populates the template catalog with the built-in
// template set, equivalent to calling register once per entry.
package seeder

import (
	"context"
	"fmt"
	"log/slog"

	"formdetect/internal/form/models"
	dErrors "formdetect/pkg/domain-errors"
)

// Registrar registers one template from example field values.
type Registrar interface {
	Register(ctx context.Context, name string, fields map[string]string) (*models.Template, error)
}

// Seeder registers the built-in templates through the form service.
type Seeder struct {
	registrar Registrar
	logger    *slog.Logger
}

// New creates a new seeder.
func New(registrar Registrar, logger *slog.Logger) *Seeder {
	return &Seeder{registrar: registrar, logger: logger}
}

// seedTemplate pairs a template name with example field values; the
// values are classified at registration and only their types are kept.
type seedTemplate struct {
	name   string
	fields map[string]string
}

var defaultTemplates = []seedTemplate{
	{
		name: "MyForm",
		fields: map[string]string{
			"email": "d@a.w",
			"phone": "+78005553535",
			"date":  "11.08.1997",
			"text":  "dsvcsd",
		},
	},
	{
		name: "OrderCallback",
		fields: map[string]string{
			"customer_name": "Ivan Petrov",
			"callback_at":   "2024.03.01",
			"phone":         "88005553535",
		},
	},
	{
		name: "SupportTicket",
		fields: map[string]string{
			"email":   "user@example.com",
			"subject": "cannot log in",
			"message": "steps to reproduce",
		},
	},
}

// SeedAll registers every built-in template, skipping those whose
// signature is already in the catalog so seeding is idempotent.
func (s *Seeder) SeedAll(ctx context.Context) (int, error) {
	seeded := 0
	for _, seed := range defaultTemplates {
		if _, err := s.registrar.Register(ctx, seed.name, seed.fields); err != nil {
			if dErrors.HasCode(err, dErrors.CodeConflict) {
				s.logger.Info("template already registered, skipping", "template", seed.name)
				continue
			}
			return seeded, fmt.Errorf("seed template %q: %w", seed.name, err)
		}
		s.logger.Info("template seeded", "template", seed.name)
		seeded++
	}
	return seeded, nil
}
