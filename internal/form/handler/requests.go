package handler

import (
	"strings"

	dErrors "formdetect/pkg/domain-errors"
)

// RegisterTemplateRequest registers a named template from example field
// values.
type RegisterTemplateRequest struct {
	Name   string            `json:"name"`
	Fields map[string]string `json:"fields"`
}

func (r *RegisterTemplateRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

func (r *RegisterTemplateRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "template name is required")
	}
	if len(r.Fields) == 0 {
		return dErrors.New(dErrors.CodeValidation, "template must declare at least one field")
	}
	return nil
}
