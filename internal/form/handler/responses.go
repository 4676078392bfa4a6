package handler

import (
	"time"

	"formdetect/internal/form/models"
)

// DetectMatchedResponse is returned when a submission matches a
// registered template.
type DetectMatchedResponse struct {
	TemplateName string `json:"template_name"`
}

// TemplateResponse is the transport view of a registered template.
type TemplateResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Fields    models.Signature `json:"fields"`
	CreatedAt string           `json:"created_at"`
}

// ListTemplatesResponse enumerates the catalog in registration order.
type ListTemplatesResponse struct {
	Templates []TemplateResponse `json:"templates"`
	Count     int                `json:"count"`
}

func toTemplateResponse(t *models.Template) TemplateResponse {
	return TemplateResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		Fields:    t.Signature,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
	}
}
