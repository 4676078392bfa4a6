package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"formdetect/internal/form/models"
	"formdetect/internal/platform/middleware"
	"formdetect/pkg/platform/httputil"
)

// Service defines the form operations the transport layer needs.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	Match(ctx context.Context, form map[string]string) (*models.MatchResult, error)
	Register(ctx context.Context, name string, fields map[string]string) (*models.Template, error)
	Templates(ctx context.Context) ([]*models.Template, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/api/v1/forms/detect", h.HandleDetect)
	r.Post("/api/v1/templates", h.HandleRegisterTemplate)
	r.Get("/api/v1/templates", h.HandleListTemplates)
}

// HandleDetect matches a submitted form against the template catalog.
// The body is a JSON object of field name to raw string value. A match
// returns the template name; a miss returns the inferred signature so
// the caller can inspect or register it.
func (h *Handler) HandleDetect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	form, ok := httputil.DecodeJSON[map[string]string](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Match(ctx, *form)
	if err != nil {
		h.logger.ErrorContext(ctx, "match failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	if result.Matched {
		httputil.WriteJSON(w, http.StatusOK, &DetectMatchedResponse{TemplateName: result.TemplateName})
		return
	}
	// Unmatched: the response body is the signature itself, one type
	// string per submitted field.
	httputil.WriteJSON(w, http.StatusOK, result.Signature)
}

// HandleRegisterTemplate adds a template to the catalog. The field values
// in the request are examples: they are classified into a type signature
// and only the signature is stored.
func (h *Handler) HandleRegisterTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterTemplateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	template, err := h.service.Register(ctx, req.Name, req.Fields)
	if err != nil {
		h.logger.ErrorContext(ctx, "register template failed", "error", err, "request_id", requestID, "template", req.Name)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toTemplateResponse(template))
}

// HandleListTemplates returns the catalog in registration order.
func (h *Handler) HandleListTemplates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	templates, err := h.service.Templates(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list templates failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	response := ListTemplatesResponse{
		Templates: make([]TemplateResponse, 0, len(templates)),
		Count:     len(templates),
	}
	for _, template := range templates {
		response.Templates = append(response.Templates, toTemplateResponse(template))
	}
	httputil.WriteJSON(w, http.StatusOK, response)
}
