package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/Yangluigie/Reto-Factus/pkg/httputil"
	"github.com/Yangluigie/Reto-Factus/pkg/middleware"

	"github.com/Yangluigie/Reto-Factus/internal/service"
)

// maxInvoiceBody bounds how much of an invoice payload is read before
// forwarding. Factus invoices are small; 1MB is generous.
const maxInvoiceBody = 1 << 20

// InvoiceHandler handles HTTP requests for the invoice and provider token
// endpoints.
type InvoiceHandler struct {
	service *service.InvoiceService
	logger  *slog.Logger
}

// NewInvoiceHandler creates a new invoice HTTP handler.
func NewInvoiceHandler(svc *service.InvoiceService, logger *slog.Logger) *InvoiceHandler {
	return &InvoiceHandler{service: svc, logger: logger}
}

// TokenResponse carries the provider access token for the diagnostic
// endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Authenticate handles GET /authenticate/
//
// It exposes the cached provider token without requiring a session, matching
// the original deployment. Operators should restrict this route at the edge.
func (h *InvoiceHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	token, err := h.service.ProviderToken(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, TokenResponse{AccessToken: token})
}

// CreateInvoice handles POST /create-invoice/
//
// The body is treated as an opaque JSON document: it must parse as JSON, but
// its schema is the provider's concern, and the provider's response body is
// relayed to the caller verbatim.
func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxInvoiceBody))
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{
			Error: "failed to read request body: " + err.Error(),
		})
		return
	}

	if !json.Valid(body) {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{
			Error: "request body must be valid JSON",
		})
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	result, err := h.service.CreateInvoice(r.Context(), userID, body)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteRaw(w, http.StatusCreated, result)
}
