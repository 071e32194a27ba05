package palette

import (
	"log/slog"
	"net/http"

	"github.com/sundayezeilo/toolbench/internal/errx"
	"github.com/sundayezeilo/toolbench/internal/httpx"
)

// HTTPGenerateRequest represents the JSON body of a palette request. Every
// field is optional.
type HTTPGenerateRequest struct {
	Base   string `json:"base,omitempty"`
	Scheme string `json:"scheme,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// Handler serves the color palette page.
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a new Handler instance.
func NewHandler(logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger}
}

// Generate handles POST requests building a palette.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With(
		"request_id", httpx.GetRequestID(ctx),
		"method", r.Method,
		"path", r.URL.Path,
	)

	req, err := httpx.DecodeOptionalJSON[HTTPGenerateRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	scheme, err := ParseScheme(req.Scheme)
	if err != nil {
		logger.WarnContext(ctx, "unknown scheme", "scheme", req.Scheme)
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", errx.Message(err),
			map[string]any{"schemes": Schemes()})
		return
	}

	p, err := Generate(req.Base, scheme, req.Count)
	if err != nil {
		logger.WarnContext(ctx, "palette rejected",
			"error", err.Error(),
			"error_kind", errx.KindOf(err),
			"base", req.Base,
		)
		httpx.WriteKindError(w, err, "Unable to generate a palette at this time")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, p)
}

// ListSchemes handles GET requests for the supported schemes.
func (h *Handler) ListSchemes(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"schemes":  Schemes(),
		"maxCount": MaxCount,
	})
}
