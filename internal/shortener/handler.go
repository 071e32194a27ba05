package shortener

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/sundayezeilo/toolbench/internal/errx"
	"github.com/sundayezeilo/toolbench/internal/httpx"
)

// HTTPShortenRequest represents the JSON request body for shortening a URL.
type HTTPShortenRequest struct {
	URL        string `json:"url"`
	CustomCode string `json:"customCode,omitempty"`
}

// ListLinksResponse represents the JSON response listing every link.
type ListLinksResponse struct {
	Links       []Link `json:"links"`
	TotalLinks  int    `json:"totalLinks"`
	TotalClicks int64  `json:"totalClicks"`
}

// Handler provides HTTP handlers for the URL analytics tool.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Service Service
	Logger  *slog.Logger
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		service: cfg.Service,
		logger:  logger,
	}
}

func (h *Handler) requestLogger(r *http.Request) *slog.Logger {
	return h.logger.With(
		"request_id", httpx.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
	)
}

// pathID parses the {id} wildcard and answers 400 when it is not a UUID.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uuid.UUID, bool) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		logger.WarnContext(r.Context(), "invalid link id",
			"error", err.Error(),
		)
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return uuid.Nil, false
	}
	return id, true
}

// CreateLink handles POST requests to shorten a URL.
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	req, err := httpx.DecodeJSON[HTTPShortenRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request",
			"error", err.Error(),
		)
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	if err := validateShortenRequest(req); err != nil {
		logger.WarnContext(ctx, "request validation failed",
			"error", err.Error(),
			"url", req.URL,
			"custom_code", req.CustomCode,
		)
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", err.Error(), nil)
		return
	}

	link, err := h.service.Shorten(ctx, ShortenRequest{
		URL:        req.URL,
		CustomCode: req.CustomCode,
	})
	if err != nil {
		h.handleCreateError(ctx, w, err)
		return
	}

	logger.InfoContext(ctx, "link created successfully",
		"link_id", link.ID.String(),
		"short_code", link.ShortCode,
		"custom_code", req.CustomCode != "",
	)

	httpx.WriteJSON(w, http.StatusCreated, link)
}

// ListLinks handles GET requests listing every link, newest first.
func (h *Handler) ListLinks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	links, err := h.service.List(ctx)
	if err != nil {
		h.handleLinkError(ctx, w, err, "list links", uuid.Nil)
		return
	}

	resp := ListLinksResponse{Links: links, TotalLinks: len(links)}
	for _, l := range links {
		resp.TotalClicks += l.Clicks
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// GetLink handles GET requests for one link.
func (h *Handler) GetLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	id, ok := h.pathID(w, r, logger)
	if !ok {
		return
	}

	link, err := h.service.Get(ctx, id)
	if err != nil {
		h.handleLinkError(ctx, w, err, "get link", id)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, link)
}

// DeleteLink handles DELETE requests for one link.
func (h *Handler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	id, ok := h.pathID(w, r, logger)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		h.handleLinkError(ctx, w, err, "delete link", id)
		return
	}

	logger.InfoContext(ctx, "link deleted",
		"link_id", id.String(),
	)
	w.WriteHeader(http.StatusNoContent)
}

// SimulateClick handles POST requests adding one click to a link.
func (h *Handler) SimulateClick(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	id, ok := h.pathID(w, r, logger)
	if !ok {
		return
	}

	link, err := h.service.SimulateClick(ctx, id)
	if err != nil {
		h.handleLinkError(ctx, w, err, "simulate click", id)
		return
	}

	logger.DebugContext(ctx, "click simulated",
		"link_id", id.String(),
		"clicks", link.Clicks,
	)
	httpx.WriteJSON(w, http.StatusOK, link)
}

// LinkStats handles GET requests for a link's click summary.
func (h *Handler) LinkStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	id, ok := h.pathID(w, r, logger)
	if !ok {
		return
	}

	stats, err := h.service.Stats(ctx, id)
	if err != nil {
		h.handleLinkError(ctx, w, err, "link stats", id)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stats)
}

// LinkQRCode handles GET requests for the PNG QR code of a short URL.
// The optional size query parameter sets the edge length in pixels.
func (h *Handler) LinkQRCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	id, ok := h.pathID(w, r, logger)
	if !ok {
		return
	}

	size := DefaultQRSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < MinQRSize || n > MaxQRSize {
			logger.WarnContext(ctx, "invalid qr size",
				"size", raw,
			)
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
				"size must be an integer between 64 and 1024", nil)
			return
		}
		size = n
	}

	link, err := h.service.Get(ctx, id)
	if err != nil {
		h.handleLinkError(ctx, w, err, "qr code", id)
		return
	}

	png, err := QRCodePNG(link.ShortURL, size)
	if err != nil {
		h.handleLinkError(ctx, w, errx.E("shortener.Handler.LinkQRCode", errx.Internal, err), "qr code", id)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		logger.DebugContext(ctx, "failed to write qr code", "error", err.Error())
	}
}

// ResolveLink handles GET requests to resolve a short code and redirect to
// the original URL. The visit is recorded with its referrer and user agent.
func (h *Handler) ResolveLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	code := r.PathValue("code")
	if code == "" {
		logger.WarnContext(ctx, "missing short code in path")
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "short code is required", nil)
		return
	}

	originalURL, err := h.service.Resolve(ctx, code, Click{
		Referrer:  r.Referer(),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		h.handleResolveError(ctx, w, err, code)
		return
	}

	logger.InfoContext(ctx, "short code resolved successfully",
		"short_code", code,
		"original_url", originalURL,
		"user_agent", r.UserAgent(),
		"referer", r.Referer(),
	)

	http.Redirect(w, r, originalURL, http.StatusFound)
}

// handleCreateError handles errors from the Shorten service method.
func (h *Handler) handleCreateError(ctx context.Context, w http.ResponseWriter, err error) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
	}

	switch kind {
	case errx.Conflict:
		h.logger.WarnContext(ctx, "short code conflict", logAttrs...)
		httpx.WriteError(w, http.StatusConflict, "conflict",
			"This short code is already taken",
			map[string]string{
				"hint": "Try a different custom code or let us generate one for you",
			})

	case errx.Invalid:
		h.logger.WarnContext(ctx, "invalid link request", logAttrs...)
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", errx.Message(err), nil)

	case errx.Unavailable:
		h.logger.ErrorContext(ctx, "service unavailable", logAttrs...)
		httpx.WriteError(w, http.StatusServiceUnavailable, "unavailable",
			"Unable to create short link at this time. Please try again.", nil)

	default:
		h.logger.ErrorContext(ctx, "unexpected error creating link", logAttrs...)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error",
			"Unable to create short link at this time. Please try again.", nil)
	}
}

// handleLinkError handles errors from operations addressing one link by id.
func (h *Handler) handleLinkError(ctx context.Context, w http.ResponseWriter, err error, action string, id uuid.UUID) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
		"action", action,
	}
	if id != uuid.Nil {
		logAttrs = append(logAttrs, "link_id", id.String())
	}

	switch kind {
	case errx.NotFound:
		h.logger.WarnContext(ctx, "link not found", logAttrs...)
	case errx.Invalid, errx.Conflict:
		h.logger.WarnContext(ctx, "link request rejected", logAttrs...)
	default:
		h.logger.ErrorContext(ctx, "unexpected link error", logAttrs...)
	}

	httpx.WriteKindError(w, err, "Unable to "+action+" at this time")
}

// handleResolveError handles errors from the Resolve service method.
func (h *Handler) handleResolveError(ctx context.Context, w http.ResponseWriter, err error, code string) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
		"short_code", code,
	}

	switch kind {
	case errx.NotFound:
		h.logger.WarnContext(ctx, "short code not found", logAttrs...)
		httpx.WriteError(w, http.StatusNotFound, "not_found",
			"short link doesn't exist", nil)

	case errx.Invalid:
		h.logger.WarnContext(ctx, "invalid short code", logAttrs...)
		httpx.WriteError(w, http.StatusBadRequest, "invalid_code", errx.Message(err), nil)

	default:
		h.logger.ErrorContext(ctx, "unexpected error resolving link", logAttrs...)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error",
			"Unable to resolve this link at this time", nil)
	}
}

// validateShortenRequest validates the HTTPShortenRequest.
func validateShortenRequest(req HTTPShortenRequest) error {
	if req.URL == "" {
		return errors.New("url is required")
	}
	return nil
}
