package generation

import (
	"context"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sundayezeilo/toolbench/internal/decor"
	"github.com/sundayezeilo/toolbench/internal/errx"
	"github.com/sundayezeilo/toolbench/internal/httpx"
	"github.com/sundayezeilo/toolbench/internal/render"
	"github.com/sundayezeilo/toolbench/internal/tool"
)

// MaxWait bounds the ?wait= parameter of the generate endpoint.
const MaxWait = 10 * time.Second

// ValuesRequest carries form values keyed by field name.
type ValuesRequest struct {
	Values map[string]any `json:"values"`
}

// ToggleRequest names a multi-select option to flip.
type ToggleRequest struct {
	Field  string `json:"field"`
	Option string `json:"option"`
}

// ItemRequest names a value to add to a multi-select.
type ItemRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// ListToolsResponse lists tools and their categories.
type ListToolsResponse struct {
	Tools      []*tool.Tool `json:"tools"`
	Categories []string     `json:"categories"`
	Query      string       `json:"query,omitempty"`
}

// ToolResponse is a tool descriptor with its default values.
type ToolResponse struct {
	Tool     *tool.Tool     `json:"tool"`
	Defaults map[string]any `json:"defaults"`
}

// RenderResponse is the result of a synchronous render.
type RenderResponse struct {
	Tool         string         `json:"tool"`
	Values       map[string]any `json:"values"`
	Result       string         `json:"result"`
	ResultFormat render.Format  `json:"resultFormat"`
}

// SessionResponse is a session snapshot whose result is converted to
// ResultFormat.
type SessionResponse struct {
	Snapshot
	ResultFormat render.Format `json:"resultFormat"`
}

// Handler provides HTTP handlers for the tool catalog and tool sessions.
type Handler struct {
	registry *tool.Registry
	sessions *Manager
	renderer *render.Renderer
	decor    decor.Provider
	logger   *slog.Logger
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Registry *tool.Registry
	Sessions *Manager
	Renderer *render.Renderer
	Decor    decor.Provider
	Logger   *slog.Logger
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	renderer := cfg.Renderer
	if renderer == nil {
		renderer = render.New(render.Options{})
	}
	deco := cfg.Decor
	if deco == nil {
		deco = decor.Default
	}

	return &Handler{
		registry: cfg.Registry,
		sessions: cfg.Sessions,
		renderer: renderer,
		decor:    deco,
		logger:   logger,
	}
}

func (h *Handler) requestLogger(r *http.Request) *slog.Logger {
	return h.logger.With(
		"request_id", httpx.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
	)
}

func (h *Handler) lookupTool(w http.ResponseWriter, r *http.Request) (*tool.Tool, bool) {
	t, err := h.registry.Lookup(r.PathValue("category"), r.PathValue("slug"))
	if err != nil {
		h.handleError(r.Context(), w, err, "lookup tool")
		return nil, false
	}
	return t, true
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uuid.UUID, bool) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		logger.WarnContext(r.Context(), "invalid session id", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) format(w http.ResponseWriter, r *http.Request) (render.Format, bool) {
	f, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		httpx.WriteKindError(w, err, "")
		return "", false
	}
	return f, true
}

func decodeValues(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (map[string]any, bool) {
	req, err := httpx.DecodeOptionalJSON[ValuesRequest](r)
	if err != nil {
		logger.WarnContext(r.Context(), "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return nil, false
	}
	return req.Values, true
}

/*** Catalog ***/

// ListTools handles GET requests listing tools, fuzzily filtered by ?q=.
func (h *Handler) ListTools(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	httpx.WriteJSON(w, http.StatusOK, ListToolsResponse{
		Tools:      h.registry.Search(q),
		Categories: h.registry.Categories(),
		Query:      q,
	})
}

// GetTool handles GET requests for one tool descriptor.
func (h *Handler) GetTool(w http.ResponseWriter, r *http.Request) {
	t, ok := h.lookupTool(w, r)
	if !ok {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ToolResponse{Tool: t, Defaults: t.Defaults().Values()})
}

// RenderTool handles POST requests rendering a tool synchronously with its
// defaults overlaid by the posted values.
func (h *Handler) RenderTool(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	t, ok := h.lookupTool(w, r)
	if !ok {
		return
	}
	f, ok := h.format(w, r)
	if !ok {
		return
	}
	values, ok := decodeValues(w, r, logger)
	if !ok {
		return
	}

	st, err := t.NewState(values)
	if err != nil {
		h.handleError(ctx, w, err, "render tool")
		return
	}
	out, err := t.Render(st, h.decor)
	if err != nil {
		h.handleError(ctx, w, err, "render tool")
		return
	}
	converted, err := h.renderer.Render(out, t.Format, t.Language, f)
	if err != nil {
		h.handleError(ctx, w, err, "render tool")
		return
	}

	logger.InfoContext(ctx, "tool rendered",
		"tool", t.ID(),
		"format", f,
		"bytes", len(converted),
	)
	httpx.WriteJSON(w, http.StatusOK, RenderResponse{
		Tool:         t.ID(),
		Values:       st.Values(),
		Result:       converted,
		ResultFormat: f,
	})
}

/*** Sessions ***/

// OpenSession handles POST requests opening a session for a tool.
func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	t, ok := h.lookupTool(w, r)
	if !ok {
		return
	}
	values, ok := decodeValues(w, r, logger)
	if !ok {
		return
	}

	snap, err := h.sessions.Open(t, values)
	if err != nil {
		h.handleError(ctx, w, err, "open session")
		return
	}

	logger.InfoContext(ctx, "session opened",
		"session_id", snap.ID.String(),
		"tool", t.ID(),
	)
	w.Header().Set("Location", "/api/sessions/"+snap.ID.String())
	httpx.WriteJSON(w, http.StatusCreated, SessionResponse{Snapshot: snap, ResultFormat: render.Text})
}

// GetSession handles GET requests polling a session. The result is
// converted to ?format= (text by default).
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	logger := h.requestLogger(r)

	id, ok := h.sessionID(w, r, logger)
	if !ok {
		return
	}
	f, ok := h.format(w, r)
	if !ok {
		return
	}

	snap, err := h.sessions.Get(id)
	if err != nil {
		h.handleError(r.Context(), w, err, "get session")
		return
	}
	h.writeSession(w, r, http.StatusOK, snap, f)
}

func (h *Handler) writeSession(w http.ResponseWriter, r *http.Request, status int, snap Snapshot, f render.Format) {
	if snap.Result != "" && f != render.Text {
		out, err := h.renderer.Render(snap.Result, snap.Format, snap.Language, f)
		if err != nil {
			h.handleError(r.Context(), w, err, "render session")
			return
		}
		snap.Result = out
	}
	httpx.WriteJSON(w, status, SessionResponse{Snapshot: snap, ResultFormat: f})
}

// SessionResult handles GET requests for the bare result body, converted to
// ?format=. With ?download=true it is served as an attachment.
func (h *Handler) SessionResult(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	id, ok := h.sessionID(w, r, logger)
	if !ok {
		return
	}
	f, ok := h.format(w, r)
	if !ok {
		return
	}

	snap, err := h.sessions.Get(id)
	if err != nil {
		h.handleError(ctx, w, err, "get result")
		return
	}
	if snap.Result == "" {
		msg := "Nothing generated yet"
		if snap.Generating {
			msg = "Generation is still running"
		}
		httpx.WriteError(w, http.StatusConflict, "no_result", msg, nil)
		return
	}

	out, err := h.renderer.Render(snap.Result, snap.Format, snap.Language, f)
	if err != nil {
		h.handleError(ctx, w, err, "render result")
		return
	}

	if download, _ := strconv.ParseBool(r.URL.Query().Get("download")); download {
		name := strings.ReplaceAll(snap.Tool, "/", "-") + resultExtension(snap, f)
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	}
	httpx.WriteText(w, http.StatusOK, f.ContentType(), out)
}

// resultExtension picks a file extension for a downloaded result.
func resultExtension(snap Snapshot, f render.Format) string {
	switch {
	case f == render.HTML:
		return ".html"
	case f == render.Terminal:
		return ".txt"
	case snap.Format == tool.FormatMarkdown:
		return ".md"
	}
	if ext, ok := languageExtensions[snap.Language]; ok {
		return ext
	}
	return ".txt"
}

var languageExtensions = map[string]string{
	"typescript": ".ts",
	"tsx":        ".tsx",
	"javascript": ".js",
	"jsx":        ".jsx",
	"python":     ".py",
	"go":         ".go",
	"html":       ".html",
	"css":        ".css",
	"json":       ".json",
	"yaml":       ".yaml",
	"sql":        ".sql",
}

// UpdateSession handles PATCH requests setting form values.
func (h *Handler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	id, ok := h.sessionID(w, r, logger)
	if !ok {
		return
	}
	values, ok := decodeValues(w, r, logger)
	if !ok {
		return
	}

	snap, err := h.sessions.Update(id, values)
	if err != nil {
		h.handleError(ctx, w, err, "update session")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, SessionResponse{Snapshot: snap, ResultFormat: render.Text})
}

// ToggleOption handles POST requests flipping a multi-select option.
func (h *Handler) ToggleOption(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	id, ok := h.sessionID(w, r, logger)
	if !ok {
		return
	}
	req, err := httpx.DecodeJSON[ToggleRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}
	if req.Field == "" || req.Option == "" {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "field and option are required", nil)
		return
	}

	snap, err := h.sessions.Toggle(id, req.Field, req.Option)
	if err != nil {
		h.handleError(ctx, w, err, "toggle option")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, SessionResponse{Snapshot: snap, ResultFormat: render.Text})
}

// AddItem handles POST requests appending a value to a multi-select.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	id, ok := h.sessionID(w, r, logger)
	if !ok {
		return
	}
	req, err := httpx.DecodeJSON[ItemRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}
	if req.Field == "" || strings.TrimSpace(req.Value) == "" {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "field and value are required", nil)
		return
	}

	snap, err := h.sessions.AddItem(id, req.Field, req.Value)
	if err != nil {
		h.handleError(ctx, w, err, "add item")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, SessionResponse{Snapshot: snap, ResultFormat: render.Text})
}

// RemoveItem handles DELETE requests dropping ?value= from the multi-select
// ?field=.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	id, ok := h.sessionID(w, r, logger)
	if !ok {
		return
	}
	field, value := r.URL.Query().Get("field"), r.URL.Query().Get("value")
	if field == "" || value == "" {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "field and value are required", nil)
		return
	}

	snap, err := h.sessions.RemoveItem(id, field, value)
	if err != nil {
		h.handleError(ctx, w, err, "remove item")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, SessionResponse{Snapshot: snap, ResultFormat: render.Text})
}

// Generate handles POST requests starting a generation. It answers 202 with
// generating set, or, with ?wait=<duration>, blocks up to that long for the
// result.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	id, ok := h.sessionID(w, r, logger)
	if !ok {
		return
	}
	f, ok := h.format(w, r)
	if !ok {
		return
	}

	var wait time.Duration
	if raw := r.URL.Query().Get("wait"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 || d > MaxWait {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
				"wait must be a duration up to "+MaxWait.String(), nil)
			return
		}
		wait = d
	}

	snap, err := h.sessions.Generate(id)
	if err != nil {
		h.handleError(ctx, w, err, "start generation")
		return
	}
	logger.InfoContext(ctx, "generation requested",
		"session_id", id.String(),
		"tool", snap.Tool,
		"wait", wait,
	)

	if wait == 0 {
		httpx.WriteJSON(w, http.StatusAccepted, SessionResponse{Snapshot: snap, ResultFormat: f})
		return
	}

	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	done, err := h.sessions.Wait(waitCtx, id)
	switch {
	case err == nil:
		h.writeSession(w, r, http.StatusOK, done, f)
	case errx.Is(err, errx.Unavailable):
		// Still generating; the client polls from here.
		current, getErr := h.sessions.Get(id)
		if getErr != nil {
			h.handleError(ctx, w, getErr, "start generation")
			return
		}
		httpx.WriteJSON(w, http.StatusAccepted, SessionResponse{Snapshot: current, ResultFormat: f})
	default:
		h.handleError(ctx, w, err, "start generation")
	}
}

// CancelGeneration handles DELETE requests stopping a pending generation.
func (h *Handler) CancelGeneration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	id, ok := h.sessionID(w, r, logger)
	if !ok {
		return
	}
	snap, err := h.sessions.Cancel(id)
	if err != nil {
		h.handleError(ctx, w, err, "cancel generation")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, SessionResponse{Snapshot: snap, ResultFormat: render.Text})
}

// CloseSession handles DELETE requests discarding a session.
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	id, ok := h.sessionID(w, r, logger)
	if !ok {
		return
	}
	if err := h.sessions.Close(id); err != nil {
		h.handleError(ctx, w, err, "close session")
		return
	}

	logger.InfoContext(ctx, "session closed", "session_id", id.String())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleError(ctx context.Context, w http.ResponseWriter, err error, action string) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
		"action", action,
	}

	switch kind {
	case errx.NotFound, errx.Invalid, errx.Conflict:
		h.logger.WarnContext(ctx, "tool request rejected", logAttrs...)
	default:
		h.logger.ErrorContext(ctx, "unexpected tool error", logAttrs...)
	}

	httpx.WriteKindError(w, err, "Unable to "+action+" at this time")
}
