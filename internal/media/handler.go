package media

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"

	"github.com/sundayezeilo/toolbench/internal/errx"
	"github.com/sundayezeilo/toolbench/internal/httpx"
)

// multipartOverhead is allowed on top of the upload limit for form framing.
const multipartOverhead = 1 << 20

// UploadResponse lists stored files and the ones rejected.
type UploadResponse struct {
	Items    []Item           `json:"items"`
	Rejected []RejectedUpload `json:"rejected,omitempty"`
}

// RejectedUpload explains why one file of an upload was not stored.
type RejectedUpload struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// BulkDeleteRequest represents the JSON body of a bulk delete.
type BulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// BulkDeleteResponse reports which ids were removed.
type BulkDeleteResponse struct {
	Deleted []uuid.UUID `json:"deleted"`
	Count   int         `json:"count"`
}

// HTTPStartDownloadRequest represents the JSON body starting a download.
type HTTPStartDownloadRequest struct {
	URL     string `json:"url"`
	Format  string `json:"format,omitempty"`
	Quality string `json:"quality,omitempty"`
}

// ListDownloadsResponse lists downloads with the accepted options.
type ListDownloadsResponse struct {
	Downloads []Download `json:"downloads"`
	Formats   []string   `json:"formats"`
	Qualities []string   `json:"qualities"`
}

// Handler provides HTTP handlers for the media library and downloader.
type Handler struct {
	library    *Library
	downloader *Downloader
	logger     *slog.Logger
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Library    *Library
	Downloader *Downloader
	Logger     *slog.Logger
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		library:    cfg.Library,
		downloader: cfg.Downloader,
		logger:     logger,
	}
}

func (h *Handler) requestLogger(r *http.Request) *slog.Logger {
	return h.logger.With(
		"request_id", httpx.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
	)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uuid.UUID, bool) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		logger.WarnContext(r.Context(), "invalid id", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return uuid.Nil, false
	}
	return id, true
}

/*** Library ***/

// Upload handles multipart POST requests carrying one or more files in the
// "files" (or "file") form field.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	limit := h.library.MaxSize() + multipartOverhead
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			logger.WarnContext(ctx, "upload too large", "limit", maxBytesErr.Limit)
			httpx.WriteError(w, http.StatusRequestEntityTooLarge, "too_large",
				"upload exceeds the size limit", map[string]int64{"maxBytes": h.library.MaxSize()})
			return
		}
		logger.WarnContext(ctx, "failed to parse upload", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "expected a multipart form upload", nil)
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	files := r.MultipartForm.File["files"]
	files = append(files, r.MultipartForm.File["file"]...)
	if len(files) == 0 {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "no files in upload", nil)
		return
	}

	resp := UploadResponse{Items: []Item{}}
	var firstErr error
	for _, fh := range files {
		item, err := h.store(fh.Filename, fh.Open)
		if err != nil {
			logger.WarnContext(ctx, "upload rejected",
				"file", fh.Filename,
				"error", err.Error(),
				"error_kind", errx.KindOf(err),
			)
			if firstErr == nil {
				firstErr = err
			}
			resp.Rejected = append(resp.Rejected, RejectedUpload{Name: fh.Filename, Error: errx.Message(err)})
			continue
		}
		resp.Items = append(resp.Items, item)
	}

	if len(resp.Items) == 0 {
		httpx.WriteKindError(w, firstErr, "Unable to store upload")
		return
	}

	logger.InfoContext(ctx, "media uploaded",
		"stored", len(resp.Items),
		"rejected", len(resp.Rejected),
	)
	httpx.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) store(name string, open func() (multipart.File, error)) (Item, error) {
	f, err := open()
	if err != nil {
		return Item{}, errx.E("media.Handler.store", errx.Invalid, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.library.MaxSize()+1))
	if err != nil {
		return Item{}, errx.E("media.Handler.store", errx.Invalid, err)
	}
	return h.library.Add(name, data)
}

// ListMedia handles GET requests listing items, filtered by ?kind=.
func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	kind, err := ParseKind(r.URL.Query().Get("kind"))
	if err != nil {
		httpx.WriteKindError(w, err, "")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": h.library.List(kind)})
}

// ServeMedia streams an item inline with range support for previews and
// video playback.
func (h *Handler) ServeMedia(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "inline")
}

// DownloadMedia streams an item as an attachment under its original name.
func (h *Handler) DownloadMedia(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "attachment")
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, disposition string) {
	logger := h.requestLogger(r)

	id, ok := h.pathID(w, r, logger)
	if !ok {
		return
	}

	item, content, err := h.library.Open(id)
	if err != nil {
		h.handleError(r.Context(), w, err, "serve media")
		return
	}

	w.Header().Set("Content-Type", item.Type)
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": item.Name}))
	http.ServeContent(w, r, item.Name, item.UploadDate, content)
}

// DeleteMedia handles DELETE requests for one item.
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	id, ok := h.pathID(w, r, logger)
	if !ok {
		return
	}
	if err := h.library.Delete(id); err != nil {
		h.handleError(ctx, w, err, "delete media")
		return
	}

	logger.InfoContext(ctx, "media deleted", "media_id", id.String())
	w.WriteHeader(http.StatusNoContent)
}

// BulkDeleteMedia handles POST requests removing several items at once.
func (h *Handler) BulkDeleteMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	req, err := httpx.DecodeJSON[BulkDeleteRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}
	if len(req.IDs) == 0 {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "ids is required", nil)
		return
	}

	deleted := h.library.DeleteMany(req.IDs)
	logger.InfoContext(ctx, "media bulk deleted",
		"requested", len(req.IDs),
		"deleted", len(deleted),
	)
	httpx.WriteJSON(w, http.StatusOK, BulkDeleteResponse{Deleted: deleted, Count: len(deleted)})
}

// ClearMedia handles DELETE requests emptying the library.
func (h *Handler) ClearMedia(w http.ResponseWriter, r *http.Request) {
	deleted := h.library.Clear()
	h.requestLogger(r).InfoContext(r.Context(), "media library cleared", "deleted", len(deleted))
	httpx.WriteJSON(w, http.StatusOK, BulkDeleteResponse{Deleted: deleted, Count: len(deleted)})
}

/*** Downloader ***/

// StartDownload handles POST requests starting a simulated download.
func (h *Handler) StartDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	req, err := httpx.DecodeJSON[HTTPStartDownloadRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	dl, err := h.downloader.Start(req.URL, req.Format, req.Quality)
	if err != nil {
		h.handleError(ctx, w, err, "start download")
		return
	}

	w.Header().Set("Location", "/api/downloads/"+dl.ID.String())
	httpx.WriteJSON(w, http.StatusAccepted, dl)
}

// ListDownloads handles GET requests listing downloads.
func (h *Handler) ListDownloads(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, ListDownloadsResponse{
		Downloads: h.downloader.List(),
		Formats:   Formats,
		Qualities: Qualities,
	})
}

// GetDownload handles GET requests polling one download.
func (h *Handler) GetDownload(w http.ResponseWriter, r *http.Request) {
	logger := h.requestLogger(r)

	id, ok := h.pathID(w, r, logger)
	if !ok {
		return
	}
	dl, err := h.downloader.Get(id)
	if err != nil {
		h.handleError(r.Context(), w, err, "get download")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dl)
}

// CancelDownload handles DELETE requests stopping a download.
func (h *Handler) CancelDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	id, ok := h.pathID(w, r, logger)
	if !ok {
		return
	}
	dl, err := h.downloader.Cancel(id)
	if err != nil {
		h.handleError(ctx, w, err, "cancel download")
		return
	}

	logger.InfoContext(ctx, "download cancelled",
		"download_id", id.String(),
		"progress", dl.Progress,
		"status", dl.Status,
	)
	httpx.WriteJSON(w, http.StatusOK, dl)
}

// DownloadFile answers the mock download link. Remote fetching is not
// implemented, so known downloads get 501.
func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	logger := h.requestLogger(r)

	id, ok := h.pathID(w, r, logger)
	if !ok {
		return
	}
	if _, err := h.downloader.Get(id); err != nil {
		h.handleError(r.Context(), w, err, "download file")
		return
	}
	httpx.WriteError(w, http.StatusNotImplemented, "not_implemented",
		"media downloading is simulated; no file was fetched", nil)
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
	case errx.NotFound, errx.Invalid, errx.TooLarge:
		h.logger.WarnContext(ctx, "media request rejected", logAttrs...)
	default:
		h.logger.ErrorContext(ctx, "unexpected media error", logAttrs...)
	}

	httpx.WriteKindError(w, err, "Unable to "+action+" at this time")
}
