package shortener

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/sundayezeilo/toolbench/internal/errx"
	"github.com/sundayezeilo/toolbench/internal/httpx"
)

/***************
 * Helpers
 ***************/

func newTestHandler(t *testing.T) (*Handler, Service, *http.ServeMux) {
	t.Helper()
	svc := newTestService(newMemoryRepo(t), nil)
	h := NewHandler(HandlerConfig{
		Service: svc,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/links", h.CreateLink)
	mux.HandleFunc("GET /api/links", h.ListLinks)
	mux.HandleFunc("GET /api/links/{id}", h.GetLink)
	mux.HandleFunc("DELETE /api/links/{id}", h.DeleteLink)
	mux.HandleFunc("POST /api/links/{id}/clicks", h.SimulateClick)
	mux.HandleFunc("GET /api/links/{id}/stats", h.LinkStats)
	mux.HandleFunc("GET /api/links/{id}/qr.png", h.LinkQRCode)
	mux.HandleFunc("GET /s/{code}", h.ResolveLink)
	return h, svc, mux
}

func do(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httpx.ErrorResponse {
	t.Helper()
	var resp httpx.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp
}

/***************
 * Create Tests
 ***************/

func TestHandler_CreateLink(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"generated code", `{"url":"https://example.com"}`, http.StatusCreated, ""},
		{"custom code", `{"url":"https://example.com","customCode":"my-link"}`, http.StatusCreated, ""},
		{"empty body", ``, http.StatusBadRequest, "invalid_request"},
		{"malformed json", `{"url":`, http.StatusBadRequest, "invalid_request"},
		{"unknown field", `{"url":"https://example.com","slug":"x"}`, http.StatusBadRequest, "invalid_request"},
		{"missing url", `{}`, http.StatusBadRequest, "validation_failed"},
		{"bad scheme", `{"url":"ftp://example.com"}`, http.StatusBadRequest, "invalid_input"},
		{"bad custom code", `{"url":"https://example.com","customCode":"a b"}`, http.StatusBadRequest, "invalid_input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, mux := newTestHandler(t)

			rec := do(mux, http.MethodPost, "/api/links", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body)
			}

			if tt.wantCode != "" {
				if resp := decodeError(t, rec); resp.Error != tt.wantCode {
					t.Errorf("error code = %q, want %q", resp.Error, tt.wantCode)
				}
				return
			}

			var link Link
			if err := json.NewDecoder(rec.Body).Decode(&link); err != nil {
				t.Fatalf("decode link: %v", err)
			}
			if link.ID == uuid.Nil || link.ShortCode == "" || !strings.HasSuffix(link.ShortURL, "/s/"+link.ShortCode) {
				t.Errorf("created link = %+v", link)
			}
		})
	}
}

func TestHandler_CreateLink_Conflict(t *testing.T) {
	_, _, mux := newTestHandler(t)

	body := `{"url":"https://example.com","customCode":"same"}`
	if rec := do(mux, http.MethodPost, "/api/links", body); rec.Code != http.StatusCreated {
		t.Fatalf("first create status = %d", rec.Code)
	}

	rec := do(mux, http.MethodPost, "/api/links", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error != "conflict" || resp.Details == nil {
		t.Errorf("error body = %+v", resp)
	}

	list := do(mux, http.MethodGet, "/api/links", "")
	var resp ListLinksResponse
	if err := json.NewDecoder(list.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.TotalLinks != 1 {
		t.Errorf("TotalLinks = %d, want 1", resp.TotalLinks)
	}
}

/***************
 * Link Tests
 ***************/

func TestHandler_LinkLifecycle(t *testing.T) {
	_, svc, mux := newTestHandler(t)

	link, err := svc.Shorten(context.Background(), ShortenRequest{URL: "https://example.com/x", CustomCode: "life"})
	if err != nil {
		t.Fatal(err)
	}
	base := "/api/links/" + link.ID.String()

	t.Run("click", func(t *testing.T) {
		rec := do(mux, http.MethodPost, base+"/clicks", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var got Link
		_ = json.NewDecoder(rec.Body).Decode(&got)
		if got.Clicks != 1 {
			t.Errorf("Clicks = %d, want 1", got.Clicks)
		}
	})

	t.Run("list totals", func(t *testing.T) {
		rec := do(mux, http.MethodGet, "/api/links", "")
		var resp ListLinksResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if resp.TotalLinks != 1 || resp.TotalClicks != 1 {
			t.Errorf("totals = %d links / %d clicks", resp.TotalLinks, resp.TotalClicks)
		}
	})

	t.Run("stats", func(t *testing.T) {
		rec := do(mux, http.MethodGet, base+"/stats", "")
		var stats Stats
		if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
			t.Fatal(err)
		}
		if stats.Clicks != 1 || len(stats.ByDay) != 1 || stats.TopReferrers[0].Referrer != DirectReferrer {
			t.Errorf("stats = %+v", stats)
		}
	})

	t.Run("qr png", func(t *testing.T) {
		rec := do(mux, http.MethodGet, base+"/qr.png?size=128", "")
		if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
			t.Fatalf("status = %d, content type = %q", rec.Code, rec.Header().Get("Content-Type"))
		}
		if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
			t.Error("body is not a PNG")
		}
	})

	t.Run("qr bad size", func(t *testing.T) {
		rec := do(mux, http.MethodGet, base+"/qr.png?size=9999", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("redirect", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/s/life", nil)
		req.Header.Set("Referer", "https://social.example")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusFound {
			t.Fatalf("status = %d, want 302", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "https://example.com/x" {
			t.Errorf("Location = %q", loc)
		}

		got, _ := svc.Get(context.Background(), link.ID)
		if got.Clicks != 2 || got.ClickHistory[1].Referrer != "https://social.example" {
			t.Errorf("after redirect clicks = %d, history = %+v", got.Clicks, got.ClickHistory)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if rec := do(mux, http.MethodDelete, base, ""); rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
		if rec := do(mux, http.MethodGet, base, ""); rec.Code != http.StatusNotFound {
			t.Errorf("get after delete status = %d, want 404", rec.Code)
		}
	})
}

func TestHandler_LinkErrors(t *testing.T) {
	_, _, mux := newTestHandler(t)
	missing := "/api/links/" + uuid.NewString()

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
	}{
		{"get bad id", http.MethodGet, "/api/links/not-a-uuid", http.StatusBadRequest},
		{"get missing", http.MethodGet, missing, http.StatusNotFound},
		{"click missing", http.MethodPost, missing + "/clicks", http.StatusNotFound},
		{"stats missing", http.MethodGet, missing + "/stats", http.StatusNotFound},
		{"qr missing", http.MethodGet, missing + "/qr.png", http.StatusNotFound},
		{"delete missing", http.MethodDelete, missing, http.StatusNotFound},
		{"redirect unknown code", http.MethodGet, "/s/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(mux, tt.method, tt.target, "")
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body)
			}
		})
	}
}

func TestHandler_ServiceUnavailable(t *testing.T) {
	repo := &mockRepository{
		getByCodeFunc: func(ctx context.Context, code string) (Link, error) {
			return Link{}, errx.Ef("repo.GetByCode", errx.Unavailable, "connection refused")
		},
		listFunc: func(ctx context.Context) ([]Link, error) {
			return nil, errx.Ef("repo.List", errx.Unavailable, "connection refused")
		},
	}
	h := NewHandler(HandlerConfig{
		Service: newTestService(repo, nil),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	rec := httptest.NewRecorder()
	h.ListLinks(rec, httptest.NewRequest(http.MethodGet, "/api/links", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("list status = %d, want 503", rec.Code)
	}
	if resp := decodeError(t, rec); strings.Contains(resp.Message, "connection refused") {
		t.Errorf("server error leaked detail: %q", resp.Message)
	}

	rec = httptest.NewRecorder()
	h.CreateLink(rec, httptest.NewRequest(http.MethodPost, "/api/links",
		strings.NewReader(`{"url":"https://example.com","customCode":"abc"}`)))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("create status = %d, want 503", rec.Code)
	}
}
