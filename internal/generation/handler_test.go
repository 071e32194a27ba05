package generation

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sundayezeilo/toolbench/internal/decor"
	"github.com/sundayezeilo/toolbench/internal/render"
	"github.com/sundayezeilo/toolbench/internal/tool"
)

/***************
 * Helpers
 ***************/

func newTestMux(t *testing.T, delay time.Duration) (*Manager, *http.ServeMux) {
	t.Helper()

	reg, err := tool.NewRegistry(testTool(t))
	if err != nil {
		t.Fatal(err)
	}
	m := newManager(delay)
	t.Cleanup(m.Shutdown)

	h := NewHandler(HandlerConfig{
		Registry: reg,
		Sessions: m,
		Renderer: render.New(render.Options{}),
		Decor:    decor.Fixed{},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tools", h.ListTools)
	mux.HandleFunc("GET /api/tools/{category}/{slug}", h.GetTool)
	mux.HandleFunc("POST /api/tools/{category}/{slug}/render", h.RenderTool)
	mux.HandleFunc("POST /api/tools/{category}/{slug}/sessions", h.OpenSession)
	mux.HandleFunc("GET /api/sessions/{id}", h.GetSession)
	mux.HandleFunc("PATCH /api/sessions/{id}", h.UpdateSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", h.CloseSession)
	mux.HandleFunc("GET /api/sessions/{id}/result", h.SessionResult)
	mux.HandleFunc("POST /api/sessions/{id}/toggle", h.ToggleOption)
	mux.HandleFunc("POST /api/sessions/{id}/items", h.AddItem)
	mux.HandleFunc("DELETE /api/sessions/{id}/items", h.RemoveItem)
	mux.HandleFunc("POST /api/sessions/{id}/generate", h.Generate)
	mux.HandleFunc("DELETE /api/sessions/{id}/generate", h.CancelGeneration)
	return m, mux
}

func serve(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, r))
	return rec
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) SessionResponse {
	t.Helper()
	var resp SessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return resp
}

/***************
 * Catalog Tests
 ***************/

func TestHandler_Catalog(t *testing.T) {
	_, mux := newTestMux(t, time.Millisecond)

	t.Run("list", func(t *testing.T) {
		rec := serve(mux, http.MethodGet, "/api/tools?q=echo", "")
		var resp struct {
			Tools      []map[string]any `json:"tools"`
			Categories []string         `json:"categories"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if len(resp.Tools) != 1 || resp.Tools[0]["id"] != "demo/echo" {
			t.Errorf("tools = %+v", resp.Tools)
		}
		if len(resp.Categories) != 1 || resp.Categories[0] != "demo" {
			t.Errorf("categories = %v", resp.Categories)
		}
	})

	t.Run("descriptor with defaults", func(t *testing.T) {
		rec := serve(mux, http.MethodGet, "/api/tools/demo/echo", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var resp struct {
			Defaults map[string]any `json:"defaults"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatal(err)
		}
		if resp.Defaults["name"] != "World" {
			t.Errorf("defaults = %+v", resp.Defaults)
		}
	})

	t.Run("unknown tool", func(t *testing.T) {
		if rec := serve(mux, http.MethodGet, "/api/tools/demo/nope", ""); rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandler_RenderTool(t *testing.T) {
	_, mux := newTestMux(t, time.Millisecond)

	tests := []struct {
		name       string
		target     string
		body       string
		wantStatus int
		wantIn     string
	}{
		{"defaults", "/api/tools/demo/echo/render", "", http.StatusOK, "Hello World [a]"},
		{"values", "/api/tools/demo/echo/render", `{"values":{"name":"Acme","tags":["b","c"]}}`, http.StatusOK, "Hello Acme [b,c]"},
		{"html", "/api/tools/demo/echo/render?format=html", `{"values":{"name":"Acme"}}`, http.StatusOK, `<article class="result markdown">`},
		{"bad option", "/api/tools/demo/echo/render", `{"values":{"tags":["zzz"]}}`, http.StatusBadRequest, ""},
		{"unknown field", "/api/tools/demo/echo/render", `{"values":{"nope":"x"}}`, http.StatusBadRequest, ""},
		{"bad format", "/api/tools/demo/echo/render?format=pdf", "", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(mux, http.MethodPost, tt.target, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body)
			}
			if tt.wantIn == "" {
				return
			}
			var resp RenderResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(resp.Result, tt.wantIn) {
				t.Errorf("result %q does not contain %q", resp.Result, tt.wantIn)
			}
		})
	}
}

/***************
 * Session Tests
 ***************/

func TestHandler_SessionLifecycle(t *testing.T) {
	_, mux := newTestMux(t, 20*time.Millisecond)

	rec := serve(mux, http.MethodPost, "/api/tools/demo/echo/sessions", `{"values":{"name":"Acme"}}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("open status = %d, body %s", rec.Code, rec.Body)
	}
	opened := decodeSession(t, rec)
	base := "/api/sessions/" + opened.ID.String()

	t.Run("toggle", func(t *testing.T) {
		rec := serve(mux, http.MethodPost, base+"/toggle", `{"field":"tags","option":"b"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		got := decodeSession(t, rec)
		if tags, _ := got.Values["tags"].([]any); len(tags) != 2 {
			t.Errorf("tags = %v", got.Values["tags"])
		}
	})

	t.Run("add and remove items", func(t *testing.T) {
		rec := serve(mux, http.MethodPost, base+"/items", `{"field":"tags","value":"c"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("add status = %d, body %s", rec.Code, rec.Body)
		}
		if tags, _ := decodeSession(t, rec).Values["tags"].([]any); len(tags) != 3 {
			t.Errorf("tags after add = %v", tags)
		}

		if rec := serve(mux, http.MethodPost, base+"/items", `{"field":"tags","value":"zzz"}`); rec.Code != http.StatusBadRequest {
			t.Errorf("add outside catalog status = %d, want 400", rec.Code)
		}

		rec = serve(mux, http.MethodDelete, base+"/items?field=tags&value=c", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("remove status = %d, body %s", rec.Code, rec.Body)
		}
		if tags, _ := decodeSession(t, rec).Values["tags"].([]any); len(tags) != 2 {
			t.Errorf("tags after remove = %v", tags)
		}
	})

	t.Run("patch", func(t *testing.T) {
		rec := serve(mux, http.MethodPatch, base, `{"values":{"name":"Globex"}}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		if got := decodeSession(t, rec); got.Values["name"] != "Globex" {
			t.Errorf("name = %v", got.Values["name"])
		}
	})

	t.Run("generate and poll", func(t *testing.T) {
		rec := serve(mux, http.MethodPost, base+"/generate", "")
		if rec.Code != http.StatusAccepted {
			t.Fatalf("status = %d, want 202", rec.Code)
		}
		if got := decodeSession(t, rec); !got.Generating || got.Result != "" {
			t.Errorf("generate = %+v", got)
		}

		if rec := serve(mux, http.MethodPost, base+"/generate", ""); rec.Code != http.StatusConflict {
			t.Errorf("second generate status = %d, want 409", rec.Code)
		}

		deadline := time.Now().Add(2 * time.Second)
		for {
			got := decodeSession(t, serve(mux, http.MethodGet, base, ""))
			if !got.Generating {
				if got.Result != "Hello Globex [a,b]" {
					t.Errorf("result = %q", got.Result)
				}
				break
			}
			if time.Now().After(deadline) {
				t.Fatal("generation did not finish")
			}
			time.Sleep(5 * time.Millisecond)
		}
	})

	t.Run("generate with wait", func(t *testing.T) {
		rec := serve(mux, http.MethodPost, base+"/generate?wait=2s&format=html", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		got := decodeSession(t, rec)
		if got.Generating || !strings.Contains(got.Result, "Hello Globex") || got.ResultFormat != render.HTML {
			t.Errorf("waited generate = %+v", got)
		}
	})

	t.Run("result", func(t *testing.T) {
		rec := serve(mux, http.MethodGet, base+"/result", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		if rec.Body.String() != "Hello Globex [a,b]" {
			t.Errorf("body = %q", rec.Body)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
			t.Errorf("Content-Type = %q", ct)
		}

		rec = serve(mux, http.MethodGet, base+"/result?format=html&download=true", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename=demo-echo.html` {
			t.Errorf("Content-Disposition = %q", cd)
		}
		if !strings.Contains(rec.Body.String(), "<p>") {
			t.Errorf("html body = %q", rec.Body)
		}
	})

	t.Run("cancel", func(t *testing.T) {
		serve(mux, http.MethodPost, base+"/generate", "")
		rec := serve(mux, http.MethodDelete, base+"/generate", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if got := decodeSession(t, rec); got.Generating || got.Result != "Hello Globex [a,b]" {
			t.Errorf("cancelled = %+v, want previous result kept", got)
		}
	})

	t.Run("close", func(t *testing.T) {
		if rec := serve(mux, http.MethodDelete, base, ""); rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
		if rec := serve(mux, http.MethodGet, base, ""); rec.Code != http.StatusNotFound {
			t.Errorf("get after close status = %d, want 404", rec.Code)
		}
		if rec := serve(mux, http.MethodGet, base+"/result", ""); rec.Code != http.StatusNotFound {
			t.Errorf("result after close status = %d, want 404", rec.Code)
		}
	})
}

func TestHandler_SessionErrors(t *testing.T) {
	_, mux := newTestMux(t, time.Millisecond)
	missing := "/api/sessions/" + uuid.NewString()

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
	}{
		{"bad id", http.MethodGet, "/api/sessions/xyz", "", http.StatusBadRequest},
		{"missing session", http.MethodGet, missing, "", http.StatusNotFound},
		{"patch missing", http.MethodPatch, missing, `{"values":{}}`, http.StatusNotFound},
		{"generate missing", http.MethodPost, missing + "/generate", "", http.StatusNotFound},
		{"bad wait", http.MethodPost, missing + "/generate?wait=forever", "", http.StatusBadRequest},
		{"toggle without option", http.MethodPost, missing + "/toggle", `{"field":"tags"}`, http.StatusBadRequest},
		{"open unknown tool", http.MethodPost, "/api/tools/x/y/sessions", "", http.StatusNotFound},
		{"open invalid values", http.MethodPost, "/api/tools/demo/echo/sessions", `{"values":{"tags":"zzz"}}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(mux, tt.method, tt.target, tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body)
			}
		})
	}
}
