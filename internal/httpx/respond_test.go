package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteJSON(rr, http.StatusCreated, map[string]int{"id": 7})

	if rr.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != `{"id":7}` {
		t.Errorf("body = %s", got)
	}
}

func TestWriteError_OmitsEmptyFields(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteError(rr, http.StatusBadRequest, "invalid_input", "", nil)

	if got := strings.TrimSpace(rr.Body.String()); got != `{"error":"invalid_input"}` {
		t.Errorf("body = %s", got)
	}
}

func TestWriteText(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteText(rr, http.StatusOK, "text/markdown; charset=utf-8", "# Report")

	if got := rr.Header().Get("Content-Type"); got != "text/markdown; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
	if rr.Body.String() != "# Report" {
		t.Errorf("body = %q", rr.Body.String())
	}
}
