package transfer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	transferdomain "contribution-tracker-go/internal/domain/transfer"
	"contribution-tracker-go/pkg/logger"
)

func TestImportRejectsOversizedBody(t *testing.T) {
	limit := maxImportBody
	maxImportBody = 64
	t.Cleanup(func() { maxImportBody = limit })

	h := New(transferdomain.NewService(nil, logger.Nop()), logger.Nop())
	body := `{"groups":[],"participants":[],"contributions":[],"version":"` + strings.Repeat("x", 128) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/import", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Import(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != "payload_too_large" {
		t.Fatalf("unexpected error code %q", envelope.Error.Code)
	}
}

func TestImportRejectsMalformedBody(t *testing.T) {
	h := New(transferdomain.NewService(nil, logger.Nop()), logger.Nop())
	req := httptest.NewRequest(http.MethodPost, "/api/import", strings.NewReader(`{"groups": [`))
	rec := httptest.NewRecorder()

	h.Import(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}
