package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"datasetgen/internal/domain"
)

func TestFailStatusMapping(t *testing.T) {
	app := &App{Logger: zerolog.Nop()}
	tests := []struct {
		err  error
		code int
		kind string
	}{
		{err: fmt.Errorf("%w: status 401", domain.ErrAuthExpired), code: http.StatusUnauthorized, kind: "auth_expired"},
		{err: domain.ErrUnauthorized, code: http.StatusUnauthorized, kind: "unauthorized"},
		{err: domain.ErrNotFound, code: http.StatusNotFound, kind: "not_found"},
		{err: fmt.Errorf("%w: no poses selected", domain.ErrNotReady), code: http.StatusConflict, kind: "conflict"},
		{err: domain.ErrBatchRunning, code: http.StatusConflict, kind: "conflict"},
		{err: domain.ErrUnknownPose, code: http.StatusBadRequest, kind: "bad_request"},
		{err: errors.New("gemini status 500: boom"), code: http.StatusBadGateway, kind: "upstream"},
	}
	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			app.fail(rec, tc.err)
			if rec.Code != tc.code {
				t.Fatalf("status = %d, want %d", rec.Code, tc.code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error != tc.kind || body.Message != tc.err.Error() {
				t.Fatalf("body = %+v", body)
			}
		})
	}
}

func TestReadBodyLimit(t *testing.T) {
	app := &App{Logger: zerolog.Nop(), MaxUploadBytes: 4}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/v1/reference", bytesReader("too many bytes"))
	if _, ok := app.readBody(rec, req); ok {
		t.Fatal("expected readBody to reject oversized body")
	}
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d", rec.Code)
	}
}

func bytesReader(s string) *strings.Reader {
	return strings.NewReader(s)
}
