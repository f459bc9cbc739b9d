package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jainamshah2028/ai-resume-grader/internal/handler/dto"
	"github.com/jainamshah2028/ai-resume-grader/internal/service"
)

func newTestAnalysisHandler(t *testing.T) *AnalysisHandler {
	t.Helper()
	svc := service.NewAnalysisService(nil, nil, service.AnalysisServiceOptions{
		MaxResumeSize:           1 << 20,
		MaxJobDescriptionLength: 1 << 16,
		MinKeywordLength:        3,
	}, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAnalysisHandler(svc, logger)
}

func decodeErrorResponse(t *testing.T, body io.Reader) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}

func TestAnalysisHandler_Create_InvalidJSON(t *testing.T) {
	h := newTestAnalysisHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if resp := decodeErrorResponse(t, rec.Body); resp.Code != "INVALID_JSON" {
		t.Errorf("expected code INVALID_JSON, got %s", resp.Code)
	}
}

func TestAnalysisHandler_Create_MissingJobDescription(t *testing.T) {
	h := newTestAnalysisHandler(t)

	body, _ := json.Marshal(dto.AnalyzeRequest{ResumeText: "Go engineer with Postgres experience"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if resp := decodeErrorResponse(t, rec.Body); resp.Code != "MISSING_JOB_DESCRIPTION" {
		t.Errorf("expected code MISSING_JOB_DESCRIPTION, got %s", resp.Code)
	}
}

func TestAnalysisHandler_Create_MissingResumeText(t *testing.T) {
	h := newTestAnalysisHandler(t)

	body, _ := json.Marshal(dto.AnalyzeRequest{JobDescription: "Looking for a Go engineer"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if resp := decodeErrorResponse(t, rec.Body); resp.Code != "MISSING_RESUME" {
		t.Errorf("expected code MISSING_RESUME, got %s", resp.Code)
	}
}

func TestAnalysisHandler_Create_MultipartWithoutResumePart(t *testing.T) {
	h := newTestAnalysisHandler(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("job_description", "Looking for a Go engineer"); err != nil {
		t.Fatalf("failed to write form field: %v", err)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if resp := decodeErrorResponse(t, rec.Body); resp.Code != "MISSING_RESUME" {
		t.Errorf("expected code MISSING_RESUME, got %s", resp.Code)
	}
}

func TestAnalysisHandler_Create_UnsupportedFormat(t *testing.T) {
	h := newTestAnalysisHandler(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("resume", "resume.exe")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	_, _ = fw.Write([]byte("MZbinary content"))
	if err := mw.WriteField("job_description", "Looking for a Go engineer"); err != nil {
		t.Fatalf("failed to write form field: %v", err)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected status 415, got %d", rec.Code)
	}
	if resp := decodeErrorResponse(t, rec.Body); resp.Code != "UNSUPPORTED_FORMAT" {
		t.Errorf("expected code UNSUPPORTED_FORMAT, got %s", resp.Code)
	}
}

func TestAnalysisHandler_Get_MissingID(t *testing.T) {
	h := newTestAnalysisHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/", nil)
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if resp := decodeErrorResponse(t, rec.Body); resp.Code != "MISSING_ID" {
		t.Errorf("expected code MISSING_ID, got %s", resp.Code)
	}
}

func TestAnalysisHandler_HandleServiceError(t *testing.T) {
	h := newTestAnalysisHandler(t)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", service.ErrAnalysisNotFound, http.StatusNotFound, "ANALYSIS_NOT_FOUND"},
		{"empty resume", service.ErrEmptyResume, http.StatusUnprocessableEntity, "EMPTY_RESUME"},
		{"resume too large", service.ErrResumeTooLarge, http.StatusRequestEntityTooLarge, "RESUME_TOO_LARGE"},
		{"job description too long", service.ErrJobDescriptionTooLong, http.StatusBadRequest, "JOB_DESCRIPTION_TOO_LONG"},
		{"unreadable resume", service.ErrUnreadableResume, http.StatusUnprocessableEntity, "UNREADABLE_RESUME"},
		{"invalid cursor", service.ErrInvalidCursor, http.StatusBadRequest, "INVALID_CURSOR"},
		{"unknown error", errors.New("database on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.handleServiceError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if resp := decodeErrorResponse(t, rec.Body); resp.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, resp.Code)
			}
		})
	}
}
