package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jainamshah2028/ai-resume-grader/internal/auth"
	"github.com/jainamshah2028/ai-resume-grader/internal/handler/dto"
	"github.com/jainamshah2028/ai-resume-grader/internal/service"
)

// multipartMemoryLimit bounds how much of a multipart upload is held
// in memory before spilling to a temp file.
const multipartMemoryLimit = 10 << 20

// AnalysisHandler handles HTTP requests for resume analysis operations.
type AnalysisHandler struct {
	svc    *service.AnalysisService
	logger *slog.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(svc *service.AnalysisService, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/analyses.
//
// Accepts either multipart/form-data with a "resume" file part and a
// "job_description" field, or a JSON body with "resume_text" and
// "job_description".
func (h *AnalysisHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := h.parseAnalyzeRequest(w, r)
	if !ok {
		return
	}

	input.OwnerID = ownerID(r)

	analysis, err := h.svc.Analyze(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("analysis_created",
		"analysis_id", analysis.ID,
		"resume_format", string(analysis.ResumeFormat),
		"match_score", analysis.MatchScore,
		"verdict", string(analysis.Verdict),
		"matched", analysis.MatchedCount(),
		"missing", analysis.MissingCount(),
	)

	writeJSON(w, http.StatusCreated, dto.ToAnalysisResponse(analysis))
}

// parseAnalyzeRequest builds an AnalyzeInput from either request shape.
// It writes the error response itself and returns ok=false on failure.
func (h *AnalysisHandler) parseAnalyzeRequest(w http.ResponseWriter, r *http.Request) (service.AnalyzeInput, bool) {
	var input service.AnalyzeInput

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
			h.writeError(w, http.StatusBadRequest, "INVALID_MULTIPART", "Malformed multipart form data")
			return input, false
		}

		file, header, err := r.FormFile("resume")
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "MISSING_RESUME", "A resume file part named 'resume' is required")
			return input, false
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "INVALID_MULTIPART", "Failed to read uploaded resume")
			return input, false
		}

		input.Filename = header.Filename
		input.ContentType = header.Header.Get("Content-Type")
		input.Resume = data
		input.JobDescription = r.FormValue("job_description")
		return input, true
	}

	var req dto.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return input, false
	}

	input.ResumeText = req.ResumeText
	input.JobDescription = req.JobDescription
	return input, true
}

// Get handles GET /api/v1/analyses/{id}.
func (h *AnalysisHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Analysis ID is required")
		return
	}

	analysis, err := h.svc.GetAnalysis(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToAnalysisResponse(analysis))
}

// List handles GET /api/v1/analyses.
func (h *AnalysisHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 20
	if l := query.Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	input := service.ListAnalysesInput{
		OwnerID: ownerID(r),
		Cursor:  query.Get("cursor"),
		Limit:   limit,
		Verdict: query.Get("verdict"),
	}

	if after := query.Get("created_after"); after != "" {
		if t, err := time.Parse(time.RFC3339, after); err == nil {
			input.CreatedAfter = &t
		}
	}
	if before := query.Get("created_before"); before != "" {
		if t, err := time.Parse(time.RFC3339, before); err == nil {
			input.CreatedBefore = &t
		}
	}

	result, err := h.svc.ListAnalyses(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToAnalysisListResponse(result.Analyses, result.NextCursor, result.HasMore))
}

// Delete handles DELETE /api/v1/analyses/{id}.
func (h *AnalysisHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Analysis ID is required")
		return
	}

	if err := h.svc.DeleteAnalysis(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("analysis_deleted", "analysis_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// ownerID resolves the owner for an analysis request. Unauthenticated
// requests fall into a shared anonymous bucket.
func ownerID(r *http.Request) string {
	if userID := auth.UserIDFromContext(r.Context()); userID != "" {
		return userID
	}
	return service.DefaultOwnerID
}

// handleServiceError maps service errors to HTTP responses.
func (h *AnalysisHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrAnalysisNotFound):
		h.writeError(w, http.StatusNotFound, "ANALYSIS_NOT_FOUND", "Analysis not found")
	case errors.Is(err, service.ErrMissingResume):
		h.writeError(w, http.StatusBadRequest, "MISSING_RESUME", "A resume file or resume_text is required")
	case errors.Is(err, service.ErrEmptyResume):
		h.writeError(w, http.StatusUnprocessableEntity, "EMPTY_RESUME", "Resume contains no extractable text")
	case errors.Is(err, service.ErrResumeTooLarge):
		h.writeError(w, http.StatusRequestEntityTooLarge, "RESUME_TOO_LARGE", "Resume exceeds the maximum allowed size")
	case errors.Is(err, service.ErrMissingJobDescription):
		h.writeError(w, http.StatusBadRequest, "MISSING_JOB_DESCRIPTION", "A job description is required")
	case errors.Is(err, service.ErrJobDescriptionTooLong):
		h.writeError(w, http.StatusBadRequest, "JOB_DESCRIPTION_TOO_LONG", "Job description exceeds the maximum allowed length")
	case errors.Is(err, service.ErrUnsupportedFormat):
		h.writeError(w, http.StatusUnsupportedMediaType, "UNSUPPORTED_FORMAT", "Resume must be a PDF, DOCX, or plain text file")
	case errors.Is(err, service.ErrUnreadableResume):
		h.writeError(w, http.StatusUnprocessableEntity, "UNREADABLE_RESUME", "Resume could not be parsed")
	case errors.Is(err, service.ErrInvalidCursor):
		h.writeError(w, http.StatusBadRequest, "INVALID_CURSOR", "Invalid pagination cursor")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *AnalysisHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
