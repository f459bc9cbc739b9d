// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/jainamshah2028/ai-resume-grader/internal/model"
)

// AnalyzeRequest represents the JSON request body for creating an
// analysis without a file upload.
type AnalyzeRequest struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
}

// AnalysisResponse represents an analysis in API responses.
type AnalysisResponse struct {
	ID                 string    `json:"id"`
	ResumeFilename     string    `json:"resume_filename"`
	ResumeFormat       string    `json:"resume_format"`
	JobWordCount       int       `json:"job_word_count"`
	ResumeKeywordCount int       `json:"resume_keyword_count"`
	JobKeywordCount    int       `json:"job_keyword_count"`
	MatchScore         float64   `json:"match_score"`
	Verdict            string    `json:"verdict"`
	MatchedKeywords    []string  `json:"matched_keywords"`
	MissingKeywords    []string  `json:"missing_keywords"`
	CreatedAt          time.Time `json:"created_at"`
}

// AnalysisListResponse represents a paginated list of analyses.
type AnalysisListResponse struct {
	Data       []AnalysisResponse `json:"data"`
	Pagination *Pagination        `json:"pagination"`
}

// Pagination provides cursor-based pagination info.
type Pagination struct {
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToAnalysisResponse converts an Analysis model to AnalysisResponse DTO.
func ToAnalysisResponse(a *model.Analysis) *AnalysisResponse {
	matched := a.MatchedKeywords
	if matched == nil {
		matched = []string{}
	}
	missing := a.MissingKeywords
	if missing == nil {
		missing = []string{}
	}
	return &AnalysisResponse{
		ID:                 a.ID,
		ResumeFilename:     a.ResumeFilename,
		ResumeFormat:       string(a.ResumeFormat),
		JobWordCount:       a.JobWordCount,
		ResumeKeywordCount: a.ResumeKeywordCount,
		JobKeywordCount:    a.JobKeywordCount,
		MatchScore:         a.MatchScore,
		Verdict:            string(a.Verdict),
		MatchedKeywords:    matched,
		MissingKeywords:    missing,
		CreatedAt:          a.CreatedAt,
	}
}

// ToAnalysisListResponse converts a slice of Analysis models to a
// paginated list response.
func ToAnalysisListResponse(analyses []*model.Analysis, nextCursor string, hasMore bool) *AnalysisListResponse {
	responses := make([]AnalysisResponse, len(analyses))
	for i, a := range analyses {
		responses[i] = *ToAnalysisResponse(a)
	}
	return &AnalysisListResponse{
		Data: responses,
		Pagination: &Pagination{
			NextCursor: nextCursor,
			HasMore:    hasMore,
		},
	}
}
