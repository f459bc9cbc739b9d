// Package model defines domain entities for the application.
package model

import (
	"encoding/json"
	"strconv"
	"time"
)

// ResumeFormat identifies the source format of an uploaded resume.
type ResumeFormat string

const (
	FormatPDF  ResumeFormat = "pdf"
	FormatDOCX ResumeFormat = "docx"
	FormatText ResumeFormat = "txt"
)

// IsValid checks if the resume format is one the service can extract.
func (f ResumeFormat) IsValid() bool {
	return f == FormatPDF || f == FormatDOCX || f == FormatText
}

// Verdict is the qualitative interpretation of a match score.
type Verdict string

const (
	VerdictExcellent Verdict = "excellent"
	VerdictGood      Verdict = "good"
	VerdictFair      Verdict = "fair"
	VerdictLow       Verdict = "low"
)

// Score thresholds for verdict bands.
const (
	ExcellentThreshold = 80.0
	GoodThreshold      = 60.0
	FairThreshold      = 40.0
)

// VerdictForScore maps a 0-100 match score to its verdict band.
func VerdictForScore(score float64) Verdict {
	switch {
	case score >= ExcellentThreshold:
		return VerdictExcellent
	case score >= GoodThreshold:
		return VerdictGood
	case score >= FairThreshold:
		return VerdictFair
	default:
		return VerdictLow
	}
}

// Analysis represents a stored resume/job-description comparison.
type Analysis struct {
	ID                 string       `json:"id"`
	OwnerID            string       `json:"owner_id"`
	ResumeFilename     string       `json:"resume_filename"`
	ResumeFormat       ResumeFormat `json:"resume_format"`
	JobWordCount       int          `json:"job_word_count"`
	ResumeKeywordCount int          `json:"resume_keyword_count"`
	JobKeywordCount    int          `json:"job_keyword_count"`
	MatchScore         float64      `json:"match_score"`
	Verdict            Verdict      `json:"verdict"`
	MatchedKeywords    []string     `json:"matched_keywords"`
	MissingKeywords    []string     `json:"missing_keywords"`
	DeletedAt          *time.Time   `json:"-"`
	CreatedAt          time.Time    `json:"created_at"`
}

// MatchedCount returns the number of matched keywords.
func (a *Analysis) MatchedCount() int {
	return len(a.MatchedKeywords)
}

// MissingCount returns the number of job keywords absent from the resume.
func (a *Analysis) MissingCount() int {
	return len(a.MissingKeywords)
}

// IsDeleted returns true if the analysis has been soft-deleted.
func (a *Analysis) IsDeleted() bool {
	return a.DeletedAt != nil
}

// CachedAnalysis represents analysis data stored in a Redis hash.
// Uses string types for Redis hash compatibility; keyword lists are
// stored as JSON arrays.
type CachedAnalysis struct {
	OwnerID            string `redis:"owner_id"`
	ResumeFilename     string `redis:"resume_filename"`
	ResumeFormat       string `redis:"resume_format"`
	JobWordCount       string `redis:"job_word_count"`
	ResumeKeywordCount string `redis:"resume_keyword_count"`
	JobKeywordCount    string `redis:"job_keyword_count"`
	MatchScore         string `redis:"match_score"`
	Verdict            string `redis:"verdict"`
	MatchedKeywords    string `redis:"matched_keywords"` // JSON array
	MissingKeywords    string `redis:"missing_keywords"` // JSON array
	CreatedAt          string `redis:"created_at"`       // Unix timestamp
}

// ToAnalysis converts CachedAnalysis to the Analysis domain model.
func (c *CachedAnalysis) ToAnalysis(id string) *Analysis {
	a := &Analysis{
		ID:             id,
		OwnerID:        c.OwnerID,
		ResumeFilename: c.ResumeFilename,
		ResumeFormat:   ResumeFormat(c.ResumeFormat),
		Verdict:        Verdict(c.Verdict),
	}

	a.JobWordCount, _ = strconv.Atoi(c.JobWordCount)
	a.ResumeKeywordCount, _ = strconv.Atoi(c.ResumeKeywordCount)
	a.JobKeywordCount, _ = strconv.Atoi(c.JobKeywordCount)
	a.MatchScore, _ = strconv.ParseFloat(c.MatchScore, 64)

	if c.MatchedKeywords != "" {
		_ = json.Unmarshal([]byte(c.MatchedKeywords), &a.MatchedKeywords)
	}
	if c.MissingKeywords != "" {
		_ = json.Unmarshal([]byte(c.MissingKeywords), &a.MissingKeywords)
	}

	if c.CreatedAt != "" {
		if ts, err := strconv.ParseInt(c.CreatedAt, 10, 64); err == nil {
			a.CreatedAt = time.Unix(ts, 0).UTC()
		}
	}

	return a
}

// ToCachedAnalysis converts the Analysis domain model to its Redis form.
func (a *Analysis) ToCachedAnalysis() *CachedAnalysis {
	matched, _ := json.Marshal(a.MatchedKeywords)
	missing, _ := json.Marshal(a.MissingKeywords)

	return &CachedAnalysis{
		OwnerID:            a.OwnerID,
		ResumeFilename:     a.ResumeFilename,
		ResumeFormat:       string(a.ResumeFormat),
		JobWordCount:       strconv.Itoa(a.JobWordCount),
		ResumeKeywordCount: strconv.Itoa(a.ResumeKeywordCount),
		JobKeywordCount:    strconv.Itoa(a.JobKeywordCount),
		MatchScore:         strconv.FormatFloat(a.MatchScore, 'f', 2, 64),
		Verdict:            string(a.Verdict),
		MatchedKeywords:    string(matched),
		MissingKeywords:    string(missing),
		CreatedAt:          strconv.FormatInt(a.CreatedAt.Unix(), 10),
	}
}
