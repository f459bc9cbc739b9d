// Package service provides business logic for the application.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jainamshah2028/ai-resume-grader/internal/cache"
	"github.com/jainamshah2028/ai-resume-grader/internal/extract"
	"github.com/jainamshah2028/ai-resume-grader/internal/keywords"
	"github.com/jainamshah2028/ai-resume-grader/internal/metrics"
	"github.com/jainamshah2028/ai-resume-grader/internal/model"
	"github.com/jainamshah2028/ai-resume-grader/internal/repository"
)

// Service errors.
var (
	ErrAnalysisNotFound      = errors.New("analysis not found")
	ErrMissingResume         = errors.New("resume file is required")
	ErrEmptyResume           = errors.New("resume contains no extractable text")
	ErrResumeTooLarge        = errors.New("resume file exceeds size limit")
	ErrMissingJobDescription = errors.New("job description is required")
	ErrJobDescriptionTooLong = errors.New("job description exceeds length limit")
	ErrUnsupportedFormat     = errors.New("unsupported resume format")
	ErrUnreadableResume      = errors.New("resume could not be parsed")
	ErrInvalidCursor         = errors.New("invalid pagination cursor")
)

// DefaultOwnerID is attributed to analyses created without authentication.
const DefaultOwnerID = "anonymous"

// AnalysisService handles resume analysis business logic.
type AnalysisService struct {
	repo          *repository.Repository
	cache         *cache.Cache
	metrics       metrics.Recorder
	maxResumeSize int64
	maxJobDescLen int
	minKeywordLen int
}

// AnalysisServiceOptions configures an AnalysisService.
type AnalysisServiceOptions struct {
	MaxResumeSize           int64
	MaxJobDescriptionLength int
	MinKeywordLength        int
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(repo *repository.Repository, cache *cache.Cache, opts AnalysisServiceOptions, recorder metrics.Recorder) *AnalysisService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if opts.MinKeywordLength <= 0 {
		opts.MinKeywordLength = keywords.DefaultMinLength
	}
	return &AnalysisService{
		repo:          repo,
		cache:         cache,
		metrics:       recorder,
		maxResumeSize: opts.MaxResumeSize,
		maxJobDescLen: opts.MaxJobDescriptionLength,
		minKeywordLen: opts.MinKeywordLength,
	}
}

// AnalyzeInput defines input for analyzing a resume against a job description.
// Either Resume (raw file bytes) or ResumeText must be provided.
type AnalyzeInput struct {
	Filename       string
	ContentType    string
	Resume         []byte
	ResumeText     string
	JobDescription string
	OwnerID        string
}

// Analyze extracts keywords from a resume and a job description,
// scores the overlap, and stores the result.
func (s *AnalysisService) Analyze(ctx context.Context, input AnalyzeInput) (*model.Analysis, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveAnalyzeDuration(time.Since(start))
	}()

	jobDescription := strings.TrimSpace(input.JobDescription)
	if jobDescription == "" {
		return nil, ErrMissingJobDescription
	}
	if s.maxJobDescLen > 0 && len(jobDescription) > s.maxJobDescLen {
		return nil, ErrJobDescriptionTooLong
	}

	resumeSet, filename, format, err := s.resumeKeywords(ctx, input)
	if err != nil {
		return nil, err
	}

	jobSet := s.jobKeywords(ctx, jobDescription)
	match := keywords.Compare(resumeSet, jobSet)

	ownerID := input.OwnerID
	if ownerID == "" {
		ownerID = DefaultOwnerID
	}

	analysis := &model.Analysis{
		ID:                 ulid.Make().String(),
		OwnerID:            ownerID,
		ResumeFilename:     filename,
		ResumeFormat:       format,
		JobWordCount:       keywords.WordCount(jobDescription),
		ResumeKeywordCount: match.ResumeCount,
		JobKeywordCount:    match.JobCount,
		MatchScore:         match.Score,
		Verdict:            model.VerdictForScore(match.Score),
		MatchedKeywords:    match.Matched,
		MissingKeywords:    match.Missing,
		CreatedAt:          time.Now().UTC(),
	}

	if err := s.repo.CreateAnalysis(ctx, analysis); err != nil {
		return nil, fmt.Errorf("failed to store analysis: %w", err)
	}

	s.metrics.IncAnalysisCreated()

	// Warm the read path. Best effort.
	_ = s.cache.SetAnalysis(ctx, analysis)

	return analysis, nil
}

// resumeKeywords produces the keyword set for the uploaded resume,
// consulting the extraction cache before parsing the file.
func (s *AnalysisService) resumeKeywords(ctx context.Context, input AnalyzeInput) (keywords.Set, string, model.ResumeFormat, error) {
	// Plain text path: the caller already has resume text.
	if len(input.Resume) == 0 {
		text := strings.TrimSpace(input.ResumeText)
		if text == "" {
			return nil, "", "", ErrMissingResume
		}
		filename := input.Filename
		if filename == "" {
			filename = "resume.txt"
		}
		return keywords.Extract(text, s.minKeywordLen), filename, model.FormatText, nil
	}

	if s.maxResumeSize > 0 && int64(len(input.Resume)) > s.maxResumeSize {
		return nil, "", "", ErrResumeTooLarge
	}

	format, err := extract.DetectFormat(input.Filename, input.ContentType, input.Resume)
	if err != nil {
		return nil, "", "", ErrUnsupportedFormat
	}

	digest := contentDigest(input.Resume)
	if set, err := s.cache.GetExtraction(ctx, digest); err == nil {
		s.metrics.IncExtractionCacheHit()
		return set, input.Filename, format, nil
	}
	s.metrics.IncExtractionCacheMiss()

	extractStart := time.Now()
	text, err := extract.Text(format, input.Resume)
	s.metrics.ObserveExtractionDuration(string(format), time.Since(extractStart))

	if err != nil {
		switch {
		case errors.Is(err, extract.ErrEmptyDocument):
			return nil, "", "", ErrEmptyResume
		case errors.Is(err, extract.ErrUnsupportedFormat):
			return nil, "", "", ErrUnsupportedFormat
		default:
			return nil, "", "", fmt.Errorf("%w: %s", ErrUnreadableResume, err)
		}
	}

	set := keywords.Extract(text, s.minKeywordLen)

	// Best effort. Repeated uploads of the same file skip parsing.
	_ = s.cache.SetExtraction(ctx, digest, set)

	return set, input.Filename, format, nil
}

// jobKeywords produces the keyword set for a job description,
// consulting the extraction cache under the text's SHA-256 digest.
func (s *AnalysisService) jobKeywords(ctx context.Context, jobDescription string) keywords.Set {
	digest := contentDigest([]byte(jobDescription))
	if set, err := s.cache.GetExtraction(ctx, digest); err == nil {
		s.metrics.IncExtractionCacheHit()
		return set
	}
	s.metrics.IncExtractionCacheMiss()

	set := keywords.Extract(jobDescription, s.minKeywordLen)

	// Best effort. Reposting the same listing skips extraction.
	_ = s.cache.SetExtraction(ctx, digest, set)

	return set
}

// GetAnalysis retrieves an analysis by ID with cache-first lookup.
func (s *AnalysisService) GetAnalysis(ctx context.Context, id string) (*model.Analysis, error) {
	cached, err := s.cache.GetAnalysis(ctx, id)
	if err == nil {
		s.metrics.IncAnalysisCacheHit()
		return cached, nil
	}

	if errors.Is(err, cache.ErrCacheMiss) {
		s.metrics.IncAnalysisCacheMiss()
		isNegative, _ := s.cache.IsNegativelyCached(ctx, id)
		if isNegative {
			return nil, ErrAnalysisNotFound
		}
	}

	analysis, err := s.repo.GetAnalysisByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAnalysisNotFound) {
			_ = s.cache.SetNegativeCache(ctx, id)
			return nil, ErrAnalysisNotFound
		}
		return nil, err
	}

	// Backfill cache. Best effort.
	_ = s.cache.SetAnalysis(ctx, analysis)

	return analysis, nil
}

// ListAnalysesInput defines input for listing analyses.
type ListAnalysesInput struct {
	OwnerID       string
	Cursor        string
	Limit         int
	Verdict       string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// ListAnalysesOutput defines output for listing analyses.
type ListAnalysesOutput struct {
	Analyses   []*model.Analysis
	NextCursor string
	HasMore    bool
}

// ListAnalyses retrieves a paginated list of analyses.
func (s *AnalysisService) ListAnalyses(ctx context.Context, input ListAnalysesInput) (*ListAnalysesOutput, error) {
	if input.Limit <= 0 || input.Limit > 100 {
		input.Limit = 20
	}
	if input.OwnerID == "" {
		input.OwnerID = DefaultOwnerID
	}

	filter := repository.AnalysisFilter{
		OwnerID:       input.OwnerID,
		Verdict:       model.Verdict(input.Verdict),
		CreatedAfter:  input.CreatedAfter,
		CreatedBefore: input.CreatedBefore,
	}

	analyses, nextCursor, err := s.repo.ListAnalyses(ctx, filter, input.Cursor, input.Limit)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCursor) {
			return nil, ErrInvalidCursor
		}
		return nil, err
	}

	return &ListAnalysesOutput{
		Analyses:   analyses,
		NextCursor: nextCursor,
		HasMore:    nextCursor != "",
	}, nil
}

// DeleteAnalysis soft-deletes an analysis.
func (s *AnalysisService) DeleteAnalysis(ctx context.Context, id string) error {
	if err := s.repo.DeleteAnalysis(ctx, id); err != nil {
		if errors.Is(err, repository.ErrAnalysisNotFound) {
			return ErrAnalysisNotFound
		}
		return err
	}

	s.metrics.IncAnalysisDeleted()

	// Invalidate cache. Best effort.
	_ = s.cache.DeleteAnalysis(ctx, id)

	return nil
}

// contentDigest returns the hex SHA256 digest of raw file content.
func contentDigest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
