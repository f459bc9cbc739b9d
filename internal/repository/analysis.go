package repository

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/jainamshah2028/ai-resume-grader/internal/model"
)

// Common errors for analysis repository operations.
var (
	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrInvalidCursor    = errors.New("invalid pagination cursor")
)

// AnalysisFilter defines filters for listing analyses.
type AnalysisFilter struct {
	OwnerID       string
	Verdict       model.Verdict
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// PaginationCursor represents decoded cursor for pagination.
type PaginationCursor struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateAnalysis inserts a new analysis into the database.
func (r *Repository) CreateAnalysis(ctx context.Context, analysis *model.Analysis) error {
	query := `
		INSERT INTO analyses (id, owner_id, resume_filename, resume_format, job_word_count, resume_keyword_count, job_keyword_count, match_score, verdict, matched_keywords, missing_keywords, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		analysis.ID,
		analysis.OwnerID,
		analysis.ResumeFilename,
		analysis.ResumeFormat,
		analysis.JobWordCount,
		analysis.ResumeKeywordCount,
		analysis.JobKeywordCount,
		analysis.MatchScore,
		analysis.Verdict,
		pq.Array(analysis.MatchedKeywords),
		pq.Array(analysis.MissingKeywords),
		analysis.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}

	return nil
}

// GetAnalysisByID retrieves an analysis by its ID.
func (r *Repository) GetAnalysisByID(ctx context.Context, id string) (*model.Analysis, error) {
	query := `
		SELECT id, owner_id, resume_filename, resume_format, job_word_count, resume_keyword_count, job_keyword_count, match_score, verdict, matched_keywords, missing_keywords, deleted_at, created_at
		FROM analyses
		WHERE id = $1 AND deleted_at IS NULL
	`

	analysis, err := scanAnalysis(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("failed to get analysis by ID: %w", err)
	}

	return analysis, nil
}

// ListAnalyses retrieves a paginated list of analyses.
func (r *Repository) ListAnalyses(ctx context.Context, filter AnalysisFilter, cursor string, limit int) ([]*model.Analysis, string, error) {
	var cursorData *PaginationCursor
	if cursor != "" {
		var err error
		cursorData, err = decodeCursor(cursor)
		if err != nil {
			return nil, "", ErrInvalidCursor
		}
	}

	query := `
		SELECT id, owner_id, resume_filename, resume_format, job_word_count, resume_keyword_count, job_keyword_count, match_score, verdict, matched_keywords, missing_keywords, deleted_at, created_at
		FROM analyses
		WHERE deleted_at IS NULL
		  AND owner_id = $1
	`
	args := []any{filter.OwnerID}
	argIndex := 2

	if cursorData != nil {
		query += fmt.Sprintf(" AND (created_at, id) < ($%d, $%d)", argIndex, argIndex+1)
		args = append(args, cursorData.CreatedAt, cursorData.ID)
		argIndex += 2
	}

	if filter.Verdict != "" {
		query += fmt.Sprintf(" AND verdict = $%d", argIndex)
		args = append(args, filter.Verdict)
		argIndex++
	}

	if filter.CreatedAfter != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIndex)
		args = append(args, *filter.CreatedAfter)
		argIndex++
	}

	if filter.CreatedBefore != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argIndex)
		args = append(args, *filter.CreatedBefore)
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", argIndex)
	args = append(args, limit+1) // Fetch one extra to determine hasMore

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var analyses []*model.Analysis
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan analysis: %w", err)
		}
		analyses = append(analyses, analysis)
	}

	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("error iterating analyses: %w", err)
	}

	var nextCursor string
	if len(analyses) > limit {
		analyses = analyses[:limit]
		last := analyses[len(analyses)-1]
		nextCursor = encodeCursor(&PaginationCursor{
			ID:        last.ID,
			CreatedAt: last.CreatedAt,
		})
	}

	return analyses, nextCursor, nil
}

// DeleteAnalysis performs a soft delete on an analysis.
func (r *Repository) DeleteAnalysis(ctx context.Context, id string) error {
	query := `
		UPDATE analyses
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrAnalysisNotFound
	}

	return nil
}

// CountAnalyses returns the number of analyses for an owner.
func (r *Repository) CountAnalyses(ctx context.Context, ownerID string) (int64, error) {
	query := `SELECT COUNT(*) FROM analyses WHERE owner_id = $1 AND deleted_at IS NULL`

	var count int64
	if err := r.pool.QueryRow(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count analyses: %w", err)
	}

	return count, nil
}

// scanAnalysis scans a row into an Analysis model.
// Works for both pgx.Row and pgx.Rows.
func scanAnalysis(row pgx.Row) (*model.Analysis, error) {
	var analysis model.Analysis
	err := row.Scan(
		&analysis.ID,
		&analysis.OwnerID,
		&analysis.ResumeFilename,
		&analysis.ResumeFormat,
		&analysis.JobWordCount,
		&analysis.ResumeKeywordCount,
		&analysis.JobKeywordCount,
		&analysis.MatchScore,
		&analysis.Verdict,
		pq.Array(&analysis.MatchedKeywords),
		pq.Array(&analysis.MissingKeywords),
		&analysis.DeletedAt,
		&analysis.CreatedAt,
	)
	return &analysis, err
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	// PostgreSQL error code 23505 is unique_violation
	if err == nil {
		return false
	}
	msg := err.Error()
	return containsSubstring(msg, "23505") || containsSubstring(msg, "unique")
}

func containsSubstring(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

// encodeCursor encodes pagination cursor to base64.
func encodeCursor(cursor *PaginationCursor) string {
	data, _ := json.Marshal(cursor)
	return base64.URLEncoding.EncodeToString(data)
}

// decodeCursor decodes base64 pagination cursor.
func decodeCursor(s string) (*PaginationCursor, error) {
	data, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}

	var cursor PaginationCursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, err
	}

	return &cursor, nil
}
