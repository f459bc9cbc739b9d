package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jainamshah2028/ai-resume-grader/internal/model"
)

// Cache key prefixes and TTLs.
const (
	analysisKeyPrefix = "analysis:"
	negCacheKeySuffix = ":neg"

	// DefaultAnalysisTTL is the TTL for cached analysis data.
	DefaultAnalysisTTL = 24 * time.Hour

	// NegativeCacheTTL is the TTL for negative cache entries.
	NegativeCacheTTL = 5 * time.Minute
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// GetAnalysis retrieves an analysis from cache by ID.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetAnalysis(ctx context.Context, id string) (*model.Analysis, error) {
	key := analysisKeyPrefix + id

	result, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}

	if len(result) == 0 {
		return nil, ErrCacheMiss
	}

	cached := &model.CachedAnalysis{
		OwnerID:            result["owner_id"],
		ResumeFilename:     result["resume_filename"],
		ResumeFormat:       result["resume_format"],
		JobWordCount:       result["job_word_count"],
		ResumeKeywordCount: result["resume_keyword_count"],
		JobKeywordCount:    result["job_keyword_count"],
		MatchScore:         result["match_score"],
		Verdict:            result["verdict"],
		MatchedKeywords:    result["matched_keywords"],
		MissingKeywords:    result["missing_keywords"],
		CreatedAt:          result["created_at"],
	}

	return cached.ToAnalysis(id), nil
}

// SetAnalysis stores an analysis in cache.
func (c *Cache) SetAnalysis(ctx context.Context, analysis *model.Analysis) error {
	key := analysisKeyPrefix + analysis.ID
	cached := analysis.ToCachedAnalysis()

	fields := map[string]any{
		"owner_id":             cached.OwnerID,
		"resume_filename":      cached.ResumeFilename,
		"resume_format":        cached.ResumeFormat,
		"job_word_count":       cached.JobWordCount,
		"resume_keyword_count": cached.ResumeKeywordCount,
		"job_keyword_count":    cached.JobKeywordCount,
		"match_score":          cached.MatchScore,
		"verdict":              cached.Verdict,
		"matched_keywords":     cached.MatchedKeywords,
		"missing_keywords":     cached.MissingKeywords,
		"created_at":           cached.CreatedAt,
	}

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, DefaultAnalysisTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache analysis: %w", err)
	}

	// Remove negative cache if exists
	c.client.Del(ctx, key+negCacheKeySuffix)

	return nil
}

// DeleteAnalysis removes an analysis from cache.
func (c *Cache) DeleteAnalysis(ctx context.Context, id string) error {
	key := analysisKeyPrefix + id

	pipe := c.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.Del(ctx, key+negCacheKeySuffix)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete analysis from cache: %w", err)
	}

	return nil
}

// IsNegativelyCached checks if an analysis ID is in negative cache.
func (c *Cache) IsNegativelyCached(ctx context.Context, id string) (bool, error) {
	key := analysisKeyPrefix + id + negCacheKeySuffix

	exists, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check negative cache: %w", err)
	}

	return exists > 0, nil
}

// SetNegativeCache marks an analysis ID as not found.
func (c *Cache) SetNegativeCache(ctx context.Context, id string) error {
	key := analysisKeyPrefix + id + negCacheKeySuffix

	if err := c.client.SetEx(ctx, key, "", NegativeCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set negative cache: %w", err)
	}

	return nil
}
