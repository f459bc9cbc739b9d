package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jainamshah2028/ai-resume-grader/internal/keywords"
)

const (
	// extractionKeyPrefix is the Redis key prefix for extracted keyword sets.
	extractionKeyPrefix = "extract:"
	// extractionTTL is the TTL for cached extraction results.
	extractionTTL = time.Hour
)

// GetExtraction retrieves a cached keyword set by content digest.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetExtraction(ctx context.Context, digest string) (keywords.Set, error) {
	key := extractionKeyPrefix + digest

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, ErrCacheMiss
	}

	var set keywords.Set
	if err := json.Unmarshal(data, &set); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, ErrCacheMiss
	}

	return set, nil
}

// SetExtraction caches a keyword set under the given content digest.
// Repeated uploads of the same resume skip text extraction entirely.
func (c *Cache) SetExtraction(ctx context.Context, digest string, set keywords.Set) error {
	key := extractionKeyPrefix + digest

	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal keyword set: %w", err)
	}

	return c.client.Set(ctx, key, data, extractionTTL).Err()
}
