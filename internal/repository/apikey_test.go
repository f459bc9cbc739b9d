package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jainamshah2028/ai-resume-grader/internal/model"
	"github.com/jainamshah2028/ai-resume-grader/internal/testutil"
)

func TestRepository_CreateAndGetAPIKey(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	user := createTestUser(t, ctx, repo)
	key := testutil.NewTestAPIKey(t, user.ID)

	if err := repo.CreateAPIKey(ctx, key); err != nil {
		t.Fatalf("create api key: %v", err)
	}

	got, err := repo.GetAPIKeyByID(ctx, key.ID)
	if err != nil {
		t.Fatalf("get api key: %v", err)
	}

	if got.UserID != key.UserID {
		t.Fatalf("user_id mismatch: %q vs %q", key.UserID, got.UserID)
	}
	if got.KeyHash != key.KeyHash {
		t.Fatalf("key_hash mismatch: %q vs %q", key.KeyHash, got.KeyHash)
	}
	if got.KeyDigest != key.KeyDigest {
		t.Fatalf("key_digest mismatch: %q vs %q", key.KeyDigest, got.KeyDigest)
	}
	if got.KeyPrefix != key.KeyPrefix {
		t.Fatalf("key_prefix mismatch: %q vs %q", key.KeyPrefix, got.KeyPrefix)
	}
	if got.IsRevoked() {
		t.Fatalf("fresh key reported as revoked")
	}
}

func TestRepository_RevokeAPIKey(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	user := createTestUser(t, ctx, repo)
	key := testutil.NewTestAPIKey(t, user.ID)
	if err := repo.CreateAPIKey(ctx, key); err != nil {
		t.Fatalf("create api key: %v", err)
	}

	candidates, err := repo.GetAPIKeysByPrefix(ctx, key.KeyPrefix)
	if err != nil {
		t.Fatalf("prefix lookup: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate before revoke, got %d", len(candidates))
	}
	if candidates[0].KeyDigest != key.KeyDigest {
		t.Fatalf("prefix lookup dropped key_digest")
	}

	if err := repo.RevokeAPIKey(ctx, key.ID); err != nil {
		t.Fatalf("revoke api key: %v", err)
	}

	got, err := repo.GetAPIKeyByID(ctx, key.ID)
	if err != nil {
		t.Fatalf("get revoked key: %v", err)
	}
	if !got.IsRevoked() {
		t.Fatalf("revoked key not marked revoked")
	}

	candidates, err = repo.GetAPIKeysByPrefix(ctx, key.KeyPrefix)
	if err != nil {
		t.Fatalf("prefix lookup after revoke: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("revoked key still returned by prefix lookup")
	}

	// Revoking twice reports not found.
	if err := repo.RevokeAPIKey(ctx, key.ID); !errors.Is(err, ErrAPIKeyNotFound) {
		t.Fatalf("expected ErrAPIKeyNotFound on double revoke, got %v", err)
	}
}

func createTestUser(t *testing.T, ctx context.Context, repo *Repository) *model.User {
	t.Helper()

	user := &model.User{
		ID:        testutil.UniqueID("user"),
		Email:     testutil.UniqueID("user") + "@example.com",
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}
