//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jainamshah2028/ai-resume-grader/internal/auth"
	"github.com/jainamshah2028/ai-resume-grader/internal/model"
	"github.com/jainamshah2028/ai-resume-grader/internal/repository"
)

const (
	systemUserID = "system"
	systemEmail  = "system@resume-grader.local"
)

type apiKeyCreateResponse struct {
	ID     string   `json:"id"`
	Key    string   `json:"key"`
	Scopes []string `json:"scopes"`
}

type analysisResponse struct {
	ID              string   `json:"id"`
	ResumeFilename  string   `json:"resume_filename"`
	ResumeFormat    string   `json:"resume_format"`
	MatchScore      float64  `json:"match_score"`
	Verdict         string   `json:"verdict"`
	MatchedKeywords []string `json:"matched_keywords"`
	MissingKeywords []string `json:"missing_keywords"`
}

type analysisListResponse struct {
	Data []analysisResponse `json:"data"`
}

func TestE2ESmoke(t *testing.T) {
	baseURL := envOrDefault("GRADER_BASE_URL", "http://localhost:8080")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatalf("DATABASE_URL is required for e2e tests")
	}

	bootstrapKey := bootstrapAdminKey(t, dbURL)
	testKey := createAPIKey(t, baseURL, bootstrapKey)

	analysis := createAnalysis(t, baseURL)

	fetched := getAnalysis(t, baseURL, analysis.ID)
	if fetched.Verdict != analysis.Verdict {
		t.Fatalf("verdict changed between create and get: %q vs %q", analysis.Verdict, fetched.Verdict)
	}

	assertAnalysisListed(t, baseURL, testKey.Key, analysis.ID)
	deleteAnalysis(t, baseURL, testKey.Key, analysis.ID)
	assertAnalysisGone(t, baseURL, analysis.ID)

	revokeAPIKey(t, baseURL, bootstrapKey, testKey.ID)
	assertKeyRejected(t, baseURL, testKey.Key)
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func bootstrapAdminKey(t *testing.T, dbURL string) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer repo.Close()

	if err := ensureUser(ctx, repo, systemUserID, systemEmail); err != nil {
		t.Fatalf("ensure user: %v", err)
	}

	generated, err := auth.GenerateAPIKey(auth.EnvLive)
	if err != nil {
		t.Fatalf("generate api key: %v", err)
	}

	apiKey := &model.APIKey{
		ID:            ulid.Make().String(),
		UserID:        systemUserID,
		KeyHash:       generated.Hash,
		KeyDigest:     auth.QuickHash(generated.Plaintext),
		KeyPrefix:     generated.Prefix,
		Scopes:        []string{model.ScopeAdmin},
		RateLimitTier: model.TierUnlimited,
		Name:          "e2e-bootstrap",
		CreatedAt:     time.Now().UTC(),
	}

	if err := repo.CreateAPIKey(ctx, apiKey); err != nil {
		t.Fatalf("create api key: %v", err)
	}

	return generated.Plaintext
}

func ensureUser(ctx context.Context, repo *repository.Repository, userID, email string) error {
	if existing, err := repo.GetUserByID(ctx, userID); err == nil {
		if existing.Email != email {
			return fmt.Errorf("user %s exists with different email: %s", userID, existing.Email)
		}
		return nil
	}

	if byEmail, err := repo.GetUserByEmail(ctx, email); err == nil {
		if byEmail.ID != userID {
			return fmt.Errorf("email %s already used by user %s", email, byEmail.ID)
		}
		return nil
	}

	user := &model.User{ID: userID, Email: email, CreatedAt: time.Now().UTC()}
	return repo.CreateUser(ctx, user)
}

func createAPIKey(t *testing.T, baseURL, bootstrapKey string) apiKeyCreateResponse {
	t.Helper()

	payload := map[string]any{
		"name":   "e2e-key",
		"scopes": []string{"admin"},
	}

	var resp apiKeyCreateResponse
	status := doJSON(t, http.MethodPost, baseURL+"/api/v1/api-keys", bootstrapKey, payload, &resp)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 from api key create, got %d", status)
	}
	if resp.ID == "" || resp.Key == "" {
		t.Fatalf("api key response missing id or key")
	}
	return resp
}

func revokeAPIKey(t *testing.T, baseURL, adminKey, keyID string) {
	t.Helper()

	status := doJSON(t, http.MethodDelete, baseURL+"/api/v1/api-keys/"+keyID, adminKey, nil, nil)
	if status != http.StatusNoContent {
		t.Fatalf("expected 204 from api key revoke, got %d", status)
	}
}

// assertKeyRejected checks that a freshly revoked key is refused without
// waiting out the auth cache TTL.
func assertKeyRejected(t *testing.T, baseURL, apiKey string) {
	t.Helper()

	status := doJSON(t, http.MethodGet, baseURL+"/api/v1/analyses?limit=1", apiKey, nil, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for revoked key, got %d", status)
	}
}

func createAnalysis(t *testing.T, baseURL string) analysisResponse {
	t.Helper()

	resume := "Senior Go engineer. Built services on PostgreSQL and Redis, " +
		"deployed with Docker. Comfortable with gRPC and observability tooling."
	jobDescription := "We need a Go engineer with PostgreSQL, Redis, Docker, " +
		"and Kubernetes experience."

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("resume", "resume.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(resume)); err != nil {
		t.Fatalf("write resume part: %v", err)
	}
	if err := mw.WriteField("job_description", jobDescription); err != nil {
		t.Fatalf("write job description: %v", err)
	}
	_ = mw.Close()

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/v1/analyses", &buf)
	if err != nil {
		t.Fatalf("create analyze request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	client := &http.Client{Timeout: 30 * time.Second}
	httpResp, err := client.Do(req)
	if err != nil {
		t.Fatalf("analyze request: %v", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(httpResp.Body)
		t.Fatalf("expected 201 from analyze, got %d: %s", httpResp.StatusCode, body)
	}

	var resp analysisResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		t.Fatalf("decode analyze response: %v", err)
	}
	if resp.ID == "" || resp.Verdict == "" {
		t.Fatalf("analyze response missing fields")
	}
	if resp.ResumeFormat != "txt" {
		t.Fatalf("expected resume_format txt, got %q", resp.ResumeFormat)
	}
	if resp.MatchScore <= 0 {
		t.Fatalf("expected positive match score, got %f", resp.MatchScore)
	}
	if len(resp.MissingKeywords) == 0 {
		t.Fatalf("expected kubernetes to be reported missing")
	}
	return resp
}

func getAnalysis(t *testing.T, baseURL, id string) analysisResponse {
	t.Helper()

	var resp analysisResponse
	status := doJSON(t, http.MethodGet, baseURL+"/api/v1/analyses/"+id, "", nil, &resp)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from analysis get, got %d", status)
	}
	return resp
}

func assertAnalysisListed(t *testing.T, baseURL, apiKey, id string) {
	t.Helper()

	var resp analysisListResponse
	status := doJSON(t, http.MethodGet, baseURL+"/api/v1/analyses?limit=50", apiKey, nil, &resp)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from analysis list, got %d", status)
	}

	// The analysis was created anonymously and the list is scoped to the
	// key's owner, so it is fine for the list to be empty here. If owner
	// scoping ever leaks other accounts' rows this will catch it.
	for _, a := range resp.Data {
		if a.ID == id {
			t.Fatalf("anonymous analysis leaked into authenticated list")
		}
	}
}

func deleteAnalysis(t *testing.T, baseURL, apiKey, id string) {
	t.Helper()

	status := doJSON(t, http.MethodDelete, baseURL+"/api/v1/analyses/"+id, apiKey, nil, nil)
	if status != http.StatusNoContent {
		t.Fatalf("expected 204 from analysis delete, got %d", status)
	}
}

func assertAnalysisGone(t *testing.T, baseURL, id string) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		status := doJSON(t, http.MethodGet, baseURL+"/api/v1/analyses/"+id, "", nil, nil)
		if status == http.StatusNotFound {
			return
		}
		time.Sleep(250 * time.Millisecond)
	}

	t.Fatalf("deleted analysis still resolves")
}

func doJSON(t *testing.T, method, url, apiKey string, body any, out any) int {
	t.Helper()

	var buf io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		buf = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}

	return resp.StatusCode
}
