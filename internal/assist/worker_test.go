package assist

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWorkerRequest(t *testing.T, dir string, req workerRequest) {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, requestFile), data, 0o600))
}

func readArtifact(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}

func TestRunWorkerSuccess(t *testing.T) {
	var gotAuth string
	var gotBody chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"summary\":\"Typo.\",\"command\":\"git status\",\"why\":\"gti is not a command\",\"confidence\":0.95}"}}]}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	writeWorkerRequest(t, dir, workerRequest{
		BaseURL: srv.URL + "/v1",
		APIKey:  "sk-test",
		Model:   "gpt-5-mini",
		Messages: []Message{
			{Role: "system", Content: "assist"},
			{Role: "user", Content: "gti status failed"},
		},
	})

	status := RunWorker(dir)
	assert.Equal(t, workerStatusOK, status)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-5-mini", gotBody.Model)
	assert.False(t, gotBody.Stream)
	assert.Len(t, gotBody.Messages, 2)

	assert.Equal(t, "0", readArtifact(t, dir, statusFile))
	assert.Contains(t, readArtifact(t, dir, responseFile), "git status")
	assert.Empty(t, readArtifact(t, dir, stderrFile))
}

func TestRunWorkerProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	writeWorkerRequest(t, dir, workerRequest{
		BaseURL: srv.URL, Model: "gpt-5-mini",
	})

	status := RunWorker(dir)
	assert.Equal(t, workerStatusHTTPError, status)
	assert.Equal(t, "3", readArtifact(t, dir, statusFile))
	assert.Contains(t, readArtifact(t, dir, stderrFile), "429")
	// The provider body is still preserved for diagnostics.
	assert.Contains(t, readArtifact(t, dir, responseFile), "rate limited")
}

func TestRunWorkerUnreachable(t *testing.T) {
	dir := t.TempDir()
	writeWorkerRequest(t, dir, workerRequest{
		BaseURL: "http://127.0.0.1:1", Model: "gpt-5-mini",
	})

	status := RunWorker(dir)
	assert.Equal(t, workerStatusHTTPError, status)
	assert.Equal(t, "3", readArtifact(t, dir, statusFile))
	assert.NotEmpty(t, readArtifact(t, dir, stderrFile))
}

func TestRunWorkerBadRequestFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, requestFile), []byte("not json"), 0o600))

	status := RunWorker(dir)
	assert.Equal(t, workerStatusBadRequest, status)
	assert.Equal(t, "2", readArtifact(t, dir, statusFile))
}

func TestRunWorkerMissingRequestFile(t *testing.T) {
	dir := t.TempDir()
	status := RunWorker(dir)
	assert.Equal(t, workerStatusBadRequest, status)
	assert.Equal(t, "2", readArtifact(t, dir, statusFile))
}

func TestBuildMessages(t *testing.T) {
	msgs := BuildMessages(FailureContext{
		Command:  "gti status",
		ExitCode: 127,
		Cwd:      "/home/me/proj",
		Branch:   "main",
	})
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "one JSON object")
	assert.Equal(t, "user", msgs[1].Role)
	assert.Contains(t, msgs[1].Content, "exit code 127")
	assert.Contains(t, msgs[1].Content, "gti status")
	assert.Contains(t, msgs[1].Content, "/home/me/proj")
	assert.Contains(t, msgs[1].Content, "main")
}

func TestBuildMessagesOmitsEmptyContext(t *testing.T) {
	msgs := BuildMessages(FailureContext{Command: "make", ExitCode: 2})
	require.Len(t, msgs, 2)
	assert.NotContains(t, msgs[1].Content, "Working directory")
	assert.NotContains(t, msgs[1].Content, "Git branch")
}

func TestBuildRequestPayloadRoundTrip(t *testing.T) {
	s := &Settings{BaseURL: "https://api.vivgrid.com/v1", APIKey: "k", Model: "gpt-5-mini"}
	payload, err := BuildRequestPayload(s, FailureContext{Command: "x", ExitCode: 1})
	require.NoError(t, err)

	var req workerRequest
	require.NoError(t, json.Unmarshal(payload, &req))
	assert.Equal(t, s.BaseURL, req.BaseURL)
	assert.Equal(t, s.Model, req.Model)
	require.Len(t, req.Messages, 2)
}
