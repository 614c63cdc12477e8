package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kakuhq/kaku-assist/internal/assist"
)

func checkByName(t *testing.T, results []checkResult, name string) checkResult {
	t.Helper()
	for _, r := range results {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no check named %q", name)
	return checkResult{}
}

func TestSettingsChecksReady(t *testing.T) {
	s := assist.Settings{
		BaseURL: "https://api.vivgrid.com/v1",
		APIKey:  "sk-x",
		Model:   "gpt-5-mini",
	}
	results := settingsChecks(s)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.True(t, r.OK, "check %q should pass: %s", r.Name, r.Detail)
	}
}

func TestSettingsChecksMissingKey(t *testing.T) {
	s := assist.Settings{BaseURL: "https://api.vivgrid.com/v1", Model: "gpt-5-mini"}
	results := settingsChecks(s)

	key := checkByName(t, results, "api key configured")
	assert.False(t, key.OK)
	assert.Contains(t, key.Detail, "config")
}

func TestSettingsChecksBadURL(t *testing.T) {
	s := assist.Settings{BaseURL: "not a url", APIKey: "k", Model: "m"}
	results := settingsChecks(s)

	url := checkByName(t, results, "base url")
	assert.False(t, url.OK)
}

func TestSettingsChecksDisabled(t *testing.T) {
	off := false
	s := assist.Settings{Enabled: &off, BaseURL: "https://x", APIKey: "k", Model: "m"}
	results := settingsChecks(s)

	enabled := checkByName(t, results, "assistant enabled")
	assert.False(t, enabled.OK)
}

func TestEndpointCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	// Any HTTP response counts, a 404 on the bare base URL included.
	got := endpointCheck(srv.URL)
	assert.True(t, got.OK, got.Detail)
	assert.Contains(t, got.Detail, srv.URL)
}

func TestEndpointCheckUnreachable(t *testing.T) {
	got := endpointCheck("http://127.0.0.1:1")
	assert.False(t, got.OK)
	assert.NotEmpty(t, got.Detail)
}

func TestEndpointCheckUnsetURL(t *testing.T) {
	got := endpointCheck("")
	assert.False(t, got.OK)
	assert.Contains(t, got.Detail, "skipped")
}

func TestHookCheck(t *testing.T) {
	home := t.TempDir()
	rc := filepath.Join(home, ".zshrc")
	require.NoError(t, os.WriteFile(rc, []byte("eval \"$(kaku-assist hook install)\"\n"), 0o644))

	got := hookCheck(home)
	assert.True(t, got.OK)
	assert.Equal(t, "~/.zshrc", got.Detail)
}

func TestHookCheckMissing(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, ".bashrc"), []byte("export PATH=$PATH\n"), 0o644))

	got := hookCheck(home)
	assert.False(t, got.OK)
	assert.Contains(t, got.Detail, "hook install")
}
