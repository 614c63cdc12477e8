package assist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Worker exit statuses, recorded in the job's status file.
const (
	workerStatusOK         = 0
	workerStatusBadRequest = 2
	workerStatusHTTPError  = 3
)

type chatCompletionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// RunWorker executes one analysis job: it reads request.json from dir,
// performs the chat completion call, and leaves response.json, stderr.log
// and finally status behind. The status file is always written last; its
// presence is the completion signal for the polling daemon.
//
// The process is fire-and-forget from the daemon's point of view, so all
// failures are reported through the artifact files rather than the return
// value. The returned status only feeds the process exit code.
func RunWorker(dir string) int {
	status, respBody, errText := runWorker(dir)

	if len(respBody) > 0 {
		writeFileAtomic(filepath.Join(dir, responseFile), respBody, 0o600)
	}
	if errText != "" {
		writeFileAtomic(filepath.Join(dir, stderrFile), []byte(errText), 0o600)
	}
	writeFileAtomic(filepath.Join(dir, statusFile), []byte(strconv.Itoa(status)), 0o600)
	return status
}

func runWorker(dir string) (status int, respBody []byte, errText string) {
	raw, err := os.ReadFile(filepath.Join(dir, requestFile))
	if err != nil {
		return workerStatusBadRequest, nil, fmt.Sprintf("reading request: %v", err)
	}
	var req workerRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return workerStatusBadRequest, nil, fmt.Sprintf("parsing request: %v", err)
	}
	if req.BaseURL == "" || req.Model == "" {
		return workerStatusBadRequest, nil, "request missing base_url or model"
	}

	body, err := json.Marshal(chatCompletionRequest{
		Model:    req.Model,
		Messages: req.Messages,
		Stream:   false,
	})
	if err != nil {
		return workerStatusBadRequest, nil, fmt.Sprintf("encoding request body: %v", err)
	}

	url := strings.TrimRight(req.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return workerStatusBadRequest, nil, fmt.Sprintf("building http request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if req.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)
	}

	client := &http.Client{Timeout: RequestTimeout}
	resp, err := client.Do(httpReq)
	if err != nil {
		return workerStatusHTTPError, nil, fmt.Sprintf("calling %s: %v", url, err)
	}
	defer resp.Body.Close()

	respBody, err = io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return workerStatusHTTPError, respBody, fmt.Sprintf("reading response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return workerStatusHTTPError, respBody,
			fmt.Sprintf("provider returned %s", resp.Status)
	}
	return workerStatusOK, respBody, ""
}
