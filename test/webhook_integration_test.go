package test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

// TestIntegration_WebhookSite posts a report to webhook.site and reads it back.
// This test is skipped by default. Set WEBHOOK_INTEGRATION_TEST=1 to run.
func TestIntegration_WebhookSite(t *testing.T) {
	if os.Getenv("WEBHOOK_INTEGRATION_TEST") != "1" {
		t.Skip("Skipping webhook.site integration test. Set WEBHOOK_INTEGRATION_TEST=1 to run")
	}

	useBaseDir(t, testdataDir(t))

	// Step 1: Create a new webhook.site token
	t.Log("Creating webhook.site token...")
	token, err := createWebhookSiteToken()
	if err != nil {
		t.Fatalf("Failed to create webhook.site token: %v", err)
	}
	t.Logf("Created webhook URL: https://webhook.site/%s", token.UUID)

	// Cleanup: delete token when done
	defer func() {
		if err := deleteWebhookSiteToken(token.UUID); err != nil {
			t.Logf("Warning: failed to delete token: %v", err)
		}
	}()

	// Step 2: Produce a report with the webhook URL passed on the command line
	webhookURL := fmt.Sprintf("https://webhook.site/%s", token.UUID)
	t.Log("Running logreport...")
	code, stdout, stderr := runCLI(t, "--path", "logs/test/2023/*", "--format", "adoc", "--webhook-url", webhookURL)
	if code != 0 {
		t.Fatalf("logreport failed with exit %d: %s", code, stderr)
	}

	// Step 3: Wait a moment for webhook to be received
	t.Log("Waiting for webhook delivery...")
	time.Sleep(2 * time.Second)

	// Step 4: Check webhook.site for received requests
	t.Log("Checking webhook.site for received payload...")
	requests, err := getWebhookSiteRequests(token.UUID)
	if err != nil {
		t.Fatalf("Failed to get webhook requests: %v", err)
	}

	if len(requests.Data) == 0 {
		t.Fatal("No webhook requests received at webhook.site")
	}

	t.Logf("Received %d webhook request(s)", len(requests.Data))

	// Step 5: Verify the payload
	req := requests.Data[0]
	contentType := req.GetHeader("content-type")

	if req.Method != "POST" {
		t.Errorf("Expected POST method, got %s", req.Method)
	}

	if !strings.Contains(contentType, "application/json") {
		t.Errorf("Expected application/json content-type, got %s", contentType)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(req.Content), &payload); err != nil {
		t.Fatalf("Failed to parse webhook payload: %v", err)
	}

	for _, field := range []string{"sources", "total_requests", "format", "report", "generated_at"} {
		if _, ok := payload[field]; !ok {
			t.Errorf("Payload missing '%s' field", field)
		}
	}

	if total, ok := payload["total_requests"].(float64); !ok || total != 23 {
		t.Errorf("Expected total_requests 23, got %v", payload["total_requests"])
	}
	if format, _ := payload["format"].(string); format != "adoc" {
		t.Errorf("Expected format adoc, got %v", payload["format"])
	}
	if report, _ := payload["report"].(string); report+"\n" != stdout {
		t.Error("Delivered report differs from the printed report")
	}

	t.Log("Integration test passed!")
}

// webhook.site API types
type webhookSiteToken struct {
	UUID string `json:"uuid"`
}

type webhookSiteRequests struct {
	Data []webhookSiteRequest `json:"data"`
}

type webhookSiteRequest struct {
	UUID      string          `json:"uuid"`
	Method    string          `json:"method"`
	Content   string          `json:"content"`
	Headers   json.RawMessage `json:"headers"`
	CreatedAt string          `json:"created_at"`
}

func (r *webhookSiteRequest) GetHeader(name string) string {
	var headers map[string]interface{}
	if err := json.Unmarshal(r.Headers, &headers); err != nil {
		return ""
	}
	if val, ok := headers[name]; ok {
		switch v := val.(type) {
		case string:
			return v
		case []interface{}:
			if len(v) > 0 {
				if s, ok := v[0].(string); ok {
					return s
				}
			}
		}
	}
	return ""
}

func createWebhookSiteToken() (*webhookSiteToken, error) {
	resp, err := http.Post("https://webhook.site/token", "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("POST /token failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var token webhookSiteToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &token, nil
}

func getWebhookSiteRequests(uuid string) (*webhookSiteRequests, error) {
	url := fmt.Sprintf("https://webhook.site/token/%s/requests", uuid)
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("GET requests failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var requests webhookSiteRequests
	if err := json.NewDecoder(resp.Body).Decode(&requests); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &requests, nil
}

func deleteWebhookSiteToken(uuid string) error {
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("https://webhook.site/token/%s", uuid), nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return nil
}
