//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"contribution-tracker-go/internal/app"
	"contribution-tracker-go/internal/config"
	"contribution-tracker-go/internal/transport/httpserver"
	"contribution-tracker-go/internal/transport/httpserver/handler"
	"contribution-tracker-go/pkg/logger"
)

type testEnv struct {
	server   *httptest.Server
	services *app.Services
}

// setupE2E runs the full stack against the Postgres database in E2E_DB_DSN.
func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	cfg := config.Config{
		DB: config.DBConfig{
			Driver:       config.DriverPostgres,
			DSN:          dsn,
			MaxOpenConns: 5,
			MaxIdleConns: 5,
		},
		Tracker: config.TrackerConfig{TrendMonths: 6, TimeZone: "UTC"},
	}

	log := logger.Nop()
	services, err := app.NewServices(context.Background(), cfg, log)
	if err != nil {
		t.Fatalf("services: %v", err)
	}
	if err := services.Transfer.Reset(context.Background()); err != nil {
		t.Fatalf("reset: %v", err)
	}

	handlers := handler.New(services.Tracker, services.Analytics, services.Transfer, log)
	server := httptest.NewServer(httpserver.NewRouter(cfg, handlers, nil))
	return &testEnv{server: server, services: services}
}

func (e *testEnv) Close() {
	e.server.Close()
	_ = e.services.Close()
}

func requestJSON(t *testing.T, client *http.Client, method, url string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp, respBody
}

type idResponse struct {
	ID int64 `json:"id"`
}

func TestE2ESeededData(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()
	client := env.server.Client()

	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/groups", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list groups: %d %s", resp.StatusCode, body)
	}
	var groups []idResponse
	if err := json.Unmarshal(body, &groups); err != nil {
		t.Fatalf("decode groups: %v", err)
	}
	if len(groups) != 3 {
		t.Fatalf("expected 3 seeded groups, got %d", len(groups))
	}
}

func TestE2EContributionFlowAndSequences(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()
	client := env.server.Client()
	base := env.server.URL + "/api"

	resp, body := requestJSON(t, client, http.MethodGet, base+"/export", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export: %d %s", resp.StatusCode, body)
	}
	resp, body = requestJSON(t, client, http.MethodPost, base+"/import", json.RawMessage(body))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("import: %d %s", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/groups", map[string]interface{}{
		"name":           "E2E",
		"monthly_amount": 100,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create group after import: %d %s", resp.StatusCode, body)
	}
	var group idResponse
	if err := json.Unmarshal(body, &group); err != nil {
		t.Fatalf("decode group: %v", err)
	}
	if group.ID != 4 {
		t.Fatalf("expected sequence to continue at 4, got %d", group.ID)
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/participants", map[string]interface{}{
		"group_id":             group.ID,
		"name":                 "Runner",
		"monthly_contribution": 100,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create participant: %d %s", resp.StatusCode, body)
	}
	var participant idResponse
	if err := json.Unmarshal(body, &participant); err != nil {
		t.Fatalf("decode participant: %v", err)
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/contributions", map[string]interface{}{
		"participant_id": participant.ID,
		"amount":         100,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create contribution: %d %s", resp.StatusCode, body)
	}

	resp, body = requestJSON(t, client, http.MethodGet, base+"/groups/"+strconv.FormatInt(group.ID, 10)+"/stats", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats: %d %s", resp.StatusCode, body)
	}
	var stats struct {
		Tier string `json:"tier"`
	}
	if err := json.Unmarshal(body, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Tier != "green" {
		t.Fatalf("expected target met, got %q", stats.Tier)
	}

	resp, body = requestJSON(t, client, http.MethodDelete, base+"/groups/"+strconv.FormatInt(group.ID, 10), nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete group: %d %s", resp.StatusCode, body)
	}
	resp, _ = requestJSON(t, client, http.MethodGet, base+"/participants/"+strconv.FormatInt(participant.ID, 10), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected participant to be removed with its group, got %d", resp.StatusCode)
	}
}
