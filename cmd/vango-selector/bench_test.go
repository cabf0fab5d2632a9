package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	vangoerrors "github.com/vango-dev/selectctx/internal/errors"
	"github.com/vango-dev/selectctx/pkg/middleware"
)

func testBench(t *testing.T, cfg benchConfig) benchResult {
	t.Helper()
	metrics, err := middleware.Prometheus(middleware.WithRegistry(prometheus.NewRegistry()))
	if err != nil {
		t.Fatal(err)
	}
	res, err := bench(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), metrics)
	if err != nil {
		t.Fatalf("bench: %v", err)
	}
	return res
}

func TestBenchShallowSuppressesColdRenders(t *testing.T) {
	res := testBench(t, benchConfig{Subscribers: 10, Updates: 20, ColdEvery: 5, Equality: "shallow"})

	if res.HotRenders != 5*20 {
		t.Errorf("hot renders = %d, want 100", res.HotRenders)
	}
	if res.ColdRenders != 5*4 {
		t.Errorf("cold renders = %d, want 20", res.ColdRenders)
	}
	if res.HotRenders+res.ColdRenders != res.ExpectedRender {
		t.Errorf("renders %d+%d, expected %d", res.HotRenders, res.ColdRenders, res.ExpectedRender)
	}
	if res.Publishes != 20 || res.ListenerCalls != 10*20 {
		t.Errorf("publishes = %d, listener calls = %d", res.Publishes, res.ListenerCalls)
	}
	if res.Selections["suppressed"] == 0 {
		t.Error("expected suppressed selections")
	}
}

func TestBenchWithoutEquality(t *testing.T) {
	res := testBench(t, benchConfig{Subscribers: 4, Updates: 10, ColdEvery: 5, Equality: "none"})

	if res.ColdRenders != 2*10 {
		t.Errorf("cold renders = %d, want 20", res.ColdRenders)
	}
	if res.Selections["suppressed"] != 0 {
		t.Errorf("suppressed = %d without equality", res.Selections["suppressed"])
	}
}

func TestBenchConfigValidation(t *testing.T) {
	valid := benchConfig{Subscribers: 1, Updates: 1, ColdEvery: 1, Equality: "shallow"}

	tests := []struct {
		name   string
		mutate func(*benchConfig)
	}{
		{"subscribers", func(c *benchConfig) { c.Subscribers = 0 }},
		{"updates", func(c *benchConfig) { c.Updates = -1 }},
		{"cold-every", func(c *benchConfig) { c.ColdEvery = 0 }},
		{"equality", func(c *benchConfig) { c.Equality = "deep" }},
	}

	if err := valid.validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.validate()
			if !errors.Is(err, vangoerrors.New("E140")) {
				t.Errorf("validate() = %v, want E140", err)
			}
		})
	}
}

func TestBenchCommandJSON(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"bench", "--subscribers", "6", "--updates", "3", "--json"})

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	var res benchResult
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if res.Subscribers != 6 || res.Updates != 3 || res.Equality != "shallow" {
		t.Errorf("result = %+v", res)
	}
}

func TestBenchCommandRejectsBadFlags(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"bench", "--updates", "0"})

	if err := cmd.Execute(); !errors.Is(err, vangoerrors.New("E140")) {
		t.Errorf("Execute() = %v, want E140", err)
	}
}

func TestBenchCommandJSONError(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"bench", "--equality", "deep", "--json"})

	if err := cmd.Execute(); !errors.Is(err, vangoerrors.New("E140")) {
		t.Fatalf("Execute() = %v, want E140", err)
	}

	var report struct {
		Code       string `json:"code"`
		Category   string `json:"category"`
		Detail     string `json:"detail"`
		Suggestion string `json:"suggestion"`
	}
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("error output is not JSON: %v\n%s", err, out.String())
	}
	if report.Code != "E140" || report.Category != "cli" {
		t.Errorf("report = %+v", report)
	}
	if !strings.Contains(report.Detail, `"deep"`) || report.Suggestion == "" {
		t.Errorf("report lost detail or suggestion: %+v", report)
	}
}

func TestMetricsRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := middleware.Prometheus(middleware.WithRegistry(reg))
	if err != nil {
		t.Fatal(err)
	}
	metrics.OnPublish("bench", 3, 0)

	srv := httptest.NewServer(newMetricsRouter(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), `vango_selector_publishes_total{store="bench"} 1`) {
		t.Errorf("metrics body lacks publish counter:\n%s", body)
	}

	health, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	health.Body.Close()
	if health.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d", health.StatusCode)
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version", "--short"})

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != version {
		t.Errorf("version output = %q", out.String())
	}
}
