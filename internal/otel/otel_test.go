package otel

import (
	"context"
	"testing"
)

func TestParseHeaders(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]string
	}{
		{name: "empty", raw: "", want: map[string]string{}},
		{name: "single", raw: "Authorization=Basic abc", want: map[string]string{"Authorization": "Basic abc"}},
		{name: "multiple with spaces", raw: " a = 1 , b=2", want: map[string]string{"a": "1", "b": "2"}},
		{name: "value with equals", raw: "token=x=y", want: map[string]string{"token": "x=y"}},
		{name: "missing key", raw: "=v,k=v", want: map[string]string{"k": "v"}},
		{name: "no separator", raw: "junk", want: map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseHeaders(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("parseHeaders(%q) = %v, want %v", tt.raw, got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("parseHeaders(%q)[%q] = %q, want %q", tt.raw, k, got[k], v)
				}
			}
		})
	}
}

func TestParseEndpoint(t *testing.T) {
	ep, err := parseEndpoint("http://localhost:4318/api/public/otel/")
	if err != nil {
		t.Fatalf("parseEndpoint() error: %v", err)
	}
	if ep.host != "localhost:4318" {
		t.Errorf("host: got %q", ep.host)
	}
	if ep.basePath != "/api/public/otel" {
		t.Errorf("basePath: got %q", ep.basePath)
	}
	if !ep.insecure {
		t.Error("http endpoint should be insecure")
	}

	ep, err = parseEndpoint("https://collector.example.com")
	if err != nil {
		t.Fatalf("parseEndpoint() error: %v", err)
	}
	if ep.insecure || ep.basePath != "" {
		t.Errorf("unexpected endpoint %+v", ep)
	}

	if _, err := parseEndpoint("not a url"); err == nil {
		t.Error("expected error for endpoint without host")
	}
}

func TestInit_NoEndpointIsNoop(t *testing.T) {
	tel, err := Init(context.Background(), OTELConfig{})
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	if tel.Enabled() {
		t.Error("telemetry should be disabled without an endpoint")
	}
	if tel.Tracer == nil || tel.Metrics == nil {
		t.Fatal("tracer and metrics should be usable without an endpoint")
	}

	ctx := context.Background()
	tel.Metrics.RecordSessionOp(ctx, "tmux", "open", "attached")
	tel.Metrics.RecordCommand(ctx, "tmux", "has-session", "ok")
	tel.Shutdown(ctx)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordSessionOp(context.Background(), "tmux", "kill", "killed")
	m.RecordCommand(context.Background(), "tmux", "kill-session", "exit")

	var tel *Telemetry
	tel.Shutdown(context.Background())
	if tel.Enabled() {
		t.Error("nil telemetry should not be enabled")
	}
}
