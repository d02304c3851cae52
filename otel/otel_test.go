package otel

import (
	"context"
	"testing"
)

func TestInitOpenTelemetry_Disabled(t *testing.T) {
	cfg := OtelConfig{
		Enabled: false,
	}

	shutdown, err := InitOpenTelemetry(context.Background(), cfg)
	if err != nil {
		t.Fatalf("InitOpenTelemetry with disabled config should not error: %v", err)
	}

	// Should return a no-op shutdown function
	shutdown()
}

func TestInitOpenTelemetry_Enabled(t *testing.T) {
	cfg := OtelConfig{
		Enabled:     true,
		ServiceName: "queue-console",
		Environment: "test",
		Endpoint:    "localhost:4318",
		Headers:     map[string]string{"authorization": "test-key"},
		SampleRate:  1.0,
	}

	shutdown, err := InitOpenTelemetry(context.Background(), cfg)
	if err != nil {
		t.Fatalf("InitOpenTelemetry failed: %v", err)
	}

	// Verify shutdown doesn't panic
	shutdown()
}

func TestNewResource(t *testing.T) {
	cfg := OtelConfig{
		ServiceName: "queue-console",
		Environment: "test",
	}

	res, err := newResource(cfg)
	if err != nil {
		t.Fatalf("newResource failed: %v", err)
	}

	if res == nil {
		t.Fatal("newResource returned nil resource")
	}
}

func TestValidateConfig(t *testing.T) {
	if err := validateConfig(OtelConfig{Endpoint: "localhost:4318", SampleRate: 1}); err == nil {
		t.Fatal("expected an error without a service name")
	}
	if err := validateConfig(OtelConfig{ServiceName: "queue-console", SampleRate: 1}); err == nil {
		t.Fatal("expected an error without an endpoint")
	}
	if err := validateConfig(OtelConfig{ServiceName: "queue-console", Endpoint: "localhost:4318", SampleRate: 2}); err == nil {
		t.Fatal("expected an error for a sample rate above 1")
	}
}

func TestEndpoint(t *testing.T) {
	cases := []struct {
		raw      string
		host     string
		insecure bool
	}{
		{"https://otel.example.com", "otel.example.com", false},
		{"http://collector:4318", "collector:4318", true},
		{"localhost:4318", "localhost:4318", true},
	}

	for _, tc := range cases {
		host, insecure := endpoint(tc.raw)
		if host != tc.host || insecure != tc.insecure {
			t.Errorf("endpoint(%q) = %q, %v; want %q, %v", tc.raw, host, insecure, tc.host, tc.insecure)
		}
	}
}
