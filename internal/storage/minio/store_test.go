package minio

import "testing"

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		raw        string
		useSSL     bool
		wantHost   string
		wantSecure bool
	}{
		{"localhost:9000", false, "localhost:9000", false},
		{"localhost:9000", true, "localhost:9000", true},
		{"http://localhost:9000", false, "localhost:9000", false},
		{"https://store.example.com", false, "store.example.com", true},
		{"  https://store.example.com  ", false, "store.example.com", true},
	}
	for _, tt := range tests {
		host, secure, err := parseEndpoint(tt.raw, tt.useSSL)
		if err != nil {
			t.Errorf("parseEndpoint(%q): %v", tt.raw, err)
			continue
		}
		if host != tt.wantHost || secure != tt.wantSecure {
			t.Errorf("parseEndpoint(%q) = (%q, %v), want (%q, %v)", tt.raw, host, secure, tt.wantHost, tt.wantSecure)
		}
	}

	if _, _, err := parseEndpoint("https://", false); err == nil {
		t.Error("expected error for empty host")
	}
}

func TestNormalizeKey(t *testing.T) {
	store := &Store{prefix: "lake"}

	key, err := store.normalizeKey("/latest_entity_save/part-0.parquet")
	if err != nil {
		t.Fatalf("normalizeKey: %v", err)
	}
	if key != "lake/latest_entity_save/part-0.parquet" {
		t.Fatalf("key = %q", key)
	}

	for _, bad := range []string{"", "  ", "..", "../escape", "a/../../b"} {
		if _, err := store.normalizeKey(bad); err == nil {
			t.Errorf("normalizeKey(%q): expected error", bad)
		}
	}

	unprefixed := &Store{}
	key, err = unprefixed.normalizeKey("board/part-0.parquet")
	if err != nil {
		t.Fatalf("normalizeKey: %v", err)
	}
	if key != "board/part-0.parquet" {
		t.Fatalf("key = %q", key)
	}
}

func TestCleanPrefix(t *testing.T) {
	tests := map[string]string{
		"":       "",
		"/":      "",
		".":      "",
		"lake":   "lake",
		"/lake/": "lake",
		" a/b ":  "a/b",
	}
	for raw, want := range tests {
		if got := cleanPrefix(raw); got != want {
			t.Errorf("cleanPrefix(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(Config{Bucket: "lake"}); err == nil {
		t.Error("expected error for missing endpoint")
	}
	if _, err := New(Config{Endpoint: "localhost:9000"}); err == nil {
		t.Error("expected error for missing bucket")
	}
}
