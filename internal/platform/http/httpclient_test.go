package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestNewHTTPClient_SetsDefaultUserAgent はUA未指定のリクエストに既定の
// UAが付与されることを検証します。
func TestNewHTTPClient_SetsDefaultUserAgent(t *testing.T) {
	t.Parallel()

	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	client := NewHTTPClient(5 * time.Second)
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if got != defaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", got, defaultUserAgent)
	}
}

// TestNewHTTPClient_KeepsExplicitUserAgent は呼び出し側が設定したUAを
// 上書きしないことを検証します。
func TestNewHTTPClient_KeepsExplicitUserAgent(t *testing.T) {
	t.Parallel()

	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	client := NewHTTPClient(5 * time.Second)
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req.Header.Set("User-Agent", "custom-agent/2.0")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if got != "custom-agent/2.0" {
		t.Errorf("User-Agent = %q, want %q", got, "custom-agent/2.0")
	}
}

// TestNewHTTPClient_Timeout はクライアント全体のタイムアウトが設定される
// ことを検証します。
func TestNewHTTPClient_Timeout(t *testing.T) {
	t.Parallel()

	client := NewHTTPClient(7 * time.Second)
	if client.Timeout != 7*time.Second {
		t.Errorf("Timeout = %v, want %v", client.Timeout, 7*time.Second)
	}
}
