package backup

import (
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	client := NewClient(net.ParseIP("192.168.1.40"), 80)

	if client.BaseURL != "http://192.168.1.40:80" {
		t.Errorf("BaseURL = %s, want http://192.168.1.40:80", client.BaseURL)
	}
	if client.HTTPClient == nil {
		t.Error("HTTPClient should not be nil")
	}
}

func TestNewClient_IPv6(t *testing.T) {
	client := NewClient(net.ParseIP("fe80::1"), 8080)

	if client.BaseURL != "http://[fe80::1]:8080" {
		t.Errorf("BaseURL = %s, want http://[fe80::1]:8080", client.BaseURL)
	}
}

func TestSetTimeout(t *testing.T) {
	client := NewClient(net.ParseIP("192.168.1.40"), 80)
	client.SetTimeout(5 * time.Second)

	if client.HTTPClient.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.HTTPClient.Timeout)
	}
}

func TestFetch_Success(t *testing.T) {
	const cfgBody = `{"id":{"name":"deck"}}`
	const presetsBody = `{"1":{"n":"Sunset"}}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ConfigPath:
			_, _ = w.Write([]byte(cfgBody))
		case PresetsPath:
			_, _ = w.Write([]byte(presetsBody))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)

	cfg, err := client.FetchConfig()
	if err != nil {
		t.Fatalf("FetchConfig() error = %v", err)
	}
	if string(cfg) != cfgBody {
		t.Errorf("FetchConfig() = %q, want %q", cfg, cfgBody)
	}

	presets, err := client.FetchPresets()
	if err != nil {
		t.Fatalf("FetchPresets() error = %v", err)
	}
	if string(presets) != presetsBody {
		t.Errorf("FetchPresets() = %q, want %q", presets, presetsBody)
	}
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)

	_, err := client.FetchPresets()
	if err == nil {
		t.Fatal("FetchPresets() should fail on 404")
	}
	if !IsHTTPError(err) {
		t.Errorf("error should be HTTP error, got %v", err)
	}

	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		t.Fatalf("error %T is not a DeviceError", err)
	}
	if devErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", devErr.StatusCode)
	}
}

func TestFetch_NetworkFailure(t *testing.T) {
	// TEST-NET-1 (guaranteed unreachable)
	client := NewClient(net.ParseIP("192.0.2.1"), 80)
	client.SetTimeout(100 * time.Millisecond)

	_, err := client.FetchConfig()
	if err == nil {
		t.Fatal("FetchConfig() should fail for unreachable host")
	}
	if !IsNetworkError(err) {
		t.Errorf("error should be network error, got %T: %v", err, err)
	}
}

func TestFetch_BodyVerbatim(t *testing.T) {
	// Bytes must survive untouched, including non-JSON content.
	raw := []byte("\x00\x01 not json at all \xff")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(raw)
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	body, err := client.FetchPresets()
	if err != nil {
		t.Fatalf("FetchPresets() error = %v", err)
	}
	if string(body) != string(raw) {
		t.Errorf("body = %q, want %q", body, raw)
	}
}
