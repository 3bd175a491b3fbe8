package backup

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/wledtools/wled-backup/internal/logging"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 10 * time.Second

	// ConfigPath is the WLED endpoint serving the configuration document.
	ConfigPath = "/cfg.json"

	// PresetsPath is the WLED endpoint serving the presets document.
	PresetsPath = "/presets.json"
)

// Client fetches backup resources from a single WLED device. Responses
// are returned as raw bytes; nothing is re-encoded, so saved files are
// byte-identical to what the device served.
type Client struct {
	// BaseURL is the base URL for the device (e.g. "http://192.168.1.40:80")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	host string
}

// NewClient creates a client for a device address and port.
func NewClient(addr net.IP, port int) *Client {
	host := net.JoinHostPort(addr.String(), strconv.Itoa(port))
	return &Client{
		BaseURL:    "http://" + host,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		host:       host,
	}
}

// NewClientWithURL creates a client from a full base URL
// (e.g. "http://192.168.1.40:8080").
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		host:       baseURL,
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// FetchConfig retrieves the device configuration document verbatim.
func (c *Client) FetchConfig() ([]byte, error) {
	return c.get(ConfigPath)
}

// FetchPresets retrieves the device presets document verbatim.
func (c *Client) FetchPresets() ([]byte, error) {
	return c.get(PresetsPath)
}

// get performs a blocking GET and returns the body bytes. Transport
// failures and non-2xx statuses are both surfaced as DeviceErrors, with
// transport causes classified into their specific kinds.
func (c *Client) get(path string) ([]byte, error) {
	resp, err := c.HTTPClient.Get(c.BaseURL + path)
	if err != nil {
		return nil, NewNetworkError(fmt.Sprintf("GET %s failed", path), err, c.host)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewHTTPError(resp.StatusCode,
			fmt.Sprintf("GET %s returned status %d", path, resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewNetworkError(fmt.Sprintf("failed to read %s response body", path), err, c.host)
	}

	logging.LogFetch(c.host, path, resp.StatusCode, len(body))
	return body, nil
}
