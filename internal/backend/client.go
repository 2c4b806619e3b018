// Package backend provides HTTP client operations for the installation
// server's endpoints.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/blinkenxmas/lightdesk/internal/httputil"
	"github.com/blinkenxmas/lightdesk/internal/monitoring"
	"github.com/blinkenxmas/lightdesk/internal/version"
)

var logf = monitoring.For("backend")

// maxBody caps how much of a response is read.
const maxBody = 16 * 1024 * 1024

// StatusError is returned for a response outside the 2xx range.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

// Field is one submitted form value.
type Field struct {
	Name  string
	Value string
}

// Client provides HTTP operations for the installation server.
type Client struct {
	HTTPClient httputil.HTTPClient
	// BaseURL is prefixed to every path. Empty means the page's own origin.
	BaseURL string
	// Timeout bounds each request. Zero means no limit beyond ctx.
	Timeout time.Duration
}

// NewClient creates a new backend client.
func NewClient(httpClient httputil.HTTPClient, baseURL string) *Client {
	if httpClient == nil {
		httpClient = httputil.NewStandardClient(nil)
	}
	return &Client{
		HTTPClient: httpClient,
		BaseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// namePath joins prefix and a percent-encoded name.
func namePath(prefix, name string) string {
	return prefix + url.PathEscape(name)
}

// do sends one request and returns the response body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("X-Lightdesk-Version", version.UserAgent())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logf("%s %s failed: status %d", method, path, resp.StatusCode)
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	logf("%s %s: %d bytes", method, path, len(data))
	return data, nil
}

// GetJSON fetches path and decodes the JSON response into v.
func (c *Client) GetJSON(ctx context.Context, path string, v interface{}) error {
	data, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// Animations fetches the animation schema catalog into v.
func (c *Client) Animations(ctx context.Context, v interface{}) error {
	return c.GetJSON(ctx, "/animations.json", v)
}

// Presets fetches the ordered list of stored preset names.
func (c *Client) Presets(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.GetJSON(ctx, "/presets.json", &names); err != nil {
		return nil, err
	}
	return names, nil
}

// Preset fetches the compiled animation data stored under name.
func (c *Client) Preset(ctx context.Context, name string) (string, error) {
	data, err := c.do(ctx, http.MethodGet, namePath("/preset/", name), "", nil)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// CompileAnimation posts fields as multipart form data to the compile
// endpoint of animation id and returns the compiled animation data.
func (c *Client) CompileAnimation(ctx context.Context, id string, fields []Field) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return "", fmt.Errorf("encoding field %s: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("encoding form: %w", err)
	}

	data, err := c.do(ctx, http.MethodPost, namePath("/animation/", id), w.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Preview shows compiled animation data on the installation without storing
// it.
func (c *Client) Preview(ctx context.Context, data string) error {
	_, err := c.do(ctx, http.MethodPost, "/preview", "text/plain", strings.NewReader(data))
	return err
}

// PreviewPreset shows a stored preset without making it the active one.
func (c *Client) PreviewPreset(ctx context.Context, name string) error {
	_, err := c.do(ctx, http.MethodPost, namePath("/preview/", name), "", nil)
	return err
}

// PutPreset stores data under name, overwriting any existing preset.
func (c *Client) PutPreset(ctx context.Context, name, data string) error {
	_, err := c.do(ctx, http.MethodPut, namePath("/preset/", name), "text/plain", strings.NewReader(data))
	return err
}

// DeletePreset removes the preset stored under name.
func (c *Client) DeletePreset(ctx context.Context, name string) error {
	_, err := c.do(ctx, http.MethodDelete, namePath("/preset/", name), "", nil)
	return err
}

// ShowPreset makes the stored preset the one playing on the installation.
func (c *Client) ShowPreset(ctx context.Context, name string) error {
	_, err := c.do(ctx, http.MethodPost, namePath("/show/", name), "", nil)
	return err
}

// AngleState fetches the scan state of one camera angle into v.
func (c *Client) AngleState(ctx context.Context, angle int, v interface{}) error {
	return c.GetJSON(ctx, fmt.Sprintf("/angle%03d_state.json", angle), v)
}

// Messages drains the server's pending operator messages.
func (c *Client) Messages(ctx context.Context) ([]string, error) {
	var msgs []string
	if err := c.GetJSON(ctx, "/messages.json", &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// BaseImageURL is the reference photo captured for angle.
func (c *Client) BaseImageURL(angle int) string {
	return c.url(fmt.Sprintf("/angle%03d_base.jpg", angle))
}

// BaseImage downloads the reference photo for angle.
func (c *Client) BaseImage(ctx context.Context, angle int) ([]byte, error) {
	return c.do(ctx, http.MethodGet, fmt.Sprintf("/angle%03d_base.jpg", angle), "", nil)
}

// StreamURL is the live MJPEG preview of the installation for angle.
func (c *Client) StreamURL(angle int) string {
	q := url.Values{}
	q.Set("angle", fmt.Sprint(angle))
	return c.url("/live-preview.mjpg?" + q.Encode())
}

// CalibrationPreviewURL is the MJPEG camera preview used while positioning the
// camera for angle.
func (c *Client) CalibrationPreviewURL(width, height, angle int) string {
	return c.url(fmt.Sprintf("/calibrate/preview.mjpg?width=%d&height=%d&angle=%d", width, height, angle))
}

// URL resolves a root-relative path against the base URL. Absolute URLs are
// returned unchanged.
func (c *Client) URL(path string) string {
	if strings.Contains(path, "://") {
		return path
	}
	return c.url(path)
}
