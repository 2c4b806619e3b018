// Package config holds the page controller's settings. Every field is a
// pointer so a partial document leaves the rest at their defaults; the Get*
// methods supply those defaults.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ElementID is the id of the <script> element the page embeds its
// configuration in.
const ElementID = "lightdesk-config"

// maxConfigSize caps a configuration document.
const maxConfigSize = 1 * 1024 * 1024 // 1MB

// Config represents the controller configuration. The same keys are accepted
// from JSON and YAML documents.
type Config struct {
	// Backend
	BaseURL        *string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	RequestTimeout *string `json:"request_timeout,omitempty" yaml:"request_timeout,omitempty"` // duration string like "10s"

	// Calibration
	PollInterval  *string  `json:"poll_interval,omitempty" yaml:"poll_interval,omitempty"` // duration string like "1s"
	MarkerRadius  *float64 `json:"marker_radius,omitempty" yaml:"marker_radius,omitempty"`
	VertexRadius  *float64 `json:"vertex_radius,omitempty" yaml:"vertex_radius,omitempty"`
	LabelOffsetX  *float64 `json:"label_offset_x,omitempty" yaml:"label_offset_x,omitempty"`
	LabelOffsetY  *float64 `json:"label_offset_y,omitempty" yaml:"label_offset_y,omitempty"`
	StreamWidth   *int     `json:"stream_width,omitempty" yaml:"stream_width,omitempty"`
	StreamHeight  *int     `json:"stream_height,omitempty" yaml:"stream_height,omitempty"`
	CalibratedURL *string  `json:"calibrated_url,omitempty" yaml:"calibrated_url,omitempty"`

	// Preview
	PlaceholderImage *string `json:"placeholder_image,omitempty" yaml:"placeholder_image,omitempty"`

	// Animation authoring
	AdvisoryDelay *string `json:"advisory_delay,omitempty" yaml:"advisory_delay,omitempty"` // duration string like "500ms"

	// Preset management
	StopOnError *bool `json:"stop_on_error,omitempty" yaml:"stop_on_error,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// Empty returns a Config with every field unset.
func Empty() *Config {
	return &Config{}
}

// Parse decodes a configuration document. mediaType selects the decoder:
// anything mentioning "yaml" is read as YAML, everything else as JSON. An
// empty document yields an empty Config.
func Parse(data []byte, mediaType string) (*Config, error) {
	cfg := Empty()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	if len(data) > maxConfigSize {
		return nil, fmt.Errorf("config too large: %d bytes (max %d)", len(data), maxConfigSize)
	}

	if strings.Contains(strings.ToLower(mediaType), "yaml") {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	} else {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Load reads a whole document from r and parses it.
func Load(r io.Reader, mediaType string) (*Config, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxConfigSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data, mediaType)
}

// LoadFile loads a .json, .yaml or .yml file.
func LoadFile(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	var mediaType string
	switch ext := filepath.Ext(cleanPath); ext {
	case ".json":
		mediaType = "application/json"
	case ".yaml", ".yml":
		mediaType = "application/yaml"
	default:
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	f, err := os.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()
	return Load(f, mediaType)
}

// Validate checks that the configuration values are valid.
func (c *Config) Validate() error {
	durations := []struct {
		key string
		val *string
	}{
		{"request_timeout", c.RequestTimeout},
		{"poll_interval", c.PollInterval},
		{"advisory_delay", c.AdvisoryDelay},
	}
	for _, d := range durations {
		if d.val == nil || *d.val == "" {
			continue
		}
		v, err := time.ParseDuration(*d.val)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", d.key, *d.val, err)
		}
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.key, *d.val)
		}
	}

	if c.MarkerRadius != nil && *c.MarkerRadius <= 0 {
		return fmt.Errorf("marker_radius must be positive, got %f", *c.MarkerRadius)
	}
	if c.VertexRadius != nil && *c.VertexRadius <= 0 {
		return fmt.Errorf("vertex_radius must be positive, got %f", *c.VertexRadius)
	}
	if c.StreamWidth != nil && *c.StreamWidth <= 0 {
		return fmt.Errorf("stream_width must be positive, got %d", *c.StreamWidth)
	}
	if c.StreamHeight != nil && *c.StreamHeight <= 0 {
		return fmt.Errorf("stream_height must be positive, got %d", *c.StreamHeight)
	}
	if c.BaseURL != nil && *c.BaseURL != "" {
		if !strings.HasPrefix(*c.BaseURL, "http://") && !strings.HasPrefix(*c.BaseURL, "https://") && !strings.HasPrefix(*c.BaseURL, "/") {
			return fmt.Errorf("base_url must be absolute or root-relative, got %q", *c.BaseURL)
		}
	}
	return nil
}

func parseDuration(s *string, def time.Duration) time.Duration {
	if s == nil || *s == "" {
		return def
	}
	d, err := time.ParseDuration(*s)
	if err != nil || d <= 0 {
		return def // default on parse error
	}
	return d
}

// GetBaseURL returns the backend origin without a trailing slash. Empty means
// the page's own origin.
func (c *Config) GetBaseURL() string {
	if c.BaseURL == nil {
		return ""
	}
	return strings.TrimRight(*c.BaseURL, "/")
}

// GetRequestTimeout returns the per-request timeout.
func (c *Config) GetRequestTimeout() time.Duration {
	return parseDuration(c.RequestTimeout, 10*time.Second)
}

// GetPollInterval returns the delay between calibration state polls.
func (c *Config) GetPollInterval() time.Duration {
	return parseDuration(c.PollInterval, time.Second)
}

// GetAdvisoryDelay returns how long a compile may run before the operator is
// told it is slow.
func (c *Config) GetAdvisoryDelay() time.Duration {
	return parseDuration(c.AdvisoryDelay, 500*time.Millisecond)
}

// GetMarkerRadius returns the radius of a light marker in pixels.
func (c *Config) GetMarkerRadius() float64 {
	if c.MarkerRadius == nil {
		return 4 // default
	}
	return *c.MarkerRadius
}

// GetVertexRadius returns the radius of a mask vertex marker in pixels.
func (c *Config) GetVertexRadius() float64 {
	if c.VertexRadius == nil {
		return 5 // default
	}
	return *c.VertexRadius
}

// GetLabelOffset returns the pixel offset of a marker label from the marker
// centre.
func (c *Config) GetLabelOffset() (x, y float64) {
	x, y = 6, -6
	if c.LabelOffsetX != nil {
		x = *c.LabelOffsetX
	}
	if c.LabelOffsetY != nil {
		y = *c.LabelOffsetY
	}
	return x, y
}

// GetStreamSize returns the calibration preview stream resolution.
func (c *Config) GetStreamSize() (w, h int) {
	w, h = 640, 480
	if c.StreamWidth != nil {
		w = *c.StreamWidth
	}
	if c.StreamHeight != nil {
		h = *c.StreamHeight
	}
	return w, h
}

// GetPlaceholderImage returns the image shown when no stream is active.
func (c *Config) GetPlaceholderImage() string {
	if c.PlaceholderImage == nil || *c.PlaceholderImage == "" {
		return "/no-preview.png"
	}
	return *c.PlaceholderImage
}

// GetCalibratedURL returns the page navigated to once a scan completes.
func (c *Config) GetCalibratedURL() string {
	if c.CalibratedURL == nil || *c.CalibratedURL == "" {
		return "/calibrate.html"
	}
	return *c.CalibratedURL
}

// GetStopOnError reports whether a bulk preset removal stops at the first
// failure.
func (c *Config) GetStopOnError() bool {
	if c.StopOnError == nil {
		return false
	}
	return *c.StopOnError
}
