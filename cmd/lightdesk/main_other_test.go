//go:build !(js && wasm)

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_CheckConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lightdesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: http://tree.local\npoll_interval: 2s\n"), 0o600))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-check", path}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), `base_url          "http://tree.local"`)
	assert.Contains(t, stdout.String(), "poll_interval     2s")
	assert.Contains(t, stdout.String(), `calibrated_url    "/calibrate.html"`)
}

func TestRun_CheckRejectsBadConfig(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"colour": "red"}`), 0o600))

	tests := []struct {
		name string
		path string
	}{
		{"unknown field", bad},
		{"wrong extension", filepath.Join(dir, "lightdesk.toml")},
		{"missing file", filepath.Join(dir, "missing.json")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, 1, run([]string{"-check", tt.path}, &stdout, &stderr))
			assert.Contains(t, stderr.String(), tt.path)
			assert.Empty(t, stdout.String())
		})
	}
}

func TestRun_WithoutCheck(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run(nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "GOOS=js GOARCH=wasm")

	assert.Equal(t, 2, run([]string{"-bogus"}, &stdout, &stderr))
}
