package messages

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinkenxmas/lightdesk/internal/backend"
	"github.com/blinkenxmas/lightdesk/internal/httputil"
	"github.com/blinkenxmas/lightdesk/internal/monitoring"
	"github.com/blinkenxmas/lightdesk/internal/page"
)

func init() {
	monitoring.SetLogger(nil)
}

func TestBoard_PostAndDismiss(t *testing.T) {
	area := &page.MemoryMessageArea{}
	b := NewBoard(area)

	first := b.Post("Removed a")
	b.Show("Removed b")

	assert.True(t, strings.HasPrefix(first, "msg-"))
	assert.Equal(t, []string{"Removed a", "Removed b"}, area.Texts())
	assert.Equal(t, 2, b.Len())

	area.Dismiss(first)
	assert.Equal(t, []string{"Removed b"}, area.Texts())
	assert.Equal(t, 1, b.Len())

	// Dismissing twice is harmless.
	b.Dismiss(first)
	assert.Equal(t, 1, b.Len())
}

func TestBoard_IDsAreUnique(t *testing.T) {
	area := &page.MemoryMessageArea{}
	b := NewBoard(area)
	b.Show("same")
	b.Show("same")

	ids := area.IDs()
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"status with body", &backend.StatusError{Code: 404, Body: "no such preset"}, "Error: no such preset (status 404)"},
		{"wrapped status", fmt.Errorf("removing a: %w", &backend.StatusError{Code: 500}), "Error: status 500"},
		{"cancelled", fmt.Errorf("GET /x: %w", context.Canceled), "Error: request cancelled"},
		{"plain", errors.New("connection refused"), "Error: connection refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.err))
		})
	}
}

func TestError_NilIsIgnored(t *testing.T) {
	rec := &Recorder{}
	Error(rec, nil)
	assert.Empty(t, rec.Messages())
}

func TestPull(t *testing.T) {
	mock := httputil.NewMockHTTPClient()
	mock.AddJSONResponse([]string{"Calibration finished", "Preset saved"})
	client := backend.NewClient(mock, "")
	rec := &Recorder{}

	Pull(context.Background(), client, rec)

	assert.Equal(t, []string{"Calibration finished", "Preset saved"}, rec.Messages())
	assert.Equal(t, []string{"GET /messages.json"}, mock.Paths())
}

func TestPull_FailureIsShown(t *testing.T) {
	mock := httputil.NewMockHTTPClient()
	mock.AddResponse(http.StatusServiceUnavailable, "busy")
	rec := &Recorder{}

	Pull(context.Background(), backend.NewClient(mock, ""), rec)

	assert.Equal(t, []string{"Error: busy (status 503)"}, rec.Messages())
}
