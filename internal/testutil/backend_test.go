package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinkenxmas/lightdesk/internal/backend"
	"github.com/blinkenxmas/lightdesk/internal/httputil"
	"github.com/blinkenxmas/lightdesk/internal/monitoring"
)

func init() {
	monitoring.SetLogger(nil)
}

func newFakeClient(t *testing.T) (*FakeBackend, *backend.Client) {
	t.Helper()
	fake := NewFakeBackend()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return fake, backend.NewClient(httputil.NewStandardClient(srv.Client()), srv.URL)
}

func TestFakeBackend_Presets(t *testing.T) {
	fake, client := newFakeClient(t)
	ctx := context.Background()

	require.NoError(t, client.PutPreset(ctx, "My Lights", `{"frames":[]}`))
	require.NoError(t, client.PutPreset(ctx, "a/b", `{}`))

	names, err := client.Presets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"My Lights", "a/b"}, names)

	data, err := client.Preset(ctx, "My Lights")
	require.NoError(t, err)
	assert.Equal(t, `{"frames":[]}`, data)

	require.NoError(t, client.ShowPreset(ctx, "a/b"))
	assert.Equal(t, []string{"a/b"}, fake.Shown())

	require.NoError(t, client.DeletePreset(ctx, "a/b"))
	assert.Equal(t, []string{"My Lights"}, fake.Presets())

	var se *backend.StatusError
	require.ErrorAs(t, client.DeletePreset(ctx, "a/b"), &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
}

func TestFakeBackend_Compile(t *testing.T) {
	fake, client := newFakeClient(t)

	data, err := client.CompileAnimation(context.Background(), "twinkle", []backend.Field{
		{Name: "speed", Value: "2"},
		{Name: "colour", Value: "#ff0000"},
	})
	require.NoError(t, err)
	assert.Equal(t, "twinkle?colour=%23ff0000&speed=2", data)
	require.Len(t, fake.Compiles(), 1)
	assert.Equal(t, "2", fake.Compiles()[0].Get("speed"))
}

func TestFakeBackend_FailNext(t *testing.T) {
	fake, client := newFakeClient(t)
	fake.FailNext(http.MethodPost, "/preview", http.StatusInternalServerError, "busy")

	err := client.Preview(context.Background(), "data")
	var se *backend.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "busy", se.Body)

	require.NoError(t, client.Preview(context.Background(), "data"))
	assert.Equal(t, []string{"data"}, fake.Previews())
	assert.Equal(t, 2, fake.Count("POST /preview"))
}

func TestFakeBackend_AngleFiles(t *testing.T) {
	fake, client := newFakeClient(t)
	ctx := context.Background()
	fake.QueueStates(3, map[string]float64{"progress": 0.5}, map[string]float64{"progress": 1})
	fake.SetBaseImage(3, []byte("jpeg"))

	var st struct{ Progress float64 }
	for _, want := range []float64{0.5, 1, 1} {
		require.NoError(t, client.AngleState(ctx, 3, &st))
		assert.Equal(t, want, st.Progress)
	}

	img, err := client.BaseImage(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(img))

	assert.Error(t, client.AngleState(ctx, 4, &st))
}

func TestFakeBackend_MessagesDrain(t *testing.T) {
	fake, client := newFakeClient(t)
	fake.QueueMessages("Scan finished")

	msgs, err := client.Messages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Scan finished"}, msgs)

	msgs, err = client.Messages(context.Background())
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestParseAngleFile(t *testing.T) {
	tests := []struct {
		file  string
		angle int
		kind  string
		ok    bool
	}{
		{"angle000_state.json", 0, "state.json", true},
		{"angle120_base.jpg", 120, "base.jpg", true},
		{"angle12_base.jpg", 0, "", false},
		{"presets.json", 0, "", false},
	}
	for _, tt := range tests {
		angle, kind, ok := parseAngleFile(tt.file)
		if angle != tt.angle || kind != tt.kind || ok != tt.ok {
			t.Errorf("parseAngleFile(%q) = %d, %q, %v", tt.file, angle, kind, ok)
		}
	}
}

func TestParseHTML(t *testing.T) {
	doc := ParseHTML(t, strings.NewReader(`<html><head><title>Scan</title></head><body><p class="x">hi</p></body></html>`))
	if got := doc.Find("p.x").Text(); got != "hi" {
		t.Errorf("p.x = %q", got)
	}
}
