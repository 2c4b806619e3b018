// Package preview switches an image between a live MJPEG stream and a
// placeholder.
package preview

import (
	"sync"

	"github.com/blinkenxmas/lightdesk/internal/monitoring"
	"github.com/blinkenxmas/lightdesk/internal/page"
)

var logf = monitoring.For("preview")

// State is the toggle's state.
type State int

const (
	Idle State = iota
	Live
)

func (s State) String() string {
	if s == Live {
		return "live"
	}
	return "idle"
}

// Button labels.
const (
	LabelStart = "Preview"
	LabelStop  = "Stop"
)

// Toggle drives an image and a button. Stopping a stream is done by pointing
// the image somewhere else; the browser drops the old connection.
type Toggle struct {
	image       page.Image
	button      page.Button
	placeholder string
	streamURL   func(angle int) string
	startLabel  string
	stopLabel   string

	mu    sync.Mutex
	state State
	angle int
}

// Option configures a Toggle.
type Option func(*Toggle)

// WithLabels replaces the button's Preview and Stop labels.
func WithLabels(start, stop string) Option {
	return func(t *Toggle) {
		t.startLabel, t.stopLabel = start, stop
	}
}

// NewToggle returns an idle toggle. streamURL maps an angle to its stream.
func NewToggle(image page.Image, button page.Button, placeholder string, streamURL func(angle int) string, opts ...Option) *Toggle {
	t := &Toggle{
		image:       image,
		button:      button,
		placeholder: placeholder,
		streamURL:   streamURL,
		startLabel:  LabelStart,
		stopLabel:   LabelStop,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.idle()
	return t
}

// State returns the current state.
func (t *Toggle) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Start shows the stream for the selected angle.
func (t *Toggle) Start() {
	t.mu.Lock()
	t.state = Live
	url := t.streamURL(t.angle)
	t.mu.Unlock()

	t.image.SetSrc(url)
	t.button.SetLabel(t.stopLabel)
	t.button.OnClick(t.Stop)
	logf("streaming %s", url)
}

// Stop shows the placeholder.
func (t *Toggle) Stop() {
	t.mu.Lock()
	t.state = Idle
	t.mu.Unlock()
	t.idle()
	logf("stopped")
}

func (t *Toggle) idle() {
	t.image.SetSrc(t.placeholder)
	t.button.SetLabel(t.startLabel)
	t.button.OnClick(t.Start)
}

// SetAngle selects the camera angle. A live stream switches to it at once.
func (t *Toggle) SetAngle(angle int) {
	t.mu.Lock()
	changed := t.angle != angle
	t.angle = angle
	live := t.state == Live
	url := t.streamURL(angle)
	t.mu.Unlock()

	if live && changed {
		t.image.SetSrc(url)
		logf("streaming %s", url)
	}
}
