// Package presets runs the index page's preset list: showing a preset on the
// installation, and selecting presets for removal.
package presets

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/blinkenxmas/lightdesk/internal/ident"
	"github.com/blinkenxmas/lightdesk/internal/messages"
	"github.com/blinkenxmas/lightdesk/internal/monitoring"
	"github.com/blinkenxmas/lightdesk/internal/page"
)

var logf = monitoring.For("presets")

// Store is the server's preset store.
type Store interface {
	ShowPreset(ctx context.Context, name string) error
	PreviewPreset(ctx context.Context, name string) error
	DeletePreset(ctx context.Context, name string) error
}

// Outcome is the result of removing one preset.
type Outcome struct {
	Name string
	Err  error
}

// Manager switches the preset list between browsing (each preset is a link
// that shows it) and managing (each preset is a checkbox).
type Manager struct {
	list  page.PresetList
	store Store
	sink  messages.Sink
	ctx   context.Context

	// StopOnError ends a removal at the first failure, leaving later
	// presets in place.
	StopOnError bool

	wg sync.WaitGroup
}

// NewManager returns a manager for list. Requests started from click
// handlers use ctx.
func NewManager(ctx context.Context, list page.PresetList, store Store, sink messages.Sink) *Manager {
	return &Manager{list: list, store: store, sink: sink, ctx: ctx}
}

// async runs fn off the event callback.
func (m *Manager) async(fn func()) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		fn()
	}()
}

// Wait blocks until every request started from a click handler finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Browse wires the list's links, their Preview buttons and the Manage
// button.
func (m *Manager) Browse() {
	m.list.ShowLinks(m.list.Links(), m.onShow, m.onPreview)
	m.list.BrowseButtons(m.Manage)
}

func (m *Manager) onShow(name string) {
	m.async(func() { m.Show(m.ctx, name) })
}

func (m *Manager) onPreview(name string) {
	m.async(func() { m.Preview(m.ctx, name) })
}

// Show makes name the preset playing on the installation.
func (m *Manager) Show(ctx context.Context, name string) {
	logf("show %q", name)
	if err := m.store.ShowPreset(ctx, name); err != nil {
		messages.Error(m.sink, fmt.Errorf("showing %s: %w", name, err))
	}
}

// Preview plays name on the installation without making it current.
func (m *Manager) Preview(ctx context.Context, name string) {
	logf("preview %q", name)
	if err := m.store.PreviewPreset(ctx, name); err != nil {
		messages.Error(m.sink, fmt.Errorf("previewing %s: %w", name, err))
	}
}

// Manage replaces the links with checkboxes. A checkbox's id is the escaped
// preset name.
func (m *Manager) Manage() {
	names := m.list.Links()
	ids := make([]string, len(names))
	for i, n := range names {
		ids[i] = ident.Escape(n)
	}
	m.list.ShowCheckboxes(ids, names)
	m.list.ManageButtons(func() { m.async(func() { m.Remove(m.ctx) }) }, m.Cancel)
}

// Cancel goes back to browsing. The names are recovered from the checkbox
// ids.
func (m *Manager) Cancel() {
	ids := m.list.Checkboxes()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = ident.Unescape(id)
	}
	m.list.ShowLinks(names, m.onShow, m.onPreview)
	m.list.BrowseButtons(m.Manage)
}

// Remove deletes the checked presets one at a time, in list order. Each
// removed preset leaves the list. When done the list goes back to browsing
// and one message summarizes the outcome.
func (m *Manager) Remove(ctx context.Context) []Outcome {
	ids := m.list.Checked()
	if len(ids) == 0 {
		m.sink.Show("No presets selected")
		return nil
	}

	var outcomes []Outcome
	for _, id := range ids {
		name := ident.Unescape(id)
		err := m.store.DeletePreset(ctx, name)
		outcomes = append(outcomes, Outcome{Name: name, Err: err})
		if err != nil {
			logf("remove %q failed: %v", name, err)
			if m.StopOnError {
				break
			}
			continue
		}
		m.list.RemoveItem(id)
	}

	m.Cancel()
	m.sink.Show(Summarize(outcomes, len(ids)))
	return outcomes
}

// Summarize describes the outcomes of removing selected presets.
func Summarize(outcomes []Outcome, selected int) string {
	var removed, failed []string
	for _, o := range outcomes {
		if o.Err == nil {
			removed = append(removed, o.Name)
		} else {
			failed = append(failed, fmt.Sprintf("%s (%s)", o.Name, messages.Format(o.Err)))
		}
	}

	var parts []string
	if len(removed) > 0 {
		parts = append(parts, "Removed "+strings.Join(removed, ", "))
	}
	if len(failed) > 0 {
		parts = append(parts, "Failed to remove "+strings.Join(failed, ", "))
	}
	if skipped := selected - len(outcomes); skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d not attempted", skipped))
	}
	return strings.Join(parts, "; ")
}
