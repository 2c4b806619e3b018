package presets

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinkenxmas/lightdesk/internal/backend"
	"github.com/blinkenxmas/lightdesk/internal/httputil"
	"github.com/blinkenxmas/lightdesk/internal/messages"
	"github.com/blinkenxmas/lightdesk/internal/monitoring"
	"github.com/blinkenxmas/lightdesk/internal/page"
)

func init() {
	monitoring.SetLogger(nil)
}

func newManager(names ...string) (*Manager, *page.MemoryPresetList, *httputil.MockHTTPClient, *messages.Recorder) {
	list := page.NewMemoryPresetList(names...)
	mock := httputil.NewMockHTTPClient()
	sink := &messages.Recorder{}
	m := NewManager(context.Background(), list, backend.NewClient(mock, ""), sink)
	return m, list, mock, sink
}

func TestBrowse_LinkShowsPreset(t *testing.T) {
	m, list, mock, sink := newManager("Rainbow", "Snow fall")
	m.Browse()

	assert.Equal(t, []string{"Create", "Manage"}, list.Buttons())
	list.Show("Snow fall")
	m.Wait()

	assert.Equal(t, []string{"POST /show/Snow%20fall"}, mock.Paths())
	assert.Empty(t, sink.Messages())
}

func TestShow_ErrorIsReported(t *testing.T) {
	m, _, mock, sink := newManager("Rainbow")
	mock.AddResponse(http.StatusNotFound, "no such preset")

	m.Show(context.Background(), "Rainbow")
	assert.Equal(t, []string{"Error: no such preset (status 404)"}, sink.Messages())
}

func TestPreview(t *testing.T) {
	m, _, mock, _ := newManager()
	m.Preview(context.Background(), "Rainbow")
	assert.Equal(t, []string{"POST /preview/Rainbow"}, mock.Paths())
}

func TestBrowse_PreviewButton(t *testing.T) {
	m, list, mock, sink := newManager("Rainbow", "Snow")
	m.Browse()

	list.Preview("Snow")
	m.Wait()
	assert.Equal(t, []string{"POST /preview/Snow"}, mock.Paths())
	assert.Empty(t, sink.Messages())

	list.Click("Manage")
	list.Click("Cancel")
	list.Preview("Rainbow")
	m.Wait()
	assert.Equal(t, []string{"POST /preview/Snow", "POST /preview/Rainbow"}, mock.Paths(), "cancel rewires previews")
}

func TestManageAndCancel_RoundTripNames(t *testing.T) {
	names := []string{"My Lights!", "café", "a:b", "🎄 tree"}
	m, list, _, _ := newManager(names...)
	m.Browse()

	list.Click("Manage")
	assert.Equal(t, []string{"Remove", "Cancel"}, list.Buttons())
	assert.Equal(t, []string{"My_Lights:0021", "caf:00e9", "a:003ab", ":d83c:df84_tree"}, list.Checkboxes())
	assert.Equal(t, names, list.Labels())

	list.Click("Cancel")
	assert.Equal(t, names, list.Links())
	assert.Equal(t, []string{"Create", "Manage"}, list.Buttons())
}

func TestRemove_AllSucceed(t *testing.T) {
	m, list, mock, sink := newManager("a", "b", "c")
	m.Browse()
	m.Manage()
	list.Check("a")
	list.Check("c")

	outcomes := m.Remove(context.Background())

	assert.Equal(t, []Outcome{{Name: "a"}, {Name: "c"}}, outcomes)
	assert.Equal(t, []string{"DELETE /preset/a", "DELETE /preset/c"}, mock.Paths())
	assert.Equal(t, []string{"b"}, list.Links(), "back to browsing with survivors")
	assert.Equal(t, []string{"Removed a, c"}, sink.Messages())
}

func TestRemove_ContinuesPastFailure(t *testing.T) {
	m, list, mock, sink := newManager("a", "b", "c")
	m.Manage()
	for _, id := range []string{"a", "b", "c"} {
		list.Check(id)
	}
	mock.AddResponse(http.StatusOK, "")
	mock.AddResponse(http.StatusInternalServerError, "locked")
	mock.AddResponse(http.StatusOK, "")

	outcomes := m.Remove(context.Background())

	require.Len(t, outcomes, 3)
	assert.Error(t, outcomes[1].Err)
	assert.Equal(t, 3, mock.RequestCount())
	assert.Equal(t, []string{"b"}, list.Links(), "the failed preset stays listed")
	assert.Equal(t, []string{"Removed a, c; Failed to remove b (Error: locked (status 500))"}, sink.Messages())
}

func TestRemove_StopOnError(t *testing.T) {
	m, list, mock, sink := newManager("a", "b", "c")
	m.StopOnError = true
	m.Manage()
	for _, id := range []string{"a", "b", "c"} {
		list.Check(id)
	}
	mock.AddResponse(http.StatusOK, "")
	mock.AddErrorResponse(errors.New("connection reset"))

	outcomes := m.Remove(context.Background())

	assert.Len(t, outcomes, 2)
	assert.Equal(t, 2, mock.RequestCount(), "c is never attempted")
	assert.Equal(t, []string{"b", "c"}, list.Links())
	msgs := sink.Messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "Removed a")
	assert.Contains(t, msgs[0], "Failed to remove b")
	assert.Contains(t, msgs[0], "1 not attempted")
}

func TestRemove_NothingChecked(t *testing.T) {
	m, list, mock, sink := newManager("a")
	m.Manage()

	assert.Nil(t, m.Remove(context.Background()))
	assert.Equal(t, 0, mock.RequestCount())
	assert.Equal(t, []string{"No presets selected"}, sink.Messages())
	assert.Equal(t, []string{"a"}, list.Checkboxes(), "still managing")
}

func TestRemove_ViaButton(t *testing.T) {
	m, list, mock, _ := newManager("x y")
	m.Browse()
	list.Click("Manage")
	list.Check("x_y")
	list.Click("Remove")
	m.Wait()

	assert.Equal(t, []string{"DELETE /preset/x%20y"}, mock.Paths())
	assert.Empty(t, list.Links())
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "Removed a", Summarize([]Outcome{{Name: "a"}}, 1))
	assert.Equal(t, "Failed to remove a (Error: boom)", Summarize([]Outcome{{Name: "a", Err: errors.New("boom")}}, 1))
}
