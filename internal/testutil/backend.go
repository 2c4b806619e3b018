package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/blinkenxmas/lightdesk/internal/httputil"
)

// FakeBackend is an in-memory installation server. Serve it with
// httptest.NewServer.
type FakeBackend struct {
	mu sync.Mutex

	router   chi.Router
	requests []string
	failures map[string][]failure

	animations string
	presets    map[string]string
	states     map[int][]string
	baseImages map[int][]byte
	messages   []string
	previews   []string
	shown      []string
	compiles   []url.Values

	// Compile produces the data for an animation. The default echoes the
	// form as a sorted query string.
	Compile func(id string, form url.Values) string
}

type failure struct {
	status int
	body   string
}

// NewFakeBackend returns a backend with no animations and no presets.
func NewFakeBackend() *FakeBackend {
	f := &FakeBackend{
		failures:   make(map[string][]failure),
		animations: "{}",
		presets:    make(map[string]string),
		states:     make(map[int][]string),
		baseImages: make(map[int][]byte),
	}

	r := chi.NewRouter()
	r.Get("/animations.json", f.getAnimations)
	r.Post("/animation/{id}", f.compileAnimation)
	r.Get("/presets.json", f.getPresets)
	r.Get("/preset/{name}", f.getPreset)
	r.Put("/preset/{name}", f.putPreset)
	r.Delete("/preset/{name}", f.deletePreset)
	r.Post("/preview", f.preview)
	r.Post("/preview/{name}", f.previewPreset)
	r.Post("/show/{name}", f.show)
	r.Get("/messages.json", f.getMessages)
	r.Get("/{file}", f.getAngleFile)
	f.router = r
	return f
}

func (f *FakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.EscapedPath()

	f.mu.Lock()
	f.requests = append(f.requests, key)
	var fail *failure
	if q := f.failures[key]; len(q) > 0 {
		fail = &q[0]
		f.failures[key] = q[1:]
	}
	f.mu.Unlock()

	if fail != nil {
		httputil.WriteText(w, fail.status, fail.body)
		return
	}
	f.router.ServeHTTP(w, r)
}

// param returns a decoded path parameter.
func param(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if s, err := url.PathUnescape(v); err == nil {
		return s
	}
	return v
}

// FailNext makes the next request matching "METHOD /escaped/path" answer
// with status and body. Calls queue up.
func (f *FakeBackend) FailNext(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := method + " " + path
	f.failures[key] = append(f.failures[key], failure{status: status, body: body})
}

// Requests returns "METHOD /escaped/path" for every request, in order.
func (f *FakeBackend) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

// Count returns how many requests matched "METHOD /escaped/path".
func (f *FakeBackend) Count(key string) int {
	n := 0
	for _, r := range f.Requests() {
		if r == key {
			n++
		}
	}
	return n
}

// SetAnimations sets the animation catalog document.
func (f *FakeBackend) SetAnimations(catalogJSON string) {
	f.mu.Lock()
	f.animations = catalogJSON
	f.mu.Unlock()
}

func (f *FakeBackend) getAnimations(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	body := f.animations
	f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, body)
}

func (f *FakeBackend) compileAnimation(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	id := param(r, "id")
	form := url.Values(r.MultipartForm.Value)

	f.mu.Lock()
	f.compiles = append(f.compiles, form)
	compile := f.Compile
	f.mu.Unlock()

	data := id + "?" + form.Encode()
	if compile != nil {
		data = compile(id, form)
	}
	httputil.WriteText(w, http.StatusOK, data)
}

// Compiles returns the forms posted to /animation/{id}, oldest first.
func (f *FakeBackend) Compiles() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]url.Values(nil), f.compiles...)
}

// SetPreset stores a preset.
func (f *FakeBackend) SetPreset(name, data string) {
	f.mu.Lock()
	f.presets[name] = data
	f.mu.Unlock()
}

// Preset returns a stored preset.
func (f *FakeBackend) Preset(name string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.presets[name]
	return data, ok
}

// Presets returns the stored preset names, sorted.
func (f *FakeBackend) Presets() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.presets))
	for name := range f.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f *FakeBackend) getPresets(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, f.Presets())
}

func (f *FakeBackend) getPreset(w http.ResponseWriter, r *http.Request) {
	data, ok := f.Preset(param(r, "name"))
	if !ok {
		httputil.NotFound(w, "no such preset")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, data)
}

func (f *FakeBackend) putPreset(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	f.SetPreset(param(r, "name"), string(body))
	httputil.NoContent(w)
}

func (f *FakeBackend) deletePreset(w http.ResponseWriter, r *http.Request) {
	name := param(r, "name")
	f.mu.Lock()
	_, ok := f.presets[name]
	delete(f.presets, name)
	f.mu.Unlock()
	if !ok {
		httputil.NotFound(w, "no such preset")
		return
	}
	httputil.NoContent(w)
}

func (f *FakeBackend) preview(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	f.mu.Lock()
	f.previews = append(f.previews, string(body))
	f.mu.Unlock()
	httputil.NoContent(w)
}

func (f *FakeBackend) previewPreset(w http.ResponseWriter, r *http.Request) {
	data, ok := f.Preset(param(r, "name"))
	if !ok {
		httputil.NotFound(w, "no such preset")
		return
	}
	f.mu.Lock()
	f.previews = append(f.previews, data)
	f.mu.Unlock()
	httputil.NoContent(w)
}

// Previews returns the animation data of every preview, oldest first.
func (f *FakeBackend) Previews() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.previews...)
}

func (f *FakeBackend) show(w http.ResponseWriter, r *http.Request) {
	name := param(r, "name")
	if _, ok := f.Preset(name); !ok {
		httputil.NotFound(w, "no such preset")
		return
	}
	f.mu.Lock()
	f.shown = append(f.shown, name)
	f.mu.Unlock()
	httputil.NoContent(w)
}

// Shown returns the presets shown on the installation, oldest first.
func (f *FakeBackend) Shown() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.shown...)
}

// QueueMessages adds operator messages for the next /messages.json.
func (f *FakeBackend) QueueMessages(msgs ...string) {
	f.mu.Lock()
	f.messages = append(f.messages, msgs...)
	f.mu.Unlock()
}

func (f *FakeBackend) getMessages(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	msgs := f.messages
	f.messages = nil
	f.mu.Unlock()
	if msgs == nil {
		msgs = []string{}
	}
	httputil.WriteJSONOK(w, msgs)
}

// QueueStates adds scan states for angle. Each poll takes the next one; the
// last is repeated. States are encoded as JSON.
func (f *FakeBackend) QueueStates(angle int, states ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, st := range states {
		data, err := json.Marshal(st)
		if err != nil {
			panic(err)
		}
		f.states[angle] = append(f.states[angle], string(data))
	}
}

// SetBaseImage sets the reference photo served for angle.
func (f *FakeBackend) SetBaseImage(angle int, data []byte) {
	f.mu.Lock()
	f.baseImages[angle] = data
	f.mu.Unlock()
}

// getAngleFile serves angleNNN_state.json and angleNNN_base.jpg.
func (f *FakeBackend) getAngleFile(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	angle, kind, ok := parseAngleFile(file)
	if !ok {
		httputil.NotFound(w, "not found")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	switch kind {
	case "state.json":
		q := f.states[angle]
		if len(q) == 0 {
			httputil.NotFound(w, fmt.Sprintf("no scan for angle %d", angle))
			return
		}
		body := q[0]
		if len(q) > 1 {
			f.states[angle] = q[1:]
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	case "base.jpg":
		data, ok := f.baseImages[angle]
		if !ok {
			httputil.NotFound(w, fmt.Sprintf("no image for angle %d", angle))
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(data)
	default:
		httputil.NotFound(w, "not found")
	}
}

// parseAngleFile splits "angle007_state.json" into 7 and "state.json".
func parseAngleFile(file string) (angle int, kind string, ok bool) {
	rest, found := strings.CutPrefix(file, "angle")
	if !found {
		return 0, "", false
	}
	num, kind, found := strings.Cut(rest, "_")
	if !found || len(num) != 3 {
		return 0, "", false
	}
	angle, err := strconv.Atoi(num)
	if err != nil {
		return 0, "", false
	}
	return angle, kind, true
}
