package page

import "sync"

// MemoryForm is an in-memory Form. Fixed fields are created up front;
// controls added by Insert follow them in insertion order.
type MemoryForm struct {
	mu       sync.Mutex
	fields   map[string]*memoryField
	injected []*MemoryControl
	invalid  bool
	reports  int
	handlers []func(ChangeEvent)
}

type memoryField struct {
	value   string
	visible bool
}

// NewMemoryForm returns a form holding empty, visible fields with the given
// names.
func NewMemoryForm(names ...string) *MemoryForm {
	f := &MemoryForm{fields: make(map[string]*memoryField)}
	for _, name := range names {
		f.fields[name] = &memoryField{visible: true}
	}
	return f
}

func (f *MemoryForm) Value(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fld, ok := f.fields[name]; ok {
		return fld.value
	}
	for _, c := range f.injected {
		if c.ctrl.Name == name {
			v, _ := c.valueLocked()
			return v
		}
	}
	return ""
}

func (f *MemoryForm) SetValue(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fld, ok := f.fields[name]; ok {
		fld.value = value
		return
	}
	for _, c := range f.injected {
		if c.ctrl.Name == name {
			c.setLocked(value)
			return
		}
	}
}

func (f *MemoryForm) SetVisible(name string, visible bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fld, ok := f.fields[name]; ok {
		fld.visible = visible
	}
}

// Visible reports whether a fixed field is shown.
func (f *MemoryForm) Visible(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	fld, ok := f.fields[name]
	return ok && fld.visible
}

func (f *MemoryForm) Insert(c Control) Injected {
	f.mu.Lock()
	defer f.mu.Unlock()
	mc := &MemoryControl{form: f, ctrl: c, value: c.Default, checked: c.Checked}
	if c.Kind == KindSelect && mc.value == "" && len(c.Choices) > 0 {
		mc.value = c.Choices[0].Value
	}
	f.injected = append(f.injected, mc)
	return mc
}

// Controls returns the controls currently in the form, in form order.
func (f *MemoryForm) Controls() []Control {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Control, len(f.injected))
	for i, c := range f.injected {
		out[i] = c.ctrl
	}
	return out
}

// Control returns the injected control with the given field name.
func (f *MemoryForm) Control(name string) (*MemoryControl, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.injected {
		if c.ctrl.Name == name {
			return c, true
		}
	}
	return nil, false
}

// SetValid sets the outcome of the next ReportValidity calls.
func (f *MemoryForm) SetValid(valid bool) {
	f.mu.Lock()
	f.invalid = !valid
	f.mu.Unlock()
}

func (f *MemoryForm) ReportValidity() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports++
	return !f.invalid
}

// Reports returns how many times ReportValidity was called.
func (f *MemoryForm) Reports() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reports
}

func (f *MemoryForm) OnChange(fn func(ChangeEvent)) {
	f.mu.Lock()
	f.handlers = append(f.handlers, fn)
	f.mu.Unlock()
}

// Change sets a field the way an operator would and dispatches the change
// event. For checkboxes a non-empty value checks the box.
func (f *MemoryForm) Change(name, value string) {
	f.SetValue(name, value)
	f.Dispatch(ChangeEvent{Name: name})
}

// Dispatch delivers ev to every change handler.
func (f *MemoryForm) Dispatch(ev ChangeEvent) {
	f.mu.Lock()
	handlers := append([]func(ChangeEvent){}, f.handlers...)
	f.mu.Unlock()
	for _, fn := range handlers {
		fn(ev)
	}
}

// MemoryControl is a control injected into a MemoryForm.
type MemoryControl struct {
	form    *MemoryForm
	ctrl    Control
	value   string
	checked bool
}

func (c *MemoryControl) Name() string { return c.ctrl.Name }

// Template returns the Control the widget was built from.
func (c *MemoryControl) Template() Control { return c.ctrl }

func (c *MemoryControl) Value() (string, bool) {
	c.form.mu.Lock()
	defer c.form.mu.Unlock()
	return c.valueLocked()
}

func (c *MemoryControl) valueLocked() (string, bool) {
	if c.ctrl.Kind == KindCheckbox {
		if !c.checked {
			return "", false
		}
		return "on", true
	}
	return c.value, true
}

func (c *MemoryControl) setLocked(value string) {
	if c.ctrl.Kind == KindCheckbox {
		c.checked = value != ""
		return
	}
	c.value = value
}

func (c *MemoryControl) Remove() {
	f := c.form
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, other := range f.injected {
		if other == c {
			f.injected = append(f.injected[:i], f.injected[i+1:]...)
			return
		}
	}
}

// MemoryText is an in-memory Text.
type MemoryText struct {
	mu      sync.Mutex
	text    string
	html    string
	visible bool
}

func (t *MemoryText) SetText(s string) {
	t.mu.Lock()
	t.text, t.html = s, ""
	t.mu.Unlock()
}

func (t *MemoryText) SetHTML(s string) {
	t.mu.Lock()
	t.text, t.html = "", s
	t.mu.Unlock()
}

func (t *MemoryText) SetVisible(visible bool) {
	t.mu.Lock()
	t.visible = visible
	t.mu.Unlock()
}

// Text returns the plain text content.
func (t *MemoryText) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text
}

// HTML returns the markup content.
func (t *MemoryText) HTML() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.html
}

// Visible reports whether the element is shown.
func (t *MemoryText) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}

// MemoryImage is an in-memory Image. It never loads on its own; tests call
// Load.
type MemoryImage struct {
	mu      sync.Mutex
	src     string
	loaded  bool
	history []string
	onLoad  []func()

	// Width and Height are the natural size reported once loaded.
	Width, Height float64
}

func (i *MemoryImage) SetSrc(url string) {
	i.mu.Lock()
	i.src = url
	i.loaded = false
	i.history = append(i.history, url)
	i.mu.Unlock()
}

func (i *MemoryImage) Src() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.src
}

func (i *MemoryImage) Loaded() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.loaded
}

func (i *MemoryImage) OnLoad(fn func()) {
	i.mu.Lock()
	i.onLoad = append(i.onLoad, fn)
	i.mu.Unlock()
}

// NaturalSize reports Width and Height.
func (i *MemoryImage) NaturalSize() (w, h float64) {
	return i.Width, i.Height
}

// Load marks the current source loaded and runs the load handlers.
func (i *MemoryImage) Load() {
	i.mu.Lock()
	i.loaded = true
	handlers := append([]func(){}, i.onLoad...)
	i.mu.Unlock()
	for _, fn := range handlers {
		fn()
	}
}

// History returns every source assigned, oldest first.
func (i *MemoryImage) History() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]string(nil), i.history...)
}

// MemoryButton is an in-memory Button.
type MemoryButton struct {
	mu      sync.Mutex
	label   string
	handler func()
}

func (b *MemoryButton) SetLabel(s string) {
	b.mu.Lock()
	b.label = s
	b.mu.Unlock()
}

func (b *MemoryButton) Label() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.label
}

func (b *MemoryButton) OnClick(fn func()) {
	b.mu.Lock()
	b.handler = fn
	b.mu.Unlock()
}

// Click runs the current handler, if any.
func (b *MemoryButton) Click() {
	b.mu.Lock()
	fn := b.handler
	b.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// MemoryProgress is an in-memory Progress recording every value set.
type MemoryProgress struct {
	mu     sync.Mutex
	values []float64
}

func (p *MemoryProgress) SetValue(v float64) {
	p.mu.Lock()
	p.values = append(p.values, v)
	p.mu.Unlock()
}

// Values returns every value set, oldest first.
func (p *MemoryProgress) Values() []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]float64(nil), p.values...)
}

// MemoryNavigator records navigations.
type MemoryNavigator struct {
	mu   sync.Mutex
	urls []string
}

func (n *MemoryNavigator) Navigate(url string) {
	n.mu.Lock()
	n.urls = append(n.urls, url)
	n.mu.Unlock()
}

// URLs returns every URL navigated to.
func (n *MemoryNavigator) URLs() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.urls...)
}

// MemoryPresetList is an in-memory PresetList.
type MemoryPresetList struct {
	mu        sync.Mutex
	items     []presetItem
	onShow    func(string)
	onPreview func(string)
	buttons   []string
	onManage  func()
	onRemove  func()
	onCancel  func()
}

type presetItem struct {
	name     string // link mode
	id       string // checkbox mode
	label    string
	checkbox bool
	checked  bool
}

// NewMemoryPresetList returns a list in browse mode with a link per name.
func NewMemoryPresetList(names ...string) *MemoryPresetList {
	l := &MemoryPresetList{}
	for _, n := range names {
		l.items = append(l.items, presetItem{name: n})
	}
	return l
}

func (l *MemoryPresetList) Links() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, it := range l.items {
		if !it.checkbox {
			out = append(out, it.name)
		}
	}
	return out
}

func (l *MemoryPresetList) ShowLinks(names []string, onShow, onPreview func(name string)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = l.items[:0]
	for _, n := range names {
		l.items = append(l.items, presetItem{name: n})
	}
	l.onShow, l.onPreview = onShow, onPreview
}

func (l *MemoryPresetList) ShowCheckboxes(ids, names []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = l.items[:0]
	for i, id := range ids {
		l.items = append(l.items, presetItem{id: id, label: names[i], checkbox: true})
	}
}

func (l *MemoryPresetList) Checkboxes() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, it := range l.items {
		if it.checkbox {
			out = append(out, it.id)
		}
	}
	return out
}

func (l *MemoryPresetList) Checked() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, it := range l.items {
		if it.checkbox && it.checked {
			out = append(out, it.id)
		}
	}
	return out
}

// Check ticks the checkbox with id.
func (l *MemoryPresetList) Check(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.items[i].checkbox && l.items[i].id == id {
			l.items[i].checked = true
		}
	}
}

// Labels returns the checkbox labels in list order.
func (l *MemoryPresetList) Labels() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, it := range l.items {
		if it.checkbox {
			out = append(out, it.label)
		}
	}
	return out
}

func (l *MemoryPresetList) RemoveItem(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, it := range l.items {
		if it.checkbox && it.id == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return
		}
	}
}

// Show clicks the link for name.
func (l *MemoryPresetList) Show(name string) {
	l.mu.Lock()
	fn := l.onShow
	l.mu.Unlock()
	if fn != nil {
		fn(name)
	}
}

// Preview presses the Preview button next to name's link.
func (l *MemoryPresetList) Preview(name string) {
	l.mu.Lock()
	fn := l.onPreview
	l.mu.Unlock()
	if fn != nil {
		fn(name)
	}
}

func (l *MemoryPresetList) BrowseButtons(onManage func()) {
	l.mu.Lock()
	l.buttons = []string{"Create", "Manage"}
	l.onManage, l.onRemove, l.onCancel = onManage, nil, nil
	l.mu.Unlock()
}

func (l *MemoryPresetList) ManageButtons(onRemove, onCancel func()) {
	l.mu.Lock()
	l.buttons = []string{"Remove", "Cancel"}
	l.onManage, l.onRemove, l.onCancel = nil, onRemove, onCancel
	l.mu.Unlock()
}

// Buttons returns the labels of the buttons currently shown.
func (l *MemoryPresetList) Buttons() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.buttons...)
}

// Click presses the button labelled label, if shown.
func (l *MemoryPresetList) Click(label string) {
	l.mu.Lock()
	var fn func()
	switch label {
	case "Manage":
		fn = l.onManage
	case "Remove":
		fn = l.onRemove
	case "Cancel":
		fn = l.onCancel
	}
	l.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// MemoryMessageArea is an in-memory MessageArea.
type MemoryMessageArea struct {
	mu      sync.Mutex
	ids     []string
	texts   map[string]string
	dismiss map[string]func()
}

func (a *MemoryMessageArea) Append(id, text string, onDismiss func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.texts == nil {
		a.texts = make(map[string]string)
		a.dismiss = make(map[string]func())
	}
	a.ids = append(a.ids, id)
	a.texts[id] = text
	a.dismiss[id] = onDismiss
}

func (a *MemoryMessageArea) Remove(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, other := range a.ids {
		if other == id {
			a.ids = append(a.ids[:i], a.ids[i+1:]...)
			break
		}
	}
	delete(a.texts, id)
	delete(a.dismiss, id)
}

// Texts returns the displayed messages, oldest first.
func (a *MemoryMessageArea) Texts() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.ids))
	for i, id := range a.ids {
		out[i] = a.texts[id]
	}
	return out
}

// IDs returns the displayed message ids, oldest first.
func (a *MemoryMessageArea) IDs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.ids...)
}

// Dismiss clicks the close link of message id.
func (a *MemoryMessageArea) Dismiss(id string) {
	a.mu.Lock()
	fn := a.dismiss[id]
	a.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// File is a download recorded by MemoryDownloader.
type File struct {
	Name      string
	MediaType string
	Data      []byte
}

// MemoryDownloader is an in-memory Downloader.
type MemoryDownloader struct {
	mu    sync.Mutex
	files []File
}

func (d *MemoryDownloader) Download(filename, mediaType string, data []byte) {
	d.mu.Lock()
	d.files = append(d.files, File{Name: filename, MediaType: mediaType, Data: append([]byte(nil), data...)})
	d.mu.Unlock()
}

// Files returns every download, oldest first.
func (d *MemoryDownloader) Files() []File {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]File(nil), d.files...)
}
