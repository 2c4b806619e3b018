// Package page describes the parts of a controller page the components touch.
//
// Components are written against these interfaces only. internal/dom binds
// them to the browser DOM; the Memory* types in this package bind them to
// plain Go values for tests.
package page

// Kind selects the widget a Control is rendered as.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindCheckbox
	KindSelect
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindCheckbox:
		return "checkbox"
	case KindSelect:
		return "select"
	}
	return "unknown"
}

// Choice is one option of a select widget.
type Choice struct {
	Value string
	Label string
}

// Control describes a label+widget pair to inject into a form.
type Control struct {
	Kind  Kind
	Name  string // form field name
	ID    string // element id, already escaped
	Label string

	InputType string // input type for KindText, "text" when empty
	Default   string
	Checked   bool
	Min, Max  string // empty when unconstrained
	Choices   []Choice
}

// Injected is a control placed into a form by Form.Insert.
type Injected interface {
	Name() string
	// Value returns the control's current value and whether it would be
	// submitted with the form. Unchecked checkboxes are not submitted.
	Value() (string, bool)
	// Remove takes the widget and its label out of the form.
	Remove()
}

// ChangeEvent is a change event bubbling up to the form.
type ChangeEvent struct {
	Name   string // name of the field that changed
	Button bool   // the target was a button
}

// Form is the page's top-level form.
type Form interface {
	// Value returns the value of the named field, or "" if there is none.
	Value(name string) string
	SetValue(name, value string)
	// SetVisible shows or hides the named field together with its labels.
	SetVisible(name string, visible bool)
	// Insert adds a control immediately before the form's buttons.
	Insert(c Control) Injected
	// ReportValidity runs the native constraint checks, shows any problems
	// to the operator and reports whether the form is valid.
	ReportValidity() bool
	OnChange(fn func(ChangeEvent))
}

// Text is an element whose content is set by a component.
type Text interface {
	SetText(s string)
	// SetHTML replaces the element's markup. Callers sanitize first.
	SetHTML(s string)
	SetVisible(visible bool)
}

// Image is an <img> element.
type Image interface {
	SetSrc(url string)
	Src() string
	// Loaded reports whether the current source has finished loading.
	Loaded() bool
	OnLoad(fn func())
}

// Button is a clickable control.
type Button interface {
	SetLabel(s string)
	// OnClick sets the click handler, replacing any previous one.
	OnClick(fn func())
}

// Progress is a progress bar taking values in [0,1].
type Progress interface {
	SetValue(v float64)
}

// Navigator moves the browser to another page.
type Navigator interface {
	Navigate(url string)
}

// PresetList is the list of stored presets on the index page.
type PresetList interface {
	// Links returns the preset names of the list's links, in list order.
	Links() []string
	// ShowLinks replaces every item with a link per name, followed by a
	// Preview button. Either handler may be nil.
	ShowLinks(names []string, onShow, onPreview func(name string))
	// ShowCheckboxes replaces every item with a checkbox labelled with the
	// name. ids and names are parallel.
	ShowCheckboxes(ids, names []string)
	// Checkboxes returns the ids of every checkbox, in list order.
	Checkboxes() []string
	// Checked returns the ids of the checked checkboxes, in list order.
	Checked() []string
	// RemoveItem removes the list item holding the checkbox with id.
	RemoveItem(id string)
	// BrowseButtons shows the Create link and a Manage button.
	BrowseButtons(onManage func())
	// ManageButtons shows Remove and Cancel buttons.
	ManageButtons(onRemove, onCancel func())
}

// MessageArea holds operator messages.
type MessageArea interface {
	Append(id, text string, onDismiss func())
	Remove(id string)
}

// Downloader hands a generated file to the operator.
type Downloader interface {
	Download(filename, mediaType string, data []byte)
}
