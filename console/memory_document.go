package console

import (
	"html"
	"strings"
	"sync"
)

// MemoryDocument is an in-process Document. All elements share the document
// lock, so it is safe for concurrent use.
type MemoryDocument struct {
	mu    sync.RWMutex
	byID  map[string]*MemoryElement
	order []*MemoryElement
}

func NewMemoryDocument() *MemoryDocument {
	return &MemoryDocument{byID: map[string]*MemoryElement{}}
}

// NewConsoleDocument builds the console page in memory.
func NewConsoleDocument() *MemoryDocument {
	d := NewMemoryDocument()

	for _, id := range []string{IDQueueName, IDQueueStatus, IDQueueRegion} {
		d.Add("span", id).SetText("...")
	}

	d.Add("button", "", ClassTabButton, ClassActive).SetAttr(AttrTab, "normal")
	d.Add("button", "", ClassTabButton).SetAttr(AttrTab, "channel")

	d.Add("section", IDTabNormal, ClassTabContent, ClassActive)
	normal := d.Add("form", IDFormNormal)
	normal.Append(d.Add("input", IDEmailNormal))
	normal.Append(d.Add("textarea", IDMensagemNormal))
	normal.Append(newSubmitButton(d, "Enviar"))

	d.Add("section", IDTabCanal, ClassTabContent)
	canal := d.Add("form", IDFormCanal)
	canal.Append(d.Add("input", IDEmailCanal))
	canal.Append(d.Add("textarea", IDMensagemCanal))
	canal.Append(d.Add("input", IDCanal))
	canal.Append(newSubmitButton(d, "Enviar para o canal"))

	d.Add("div", IDToast, "toast")
	return d
}

func newSubmitButton(d *MemoryDocument, label string) *MemoryElement {
	btn := d.Add("button", "").SetAttr("type", "submit")
	btn.SetHTML(`<i class="fas fa-paper-plane"></i> ` + label)
	return btn
}

// Add creates an element. id may be empty.
func (d *MemoryDocument) Add(tag, id string, classes ...string) *MemoryElement {
	el := &MemoryElement{
		doc:     d,
		tag:     tag,
		id:      id,
		classes: append([]string(nil), classes...),
		attrs:   map[string]string{},
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if id != "" {
		d.byID[id] = el
	}
	d.order = append(d.order, el)
	return el
}

func (d *MemoryDocument) ByID(id string) Element {
	if el := d.Get(id); el != nil {
		return el
	}
	return nil
}

// Get is ByID returning the concrete element, nil when absent.
func (d *MemoryDocument) Get(id string) *MemoryElement {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.byID[id]
}

func (d *MemoryDocument) ByClass(class string) []Element {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []Element
	for _, el := range d.order {
		if hasClass(el.classes, class) {
			out = append(out, el)
		}
	}
	return out
}

type MemoryElement struct {
	doc      *MemoryDocument
	tag      string
	id       string
	attrs    map[string]string
	classes  []string
	text     string
	html     string
	value    string
	disabled bool
	children []*MemoryElement
}

func (e *MemoryElement) ID() string { return e.id }

func (e *MemoryElement) Attr(name string) string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.attrs[name]
}

func (e *MemoryElement) SetAttr(name, value string) *MemoryElement {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.attrs[name] = value
	return e
}

func (e *MemoryElement) Append(child *MemoryElement) *MemoryElement {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.children = append(e.children, child)
	return e
}

func (e *MemoryElement) Text() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.text
}

func (e *MemoryElement) SetText(text string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.text = text
	e.html = html.EscapeString(text)
}

func (e *MemoryElement) HTML() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.html
}

// SetHTML stores markup as given. Text becomes the markup without tags.
func (e *MemoryElement) SetHTML(markup string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.html = markup
	e.text = stripTags(markup)
}

func (e *MemoryElement) Value() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.value
}

func (e *MemoryElement) SetValue(value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.value = value
}

func (e *MemoryElement) Disabled() bool {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.disabled
}

func (e *MemoryElement) SetDisabled(disabled bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.disabled = disabled
}

func (e *MemoryElement) Class() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return strings.Join(e.classes, " ")
}

func (e *MemoryElement) SetClass(class string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.classes = strings.Fields(class)
}

func (e *MemoryElement) ClassList() ClassList {
	return memoryClassList{e}
}

// Query supports "tag", ".class", "#id" and `tag[attr="value"]`.
func (e *MemoryElement) Query(selector string) Element {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()

	if found := e.query(selector); found != nil {
		return found
	}
	return nil
}

func (e *MemoryElement) query(selector string) *MemoryElement {
	for _, child := range e.children {
		if child.matches(selector) {
			return child
		}
		if found := child.query(selector); found != nil {
			return found
		}
	}
	return nil
}

func (e *MemoryElement) matches(selector string) bool {
	switch {
	case strings.HasPrefix(selector, "#"):
		return e.id == selector[1:]
	case strings.HasPrefix(selector, "."):
		return hasClass(e.classes, selector[1:])
	}

	tag, rest, hasAttr := strings.Cut(selector, "[")
	if tag != "" && tag != e.tag {
		return false
	}
	if !hasAttr {
		return true
	}

	name, value, _ := strings.Cut(strings.TrimSuffix(rest, "]"), "=")
	got, ok := e.attrs[name]
	if value == "" {
		return ok
	}
	return got == strings.Trim(value, `"'`)
}

type memoryClassList struct {
	e *MemoryElement
}

func (l memoryClassList) Add(class string) {
	l.e.doc.mu.Lock()
	defer l.e.doc.mu.Unlock()
	if !hasClass(l.e.classes, class) {
		l.e.classes = append(l.e.classes, class)
	}
}

func (l memoryClassList) Remove(class string) {
	l.e.doc.mu.Lock()
	defer l.e.doc.mu.Unlock()
	kept := l.e.classes[:0]
	for _, c := range l.e.classes {
		if c != class {
			kept = append(kept, c)
		}
	}
	l.e.classes = kept
}

func (l memoryClassList) Contains(class string) bool {
	l.e.doc.mu.RLock()
	defer l.e.doc.mu.RUnlock()
	return hasClass(l.e.classes, class)
}

func hasClass(classes []string, class string) bool {
	for _, c := range classes {
		if c == class {
			return true
		}
	}
	return false
}

func stripTags(markup string) string {
	var b strings.Builder
	inTag := false
	for _, r := range markup {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return html.UnescapeString(strings.TrimSpace(b.String()))
}
