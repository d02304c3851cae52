// Package console drives the queue console page: stats, publish forms, tabs
// and toasts. It works against Document so the same controller runs in the
// browser, in the terminal and in tests.
package console

// Element ids and classes the page must provide.
const (
	IDQueueName      = "queueName"
	IDQueueStatus    = "queueStatus"
	IDQueueRegion    = "queueRegion"
	IDFormNormal     = "formNormal"
	IDFormCanal      = "formCanal"
	IDEmailNormal    = "emailNormal"
	IDMensagemNormal = "mensagemNormal"
	IDEmailCanal     = "emailCanal"
	IDMensagemCanal  = "mensagemCanal"
	IDCanal          = "canalId"
	IDToast          = "toast"
	IDTabNormal      = "tabNormal"
	IDTabCanal       = "tabCanal"

	ClassTabButton  = "tab-btn"
	ClassTabContent = "tab-content"
	ClassActive     = "active"
	ClassShow       = "show"
	ClassInvalid    = "invalid"

	// AttrTab names the tab a .tab-btn selects.
	AttrTab = "data-tab"

	SubmitButtonSelector = `button[type="submit"]`
)

type ClassList interface {
	Add(class string)
	Remove(class string)
	Contains(class string) bool
}

type Element interface {
	ID() string
	Attr(name string) string

	Text() string
	SetText(text string)
	HTML() string
	SetHTML(html string)
	Value() string
	SetValue(value string)

	Disabled() bool
	SetDisabled(disabled bool)

	Class() string
	SetClass(class string)
	ClassList() ClassList

	// Query returns the first descendant matching selector, or nil.
	Query(selector string) Element
}

// Document implementations return a nil interface, not a typed nil, for a
// missing element.
type Document interface {
	ByID(id string) Element
	ByClass(class string) []Element
}

// SubmitEvent is a form submission. Submitter is the button that triggered it
// and may be nil, in which case the form's submit button is used.
type SubmitEvent struct {
	Target    Element
	Submitter Element
}

// ClickEvent is a click on Target.
type ClickEvent struct {
	Target Element
}
