package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleDocumentHasPageContract(t *testing.T) {
	doc := NewConsoleDocument()

	for _, id := range []string{
		IDQueueName, IDQueueStatus, IDQueueRegion,
		IDFormNormal, IDFormCanal,
		IDEmailNormal, IDMensagemNormal, IDEmailCanal, IDMensagemCanal, IDCanal,
		IDToast, IDTabNormal, IDTabCanal,
	} {
		assert.NotNil(t, doc.ByID(id), id)
	}

	assert.Len(t, doc.ByClass(ClassTabButton), 2)
	assert.Len(t, doc.ByClass(ClassTabContent), 2)
	assert.NotNil(t, doc.Get(IDFormNormal).Query(SubmitButtonSelector))
	assert.NotNil(t, doc.Get(IDFormCanal).Query(SubmitButtonSelector))
}

func TestMemoryDocumentMissingElementIsNilInterface(t *testing.T) {
	doc := NewMemoryDocument()
	assert.True(t, doc.ByID("missing") == nil)
}

func TestMemoryElementQuery(t *testing.T) {
	doc := NewMemoryDocument()
	form := doc.Add("form", "f")
	field := doc.Add("div", "", "field")
	input := doc.Add("input", "email").SetAttr("type", "email")
	field.Append(input)
	form.Append(field)
	form.Append(doc.Add("button", "reset").SetAttr("type", "reset"))
	form.Append(doc.Add("button", "go").SetAttr("type", "submit"))

	assert.Equal(t, "email", form.Query("#email").ID())
	assert.Equal(t, "email", form.Query(`input[type="email"]`).ID())
	assert.Equal(t, "go", form.Query(`button[type="submit"]`).ID())
	assert.Equal(t, "reset", form.Query("button").ID())
	assert.Equal(t, "email", field.Query("input").ID())
	assert.True(t, form.Query("select") == nil)
	require.NotNil(t, form.Query(".field"))
}

func TestMemoryElementContent(t *testing.T) {
	doc := NewMemoryDocument()
	el := doc.Add("div", "x", "a", "b")

	el.SetText("<b>1 & 2</b>")
	assert.Equal(t, "&lt;b&gt;1 &amp; 2&lt;/b&gt;", el.HTML())

	el.SetHTML(`<i class="fas fa-info-circle"></i> Olá &amp; tchau`)
	assert.Equal(t, "Olá & tchau", el.Text())

	el.ClassList().Add("c")
	el.ClassList().Add("a")
	el.ClassList().Remove("b")
	assert.Equal(t, "a c", el.Class())
	assert.True(t, el.ClassList().Contains("c"))

	el.SetClass("toast  info show")
	assert.Equal(t, "toast info show", el.Class())
	assert.Len(t, doc.ByClass("show"), 1)
}
