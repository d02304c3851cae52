//go:build js && wasm

// Package wasm binds the console controller to the browser DOM.
package wasm

import (
	"syscall/js"

	"github.com/octabyte/bm-queue-console/console"
)

// Document wraps the browser document.
type Document struct {
	v js.Value
}

func NewDocument() Document {
	return Document{v: js.Global().Get("document")}
}

func (d Document) ByID(id string) console.Element {
	return wrap(d.v.Call("getElementById", id))
}

func (d Document) ByClass(class string) []console.Element {
	list := d.v.Call("getElementsByClassName", class)
	n := list.Length()
	out := make([]console.Element, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, element{list.Index(i)})
	}
	return out
}

// wrap returns a nil interface for null and undefined.
func wrap(v js.Value) console.Element {
	if !v.Truthy() {
		return nil
	}
	return element{v}
}

type element struct {
	v js.Value
}

func (e element) ID() string {
	return e.v.Get("id").String()
}

func (e element) Attr(name string) string {
	attr := e.v.Call("getAttribute", name)
	if attr.Type() != js.TypeString {
		return ""
	}
	return attr.String()
}

func (e element) Text() string {
	return e.v.Get("textContent").String()
}

func (e element) SetText(text string) {
	e.v.Set("textContent", text)
}

func (e element) HTML() string {
	return e.v.Get("innerHTML").String()
}

func (e element) SetHTML(html string) {
	e.v.Set("innerHTML", html)
}

func (e element) Value() string {
	return e.v.Get("value").String()
}

func (e element) SetValue(v string) {
	e.v.Set("value", v)
}

func (e element) Disabled() bool {
	return e.v.Get("disabled").Truthy()
}

func (e element) SetDisabled(d bool) {
	e.v.Set("disabled", d)
}

func (e element) Class() string {
	return e.v.Get("className").String()
}

func (e element) SetClass(class string) {
	e.v.Set("className", class)
}

func (e element) ClassList() console.ClassList {
	return classList{e.v.Get("classList")}
}

func (e element) Query(selector string) console.Element {
	return wrap(e.v.Call("querySelector", selector))
}

type classList struct {
	v js.Value
}

func (l classList) Add(class string) {
	l.v.Call("add", class)
}

func (l classList) Remove(class string) {
	l.v.Call("remove", class)
}

func (l classList) Contains(class string) bool {
	return l.v.Call("contains", class).Bool()
}
