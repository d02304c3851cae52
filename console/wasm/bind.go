//go:build js && wasm

package wasm

import (
	"context"
	"syscall/js"

	"github.com/octabyte/bm-queue-console/console"
	"github.com/octabyte/bm-queue-console/enums"
)

// Bind wires form submits and tab clicks to ctrl. The returned function
// releases the callbacks.
func Bind(ctx context.Context, ctrl *console.Controller, doc Document) func() {
	var handlers []js.Func

	listen := func(target js.Value, event string, fn func(this js.Value, args []js.Value)) {
		h := js.FuncOf(func(this js.Value, args []js.Value) any {
			fn(this, args)
			return nil
		})
		handlers = append(handlers, h)
		target.Call("addEventListener", event, h)
	}

	for _, formID := range []string{console.IDFormNormal, console.IDFormCanal} {
		form := doc.v.Call("getElementById", formID)
		if !form.Truthy() {
			continue
		}
		listen(form, "submit", func(_ js.Value, args []js.Value) {
			ev := args[0]
			ev.Call("preventDefault")

			submit := console.SubmitEvent{Target: wrap(ev.Get("target"))}
			if submitter := ev.Get("submitter"); submitter.Truthy() {
				submit.Submitter = element{submitter}
			}
			// Blocking calls must leave the event loop.
			go ctrl.Submit(ctx, submit)
		})
	}

	for _, btn := range doc.ByClass(console.ClassTabButton) {
		listen(btn.(element).v, "click", func(js.Value, []js.Value) {
			ctrl.SelectTab(console.ClickEvent{Target: btn}, enums.Tab(btn.Attr(console.AttrTab)))
		})
	}

	return func() {
		for _, h := range handlers {
			h.Release()
		}
	}
}

// Origin is the page origin, used as the API base URL.
func Origin() string {
	return js.Global().Get("location").Get("origin").String()
}
