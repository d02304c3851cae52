//go:build js && wasm

// Command console-wasm runs the queue console controller in the browser.
//
// Build it and serve it with the Go runtime shim through serve --wasm-dir:
//
//	GOOS=js GOARCH=wasm go build -o dist/app.wasm ./cmd/console-wasm
//	cp "$(go env GOROOT)/lib/wasm/wasm_exec.js" dist/
//	queue-console serve --wasm-dir dist
package main

import (
	"context"

	"github.com/octabyte/bm-queue-console/console"
	"github.com/octabyte/bm-queue-console/console/wasm"
	"github.com/octabyte/bm-queue-console/utils/logger"
)

func main() {
	logger.Init(&logger.Config{
		Level:       "info",
		ServiceName: "queue-console-web",
		Encoding:    "console",
	})
	defer logger.Sync()

	ctx := context.Background()
	doc := wasm.NewDocument()
	ctrl := console.New(doc, console.NewClient(wasm.Origin(), 0), console.Options{})

	release := wasm.Bind(ctx, ctrl, doc)
	defer release()

	go ctrl.Start(ctx)

	select {}
}
