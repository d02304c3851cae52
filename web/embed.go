// Package web holds the console page and its static assets.
package web

import "embed"

//go:embed index.html static
var FS embed.FS

// Index is the console page.
//
//go:embed index.html
var Index []byte
