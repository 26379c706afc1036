package web

import "embed"

// Templates embeds the HTML templates used for PDF rendering.
//
//go:embed templates/reports/*.html
var Templates embed.FS
