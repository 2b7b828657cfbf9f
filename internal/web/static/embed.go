// Package static embeds the site's stylesheet and other fixed assets.
package static

import "embed"

//go:embed app.css
var FS embed.FS
