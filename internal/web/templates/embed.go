// Package templates embeds the HTML views served by the web layer.
package templates

import "embed"

//go:embed *.html error/*.html
var FS embed.FS
