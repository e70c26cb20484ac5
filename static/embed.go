// Package static embeds the stylesheet and other public assets.
package static

import "embed"

//go:embed *.css
var FS embed.FS
