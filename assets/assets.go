// Package assets embeds the scenes shipped with the binary.
package assets

import "embed"

// DefaultScene is the path of the bundled pond inside FS.
const DefaultScene = "scenes/pond.tmx"

//go:embed scenes/*.tmx
var FS embed.FS
