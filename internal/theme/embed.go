package theme

import "embed"

//go:embed defaults/*.theme
var builtins embed.FS
