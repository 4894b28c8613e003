package assets

import (
	"embed"
	"io/fs"
)

// DefaultConfigYAML contains the embedded default configuration, written
// to ~/.cref/config.yaml on first run.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

//go:embed defaults/catalog
var builtinCatalog embed.FS

// BuiltinCatalog returns the embedded builtin command definition
// documents as a filesystem rooted at the document directory.
func BuiltinCatalog() fs.FS {
	sub, err := fs.Sub(builtinCatalog, "defaults/catalog")
	if err != nil {
		// embed paths are fixed at compile time; this cannot fail on a
		// correctly built binary.
		panic(err)
	}
	return sub
}
