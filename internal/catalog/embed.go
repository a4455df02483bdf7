package catalog

import (
	"embed"
	"io/fs"
)

// The definitions shipped with the binary: one JSON record per tool.
//
//go:embed definitions/*.json
var definitionsFS embed.FS

func embeddedDefinitions() fs.FS {
	sub, err := fs.Sub(definitionsFS, "definitions")
	if err != nil {
		panic("catalog: embedded definitions missing: " + err.Error())
	}
	return sub
}
