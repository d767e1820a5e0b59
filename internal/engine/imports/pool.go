// # internal/engine/imports/pool.go
package imports

import (
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

var pythonLanguage = sitter.NewLanguage(tree_sitter_python.Language())

// parserPool recycles configured tree-sitter parsers across files. Safe for
// concurrent use; the report engine's workers share it.
var parserPool = sync.Pool{
	New: func() any {
		p := sitter.NewParser()
		p.SetLanguage(pythonLanguage)
		return p
	},
}

func acquireParser() *sitter.Parser {
	return parserPool.Get().(*sitter.Parser)
}

// releaseParser resets the parser before returning it so no references to
// previous parse trees are retained.
func releaseParser(p *sitter.Parser) {
	if p == nil {
		return
	}
	p.Reset()
	parserPool.Put(p)
}
