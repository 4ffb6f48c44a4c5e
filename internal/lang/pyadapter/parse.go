package pyadapter

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/better-vibe/repo-slice/internal/model"
)

var pyLanguage = tree_sitter.NewLanguage(tree_sitter_python.Language())

// parseFile walks a single Python file's syntax tree. Grounded on
// onedusk-pd's internal/graph/treesitter_py.go walk shape (decorated vs
// bare class/function definitions, top-level detection), extended with
// text-based import-clause parsing to stay robust across grammar
// revisions of import_from_statement's relative-import representation.
func parseFile(path string, source []byte) (*fileIndex, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(pyLanguage); err != nil {
		return nil, err
	}
	tree := parser.Parse(source, nil)
	defer tree.Close()

	fi := &fileIndex{path: path, source: source}
	w := &walker{fi: fi, source: source}
	w.walk(tree.RootNode(), nil)
	return fi, nil
}

type scope struct {
	funcName  string
	className string
	hasClass  bool
}

type walker struct {
	fi     *fileIndex
	source []byte
}

func (w *walker) text(n *tree_sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(w.source)
}

func rangeOf(n *tree_sitter.Node) model.Range {
	start := n.StartPosition()
	end := n.EndPosition()
	return model.Range{StartLine: int(start.Row) + 1, EndLine: int(end.Row) + 1}
}

func (w *walker) walk(n *tree_sitter.Node, enclosing *scope) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case "import_statement":
		w.extractPlainImport(n)
	case "import_from_statement":
		w.extractFromImport(n)
	case "call":
		w.extractCall(n, enclosing)
	case "function_definition":
		w.extractFunction(n, enclosing)
		return
	case "class_definition":
		w.extractClassDef(n, enclosing)
		return
	}
	count := n.NamedChildCount()
	for i := uint(0); i < count; i++ {
		w.walk(n.NamedChild(i), enclosing)
	}
}

func (w *walker) extractFunction(n *tree_sitter.Node, enclosing *scope) {
	nameNode := n.ChildByFieldName("name")
	name := w.text(nameNode)
	if name == "" {
		return
	}
	def := rawDef{name: name, kind: model.PyDefFunction, r: rangeOf(n)}
	if enclosing != nil && enclosing.hasClass {
		def.kind = model.PyDefMethod
		def.hasClass = true
		def.className = enclosing.className
	}
	w.fi.defs = append(w.fi.defs, def)

	body := n.ChildByFieldName("body")
	inner := &scope{funcName: name}
	if enclosing != nil {
		inner.className = enclosing.className
		inner.hasClass = enclosing.hasClass
	}
	w.walk(body, inner)
}

func (w *walker) extractClassDef(n *tree_sitter.Node, enclosing *scope) {
	nameNode := n.ChildByFieldName("name")
	name := w.text(nameNode)
	if name == "" {
		return
	}
	classRange := rangeOf(n)
	w.fi.defs = append(w.fi.defs, rawDef{name: name, kind: model.PyDefClass, r: classRange})
	inner := &scope{className: name, hasClass: true}
	body := n.ChildByFieldName("body")
	w.walk(body, inner)
}

func (w *walker) extractPlainImport(n *tree_sitter.Node) {
	text := strings.TrimSpace(w.text(n))
	text = strings.TrimPrefix(text, "import")
	text = strings.TrimSpace(text)
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if idx := strings.Index(part, " as "); idx >= 0 {
			part = part[:idx]
		}
		w.fi.importCand = append(w.fi.importCand, rawImportCandidate{modulePart: strings.TrimSpace(part), r: rangeOf(n)})
	}
}

func (w *walker) extractFromImport(n *tree_sitter.Node) {
	text := strings.TrimSpace(w.text(n))
	text = strings.TrimPrefix(text, "from")
	text = strings.TrimSpace(text)
	idx := strings.Index(text, "import")
	if idx < 0 {
		return
	}
	modulePart := strings.TrimSpace(text[:idx])
	namesPart := strings.TrimSpace(text[idx+len("import"):])
	namesPart = strings.Trim(namesPart, "()")

	level := 0
	for level < len(modulePart) && modulePart[level] == '.' {
		level++
	}
	modulePart = strings.TrimSpace(modulePart[level:])

	var names []string
	if namesPart != "*" {
		for _, part := range strings.Split(namesPart, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if idx := strings.Index(part, " as "); idx >= 0 {
				part = part[:idx]
			}
			names = append(names, strings.TrimSpace(part))
		}
	}

	w.fi.importCand = append(w.fi.importCand, rawImportCandidate{
		isRelative: level > 0,
		level:      level,
		modulePart: modulePart,
		names:      names,
		r:          rangeOf(n),
	})
}

func (w *walker) extractCall(n *tree_sitter.Node, enclosing *scope) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return
	}
	r := rangeOf(n)
	switch fn.Kind() {
	case "identifier":
		w.emit(rawCall{calleeKind: "identifier", chain: []string{w.text(fn)}, r: r}, enclosing)
	case "attribute":
		w.emit(rawCall{calleeKind: "attribute", chain: w.attributeChain(fn), r: r}, enclosing)
	case "subscript":
		w.emit(rawCall{calleeKind: "element", r: r}, enclosing)
	}
}

func (w *walker) emit(c rawCall, enclosing *scope) {
	if enclosing != nil {
		c.callerName = enclosing.funcName
		c.callerClass = enclosing.className
		c.hasCallerClass = enclosing.hasClass
	}
	w.fi.calls = append(w.fi.calls, c)
}

func (w *walker) attributeChain(n *tree_sitter.Node) []string {
	var chain []string
	cur := n
	for cur != nil && cur.Kind() == "attribute" {
		attr := cur.ChildByFieldName("attribute")
		chain = append([]string{w.text(attr)}, chain...)
		cur = cur.ChildByFieldName("object")
	}
	if cur != nil {
		chain = append([]string{w.text(cur)}, chain...)
	}
	return chain
}
