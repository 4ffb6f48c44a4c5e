package tsadapter

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/better-vibe/repo-slice/internal/model"
)

var (
	tsLanguage  = tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	tsxLanguage = tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
)

func languageFor(path string) *tree_sitter.Language {
	if strings.HasSuffix(path, ".tsx") || strings.HasSuffix(path, ".jsx") {
		return tsxLanguage
	}
	return tsLanguage
}

// parseFile walks a single file's syntax tree and extracts raw symbols,
// imports, and calls. Grounded on onedusk-pd's treesitter_ts.go walk
// shape, extended with interface/enum/type-alias/class-member coverage
// from AleutianFOSS's typescript_parser.go.
func parseFile(path string, source []byte) (*fileIndex, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(languageFor(path)); err != nil {
		return nil, err
	}
	tree := parser.Parse(source, nil)
	defer tree.Close()

	fi := &fileIndex{path: path, source: source}
	w := &walker{fi: fi, source: source}
	w.walk(tree.RootNode(), nil, false)
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

func (w *walker) walk(n *tree_sitter.Node, enclosing *scope, exportedAncestor bool) {
	w.walkDefault(n, enclosing, exportedAncestor, false)
}

func (w *walker) walkDefault(n *tree_sitter.Node, enclosing *scope, exportedAncestor, defaultAncestor bool) {
	if n == nil {
		return
	}
	kind := n.Kind()

	switch kind {
	case "export_statement":
		exportedAncestor = true
		defaultAncestor = strings.Contains(w.text(n), "export default")
	case "import_statement":
		w.extractImport(n)
	case "call_expression", "new_expression":
		w.extractCall(n, enclosing, kind == "new_expression")
	case "function_declaration", "generator_function_declaration":
		w.extractNamed(n, "function", exportedAncestor, defaultAncestor, enclosing)
		inner := &scope{funcName: w.text(n.ChildByFieldName("name"))}
		w.walkDefault(n.ChildByFieldName("body"), inner, false, false)
		return
	case "class_declaration", "abstract_class_declaration":
		w.extractClass(n, exportedAncestor, defaultAncestor, enclosing)
		return // extractClass recurses into body itself
	case "interface_declaration":
		w.extractNamed(n, "interface", exportedAncestor, defaultAncestor, enclosing)
	case "type_alias_declaration":
		w.extractNamed(n, "type", exportedAncestor, defaultAncestor, enclosing)
	case "enum_declaration":
		w.extractNamed(n, "enum", exportedAncestor, defaultAncestor, enclosing)
	case "lexical_declaration", "variable_declaration":
		w.extractVariableDeclaration(n, exportedAncestor, enclosing)
	}

	count := n.NamedChildCount()
	for i := uint(0); i < count; i++ {
		child := n.NamedChild(i)
		w.walkDefault(child, enclosing, exportedAncestor, defaultAncestor)
	}
}

func (w *walker) extractNamed(n *tree_sitter.Node, kind string, exported, isDefault bool, enclosing *scope) {
	nameNode := n.ChildByFieldName("name")
	name := w.text(nameNode)
	if name == "" {
		return
	}
	sym := rawSymbol{name: name, kind: kind, exported: exported, isDefault: isDefault, r: rangeOf(n), symbolPosition: int(n.StartByte())}
	if enclosing != nil && enclosing.hasClass {
		sym.hasClass = true
		sym.className = enclosing.className
	}
	w.fi.symbols = append(w.fi.symbols, sym)
}

func (w *walker) extractClass(n *tree_sitter.Node, exported, isDefault bool, outer *scope) {
	nameNode := n.ChildByFieldName("name")
	name := w.text(nameNode)
	if name != "" {
		w.fi.symbols = append(w.fi.symbols, rawSymbol{name: name, kind: "class", exported: exported, isDefault: isDefault, r: rangeOf(n), symbolPosition: int(n.StartByte())})
	}
	inner := &scope{className: name, hasClass: name != ""}
	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	count := body.NamedChildCount()
	for i := uint(0); i < count; i++ {
		member := body.NamedChild(i)
		w.walkClassMember(member, inner)
	}
}

func (w *walker) walkClassMember(n *tree_sitter.Node, cls *scope) {
	switch n.Kind() {
	case "method_definition":
		nameNode := n.ChildByFieldName("name")
		name := w.text(nameNode)
		memberScope := &scope{funcName: name, className: cls.className, hasClass: true}
		if name == "constructor" {
			w.fi.symbols = append(w.fi.symbols, rawSymbol{name: "constructor", kind: "method", r: rangeOf(n), symbolPosition: int(n.StartByte()), className: cls.className, hasClass: true})
		} else if name != "" {
			w.fi.symbols = append(w.fi.symbols, rawSymbol{name: name, kind: "method", r: rangeOf(n), symbolPosition: int(n.StartByte()), className: cls.className, hasClass: true})
		}
		body := n.ChildByFieldName("body")
		w.walk(body, memberScope, false)
	case "public_field_definition", "property_signature":
		nameNode := n.ChildByFieldName("name")
		name := w.text(nameNode)
		if name != "" {
			w.fi.symbols = append(w.fi.symbols, rawSymbol{name: name, kind: "property", r: rangeOf(n), symbolPosition: int(n.StartByte()), className: cls.className, hasClass: true})
		}
	default:
		w.walk(n, cls, false)
	}
}

func (w *walker) extractVariableDeclaration(n *tree_sitter.Node, exported bool, enclosing *scope) {
	count := n.NamedChildCount()
	for i := uint(0); i < count; i++ {
		decl := n.NamedChild(i)
		if decl.Kind() != "variable_declarator" {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		name := w.text(nameNode)
		if name == "" {
			continue
		}
		value := decl.ChildByFieldName("value")
		if value != nil && (value.Kind() == "arrow_function" || value.Kind() == "function_expression") {
			w.fi.symbols = append(w.fi.symbols, rawSymbol{name: name, kind: "function", exported: exported, r: rangeOf(n), symbolPosition: int(n.StartByte())})
			funcScope := &scope{funcName: name}
			body := value.ChildByFieldName("body")
			w.walk(body, funcScope, false)
		} else {
			w.fi.symbols = append(w.fi.symbols, rawSymbol{name: name, kind: "variable", exported: exported, r: rangeOf(n), symbolPosition: int(n.StartByte())})
		}
	}
}

func (w *walker) extractImport(n *tree_sitter.Node) {
	src := n.ChildByFieldName("source")
	spec := unquote(w.text(src))
	if spec == "" {
		// fall back: scan for a string child
		count := n.NamedChildCount()
		for i := uint(0); i < count; i++ {
			c := n.NamedChild(i)
			if c.Kind() == "string" {
				spec = unquote(w.text(c))
				break
			}
		}
	}
	if spec == "" {
		return
	}
	importKind := n.ChildByFieldName("import_kind")
	typeOnly := w.text(importKind) == "type"
	w.fi.imports = append(w.fi.imports, rawImport{specifier: spec, isDynamic: false, isTypeOnly: typeOnly, r: rangeOf(n)})
}

func (w *walker) extractCall(n *tree_sitter.Node, enclosing *scope, isNew bool) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		fn = n.ChildByFieldName("constructor")
	}
	if fn == nil {
		return
	}
	r := rangeOf(n)

	if fn.Kind() == "identifier" {
		name := w.text(fn)
		switch name {
		case "require":
			if spec := firstStringArg(n, w); spec != "" {
				w.fi.imports = append(w.fi.imports, rawImport{specifier: spec, isDynamic: false, r: r})
			}
			return
		case "import":
			if spec := firstStringArg(n, w); spec != "" {
				w.fi.imports = append(w.fi.imports, rawImport{specifier: spec, isDynamic: true, r: r})
			}
			return
		}
		w.emitCall(rawCall{calleeKind: "identifier", chain: []string{name}, r: r, isNew: isNew}, enclosing)
		return
	}

	if fn.Kind() == "import" {
		if spec := firstStringArg(n, w); spec != "" {
			w.fi.imports = append(w.fi.imports, rawImport{specifier: spec, isDynamic: true, r: r})
		}
		return
	}

	if fn.Kind() == "member_expression" {
		chain := w.memberChain(fn)
		w.emitCall(rawCall{calleeKind: "member", chain: chain, r: r, isNew: isNew}, enclosing)
		return
	}

	if fn.Kind() == "subscript_expression" {
		w.emitCall(rawCall{calleeKind: "element", r: r, isNew: isNew}, enclosing)
		return
	}
}

func (w *walker) emitCall(c rawCall, enclosing *scope) {
	if enclosing != nil {
		c.callerName = enclosing.funcName
		c.callerClass = enclosing.className
		c.hasCallerClass = enclosing.hasClass
	}
	w.fi.calls = append(w.fi.calls, c)
}

func (w *walker) memberChain(n *tree_sitter.Node) []string {
	var chain []string
	cur := n
	for cur != nil && cur.Kind() == "member_expression" {
		prop := cur.ChildByFieldName("property")
		chain = append([]string{w.text(prop)}, chain...)
		cur = cur.ChildByFieldName("object")
	}
	if cur != nil {
		chain = append([]string{w.text(cur)}, chain...)
	}
	return chain
}

func firstStringArg(call *tree_sitter.Node, w *walker) string {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return ""
	}
	count := args.NamedChildCount()
	for i := uint(0); i < count; i++ {
		c := args.NamedChild(i)
		if c.Kind() == "string" {
			return unquote(w.text(c))
		}
	}
	return ""
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '`' && s[len(s)-1] == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
