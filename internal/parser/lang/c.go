package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tsc "github.com/tree-sitter/tree-sitter-c/bindings/go"

	"github.com/tyrchen/codebank/internal/parser"
)

// cExtractor extracts C files. Preprocessor includes and defines become
// declares; free functions and top-level declarations are public.
type cExtractor struct {
	*grammar
}

// NewCExtractor creates a new C extractor.
func NewCExtractor() Extractor {
	language := sitter.NewLanguage(tsc.Language())
	return &cExtractor{grammar: newGrammar(language, parser.LangC)}
}

// Extract parses a C source file into a FileUnit.
func (e *cExtractor) Extract(path string, source []byte) (*parser.FileUnit, error) {
	source, err := normalizeSource(source)
	if err != nil {
		return nil, err
	}

	tree, err := e.parse(source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	unit := parser.NewFileUnit(path)
	unit.Source = string(source)

	eachChild(root, func(child *sitter.Node) {
		extractCStatement(child, source, unit)
	})

	return unit, nil
}

// extractCStatement handles the top-level node kinds C and C++ share.
// It reports whether the node was consumed.
func extractCStatement(node *sitter.Node, source []byte, unit *parser.FileUnit) bool {
	switch node.Kind() {
	case "preproc_include":
		unit.Declares = append(unit.Declares, parser.DeclareStatement{
			Source: strings.TrimRight(nodeText(node, source), "\n"),
			Kind:   parser.DeclareImport,
		})
	case "preproc_def", "preproc_function_def":
		unit.Declares = append(unit.Declares, parser.DeclareStatement{
			Source: strings.TrimRight(nodeText(node, source), "\n"),
			Kind:   parser.DeclareOther,
			Raw:    "define",
		})
	case "function_definition":
		unit.Functions = append(unit.Functions, extractCFunction(node, source))
	case "declaration":
		// function prototypes become signature-only functions; other
		// declarations stay declares
		if decl := findDeclarator(node, "function_declarator"); decl != nil {
			fn := extractCFunction(node, source)
			fn.Signature = strings.TrimSuffix(strings.TrimSpace(nodeText(node, source)), ";")
			unit.Functions = append(unit.Functions, fn)
		} else if spec := cTypeSpecifier(node); spec != nil {
			unit.Structs = append(unit.Structs, extractCStruct(node, spec, source))
		} else {
			unit.Declares = append(unit.Declares, parser.DeclareStatement{
				Source: nodeText(node, source),
				Kind:   parser.DeclareOther,
				Raw:    "declaration",
			})
		}
	case "struct_specifier", "enum_specifier", "union_specifier":
		unit.Structs = append(unit.Structs, extractCStruct(node, node, source))
	case "type_definition":
		if spec := cTypeSpecifier(node); spec != nil {
			unit.Structs = append(unit.Structs, extractCStruct(node, spec, source))
		} else {
			unit.Declares = append(unit.Declares, parser.DeclareStatement{
				Source: nodeText(node, source),
				Kind:   parser.DeclareOther,
				Raw:    "typedef",
			})
		}
	default:
		return false
	}
	return true
}

// extractCFunction builds a FunctionUnit for a definition or prototype.
func extractCFunction(node *sitter.Node, source []byte) parser.FunctionUnit {
	signature, body, hasBody := splitFunction(node, source)
	return parser.FunctionUnit{
		Name:       cFunctionName(node, source),
		Visibility: parser.VisPublic,
		Doc:        cDoc(node, source),
		Signature:  signature,
		HasBody:    hasBody,
		Body:       body,
		Source:     nodeText(node, source),
	}
}

// extractCStruct builds a StructUnit from a struct/enum/union specifier.
// node is the enclosing declaration (for source text), spec the specifier.
func extractCStruct(node, spec *sitter.Node, source []byte) parser.StructUnit {
	name := nodeText(spec.ChildByFieldName("name"), source)
	if name == "" {
		// typedef struct { ... } Name; takes the declarator name
		name = nodeText(node.ChildByFieldName("declarator"), source)
	}
	src := nodeText(node, source)
	head := src
	if idx := strings.Index(src, "{"); idx >= 0 {
		head = strings.TrimSpace(src[:idx])
	}
	unit := parser.StructUnit{
		Name:       name,
		Head:       head,
		Visibility: parser.VisPublic,
		Doc:        cDoc(node, source),
		Source:     src,
	}
	if body := spec.ChildByFieldName("body"); body != nil {
		eachChild(body, func(field *sitter.Node) {
			kind := field.Kind()
			if kind != "field_declaration" && kind != "enumerator" {
				return
			}
			unit.Fields = append(unit.Fields, parser.FieldUnit{
				Name:   cFieldName(field, source),
				Doc:    cDoc(field, source),
				Source: strings.TrimSuffix(nodeText(field, source), ","),
			})
		})
	}
	return unit
}

// cTypeSpecifier finds a struct/enum/union specifier with a body inside a
// declaration or typedef.
func cTypeSpecifier(node *sitter.Node) *sitter.Node {
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "struct_specifier", "enum_specifier", "union_specifier", "class_specifier":
			if child.ChildByFieldName("body") != nil {
				return child
			}
		}
	}
	return nil
}

// findDeclarator walks the declarator chain looking for the given kind,
// descending through pointer declarators.
func findDeclarator(node *sitter.Node, kind string) *sitter.Node {
	decl := node.ChildByFieldName("declarator")
	for decl != nil {
		if decl.Kind() == kind {
			return decl
		}
		next := decl.ChildByFieldName("declarator")
		if next == nil {
			return nil
		}
		decl = next
	}
	return nil
}

// cFunctionName digs the identifier out of a (possibly pointer-wrapped)
// function declarator.
func cFunctionName(node *sitter.Node, source []byte) string {
	fn := findDeclarator(node, "function_declarator")
	if fn == nil {
		return ""
	}
	name := fn.ChildByFieldName("declarator")
	for name != nil {
		kind := name.Kind()
		if kind == "identifier" || kind == "field_identifier" ||
			kind == "qualified_identifier" || kind == "destructor_name" {
			return nodeText(name, source)
		}
		name = name.ChildByFieldName("declarator")
	}
	return ""
}

func cFieldName(field *sitter.Node, source []byte) string {
	if name := field.ChildByFieldName("name"); name != nil {
		return nodeText(name, source)
	}
	if decl := field.ChildByFieldName("declarator"); decl != nil {
		if id := childByKind(decl, "field_identifier"); id != nil {
			return nodeText(id, source)
		}
		return nodeText(decl, source)
	}
	return ""
}

// cDoc collects the comment block immediately above a node.
func cDoc(node *sitter.Node, source []byte) string {
	raw := lineComments(node, source, []string{"comment"}, nil)
	return cleanDocLines(raw, false)
}
