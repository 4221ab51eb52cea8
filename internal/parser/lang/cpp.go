package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"

	"github.com/tyrchen/codebank/internal/parser"
)

// cppExtractor extracts C++ files. It extends the C handling with
// namespaces, classes with access-specifier regions, and pure-virtual
// interface detection.
type cppExtractor struct {
	*grammar
}

// NewCppExtractor creates a new C++ extractor.
func NewCppExtractor() Extractor {
	language := sitter.NewLanguage(cpp.Language())
	return &cppExtractor{grammar: newGrammar(language, parser.LangCpp)}
}

// Extract parses a C++ source file into a FileUnit.
func (e *cppExtractor) Extract(path string, source []byte) (*parser.FileUnit, error) {
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
		e.extractStatement(child, source, unit)
	})

	return unit, nil
}

func (e *cppExtractor) extractStatement(node *sitter.Node, source []byte, unit *parser.FileUnit) {
	switch node.Kind() {
	case "namespace_definition":
		if body := node.ChildByFieldName("body"); body != nil {
			unit.Modules = append(unit.Modules, e.extractNamespace(node, body, source))
		}
	case "class_specifier":
		e.extractClassLike(node, node, source, unit)
	case "declaration", "type_definition":
		if spec := cTypeSpecifier(node); spec != nil && spec.Kind() == "class_specifier" {
			e.extractClassLike(node, spec, source, unit)
			return
		}
		extractCStatement(node, source, unit)
	case "template_declaration":
		// unwrap the template and process the declaration inside it
		for i := uint(0); i < uint(node.ChildCount()); i++ {
			child := node.Child(i)
			switch child.Kind() {
			case "function_definition", "class_specifier", "struct_specifier", "declaration":
				e.extractStatement(child, source, unit)
			}
		}
	default:
		extractCStatement(node, source, unit)
	}
}

// extractNamespace turns `namespace X { ... }` into a ModuleUnit.
func (e *cppExtractor) extractNamespace(node, body *sitter.Node, source []byte) parser.ModuleUnit {
	module := parser.ModuleUnit{
		Name:       nodeText(node.ChildByFieldName("name"), source),
		Visibility: parser.VisPublic,
		Doc:        cDoc(node, source),
		Source:     nodeText(node, source),
	}
	nested := parser.NewFileUnit("")
	eachChild(body, func(stmt *sitter.Node) {
		e.extractStatement(stmt, source, nested)
	})
	module.Declares = nested.Declares
	module.Functions = nested.Functions
	module.Structs = nested.Structs
	module.Traits = nested.Traits
	module.Submodules = nested.Modules
	return module
}

// extractClassLike emits a TraitUnit when every member function is pure
// virtual, otherwise a StructUnit whose abstract methods have no body.
func (e *cppExtractor) extractClassLike(node, spec *sitter.Node, source []byte, unit *parser.FileUnit) {
	name := nodeText(spec.ChildByFieldName("name"), source)
	src := nodeText(node, source)
	head := src
	if idx := strings.Index(src, "{"); idx >= 0 {
		head = strings.TrimSpace(src[:idx])
	}
	doc := cDoc(node, source)
	methods, fields := e.extractClassMembers(spec, source)

	pureVirtualOnly := len(methods) > 0
	for _, m := range methods {
		if m.HasBody || !isPureVirtual(m.Signature) {
			// a destructor with a body does not disqualify the interface
			if strings.HasPrefix(m.Name, "~") {
				continue
			}
			pureVirtualOnly = false
			break
		}
	}

	if pureVirtualOnly {
		unit.Traits = append(unit.Traits, parser.TraitUnit{
			Name:       name,
			Head:       head,
			Visibility: parser.VisPublic,
			Doc:        doc,
			Methods:    methods,
			Source:     src,
		})
		return
	}
	unit.Structs = append(unit.Structs, parser.StructUnit{
		Name:       name,
		Head:       head,
		Visibility: parser.VisPublic,
		Doc:        doc,
		Fields:     fields,
		Methods:    methods,
		Source:     src,
	})
}

// extractClassMembers walks a class body tracking access-specifier regions.
// Members of a class default to private until a specifier says otherwise.
func (e *cppExtractor) extractClassMembers(spec *sitter.Node, source []byte) ([]parser.FunctionUnit, []parser.FieldUnit) {
	var methods []parser.FunctionUnit
	var fields []parser.FieldUnit

	body := spec.ChildByFieldName("body")
	if body == nil {
		return methods, fields
	}

	current := parser.VisPrivate
	if spec.Kind() == "struct_specifier" {
		current = parser.VisPublic
	}

	eachChild(body, func(member *sitter.Node) {
		switch member.Kind() {
		case "access_specifier":
			switch strings.TrimSuffix(nodeText(member, source), ":") {
			case "public":
				current = parser.VisPublic
			case "protected":
				current = parser.VisProtected
			default:
				current = parser.VisPrivate
			}
		case "function_definition":
			method := extractCFunction(member, source)
			method.Visibility = current
			methods = append(methods, method)
		case "field_declaration":
			if findDeclarator(member, "function_declarator") != nil {
				// method declaration, possibly pure virtual
				method := extractCFunction(member, source)
				method.Visibility = current
				method.Signature = strings.TrimSuffix(strings.TrimSpace(nodeText(member, source)), ";")
				methods = append(methods, method)
				return
			}
			fields = append(fields, parser.FieldUnit{
				Name:       cFieldName(member, source),
				Doc:        cDoc(member, source),
				Source:     nodeText(member, source),
				Attributes: nil,
			})
		}
	})
	return methods, fields
}

// isPureVirtual recognises `virtual ... = 0` declarations.
func isPureVirtual(signature string) bool {
	return strings.Contains(signature, "virtual") && strings.HasSuffix(strings.TrimSpace(signature), "= 0")
}
