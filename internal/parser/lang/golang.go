package lang

import (
	"strings"
	"unicode"

	sitter "github.com/tree-sitter/go-tree-sitter"
	golang "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"github.com/tyrchen/codebank/internal/parser"
)

// goExtractor extracts Go files. The package clause becomes a public
// ModuleUnit; receiver methods attach to their struct by name and surface as
// an ImplUnit headed "methods for <T>".
type goExtractor struct {
	*grammar
}

// NewGoExtractor creates a new Go extractor.
func NewGoExtractor() Extractor {
	language := sitter.NewLanguage(golang.Language())
	return &goExtractor{grammar: newGrammar(language, parser.LangGo)}
}

// Extract parses a Go source file into a FileUnit.
func (e *goExtractor) Extract(path string, source []byte) (*parser.FileUnit, error) {
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

	methodsByType := make(map[string][]parser.FunctionUnit)
	var receiverOrder []string

	eachChild(root, func(child *sitter.Node) {
		switch child.Kind() {
		case "package_clause":
			unit.Modules = append(unit.Modules, parser.ModuleUnit{
				Name:       nodeText(childByKind(child, "package_identifier"), source),
				Visibility: parser.VisPublic,
				Doc:        e.doc(child, source),
				Source:     nodeText(child, source),
			})
		case "import_declaration":
			e.extractImports(child, source, unit)
		case "function_declaration":
			unit.Functions = append(unit.Functions, e.extractFunction(child, source))
		case "method_declaration":
			receiver, method := e.extractMethod(child, source)
			if receiver == "" {
				return
			}
			if _, seen := methodsByType[receiver]; !seen {
				receiverOrder = append(receiverOrder, receiver)
			}
			methodsByType[receiver] = append(methodsByType[receiver], method)
		case "type_declaration":
			e.extractTypes(child, source, unit)
		case "const_declaration", "var_declaration":
			e.extractValueSpecs(child, source, unit)
		}
	})

	// attach receiver methods to their structs and surface an impl view
	for _, receiver := range receiverOrder {
		methods := methodsByType[receiver]
		for i := range unit.Structs {
			if unit.Structs[i].Name == receiver {
				unit.Structs[i].Methods = append(unit.Structs[i].Methods, methods...)
				break
			}
		}
		unit.Impls = append(unit.Impls, parser.ImplUnit{
			Head:    "methods for " + receiver,
			Methods: methods,
		})
	}

	return unit, nil
}

func (e *goExtractor) extractImports(node *sitter.Node, source []byte, unit *parser.FileUnit) {
	appendSpec := func(spec *sitter.Node) {
		unit.Declares = append(unit.Declares, parser.DeclareStatement{
			Source: nodeText(spec, source),
			Kind:   parser.DeclareUse,
		})
	}
	eachChild(node, func(child *sitter.Node) {
		switch child.Kind() {
		case "import_spec":
			appendSpec(child)
		case "import_spec_list":
			for _, spec := range childrenByKind(child, "import_spec") {
				appendSpec(spec)
			}
		}
	})
}

func (e *goExtractor) extractFunction(node *sitter.Node, source []byte) parser.FunctionUnit {
	name := nodeText(node.ChildByFieldName("name"), source)
	signature, body, hasBody := splitFunction(node, source)
	return parser.FunctionUnit{
		Name:       name,
		Visibility: goVisibility(name),
		Doc:        e.doc(node, source),
		Signature:  signature,
		HasBody:    hasBody,
		Body:       body,
		Source:     nodeText(node, source),
	}
}

// extractMethod returns the bare receiver type name and the method unit.
func (e *goExtractor) extractMethod(node *sitter.Node, source []byte) (string, parser.FunctionUnit) {
	method := e.extractFunction(node, source)

	receiver := node.ChildByFieldName("receiver")
	if receiver == nil {
		return "", method
	}
	decl := childByKind(receiver, "parameter_declaration")
	if decl == nil {
		return "", method
	}
	typeNode := decl.ChildByFieldName("type")
	typeName := strings.TrimPrefix(nodeText(typeNode, source), "*")
	if idx := strings.IndexAny(typeName, "["); idx >= 0 {
		typeName = typeName[:idx]
	}
	return typeName, method
}

func (e *goExtractor) extractTypes(node *sitter.Node, source []byte, unit *parser.FileUnit) {
	doc := e.doc(node, source)
	for _, spec := range childrenByKind(node, "type_spec") {
		name := nodeText(spec.ChildByFieldName("name"), source)
		typeNode := spec.ChildByFieldName("type")
		if typeNode == nil {
			continue
		}
		src := nodeText(node, source)
		head := "type " + name
		switch typeNode.Kind() {
		case "struct_type":
			unit.Structs = append(unit.Structs, parser.StructUnit{
				Name:       name,
				Head:       head + " struct",
				Visibility: goVisibility(name),
				Doc:        doc,
				Fields:     e.extractStructFields(typeNode, source),
				Source:     src,
			})
		case "interface_type":
			unit.Traits = append(unit.Traits, parser.TraitUnit{
				Name:       name,
				Head:       head + " interface",
				Visibility: goVisibility(name),
				Doc:        doc,
				Methods:    e.extractInterfaceMethods(typeNode, source),
				Source:     src,
			})
		default:
			// type aliases and named types stay declares
			unit.Declares = append(unit.Declares, parser.DeclareStatement{
				Source: src,
				Kind:   parser.DeclareOther,
				Raw:    "type",
			})
		}
	}
}

func (e *goExtractor) extractStructFields(structType *sitter.Node, source []byte) []parser.FieldUnit {
	var fields []parser.FieldUnit
	list := childByKind(structType, "field_declaration_list")
	eachChild(list, func(field *sitter.Node) {
		if field.Kind() != "field_declaration" {
			return
		}
		name := nodeText(field.ChildByFieldName("name"), source)
		fields = append(fields, parser.FieldUnit{
			Name:   name,
			Doc:    e.doc(field, source),
			Source: nodeText(field, source),
		})
	})
	return fields
}

func (e *goExtractor) extractInterfaceMethods(ifaceType *sitter.Node, source []byte) []parser.FunctionUnit {
	var methods []parser.FunctionUnit
	eachChild(ifaceType, func(member *sitter.Node) {
		if member.Kind() != "method_elem" {
			return
		}
		name := nodeText(member.ChildByFieldName("name"), source)
		methods = append(methods, parser.FunctionUnit{
			Name:       name,
			Visibility: parser.VisPublic,
			Doc:        e.doc(member, source),
			Signature:  strings.TrimSpace(nodeText(member, source)),
			Source:     nodeText(member, source),
		})
	})
	return methods
}

func (e *goExtractor) extractValueSpecs(node *sitter.Node, source []byte, unit *parser.FileUnit) {
	raw := "var"
	if node.Kind() == "const_declaration" {
		raw = "const"
	}
	appendSpec := func(spec *sitter.Node) {
		unit.Declares = append(unit.Declares, parser.DeclareStatement{
			Source: nodeText(spec, source),
			Kind:   parser.DeclareOther,
			Raw:    raw,
		})
	}
	eachChild(node, func(child *sitter.Node) {
		switch child.Kind() {
		case "const_spec", "var_spec":
			appendSpec(child)
		case "const_spec_list", "var_spec_list":
			eachChild(child, func(inner *sitter.Node) {
				if inner.Kind() == "const_spec" || inner.Kind() == "var_spec" {
					appendSpec(inner)
				}
			})
		}
	})
}

// doc collects the contiguous // comment block immediately above a node.
func (e *goExtractor) doc(node *sitter.Node, source []byte) string {
	raw := lineComments(node, source, []string{"comment"}, nil)
	return cleanDocLines(raw, false)
}

// goVisibility applies the exported-identifier rule.
func goVisibility(name string) parser.Visibility {
	if name == "" {
		return parser.VisPrivate
	}
	if unicode.IsUpper([]rune(name)[0]) {
		return parser.VisPublic
	}
	return parser.VisPrivate
}
