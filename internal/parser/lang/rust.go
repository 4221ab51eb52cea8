package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"

	"github.com/tyrchen/codebank/internal/parser"
)

// rustExtractor extracts Rust files.
type rustExtractor struct {
	*grammar
}

// NewRustExtractor creates a new Rust extractor.
func NewRustExtractor() Extractor {
	language := sitter.NewLanguage(rust.Language())
	return &rustExtractor{grammar: newGrammar(language, parser.LangRust)}
}

// Extract parses a Rust source file into a FileUnit.
func (e *rustExtractor) Extract(path string, source []byte) (*parser.FileUnit, error) {
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
	unit.Doc = e.innerDoc(root, source)

	eachChild(root, func(child *sitter.Node) {
		e.extractItem(child, source, &itemSink{
			declares:  &unit.Declares,
			modules:   &unit.Modules,
			functions: &unit.Functions,
			structs:   &unit.Structs,
			traits:    &unit.Traits,
			impls:     &unit.Impls,
		})
	})

	return unit, nil
}

// itemSink collects the items of one scope (a file or a module body).
type itemSink struct {
	declares  *[]parser.DeclareStatement
	modules   *[]parser.ModuleUnit
	functions *[]parser.FunctionUnit
	structs   *[]parser.StructUnit
	traits    *[]parser.TraitUnit
	impls     *[]parser.ImplUnit
}

func (e *rustExtractor) extractItem(node *sitter.Node, source []byte, sink *itemSink) {
	switch node.Kind() {
	case "function_item":
		*sink.functions = append(*sink.functions, e.extractFunction(node, source))
	case "struct_item":
		*sink.structs = append(*sink.structs, e.extractStruct(node, source, "struct"))
	case "enum_item":
		*sink.structs = append(*sink.structs, e.extractStruct(node, source, "enum"))
	case "trait_item":
		*sink.traits = append(*sink.traits, e.extractTrait(node, source))
	case "impl_item":
		*sink.impls = append(*sink.impls, e.extractImpl(node, source))
	case "mod_item":
		if body := childByKind(node, "declaration_list"); body != nil {
			*sink.modules = append(*sink.modules, e.extractModule(node, body, source))
		} else {
			// mod foo; declares an out-of-line module
			*sink.declares = append(*sink.declares, parser.DeclareStatement{
				Source: nodeText(node, source),
				Kind:   parser.DeclareMod,
			})
		}
	case "use_declaration":
		*sink.declares = append(*sink.declares, parser.DeclareStatement{
			Source: nodeText(node, source),
			Kind:   parser.DeclareUse,
		})
	case "extern_crate_declaration":
		*sink.declares = append(*sink.declares, parser.DeclareStatement{
			Source: nodeText(node, source),
			Kind:   parser.DeclareOther,
			Raw:    "extern_crate",
		})
	}
}

func (e *rustExtractor) extractModule(node, body *sitter.Node, source []byte) parser.ModuleUnit {
	module := parser.ModuleUnit{
		Name:       nodeText(node.ChildByFieldName("name"), source),
		Visibility: e.visibility(node, source),
		Attributes: e.attributes(node, source),
		Doc:        e.outerDoc(node, source),
		Source:     nodeText(node, source),
	}

	eachChild(body, func(item *sitter.Node) {
		e.extractItem(item, source, &itemSink{
			declares:  &module.Declares,
			modules:   &module.Submodules,
			functions: &module.Functions,
			structs:   &module.Structs,
			traits:    &module.Traits,
			impls:     &module.Impls,
		})
	})
	return module
}

func (e *rustExtractor) extractFunction(node *sitter.Node, source []byte) parser.FunctionUnit {
	signature, body, hasBody := splitFunction(node, source)
	return parser.FunctionUnit{
		Name:       nodeText(node.ChildByFieldName("name"), source),
		Visibility: e.visibility(node, source),
		Attributes: e.attributes(node, source),
		Doc:        e.outerDoc(node, source),
		Signature:  signature,
		HasBody:    hasBody,
		Body:       body,
		Source:     nodeText(node, source),
	}
}

func (e *rustExtractor) extractStruct(node *sitter.Node, source []byte, keyword string) parser.StructUnit {
	unit := parser.StructUnit{
		Name:       nodeText(node.ChildByFieldName("name"), source),
		Head:       e.itemHead(node, source),
		Visibility: e.visibility(node, source),
		Attributes: e.attributes(node, source),
		Doc:        e.outerDoc(node, source),
		Source:     nodeText(node, source),
	}

	var fieldKind, listKind string
	if keyword == "enum" {
		fieldKind, listKind = "enum_variant", "enum_variant_list"
	} else {
		fieldKind, listKind = "field_declaration", "field_declaration_list"
	}
	if list := childByKind(node, listKind); list != nil {
		eachChild(list, func(field *sitter.Node) {
			if field.Kind() != fieldKind {
				return
			}
			src := strings.TrimSuffix(nodeText(field, source), ",")
			name := nodeText(field.ChildByFieldName("name"), source)
			unit.Fields = append(unit.Fields, parser.FieldUnit{
				Name:       name,
				Doc:        e.outerDoc(field, source),
				Attributes: e.attributes(field, source),
				Source:     src,
			})
		})
	}
	return unit
}

func (e *rustExtractor) extractTrait(node *sitter.Node, source []byte) parser.TraitUnit {
	unit := parser.TraitUnit{
		Name:       nodeText(node.ChildByFieldName("name"), source),
		Head:       e.itemHead(node, source),
		Visibility: e.visibility(node, source),
		Attributes: e.attributes(node, source),
		Doc:        e.outerDoc(node, source),
		Source:     nodeText(node, source),
	}
	if body := node.ChildByFieldName("body"); body != nil {
		eachChild(body, func(item *sitter.Node) {
			kind := item.Kind()
			if kind == "function_item" || kind == "function_signature_item" {
				method := e.extractFunction(item, source)
				// trait methods are part of the trait's public surface
				method.Visibility = parser.VisPublic
				unit.Methods = append(unit.Methods, method)
			}
		})
	}
	return unit
}

func (e *rustExtractor) extractImpl(node *sitter.Node, source []byte) parser.ImplUnit {
	unit := parser.ImplUnit{
		Head:       e.itemHead(node, source),
		Attributes: e.attributes(node, source),
		Doc:        e.outerDoc(node, source),
		Source:     nodeText(node, source),
	}
	isTraitImpl := node.ChildByFieldName("trait") != nil
	if body := node.ChildByFieldName("body"); body != nil {
		eachChild(body, func(item *sitter.Node) {
			if item.Kind() != "function_item" {
				return
			}
			method := e.extractFunction(item, source)
			if isTraitImpl {
				method.Visibility = parser.VisPublic
			}
			unit.Methods = append(unit.Methods, method)
		})
	}
	return unit
}

// itemHead returns the declaration text up to the body brace, or the whole
// declaration for bodyless items such as unit structs.
func (e *rustExtractor) itemHead(node *sitter.Node, source []byte) string {
	src := nodeText(node, source)
	if idx := strings.Index(src, "{"); idx >= 0 {
		return strings.TrimSpace(src[:idx])
	}
	return strings.TrimSpace(src)
}

// visibility reads the visibility_modifier child of an item.
func (e *rustExtractor) visibility(node *sitter.Node, source []byte) parser.Visibility {
	vis := childByKind(node, "visibility_modifier")
	if vis == nil {
		return parser.VisPrivate
	}
	text := nodeText(vis, source)
	switch {
	case text == "pub":
		return parser.VisPublic
	case strings.HasPrefix(text, "pub("):
		return parser.VisRestricted(text)
	default:
		return parser.VisPrivate
	}
}

// attributes collects the attribute_item siblings immediately preceding an
// item, in source order. Doc comments between attributes do not break the
// run.
func (e *rustExtractor) attributes(node *sitter.Node, source []byte) []string {
	var attrs []string
	current := node
	for {
		prev := current.PrevSibling()
		if prev == nil {
			break
		}
		switch prev.Kind() {
		case "attribute_item":
			attrs = append([]string{nodeText(prev, source)}, attrs...)
		case "line_comment", "block_comment":
			// keep scanning past interleaved comments
		default:
			return attrs
		}
		current = prev
	}
	return attrs
}

// outerDoc collects the /// and /** */ doc block immediately preceding an
// item. Attribute lines between the doc and the item do not detach it.
func (e *rustExtractor) outerDoc(node *sitter.Node, source []byte) string {
	raw := lineComments(node, source,
		[]string{"line_comment", "block_comment"},
		[]string{"attribute_item"})
	return cleanDocLines(raw, true)
}

// innerDoc collects the //! and /*! comments at the very top of the file.
func (e *rustExtractor) innerDoc(root *sitter.Node, source []byte) string {
	var lines []string
	for i := uint(0); i < uint(root.ChildCount()); i++ {
		child := root.Child(i)
		kind := child.Kind()
		if kind != "line_comment" && kind != "block_comment" {
			break
		}
		text := nodeText(child, source)
		switch {
		case strings.HasPrefix(text, "//!"):
			lines = append(lines, strings.TrimSpace(strings.TrimPrefix(text, "//!")))
		case strings.HasPrefix(text, "/*!"):
			lines = append(lines, cleanBlockComment(text)...)
		}
	}
	return strings.Join(lines, "\n")
}
