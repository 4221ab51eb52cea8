package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/tyrchen/codebank/internal/parser"
)

// typeScriptExtractor extracts TypeScript and JavaScript files. JavaScript
// shares the TypeScript AST shape, so one extractor covers both.
type typeScriptExtractor struct {
	*grammar
}

// NewTypeScriptExtractor creates an extractor tagged with the given language
// (LangTypeScript or LangJavaScript).
func NewTypeScriptExtractor(lang parser.Language) Extractor {
	language := sitter.NewLanguage(typescript.LanguageTypescript())
	return &typeScriptExtractor{grammar: newGrammar(language, lang)}
}

// Extract parses a TypeScript source file into a FileUnit.
func (e *typeScriptExtractor) Extract(path string, source []byte) (*parser.FileUnit, error) {
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

	exported := e.collectExportedNames(root, source)

	eachChild(root, func(child *sitter.Node) {
		e.extractStatement(child, source, unit, exported, false)
	})

	return unit, nil
}

// collectExportedNames gathers names from `export { A, B }` and
// `export default X` statements so later declarations resolve visibility.
func (e *typeScriptExtractor) collectExportedNames(root *sitter.Node, source []byte) map[string]bool {
	exported := make(map[string]bool)
	eachChild(root, func(node *sitter.Node) {
		if node.Kind() != "export_statement" {
			return
		}
		if clause := childByKind(node, "export_clause"); clause != nil {
			for _, spec := range childrenByKind(clause, "export_specifier") {
				exported[nodeText(spec.ChildByFieldName("name"), source)] = true
			}
			return
		}
		text := nodeText(node, source)
		if rest, ok := strings.CutPrefix(text, "export default "); ok {
			name := strings.TrimSuffix(strings.TrimSpace(rest), ";")
			if !strings.ContainsAny(name, " ({") {
				exported[name] = true
			}
		}
	})
	return exported
}

func (e *typeScriptExtractor) extractStatement(node *sitter.Node, source []byte, unit *parser.FileUnit, exported map[string]bool, inExport bool) {
	switch node.Kind() {
	case "import_statement":
		unit.Declares = append(unit.Declares, parser.DeclareStatement{
			Source: nodeText(node, source),
			Kind:   parser.DeclareImport,
		})
	case "export_statement":
		if decl := node.ChildByFieldName("declaration"); decl != nil {
			e.extractStatement(decl, source, unit, exported, true)
		} else if childByKind(node, "export_clause") == nil {
			// export * from "x" and friends are re-export declares
			unit.Declares = append(unit.Declares, parser.DeclareStatement{
				Source: nodeText(node, source),
				Kind:   parser.DeclareOther,
				Raw:    "export",
			})
		}
	case "function_declaration", "generator_function_declaration":
		unit.Functions = append(unit.Functions, e.extractFunction(node, source, exported, inExport))
	case "class_declaration":
		unit.Structs = append(unit.Structs, e.extractClass(node, source, exported, inExport))
	case "abstract_class_declaration":
		e.extractAbstractClass(node, source, unit, exported, inExport)
	case "interface_declaration":
		unit.Traits = append(unit.Traits, e.extractInterface(node, source, exported, inExport))
	case "type_alias_declaration":
		e.extractTypeAlias(node, source, unit, exported, inExport)
	case "lexical_declaration", "variable_declaration":
		e.extractVariableFunctions(node, source, unit, exported, inExport)
	case "internal_module", "module":
		if body := childByKind(node, "statement_block"); body != nil {
			unit.Modules = append(unit.Modules, e.extractNamespace(node, body, source, exported, inExport))
		}
	}
}

// extractNamespace handles `namespace X { ... }` and `module X { ... }`.
func (e *typeScriptExtractor) extractNamespace(node, body *sitter.Node, source []byte, exported map[string]bool, inExport bool) parser.ModuleUnit {
	name := nodeText(node.ChildByFieldName("name"), source)
	module := parser.ModuleUnit{
		Name:       name,
		Visibility: e.topLevelVisibility(name, exported, inExport),
		Doc:        e.doc(node, source),
		Source:     nodeText(node, source),
	}
	nested := parser.NewFileUnit("")
	eachChild(body, func(stmt *sitter.Node) {
		e.extractStatement(stmt, source, nested, exported, false)
	})
	module.Declares = nested.Declares
	module.Functions = nested.Functions
	module.Structs = nested.Structs
	module.Traits = nested.Traits
	module.Submodules = nested.Modules
	return module
}

func (e *typeScriptExtractor) extractFunction(node *sitter.Node, source []byte, exported map[string]bool, inExport bool) parser.FunctionUnit {
	name := nodeText(node.ChildByFieldName("name"), source)
	signature, body, hasBody := splitFunction(node, source)
	return parser.FunctionUnit{
		Name:       name,
		Visibility: e.topLevelVisibility(name, exported, inExport),
		Attributes: e.decorators(node, source),
		Doc:        e.doc(node, source),
		Signature:  signature,
		HasBody:    hasBody,
		Body:       body,
		Source:     nodeText(node, source),
	}
}

func (e *typeScriptExtractor) extractClass(node *sitter.Node, source []byte, exported map[string]bool, inExport bool) parser.StructUnit {
	name := nodeText(node.ChildByFieldName("name"), source)
	unit := parser.StructUnit{
		Name:       name,
		Head:       e.itemHead(node, source),
		Visibility: e.topLevelVisibility(name, exported, inExport),
		Attributes: e.decorators(node, source),
		Doc:        e.doc(node, source),
		Source:     nodeText(node, source),
	}
	unit.Methods = e.extractClassMethods(node, source)
	return unit
}

// extractAbstractClass emits a TraitUnit when every method is abstract,
// otherwise a StructUnit whose abstract methods have no body.
func (e *typeScriptExtractor) extractAbstractClass(node *sitter.Node, source []byte, unit *parser.FileUnit, exported map[string]bool, inExport bool) {
	name := nodeText(node.ChildByFieldName("name"), source)
	methods := e.extractClassMethods(node, source)

	allAbstract := true
	for _, m := range methods {
		if m.HasBody {
			allAbstract = false
			break
		}
	}
	if allAbstract && len(methods) > 0 {
		unit.Traits = append(unit.Traits, parser.TraitUnit{
			Name:       name,
			Head:       e.itemHead(node, source),
			Visibility: e.topLevelVisibility(name, exported, inExport),
			Attributes: e.decorators(node, source),
			Doc:        e.doc(node, source),
			Methods:    methods,
			Source:     nodeText(node, source),
		})
		return
	}
	unit.Structs = append(unit.Structs, parser.StructUnit{
		Name:       name,
		Head:       e.itemHead(node, source),
		Visibility: e.topLevelVisibility(name, exported, inExport),
		Attributes: e.decorators(node, source),
		Doc:        e.doc(node, source),
		Methods:    methods,
		Source:     nodeText(node, source),
	})
}

func (e *typeScriptExtractor) extractClassMethods(node *sitter.Node, source []byte) []parser.FunctionUnit {
	var methods []parser.FunctionUnit
	body := node.ChildByFieldName("body")
	eachChild(body, func(member *sitter.Node) {
		switch member.Kind() {
		case "method_definition":
			methods = append(methods, e.extractMethod(member, source))
		case "abstract_method_signature", "method_signature":
			method := e.extractMethod(member, source)
			method.HasBody = false
			method.Body = ""
			methods = append(methods, method)
		}
	})
	return methods
}

func (e *typeScriptExtractor) extractMethod(node *sitter.Node, source []byte) parser.FunctionUnit {
	name := nodeText(node.ChildByFieldName("name"), source)
	signature, body, hasBody := splitFunction(node, source)
	return parser.FunctionUnit{
		Name:       name,
		Visibility: e.memberVisibility(node, source, name),
		Attributes: e.decorators(node, source),
		Doc:        e.doc(node, source),
		Signature:  signature,
		HasBody:    hasBody,
		Body:       body,
		Source:     nodeText(node, source),
	}
}

func (e *typeScriptExtractor) extractInterface(node *sitter.Node, source []byte, exported map[string]bool, inExport bool) parser.TraitUnit {
	name := nodeText(node.ChildByFieldName("name"), source)
	unit := parser.TraitUnit{
		Name:       name,
		Head:       e.itemHead(node, source),
		Visibility: e.topLevelVisibility(name, exported, inExport),
		Doc:        e.doc(node, source),
		Source:     nodeText(node, source),
	}
	if body := node.ChildByFieldName("body"); body != nil {
		eachChild(body, func(member *sitter.Node) {
			if member.Kind() != "method_signature" {
				return
			}
			unit.Methods = append(unit.Methods, parser.FunctionUnit{
				Name:       nodeText(member.ChildByFieldName("name"), source),
				Visibility: parser.VisPublic,
				Doc:        e.doc(member, source),
				Signature:  strings.TrimSuffix(strings.TrimSpace(nodeText(member, source)), ";"),
				Source:     nodeText(member, source),
			})
		})
	}
	return unit
}

// extractTypeAlias records object-shape aliases as TraitUnits; other aliases
// stay declares so the NoTests and Summary renderings keep them.
func (e *typeScriptExtractor) extractTypeAlias(node *sitter.Node, source []byte, unit *parser.FileUnit, exported map[string]bool, inExport bool) {
	name := nodeText(node.ChildByFieldName("name"), source)
	value := node.ChildByFieldName("value")
	if value != nil && value.Kind() == "object_type" {
		unit.Traits = append(unit.Traits, parser.TraitUnit{
			Name:       name,
			Head:       e.itemHead(node, source),
			Visibility: e.topLevelVisibility(name, exported, inExport),
			Doc:        e.doc(node, source),
			Source:     nodeText(node, source),
		})
		return
	}
	unit.Declares = append(unit.Declares, parser.DeclareStatement{
		Source: nodeText(node, source),
		Kind:   parser.DeclareOther,
		Raw:    "type",
	})
}

// extractVariableFunctions lifts arrow-function and function-expression
// consts into FunctionUnits so summaries can surface them.
func (e *typeScriptExtractor) extractVariableFunctions(node *sitter.Node, source []byte, unit *parser.FileUnit, exported map[string]bool, inExport bool) {
	for _, decl := range childrenByKind(node, "variable_declarator") {
		value := decl.ChildByFieldName("value")
		if value == nil {
			continue
		}
		kind := value.Kind()
		if kind != "arrow_function" && kind != "function_expression" {
			continue
		}
		name := nodeText(decl.ChildByFieldName("name"), source)
		signature, body, hasBody := splitFunction(value, source)
		if signature != "" {
			signature = "const " + name + " = " + signature
		}
		unit.Functions = append(unit.Functions, parser.FunctionUnit{
			Name:       name,
			Visibility: e.topLevelVisibility(name, exported, inExport),
			Doc:        e.doc(node, source),
			Signature:  signature,
			HasBody:    hasBody,
			Body:       body,
			Source:     nodeText(node, source),
		})
	}
}

// topLevelVisibility resolves the export rules: exported names are public,
// everything else at the top level is private.
func (e *typeScriptExtractor) topLevelVisibility(name string, exported map[string]bool, inExport bool) parser.Visibility {
	if inExport || exported[name] {
		return parser.VisPublic
	}
	return parser.VisPrivate
}

// memberVisibility resolves class-member accessibility modifiers; members
// default to public.
func (e *typeScriptExtractor) memberVisibility(node *sitter.Node, source []byte, name string) parser.Visibility {
	if mod := childByKind(node, "accessibility_modifier"); mod != nil {
		switch nodeText(mod, source) {
		case "private":
			return parser.VisPrivate
		case "protected":
			return parser.VisProtected
		}
	}
	if strings.HasPrefix(name, "_") {
		return parser.VisPrivate
	}
	return parser.VisPublic
}

func (e *typeScriptExtractor) itemHead(node *sitter.Node, source []byte) string {
	src := nodeText(node, source)
	if idx := strings.Index(src, "{"); idx >= 0 {
		return strings.TrimSpace(src[:idx])
	}
	return strings.TrimSpace(src)
}

// decorators collects decorator siblings and children preceding an item.
func (e *typeScriptExtractor) decorators(node *sitter.Node, source []byte) []string {
	var decorators []string
	for _, d := range childrenByKind(node, "decorator") {
		decorators = append(decorators, nodeText(d, source))
	}
	current := node
	for {
		prev := current.PrevSibling()
		if prev == nil || prev.Kind() != "decorator" {
			break
		}
		decorators = append([]string{nodeText(prev, source)}, decorators...)
		current = prev
	}
	return decorators
}

// doc collects the comment block immediately preceding an item; a node
// wrapped in an export statement looks above the export as well.
func (e *typeScriptExtractor) doc(node *sitter.Node, source []byte) string {
	raw := lineComments(node, source, []string{"comment"}, []string{"decorator"})
	if len(raw) == 0 {
		if p := node.Parent(); p != nil && p.Kind() == "export_statement" {
			raw = lineComments(p, source, []string{"comment"}, nil)
		}
	}
	return cleanDocLines(raw, false)
}
