package lang

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/tyrchen/codebank/internal/parser"
)

// pythonExtractor extracts Python files. Each file is the module; nested
// classes stay StructUnits and never become submodules.
type pythonExtractor struct {
	*grammar
}

// NewPythonExtractor creates a new Python extractor.
func NewPythonExtractor() Extractor {
	language := sitter.NewLanguage(python.Language())
	return &pythonExtractor{grammar: newGrammar(language, parser.LangPython)}
}

// Extract parses a Python source file into a FileUnit.
func (e *pythonExtractor) Extract(path string, source []byte) (*parser.FileUnit, error) {
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
	unit.Doc = e.moduleDocstring(root, source)

	eachChild(root, func(child *sitter.Node) {
		switch child.Kind() {
		case "import_statement", "import_from_statement":
			unit.Declares = append(unit.Declares, parser.DeclareStatement{
				Source: nodeText(child, source),
				Kind:   parser.DeclareImport,
			})
		case "function_definition":
			unit.Functions = append(unit.Functions, e.extractFunction(child, source, nil))
		case "class_definition":
			unit.Structs = append(unit.Structs, e.extractClass(child, source, nil))
		case "decorated_definition":
			e.extractDecorated(child, source, unit)
		}
	})

	return unit, nil
}

// extractDecorated dispatches a decorated definition to the function or
// class path, carrying the decorators along as attributes.
func (e *pythonExtractor) extractDecorated(node *sitter.Node, source []byte, unit *parser.FileUnit) {
	decorators := e.decorators(node, source)
	if fn := childByKind(node, "function_definition"); fn != nil {
		unit.Functions = append(unit.Functions, e.extractFunction(fn, source, decorators))
		return
	}
	if class := childByKind(node, "class_definition"); class != nil {
		unit.Structs = append(unit.Structs, e.extractClass(class, source, decorators))
	}
}

func (e *pythonExtractor) extractFunction(node *sitter.Node, source []byte, decorators []string) parser.FunctionUnit {
	name := nodeText(node.ChildByFieldName("name"), source)
	signature, body, hasBody := e.splitHeader(node, source)
	return parser.FunctionUnit{
		Name:       name,
		Visibility: pythonVisibility(name),
		Attributes: decorators,
		Doc:        e.docstring(node, source),
		Signature:  signature,
		HasBody:    hasBody,
		Body:       body,
		Source:     e.sourceWithDecorators(node, source, decorators),
	}
}

func (e *pythonExtractor) extractClass(node *sitter.Node, source []byte, decorators []string) parser.StructUnit {
	name := nodeText(node.ChildByFieldName("name"), source)
	unit := parser.StructUnit{
		Name:       name,
		Head:       e.classHead(node, source),
		Visibility: pythonVisibility(name),
		Attributes: decorators,
		Doc:        e.docstring(node, source),
		Source:     e.sourceWithDecorators(node, source, decorators),
	}
	if body := node.ChildByFieldName("body"); body != nil {
		eachChild(body, func(member *sitter.Node) {
			switch member.Kind() {
			case "function_definition":
				unit.Methods = append(unit.Methods, e.extractFunction(member, source, nil))
			case "decorated_definition":
				if fn := childByKind(member, "function_definition"); fn != nil {
					unit.Methods = append(unit.Methods, e.extractFunction(fn, source, e.decorators(member, source)))
				}
			}
		})
	}
	return unit
}

// splitHeader splits a def at the colon terminating the header line: the
// signature keeps the colon, the body is the indented block.
func (e *pythonExtractor) splitHeader(node *sitter.Node, source []byte) (signature, body string, hasBody bool) {
	bodyNode := node.ChildByFieldName("body")
	if bodyNode == nil {
		return strings.TrimSpace(nodeText(node, source)), "", false
	}
	header := strings.TrimSpace(string(source[node.StartByte():bodyNode.StartByte()]))
	return header, nodeText(bodyNode, source), true
}

func (e *pythonExtractor) classHead(node *sitter.Node, source []byte) string {
	head, _, _ := e.splitHeader(node, source)
	return strings.TrimSuffix(head, ":")
}

// decorators collects decorator children of a decorated_definition.
func (e *pythonExtractor) decorators(node *sitter.Node, source []byte) []string {
	var decorators []string
	for _, d := range childrenByKind(node, "decorator") {
		decorators = append(decorators, nodeText(d, source))
	}
	return decorators
}

// docstring returns the cleaned string literal placed as the first statement
// of a function or class body.
func (e *pythonExtractor) docstring(node *sitter.Node, source []byte) string {
	body := node.ChildByFieldName("body")
	if body == nil || body.ChildCount() == 0 {
		return ""
	}
	return e.firstStatementString(body, source)
}

// moduleDocstring returns the cleaned string literal opening the module.
func (e *pythonExtractor) moduleDocstring(root *sitter.Node, source []byte) string {
	return e.firstStatementString(root, source)
}

func (e *pythonExtractor) firstStatementString(scope *sitter.Node, source []byte) string {
	first := scope.Child(0)
	if first == nil || first.Kind() != "expression_statement" {
		return ""
	}
	str := childByKind(first, "string")
	if str == nil {
		return ""
	}
	return cleanPythonDocstring(nodeText(str, source))
}

// cleanPythonDocstring strips triple-quote markers and trims each line.
func cleanPythonDocstring(doc string) string {
	for _, quote := range []string{`"""`, "'''"} {
		if strings.HasPrefix(doc, quote) && strings.HasSuffix(doc, quote) && len(doc) >= 2*len(quote) {
			doc = strings.TrimSuffix(strings.TrimPrefix(doc, quote), quote)
			break
		}
	}
	var lines []string
	for _, line := range strings.Split(doc, "\n") {
		lines = append(lines, strings.TrimSpace(line))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// sourceWithDecorators prepends decorator lines so the verbatim span covers
// the whole decorated definition.
func (e *pythonExtractor) sourceWithDecorators(node *sitter.Node, source []byte, decorators []string) string {
	src := nodeText(node, source)
	if len(decorators) == 0 {
		return src
	}
	return strings.Join(decorators, "\n") + "\n" + src
}

// pythonVisibility applies the underscore convention: a single leading
// underscore is private, dunder names are public.
func pythonVisibility(name string) parser.Visibility {
	if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") {
		return parser.VisPublic
	}
	if strings.HasPrefix(name, "_") {
		return parser.VisPrivate
	}
	return parser.VisPublic
}
