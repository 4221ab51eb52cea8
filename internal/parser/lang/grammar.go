package lang

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/tyrchen/codebank/internal/parser"
)

// Extractor turns a source file into IR. Implementations are safe to reuse
// across many files within a single invocation, but not across goroutines.
type Extractor interface {
	Extract(path string, source []byte) (*parser.FileUnit, error)
	Language() parser.Language
}

// ForLanguage returns the extractor for a language. The set of extractors is
// fixed; asking for an unsupported language is a programmer error.
func ForLanguage(l parser.Language) (Extractor, error) {
	switch l {
	case parser.LangRust:
		return NewRustExtractor(), nil
	case parser.LangPython:
		return NewPythonExtractor(), nil
	case parser.LangTypeScript, parser.LangJavaScript:
		return NewTypeScriptExtractor(l), nil
	case parser.LangGo:
		return NewGoExtractor(), nil
	case parser.LangC:
		return NewCExtractor(), nil
	case parser.LangCpp:
		return NewCppExtractor(), nil
	default:
		return nil, fmt.Errorf("%w: %v", parser.ErrUnsupportedLanguage, l)
	}
}

// grammar binds a tree-sitter language to the parser engine. It is the only
// place that names the underlying engine.
type grammar struct {
	language *sitter.Language
	lang     parser.Language
}

func newGrammar(language *sitter.Language, lang parser.Language) *grammar {
	return &grammar{language: language, lang: lang}
}

func (g *grammar) Language() parser.Language { return g.lang }

// parse runs the incremental parser over a source buffer. A syntactically
// malformed input still yields a tree; only engine-level failures error.
func (g *grammar) parse(source []byte) (*sitter.Tree, error) {
	p := sitter.NewParser()
	defer p.Close()

	if err := p.SetLanguage(g.language); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", parser.ErrParseInit, g.lang, err)
	}

	tree := p.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("%w: %s", parser.ErrParseInit, g.lang)
	}
	return tree, nil
}

// normalizeSource strips a UTF-8 BOM and converts CRLF to LF. Invalid UTF-8
// is rejected before any parsing happens.
func normalizeSource(source []byte) ([]byte, error) {
	source = bytes.TrimPrefix(source, []byte{0xEF, 0xBB, 0xBF})
	source = bytes.ReplaceAll(source, []byte("\r\n"), []byte("\n"))
	if !utf8.Valid(source) {
		return nil, parser.ErrEncoding
	}
	return source, nil
}

// nodeText extracts the verbatim text of a node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// childByKind finds the first child node with the given kind.
func childByKind(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// childrenByKind finds all child nodes with the given kind.
func childrenByKind(node *sitter.Node, kind string) []*sitter.Node {
	var results []*sitter.Node
	if node == nil {
		return results
	}
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Kind() == kind {
			results = append(results, child)
		}
	}
	return results
}

// eachChild calls fn for every direct child of node.
func eachChild(node *sitter.Node, fn func(*sitter.Node)) {
	if node == nil {
		return
	}
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		fn(node.Child(i))
	}
}

// splitFunction splits a function node into signature and body using the
// body field. For brace languages the split point is the opening brace; the
// signature is everything before it.
func splitFunction(node *sitter.Node, source []byte) (signature, body string, hasBody bool) {
	bodyNode := node.ChildByFieldName("body")
	if bodyNode == nil {
		return strings.TrimSpace(nodeText(node, source)), "", false
	}
	sigEnd := bodyNode.StartByte()
	sigStart := node.StartByte()
	if sigEnd > sigStart {
		signature = strings.TrimSpace(string(source[sigStart:sigEnd]))
	}
	return signature, nodeText(bodyNode, source), true
}

// lineComments walks contiguous preceding comment siblings and returns their
// raw text in source order. Attribute-like siblings (per skipKinds) do not
// break the run; a non-comment, non-attribute sibling or a blank line does.
func lineComments(node *sitter.Node, source []byte, commentKinds, skipKinds []string) []string {
	var comments []string
	current := node
	for {
		prev := current.PrevSibling()
		if prev == nil {
			break
		}
		if prev.EndPosition().Row+1 < current.StartPosition().Row {
			// a whitespace-only line detaches the comment block
			break
		}
		kind := prev.Kind()
		switch {
		case contains(commentKinds, kind):
			comments = append([]string{nodeText(prev, source)}, comments...)
		case contains(skipKinds, kind):
			// attributes between the doc block and the item do not
			// detach the doc
		default:
			return comments
		}
		current = prev
	}
	return comments
}

func contains(kinds []string, kind string) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// cleanDocLines strips comment markers from a run of raw comment texts and
// joins the surviving documentation lines. Non-doc comments yield nothing
// when requireDocMarker is set.
func cleanDocLines(raw []string, requireDocMarker bool) string {
	var lines []string
	for _, comment := range raw {
		switch {
		case strings.HasPrefix(comment, "///"):
			lines = append(lines, strings.TrimSpace(strings.TrimPrefix(comment, "///")))
		case strings.HasPrefix(comment, "//!"):
			lines = append(lines, strings.TrimSpace(strings.TrimPrefix(comment, "//!")))
		case strings.HasPrefix(comment, "/**"):
			lines = append(lines, cleanBlockComment(comment)...)
		case strings.HasPrefix(comment, "/*"):
			if !requireDocMarker {
				lines = append(lines, cleanBlockComment(comment)...)
			}
		case strings.HasPrefix(comment, "//"):
			if !requireDocMarker {
				lines = append(lines, strings.TrimSpace(strings.TrimPrefix(comment, "//")))
			}
		}
	}
	return strings.Join(lines, "\n")
}

// cleanBlockComment strips the comment frame from a /* ... */ block.
func cleanBlockComment(comment string) []string {
	body := strings.TrimSuffix(comment, "*/")
	body = strings.TrimPrefix(body, "/**")
	body = strings.TrimPrefix(body, "/*!")
	body = strings.TrimPrefix(body, "/*")
	var lines []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
