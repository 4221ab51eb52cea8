package formatter

import (
	"strings"
	"unicode"

	"github.com/tyrchen/codebank/internal/parser"
)

// Rules carries the per-language rendering and test-detection tables. The
// tables are plain data, compiled into the binary; one instance serves every
// file of its language.
type Rules struct {
	// SummaryEllipsis is the placeholder body under Summary.
	SummaryEllipsis string
	// BodyOpen and BodyClose delimit reconstructed bodies.
	BodyOpen  string
	BodyClose string
	// DocMarker prefixes re-emitted documentation lines.
	DocMarker string
	// AttrsInSource reports whether a unit's Source span already covers
	// its attributes (decorators); when set, renderers must not print the
	// attributes a second time.
	AttrsInSource bool

	testAttrMarkers  []string
	testNamePrefixes []string
	testModuleNames  []string
	testStructPrefix string
	// testsNeedTestFile requires the file path to end in _test.go (Go).
	testsNeedTestFile bool
}

var rustRules = Rules{
	SummaryEllipsis: " { ... }",
	BodyOpen:        " {",
	BodyClose:       "}",
	DocMarker:       "///",
	testAttrMarkers: []string{"test"},
	testModuleNames: []string{"tests"},
}

var pythonRules = Rules{
	SummaryEllipsis:  ": ...",
	BodyOpen:         ":",
	BodyClose:        "",
	DocMarker:        "#",
	AttrsInSource:    true,
	testAttrMarkers:  []string{"pytest"},
	testNamePrefixes: []string{"test_"},
	testModuleNames:  []string{"test_"},
	testStructPrefix: "Test",
}

var typeScriptRules = Rules{
	SummaryEllipsis: " { ... }",
	BodyOpen:        " {",
	BodyClose:       "}",
	DocMarker:       "//",
	AttrsInSource:   true,
	testAttrMarkers: []string{"Test"},
}

var goRules = Rules{
	SummaryEllipsis:   " { ... }",
	BodyOpen:          " {",
	BodyClose:         "}",
	DocMarker:         "//",
	AttrsInSource:     true,
	testNamePrefixes:  []string{"Test", "Benchmark", "Example"},
	testsNeedTestFile: true,
}

var cRules = Rules{
	SummaryEllipsis:  " { ... }",
	BodyOpen:         " {",
	BodyClose:        "}",
	DocMarker:        "//",
	AttrsInSource:    true,
	testNamePrefixes: []string{"TEST"},
}

var unknownRules = Rules{
	SummaryEllipsis: "...",
	DocMarker:       "//",
	AttrsInSource:   true,
}

// RulesFor returns the rule table for a language.
func RulesFor(lang parser.Language) Rules {
	switch lang {
	case parser.LangRust:
		return rustRules
	case parser.LangPython:
		return pythonRules
	case parser.LangTypeScript, parser.LangJavaScript:
		return typeScriptRules
	case parser.LangGo:
		return goRules
	case parser.LangC, parser.LangCpp:
		return cRules
	default:
		return unknownRules
	}
}

// IsTestFunction reports whether a function is a test under this language's
// markers. testFile is true when the containing path is a test file
// (only Go cares).
func (r Rules) IsTestFunction(f *parser.FunctionUnit, testFile bool) bool {
	for _, marker := range r.testAttrMarkers {
		for _, attr := range f.Attributes {
			if attrMatches(attr, marker) {
				return true
			}
		}
	}
	if r.testsNeedTestFile && !testFile {
		return false
	}
	for _, prefix := range r.testNamePrefixes {
		if strings.HasPrefix(f.Name, prefix) {
			return true
		}
	}
	return false
}

// IsTestModule reports whether a whole module subtree is test-only.
func (r Rules) IsTestModule(m *parser.ModuleUnit) bool {
	for _, name := range r.testModuleNames {
		if m.Name == name || strings.HasPrefix(m.Name, name) {
			return true
		}
	}
	for _, marker := range r.testAttrMarkers {
		for _, attr := range m.Attributes {
			if attrMatches(attr, marker) {
				return true
			}
		}
	}
	return false
}

// IsTestStruct reports whether a class is a test suite (Python Test*).
func (r Rules) IsTestStruct(s *parser.StructUnit) bool {
	if r.testStructPrefix != "" && strings.HasPrefix(s.Name, r.testStructPrefix) {
		return true
	}
	for _, marker := range r.testAttrMarkers {
		for _, attr := range s.Attributes {
			if attrMatches(attr, marker) {
				return true
			}
		}
	}
	return false
}

// IsTestAttr reports whether a single attribute is a test marker.
func (r Rules) IsTestAttr(attr string) bool {
	for _, marker := range r.testAttrMarkers {
		if attrMatches(attr, marker) {
			return true
		}
	}
	return false
}

// SummarySignature appends the language placeholder body to a signature.
func (r Rules) SummarySignature(signature string) string {
	sig := strings.TrimSpace(signature)
	if r.BodyOpen == ":" {
		sig = strings.TrimSuffix(sig, ":")
	} else if open := strings.TrimSpace(r.BodyOpen); open != "" {
		if idx := strings.Index(sig, open); idx >= 0 {
			sig = strings.TrimSpace(sig[:idx])
		}
	}
	return sig + r.SummaryEllipsis
}

// attrMatches reports whether the marker occurs in the attribute as a whole
// token (so #[tokio::test] matches "test" but #[testing] does not).
func attrMatches(attr, marker string) bool {
	for start := 0; ; {
		idx := strings.Index(attr[start:], marker)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(marker)
		beforeOK := idx == 0 || !isWordByte(attr[idx-1])
		afterOK := end == len(attr) || !isWordByte(attr[end])
		if beforeOK && afterOK {
			return true
		}
		start = idx + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || unicode.IsLetter(rune(b)) || unicode.IsDigit(rune(b))
}
