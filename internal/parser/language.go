package parser

import "path/filepath"

// Language identifies a supported source language.
type Language int

const (
	LangUnknown Language = iota
	LangRust
	LangPython
	LangTypeScript
	LangJavaScript
	LangGo
	LangC
	LangCpp
)

// String returns the canonical lowercase name, which doubles as the
// markdown fence tag for the language.
func (l Language) String() string {
	switch l {
	case LangRust:
		return "rust"
	case LangPython:
		return "python"
	case LangTypeScript:
		return "typescript"
	case LangJavaScript:
		return "javascript"
	case LangGo:
		return "go"
	case LangC:
		return "c"
	case LangCpp:
		return "cpp"
	default:
		return ""
	}
}

// DetectLanguage maps a file path to its language by extension. Unknown
// extensions return LangUnknown and are skipped by the orchestrator.
func DetectLanguage(path string) Language {
	switch filepath.Ext(path) {
	case ".rs":
		return LangRust
	case ".py":
		return LangPython
	case ".ts", ".tsx":
		return LangTypeScript
	case ".js", ".jsx":
		return LangJavaScript
	case ".go":
		return LangGo
	case ".c", ".h":
		return LangC
	case ".cpp", ".hpp", ".cc", ".hh":
		return LangCpp
	default:
		return LangUnknown
	}
}

// Strategy controls how units are rendered.
type Strategy int

const (
	// Default emits every unit's original source verbatim.
	Default Strategy = iota
	// NoTests emits everything except units identified as tests.
	NoTests
	// Summary emits public interfaces only, with placeholder bodies.
	Summary
)

func (s Strategy) String() string {
	switch s {
	case NoTests:
		return "no-tests"
	case Summary:
		return "summary"
	default:
		return "default"
	}
}

// ParseStrategy converts the CLI/tool-server spelling of a strategy.
func ParseStrategy(s string) (Strategy, bool) {
	switch s {
	case "default":
		return Default, true
	case "no-tests":
		return NoTests, true
	case "summary":
		return Summary, true
	default:
		return Default, false
	}
}
