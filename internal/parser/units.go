package parser

import "strings"

// VisibilityKind classifies how widely a unit is accessible.
type VisibilityKind int

const (
	Public VisibilityKind = iota
	Private
	Protected
	Restricted
)

// Visibility is the visibility of a unit. Restricted carries the raw
// source-level qualifier (e.g. "pub(crate)", "pub(super)").
type Visibility struct {
	Kind  VisibilityKind
	Scope string
}

var (
	VisPublic    = Visibility{Kind: Public}
	VisPrivate   = Visibility{Kind: Private}
	VisProtected = Visibility{Kind: Protected}
)

// VisRestricted builds a Restricted visibility carrying the raw qualifier.
func VisRestricted(scope string) Visibility {
	return Visibility{Kind: Restricted, Scope: scope}
}

// IsPublic reports whether the unit is part of the public interface.
func (v Visibility) IsPublic() bool { return v.Kind == Public }

// Qualifier returns the source-level visibility prefix for the language,
// empty when the language has no spelled-out qualifier for it.
func (v Visibility) Qualifier(lang Language) string {
	switch lang {
	case LangRust:
		switch v.Kind {
		case Public:
			return "pub"
		case Restricted:
			return v.Scope
		}
	case LangTypeScript, LangJavaScript:
		switch v.Kind {
		case Private:
			return "private"
		case Protected:
			return "protected"
		}
	}
	return ""
}

// DeclareKind tags import-like statements.
type DeclareKind int

const (
	DeclareImport DeclareKind = iota
	DeclareUse
	DeclareMod
	DeclareOther
)

// DeclareStatement is an import-like statement attached to a file or module.
type DeclareStatement struct {
	Source string
	Kind   DeclareKind
	// Raw holds the raw kind string for DeclareOther (e.g. "extern_crate",
	// "namespace", "const").
	Raw string
}

// FileUnit is the root of the IR for one source file.
type FileUnit struct {
	Path      string
	Doc       string
	Declares  []DeclareStatement
	Modules   []ModuleUnit
	Functions []FunctionUnit
	Structs   []StructUnit
	Traits    []TraitUnit
	Impls     []ImplUnit
	Source    string
}

// ModuleUnit is a named module or namespace with nested items.
type ModuleUnit struct {
	Name       string
	Visibility Visibility
	Attributes []string
	Doc        string
	Declares   []DeclareStatement
	Functions  []FunctionUnit
	Structs    []StructUnit
	Traits     []TraitUnit
	Impls      []ImplUnit
	Submodules []ModuleUnit
	Source     string
}

// FunctionUnit is a free function or a method. Signature never contains the
// body; Body never contains the signature. Source is the verbatim span.
type FunctionUnit struct {
	Name       string
	Visibility Visibility
	Attributes []string
	Doc        string
	Signature  string
	// HasBody distinguishes an empty body from an absent one (abstract
	// methods, interface declarations).
	HasBody bool
	Body    string
	Source  string
}

// FieldUnit is a struct field or an enum variant.
type FieldUnit struct {
	Name       string
	Doc        string
	Attributes []string
	Source     string
}

// StructUnit is a struct, class, or enum. Head is the declaration text up to
// the body delimiter (e.g. "pub struct Foo<T>").
type StructUnit struct {
	Name       string
	Head       string
	Visibility Visibility
	Attributes []string
	Doc        string
	Fields     []FieldUnit
	Methods    []FunctionUnit
	Source     string
}

// IsEnum reports whether the unit was declared as an enum.
func (s *StructUnit) IsEnum() bool {
	return containsWord(s.Head, "enum")
}

// TraitUnit is a trait, interface, or pure-abstract class.
type TraitUnit struct {
	Name       string
	Head       string
	Visibility Visibility
	Attributes []string
	Doc        string
	Methods    []FunctionUnit
	Source     string
}

// ImplUnit is an implementation block. Head reads "impl Foo" or
// "impl Trait for Foo" (Rust) or "methods for Foo" (Go receivers).
type ImplUnit struct {
	Head       string
	Attributes []string
	Doc        string
	Methods    []FunctionUnit
	Source     string
}

// IsTraitImpl reports whether the block implements a named trait. Receiver
// method views ("methods for T") are inherent, not trait impls.
func (i *ImplUnit) IsTraitImpl() bool {
	return strings.HasPrefix(i.Head, "impl") && containsWord(i.Head, "for")
}

func containsWord(s, word string) bool {
	for i := 0; i+len(word) <= len(s); i++ {
		if s[i:i+len(word)] != word {
			continue
		}
		beforeOK := i == 0 || s[i-1] == ' '
		afterOK := i+len(word) == len(s) || s[i+len(word)] == ' '
		if beforeOK && afterOK {
			return true
		}
	}
	return false
}

// NewFileUnit creates an empty FileUnit for the given path.
func NewFileUnit(path string) *FileUnit {
	return &FileUnit{Path: path}
}
