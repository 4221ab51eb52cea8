package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tyrchen/codebank/internal/parser"
)

// Test Plan for the strategy formatter:
// - Default returns the file source byte for byte
// - Summary keeps public functions with placeholder bodies, drops private
// - NoTests drops test functions/modules, keeps public and private code
// - Impl blocks with no surviving methods render as nothing
// - Files with nothing to show render as the empty string
// - Applying Summary to the same IR twice yields identical text

func publicFn(name, signature string) parser.FunctionUnit {
	return parser.FunctionUnit{
		Name:       name,
		Visibility: parser.VisPublic,
		Signature:  signature,
		HasBody:    true,
		Body:       "{ 1 }",
		Source:     signature + " { 1 }",
	}
}

func privateFn(name, signature string) parser.FunctionUnit {
	f := publicFn(name, signature)
	f.Visibility = parser.VisPrivate
	return f
}

func TestFileDefaultIsPassThrough(t *testing.T) {
	t.Parallel()

	source := "pub fn a() -> i32 { 1 }\nfn b() {}\n"
	unit := &parser.FileUnit{Path: "lib.rs", Source: source}
	assert.Equal(t, source, File(unit, parser.Default, parser.LangRust))
}

func TestSummaryKeepsOnlyPublicFunctions(t *testing.T) {
	t.Parallel()

	unit := &parser.FileUnit{
		Path: "lib.rs",
		Functions: []parser.FunctionUnit{
			publicFn("a", "pub fn a() -> i32"),
			privateFn("b", "fn b()"),
		},
	}
	got := File(unit, parser.Summary, parser.LangRust)
	assert.Equal(t, "pub fn a() -> i32 { ... }\n", got)
}

func TestSummaryOmitsFileWithNoPublicItems(t *testing.T) {
	t.Parallel()

	unit := &parser.FileUnit{
		Path: "internal.rs",
		Declares: []parser.DeclareStatement{
			{Source: "use std::fmt;", Kind: parser.DeclareUse},
		},
		Functions: []parser.FunctionUnit{privateFn("hidden", "fn hidden()")},
	}
	assert.Equal(t, "", File(unit, parser.Summary, parser.LangRust))
}

func TestNoTestsDropsTestModuleKeepsRest(t *testing.T) {
	t.Parallel()

	unit := &parser.FileUnit{
		Path: "lib.rs",
		Modules: []parser.ModuleUnit{
			{
				Name:       "tests",
				Visibility: parser.VisPrivate,
				Attributes: []string{"#[cfg(test)]"},
				Functions: []parser.FunctionUnit{
					{Name: "t", Attributes: []string{"#[test]"}, Signature: "fn t()", HasBody: true, Body: "{}", Source: "fn t() {}"},
				},
				Source: "mod tests { fn t() {} }",
			},
		},
		Functions: []parser.FunctionUnit{
			publicFn("keep", "pub fn keep()"),
			privateFn("also_keep", "fn also_keep()"),
		},
	}
	got := File(unit, parser.NoTests, parser.LangRust)
	assert.NotContains(t, got, "tests")
	assert.NotContains(t, got, "fn t()")
	assert.Contains(t, got, "pub fn keep() { 1 }")
	assert.Contains(t, got, "fn also_keep() { 1 }")
}

func TestNoTestsDropsTestFunctionsInGoTestFile(t *testing.T) {
	t.Parallel()

	unit := &parser.FileUnit{
		Path: "store_test.go",
		Modules: []parser.ModuleUnit{
			{Name: "store", Visibility: parser.VisPublic, Source: "package store"},
		},
		Functions: []parser.FunctionUnit{
			{Name: "TestX", Visibility: parser.VisPublic, Signature: "func TestX(t *testing.T)", HasBody: true, Body: "{}", Source: "func TestX(t *testing.T) {}"},
			{Name: "Helper", Visibility: parser.VisPublic, Signature: "func Helper()", HasBody: true, Body: "{}", Source: "func Helper() {}"},
		},
	}
	got := File(unit, parser.NoTests, parser.LangGo)
	assert.NotContains(t, got, "TestX")
	assert.Contains(t, got, "func Helper() {}")
	assert.Contains(t, got, "package store")
}

func TestGoNonTestFileKeepsTestNamedFunctions(t *testing.T) {
	t.Parallel()

	unit := &parser.FileUnit{
		Path: "store.go",
		Functions: []parser.FunctionUnit{
			{Name: "TestConnection", Visibility: parser.VisPublic, Signature: "func TestConnection()", HasBody: true, Body: "{}", Source: "func TestConnection() {}"},
		},
	}
	got := File(unit, parser.NoTests, parser.LangGo)
	assert.Contains(t, got, "TestConnection")
}

func TestSummaryPythonPlaceholder(t *testing.T) {
	t.Parallel()

	unit := &parser.FileUnit{
		Path: "app.py",
		Functions: []parser.FunctionUnit{
			{Name: "pub", Visibility: parser.VisPublic, Signature: "def pub():", HasBody: true, Body: "return 1", Source: "def pub(): return 1"},
			{Name: "_priv", Visibility: parser.VisPrivate, Signature: "def _priv():", HasBody: true, Body: "pass", Source: "def _priv(): pass"},
		},
	}
	got := File(unit, parser.Summary, parser.LangPython)
	assert.Equal(t, "def pub(): ...\n", got)
}

func TestSummaryClassKeepsPublicMethodsOnly(t *testing.T) {
	t.Parallel()

	unit := &parser.FileUnit{
		Path: "a.ts",
		Structs: []parser.StructUnit{
			{
				Name:       "A",
				Head:       "class A",
				Visibility: parser.VisPublic,
				Methods: []parser.FunctionUnit{
					{Name: "m", Visibility: parser.VisPublic, Signature: "m(x: number): number", HasBody: true, Body: "{ return x; }", Source: "public m(x: number): number { return x; }"},
					{Name: "_h", Visibility: parser.VisPrivate, Signature: "_h()", HasBody: true, Body: "{}", Source: "private _h() {}"},
				},
			},
		},
	}
	got := File(unit, parser.Summary, parser.LangTypeScript)
	assert.Contains(t, got, "class A {")
	assert.Contains(t, got, "m(x: number): number { ... }")
	assert.NotContains(t, got, "_h")
	assert.NotContains(t, got, "return x;")
}

func TestSummaryAbstractDeclarationStaysVerbatim(t *testing.T) {
	t.Parallel()

	unit := &parser.FileUnit{
		Path: "shape.hpp",
		Traits: []parser.TraitUnit{
			{
				Name:       "Shape",
				Head:       "class Shape",
				Visibility: parser.VisPublic,
				Methods: []parser.FunctionUnit{
					{
						Name:       "area",
						Visibility: parser.VisPublic,
						Signature:  "virtual double area() const = 0",
						Source:     "virtual double area() const = 0;",
					},
				},
			},
		},
	}
	got := File(unit, parser.Summary, parser.LangCpp)
	assert.Contains(t, got, "virtual double area() const = 0;")
	assert.NotContains(t, got, "= 0; { ... }")
}

func TestSummaryEmptyImplRendersNothing(t *testing.T) {
	t.Parallel()

	unit := &parser.FileUnit{
		Path: "lib.rs",
		Functions: []parser.FunctionUnit{
			publicFn("keep", "pub fn keep()"),
		},
		Impls: []parser.ImplUnit{
			{
				Head: "impl Point",
				Methods: []parser.FunctionUnit{
					privateFn("secret", "fn secret(&self)"),
				},
			},
		},
	}
	got := File(unit, parser.Summary, parser.LangRust)
	assert.NotContains(t, got, "impl Point")
	assert.NotContains(t, got, "secret")
}

func TestSummaryTraitImplKeepsMethods(t *testing.T) {
	t.Parallel()

	unit := &parser.FileUnit{
		Path: "lib.rs",
		Impls: []parser.ImplUnit{
			{
				Head: "impl Shape for Point",
				Methods: []parser.FunctionUnit{
					privateFn("area", "fn area(&self) -> f64"),
				},
			},
		},
	}
	got := File(unit, parser.Summary, parser.LangRust)
	assert.Contains(t, got, "impl Shape for Point {")
	assert.Contains(t, got, "fn area(&self) -> f64 { ... }")
}

func TestSummaryRustEnumKeepsVariants(t *testing.T) {
	t.Parallel()

	source := "pub enum Color {\n    Red,\n    Green,\n}"
	unit := &parser.FileUnit{
		Path: "lib.rs",
		Structs: []parser.StructUnit{
			{
				Name:       "Color",
				Head:       "pub enum Color",
				Visibility: parser.VisPublic,
				Source:     source,
			},
		},
	}
	got := File(unit, parser.Summary, parser.LangRust)
	assert.Contains(t, got, "Red,")
	assert.Contains(t, got, "Green,")
}

func TestSummaryModuleFiltersPrivate(t *testing.T) {
	t.Parallel()

	unit := &parser.FileUnit{
		Path: "lib.rs",
		Modules: []parser.ModuleUnit{
			{
				Name:       "api",
				Visibility: parser.VisPublic,
				Functions: []parser.FunctionUnit{
					publicFn("handler", "pub fn handler()"),
					privateFn("internal", "fn internal()"),
				},
			},
			{
				Name:       "hidden",
				Visibility: parser.VisPrivate,
				Functions:  []parser.FunctionUnit{publicFn("inner", "pub fn inner()")},
			},
		},
	}
	got := File(unit, parser.Summary, parser.LangRust)
	assert.Contains(t, got, "pub mod api {")
	assert.Contains(t, got, "pub fn handler() { ... }")
	assert.NotContains(t, got, "internal")
	assert.NotContains(t, got, "hidden")
}

func TestSummaryIdempotentOverIR(t *testing.T) {
	t.Parallel()

	unit := &parser.FileUnit{
		Path: "lib.rs",
		Functions: []parser.FunctionUnit{
			publicFn("a", "pub fn a() -> i32"),
		},
		Structs: []parser.StructUnit{
			{Name: "S", Head: "pub struct S", Visibility: parser.VisPublic},
		},
	}
	first := File(unit, parser.Summary, parser.LangRust)
	second := File(unit, parser.Summary, parser.LangRust)
	assert.Equal(t, first, second)
}

func TestDocAndAttributesPreservedInSummary(t *testing.T) {
	t.Parallel()

	unit := &parser.FileUnit{
		Path: "lib.rs",
		Functions: []parser.FunctionUnit{
			{
				Name:       "documented",
				Visibility: parser.VisPublic,
				Doc:        "Does things.\nCarefully.",
				Attributes: []string{"#[inline]"},
				Signature:  "pub fn documented()",
				HasBody:    true,
				Body:       "{}",
				Source:     "pub fn documented() {}",
			},
		},
	}
	got := File(unit, parser.Summary, parser.LangRust)
	assert.Contains(t, got, "/// Does things.\n/// Carefully.")
	assert.Contains(t, got, "#[inline]")
	assert.True(t, strings.Index(got, "///") < strings.Index(got, "#[inline]"))
}

func TestNoTestsStructWithTestMethodsRebuilt(t *testing.T) {
	t.Parallel()

	unit := &parser.FileUnit{
		Path: "app.py",
		Structs: []parser.StructUnit{
			{
				Name:       "Runner",
				Head:       "class Runner",
				Visibility: parser.VisPublic,
				Methods: []parser.FunctionUnit{
					{Name: "run", Visibility: parser.VisPublic, Signature: "def run(self):", HasBody: true, Body: "pass", Source: "def run(self):\n    pass"},
					{Name: "test_run", Visibility: parser.VisPublic, Signature: "def test_run(self):", HasBody: true, Body: "pass", Source: "def test_run(self):\n    pass"},
				},
				Source: "class Runner:\n    def run(self):\n        pass\n    def test_run(self):\n        pass",
			},
		},
	}
	got := File(unit, parser.NoTests, parser.LangPython)
	assert.Contains(t, got, "def run(self):")
	assert.NotContains(t, got, "test_run")
}

func TestEmptyFileRendersEmpty(t *testing.T) {
	t.Parallel()

	unit := &parser.FileUnit{Path: "empty.rs", Source: ""}
	assert.Equal(t, "", File(unit, parser.Summary, parser.LangRust))
	assert.Equal(t, "", File(unit, parser.NoTests, parser.LangRust))
}
