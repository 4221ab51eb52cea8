package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tyrchen/codebank/internal/parser"
)

// Test Plan for the TypeScript extractor:
// - import statements become declares
// - export decides public visibility, including export { } lists
// - Interfaces and object-shape type aliases become TraitUnits
// - Class members honor private/protected modifiers
// - Arrow-function consts surface as functions
// - Abstract classes with only abstract methods become TraitUnits

const tsSample = `import { readFile } from "fs";

/** Greets the caller. */
export function greet(name: string): string {
  return "hello " + name;
}

function helper(): void {}

export class Account {
  public balance(amount: number): number {
    return amount;
  }
  private _audit() {}
  protected refresh() {}
}

export interface Repository {
  find(id: string): Account;
  save(entity: Account): void;
}

export type Pair = {
  left: number;
  right: number;
};

export const sum = (a: number, b: number): number => a + b;

const hiddenFn = () => 0;
`

func parseTS(t *testing.T, source string) *parser.FileUnit {
	t.Helper()
	unit, err := NewTypeScriptExtractor(parser.LangTypeScript).Extract("sample.ts", []byte(source))
	require.NoError(t, err)
	require.NotNil(t, unit)
	return unit
}

func TestTypeScriptExtractor_Functions(t *testing.T) {
	t.Parallel()

	unit := parseTS(t, tsSample)
	require.GreaterOrEqual(t, len(unit.Functions), 3)

	greet := unit.Functions[0]
	assert.Equal(t, "greet", greet.Name)
	assert.True(t, greet.Visibility.IsPublic())
	assert.Equal(t, "function greet(name: string): string", greet.Signature)
	assert.True(t, greet.HasBody)
	assert.Contains(t, greet.Doc, "Greets the caller.")

	helper := unit.Functions[1]
	assert.Equal(t, "helper", helper.Name)
	assert.Equal(t, parser.Private, helper.Visibility.Kind)
}

func TestTypeScriptExtractor_ArrowFunctions(t *testing.T) {
	t.Parallel()

	unit := parseTS(t, tsSample)

	var sum, hidden *parser.FunctionUnit
	for i := range unit.Functions {
		switch unit.Functions[i].Name {
		case "sum":
			sum = &unit.Functions[i]
		case "hiddenFn":
			hidden = &unit.Functions[i]
		}
	}
	require.NotNil(t, sum)
	assert.True(t, sum.Visibility.IsPublic())
	assert.True(t, sum.HasBody)

	require.NotNil(t, hidden)
	assert.Equal(t, parser.Private, hidden.Visibility.Kind)
}

func TestTypeScriptExtractor_ClassMembers(t *testing.T) {
	t.Parallel()

	unit := parseTS(t, tsSample)
	require.Len(t, unit.Structs, 1)

	account := unit.Structs[0]
	assert.Equal(t, "Account", account.Name)
	assert.True(t, account.Visibility.IsPublic())
	require.Len(t, account.Methods, 3)

	balance := account.Methods[0]
	assert.Equal(t, "balance", balance.Name)
	assert.True(t, balance.Visibility.IsPublic())

	audit := account.Methods[1]
	assert.Equal(t, "_audit", audit.Name)
	assert.Equal(t, parser.Private, audit.Visibility.Kind)

	refresh := account.Methods[2]
	assert.Equal(t, parser.Protected, refresh.Visibility.Kind)
}

func TestTypeScriptExtractor_InterfaceAndTypeAlias(t *testing.T) {
	t.Parallel()

	unit := parseTS(t, tsSample)
	require.Len(t, unit.Traits, 2)

	repo := unit.Traits[0]
	assert.Equal(t, "Repository", repo.Name)
	assert.True(t, repo.Visibility.IsPublic())
	require.Len(t, repo.Methods, 2)
	assert.Equal(t, "find", repo.Methods[0].Name)
	assert.Equal(t, "find(id: string): Account", repo.Methods[0].Signature)

	pair := unit.Traits[1]
	assert.Equal(t, "Pair", pair.Name)
	assert.True(t, pair.Visibility.IsPublic())
}

func TestTypeScriptExtractor_ExportClause(t *testing.T) {
	t.Parallel()

	source := `function alpha() {}
function beta() {}
export { alpha };
`
	unit := parseTS(t, source)
	require.Len(t, unit.Functions, 2)
	assert.True(t, unit.Functions[0].Visibility.IsPublic())
	assert.Equal(t, parser.Private, unit.Functions[1].Visibility.Kind)
}

func TestTypeScriptExtractor_AbstractClass(t *testing.T) {
	t.Parallel()

	source := `export abstract class Shape {
  abstract area(): number;
  abstract perimeter(): number;
}
`
	unit := parseTS(t, source)
	require.Len(t, unit.Traits, 1)
	assert.Empty(t, unit.Structs)

	shape := unit.Traits[0]
	assert.Equal(t, "Shape", shape.Name)
	require.Len(t, shape.Methods, 2)
	assert.False(t, shape.Methods[0].HasBody)
}

func TestTypeScriptExtractor_MixedAbstractClass(t *testing.T) {
	t.Parallel()

	source := `export abstract class Base {
  abstract id(): string;
  describe(): string {
    return this.id();
  }
}
`
	unit := parseTS(t, source)
	assert.Empty(t, unit.Traits)
	require.Len(t, unit.Structs, 1)

	base := unit.Structs[0]
	require.Len(t, base.Methods, 2)
	assert.False(t, base.Methods[0].HasBody)
	assert.True(t, base.Methods[1].HasBody)
}

func TestTypeScriptExtractor_Declares(t *testing.T) {
	t.Parallel()

	unit := parseTS(t, tsSample)
	require.NotEmpty(t, unit.Declares)
	assert.Equal(t, `import { readFile } from "fs";`, unit.Declares[0].Source)
	assert.Equal(t, parser.DeclareImport, unit.Declares[0].Kind)
}

func TestJavaScriptExtractor_SharesGrammar(t *testing.T) {
	t.Parallel()

	source := `export function run() { return 1; }
`
	unit, err := NewTypeScriptExtractor(parser.LangJavaScript).Extract("app.js", []byte(source))
	require.NoError(t, err)
	require.Len(t, unit.Functions, 1)
	assert.True(t, unit.Functions[0].Visibility.IsPublic())
}
