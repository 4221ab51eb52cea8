package formatter

import (
	"strings"

	"github.com/tyrchen/codebank/internal/parser"
)

// File renders one file's IR under a strategy. The returned fragment is the
// body of the file's fenced code block; an empty fragment tells the
// orchestrator to omit the file entirely.
func File(unit *parser.FileUnit, strategy parser.Strategy, lang parser.Language) string {
	r := renderer{
		strategy: strategy,
		lang:     lang,
		rules:    RulesFor(lang),
		testFile: strings.HasSuffix(unit.Path, "_test.go"),
	}
	return r.file(unit)
}

type renderer struct {
	strategy parser.Strategy
	lang     parser.Language
	rules    Rules
	testFile bool
}

func (r *renderer) file(unit *parser.FileUnit) string {
	if r.strategy == parser.Default {
		return unit.Source
	}

	var units []string
	for i := range unit.Modules {
		m := &unit.Modules[i]
		if r.lang == parser.LangGo {
			// the package clause renders, but only content decides
			// whether the file appears at all
			continue
		}
		if frag := r.module(m); frag != "" {
			units = append(units, frag)
		}
	}
	for i := range unit.Functions {
		if frag := r.function(&unit.Functions[i]); frag != "" {
			units = append(units, frag)
		}
	}
	for i := range unit.Structs {
		if frag := r.structUnit(&unit.Structs[i]); frag != "" {
			units = append(units, frag)
		}
	}
	for i := range unit.Traits {
		if frag := r.trait(&unit.Traits[i]); frag != "" {
			units = append(units, frag)
		}
	}
	for i := range unit.Impls {
		if frag := r.impl(&unit.Impls[i]); frag != "" {
			units = append(units, frag)
		}
	}

	if len(units) == 0 {
		// nothing survived filtering: omit the file, declares included
		return ""
	}

	var parts []string
	if unit.Doc != "" {
		parts = append(parts, r.docBlock(unit.Doc))
	}
	if r.lang == parser.LangGo {
		for i := range unit.Modules {
			parts = append(parts, r.goPackageClause(&unit.Modules[i]))
		}
	}
	if declares := r.declares(unit.Declares); declares != "" {
		parts = append(parts, declares)
	}
	parts = append(parts, units...)
	return strings.Join(parts, "\n\n") + "\n"
}

// goPackageClause renders the package module, which has no body to filter.
func (r *renderer) goPackageClause(m *parser.ModuleUnit) string {
	var b strings.Builder
	if m.Doc != "" {
		b.WriteString(r.docBlock(m.Doc))
		b.WriteString("\n")
	}
	b.WriteString(m.Source)
	return b.String()
}

func (r *renderer) module(m *parser.ModuleUnit) string {
	if r.strategy == parser.NoTests && r.rules.IsTestModule(m) {
		return ""
	}
	if r.strategy == parser.Summary && (r.rules.IsTestModule(m) || !m.Visibility.IsPublic()) {
		return ""
	}

	var inner []string
	if declares := r.declares(m.Declares); declares != "" {
		inner = append(inner, declares)
	}
	for i := range m.Functions {
		if frag := r.function(&m.Functions[i]); frag != "" {
			inner = append(inner, frag)
		}
	}
	for i := range m.Structs {
		if frag := r.structUnit(&m.Structs[i]); frag != "" {
			inner = append(inner, frag)
		}
	}
	for i := range m.Traits {
		if frag := r.trait(&m.Traits[i]); frag != "" {
			inner = append(inner, frag)
		}
	}
	for i := range m.Impls {
		if frag := r.impl(&m.Impls[i]); frag != "" {
			inner = append(inner, frag)
		}
	}
	for i := range m.Submodules {
		if frag := r.module(&m.Submodules[i]); frag != "" {
			inner = append(inner, frag)
		}
	}

	var b strings.Builder
	if m.Doc != "" {
		b.WriteString(r.docBlock(m.Doc))
		b.WriteString("\n")
	}
	for _, attr := range m.Attributes {
		b.WriteString(attr)
		b.WriteString("\n")
	}
	b.WriteString(r.moduleHead(m))
	b.WriteString(" {\n")
	for _, frag := range inner {
		b.WriteString(indent(frag))
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

func (r *renderer) moduleHead(m *parser.ModuleUnit) string {
	switch r.lang {
	case parser.LangRust:
		if q := m.Visibility.Qualifier(r.lang); q != "" {
			return q + " mod " + m.Name
		}
		return "mod " + m.Name
	case parser.LangTypeScript, parser.LangJavaScript:
		return "namespace " + m.Name
	case parser.LangC, parser.LangCpp:
		return "namespace " + m.Name
	default:
		return "mod " + m.Name
	}
}

func (r *renderer) function(f *parser.FunctionUnit) string {
	if r.rules.IsTestFunction(f, r.testFile) {
		return ""
	}
	if r.strategy == parser.Summary && !f.Visibility.IsPublic() {
		return ""
	}

	var b strings.Builder
	if f.Doc != "" {
		b.WriteString(r.docBlock(f.Doc))
		b.WriteString("\n")
	}
	if !r.rules.AttrsInSource || r.strategy == parser.Summary {
		for _, attr := range f.Attributes {
			b.WriteString(attr)
			b.WriteString("\n")
		}
	}

	switch r.strategy {
	case parser.NoTests:
		b.WriteString(f.Source)
	case parser.Summary:
		if !f.HasBody {
			// abstract and signature-only declarations stay verbatim
			b.WriteString(f.Signature)
		} else if f.Signature != "" {
			b.WriteString(r.rules.SummarySignature(f.Signature))
		} else {
			b.WriteString(r.rules.SummarySignature(f.Source))
		}
	}
	return b.String()
}

func (r *renderer) structUnit(s *parser.StructUnit) string {
	if r.rules.IsTestStruct(s) {
		return ""
	}
	if r.strategy == parser.Summary && !s.Visibility.IsPublic() {
		return ""
	}

	var b strings.Builder
	if s.Doc != "" {
		b.WriteString(r.docBlock(s.Doc))
		b.WriteString("\n")
	}
	if !r.rules.AttrsInSource {
		for _, attr := range s.Attributes {
			b.WriteString(attr)
			b.WriteString("\n")
		}
	}

	if r.lang == parser.LangGo {
		// a Go type declaration is the whole struct source; receiver
		// methods render through the impl view instead
		b.WriteString(s.Source)
		return b.String()
	}

	if r.strategy == parser.NoTests {
		if !r.hasTestMethods(s.Methods) {
			b.WriteString(s.Source)
			return b.String()
		}
		// rebuild the body so test methods disappear
		b.WriteString(s.Head)
		b.WriteString(r.rules.BodyOpen)
		b.WriteString("\n")
		for i := range s.Fields {
			b.WriteString(indent(s.Fields[i].Source))
			b.WriteString("\n")
		}
		for i := range s.Methods {
			m := &s.Methods[i]
			if r.rules.IsTestFunction(m, r.testFile) {
				continue
			}
			b.WriteString(indent(m.Source))
			b.WriteString("\n")
		}
		if r.rules.BodyClose == "" {
			return strings.TrimRight(b.String(), "\n")
		}
		b.WriteString(r.rules.BodyClose)
		return b.String()
	}

	// Summary
	if s.IsEnum() && r.lang == parser.LangRust {
		// a public enum's variants are its interface
		b.WriteString(s.Source)
		return b.String()
	}
	var methods []string
	for i := range s.Methods {
		m := &s.Methods[i]
		if !m.Visibility.IsPublic() || r.rules.IsTestFunction(m, r.testFile) {
			continue
		}
		methods = append(methods, r.summaryMethod(m))
	}
	if len(methods) == 0 {
		b.WriteString(r.rules.SummarySignature(s.Head))
		return b.String()
	}
	b.WriteString(s.Head)
	b.WriteString(r.rules.BodyOpen)
	b.WriteString("\n")
	for _, m := range methods {
		b.WriteString(indent(m))
		b.WriteString("\n")
	}
	if r.rules.BodyClose == "" {
		return strings.TrimRight(b.String(), "\n")
	}
	b.WriteString(r.rules.BodyClose)
	return b.String()
}

func (r *renderer) trait(t *parser.TraitUnit) string {
	if r.strategy == parser.Summary && !t.Visibility.IsPublic() {
		return ""
	}

	var b strings.Builder
	if t.Doc != "" {
		b.WriteString(r.docBlock(t.Doc))
		b.WriteString("\n")
	}
	if !r.rules.AttrsInSource {
		for _, attr := range t.Attributes {
			b.WriteString(attr)
			b.WriteString("\n")
		}
	}

	if r.strategy == parser.NoTests {
		if !r.hasTestMethods(t.Methods) {
			b.WriteString(t.Source)
			return b.String()
		}
	}

	var methods []string
	for i := range t.Methods {
		m := &t.Methods[i]
		if r.rules.IsTestFunction(m, r.testFile) {
			continue
		}
		if r.strategy == parser.Summary {
			methods = append(methods, r.summaryMethod(m))
		} else {
			methods = append(methods, m.Source)
		}
	}
	b.WriteString(t.Head)
	b.WriteString(r.rules.BodyOpen)
	b.WriteString("\n")
	for _, m := range methods {
		b.WriteString(indent(m))
		b.WriteString("\n")
	}
	if r.rules.BodyClose == "" {
		return strings.TrimRight(b.String(), "\n")
	}
	b.WriteString(r.rules.BodyClose)
	return b.String()
}

func (r *renderer) impl(i *parser.ImplUnit) string {
	var methods []string
	for j := range i.Methods {
		m := &i.Methods[j]
		if r.rules.IsTestFunction(m, r.testFile) {
			continue
		}
		if r.strategy == parser.Summary {
			// implementing a trait is interface surface; inherent
			// impls expose only their public methods
			if !i.IsTraitImpl() && !m.Visibility.IsPublic() {
				continue
			}
			methods = append(methods, r.summaryMethod(m))
		} else {
			methods = append(methods, m.Source)
		}
	}
	if len(methods) == 0 {
		return ""
	}

	var b strings.Builder
	if i.Doc != "" {
		b.WriteString(r.docBlock(i.Doc))
		b.WriteString("\n")
	}
	if !r.rules.AttrsInSource {
		for _, attr := range i.Attributes {
			b.WriteString(attr)
			b.WriteString("\n")
		}
	}
	if r.lang == parser.LangGo {
		// Go has no impl syntax to rebuild; methods stand alone
		return b.String() + strings.Join(methods, "\n\n")
	}
	b.WriteString(i.Head)
	b.WriteString(" {\n")
	for _, m := range methods {
		b.WriteString(indent(m))
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

// summaryMethod renders one method under the placeholder-body rule.
func (r *renderer) summaryMethod(m *parser.FunctionUnit) string {
	var b strings.Builder
	if m.Doc != "" {
		b.WriteString(r.docBlock(m.Doc))
		b.WriteString("\n")
	}
	if !m.HasBody {
		b.WriteString(strings.TrimSpace(m.Source))
		return b.String()
	}
	b.WriteString(r.rules.SummarySignature(m.Signature))
	return b.String()
}

// declares renders import-like statements one per line.
func (r *renderer) declares(declares []parser.DeclareStatement) string {
	var lines []string
	for _, d := range declares {
		lines = append(lines, d.Source)
	}
	return strings.Join(lines, "\n")
}

// docBlock re-emits cleaned documentation lines behind the doc marker.
func (r *renderer) docBlock(doc string) string {
	var lines []string
	for _, line := range strings.Split(doc, "\n") {
		if line == "" {
			lines = append(lines, r.rules.DocMarker)
		} else {
			lines = append(lines, r.rules.DocMarker+" "+line)
		}
	}
	return strings.Join(lines, "\n")
}

func (r *renderer) hasTestMethods(methods []parser.FunctionUnit) bool {
	for i := range methods {
		if r.rules.IsTestFunction(&methods[i], r.testFile) {
			return true
		}
	}
	return false
}

// indent shifts a fragment one level right.
func indent(s string) string {
	return "    " + strings.ReplaceAll(s, "\n", "\n    ")
}
