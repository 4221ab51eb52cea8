// Package bank walks a source tree, extracts each supported file into the
// language-neutral IR, renders it under the selected strategy, and assembles
// the final Markdown document.
package bank

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tyrchen/codebank/internal/parser"
	"github.com/tyrchen/codebank/internal/parser/formatter"
	"github.com/tyrchen/codebank/internal/parser/lang"
)

// Errors fatal to a whole invocation.
var (
	ErrDirectoryNotFound = errors.New("directory not found")
	ErrNotDirectory      = errors.New("not a directory")
)

// Config drives one Generate invocation.
type Config struct {
	// RootDir is the directory to bank.
	RootDir string
	// Strategy selects Default, NoTests or Summary rendering.
	Strategy parser.Strategy
	// IgnoreDirs adds ignore globs on top of .gitignore conventions.
	IgnoreDirs []string
	// Progress, when set, is called after each file with the running and
	// total candidate counts. The CLI hangs a progress bar off it.
	Progress func(done, total int)
}

// Bank generates code bank documents. Grammar setup happens once at
// construction so a broken grammar binding fails fast; a Bank is then safe
// to reuse across many Generate calls on one goroutine.
type Bank struct {
	extractors map[parser.Language]lang.Extractor
}

// New creates a Bank with every supported language extractor initialised.
func New() (*Bank, error) {
	languages := []parser.Language{
		parser.LangRust,
		parser.LangPython,
		parser.LangTypeScript,
		parser.LangJavaScript,
		parser.LangGo,
		parser.LangC,
		parser.LangCpp,
	}
	extractors := make(map[parser.Language]lang.Extractor, len(languages))
	for _, l := range languages {
		e, err := lang.ForLanguage(l)
		if err != nil {
			return nil, err
		}
		// a probe parse binds the grammar now, so a refused binding fails here
		if _, err := e.Extract("", []byte("\n")); err != nil {
			return nil, err
		}
		extractors[l] = e
	}
	return &Bank{extractors: extractors}, nil
}

// Generate produces the Markdown document for cfg.RootDir under
// cfg.Strategy. Per-file failures are logged and skipped; root-level IO
// failures and grammar initialisation failures abort the invocation.
func (b *Bank) Generate(cfg *Config) (string, error) {
	rootDir, err := filepath.Abs(cfg.RootDir)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}

	info, err := os.Stat(rootDir)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrDirectoryNotFound, rootDir)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, rootDir)
	}

	var out strings.Builder
	out.WriteString("# Code Bank\n")

	mf, err := findManifest(rootDir)
	if err != nil {
		log.Printf("warning: failed to read package manifest: %v", err)
	} else if mf != nil {
		out.WriteString("\n## Package File\n\n")
		out.WriteString("```")
		out.WriteString(mf.Fence)
		out.WriteString("\n")
		out.WriteString(mf.Content)
		if !strings.HasSuffix(mf.Content, "\n") {
			out.WriteString("\n")
		}
		out.WriteString("```\n")
	}

	files, err := discoverFiles(rootDir, cfg.IgnoreDirs)
	if err != nil {
		return "", fmt.Errorf("walk %s: %w", rootDir, err)
	}

	var candidates []string
	for _, relPath := range files {
		if parser.DetectLanguage(relPath) != parser.LangUnknown {
			candidates = append(candidates, relPath)
		}
	}

	for i, relPath := range candidates {
		fragment, language, err := b.bankFile(rootDir, relPath, cfg.Strategy)
		if cfg.Progress != nil {
			cfg.Progress(i+1, len(candidates))
		}
		if err != nil {
			if errors.Is(err, parser.ErrParseInit) {
				return "", err
			}
			log.Printf("skipping %s: %v", relPath, err)
			continue
		}
		if fragment == "" {
			continue
		}

		out.WriteString("\n## ")
		out.WriteString(relPath)
		out.WriteString("\n```")
		out.WriteString(language.String())
		out.WriteString("\n")
		out.WriteString(fragment)
		if !strings.HasSuffix(fragment, "\n") {
			out.WriteString("\n")
		}
		out.WriteString("```\n")
	}

	return out.String(), nil
}

// GenerateToFile writes the generated document to outputPath.
func (b *Bank) GenerateToFile(cfg *Config, outputPath string) error {
	content, err := b.Generate(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}
	return nil
}

// bankFile extracts and renders one file.
func (b *Bank) bankFile(rootDir, relPath string, strategy parser.Strategy) (string, parser.Language, error) {
	language := parser.DetectLanguage(relPath)
	extractor, ok := b.extractors[language]
	if !ok {
		return "", language, fmt.Errorf("%w: %s", parser.ErrUnsupportedLanguage, relPath)
	}

	source, err := os.ReadFile(filepath.Join(rootDir, filepath.FromSlash(relPath)))
	if err != nil {
		return "", language, err
	}

	unit, err := extractor.Extract(relPath, source)
	if err != nil {
		return "", language, err
	}

	return formatter.File(unit, strategy, language), language, nil
}
