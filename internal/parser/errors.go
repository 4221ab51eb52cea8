package parser

import "errors"

// Error kinds surfaced by the core. Per-file errors other than ErrParseInit
// are logged and skipped by the orchestrator; ErrParseInit is fatal to the
// invocation.
var (
	// ErrParseInit reports that a grammar binding failed to initialise.
	ErrParseInit = errors.New("parser initialisation failed")

	// ErrEncoding reports that a file was not valid UTF-8.
	ErrEncoding = errors.New("file is not valid UTF-8")

	// ErrUnsupportedLanguage reports an extension dispatch with no
	// extractor. Unknown extensions are skipped before dispatch, so this
	// indicates a programmer error.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)
