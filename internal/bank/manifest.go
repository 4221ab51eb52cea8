package bank

import (
	"os"
	"path/filepath"
)

// manifestFiles is the package-manifest search list. Order is the documented
// tie-break when a directory holds more than one candidate.
var manifestFiles = []struct {
	name  string
	fence string
}{
	{"Cargo.toml", "toml"},
	{"pyproject.toml", "toml"},
	{"setup.py", "python"},
	{"requirements.txt", ""},
	{"package.json", "json"},
	{"CMakeLists.txt", "cmake"},
	{"Makefile", "make"},
	{"go.mod", "go"},
}

// manifestSearchDepth bounds the upward search: the root itself plus up to
// three parent directories.
const manifestSearchDepth = 3

// manifest is a located package-manifest file, embedded verbatim at the top
// of the output.
type manifest struct {
	Name    string
	Fence   string
	Content string
}

// findManifest searches rootDir and up to three parents, in list order, for
// a package manifest. The first match wins.
func findManifest(rootDir string) (*manifest, error) {
	dir := rootDir
	for depth := 0; depth <= manifestSearchDepth; depth++ {
		for _, candidate := range manifestFiles {
			path := filepath.Join(dir, candidate.name)
			info, err := os.Stat(path)
			if err != nil || info.IsDir() {
				continue
			}
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			return &manifest{
				Name:    candidate.name,
				Fence:   candidate.fence,
				Content: string(content),
			}, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil, nil
}
