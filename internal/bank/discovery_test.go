package bank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverFilesSortsLexicographically(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "b.rs", "")
	writeFile(t, root, "a.rs", "")
	writeFile(t, root, "sub/c.rs", "")

	files, err := discoverFiles(root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.rs", "b.rs", "sub/c.rs"}, files)
}

func TestDiscoverFilesSkipsHiddenDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "visible.rs", "")
	writeFile(t, root, ".git/objects/blob.rs", "")
	writeFile(t, root, ".cache/x.rs", "")
	writeFile(t, root, ".hidden.rs", "")

	files, err := discoverFiles(root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"visible.rs"}, files)
}

func TestDiscoverFilesHonorsGitignore(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, ".gitignore", "target/\n*.tmp\n# comment\n")
	writeFile(t, root, "keep.rs", "")
	writeFile(t, root, "target/generated.rs", "")
	writeFile(t, root, "scratch.tmp", "")

	files, err := discoverFiles(root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.rs"}, files)
}

func TestDiscoverFilesExtraIgnores(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "keep.rs", "")
	writeFile(t, root, "vendor/dep.rs", "")
	writeFile(t, root, "examples/demo.rs", "")

	files, err := discoverFiles(root, []string{"vendor", "examples"})
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.rs"}, files)
}

func TestIgnoreRulesSegmentMatching(t *testing.T) {
	t.Parallel()

	rules := newIgnoreRules([]string{"node_modules", "build/*.o"})

	assert.True(t, rules.match("node_modules", true))
	assert.True(t, rules.match("deep/node_modules", true))
	assert.True(t, rules.match("build/main.o", false))
	assert.False(t, rules.match("build/main.c", false))
	assert.False(t, rules.match("src/main.c", false))
}
