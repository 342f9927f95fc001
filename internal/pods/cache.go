package pods

import (
	"path/filepath"

	"github.com/dmcrae/podforge/internal/pbxproj"
)

// variantKey identifies one logical localized resource: the directory
// holding its language folders plus the filename without extension.
type variantKey struct {
	dir  string
	name string
}

// pathCache guarantees at most one tree node per physical identity: one
// file reference per absolute path and one variant group per
// (directory, base name) pair. Keys are cleaned lexically; symlinks are
// not resolved. The cache is a pure identity index and does not own node
// lifetime; entries for nodes removed from the tree must be forgotten
// explicitly before the identity can be reused.
type pathCache struct {
	refsByPath    map[string]*pbxproj.Node
	variantsByKey map[variantKey]*pbxproj.Node
}

func newPathCache() *pathCache {
	return &pathCache{
		refsByPath:    make(map[string]*pbxproj.Node),
		variantsByKey: make(map[variantKey]*pbxproj.Node),
	}
}

// recordRef stores ref under the normalized path.
func (c *pathCache) recordRef(path string, ref *pbxproj.Node) {
	c.refsByPath[filepath.Clean(path)] = ref
}

// ref returns the file reference recorded for path, or nil.
func (c *pathCache) ref(path string) *pbxproj.Node {
	return c.refsByPath[filepath.Clean(path)]
}

// forgetRef drops the file reference entry for path.
func (c *pathCache) forgetRef(path string) {
	delete(c.refsByPath, filepath.Clean(path))
}

// recordVariant stores group under the (dir, name) identity.
func (c *pathCache) recordVariant(dir, name string, group *pbxproj.Node) {
	c.variantsByKey[variantKey{dir: filepath.Clean(dir), name: name}] = group
}

// variant returns the variant group recorded for (dir, name), or nil.
func (c *pathCache) variant(dir, name string) *pbxproj.Node {
	return c.variantsByKey[variantKey{dir: filepath.Clean(dir), name: name}]
}

// forgetVariant drops the variant group entry for (dir, name).
func (c *pathCache) forgetVariant(dir, name string) {
	delete(c.variantsByKey, variantKey{dir: filepath.Clean(dir), name: name})
}
