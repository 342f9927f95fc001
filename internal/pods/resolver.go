package pods

import (
	"path/filepath"
	"strings"

	"github.com/dmcrae/podforge/internal/pbxproj"
)

// localizedSuffix marks a directory whose files are per-language variants
// of one logical resource.
const localizedSuffix = ".lproj"

// isLocalizedDir reports whether name denotes a localization folder.
func isLocalizedDir(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), localizedSuffix)
}

// destinationGroup returns the group a file reference for absPath must be
// created in, starting from group.
//
// With mirror set, one child group is created per on-disk directory
// segment between the group's bound directory and the file, each bound to
// its segment as a group-relative path; the walk stops at the first
// localization folder. A file whose immediate parent is a localization
// folder resolves to a variant group keyed by (grandparent directory,
// filename without extension) and shared through the cache, superseding
// the mirrored group.
func destinationGroup(absPath string, group *pbxproj.Node, mirror bool, cache *pathCache) (*pbxproj.Node, error) {
	if !filepath.IsAbs(absPath) {
		return nil, NewPathError("resolve", absPath, ErrNotAbsolute)
	}
	absPath = filepath.Clean(absPath)

	rel, err := filepath.Rel(group.RealPath(), absPath)
	if err != nil {
		return nil, NewPathError("resolve", absPath, err)
	}

	if mirror {
		for _, segment := range splitPathSegments(filepath.Dir(rel)) {
			if isLocalizedDir(segment) {
				break
			}
			child := group.Child(segment)
			if child == nil {
				child = group.AddGroup(segment, segment, pbxproj.SourceTreeGroup)
			}
			group = child
		}
	}

	parentDir := filepath.Dir(absPath)
	if isLocalizedDir(filepath.Base(parentDir)) {
		base := filepath.Base(absPath)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		grandparent := filepath.Dir(parentDir)
		variant := cache.variant(grandparent, name)
		if variant == nil {
			variant = group.AddVariantGroup(name, grandparent, pbxproj.SourceTreeAbsolute)
			cache.recordVariant(grandparent, name, variant)
		}
		group = variant
	}

	return group, nil
}

// splitPathSegments splits a relative path into its components.
// For "a/b/c" returns ["a", "b", "c"]; "." and "" return nil.
func splitPathSegments(path string) []string {
	path = filepath.Clean(path)

	var parts []string
	for path != "" && path != "." && path != string(filepath.Separator) {
		dir, base := filepath.Split(path)
		if base != "" {
			parts = append([]string{base}, parts...)
		}
		path = strings.TrimSuffix(dir, string(filepath.Separator))
	}

	return parts
}
