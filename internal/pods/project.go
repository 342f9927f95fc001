// Package pods manages the group and file-reference layout of an installed
// pods project. It owns the fixed root groups, the per-pod group registry,
// the path-to-group resolution rules (filesystem mirroring and
// localization folding), and the cache that guarantees at most one file
// reference per physical path.
package pods

import (
	"path/filepath"
	"strings"

	"github.com/dmcrae/podforge/internal/pbxproj"
)

// Names of the root groups owned by the project.
const (
	PodsRootName            = "Pods"
	DevelopmentPodsRootName = "Development Pods"
	SupportFilesRootName    = "Targets Support Files"
)

// LegacyBuildRoot is the default build output location, kept at the
// historical path relative to the integrating project.
const LegacyBuildRoot = "${SRCROOT}/../build"

// SymrootSetting is the build setting naming the build output root.
const SymrootSetting = "SYMROOT"

// Attributes applied to the install manifest's file reference.
const (
	manifestFileType    = "text"
	manifestLanguage    = "xcode.lang.simpleColoring"
	manifestIndentWidth = 2
)

// Project manages the pods project document. One installation run owns one
// Project; operations are synchronous in-memory mutations and are not safe
// for concurrent use.
type Project struct {
	doc *pbxproj.Project

	pods            *pbxproj.Node
	developmentPods *pbxproj.Node
	supportFiles    *pbxproj.Node

	cache *pathCache
}

// New creates the pods project document at path, creates the fixed root
// groups, and applies the legacy build root to every stock configuration.
func New(path string) *Project {
	doc := pbxproj.New(path)
	main := doc.MainGroup()

	p := &Project{
		doc:             doc,
		supportFiles:    main.AddGroup(SupportFilesRootName, "", pbxproj.SourceTreeGroup),
		pods:            main.AddGroup(PodsRootName, "", pbxproj.SourceTreeGroup),
		developmentPods: main.AddGroup(DevelopmentPodsRootName, "", pbxproj.SourceTreeGroup),
		cache:           newPathCache(),
	}
	p.SetSymroot(LegacyBuildRoot)
	return p
}

// Path returns the location of the project bundle.
func (p *Project) Path() string {
	return p.doc.Path
}

// MainGroup returns the root group of the document tree.
func (p *Project) MainGroup() *pbxproj.Node {
	return p.doc.MainGroup()
}

// PodsRoot returns the root group holding regular pod groups.
func (p *Project) PodsRoot() *pbxproj.Node {
	return p.pods
}

// DevelopmentPodsRoot returns the root group holding development pod groups.
func (p *Project) DevelopmentPodsRoot() *pbxproj.Node {
	return p.developmentPods
}

// SupportFilesRoot returns the "Targets Support Files" root group.
func (p *Project) SupportFilesRoot() *pbxproj.Node {
	return p.supportFiles
}

// BuildConfigurations returns the document's configurations in creation order.
func (p *Project) BuildConfigurations() []*pbxproj.BuildConfiguration {
	return p.doc.BuildConfigurations()
}

// BuildConfiguration returns the configuration with the given name, or
// nil if none exists.
func (p *Project) BuildConfiguration(name string) *pbxproj.BuildConfiguration {
	return p.doc.BuildConfiguration(name)
}

// Stats summarizes the document contents.
func (p *Project) Stats() pbxproj.Stats {
	return p.doc.Stats()
}

// SetSymroot applies value as the build output root on every build
// configuration currently in the project.
func (p *Project) SetSymroot(value string) {
	p.doc.SetBuildSetting(SymrootSetting, value)
}

// AddFileReference places a file reference for absPath under group,
// resolving the real destination through filesystem mirroring and
// localization folding. A path that already has a reference returns the
// existing node unchanged, regardless of the group and mirror arguments.
func (p *Project) AddFileReference(absPath string, group *pbxproj.Node, mirror bool) (*pbxproj.Node, error) {
	if !filepath.IsAbs(absPath) {
		return nil, NewPathError("add", absPath, ErrNotAbsolute)
	}

	dest, err := destinationGroup(absPath, group, mirror, p.cache)
	if err != nil {
		return nil, err
	}
	if ref := p.cache.ref(absPath); ref != nil {
		return ref, nil
	}

	ref := dest.AddFileReference(filepath.Clean(absPath), pbxproj.SourceTreeAbsolute)
	p.cache.recordRef(absPath, ref)
	return ref, nil
}

// ReferenceForPath returns the file reference previously created for
// absPath, or nil when none exists.
func (p *Project) ReferenceForPath(absPath string) (*pbxproj.Node, error) {
	if !filepath.IsAbs(absPath) {
		return nil, NewPathError("lookup", absPath, ErrNotAbsolute)
	}
	return p.cache.ref(absPath), nil
}

// ForgetReference drops the cached file reference for absPath so a future
// AddFileReference creates a fresh node. The tree itself is not modified.
func (p *Project) ForgetReference(absPath string) error {
	if !filepath.IsAbs(absPath) {
		return NewPathError("forget", absPath, ErrNotAbsolute)
	}
	p.cache.forgetRef(absPath)
	return nil
}

// ForgetVariantGroup drops the cached variant group for the (dir, name)
// identity. The tree itself is not modified.
func (p *Project) ForgetVariantGroup(dir, name string) error {
	if !filepath.IsAbs(dir) {
		return NewPathError("forget", dir, ErrNotAbsolute)
	}
	p.cache.forgetVariant(dir, name)
	return nil
}

// AddBuildConfiguration adds a configuration named name populated with
// baseline settings for kind, then appends the configuration's derived
// preprocessor token to its definition list. An existing configuration
// gains the token without being recreated, and a token already present is
// never duplicated.
func (p *Project) AddBuildConfiguration(name string, kind pbxproj.BuildKind) *pbxproj.BuildConfiguration {
	c := p.doc.AddBuildConfiguration(name, kind)
	c.Settings.AppendToList(pbxproj.GCCPreprocessorDefinitions, preprocessorToken(name))
	return c
}

// AddManifestReference records the human-authored install manifest as a
// plain-text file reference under the main group. The reference is not
// part of the deduplication cache.
func (p *Project) AddManifestReference(path string) *pbxproj.Node {
	sourceTree := pbxproj.SourceTreeGroup
	if filepath.IsAbs(path) {
		sourceTree = pbxproj.SourceTreeAbsolute
	}
	ref := p.doc.MainGroup().AddFileReference(path, sourceTree)
	ref.ExplicitFileType = manifestFileType
	ref.LanguageIdentifier = manifestLanguage
	ref.TabWidth = manifestIndentWidth
	ref.IndentWidth = manifestIndentWidth
	return ref
}

// preprocessorToken derives the definition announcing a configuration:
// uppercased, non-alphanumerics replaced with underscores, a leading digit
// guarded with an underscore, suffixed "=1".
func preprocessorToken(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= '0' && r <= '9', r >= 'A' && r <= 'Z', r == '_':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - ('a' - 'A'))
		default:
			b.WriteByte('_')
		}
	}
	token := b.String()
	if token != "" && token[0] >= '0' && token[0] <= '9' {
		token = "_" + token
	}
	return token + "=1"
}
