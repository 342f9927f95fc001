// Package pbxproj provides an in-memory model of an Xcode project document:
// a tree of groups, file references, and variant groups, plus a list of
// build configurations with mutable settings. The model is deliberately
// unsynchronized; one consumer owns one Project at a time.
package pbxproj

import "path/filepath"

// Project is the document root. It owns the unnamed main group and the
// build configuration list.
type Project struct {
	// Path is the location of the project bundle, e.g. "Pods/Pods.xcodeproj".
	Path string

	mainGroup      *Node
	configurations []*BuildConfiguration
}

// New creates a project document at path with the stock Debug and Release
// configurations. The main group is bound absolutely to the directory
// containing the project bundle, so group-relative paths deeper in the
// tree resolve against it.
func New(path string) *Project {
	main := newNode(KindGroup, "", filepath.Dir(path), SourceTreeAbsolute)
	p := &Project{
		Path:      path,
		mainGroup: main,
	}
	p.AddBuildConfiguration("Debug", BuildDebug)
	p.AddBuildConfiguration("Release", BuildRelease)
	return p
}

// MainGroup returns the root group of the document tree.
func (p *Project) MainGroup() *Node {
	return p.mainGroup
}

// AddBuildConfiguration adds a configuration named name populated with the
// baseline settings for kind. If a configuration with that name already
// exists it is returned unchanged.
func (p *Project) AddBuildConfiguration(name string, kind BuildKind) *BuildConfiguration {
	if c := p.BuildConfiguration(name); c != nil {
		return c
	}
	c := NewBuildConfiguration(name, kind)
	p.configurations = append(p.configurations, c)
	return c
}

// BuildConfiguration returns the configuration named name, or nil.
func (p *Project) BuildConfiguration(name string) *BuildConfiguration {
	for _, c := range p.configurations {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// BuildConfigurations returns all configurations in creation order.
func (p *Project) BuildConfigurations() []*BuildConfiguration {
	out := make([]*BuildConfiguration, len(p.configurations))
	copy(out, p.configurations)
	return out
}

// SetBuildSetting sets key to value on every configuration in the project.
func (p *Project) SetBuildSetting(key string, value any) {
	for _, c := range p.configurations {
		c.Settings[key] = value
	}
}

// Stats summarizes the document contents.
type Stats struct {
	Groups         int `json:"groups"`
	FileReferences int `json:"file_references"`
	VariantGroups  int `json:"variant_groups"`
	Configurations int `json:"configurations"`
}

// Stats counts the nodes and configurations currently in the document. The
// main group is included in the group count.
func (p *Project) Stats() Stats {
	var s Stats
	p.mainGroup.Walk(func(n *Node) {
		switch n.Kind {
		case KindGroup:
			s.Groups++
		case KindFileReference:
			s.FileReferences++
		case KindVariantGroup:
			s.VariantGroups++
		}
	})
	s.Configurations = len(p.configurations)
	return s
}
