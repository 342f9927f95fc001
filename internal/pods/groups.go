package pods

import (
	"path/filepath"
	"strings"

	"github.com/dmcrae/podforge/internal/pbxproj"
)

// SubgroupKey selects a fixed-name subgroup beneath a spec's group.
type SubgroupKey string

const (
	// SubgroupNone selects no subgroup.
	SubgroupNone SubgroupKey = ""
	// SubgroupResources selects the "Resources" subgroup.
	SubgroupResources SubgroupKey = "resources"
	// SubgroupFrameworks selects the "Frameworks" subgroup.
	SubgroupFrameworks SubgroupKey = "frameworks"
)

// specSubgroups maps recognized subgroup keys to their fixed group names.
var specSubgroups = map[SubgroupKey]string{
	SubgroupResources:  "Resources",
	SubgroupFrameworks: "Frameworks",
}

// supportFilesName is the fixed name of each pod's support files group.
const supportFilesName = "Support Files"

// AddPodGroup registers the top-level group for the pod named name, bound
// to path. Development pods live under the "Development Pods" root, all
// others under "Pods". With absolute set, path is anchored at the
// filesystem root rather than the parent group. Registering a name that
// already exists under either root fails with ErrDuplicateGroup.
func (p *Project) AddPodGroup(name, path string, development, absolute bool) (*pbxproj.Node, error) {
	if p.PodGroup(name) != nil {
		return nil, &GroupError{Name: name, Err: ErrDuplicateGroup}
	}

	parent := p.pods
	if development {
		parent = p.developmentPods
	}
	sourceTree := pbxproj.SourceTreeGroup
	if absolute {
		sourceTree = pbxproj.SourceTreeAbsolute
	}
	return parent.AddGroup(name, path, sourceTree), nil
}

// PodGroup returns the group registered for the pod named name, or nil.
// Both roots are scanned in order and the first match wins; a name present
// under both roots is a caller error.
func (p *Project) PodGroup(name string) *pbxproj.Node {
	for _, g := range p.PodGroups() {
		if g.DisplayName() == name {
			return g
		}
	}
	return nil
}

// PodGroups returns every registered pod group: regular pods first, then
// development pods.
func (p *Project) PodGroups() []*pbxproj.Node {
	return append(p.pods.Children(), p.developmentPods.Children()...)
}

// GroupForSpec returns the group for specName, creating missing levels on
// demand. The first slash-separated component is the pod name and must
// already have a registered group; each following component descends one
// subspec level. A recognized subgroup key appends its fixed-name group as
// the final level.
func (p *Project) GroupForSpec(specName string, subgroup SubgroupKey) (*pbxproj.Node, error) {
	components := strings.Split(specName, "/")

	group := p.PodGroup(components[0])
	if group == nil {
		return nil, &GroupError{Name: components[0], Err: ErrGroupNotFound}
	}

	for _, name := range components[1:] {
		if name == "" {
			continue
		}
		group = childGroup(group, name, "")
	}

	if subgroup != SubgroupNone {
		name, ok := specSubgroups[subgroup]
		if !ok {
			return nil, &GroupError{Name: string(subgroup), Err: ErrUnknownSubgroup}
		}
		group = childGroup(group, name, "")
	}

	return group, nil
}

// PodSupportFilesGroup returns the pod's "Support Files" group, creating
// it bound to dir on first use. The pod group must already be registered;
// callers are responsible for ordering.
func (p *Project) PodSupportFilesGroup(podName, dir string) (*pbxproj.Node, error) {
	group := p.PodGroup(podName)
	if group == nil {
		return nil, &GroupError{Name: podName, Err: ErrGroupNotFound}
	}
	if existing := group.Child(supportFilesName); existing != nil {
		return existing, nil
	}
	sourceTree := pbxproj.SourceTreeGroup
	if filepath.IsAbs(dir) {
		sourceTree = pbxproj.SourceTreeAbsolute
	}
	return group.AddGroup(supportFilesName, dir, sourceTree), nil
}

// childGroup returns the direct child group of parent named name, creating
// it bound to path when absent.
func childGroup(parent *pbxproj.Node, name, path string) *pbxproj.Node {
	if existing := parent.Child(name); existing != nil {
		return existing
	}
	return parent.AddGroup(name, path, pbxproj.SourceTreeGroup)
}
