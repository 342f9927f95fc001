package pbxproj

import (
	"encoding/hex"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ObjectID uniquely identifies an object in the project document.
// It uses the 24-character uppercase hex form native to the document format.
type ObjectID string

// NewObjectID returns a fresh random object identifier.
func NewObjectID() ObjectID {
	raw := uuid.New()
	return ObjectID(strings.ToUpper(hex.EncodeToString(raw[:])[:24]))
}

// NodeKind indicates the kind of tree node.
type NodeKind int

const (
	// KindGroup represents a named container, optionally bound to a directory.
	KindGroup NodeKind = iota
	// KindFileReference represents a leaf pointing at one physical file.
	KindFileReference
	// KindVariantGroup represents one logical localized resource holding one
	// file reference per language.
	KindVariantGroup
)

// String returns the string representation of a NodeKind.
func (k NodeKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindFileReference:
		return "file"
	case KindVariantGroup:
		return "variant"
	default:
		return "unknown"
	}
}

// SourceTree indicates how a node's bound path is anchored.
type SourceTree int

const (
	// SourceTreeGroup anchors the path relative to the parent group's
	// resolved directory.
	SourceTreeGroup SourceTree = iota
	// SourceTreeAbsolute anchors the path at the filesystem root.
	SourceTreeAbsolute
)

// String returns the document-format spelling of a SourceTree.
func (s SourceTree) String() string {
	switch s {
	case SourceTreeAbsolute:
		return "<absolute>"
	default:
		return "<group>"
	}
}

// Node is an entry in the project tree: a group, a file reference, or a
// variant group. Groups and variant groups hold ordered children; file
// references are always leaves. Parent links exist only for path
// resolution; ownership runs strictly parent to child.
type Node struct {
	// ID uniquely identifies this node in the document.
	ID ObjectID
	// Kind indicates the node variant.
	Kind NodeKind
	// Name is the explicit display name; may be empty when Path is set.
	Name string
	// Path is the bound filesystem path: a directory for groups and
	// variant groups, a file for file references. May be empty for purely
	// logical groups.
	Path string
	// SourceTree anchors Path.
	SourceTree SourceTree

	// File reference attributes, used for special entries such as the
	// install manifest.
	ExplicitFileType   string
	LanguageIdentifier string
	TabWidth           int
	IndentWidth        int

	parent   *Node
	children []*Node
}

func newNode(kind NodeKind, name, path string, st SourceTree) *Node {
	return &Node{
		ID:         NewObjectID(),
		Kind:       kind,
		Name:       name,
		Path:       path,
		SourceTree: st,
	}
}

// AddGroup creates a group named name under n, bound to path, and returns
// it. The path may be empty for a purely logical group. Returns nil if n
// cannot hold children.
func (n *Node) AddGroup(name, path string, st SourceTree) *Node {
	return n.add(newNode(KindGroup, name, path, st))
}

// AddVariantGroup creates a variant group named name under n, bound to the
// directory dir, and returns it. Returns nil if n cannot hold children.
func (n *Node) AddVariantGroup(name, dir string, st SourceTree) *Node {
	return n.add(newNode(KindVariantGroup, name, dir, st))
}

// AddFileReference creates a file reference to path under n and returns it.
// Returns nil if n cannot hold children.
func (n *Node) AddFileReference(path string, st SourceTree) *Node {
	return n.add(newNode(KindFileReference, "", path, st))
}

func (n *Node) add(child *Node) *Node {
	if !n.IsContainer() {
		return nil
	}
	child.parent = n
	n.children = append(n.children, child)
	return child
}

// IsContainer reports whether n can hold child nodes.
func (n *Node) IsContainer() bool {
	return n.Kind == KindGroup || n.Kind == KindVariantGroup
}

// IsLeaf reports whether n is a file reference.
func (n *Node) IsLeaf() bool {
	return n.Kind == KindFileReference
}

// DisplayName returns the name shown for n in the tree: the explicit name
// when set, otherwise the base of the bound path.
func (n *Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	if n.Path != "" {
		return filepath.Base(n.Path)
	}
	return ""
}

// Child returns the direct child whose display name matches name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.children {
		if c.DisplayName() == name {
			return c
		}
	}
	return nil
}

// Parent returns the node owning n, or nil for the root group.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns n's direct children in insertion order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// RealPath returns the absolute filesystem path n is bound to, resolving
// group-relative paths against the ancestor chain.
func (n *Node) RealPath() string {
	if n.SourceTree == SourceTreeAbsolute || n.parent == nil {
		return filepath.Clean(n.Path)
	}
	base := n.parent.RealPath()
	if n.Path == "" {
		return base
	}
	return filepath.Join(base, n.Path)
}

// Walk visits n and all its descendants in depth-first order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Walk(fn)
	}
}
