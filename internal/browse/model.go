// Package browse provides an interactive terminal tree view of an
// installed pods project.
package browse

import (
	"github.com/dmcrae/podforge/internal/pbxproj"
	"github.com/dmcrae/podforge/internal/pods"
)

// Row is one visible line of the tree.
type Row struct {
	Node     *pbxproj.Node
	Depth    int
	Expanded bool
}

// Model holds the browsing state: which groups are expanded and where
// the cursor sits. It knows nothing about the screen.
type Model struct {
	project  *pods.Project
	expanded map[*pbxproj.Node]bool
	rows     []Row
	cursor   int
}

// NewModel creates a model with the top-level groups expanded.
func NewModel(project *pods.Project) *Model {
	m := &Model{
		project:  project,
		expanded: make(map[*pbxproj.Node]bool),
	}
	for _, child := range project.MainGroup().Children() {
		if child.IsContainer() {
			m.expanded[child] = true
		}
	}
	m.rebuild()
	return m
}

// Rows returns the visible rows. The slice is valid until the next
// mutating call.
func (m *Model) Rows() []Row {
	return m.rows
}

// Len returns the number of visible rows.
func (m *Model) Len() int {
	return len(m.rows)
}

// Cursor returns the index of the selected row.
func (m *Model) Cursor() int {
	return m.cursor
}

// Selected returns the node under the cursor, or nil when the tree is
// empty.
func (m *Model) Selected() *pbxproj.Node {
	if len(m.rows) == 0 {
		return nil
	}
	return m.rows[m.cursor].Node
}

// Move shifts the cursor by delta, clamped to the visible rows.
func (m *Model) Move(delta int) {
	m.cursor += delta
	m.clamp()
}

// Toggle flips the expansion of the group under the cursor. Leaves are
// left alone.
func (m *Model) Toggle() {
	node := m.Selected()
	if node == nil || !node.IsContainer() {
		return
	}
	m.expanded[node] = !m.expanded[node]
	m.rebuild()
}

// rebuild flattens the tree into visible rows, honoring expansion.
func (m *Model) rebuild() {
	m.rows = m.rows[:0]
	for _, child := range m.project.MainGroup().Children() {
		m.appendRows(child, 0)
	}
	m.clamp()
}

func (m *Model) appendRows(node *pbxproj.Node, depth int) {
	expanded := m.expanded[node]
	m.rows = append(m.rows, Row{Node: node, Depth: depth, Expanded: expanded})
	if !expanded {
		return
	}
	for _, child := range node.Children() {
		m.appendRows(child, depth+1)
	}
}

func (m *Model) clamp() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
