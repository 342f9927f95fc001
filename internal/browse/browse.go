package browse

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dmcrae/podforge/internal/pbxproj"
	"github.com/dmcrae/podforge/internal/pods"
)

// chrome is the number of rows reserved for header and status line.
const chrome = 2

// UI renders a Model on a tcell screen and drives it from key events.
type UI struct {
	screen  tcell.Screen
	model   *Model
	project *pods.Project
}

// New creates a UI on a real terminal screen.
func New(project *pods.Project) (*UI, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen, project), nil
}

// NewWithScreen creates a UI on the given screen. Tests pass a
// simulation screen.
func NewWithScreen(screen tcell.Screen, project *pods.Project) *UI {
	return &UI{
		screen:  screen,
		model:   NewModel(project),
		project: project,
	}
}

// Model returns the view model the UI drives.
func (u *UI) Model() *Model {
	return u.model
}

// Run initializes the screen and processes events until the user quits.
func (u *UI) Run() error {
	if err := u.screen.Init(); err != nil {
		return err
	}
	defer u.screen.Fini()

	u.draw()
	for {
		switch ev := u.screen.PollEvent().(type) {
		case *tcell.EventResize:
			u.screen.Sync()
			u.draw()
		case *tcell.EventKey:
			if u.handleKey(ev) {
				return nil
			}
			u.draw()
		case nil:
			return nil
		}
	}
}

// handleKey applies one key event and reports whether to quit.
func (u *UI) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		u.model.Move(-1)
	case tcell.KeyDown:
		u.model.Move(1)
	case tcell.KeyPgUp:
		u.model.Move(-u.pageSize())
	case tcell.KeyPgDn:
		u.model.Move(u.pageSize())
	case tcell.KeyEnter:
		u.model.Toggle()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'k':
			u.model.Move(-1)
		case 'j':
			u.model.Move(1)
		case ' ':
			u.model.Toggle()
		}
	}
	return false
}

// pageSize returns the number of tree rows that fit on screen.
func (u *UI) pageSize() int {
	_, h := u.screen.Size()
	if h <= chrome {
		return 1
	}
	return h - chrome
}

// draw renders header, visible tree rows and status line.
func (u *UI) draw() {
	u.screen.Clear()
	w, h := u.screen.Size()
	if w == 0 || h == 0 {
		u.screen.Show()
		return
	}

	u.drawText(0, 0, tcell.StyleDefault.Bold(true), pad("podforge: "+u.project.Path(), w))

	visible := h - chrome
	if visible < 0 {
		visible = 0
	}
	offset := 0
	if visible > 0 && u.model.Cursor() >= visible {
		offset = u.model.Cursor() - visible + 1
	}
	rows := u.model.Rows()
	for i := 0; i < visible && offset+i < len(rows); i++ {
		style := tcell.StyleDefault
		if offset+i == u.model.Cursor() {
			style = style.Reverse(true)
		}
		u.drawText(0, i+1, style, pad(rowLabel(rows[offset+i]), w))
	}

	if h >= chrome {
		u.drawText(0, h-1, tcell.StyleDefault.Dim(true), pad(u.statusLine(), w))
	}

	u.screen.Show()
}

// drawText writes text starting at x, y in the given style.
func (u *UI) drawText(x, y int, style tcell.Style, text string) {
	col := x
	for _, r := range text {
		u.screen.SetContent(col, y, r, nil, style)
		col++
	}
}

// statusLine describes the selection and overall project size.
func (u *UI) statusLine() string {
	stats := u.project.Stats()
	counts := fmt.Sprintf("%d groups, %d files, %d localized, %d configurations",
		stats.Groups, stats.FileReferences, stats.VariantGroups, stats.Configurations)
	sel := u.model.Selected()
	if sel == nil {
		return counts
	}
	return sel.RealPath() + " | " + counts
}

// rowLabel formats one tree row: indentation, an expansion marker for
// containers, and the display name.
func rowLabel(row Row) string {
	prefix := "  "
	if row.Node.IsContainer() {
		if row.Expanded {
			prefix = "- "
		} else {
			prefix = "+ "
		}
	}
	label := strings.Repeat("  ", row.Depth) + prefix + row.Node.DisplayName()
	if row.Node.Kind == pbxproj.KindVariantGroup {
		label += " [localized]"
	}
	return label
}

// pad truncates or space-pads s to width runes so row styles span the
// full line.
func pad(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return string(runes[:width])
	}
	return s + strings.Repeat(" ", width-len(runes))
}
