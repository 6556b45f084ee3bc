package term

import (
	"bytes"
	"strings"
	"sync"

	"github.com/hinshun/vt10x"
)

// SizeClass buckets the terminal geometry into discrete rendering steps.
// Purely a presentation concern; it has no protocol effect.
type SizeClass int

const (
	SizeSmall SizeClass = iota
	SizeMedium
	SizeLarge
)

// ClassifySize maps terminal geometry to a size class using fixed width
// breakpoints.
func ClassifySize(cols, rows int) SizeClass {
	switch {
	case cols < 80 || rows < 20:
		return SizeSmall
	case cols < 140:
		return SizeMedium
	default:
		return SizeLarge
	}
}

// Emulator wraps vt10x to turn the ordered PTY byte stream into a renderable
// screen. It is written to from the websocket read loop and rendered from the
// UI loop, so access is serialized internally.
type Emulator struct {
	mu       sync.Mutex
	terminal vt10x.Terminal
	cols     int
	rows     int
}

// NewEmulator creates a terminal emulator with the given geometry.
func NewEmulator(cols, rows int) *Emulator {
	vt := vt10x.New(vt10x.WithSize(cols, rows))
	return &Emulator{
		terminal: vt,
		cols:     cols,
		rows:     rows,
	}
}

// Write feeds one chunk of PTY output through the emulator.
func (e *Emulator) Write(data []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, _ = e.terminal.Write(data)
}

// Resize updates the terminal dimensions.
func (e *Emulator) Resize(cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cols = cols
	e.rows = rows
	e.terminal.Resize(cols, rows)
}

// Size returns the current geometry.
func (e *Emulator) Size() (cols, rows int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cols, e.rows
}

// Render returns the current screen contents as plain text with a block
// cursor, trailing empty lines trimmed.
func (e *Emulator) Render() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	var buf bytes.Buffer

	cursor := e.terminal.Cursor()
	cursorVisible := e.terminal.CursorVisible()

	for row := 0; row < e.rows; row++ {
		if row > 0 {
			buf.WriteString("\n")
		}

		for col := 0; col < e.cols; col++ {
			cell := e.terminal.Cell(col, row)

			if cursorVisible && row == cursor.Y && col == cursor.X {
				if cell.Char == 0 || cell.Char == ' ' {
					buf.WriteRune('█')
				} else {
					buf.WriteRune(cell.Char)
				}
			} else if cell.Char == 0 {
				buf.WriteRune(' ')
			} else {
				buf.WriteRune(cell.Char)
			}
		}
	}

	lines := strings.Split(buf.String(), "\n")
	lastNonEmpty := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			lastNonEmpty = i
			break
		}
	}
	if lastNonEmpty < 0 {
		return ""
	}
	return strings.Join(lines[:lastNonEmpty+1], "\n")
}

// CursorPosition returns the current cursor row and column.
func (e *Emulator) CursorPosition() (row, col int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cursor := e.terminal.Cursor()
	return cursor.Y, cursor.X
}

// Clear resets the screen.
func (e *Emulator) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, _ = e.terminal.Write([]byte("\033[2J\033[H"))
}
