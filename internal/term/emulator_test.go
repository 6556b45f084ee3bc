package term

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmulatorWriteAndRender(t *testing.T) {
	emu := NewEmulator(40, 10)

	emu.Write([]byte("hello world"))

	rendered := emu.Render()
	assert.Contains(t, rendered, "hello world")
}

func TestEmulatorOrderedWrites(t *testing.T) {
	emu := NewEmulator(40, 10)

	for _, chunk := range []string{"A", "B", "C", "D"} {
		emu.Write([]byte(chunk))
	}

	first := strings.Split(emu.Render(), "\n")[0]
	assert.Contains(t, first, "ABCD")
}

func TestEmulatorResize(t *testing.T) {
	emu := NewEmulator(80, 24)

	emu.Resize(120, 40)
	cols, rows := emu.Size()
	assert.Equal(t, 120, cols)
	assert.Equal(t, 40, rows)

	// Invalid geometry is ignored.
	emu.Resize(0, -1)
	cols, rows = emu.Size()
	assert.Equal(t, 120, cols)
	assert.Equal(t, 40, rows)
}

func TestEmulatorClear(t *testing.T) {
	emu := NewEmulator(40, 10)

	emu.Write([]byte("some output"))
	emu.Clear()

	assert.NotContains(t, emu.Render(), "some output")
}

func TestEmulatorHandlesAnsiSequences(t *testing.T) {
	emu := NewEmulator(40, 10)

	// Colored text renders as plain characters.
	emu.Write([]byte("\033[31mred\033[0m plain"))

	rendered := emu.Render()
	assert.Contains(t, rendered, "red plain")
	assert.NotContains(t, rendered, "\033[31m")
}

func TestClassifySize(t *testing.T) {
	tests := []struct {
		cols, rows int
		want       SizeClass
	}{
		{40, 12, SizeSmall},
		{79, 24, SizeSmall},
		{100, 10, SizeSmall},
		{80, 24, SizeMedium},
		{139, 40, SizeMedium},
		{140, 40, SizeLarge},
		{200, 60, SizeLarge},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifySize(tt.cols, tt.rows), "cols=%d rows=%d", tt.cols, tt.rows)
	}
}
