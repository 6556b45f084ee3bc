package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlightDiffKeepsContent(t *testing.T) {
	diff := strings.Join([]string{
		"diff --git a/main.go b/main.go",
		"--- a/main.go",
		"+++ b/main.go",
		"@@ -1,3 +1,4 @@",
		" package main",
		"+// added line",
		"-// removed line",
	}, "\n")

	out := highlightDiff(diff)
	assert.Contains(t, out, "added line")
	assert.Contains(t, out, "removed line")
}

func TestHighlightDiffEmptyPassthrough(t *testing.T) {
	assert.Equal(t, "", highlightDiff(""))
	assert.Equal(t, "  \n", highlightDiff("  \n"))
}
