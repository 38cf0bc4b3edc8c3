package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderEmpty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", Render(80, "  \n"))
}

func TestRenderTable(t *testing.T) {
	t.Parallel()

	out := Render(80, "| mode | minutes |\n|---|---|\n| focus | 25 |\n")
	assert.Contains(t, out, "focus")
	assert.Contains(t, out, "25")
}

func TestRendererIsCachedPerWidth(t *testing.T) {
	t.Parallel()

	a := markdownRenderer(60)
	b := markdownRenderer(60)
	assert.Same(t, a, b)
}
