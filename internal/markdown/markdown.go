package markdown

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

var (
	rendererMu sync.Mutex
	renderers  = map[int]*glamour.TermRenderer{}
)

// Render formats markdown for a terminal of the given width. If rendering
// fails the input is returned unchanged.
func Render(width int, input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}

	renderer := markdownRenderer(width)
	if renderer == nil {
		return input
	}
	out, err := renderer.Render(input)
	if err != nil {
		return input
	}
	return strings.TrimRight(out, "\n") + "\n"
}

func markdownRenderer(width int) *glamour.TermRenderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if cached, ok := renderers[width]; ok {
		return cached
	}
	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.ASCIIStyleConfig),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderers[width] = created
	return created
}
