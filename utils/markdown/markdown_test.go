package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const note = `# Recursion

Every recursive function needs a base case.

## Base Cases

text

### Why ` + "`n == 0`" + `

#### Too deep

## Base Cases
`

func TestTableOfContents(t *testing.T) {
	toc := TableOfContents(note)
	require.Len(t, toc, 4)

	assert.Equal(t, Heading{Level: 1, Text: "Recursion", Anchor: "recursion"}, toc[0])
	assert.Equal(t, Heading{Level: 2, Text: "Base Cases", Anchor: "base-cases"}, toc[1])
	assert.Equal(t, 3, toc[2].Level)
	assert.Equal(t, "Why n == 0", toc[2].Text)
	assert.Equal(t, "base-cases-1", toc[3].Anchor)
}

func TestTableOfContentsEmpty(t *testing.T) {
	assert.Empty(t, TableOfContents("just a paragraph\n"))
}

func TestRenderHeadingIDsMatchTOC(t *testing.T) {
	html := string(Render(note))
	for _, h := range TableOfContents(note) {
		assert.Contains(t, html, `id="`+h.Anchor+`"`)
	}
	assert.Contains(t, html, "<p>Every recursive function needs a base case.</p>")
}

func TestRenderSanitizes(t *testing.T) {
	html := string(Render("hello <script>alert(1)</script>\n\n[x](javascript:alert(1))\n"))
	assert.NotContains(t, html, "<script")
	assert.NotContains(t, html, "javascript:")
	assert.Contains(t, html, "hello")
}

func TestRenderCRLF(t *testing.T) {
	html := string(Render("# Title\r\n\r\nbody\r\n"))
	assert.Contains(t, html, `<h1 id="title">Title</h1>`)
}
