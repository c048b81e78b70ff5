// Package markdown renders note content and extracts its outline.
package markdown

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

const extensions = blackfriday.CommonExtensions | blackfriday.AutoHeadingIDs

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").Matching(regexp.MustCompile(`^[\p{L}\p{N}_-]+$`)).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	return p
}

// Heading is one entry of a table of contents.
type Heading struct {
	Level  int
	Text   string
	Anchor string
}

// Render converts Markdown to sanitized HTML. Headings carry ids matching
// the anchors returned by TableOfContents.
func Render(src string) template.HTML {
	unsafe := blackfriday.Run([]byte(normalize(src)), blackfriday.WithExtensions(extensions))
	return template.HTML(policy.SanitizeBytes(unsafe))
}

// TableOfContents lists headings of level 1 to 3 in document order.
func TableOfContents(src string) []Heading {
	root := blackfriday.New(blackfriday.WithExtensions(extensions)).Parse([]byte(normalize(src)))

	var headings []Heading
	seen := make(map[string]int)
	root.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if !entering || node.Type != blackfriday.Heading {
			return blackfriday.GoToNext
		}
		anchor := node.HeadingID
		if anchor != "" {
			anchor = uniqueID(seen, anchor)
		}
		if node.Level <= 3 {
			headings = append(headings, Heading{
				Level:  node.Level,
				Text:   strings.TrimSpace(text(node)),
				Anchor: anchor,
			})
		}
		return blackfriday.SkipChildren
	})
	return headings
}

// uniqueID suffixes repeated ids the way the HTML renderer does.
func uniqueID(seen map[string]int, id string) string {
	for count, found := seen[id]; found; count, found = seen[id] {
		tmp := fmt.Sprintf("%s-%d", id, count+1)
		if _, tmpFound := seen[tmp]; !tmpFound {
			seen[id] = count + 1
			id = tmp
		} else {
			id = id + "-1"
		}
	}
	if _, found := seen[id]; !found {
		seen[id] = 0
	}
	return id
}

func text(node *blackfriday.Node) string {
	var b strings.Builder
	node.Walk(func(n *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if entering && (n.Type == blackfriday.Text || n.Type == blackfriday.Code) {
			b.Write(n.Literal)
		}
		return blackfriday.GoToNext
	})
	return b.String()
}

func normalize(src string) string {
	return strings.ReplaceAll(src, "\r\n", "\n")
}
