package view

import (
	"html"
	"strconv"
	"strings"

	"github.com/glabrego/hnpwa-cli/internal/hnpwa"
)

// IndentUnit is the left padding in pixels added per comment level.
const IndentUnit = 40

// RenderComments flattens a comment tree into markup in pre-order: each
// comment is followed by its replies before its next sibling. Indentation
// comes from the level reported by the API, not from the recursion depth.
func RenderComments(comments []hnpwa.CommentNode, sanitize func(string) string) string {
	var b strings.Builder
	writeComments(&b, comments, sanitize)
	return b.String()
}

func writeComments(b *strings.Builder, comments []hnpwa.CommentNode, sanitize func(string) string) {
	for _, c := range comments {
		writeComment(b, c, sanitize)
		if len(c.Comments) > 0 {
			writeComments(b, c.Comments, sanitize)
		}
	}
}

func writeComment(b *strings.Builder, c hnpwa.CommentNode, sanitize func(string) string) {
	content := c.Content
	if sanitize != nil {
		content = sanitize(content)
	}
	b.WriteString(`<div class="comment" data-id="`)
	b.WriteString(strconv.FormatInt(c.ID, 10))
	b.WriteString(`" data-level="`)
	b.WriteString(strconv.Itoa(c.Level))
	b.WriteString(`" style="padding-left: `)
	b.WriteString(strconv.Itoa(CommentIndent(c.Level)))
	b.WriteString(`px;">`)
	b.WriteString(`<p class="byline"><strong>`)
	b.WriteString(html.EscapeString(c.User))
	b.WriteString(`</strong> `)
	b.WriteString(html.EscapeString(c.TimeAgo))
	b.WriteString(`</p>`)
	b.WriteString(`<div class="text">`)
	b.WriteString(content)
	b.WriteString(`</div></div>`)
	b.WriteString("\n")
}

// CommentIndent returns the padding for level; negative levels get none.
func CommentIndent(level int) int {
	if level < 0 {
		return 0
	}
	return level * IndentUnit
}
