package article

import (
	"html"
	"strings"

	"github.com/charmbracelet/lipgloss"
	nethtml "golang.org/x/net/html"
)

func (r screenRenderer) renderInlineChildren(node *nethtml.Node) string {
	parts := make([]string, 0, 4)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		parts = append(parts, r.renderInlineNode(child))
	}
	return strings.Join(parts, "")
}

func (r screenRenderer) renderInlineNode(node *nethtml.Node) string {
	if node == nil {
		return ""
	}
	switch node.Type {
	case nethtml.TextNode:
		return node.Data
	case nethtml.ElementNode:
		tag := strings.ToLower(node.Data)
		switch tag {
		case "script", "style", "noscript", "img":
			return ""
		case "br":
			return "\n"
		case "a":
			text := normalizeInlineText(r.renderInlineChildren(node))
			href := nodeAttr(node, "href")
			switch {
			case href == "":
				return text
			case text == "":
				return "(" + href + ")"
			case strings.EqualFold(text, href):
				return "(" + href + ")"
			default:
				return text + " (" + href + ")"
			}
		case "span":
			text := r.renderInlineChildren(node)
			if hasClass(node, "marker") {
				return r.style(detailReadMarker, normalizeInlineText(text))
			}
			return text
		case "strong", "b":
			return r.styleWords(detailStrongStyle, r.renderInlineChildren(node))
		case "em", "i":
			return r.styleWords(detailEmphasisStyle, r.renderInlineChildren(node))
		case "code", "kbd", "samp":
			text := normalizeInlineText(r.renderInlineChildren(node))
			if text == "" {
				return ""
			}
			return r.styleWords(detailCodeStyle, "`"+text+"`")
		default:
			return r.renderInlineChildren(node)
		}
	default:
		return ""
	}
}

// styleWords styles each word on its own so wrapping never splits an escape
// sequence across lines.
func (r screenRenderer) styleWords(style lipgloss.Style, text string) string {
	text = normalizeInlineText(text)
	if r.opts.Plain || text == "" {
		return text
	}
	words := strings.Fields(text)
	for i, w := range words {
		words[i] = style.Render(w)
	}
	return strings.Join(words, " ")
}

func normalizeInlineText(s string) string {
	s = html.UnescapeString(s)
	parts := strings.Split(s, "\n")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.Join(strings.Fields(part), " ")
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	normalized := strings.Join(out, "\n")
	replacer := strings.NewReplacer(
		" .", ".",
		" ,", ",",
		" ;", ";",
		" !", "!",
		" ?", "?",
		"( ", "(",
	)
	return replacer.Replace(normalized)
}
