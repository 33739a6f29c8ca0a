package article

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	nethtml "golang.org/x/net/html"
)

func (r screenRenderer) renderNodes(nodes []*nethtml.Node, listDepth int) []string {
	lines := make([]string, 0, len(nodes)*2)
	inlineParts := make([]string, 0, 4)
	appendBlock := func(block []string) {
		if len(block) == 0 {
			return
		}
		if len(lines) > 0 && lines[len(lines)-1] != "" {
			lines = append(lines, "")
		}
		lines = append(lines, block...)
	}
	flushInline := func() {
		text := normalizeInlineText(strings.Join(inlineParts, " "))
		inlineParts = inlineParts[:0]
		if text != "" {
			appendBlock(wrapText(text, r.width))
		}
	}

	for _, node := range nodes {
		switch node.Type {
		case nethtml.TextNode:
			inlineParts = append(inlineParts, node.Data)
		case nethtml.ElementNode:
			if isBlockElement(node.Data) {
				flushInline()
				appendBlock(r.renderBlock(node, listDepth))
				continue
			}
			inlineParts = append(inlineParts, r.renderInlineNode(node))
		}
	}
	flushInline()
	return trimBlankLines(lines)
}

// narrowed returns a renderer for content indented by columns.
func (r screenRenderer) narrowed(columns int) screenRenderer {
	r.width = max(1, r.width-columns)
	return r
}

func (r screenRenderer) renderBlock(node *nethtml.Node, listDepth int) []string {
	tag := strings.ToLower(node.Data)
	switch tag {
	case "script", "style", "noscript", "img":
		return nil
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(tag[1] - '0')
		prefix := r.headingPrefix(level)
		text := normalizeInlineText(r.renderInlineChildren(node))
		return r.styleLines(
			wrapPrefixedText(text, r.width, prefix, strings.Repeat(" ", visibleLen(prefix))),
			detailHeadingStyle,
		)
	case "p", "div", "section", "article", "main", "header", "footer", "aside", "nav":
		indent := paddingColumns(node)
		inner := r.narrowed(indent)
		var lines []string
		if hasBlockChild(node) {
			lines = inner.renderNodes(elementChildren(node), listDepth)
		} else if text := normalizeInlineText(inner.renderInlineChildren(node)); text != "" {
			lines = wrapText(text, inner.width)
		}
		if style, ok := r.classStyle(node); ok {
			lines = r.styleLines(lines, style)
		}
		return indentLines(lines, indent)
	case "blockquote":
		inner := r.narrowed(2).renderNodes(elementChildren(node), listDepth)
		out := make([]string, 0, len(inner))
		for _, line := range inner {
			if strings.TrimSpace(line) == "" {
				out = append(out, "")
				continue
			}
			out = append(out, r.quotePrefix()+r.style(detailQuoteText, line))
		}
		return out
	case "ul":
		return r.renderList(node, false, listDepth+1)
	case "ol":
		return r.renderList(node, true, listDepth+1)
	case "pre":
		text := strings.ReplaceAll(collectRawText(node), "\r\n", "\n")
		rawLines := strings.Split(text, "\n")
		out := make([]string, 0, len(rawLines))
		for _, line := range rawLines {
			line = strings.TrimRight(line, " \t")
			if line == "" {
				out = append(out, "")
				continue
			}
			out = append(out, "    "+r.style(detailCodeStyle, line))
		}
		return trimBlankLines(out)
	case "hr":
		return []string{strings.Repeat("-", min(max(r.width, 3), 24))}
	case "li":
		return r.renderListItem(node, listDepth, "- ")
	default:
		text := normalizeInlineText(r.renderInlineChildren(node))
		if text != "" {
			return wrapText(text, r.width)
		}
		return r.renderNodes(elementChildren(node), listDepth)
	}
}

func (r screenRenderer) renderList(node *nethtml.Node, ordered bool, listDepth int) []string {
	lines := make([]string, 0, 16)
	itemIndex := 0
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != nethtml.ElementNode || strings.ToLower(child.Data) != "li" {
			continue
		}
		itemIndex++
		marker := unorderedListMarker(listDepth)
		if ordered {
			marker = fmt.Sprintf("%d. ", itemIndex)
		}
		lines = append(lines, r.renderListItem(child, listDepth, marker)...)
	}
	return trimBlankLines(lines)
}

func (r screenRenderer) renderListItem(node *nethtml.Node, listDepth int, marker string) []string {
	indent := strings.Repeat("  ", max(0, listDepth-1))
	firstPrefix := indent + marker
	restPrefix := indent + strings.Repeat(" ", visibleLen(marker))
	lines := make([]string, 0, 8)

	textParts := make([]string, 0, 4)
	var nested []*nethtml.Node
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.ElementNode {
			switch strings.ToLower(child.Data) {
			case "ul", "ol":
				nested = append(nested, child)
				continue
			}
		}
		textParts = append(textParts, r.renderInlineNode(child))
	}
	if text := normalizeInlineText(strings.Join(textParts, " ")); text != "" {
		lines = append(lines, wrapPrefixedText(text, r.width, firstPrefix, restPrefix)...)
	}
	for _, child := range nested {
		lines = append(lines, r.renderList(child, strings.EqualFold(child.Data, "ol"), listDepth+1)...)
	}
	return lines
}

// wrapPrefixedText wraps text so that every line, prefix included, fits width.
func wrapPrefixedText(text string, width int, firstPrefix, restPrefix string) []string {
	text = strings.ReplaceAll(normalizeInlineText(text), "\n", " ")
	if text == "" {
		return nil
	}
	lineWidth := max(1, width-max(visibleLen(firstPrefix), visibleLen(restPrefix)))
	wrapped := wrapText(text, lineWidth)
	out := make([]string, len(wrapped))
	for i, line := range wrapped {
		prefix := restPrefix
		if i == 0 {
			prefix = firstPrefix
		}
		out[i] = prefix + line
	}
	return out
}

func (r screenRenderer) headingPrefix(level int) string {
	level = min(max(level, 1), len(detailHeadingBars))
	return r.style(detailHeadingBars[level-1], "▌") + strings.Repeat(" ", max(1, level-1))
}

func (r screenRenderer) quotePrefix() string {
	return r.style(detailQuoteBar, "│") + " "
}

func unorderedListMarker(listDepth int) string {
	switch listDepth {
	case 1:
		return "• "
	case 2:
		return "◦ "
	case 3:
		return "▪ "
	default:
		return "▫ "
	}
}

// classStyle maps the screen classes that carry meaning onto terminal styles.
func (r screenRenderer) classStyle(node *nethtml.Node) (lipgloss.Style, bool) {
	switch {
	case hasClass(node, "meta"), hasClass(node, "byline"):
		return detailMetaStyle, true
	case hasClass(node, "empty"):
		return detailEmptyStyle, true
	default:
		return lipgloss.Style{}, false
	}
}

func (r screenRenderer) style(style lipgloss.Style, text string) string {
	if r.opts.Plain || text == "" {
		return text
	}
	return style.Render(text)
}

func (r screenRenderer) styleLines(lines []string, style lipgloss.Style) []string {
	if len(lines) == 0 {
		return nil
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			out[i] = line
			continue
		}
		out[i] = r.style(style, line)
	}
	return out
}

func isBlockElement(tag string) bool {
	switch strings.ToLower(tag) {
	case "h1", "h2", "h3", "h4", "h5", "h6",
		"p", "div", "section", "article", "main", "header", "footer", "aside", "nav",
		"blockquote", "ul", "ol", "li", "img", "pre", "hr", "table":
		return true
	default:
		return false
	}
}

func hasBlockChild(node *nethtml.Node) bool {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.ElementNode && isBlockElement(child.Data) {
			return true
		}
	}
	return false
}
