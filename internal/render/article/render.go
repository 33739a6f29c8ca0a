// Package article turns screen markup into wrapped terminal lines.
package article

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// IndentUnit is the number of CSS pixels per terminal column of
// padding-left indentation.
const IndentUnit = 20

var (
	reANSICodes   = regexp.MustCompile(`\x1b\[[0-9;]*m`)
	rePaddingLeft = regexp.MustCompile(`(?i)padding-left\s*:\s*(\d+)px`)
	reLinkTarget  = regexp.MustCompile(`\((#/[^\s)]*|https?://[^\s)]+)\)`)
)

type Options struct {
	// Plain disables ANSI styling.
	Plain bool
}

var DefaultOptions = Options{}

// Link is an anchor of the markup, in document order.
type Link struct {
	Text string
	Href string
}

type screenRenderer struct {
	width int
	opts  Options
}

func Lines(markup string, width int) []string {
	return LinesWithOptions(markup, width, DefaultOptions)
}

func LinesWithOptions(markup string, width int, opts Options) []string {
	nodes, ok := parseFragment(markup)
	if !ok {
		text := strings.TrimSpace(html.UnescapeString(markup))
		if text == "" {
			return nil
		}
		return wrapText(text, width)
	}
	r := screenRenderer{width: max(1, width), opts: opts}
	lines := trimBlankLines(r.renderNodes(significant(nodes), 0))
	if !opts.Plain {
		lines = styleLinkTargets(lines)
	}
	return lines
}

// Text renders the markup without styling, one line per row.
func Text(markup string, width int) string {
	return strings.Join(LinesWithOptions(markup, width, Options{Plain: true}), "\n")
}

func Links(markup string) []Link {
	nodes, ok := parseFragment(markup)
	if !ok {
		return nil
	}
	var links []Link
	var walk func(*nethtml.Node)
	walk = func(node *nethtml.Node) {
		if node.Type == nethtml.ElementNode && node.DataAtom == atom.A {
			if href := nodeAttr(node, "href"); href != "" {
				links = append(links, Link{Text: normalizeInlineText(collectRawText(node)), Href: href})
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, node := range nodes {
		walk(node)
	}
	return links
}

func parseFragment(markup string) ([]*nethtml.Node, bool) {
	markup = strings.TrimSpace(markup)
	if markup == "" {
		return nil, false
	}
	body := &nethtml.Node{Type: nethtml.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := nethtml.ParseFragment(strings.NewReader(markup), body)
	if err != nil || len(nodes) == 0 {
		return nil, false
	}
	return nodes, true
}

// paddingColumns converts an inline padding-left declaration into columns.
func paddingColumns(node *nethtml.Node) int {
	m := rePaddingLeft.FindStringSubmatch(nodeAttr(node, "style"))
	if m == nil {
		return 0
	}
	px, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return px / IndentUnit
}

func styleLinkTargets(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = reLinkTarget.ReplaceAllStringFunc(line, func(target string) string {
			return detailLinkURL.Render(target)
		})
	}
	return out
}

func trimBlankLines(lines []string) []string {
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines) - 1
	for end >= start && strings.TrimSpace(lines[end]) == "" {
		end--
	}
	if end < start {
		return nil
	}
	out := make([]string, 0, end-start+1)
	prevBlank := false
	for i := start; i <= end; i++ {
		blank := strings.TrimSpace(lines[i]) == ""
		if blank && prevBlank {
			continue
		}
		out = append(out, lines[i])
		prevBlank = blank
	}
	return out
}

// wrapText wraps on whitespace, measuring visible runes so styled words keep
// their width. Unstyled words longer than width are split.
func wrapText(text string, width int) []string {
	if width < 1 {
		return []string{text}
	}
	paragraphs := strings.Split(text, "\n")
	out := make([]string, 0, len(paragraphs))

	for _, p := range paragraphs {
		words := strings.Fields(p)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := ""
		lineLen := 0
		for _, word := range words {
			if !strings.Contains(word, "\x1b") {
				for utf8.RuneCountInString(word) > width {
					if line != "" {
						out = append(out, line)
						line, lineLen = "", 0
					}
					head, tail := splitRunes(word, width)
					out = append(out, head)
					word = tail
				}
			}
			wordLen := visibleLen(word)
			if line == "" {
				line, lineLen = word, wordLen
				continue
			}
			if lineLen+1+wordLen <= width {
				line += " " + word
				lineLen += 1 + wordLen
				continue
			}
			out = append(out, line)
			line, lineLen = word, wordLen
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func splitRunes(s string, n int) (string, string) {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], s[pos:]
		}
		i++
	}
	return s, ""
}

func indentLines(lines []string, columns int) []string {
	if columns <= 0 {
		return lines
	}
	pad := strings.Repeat(" ", columns)
	out := make([]string, len(lines))
	for i, line := range lines {
		if line == "" {
			continue
		}
		out[i] = pad + line
	}
	return out
}

func visibleLen(s string) int {
	return utf8.RuneCountInString(stripANSI(s))
}

func stripANSI(s string) string {
	return reANSICodes.ReplaceAllString(s, "")
}

// significant drops whitespace-only text nodes.
func significant(nodes []*nethtml.Node) []*nethtml.Node {
	out := make([]*nethtml.Node, 0, len(nodes))
	for _, node := range nodes {
		if node.Type == nethtml.TextNode && strings.TrimSpace(node.Data) == "" {
			continue
		}
		if node.Type == nethtml.CommentNode {
			continue
		}
		out = append(out, node)
	}
	return out
}

func elementChildren(node *nethtml.Node) []*nethtml.Node {
	children := make([]*nethtml.Node, 0, 4)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		children = append(children, child)
	}
	return significant(children)
}

func nodeAttr(node *nethtml.Node, name string) string {
	for _, attr := range node.Attr {
		if strings.EqualFold(attr.Key, name) {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}

func hasClass(node *nethtml.Node, class string) bool {
	for _, c := range strings.Fields(nodeAttr(node, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func collectRawText(node *nethtml.Node) string {
	if node == nil {
		return ""
	}
	if node.Type == nethtml.TextNode {
		return node.Data
	}
	var b strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(collectRawText(child))
	}
	return b.String()
}
