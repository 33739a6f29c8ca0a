package view

import (
	"fmt"
	"strings"

	"github.com/glabrego/hnpwa-cli/internal/render/article"
	"github.com/glabrego/hnpwa-cli/internal/router"
	tuitheme "github.com/glabrego/hnpwa-cli/internal/tui/theme"
)

func Toolbar(kind router.Kind) string {
	switch kind {
	case router.KindFeed:
		return "j/k scroll | tab links | enter follow | n/p page | : address | r reload | ? help | q quit"
	case router.KindDetail:
		return "j/k scroll | tab links | enter follow | o open | y copy | esc back | ? help | q quit"
	default:
		return "tab links | enter follow | esc back | : address | ? help | q quit"
	}
}

// FooterInfo describes the screen the footer summarises.
type FooterInfo struct {
	Location  string
	Route     router.Route
	LinkIndex int
	Links     []article.Link
	Line      int
	Lines     int
}

func Footer(info FooterInfo, th tuitheme.Theme) string {
	location := info.Location
	if location == "" {
		location = "#"
	}
	parts := []string{
		th.MetaLabel.Render("at") + " " + th.MetaValue.Render(location),
		th.MetaLabel.Render("screen") + " " + th.MetaValue.Render(info.Route.Kind.String()),
	}
	if info.Route.Kind == router.KindFeed {
		parts = append(parts, th.MetaLabel.Render("page")+" "+th.MetaValue.Render(fmt.Sprintf("%d", info.Route.Page)))
	}
	if info.Lines > 0 {
		parts = append(parts, th.MetaValue.Render(fmt.Sprintf("line %d/%d", info.Line+1, info.Lines)))
	}
	if info.LinkIndex >= 0 && info.LinkIndex < len(info.Links) {
		link := info.Links[info.LinkIndex]
		parts = append(parts, th.MetaLabel.Render(fmt.Sprintf("link %d/%d", info.LinkIndex+1, len(info.Links)))+" "+th.RenderLink(link.Text, link.Href))
	} else {
		parts = append(parts, th.MetaValue.Render(fmt.Sprintf("%d links", len(info.Links))))
	}
	return strings.Join(parts, " • ")
}

func Message(loading bool, status string, err error, th tuitheme.Theme) string {
	state := "idle"
	stateLabel := th.StateIdle.Render("state")
	main := "Ready"
	switch {
	case err != nil:
		state = "warning"
		stateLabel = th.StateWarn.Render("state")
		main = err.Error()
	case loading:
		state = "loading"
		stateLabel = th.StateLoad.Render("state")
		main = "Loading..."
	}
	if status != "" {
		main = status
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}

func HelpLines() []string {
	return []string{
		"Navigation:",
		"  j/k or arrows scroll, pgup/pgdown jump, g/G top/bottom",
		"  tab/shift+tab select the next/previous link, enter follows it",
		"  n/p next/previous feed page, esc/backspace go back",
		"  : type a fragment such as #/page/2 or #/show/8863",
		"Actions:",
		"  r reload the screen, o open the selected link in a browser, y copy it",
		"  ? toggle this help, q quit",
	}
}
