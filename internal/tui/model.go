package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/glabrego/hnpwa-cli/internal/render/article"
	"github.com/glabrego/hnpwa-cli/internal/router"
	"github.com/glabrego/hnpwa-cli/internal/state"
	"github.com/glabrego/hnpwa-cli/internal/tui/actions"
	"github.com/glabrego/hnpwa-cli/internal/tui/platform"
	tuistate "github.com/glabrego/hnpwa-cli/internal/tui/state"
	tuitheme "github.com/glabrego/hnpwa-cli/internal/tui/theme"
	tuiview "github.com/glabrego/hnpwa-cli/internal/tui/view"
)

const (
	sourceInit    = "init"
	sourceLink    = "link"
	sourcePage    = "page"
	sourceAddress = "address"
	sourceHistory = "history"
	sourceReload  = "reload"
)

type Model struct {
	nav   actions.Navigator
	start string

	route      router.Route
	markup     string
	lines      []string
	links      []article.Link
	linkCursor int
	top        int
	history    tuistate.History

	width    int
	height   int
	loading  bool
	showHelp bool
	editing  bool
	address  textinput.Model

	status   string
	statusID int
	err      error

	theme     tuitheme.Theme
	openURLFn func(string) error
	copyURLFn func(string) error
}

func NewModel(nav actions.Navigator, startFragment string) Model {
	address := textinput.New()
	address.Prompt = ": "
	address.Placeholder = "#/page/1"
	address.CharLimit = 256

	return Model{
		nav:        nav,
		start:      router.Normalize(startFragment),
		route:      router.Route{Kind: router.KindFeed, Page: 1},
		linkCursor: -1,
		address:    address,
		theme:      tuitheme.Default(),
		openURLFn:  platform.OpenURLInBrowser,
		copyURLFn:  platform.CopyToClipboard,
	}
}

func (m Model) Init() tea.Cmd {
	if m.nav == nil {
		return nil
	}
	return actions.NavigateCmd(m.nav, m.start, sourceInit)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.address.Width = max(10, msg.Width-4)
		m.relayout()
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.editing {
			return m.updateAddress(msg)
		}
		if msg.String() == "?" {
			m.showHelp = !m.showHelp
			return m, nil
		}
		if m.showHelp {
			switch msg.String() {
			case "esc":
				m.showHelp = false
			case "q":
				return m, tea.Quit
			}
			return m, nil
		}
		return m.handleKey(msg)
	case actions.NavigateSuccessMsg:
		m.loading = false
		m.err = nil
		if !msg.Mounted {
			// Nothing reached the mount point; the previous screen stays.
			m.status = "Rendered " + displayFragment(msg.Route.Fragment) + " without a mount point"
			m.statusID++
			return m, actions.ClearStatusCmd(m.statusID, 4*time.Second)
		}
		m.route = msg.Route
		m.markup = msg.Markup
		m.links = article.Links(msg.Markup)
		m.linkCursor = -1
		m.top = 0
		m.relayout()
		if msg.Source != sourceHistory && msg.Source != sourceReload {
			m.history.Push(msg.Route.Fragment)
		}
		m.status = fmt.Sprintf("Loaded %s in %dms", displayFragment(msg.Route.Fragment), msg.Duration.Milliseconds())
		m.statusID++
		return m, actions.ClearStatusCmd(m.statusID, 3*time.Second)
	case actions.NavigateErrorMsg:
		// The previous screen stays in place.
		m.loading = false
		m.status = ""
		m.err = msg.Err
		return m, nil
	case actions.OpenURLSuccessMsg:
		m.err = nil
		m.status = msg.Status
		m.statusID++
		return m, actions.ClearStatusCmd(m.statusID, 3*time.Second)
	case actions.OpenURLErrorMsg:
		m.status = msg.Err.Error()
		m.statusID++
		return m, actions.ClearStatusCmd(m.statusID, 4*time.Second)
	case actions.ClearStatusMsg:
		if msg.ID == m.statusID {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "j", "down":
		m.scrollBy(1)
	case "k", "up":
		m.scrollBy(-1)
	case "pgdown", "ctrl+f":
		m.scrollBy(tuistate.PageStep(m.height, m.editing))
	case "pgup", "ctrl+b":
		m.scrollBy(-tuistate.PageStep(m.height, m.editing))
	case "g", "home":
		m.top = 0
	case "G", "end":
		m.scrollBy(len(m.lines))
	case "tab":
		m.selectLink(1)
	case "shift+tab":
		m.selectLink(-1)
	case "enter":
		return m.followSelectedLink()
	case "n":
		if m.route.Kind == router.KindFeed {
			return m.navigate(router.PageFragment(state.NextPage(m.route.Page)), sourcePage)
		}
	case "p":
		if m.route.Kind == router.KindFeed {
			return m.navigate(router.PageFragment(state.PrevPage(m.route.Page)), sourcePage)
		}
	case "esc", "backspace":
		prev, ok := m.history.Back()
		if !ok {
			m.status = "Nothing to go back to"
			return m, nil
		}
		return m.navigate(prev, sourceHistory)
	case ":":
		m.editing = true
		m.address.SetValue(m.route.Fragment)
		m.address.CursorEnd()
		return m, m.address.Focus()
	case "r":
		return m.navigate(m.route.Fragment, sourceReload)
	case "o":
		return m.openSelectedLink()
	case "y":
		return m.copySelectedLink()
	}
	return m, nil
}

func (m Model) updateAddress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		fragment := strings.TrimSpace(m.address.Value())
		m.editing = false
		m.address.Blur()
		return m.navigate(fragment, sourceAddress)
	case "esc":
		m.editing = false
		m.address.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.address, cmd = m.address.Update(msg)
	return m, cmd
}

func (m Model) navigate(fragment, source string) (tea.Model, tea.Cmd) {
	if m.nav == nil {
		return m, nil
	}
	m.loading = true
	m.err = nil
	return m, actions.NavigateCmd(m.nav, fragment, source)
}

func (m Model) selectedLink() (article.Link, bool) {
	if m.linkCursor < 0 || m.linkCursor >= len(m.links) {
		return article.Link{}, false
	}
	return m.links[m.linkCursor], true
}

func (m Model) followSelectedLink() (tea.Model, tea.Cmd) {
	link, ok := m.selectedLink()
	if !ok {
		m.status = "No link selected, press tab"
		return m, nil
	}
	if strings.HasPrefix(link.Href, "#") {
		return m.navigate(link.Href, sourceLink)
	}
	return m.openSelectedLink()
}

func (m Model) openSelectedLink() (tea.Model, tea.Cmd) {
	link, ok := m.selectedLink()
	if !ok {
		m.status = "No link selected, press tab"
		return m, nil
	}
	validURL, err := platform.ValidateExternalURL(link.Href)
	if err != nil {
		m.status = err.Error()
		m.statusID++
		return m, actions.ClearStatusCmd(m.statusID, 4*time.Second)
	}
	return m, actions.OpenURLCmd(validURL, m.openURLFn, m.copyURLFn)
}

func (m Model) copySelectedLink() (tea.Model, tea.Cmd) {
	link, ok := m.selectedLink()
	if !ok {
		m.status = "No link selected, press tab"
		return m, nil
	}
	return m, actions.CopyURLCmd(link.Href, m.copyURLFn)
}

func (m *Model) selectLink(delta int) {
	m.linkCursor = tuistate.CycleLink(m.linkCursor, len(m.links), delta)
	if line := m.linkLine(m.linkCursor); line >= 0 {
		m.top = tuistate.RevealLine(m.top, line, m.bodyHeight())
	}
}

// linkLine finds the rendered line of the link at index, matching repeated
// targets by occurrence. Links whose target wrapped across lines are not
// found.
func (m Model) linkLine(index int) int {
	if index < 0 || index >= len(m.links) {
		return -1
	}
	target := "(" + m.links[index].Href + ")"
	occurrence := 0
	for i := 0; i < index; i++ {
		if m.links[i].Href == m.links[index].Href {
			occurrence++
		}
	}
	for i, line := range m.lines {
		n := strings.Count(ansi.Strip(line), target)
		if occurrence < n {
			return i
		}
		occurrence -= n
	}
	return -1
}

func (m *Model) scrollBy(delta int) {
	m.top = tuistate.ClampTop(m.top+delta, len(m.lines), m.bodyHeight())
}

func (m *Model) relayout() {
	m.lines = article.Lines(m.markup, m.contentWidth())
	m.top = tuistate.ClampTop(m.top, len(m.lines), m.bodyHeight())
}

func (m Model) contentWidth() int {
	if m.width > 0 {
		return m.width - 1
	}
	return 100
}

func (m Model) bodyHeight() int {
	return tuistate.BodyHeight(m.height, m.editing)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Hacker News"))
	b.WriteString(" ")
	b.WriteString(m.theme.ModePill.Render(m.route.Kind.String()))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString("Help (? to close)\n\n")
		b.WriteString(strings.Join(tuiview.HelpLines(), "\n"))
		b.WriteString("\n\n")
		b.WriteString(m.messagePanel())
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.theme.Toolbar.Render(tuiview.Toolbar(m.route.Kind)))
	b.WriteString("\n")
	b.WriteString(m.body())
	b.WriteString("\n")
	b.WriteString(m.messagePanel())
	b.WriteString("\n")
	b.WriteString(tuiview.Footer(tuiview.FooterInfo{
		Location:  m.route.Fragment,
		Route:     m.route,
		LinkIndex: m.linkCursor,
		Links:     m.links,
		Line:      m.top,
		Lines:     len(m.lines),
	}, m.theme))
	b.WriteString("\n")
	if m.editing {
		b.WriteString(m.theme.Address.Render(m.address.View()))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) body() string {
	if len(m.lines) == 0 {
		if m.loading {
			return "Loading...\n"
		}
		return "Nothing to show yet.\n"
	}
	height := m.bodyHeight()
	top := tuistate.ClampTop(m.top, len(m.lines), height)
	end := min(len(m.lines), top+height)
	active := m.linkLine(m.linkCursor)

	var b strings.Builder
	for i := top; i < end; i++ {
		line := m.lines[i]
		if i == active {
			line = m.theme.RenderActiveLine(true, ansi.Strip(line))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) messagePanel() string {
	return tuiview.Message(m.loading, m.status, m.err, m.theme)
}

// Location is the fragment of the screen on display.
func (m Model) Location() string {
	return m.route.Fragment
}

func displayFragment(fragment string) string {
	if fragment == "" {
		return "#"
	}
	return fragment
}
