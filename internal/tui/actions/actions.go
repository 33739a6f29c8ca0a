package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/hnpwa-cli/internal/router"
)

// NavigateTimeout bounds one navigation, fetch and render included.
const NavigateTimeout = 20 * time.Second

// Navigator renders a fragment and reports the screen of that navigation.
type Navigator interface {
	Show(ctx context.Context, fragment string) (router.Screen, error)
}

type NavigateSuccessMsg struct {
	Route    router.Route
	Markup   string
	Mounted  bool
	Duration time.Duration
	Source   string
}

type NavigateErrorMsg struct {
	Fragment string
	Err      error
	Duration time.Duration
	Source   string
}

type OpenURLSuccessMsg struct {
	Status string
	Opened bool
}

type OpenURLErrorMsg struct {
	Err error
}

type ClearStatusMsg struct {
	ID int
}

func NavigateCmd(nav Navigator, fragment, source string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), NavigateTimeout)
		defer cancel()
		start := time.Now()

		screen, err := nav.Show(ctx, fragment)
		if err != nil {
			return NavigateErrorMsg{Fragment: fragment, Err: err, Duration: time.Since(start), Source: source}
		}
		return NavigateSuccessMsg{
			Route:    screen.Route,
			Markup:   screen.Markup,
			Mounted:  screen.Mounted,
			Duration: time.Since(start),
			Source:   source,
		}
	}
}

func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened " + url + " in browser", Opened: true}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Copied " + url}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy URL to clipboard")}
	}
}

func ClearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return ClearStatusMsg{ID: id}
	})
}
