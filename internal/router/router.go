// Package router resolves navigation fragments to screens and pushes the
// rendered markup to the render sink.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

type Views interface {
	FeedList(ctx context.Context) (string, error)
	Detail(ctx context.Context, id int64) (string, error)
	NotFound(fragment string) (string, error)
}

type Pages interface {
	CurrentPage() int
	SetPage(page int) int
}

type Sink interface {
	UpdateView(markup string) bool
}

// Router runs one navigation at a time: a call to Navigate fetches and
// renders completely before the next call starts.
type Router struct {
	views  Views
	pages  Pages
	sink   Sink
	logger *slog.Logger

	mu       sync.Mutex
	location string
	count    int
}

func New(views Views, pages Pages, sink Sink, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{views: views, pages: pages, sink: sink, logger: logger}
}

// Screen is the outcome of one navigation: the route, the markup rendered
// for it, and whether the sink accepted that markup.
type Screen struct {
	Route   Route
	Markup  string
	Mounted bool
}

// Navigate renders the screen for fragment. On error nothing is rendered
// and the previous screen stays in place.
func (r *Router) Navigate(ctx context.Context, fragment string) (Route, error) {
	screen, err := r.Show(ctx, fragment)
	return screen.Route, err
}

// Show navigates like Navigate and returns the markup of that same
// navigation. Location only moves when the sink accepted the markup.
func (r *Router) Show(ctx context.Context, fragment string) (Screen, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	route := Parse(fragment)
	var (
		markup string
		err    error
	)
	switch route.Kind {
	case KindFeed:
		if route.HasPage {
			route.Page = r.pages.SetPage(route.Page)
		} else {
			route.Page = r.pages.CurrentPage()
		}
		markup, err = r.views.FeedList(ctx)
	case KindDetail:
		markup, err = r.views.Detail(ctx, route.ID)
	default:
		r.logger.Warn("unrecognised fragment", "fragment", route.Fragment)
		markup, err = r.views.NotFound(route.Fragment)
	}
	if err != nil {
		r.logger.Error("navigation failed", "fragment", route.Fragment, "route", route.Kind.String(), "err", err)
		return Screen{Route: route}, fmt.Errorf("navigate %q: %w", route.Fragment, err)
	}

	screen := Screen{Route: route, Markup: markup, Mounted: r.sink.UpdateView(markup)}
	r.count++
	if !screen.Mounted {
		r.logger.Warn("screen rendered without a mount point", "fragment", route.Fragment)
		return screen, nil
	}
	r.location = route.Fragment
	r.logger.Debug("navigated", "fragment", route.Fragment, "route", route.Kind.String(), "page", route.Page, "id", route.ID)
	return screen, nil
}

// Location is the fragment of the last navigation that reached the sink.
func (r *Router) Location() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.location
}

func (r *Router) Navigations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
