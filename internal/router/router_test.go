package router

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		fragment string
		want     Route
	}{
		{"", Route{Kind: KindFeed, Fragment: ""}},
		{"#", Route{Kind: KindFeed, Fragment: "#"}},
		{"#/", Route{Kind: KindFeed, Fragment: "#/"}},
		{"#/page/3", Route{Kind: KindFeed, Fragment: "#/page/3", Page: 3, HasPage: true}},
		{"#/page/0", Route{Kind: KindFeed, Fragment: "#/page/0", Page: 1, HasPage: true}},
		{"#/page/-4", Route{Kind: KindFeed, Fragment: "#/page/-4", Page: 1, HasPage: true}},
		{"/page/2", Route{Kind: KindFeed, Fragment: "#/page/2", Page: 2, HasPage: true}},
		{"page/2", Route{Kind: KindFeed, Fragment: "#/page/2", Page: 2, HasPage: true}},
		{"show/1", Route{Kind: KindDetail, Fragment: "#/show/1", ID: 1}},
		{" show/11 ", Route{Kind: KindDetail, Fragment: "#/show/11", ID: 11}},
		{"  #/page/2  ", Route{Kind: KindFeed, Fragment: "#/page/2", Page: 2, HasPage: true}},
		{"#/page/", Route{Kind: KindNotFound, Fragment: "#/page/"}},
		{"#/page/abc", Route{Kind: KindNotFound, Fragment: "#/page/abc"}},
		{"#/show/42", Route{Kind: KindDetail, Fragment: "#/show/42", ID: 42}},
		{"#/show/0", Route{Kind: KindNotFound, Fragment: "#/show/0"}},
		{"#/show/12abc", Route{Kind: KindNotFound, Fragment: "#/show/12abc"}},
		{"#/show/", Route{Kind: KindNotFound, Fragment: "#/show/"}},
		{"#/about", Route{Kind: KindNotFound, Fragment: "#/about"}},
	}
	for _, tt := range tests {
		t.Run(tt.fragment, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.fragment))
		})
	}
}

func TestFragments(t *testing.T) {
	assert.Equal(t, "#/page/2", PageFragment(2))
	assert.Equal(t, "#/show/123", ShowFragment(123))
	assert.Equal(t, Route{Kind: KindDetail, Fragment: "#/show/123", ID: 123}, Parse(ShowFragment(123)))
	assert.Equal(t, "not-found", KindNotFound.String())
}

type fakeViews struct {
	mu        sync.Mutex
	calls     []string
	err       error
	delay     time.Duration
	active    int
	maxActive int
}

func (f *fakeViews) enter(call string) error {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.active++
	if f.active > f.maxActive {
		f.maxActive = f.active
	}
	delay := f.delay
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	f.mu.Lock()
	f.active--
	f.mu.Unlock()
	return f.err
}

func (f *fakeViews) FeedList(context.Context) (string, error) {
	if err := f.enter("feed"); err != nil {
		return "", err
	}
	return "<feed>", nil
}

func (f *fakeViews) Detail(_ context.Context, id int64) (string, error) {
	if err := f.enter("detail"); err != nil {
		return "", err
	}
	return "<detail " + ShowFragment(id) + ">", nil
}

func (f *fakeViews) NotFound(fragment string) (string, error) {
	if err := f.enter("notfound"); err != nil {
		return "", err
	}
	return "<notfound " + fragment + ">", nil
}

type fakePages struct {
	page int
}

func (p *fakePages) CurrentPage() int { return p.page }

func (p *fakePages) SetPage(page int) int {
	if page < 1 {
		page = 1
	}
	p.page = page
	return page
}

type fakeSink struct {
	views   []string
	missing bool
}

func (s *fakeSink) UpdateView(markup string) bool {
	if s.missing {
		return false
	}
	s.views = append(s.views, markup)
	return true
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestNavigate_FeedUsesCurrentPageWhenNoneGiven(t *testing.T) {
	views := &fakeViews{}
	pages := &fakePages{page: 4}
	sink := &fakeSink{}
	r := New(views, pages, sink, quietLogger())

	route, err := r.Navigate(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, KindFeed, route.Kind)
	assert.Equal(t, 4, route.Page)
	assert.Equal(t, 4, pages.page)
	assert.Equal(t, []string{"<feed>"}, sink.views)
}

func TestNavigate_PageFragmentSetsPage(t *testing.T) {
	pages := &fakePages{page: 1}
	sink := &fakeSink{}
	r := New(&fakeViews{}, pages, sink, quietLogger())

	route, err := r.Navigate(context.Background(), "#/page/0")
	require.NoError(t, err)
	assert.Equal(t, 1, route.Page)
	assert.Equal(t, 1, pages.page)

	_, err = r.Navigate(context.Background(), "#/page/3")
	require.NoError(t, err)
	assert.Equal(t, 3, pages.page)
	assert.Equal(t, "#/page/3", r.Location())
	assert.Equal(t, 2, r.Navigations())
}

func TestNavigate_DetailDoesNotChangePage(t *testing.T) {
	pages := &fakePages{page: 2}
	sink := &fakeSink{}
	r := New(&fakeViews{}, pages, sink, quietLogger())

	route, err := r.Navigate(context.Background(), "#/show/7")
	require.NoError(t, err)
	assert.Equal(t, KindDetail, route.Kind)
	assert.Equal(t, int64(7), route.ID)
	assert.Equal(t, 2, pages.page)
	assert.Equal(t, []string{"<detail #/show/7>"}, sink.views)
}

func TestNavigate_UnknownFragmentRendersNotFound(t *testing.T) {
	var logs bytes.Buffer
	views := &fakeViews{}
	sink := &fakeSink{}
	r := New(views, &fakePages{page: 1}, sink, slog.New(slog.NewTextHandler(&logs, nil)))

	route, err := r.Navigate(context.Background(), "#/show/abc")
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, route.Kind)
	assert.Equal(t, []string{"notfound"}, views.calls)
	assert.Equal(t, []string{"<notfound #/show/abc>"}, sink.views)
	assert.Contains(t, logs.String(), "unrecognised fragment")
}

func TestNavigate_ErrorKeepsPreviousScreen(t *testing.T) {
	boom := errors.New("upstream down")
	views := &fakeViews{}
	sink := &fakeSink{}
	r := New(views, &fakePages{page: 1}, sink, quietLogger())

	_, err := r.Navigate(context.Background(), "#/page/1")
	require.NoError(t, err)

	views.err = boom
	_, err = r.Navigate(context.Background(), "#/show/9")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `navigate "#/show/9"`)
	assert.Equal(t, []string{"<feed>"}, sink.views)
	assert.Equal(t, "#/page/1", r.Location())
	assert.Equal(t, 1, r.Navigations())
}

func TestNavigate_MissingMountStillCompletes(t *testing.T) {
	sink := &fakeSink{missing: true}
	r := New(&fakeViews{}, &fakePages{page: 1}, sink, quietLogger())

	screen, err := r.Show(context.Background(), "#/page/2")
	require.NoError(t, err)
	assert.False(t, screen.Mounted)
	assert.Equal(t, "<feed>", screen.Markup)
	assert.Empty(t, sink.views)
	assert.Equal(t, "", r.Location())
	assert.Equal(t, 1, r.Navigations())
}

func TestShow_ReturnsMarkupOfSameNavigation(t *testing.T) {
	sink := &fakeSink{}
	r := New(&fakeViews{}, &fakePages{page: 1}, sink, quietLogger())

	screen, err := r.Show(context.Background(), "show/7")
	require.NoError(t, err)
	assert.True(t, screen.Mounted)
	assert.Equal(t, Route{Kind: KindDetail, Fragment: "#/show/7", ID: 7}, screen.Route)
	assert.Equal(t, sink.views[len(sink.views)-1], screen.Markup)
	assert.Equal(t, "#/show/7", r.Location())
}

func TestNavigate_Serialized(t *testing.T) {
	views := &fakeViews{delay: 5 * time.Millisecond}
	r := New(views, &fakePages{page: 1}, &fakeSink{}, quietLogger())

	var wg sync.WaitGroup
	for _, fragment := range []string{"#/page/1", "#/show/1", "#/page/2", "#/show/2", "#/nope"} {
		wg.Add(1)
		go func(fragment string) {
			defer wg.Done()
			_, _ = r.Navigate(context.Background(), fragment)
		}(fragment)
	}
	wg.Wait()

	assert.Equal(t, 1, views.maxActive)
	assert.Equal(t, 5, r.Navigations())
}
