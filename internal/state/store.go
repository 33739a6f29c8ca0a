// Package state holds the session state shared by the router and the views:
// the current feed page and the feed list annotated with read flags.
package state

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/glabrego/hnpwa-cli/internal/hnpwa"
)

// PageSize is the number of feed items shown per page.
const PageSize = 10

type FeedLister interface {
	ListFeed(ctx context.Context) ([]hnpwa.FeedItem, error)
}

// ReadJournal records visited items. It may be nil.
type ReadJournal interface {
	MarkRead(ctx context.Context, id int64, title string) error
	ReadIDs(ctx context.Context) ([]int64, error)
}

type Store struct {
	lister  FeedLister
	journal ReadJournal
	group   singleflight.Group

	mu          sync.Mutex
	currentPage int
	feeds       []hnpwa.FeedItem
	loaded      bool
}

func NewStore(lister FeedLister, journal ReadJournal) *Store {
	return &Store{lister: lister, journal: journal, currentPage: 1}
}

func (s *Store) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPage
}

// SetPage stores page clamped to at least 1 and returns the stored value.
func (s *Store) SetPage(page int) int {
	page = ClampPage(page)
	s.mu.Lock()
	s.currentPage = page
	s.mu.Unlock()
	return page
}

func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Feeds returns a copy of the cached feed, fetching it on first use.
func (s *Store) Feeds(ctx context.Context) ([]hnpwa.FeedItem, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]hnpwa.FeedItem(nil), s.feeds...), nil
}

// PageItems returns the items of page, clipped to what was fetched.
func (s *Store) PageItems(ctx context.Context, page int) ([]hnpwa.FeedItem, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	start, end := Window(page, PageSize, len(s.feeds))
	return append([]hnpwa.FeedItem(nil), s.feeds[start:end]...), nil
}

// MarkRead flags the feed item with id as read and journals it. Ids that
// are not part of the fetched feed are a no-op.
func (s *Store) MarkRead(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	found := false
	title := ""
	for i := range s.feeds {
		if s.feeds[i].ID == id {
			s.feeds[i].Read = true
			title = s.feeds[i].Title
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found || s.journal == nil {
		return found, nil
	}
	if err := s.journal.MarkRead(ctx, id, title); err != nil {
		return found, fmt.Errorf("journal read item: %w", err)
	}
	return found, nil
}

func (s *Store) ensureLoaded(ctx context.Context) error {
	s.mu.Lock()
	loaded := s.loaded
	s.mu.Unlock()
	if loaded {
		return nil
	}

	_, err, _ := s.group.Do("feeds", func() (any, error) {
		s.mu.Lock()
		done := s.loaded
		s.mu.Unlock()
		if done {
			return nil, nil
		}

		items, err := s.lister.ListFeed(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch news feed: %w", err)
		}
		for i := range items {
			items[i].Read = false
		}
		if s.journal != nil {
			ids, err := s.journal.ReadIDs(ctx)
			if err != nil {
				return nil, fmt.Errorf("load read history: %w", err)
			}
			applyReadIDs(items, ids)
		}

		s.mu.Lock()
		s.feeds = items
		s.loaded = true
		s.mu.Unlock()
		return nil, nil
	})
	return err
}

func applyReadIDs(items []hnpwa.FeedItem, ids []int64) {
	if len(ids) == 0 {
		return
	}
	readSet := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		readSet[id] = struct{}{}
	}
	for i := range items {
		_, items[i].Read = readSet[items[i].ID]
	}
}
