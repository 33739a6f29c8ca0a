package hnpwa

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestListFeed_ParsesResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/news/1.json" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Fatalf("unexpected accept header: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":101,"title":"Show HN: A thing","url":"https://example.com/a","domain":"example.com","user":"pg","points":120,"time_ago":"2 hours ago","comments_count":31,"type":"link"}]`))
	}))
	defer ts.Close()

	c := NewFeedClient(ts.URL+"/news/1.json", ts.Client())
	items, err := c.ListFeed(context.Background())
	if err != nil {
		t.Fatalf("ListFeed returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	item := items[0]
	if item.ID != 101 || item.Title != "Show HN: A thing" || item.User != "pg" {
		t.Fatalf("unexpected item: %+v", item)
	}
	if item.Points != 120 || item.CommentsCount != 31 || item.TimeAgo != "2 hours ago" {
		t.Fatalf("unexpected counters: %+v", item)
	}
	if item.Read {
		t.Fatal("read flag must not come from the API")
	}
}

func TestListFeed_NullBodyYieldsEmptySlice(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))
	defer ts.Close()

	items, err := NewFeedClient(ts.URL, ts.Client()).ListFeed(context.Background())
	if err != nil {
		t.Fatalf("ListFeed returned error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", items)
	}
}

func TestGetItem_InterpolatesIDAndParsesComments(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/item/42.json" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":42,"title":"Story","user":"dang","content":"<p>hi</p>","comments":[{"id":1,"user":"a","time_ago":"1 hour ago","content":"root","level":0,"comments":[{"id":2,"user":"b","content":"child","level":1,"comments":[]}]}]}`))
	}))
	defer ts.Close()

	c := NewDetailClient(ts.URL+"/item/@id.json", ts.Client())
	item, err := c.GetItem(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetItem returned error: %v", err)
	}
	if item.ID != 42 || item.Content != "<p>hi</p>" {
		t.Fatalf("unexpected item: %+v", item)
	}
	if len(item.Comments) != 1 || len(item.Comments[0].Comments) != 1 {
		t.Fatalf("unexpected comment tree: %+v", item.Comments)
	}
	if child := item.Comments[0].Comments[0]; child.ID != 2 || child.Level != 1 {
		t.Fatalf("unexpected child comment: %+v", child)
	}
}

func TestGetItem_StatusErrorIsTransport(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no such item"))
	}))
	defer ts.Close()

	_, err := NewDetailClient(ts.URL+"/item/@id.json", ts.Client()).GetItem(context.Background(), 9)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if !strings.Contains(err.Error(), "status 404") || !strings.Contains(err.Error(), "no such item") {
		t.Fatalf("unexpected error text: %v", err)
	}
}

func TestListFeed_MalformedJSONIsDecodeError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":`))
	}))
	defer ts.Close()

	_, err := NewFeedClient(ts.URL, ts.Client()).ListFeed(context.Background())
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestListFeed_NetworkFailureIsTransport(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := NewFeedClient(url, nil).ListFeed(context.Background())
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestClient_SharesOneHTTPClient(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if strings.HasPrefix(r.URL.Path, "/item/") {
			_, _ = w.Write([]byte(`{"id":7,"title":"Seven","comments":[]}`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":7,"title":"Seven"}]`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL+"/news/1.json", ts.URL+"/item/@id.json", ts.Client())
	if c.Feed.req.http != c.Detail.req.http {
		t.Fatal("expected feed and detail clients to share the HTTP client")
	}
	if _, err := c.ListFeed(context.Background()); err != nil {
		t.Fatalf("ListFeed returned error: %v", err)
	}
	if _, err := c.GetItem(context.Background(), 7); err != nil {
		t.Fatalf("GetItem returned error: %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("expected exactly one request per resource, got %d", got)
	}
}

func TestItemURL(t *testing.T) {
	got := ItemURL("https://api.hnpwa.com/v0/item/@id.json", 8863)
	if got != "https://api.hnpwa.com/v0/item/8863.json" {
		t.Fatalf("unexpected item URL: %s", got)
	}
}
