// Package view builds the screens of the reader as HTML markup.
package view

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/glabrego/hnpwa-cli/internal/hnpwa"
	"github.com/glabrego/hnpwa-cli/internal/router"
	"github.com/glabrego/hnpwa-cli/internal/state"
)

//go:embed templates/*.html
var templatesFS embed.FS

type FeedState interface {
	CurrentPage() int
	PageItems(ctx context.Context, page int) ([]hnpwa.FeedItem, error)
	MarkRead(ctx context.Context, id int64) (bool, error)
}

type DetailFetcher interface {
	GetItem(ctx context.Context, id int64) (hnpwa.DetailItem, error)
}

type Renderer struct {
	state     FeedState
	details   DetailFetcher
	sanitizer *Sanitizer
	templates *template.Template
	logger    *slog.Logger
}

func NewRenderer(feedState FeedState, details DetailFetcher, logger *slog.Logger) (*Renderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		state:     feedState,
		details:   details,
		sanitizer: NewSanitizer(),
		templates: tmpl,
		logger:    logger,
	}, nil
}

type feedCard struct {
	ID            int64
	Href          string
	Title         string
	User          string
	Points        string
	TimeAgo       string
	Domain        string
	CommentsCount int
	Read          bool
}

type feedPage struct {
	Page     int
	PrevHref string
	NextHref string
	Cards    []feedCard
}

// FeedList renders the current page of the feed.
func (r *Renderer) FeedList(ctx context.Context) (string, error) {
	page := r.state.CurrentPage()
	items, err := r.state.PageItems(ctx, page)
	if err != nil {
		return "", err
	}

	data := feedPage{
		Page:     page,
		PrevHref: router.PageFragment(state.PrevPage(page)),
		NextHref: router.PageFragment(state.NextPage(page)),
		Cards:    make([]feedCard, 0, len(items)),
	}
	for _, item := range items {
		data.Cards = append(data.Cards, feedCard{
			ID:            item.ID,
			Href:          router.ShowFragment(item.ID),
			Title:         item.Title,
			User:          item.User,
			Points:        humanize.Comma(int64(item.Points)),
			TimeAgo:       item.TimeAgo,
			Domain:        item.Domain,
			CommentsCount: item.CommentsCount,
			Read:          item.Read,
		})
	}
	return r.execute("feed.html", data)
}

type detailPage struct {
	ID            int64
	BackPage      int
	BackHref      string
	Title         string
	URL           string
	User          string
	Points        string
	TimeAgo       string
	CommentsCount int
	Content       template.HTML
	Comments      template.HTML
}

// Detail fetches item id, marks it read and renders it with its comments.
func (r *Renderer) Detail(ctx context.Context, id int64) (string, error) {
	item, err := r.details.GetItem(ctx, id)
	if err != nil {
		return "", err
	}

	found, err := r.state.MarkRead(ctx, id)
	if err != nil {
		r.logger.Warn("read flag not journaled", "id", id, "err", err)
	}
	if !found {
		r.logger.Debug("detail item not in fetched feed", "id", id)
	}

	page := r.state.CurrentPage()
	data := detailPage{
		ID:            item.ID,
		BackPage:      page,
		BackHref:      router.PageFragment(page),
		Title:         item.Title,
		URL:           item.URL,
		User:          item.User,
		Points:        humanize.Comma(int64(item.Points)),
		TimeAgo:       item.TimeAgo,
		CommentsCount: item.CommentsCount,
		Content:       template.HTML(r.sanitizer.Sanitize(item.Content)),
		Comments:      template.HTML(RenderComments(item.Comments, r.sanitizer.Sanitize)),
	}
	return r.execute("detail.html", data)
}

// NotFound renders the screen for a fragment that matches no route.
func (r *Renderer) NotFound(fragment string) (string, error) {
	page := r.state.CurrentPage()
	return r.execute("notfound.html", struct {
		Fragment string
		BackPage int
		BackHref string
	}{Fragment: fragment, BackPage: page, BackHref: router.PageFragment(page)})
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
