package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/glabrego/hnpwa-cli/internal/config"
	"github.com/glabrego/hnpwa-cli/internal/dom"
	"github.com/glabrego/hnpwa-cli/internal/hnpwa"
	"github.com/glabrego/hnpwa-cli/internal/router"
	"github.com/glabrego/hnpwa-cli/internal/state"
	"github.com/glabrego/hnpwa-cli/internal/storage"
	"github.com/glabrego/hnpwa-cli/internal/view"
)

// App wires the reader together: API client, read journal, session
// state, views, document and router.
type App struct {
	cfg    config.Config
	logger *slog.Logger

	client *hnpwa.Client
	repo   *storage.Repository
	store  *state.Store
	views  *view.Renderer
	doc    *dom.Document
	sink   *dom.Sink
	router *router.Router
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := repo.Init(ctx); err != nil {
		_ = repo.Close()
		return nil, err
	}
	if err := repo.CheckWritable(ctx); err != nil {
		_ = repo.Close()
		return nil, err
	}

	client := hnpwa.NewClient(cfg.FeedURL, cfg.ItemURL, &http.Client{Timeout: cfg.HTTPTimeout})
	store := state.NewStore(client, repo)
	views, err := view.NewRenderer(store, client, logger.With("component", "view"))
	if err != nil {
		_ = repo.Close()
		return nil, err
	}

	doc := dom.NewDocument(cfg.Mount)
	sink := dom.NewSink(doc, cfg.Mount, logger.With("component", "dom"))

	return &App{
		cfg:    cfg,
		logger: logger,
		client: client,
		repo:   repo,
		store:  store,
		views:  views,
		doc:    doc,
		sink:   sink,
		router: router.New(views, store, sink, logger.With("component", "router")),
	}, nil
}

func (a *App) Navigate(ctx context.Context, fragment string) (router.Route, error) {
	return a.router.Navigate(ctx, fragment)
}

// Show navigates and returns the route and markup of that navigation.
func (a *App) Show(ctx context.Context, fragment string) (router.Screen, error) {
	return a.router.Show(ctx, fragment)
}

// Markup returns the content of the configured mount point.
func (a *App) Markup() (string, bool) {
	return a.sink.Markup()
}

func (a *App) Location() string {
	return a.router.Location()
}

func (a *App) Router() *router.Router {
	return a.router
}

func (a *App) Store() *state.Store {
	return a.store
}

func (a *App) Document() *dom.Document {
	return a.doc
}

// Visit reports the journaled read history of one item.
func (a *App) Visit(ctx context.Context, id int64) (storage.Visit, bool, error) {
	return a.repo.Visit(ctx, id)
}

func (a *App) Close() error {
	if a.repo == nil {
		return nil
	}
	if err := a.repo.Close(); err != nil {
		return fmt.Errorf("close read journal: %w", err)
	}
	return nil
}
