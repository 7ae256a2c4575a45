// Package app wires the storefront processes together.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/niksmo/furnistore/config"
	"github.com/niksmo/furnistore/internal/adapter/cartstorage"
	"github.com/niksmo/furnistore/internal/adapter/content"
	"github.com/niksmo/furnistore/internal/adapter/httphandler"
	"github.com/niksmo/furnistore/internal/adapter/storage"
	"github.com/niksmo/furnistore/internal/core/port"
	"github.com/niksmo/furnistore/internal/core/service"
)

// App is the storefront HTTP API.
type App struct {
	ctx        context.Context
	cfg        config.Config
	sqldb      *storage.SQLDB
	source     port.ContentSource
	service    service.Service
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	InitLogger(cfg.LogLevel)
	app.initContentSource()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

// InitLogger installs the JSON stderr logger as the default one.
func InitLogger(level slog.Leveler) {
	opts := &slog.HandlerOptions{Level: level}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initContentSource() {
	const op = "App.initContentSource"

	if app.cfg.Content.Source == config.SourceMirror {
		db, err := storage.NewSQLDB(app.ctx, app.cfg.SQLDB)
		if err != nil {
			fallDown(op, err)
		}
		app.sqldb = &db
		app.source = storage.NewMirrorSource(storage.NewDocumentsRepository(db))
		slog.Info("serving content from the mirror")
		return
	}

	cl, err := content.NewClient(ContentConfig(app.cfg))
	if err != nil {
		fallDown(op, err)
	}
	app.source = cl
	slog.Info("serving content from the content store",
		"projectID", app.cfg.Content.ProjectID,
		"dataset", app.cfg.Content.Dataset,
		"cdn", app.cfg.Content.UseCDN,
	)
}

func (app *App) initCoreService() {
	app.service = service.New(app.source, nil, nil, nil)
}

func (app *App) initInboundAdapters() {
	mux := http.NewServeMux()
	httphandler.RegisterCatalog(mux, app.service)
	httphandler.RegisterBlog(mux, app.service)
	httphandler.RegisterConfigurator(mux, app.service)
	httphandler.RegisterCart(mux, app.service, cartstorage.CookieConfig{
		MaxAge: app.cfg.Cart.MaxAge,
		Secure: app.cfg.Cart.Secure,
	})

	var handler http.Handler = mux
	handler = httphandler.AllowJSON(handler)
	handler = httphandler.LogRequests(handler)
	handler = httphandler.WithRequestID(handler)

	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	if app.sqldb != nil {
		app.sqldb.Close()
	}

	slog.Info("application is closed")
}

// ContentConfig is the content store section of cfg.
func ContentConfig(cfg config.Config) content.Config {
	return content.Config{
		ProjectID:  cfg.Content.ProjectID,
		Dataset:    cfg.Content.Dataset,
		APIVersion: cfg.Content.APIVersion,
		UseCDN:     cfg.Content.UseCDN,
		Token:      cfg.Content.Token,
		Timeout:    cfg.Content.Timeout,
	}
}

func fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
