package commands

import (
	"context"
	"io"
	"os"

	"github.com/apex/log"

	"tableflip.dev/pokedex/pkg/app"
	"tableflip.dev/pokedex/pkg/favorites"
	"tableflip.dev/pokedex/pkg/logging"
	"tableflip.dev/pokedex/pkg/pokeapi"
	"tableflip.dev/pokedex/pkg/query"
	"tableflip.dev/pokedex/pkg/store"
)

// session is everything a command needs to talk to the catalog.
type session struct {
	ctx    context.Context
	config store.Config
	app    *app.Service
	close  func()
}

type logTarget int

const (
	logToStderr logTarget = iota
	// logToFile keeps the alt-screen clean while the terminal UI runs.
	logToFile
)

func newSession(ctx context.Context, target logTarget, cacheOpts ...query.Option) (*session, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	persistence, err := store.Load(cfg)
	if err != nil {
		return nil, err
	}

	closer := func() {}
	var out io.Writer = os.Stderr
	if target == logToFile {
		f, err := logging.OpenFile(cfg.BasePath())
		if err != nil {
			return nil, err
		}
		out = f
		closer = func() { _ = f.Close() }
	}
	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel()), gl.Debug, out)
	ctx = log.NewContext(ctx, logger)

	client := pokeapi.New(
		pokeapi.WithBaseURL(cfg.APIBaseURL()),
		pokeapi.WithTimeout(cfg.Timeout()),
		pokeapi.WithUserAgent("pokedex/"+version),
		pokeapi.WithLogger(logger),
	)
	svc := &app.Service{
		Remote:      client,
		Cache:       query.New(append([]query.Option{query.WithLogger(logger)}, cacheOpts...)...),
		Favorites:   favorites.Load(ctx, persistence),
		Persistence: persistence,
		PageSize:    cfg.PageSize(),
	}
	logger.WithFields(log.Fields{
		"api":  cfg.APIBaseURL(),
		"path": cfg.BasePath(),
	}).Debug("session ready")

	return &session{ctx: ctx, config: cfg, app: svc, close: closer}, nil
}
