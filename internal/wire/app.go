package wire

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"

	"github.com/mithrel/genieblog/internal/client"
	"github.com/mithrel/genieblog/internal/compose"
	"github.com/mithrel/genieblog/internal/config"
	"github.com/mithrel/genieblog/internal/db"
	"github.com/mithrel/genieblog/internal/generate"
	"github.com/mithrel/genieblog/internal/keys"
	"github.com/mithrel/genieblog/internal/research"
	"github.com/mithrel/genieblog/internal/server"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg *viper.Viper
	Log *log.Logger
}

// BuildApp wires the shared pieces. Stores and clients are built on demand
// so commands that only talk to a remote server never open the database.
func BuildApp(ctx context.Context, v *viper.Viper) (*App, error) {
	logger := log.New(os.Stderr, "genieblog ", log.LstdFlags)
	if v.GetBool("secrets.keyring") {
		if err := keys.Resolve(v, &keys.KeyringStore{}); err != nil {
			logger.Printf("keyring unavailable: %v", err)
		}
	}
	if err := config.CheckConfigValidity(v); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &App{Cfg: v, Log: logger}, nil
}

// Client returns an API client for api_url.
func (a *App) Client() *client.Client {
	return client.New(a.Cfg.GetString("api_url"), a.Cfg.GetString("auth.token"))
}

// Composer prefers Gemini when a key is configured and falls back to the
// built-in template writer.
func (a *App) Composer() compose.Composer {
	var primary compose.Composer
	if g := compose.NewGemini(a.Cfg.GetString("gemini.api_key"), a.Cfg.GetString("gemini.model")); g != nil {
		a.Log.Printf("composing with gemini model %s", g.Model())
		primary = g
	} else {
		a.Log.Printf("no gemini api key; using basic composer")
	}
	return compose.WithFallback(primary, compose.Basic{}, a.Log)
}

// Researcher returns the research API client with configured timeouts.
func (a *App) Researcher() *research.Client {
	rc := research.New(research.Endpoints{
		GapsURL:        a.Cfg.GetString("research.gaps_url"),
		QuestionsURL:   a.Cfg.GetString("research.questions_url"),
		MethodologyURL: a.Cfg.GetString("research.methodology_url"),
	})
	if d := a.Cfg.GetDuration("research.timeout"); d > 0 {
		rc.Timeout = d
	}
	if d := a.Cfg.GetDuration("research.methodology_timeout"); d > 0 {
		rc.MethodologyTimeout = d
	}
	return rc
}

// OpenStore opens the sqlite database under data_dir.
func (a *App) OpenStore(ctx context.Context) (db.Store, error) {
	dir := config.ResolveDataDir(a.Cfg)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return db.Open(ctx, "sqlite://"+config.ResolveDBPath(a.Cfg))
}

// BuildServer wires the HTTP server over store. The caller owns store.
func (a *App) BuildServer(store db.Store) *server.Server {
	gen := &generate.Service{
		Research:  a.Researcher(),
		Composer:  a.Composer(),
		Store:     store,
		OutputDir: config.ResolveOutputDir(a.Cfg),
		Log:       a.Log,
	}
	return server.New(a.Cfg, store, gen, a.Log)
}
