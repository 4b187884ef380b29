package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mcarrillo/storefront/internal/api"
	"github.com/mcarrillo/storefront/internal/cart"
	"github.com/mcarrillo/storefront/internal/catalog"
	"github.com/mcarrillo/storefront/internal/config"
	"github.com/mcarrillo/storefront/internal/prefs"
	"github.com/mcarrillo/storefront/internal/session"
	"github.com/mcarrillo/storefront/internal/storage"
	"github.com/mcarrillo/storefront/internal/ui"
)

// Options configure the storefront application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/storefront/prefs.toml
	// DeepLink is an optional catalog query ("title=shoes&page=2") that
	// overrides the persisted browsing location for this run.
	DeepLink string
}

// Env holds the wired application components.
type Env struct {
	Config  config.Config
	Client  *api.Client
	Cart    *cart.Store
	Session *session.Store
	Catalog *catalog.Controller
	Updates chan struct{}
}

// Wire builds every store and the API client from configuration. It is
// separate from Run so tests can assemble the application without a
// terminal.
func Wire(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	local, err := storage.Open(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open local storage: %w", err)
	}

	sess := session.Load(local)
	client, err := api.NewClient(cfg.APIBaseURL,
		api.WithTokenSource(sess),
		api.WithTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("init api client: %w", err)
	}
	sess.SetClient(client)

	// Buffered so a burst of fetch completions never blocks a store
	// goroutine; the UI drains and re-snapshots on every receive.
	updates := make(chan struct{}, 64)
	notify := func() {
		select {
		case updates <- struct{}{}:
		default:
		}
	}

	ctrl := catalog.New(catalog.Options{
		Client:     client,
		AddressBar: catalog.NewStoredLocation(local, opts.DeepLink),
		PageSize:   cfg.PageSize,
		Notify:     notify,
	})

	return &Env{
		Config:  cfg,
		Client:  client,
		Cart:    cart.Load(local),
		Session: sess,
		Catalog: ctrl,
		Updates: updates,
	}, nil
}

// Run boots the storefront TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Wire(opts)
	if err != nil {
		return err
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		log.Printf("load prefs failed, using defaults: %v", err)
	}

	// Revalidate a restored session in the background; a stale token
	// pair resolves to signed-out without blocking startup.
	if env.Session.Snapshot().Authenticated {
		go func() {
			rctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			if err := env.Session.LoadProfile(rctx); err != nil {
				log.Printf("session revalidation failed: %v", err)
			}
			select {
			case env.Updates <- struct{}{}:
			default:
			}
		}()
	}

	return ui.Run(ui.Options{
		Context:   ctx,
		Client:    env.Client,
		Catalog:   env.Catalog,
		Cart:      env.Cart,
		Session:   env.Session,
		Updates:   env.Updates,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	})
}
