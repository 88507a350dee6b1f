package commands

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/amanf244/mars4/internal/api"
	"github.com/amanf244/mars4/internal/cli/cliconfig"
	"github.com/amanf244/mars4/internal/guard"
	"github.com/amanf244/mars4/internal/logger"
	"github.com/amanf244/mars4/internal/session"
	"github.com/amanf244/mars4/internal/tokenstore"
)

// appContext bundles everything a command needs: config, API client,
// session manager and guard, all wired to the configured token store.
type appContext struct {
	cfg      *cliconfig.Config
	log      zerolog.Logger
	client   *api.Client
	store    tokenstore.Store
	sessions *session.Manager
	guard    *guard.Guard
}

// newAppContext loads mars4.json and wires the session stack
func newAppContext() (*appContext, error) {
	cfg, err := cliconfig.LoadFromCurrentDir()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w\nRun 'mars4 init' to create a configuration file", err)
	}

	log := logger.GetLogger()

	store, err := newTokenStore(cfg)
	if err != nil {
		return nil, err
	}

	client := api.New(cfg.ServerURL, api.WithPrefix(cfg.APIPrefix), api.WithLogger(log))
	sessions := session.NewManager(client, store, log)

	return &appContext{
		cfg:      cfg,
		log:      log,
		client:   client,
		store:    store,
		sessions: sessions,
		guard:    guard.New(sessions),
	}, nil
}

func newTokenStore(cfg *cliconfig.Config) (tokenstore.Store, error) {
	switch cfg.TokenStorage {
	case cliconfig.StorageKeyring:
		u, err := url.Parse(cfg.ServerURL)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("invalid server URL %q in mars4.json", cfg.ServerURL)
		}
		return tokenstore.NewKeyringStore(u.Host), nil
	case cliconfig.StorageFile, "":
		return tokenstore.NewFileStore(cliconfig.TokenFilePath()), nil
	default:
		return nil, fmt.Errorf("unknown tokenStorage %q (expected file or keyring)", cfg.TokenStorage)
	}
}

// requireSession restores the session and fails the command when the
// outcome is anything but allow.
func (a *appContext) requireSession(ctx context.Context, rule guard.Rule) error {
	outcome := a.guard.Check(ctx, "", rule)
	switch outcome.Decision {
	case guard.Allow:
		return nil
	case guard.RedirectForbidden:
		return fmt.Errorf("this command requires the %s role", rule.Role)
	default:
		return fmt.Errorf("not logged in. Run 'mars4 login' first")
	}
}

func (a *appContext) requireAuth(ctx context.Context) error {
	return a.requireSession(ctx, guard.RequireAuth())
}

func (a *appContext) requireAdmin(ctx context.Context) error {
	return a.requireSession(ctx, guard.AdminRule())
}
