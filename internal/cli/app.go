package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/auth"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/authclient"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/config"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/news"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/pages"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/proposal"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/router"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/session"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/session/repo"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/user"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/pkg/database"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/pkg/utilities"
)

var ErrAdminRequired = errors.New("admin role required: log in with an admin account")

// App is everything one command invocation works with.
type App struct {
	Config    config.Config
	Logger    *zap.SugaredLogger
	Session   *session.Session
	Client    *authclient.Client
	Router    *router.Router
	Auth      *auth.Controller
	News      *news.Service
	Users     *user.UserService
	Proposals *proposal.Service
	Catalog   *pages.Catalog
	Renderer  *pages.Renderer

	out     io.Writer
	closers []func() error
}

func NewApp(ctx context.Context, cfg config.Config, logger *zap.SugaredLogger, out io.Writer, plain bool) (*App, error) {
	a := &App{Config: cfg, Logger: logger, out: out}

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Session = session.New(store, logger)
	clientID, err := utilities.NewClientID(cfg.ClientNode)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("SNOWFLAKE_NODE: %w", err)
	}
	a.Session.SetClientID(clientID)

	var jar http.CookieJar = authclient.NewMemoryJar()
	if cfg.TokenStore != config.StoreMemory && cfg.CookieFile != "" {
		fj, err := authclient.NewFileJar(cfg.CookieFile)
		if err != nil {
			a.Close()
			return nil, err
		}
		jar = fj
	}
	hc := &http.Client{Jar: jar, Transport: authclient.NewLoggingTransport(nil, logger)}
	a.Client = authclient.New(cfg.APIBase, a.Session, logger,
		authclient.WithHTTPClient(hc),
		authclient.WithSharedRefresh(cfg.SharedRefresh),
		authclient.WithTimeout(cfg.HTTPTimeout),
	)
	a.closers = append(a.closers, func() error { hc.CloseIdleConnections(); return nil })

	clearScreen := !plain && isTerminal(out)
	a.Router = router.New(a.Session, logger, router.WithScrollToTop(func() {
		if clearScreen {
			fmt.Fprint(out, "\033[H\033[2J")
		}
	}))
	a.Auth = auth.NewController(a.Client, a.Router, logger)
	a.News = news.NewService(a.Client, logger)
	a.Users = user.NewUserService(a.Client, logger)
	a.Proposals = proposal.NewService(a.Client, logger)

	if a.Catalog, err = pages.Load(); err != nil {
		a.Close()
		return nil, err
	}
	width, _ := terminalWidth(out)
	if a.Renderer, err = pages.NewRenderer(out, pages.WithPlain(plain || !isTerminal(out)), pages.WithWidth(width)); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) openStore(ctx context.Context) (session.TokenStore, error) {
	switch a.Config.TokenStore {
	case config.StoreMemory:
		return repo.NewMemoryRepo(), nil
	case config.StoreFile, "":
		return repo.NewFileRepo(a.Config.TokenFile), nil
	case config.StoreSQL:
		db, err := database.Connect(a.Config.Database)
		if err != nil {
			return nil, fmt.Errorf("token store: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		r := repo.NewSQLRepo(db)
		if err := r.EnsureTable(ctx); err != nil {
			return nil, fmt.Errorf("token store: %w", err)
		}
		return r, nil
	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     a.Config.Redis.Addr,
			Password: a.Config.Redis.Password,
			DB:       a.Config.Redis.DB,
		})
		a.closers = append(a.closers, rdb.Close)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("token store: redis ping: %w", err)
		}
		return repo.NewRedisRepo(rdb), nil
	}
	return nil, fmt.Errorf("unknown token store %q", a.Config.TokenStore)
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// requireAdmin walks to the admin dashboard and fails when the role gate
// sends the user elsewhere. The API checks the role again on every call.
func (a *App) requireAdmin(ctx context.Context) error {
	if d := a.Router.Navigate(ctx, router.ViewAdminDashboard.Fragment()); d.View != router.ViewAdminDashboard {
		return ErrAdminRequired
	}
	return nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) (int, error) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, errors.New("not a terminal")
	}
	width, _, err := term.GetSize(int(f.Fd()))
	return width, err
}
