package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/tealives/tealives-client/internal/client/cities"
	"github.com/tealives/tealives-client/internal/client/client"
	"github.com/tealives/tealives-client/internal/client/config"
	"github.com/tealives/tealives-client/internal/client/geo"
	"github.com/tealives/tealives-client/internal/client/repositories/metadata"
	"github.com/tealives/tealives-client/internal/client/services"
	"github.com/tealives/tealives-client/internal/client/session"
	"github.com/tealives/tealives-client/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config      *config.Config
	log         logging.Logger
	db          *sql.DB
	api         client.Client
	authService services.AuthService
	cities      *cities.Cache
	session     *session.Session
	reader      *bufio.Reader

	// loginRequired is set by RedirectToLogin and cleared by a successful
	// login. It may be flipped from a background refresh goroutine.
	loginRequired atomic.Bool
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		log.Error(ctx, "error initializing database", "dsn", c.DatabaseDSN, "error", err)
		return nil, err
	}

	tokens := session.NewMetadataTokenStore(metadata.NewSQLiteRepository(db))
	sess := session.New()

	app := &App{
		config:  c,
		log:     log,
		db:      db,
		session: sess,
		reader:  bufio.NewReader(os.Stdin),
	}

	opts := []client.Option{
		client.WithTokenRefreshedHandler(sess.SetToken),
		client.WithLoginRedirector(app),
		client.WithLogger(log),
	}
	if c.SingleFlightRefresh {
		opts = append(opts, client.WithSingleFlightRefresh())
	}

	apiClient, err := client.New(c.APIBaseURL, tokens, opts...)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("api client: %w", err)
	}

	app.api = apiClient
	app.authService = services.NewAuthService(apiClient, tokens, sess)
	app.cities = cities.New(
		cities.NewSQLiteStore(db),
		apiClient,
		newGeoLocator(c),
		cities.WithTTL(c.CityCacheTTL),
		cities.WithLogger(log),
	)
	return app, nil
}

func newGeoLocator(c *config.Config) *geo.IPLocator {
	return geo.NewIPLocator(c.GeoLocateURL, &http.Client{Timeout: c.GeoLocateTimeout})
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}
