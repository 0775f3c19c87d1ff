package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/smartshop/shopctl/internal/client"
	"github.com/smartshop/shopctl/internal/config"
	"github.com/smartshop/shopctl/internal/logging"
	"github.com/smartshop/shopctl/internal/session"
	"github.com/smartshop/shopctl/internal/tokenstore"
	"github.com/smartshop/shopctl/pkg/output"
)

// App is everything a command needs to talk to the API for one profile.
type App struct {
	Config  *config.Config
	Logger  *logging.Logger
	Tokens  tokenstore.Store
	API     *client.Client
	Session *session.Store
	Catalog client.CatalogReader
}

func newApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(logging.ParseLevel(c.Logging.Level), c.Logging.Format).
		With(logging.Profile(c.CurrentProfile))

	tokens, err := tokenstore.Open(ctx, c.Tokens(""))
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}
	logger.DebugContext(ctx, "token store opened", logging.Backend(tokens.Backend()))

	creds := client.NewCredentials(tokens)
	api := client.New(c.Client(), client.WithLogger(logger), client.WithCredentials(creds))

	catalog, err := client.NewCatalogReader(api, c.Catalog.Transport)
	if err != nil {
		tokens.Close()
		return nil, err
	}

	sess := session.New(session.NewAPI(api), creds,
		session.WithLogger(logger),
		session.WithServerLogout(c.Session.ServerLogout),
	)

	return &App{
		Config:  c,
		Logger:  logger,
		Tokens:  tokens,
		API:     api,
		Session: sess,
		Catalog: catalog,
	}, nil
}

// Identity restores the persisted session and returns who is signed in.
func (a *App) Identity(ctx context.Context) (*session.Identity, error) {
	a.Session.Restore(ctx)
	id, ok := a.Session.Current()
	if !ok {
		return nil, fmt.Errorf("%w, run 'shopctl login'", session.ErrNotAuthenticated)
	}
	return id, nil
}

// RequireRole restores the session and checks the signed-in role.
func (a *App) RequireRole(ctx context.Context, roles ...session.Role) error {
	a.Session.Restore(ctx)
	if err := a.Session.RequireRole(roles...); err != nil {
		if errors.Is(err, session.ErrNotAuthenticated) {
			return fmt.Errorf("%w, run 'shopctl login'", err)
		}
		return err
	}
	return nil
}

func (a *App) Close() error {
	return a.Tokens.Close()
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func addPagingFlags(cmd *cobra.Command) {
	cmd.Flags().Int("page", 0, "page number, starting at 0")
	cmd.Flags().Int("size", 10, "page size")
}

func paging(cmd *cobra.Command) (page, size int) {
	page, _ = cmd.Flags().GetInt("page")
	size, _ = cmd.Flags().GetInt("size")
	return page, size
}

func printPageFooter[T any](p *client.Page[T]) {
	if p.TotalPages > 0 {
		fmt.Fprintf(output.Stdout, "\npage %d of %d (%d total)\n", p.PageNumber+1, p.TotalPages, p.TotalElements)
	}
}
