// Package cli implements the interactive terminal views of the portal
// client: authentication prompts, the customer dashboard, and the admin
// package-management dashboard.
package cli

import (
	"bufio"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/noverdy/ispcli/internal/client/catalog"
	"github.com/noverdy/ispcli/internal/client/config"
	"github.com/noverdy/ispcli/internal/client/gateway"
	"github.com/noverdy/ispcli/internal/client/mutation"
	"github.com/noverdy/ispcli/internal/client/session"
	"github.com/noverdy/ispcli/internal/logging"
)

// App wires the client components together behind the terminal views.
type App struct {
	config  *config.Config
	session *session.Store
	gateway *gateway.Gateway

	catalog      *catalog.Synchronizer
	adminCatalog *catalog.Synchronizer
	coordinator  *mutation.Coordinator
	purchase     *mutation.PurchaseFlow

	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer
}

// NewApp builds the client stack from configuration: session store with its
// persisted snapshot, authenticated gateway, one catalog per view (the two
// views debounce their search boxes differently), mutation coordinator and
// purchase flow.
func NewApp(cfg *config.Config, log logging.Logger) *App {
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	snapshotPath := filepath.Join(cfg.StateDir, session.SnapshotFile)

	sess := session.NewStore(cfg.APIBaseURL, httpClient, snapshotPath)
	gw := gateway.New(cfg.APIBaseURL, httpClient, sess, log)

	userCatalog := catalog.NewSynchronizer(gw, log, cfg.SearchDebounce, cfg.RequestTimeout)
	adminCatalog := catalog.NewSynchronizer(gw, log, cfg.AdminSearchDebounce, cfg.RequestTimeout)

	return &App{
		config:       cfg,
		session:      sess,
		gateway:      gw,
		catalog:      userCatalog,
		adminCatalog: adminCatalog,
		coordinator:  mutation.NewCoordinator(gw, adminCatalog, log),
		purchase:     mutation.NewPurchaseFlow(gw, log, cfg.PurchaseDismissAfter),
		log:          log,
		reader:       bufio.NewReader(os.Stdin),
		out:          os.Stdout,
	}
}

// Session exposes the session store for commands that only need auth state.
func (a *App) Session() *session.Store {
	return a.session
}
