// Package catalog maintains the package collections shown in the dashboards:
// the authoritative snapshot and the current filtered view.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/noverdy/ispcli/internal/client/models"
	"github.com/noverdy/ispcli/internal/logging"
)

// api is the gateway surface the synchronizer needs.
type api interface {
	DoJSON(ctx context.Context, method, path string, body any, header http.Header, out any) (int, error)
}

// Synchronizer holds two parallel views: All (unfiltered, authoritative) and
// Packages (the current search view, always a subset-by-id of All).
//
// Overlapping searches are not sequence-tagged; a slow earlier response can
// overwrite a later one. Known hazard, kept as observed behavior.
type Synchronizer struct {
	mu  sync.Mutex
	api api
	log logging.Logger

	debouncer *Debouncer
	timeout   time.Duration

	allPackages []models.Package
	packages    []models.Package
}

// NewSynchronizer creates a synchronizer whose DebouncedSearch fires after
// the given quiet period. requestTimeout bounds the background search calls.
func NewSynchronizer(api api, log logging.Logger, debounce, requestTimeout time.Duration) *Synchronizer {
	return &Synchronizer{
		api:       api,
		log:       log,
		debouncer: NewDebouncer(debounce),
		timeout:   requestTimeout,
	}
}

// Load fetches the full package list and replaces both views with it.
func (s *Synchronizer) Load(ctx context.Context) error {
	var list []models.Package
	status, err := s.api.DoJSON(ctx, http.MethodGet, "/internet-packages/", nil, nil, &list)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("load packages: unexpected status %d", status)
	}

	s.mu.Lock()
	s.allPackages = list
	s.packages = append([]models.Package(nil), list...)
	s.mu.Unlock()
	return nil
}

// Search applies the search term. An empty term (after trim and lowercase)
// resets the filtered view to the full snapshot without a network call;
// otherwise the server-filtered result replaces the view.
func (s *Synchronizer) Search(ctx context.Context, term string) error {
	term = strings.ToLower(strings.TrimSpace(term))

	if term == "" {
		s.mu.Lock()
		s.packages = append([]models.Package(nil), s.allPackages...)
		s.mu.Unlock()
		return nil
	}

	var list []models.Package
	status, err := s.api.DoJSON(ctx, http.MethodGet, "/internet-packages/?q="+url.QueryEscape(term), nil, nil, &list)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("search packages: unexpected status %d", status)
	}

	s.mu.Lock()
	s.packages = list
	s.mu.Unlock()
	return nil
}

// DebouncedSearch schedules Search(term) after the quiet period; rapid
// successive calls collapse to the trailing one. Already-dispatched network
// requests are not cancelled.
func (s *Synchronizer) DebouncedSearch(term string) {
	s.debouncer.Trigger(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.Search(ctx, term); err != nil {
			s.log.Error(ctx, "search failed", "term", term, "error", err)
		}
	})
}

// CancelPendingSearch drops a scheduled-but-unfired search, e.g. when the
// view is dismissed.
func (s *Synchronizer) CancelPendingSearch() {
	s.debouncer.Stop()
}

// All returns a copy of the authoritative snapshot.
func (s *Synchronizer) All() []models.Package {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Package(nil), s.allPackages...)
}

// Packages returns a copy of the current filtered view.
func (s *Synchronizer) Packages() []models.Package {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Package(nil), s.packages...)
}

// Get looks a package up by id in the authoritative snapshot.
func (s *Synchronizer) Get(id int64) (models.Package, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.allPackages {
		if p.ID == id {
			return p, true
		}
	}
	return models.Package{}, false
}

// Append adds a freshly created package to both views.
func (s *Synchronizer) Append(p models.Package) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allPackages = append(s.allPackages, p)
	s.packages = append(s.packages, p)
}

// Replace swaps the record with p's id in the snapshot, then re-derives the
// filtered view by intersecting the new snapshot with the view's prior
// membership. Membership is preserved by id, not by re-applying the search
// predicate, so an edit cannot move a package in or out of the current view.
// The prior record is returned for rollback.
func (s *Synchronizer) Replace(p models.Package) (models.Package, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var prior models.Package
	found := false
	for i := range s.allPackages {
		if s.allPackages[i].ID == p.ID {
			prior = s.allPackages[i]
			s.allPackages[i] = p
			found = true
			break
		}
	}
	if !found {
		return models.Package{}, false
	}

	s.rederiveLocked()
	return prior, true
}

// Remove deletes the record from both views.
func (s *Synchronizer) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := s.allPackages[:0]
	for _, p := range s.allPackages {
		if p.ID != id {
			filtered = append(filtered, p)
		}
	}
	s.allPackages = filtered

	view := s.packages[:0]
	for _, p := range s.packages {
		if p.ID != id {
			view = append(view, p)
		}
	}
	s.packages = view
}

// rederiveLocked rebuilds the filtered view as the subset of the snapshot
// whose ids were already in the view. Caller holds s.mu.
func (s *Synchronizer) rederiveLocked() {
	member := make(map[int64]struct{}, len(s.packages))
	for _, p := range s.packages {
		member[p.ID] = struct{}{}
	}

	view := make([]models.Package, 0, len(s.packages))
	for _, p := range s.allPackages {
		if _, ok := member[p.ID]; ok {
			view = append(view, p)
		}
	}
	s.packages = view
}
