// Package mutation executes package mutations against the portal and
// reconciles speculative local state with eventual server confirmation.
package mutation

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/noverdy/ispcli/internal/client/models"
	"github.com/noverdy/ispcli/internal/logging"
)

// api is the gateway surface the coordinator needs.
type api interface {
	DoJSON(ctx context.Context, method, path string, body any, header http.Header, out any) (int, error)
}

// catalogStore is the catalog surface the coordinator reconciles against.
type catalogStore interface {
	Append(p models.Package)
	Replace(p models.Package) (models.Package, bool)
	Remove(id int64)
}

// Kind classifies a pending mutation.
type Kind string

const (
	KindCreate Kind = "create"
	KindUpdate Kind = "update"
	KindDelete Kind = "delete"
)

// PendingMutation is the transient record of an in-flight optimistic
// operation. It exists only until the operation settles; on failure the
// Prior value is what gets restored.
type PendingMutation struct {
	Kind      Kind
	PackageID int64
	Prior     models.Package
	Proposed  models.Package
}

// Coordinator runs create/update/delete against the gateway. Create and
// delete are pessimistic: local state changes only after the server
// confirms. Update is optimistic: the local value is swapped immediately and
// rolled back if the server rejects the call.
type Coordinator struct {
	api     api
	catalog catalogStore
	log     logging.Logger

	mu      sync.Mutex
	pending *PendingMutation
}

func NewCoordinator(api api, catalog catalogStore, log logging.Logger) *Coordinator {
	return &Coordinator{api: api, catalog: catalog, log: log}
}

// Pending returns the in-flight optimistic mutation, if any.
func (c *Coordinator) Pending() *PendingMutation {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return nil
	}
	p := *c.pending
	return &p
}

func (c *Coordinator) setPending(p *PendingMutation) {
	c.mu.Lock()
	c.pending = p
	c.mu.Unlock()
}

// Create submits a new package. Only on server confirmation is the returned
// record, carrying its server-assigned id, appended to both catalog views.
func (c *Coordinator) Create(ctx context.Context, draft models.PackageDraft) (models.Package, error) {
	var created models.Package
	status, err := c.api.DoJSON(ctx, http.MethodPost, "/internet-packages/", draft, nil, &created)
	if err != nil {
		return models.Package{}, err
	}
	if status < 200 || status >= 300 {
		return models.Package{}, fmt.Errorf("create package: unexpected status %d", status)
	}

	c.catalog.Append(created)
	return created, nil
}

// Update applies the draft optimistically: the merged record replaces the
// target in the catalog before the PUT is issued, so the edit is perceived
// as instant. If the server rejects the call or the transport fails, the
// literal prior record is restored to both views.
func (c *Coordinator) Update(ctx context.Context, id int64, draft models.PackageDraft) error {
	proposed := draft.Merge(models.Package{ID: id})

	prior, ok := c.catalog.Replace(proposed)
	if !ok {
		return fmt.Errorf("update package: unknown id %d", id)
	}

	c.setPending(&PendingMutation{Kind: KindUpdate, PackageID: id, Prior: prior, Proposed: proposed})
	defer c.setPending(nil)

	status, err := c.api.DoJSON(ctx, http.MethodPut, "/internet-packages/"+strconv.FormatInt(id, 10), draft, nil, nil)
	if err != nil {
		c.rollback(ctx, prior, err)
		return err
	}
	if status < 200 || status >= 300 {
		err := fmt.Errorf("update package: unexpected status %d", status)
		c.rollback(ctx, prior, err)
		return err
	}

	// The optimistic value already matches what the server accepted.
	return nil
}

func (c *Coordinator) rollback(ctx context.Context, prior models.Package, cause error) {
	c.log.Error(ctx, "package update failed, rolling back", "id", prior.ID, "error", cause)
	c.catalog.Replace(prior)
}

// Delete removes a package, pessimistically: the record leaves the catalog
// only after the server confirms.
func (c *Coordinator) Delete(ctx context.Context, id int64) error {
	status, err := c.api.DoJSON(ctx, http.MethodDelete, "/internet-packages/"+strconv.FormatInt(id, 10), nil, nil, nil)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("delete package: unexpected status %d", status)
	}

	c.catalog.Remove(id)
	return nil
}
