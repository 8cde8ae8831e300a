package mutation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noverdy/ispcli/internal/client/catalog"
	"github.com/noverdy/ispcli/internal/client/models"
	"github.com/noverdy/ispcli/internal/logging"
)

type apiCall struct {
	method string
	path   string
	header http.Header
	body   any
}

type fakeAPI struct {
	mu     sync.Mutex
	calls  []apiCall
	status int
	err    error

	// created is copied into out on 2xx create calls.
	created *models.Package

	// onCall, when set, runs inside DoJSON before returning.
	onCall func()
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{status: http.StatusOK}
}

func (f *fakeAPI) DoJSON(_ context.Context, method, path string, body any, header http.Header, out any) (int, error) {
	f.mu.Lock()
	f.calls = append(f.calls, apiCall{method: method, path: path, header: header, body: body})
	status, err := f.status, f.err
	created := f.created
	hook := f.onCall
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return 0, err
	}
	if created != nil && out != nil && status >= 200 && status < 300 {
		if p, ok := out.(*models.Package); ok {
			*p = *created
		}
	}
	return status, nil
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAPI) lastCall() apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newSeededCatalog(pkgs ...models.Package) *catalog.Synchronizer {
	s := catalog.NewSynchronizer(nil, discardLogger(), time.Millisecond, time.Second)
	for _, p := range pkgs {
		s.Append(p)
	}
	return s
}

func TestCreate_AppendsServerRecordOnSuccess(t *testing.T) {
	api := newFakeAPI()
	api.status = http.StatusCreated
	api.created = &models.Package{ID: 7, Name: "Fiber 100", Description: "fast", Price: 250000}

	cat := newSeededCatalog()
	c := NewCoordinator(api, cat, discardLogger())

	created, err := c.Create(context.Background(), models.PackageDraft{Name: "Fiber 100", Description: "fast", Price: 250000})
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID, "id is server-assigned")

	assert.Equal(t, []models.Package{*api.created}, cat.All())
	assert.Equal(t, []models.Package{*api.created}, cat.Packages())

	call := api.lastCall()
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/internet-packages/", call.path)
}

func TestCreate_FailureLeavesCatalogUntouched(t *testing.T) {
	api := newFakeAPI()
	api.status = http.StatusBadRequest

	cat := newSeededCatalog()
	c := NewCoordinator(api, cat, discardLogger())

	_, err := c.Create(context.Background(), models.PackageDraft{Name: "x"})
	require.Error(t, err)
	assert.Empty(t, cat.All())
}

func TestUpdate_SuccessKeepsOptimisticValue(t *testing.T) {
	prior := models.Package{ID: 5, Name: "A", Description: "old", Price: 100}
	api := newFakeAPI()
	cat := newSeededCatalog(prior)
	c := NewCoordinator(api, cat, discardLogger())

	err := c.Update(context.Background(), 5, models.PackageDraft{Name: "B", Description: "new", Price: 200})
	require.NoError(t, err)

	got, ok := cat.Get(5)
	require.True(t, ok)
	assert.Equal(t, models.Package{ID: 5, Name: "B", Description: "new", Price: 200}, got)
	assert.Nil(t, c.Pending())

	call := api.lastCall()
	assert.Equal(t, http.MethodPut, call.method)
	assert.Equal(t, "/internet-packages/5", call.path)
}

func TestUpdate_ServerRejectionRollsBack(t *testing.T) {
	prior := models.Package{ID: 5, Name: "A", Description: "old", Price: 100}
	api := newFakeAPI()
	api.status = http.StatusInternalServerError

	cat := newSeededCatalog(prior)
	c := NewCoordinator(api, cat, discardLogger())

	err := c.Update(context.Background(), 5, models.PackageDraft{Name: "B", Description: "new", Price: 200})
	require.Error(t, err)

	// update-then-fail settles back to the literal prior record
	got, ok := cat.Get(5)
	require.True(t, ok)
	assert.Equal(t, prior, got)
	assert.Nil(t, c.Pending())
}

func TestUpdate_TransportFailureRollsBack(t *testing.T) {
	prior := models.Package{ID: 5, Name: "A", Description: "old", Price: 100}
	api := newFakeAPI()
	api.err = errors.New("connection refused")

	cat := newSeededCatalog(prior)
	c := NewCoordinator(api, cat, discardLogger())

	require.Error(t, c.Update(context.Background(), 5, models.PackageDraft{Name: "B"}))

	got, _ := cat.Get(5)
	assert.Equal(t, prior, got)
}

func TestUpdate_AppliesBeforeNetworkCall(t *testing.T) {
	prior := models.Package{ID: 5, Name: "A", Description: "old", Price: 100}
	api := newFakeAPI()
	cat := newSeededCatalog(prior)
	c := NewCoordinator(api, cat, discardLogger())

	var nameDuringCall string
	var pendingDuringCall *PendingMutation
	api.onCall = func() {
		p, _ := cat.Get(5)
		nameDuringCall = p.Name
		pendingDuringCall = c.Pending()
	}

	require.NoError(t, c.Update(context.Background(), 5, models.PackageDraft{Name: "B", Description: "old", Price: 100}))

	assert.Equal(t, "B", nameDuringCall, "speculative value visible while the PUT is in flight")
	require.NotNil(t, pendingDuringCall)
	assert.Equal(t, KindUpdate, pendingDuringCall.Kind)
	assert.Equal(t, prior, pendingDuringCall.Prior)
}

func TestUpdate_UnknownIDFailsWithoutNetworkCall(t *testing.T) {
	api := newFakeAPI()
	cat := newSeededCatalog()
	c := NewCoordinator(api, cat, discardLogger())

	require.Error(t, c.Update(context.Background(), 99, models.PackageDraft{Name: "B"}))
	assert.Equal(t, 0, api.callCount())
}

func TestDelete_RemovesOnlyOnSuccess(t *testing.T) {
	pkg := models.Package{ID: 5, Name: "A"}
	api := newFakeAPI()
	cat := newSeededCatalog(pkg)
	c := NewCoordinator(api, cat, discardLogger())

	require.NoError(t, c.Delete(context.Background(), 5))
	assert.Empty(t, cat.All())
	assert.Empty(t, cat.Packages())

	call := api.lastCall()
	assert.Equal(t, http.MethodDelete, call.method)
	assert.Equal(t, "/internet-packages/5", call.path)
}

func TestDelete_FailureLeavesCatalogUntouched(t *testing.T) {
	pkg := models.Package{ID: 5, Name: "A"}
	api := newFakeAPI()
	api.status = http.StatusInternalServerError

	cat := newSeededCatalog(pkg)
	c := NewCoordinator(api, cat, discardLogger())

	require.Error(t, c.Delete(context.Background(), 5))
	assert.Equal(t, []models.Package{pkg}, cat.All())
}
