package mutation

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noverdy/ispcli/internal/client/models"
	"github.com/noverdy/ispcli/internal/logging"
)

// PurchaseState names a stage of the purchase confirmation workflow.
type PurchaseState string

const (
	PurchaseIdle       PurchaseState = "idle"
	PurchaseConfirming PurchaseState = "confirming"
	PurchaseProcessing PurchaseState = "processing"
	PurchaseSucceeded  PurchaseState = "succeeded"
	PurchaseFailed     PurchaseState = "failed"
)

const idempotencyKeyHeader = "Idempotency-Key"

// PurchaseFlow is the staged confirmation workflow for buying a package:
//
//	Idle → Confirming → Processing → Succeeded | Failed
//
// Confirming performs no network activity; Processing fires exactly one
// POST. Succeeded auto-returns to Idle after a fixed delay or on explicit
// dismissal; Failed offers retry or cancel. The same Idempotency-Key is sent
// on every retry of one confirmation, so a retry after an ambiguous failure
// cannot double-charge; the key rotates when a new package is selected.
type PurchaseFlow struct {
	api          api
	log          logging.Logger
	dismissAfter time.Duration

	mu           sync.Mutex
	state        PurchaseState
	pkg          models.Package
	message      string
	idemKey      string
	dismissTimer *time.Timer
}

func NewPurchaseFlow(api api, log logging.Logger, dismissAfter time.Duration) *PurchaseFlow {
	return &PurchaseFlow{api: api, log: log, dismissAfter: dismissAfter, state: PurchaseIdle}
}

// State returns the current workflow stage.
func (f *PurchaseFlow) State() PurchaseState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Package returns the package under confirmation.
func (f *PurchaseFlow) Package() models.Package {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pkg
}

// Message returns the success or failure text for display.
func (f *PurchaseFlow) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// Select enters Confirming for the given package. Only valid from Idle;
// calls in any other stage are ignored.
func (f *PurchaseFlow) Select(pkg models.Package) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != PurchaseIdle {
		return false
	}
	f.state = PurchaseConfirming
	f.pkg = pkg
	f.message = ""
	f.idemKey = uuid.NewString()
	return true
}

// Confirm accepts the confirmation and fires the purchase POST. Valid from
// Confirming only; use Retry from Failed.
func (f *PurchaseFlow) Confirm(ctx context.Context) error {
	if !f.transition(PurchaseConfirming, PurchaseProcessing) {
		return fmt.Errorf("confirm: not awaiting confirmation")
	}
	return f.process(ctx)
}

// Retry re-enters Processing after a failure, reusing the idempotency key.
func (f *PurchaseFlow) Retry(ctx context.Context) error {
	if !f.transition(PurchaseFailed, PurchaseProcessing) {
		return fmt.Errorf("retry: no failed purchase to retry")
	}
	return f.process(ctx)
}

// Cancel dismisses the workflow back to Idle. From Confirming this performs
// no network call; from Succeeded or Failed it dismisses the outcome. Calls
// during Processing are ignored.
func (f *PurchaseFlow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == PurchaseProcessing {
		return
	}
	f.resetLocked()
}

func (f *PurchaseFlow) transition(from, to PurchaseState) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != from {
		return false
	}
	f.state = to
	return true
}

func (f *PurchaseFlow) resetLocked() {
	if f.dismissTimer != nil {
		f.dismissTimer.Stop()
		f.dismissTimer = nil
	}
	f.state = PurchaseIdle
	f.pkg = models.Package{}
	f.message = ""
	f.idemKey = ""
}

// process fires exactly one purchase POST for the selected package and
// settles into Succeeded or Failed.
func (f *PurchaseFlow) process(ctx context.Context) error {
	f.mu.Lock()
	pkg := f.pkg
	header := http.Header{}
	header.Set(idempotencyKeyHeader, f.idemKey)
	f.mu.Unlock()

	body := map[string]int64{"package_id": pkg.ID}
	status, err := f.api.DoJSON(ctx, http.MethodPost, "/internet-packages/buy", body, header, nil)

	if err != nil {
		f.fail(ctx, pkg, err)
		return err
	}
	if status < 200 || status >= 300 {
		err := fmt.Errorf("purchase: unexpected status %d", status)
		f.fail(ctx, pkg, err)
		return err
	}

	f.mu.Lock()
	f.state = PurchaseSucceeded
	f.message = fmt.Sprintf("You have successfully purchased the %s package.", pkg.Name)
	f.dismissTimer = time.AfterFunc(f.dismissAfter, f.autoDismiss)
	f.mu.Unlock()
	return nil
}

func (f *PurchaseFlow) fail(ctx context.Context, pkg models.Package, cause error) {
	f.log.Error(ctx, "purchase failed", "package_id", pkg.ID, "error", cause)
	f.mu.Lock()
	f.state = PurchaseFailed
	f.message = "Failed to complete your purchase. Please try again."
	f.mu.Unlock()
}

// autoDismiss returns to Idle after the display delay, unless the outcome
// was already dismissed or a new flow started.
func (f *PurchaseFlow) autoDismiss() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != PurchaseSucceeded {
		return
	}
	f.resetLocked()
}
