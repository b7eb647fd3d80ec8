package invoicestatus

import (
	"context"
	"log"
	"sync"

	"invoice-dashboard/pkg/models"
)

// FailureMessage is shown to the user when a status change is not confirmed.
const FailureMessage = "Failed to update invoice status"

// Mutator sends a status change for one invoice. A nil error means the
// change was confirmed.
type Mutator interface {
	UpdateStatus(ctx context.Context, invoiceID string, status models.InvoiceStatus) error
}

// Notifier raises an interruptive message to the user.
type Notifier interface {
	Alert(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Alert(message string) { f(message) }

// State is a snapshot of a coordinator.
// Busy is true exactly while a request is in flight; Target is the
// requested status during that window.
type State struct {
	Status models.InvoiceStatus
	Busy   bool
	Target models.InvoiceStatus
}

// Coordinator owns the last confirmed status of one invoice and the
// lifecycle of the request that changes it. The displayed status only
// advances after the mutator confirms; failures leave it untouched.
type Coordinator struct {
	invoiceID string
	mutator   Mutator
	notifier  Notifier
	logger    *log.Logger

	mu     sync.Mutex
	status models.InvoiceStatus
	busy   bool
	target models.InvoiceStatus
}

// NewCoordinator starts in Idle(initial).
func NewCoordinator(invoiceID string, initial models.InvoiceStatus, mutator Mutator, notifier Notifier) *Coordinator {
	return &Coordinator{
		invoiceID: invoiceID,
		status:    initial,
		mutator:   mutator,
		notifier:  notifier,
		logger:    log.Default(),
	}
}

// SetLogger replaces the logger used for failure diagnostics.
func (c *Coordinator) SetLogger(logger *log.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// InvoiceID returns the invoice this coordinator edits.
func (c *Coordinator) InvoiceID() string { return c.invoiceID }

// State returns a snapshot of the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Status: c.status, Busy: c.busy, Target: c.target}
}

// RequestStatusChange moves the invoice to newStatus and blocks until the
// request completes. It returns true only when the change was confirmed.
// Requests for the current status, or issued while another request is in
// flight, return false without side effects. Failures are logged and
// reported to the notifier once; there is no retry.
func (c *Coordinator) RequestStatusChange(ctx context.Context, newStatus models.InvoiceStatus) bool {
	c.mu.Lock()
	if newStatus == c.status || c.busy {
		c.mu.Unlock()
		return false
	}
	previous := c.status
	c.busy = true
	c.target = newStatus
	c.mu.Unlock()

	err := c.send(ctx, newStatus)

	c.mu.Lock()
	if err == nil {
		c.status = newStatus
	}
	c.busy = false
	c.target = ""
	c.mu.Unlock()

	if err != nil {
		c.logger.Printf("❌ invoice %s: status change %s -> %s failed: %v", c.invoiceID, previous, newStatus, err)
		if c.notifier != nil {
			c.notifier.Alert(FailureMessage)
		}
		return false
	}
	return true
}

// send shields the state machine from a panicking mutator so busy is always cleared.
func (c *Coordinator) send(ctx context.Context, status models.InvoiceStatus) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return c.mutator.UpdateStatus(ctx, c.invoiceID, status)
}
