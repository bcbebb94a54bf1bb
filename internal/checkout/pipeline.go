package checkout

import (
	"context"
	"errors"
	"sync"

	"github.com/AutomationAlchemyst/balangconnect/internal/cart"
	domain "github.com/AutomationAlchemyst/balangconnect/internal/entity"
	"github.com/AutomationAlchemyst/balangconnect/internal/pricing"
	"github.com/google/uuid"
)

type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

var (
	// ErrNotReady rejects submission when no package is selected or the
	// flavor count is below the package limit. Checked here, not only at
	// the UI, so the invariant holds regardless of caller.
	ErrNotReady = errors.New("booking not ready")
	// ErrInFlight rejects a second submission while one is outstanding.
	ErrInFlight = errors.New("submission already in flight")
)

// Submitter is the network boundary to the order intake.
type Submitter interface {
	Submit(ctx context.Context, p domain.OrderPayload, idemKey string) (SubmitResult, error)
}

// State is a readable view of the pipeline.
type State struct {
	Status  Status `json:"status"`
	OrderID string `json:"orderId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Pipeline drives one session's order submission:
// idle -> submitting -> {success, error}; error retries back through
// submitting. The attempt token is minted when leaving idle and survives
// retries, so the intake side can dedupe double-clicks and retried failures;
// it resets only on success.
type Pipeline struct {
	client Submitter

	mu         sync.Mutex
	status     Status
	orderID    string
	errMsg     string
	attemptKey string
}

func NewPipeline(client Submitter) *Pipeline {
	return &Pipeline{client: client, status: StatusIdle}
}

func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return State{Status: p.status, OrderID: p.orderID, Error: p.errMsg}
}

// Submit builds the payload from the snapshot and quote, sends it, and maps
// the outcome onto the state machine. The cart stays mutable during the
// network call; the payload is frozen before it.
func (p *Pipeline) Submit(ctx context.Context, s cart.Snapshot, q pricing.Quote) (string, error) {
	if !q.BookingReady {
		return "", ErrNotReady
	}

	p.mu.Lock()
	if p.status == StatusSubmitting {
		p.mu.Unlock()
		return "", ErrInFlight
	}
	if p.attemptKey == "" {
		p.attemptKey = uuid.NewString()
	}
	key := p.attemptKey
	p.status = StatusSubmitting
	p.errMsg = ""
	p.mu.Unlock()

	payload := BuildPayload(s, q)
	res, err := p.client.Submit(ctx, payload, key)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.status = StatusError
		p.errMsg = err.Error()
		return "", err
	}
	if !res.Success {
		p.status = StatusError
		p.errMsg = res.Error
		return "", errors.New(res.Error)
	}

	p.status = StatusSuccess
	p.orderID = res.OrderID
	p.attemptKey = ""
	return res.OrderID, nil
}

// Pipelines hands out one Pipeline per session id.
type Pipelines struct {
	client Submitter

	mu        sync.Mutex
	pipelines map[string]*Pipeline
}

func NewPipelines(client Submitter) *Pipelines {
	return &Pipelines{client: client, pipelines: make(map[string]*Pipeline)}
}

func (ps *Pipelines) Get(sessionID string) *Pipeline {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	p, ok := ps.pipelines[sessionID]
	if !ok {
		p = NewPipeline(ps.client)
		ps.pipelines[sessionID] = p
	}
	return p
}
