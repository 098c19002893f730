package assembly

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// State reflects where the assembler is in its build cycle
type State string

const (
	StateIdle     State = "IDLE"
	StateBuilding State = "BUILDING"
	StateReady    State = "READY"
	StateFailed   State = "FAILED"
)

// ContentResolver is the sole source of truth for context content and for
// the token/character counts. The assembler never computes content locally.
type ContentResolver interface {
	Resolve(ctx context.Context, notebookID string, cfg ContextConfig) (*AssembledContext, error)
}

// Assembler converts the session's current selection snapshot into an
// AssembledContext via the content resolver. Results are applied only when
// they originate from the most recently issued snapshot: an older in-flight
// assembly whose result arrives late is dropped as ErrStaleSuperseded, even
// if it resolved successfully.
type Assembler struct {
	store      *SelectionStore
	resolver   ContentResolver
	notebookID string
	logger     *log.Logger

	mu       sync.Mutex
	state    State
	ready    *AssembledContext
	readyGen uint64
}

func NewAssembler(store *SelectionStore, resolver ContentResolver, notebookID string, logger *log.Logger) *Assembler {
	return &Assembler{
		store:      store,
		resolver:   resolver,
		notebookID: notebookID,
		logger:     logger,
		state:      StateIdle,
	}
}

// Assemble builds a request strictly from the current store snapshot and
// calls the resolver. On resolver failure it returns ErrAssemblyFailed; it
// never substitutes placeholder text to let the flow continue.
func (a *Assembler) Assemble(ctx context.Context) (*AssembledContext, error) {
	cfg, gen := a.store.Snapshot()
	a.setState(StateBuilding)

	result, err := a.resolver.Resolve(ctx, a.notebookID, cfg.ActiveRequest())

	if gen != a.store.Generation() {
		// The selection moved while this request was in flight. Whatever
		// came back must never be applied.
		a.logger.Printf("[ASSEMBLY] Discarding stale result (built at gen %d, store at gen %d)", gen, a.store.Generation())
		return nil, ErrStaleSuperseded
	}

	if err != nil {
		a.setState(StateFailed)
		return nil, fmt.Errorf("%w: %v", ErrAssemblyFailed, err)
	}
	if err := result.validate(); err != nil {
		a.setState(StateFailed)
		return nil, fmt.Errorf("%w: %v", ErrAssemblyFailed, err)
	}

	a.applyReady(result, gen)
	return result, nil
}

// Current returns the last Ready result, but only while the selection it was
// built from is still the latest. Ready is provisional: one SetMode call
// later and this reports false.
func (a *Assembler) Current() (*AssembledContext, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateReady || a.readyGen != a.store.Generation() {
		return nil, false
	}
	return a.ready, true
}

// State reports the build state; a Ready result invalidated by a newer
// selection reads as Idle again.
func (a *Assembler) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == StateReady && a.readyGen != a.store.Generation() {
		return StateIdle
	}
	return a.state
}

func (a *Assembler) setState(s State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = s
}

func (a *Assembler) applyReady(result *AssembledContext, gen uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = StateReady
	a.ready = result
	a.readyGen = gen
}
