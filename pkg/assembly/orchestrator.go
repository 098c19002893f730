package assembly

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

// ChatExecutor dispatches a message together with its assembled context and
// returns the AI response text.
type ChatExecutor interface {
	Execute(ctx context.Context, sessionID string, message string, assembled *AssembledContext) (string, error)
}

// Notifier delivers soft, user-visible notifications for one session
type Notifier interface {
	Notify(sessionID string, message string)
}

// Orchestrator sequences context assembly before message dispatch for one
// chat session. The model never receives a message without a freshly
// assembled context, and never a context containing placeholder values.
// Concurrent sends on the same session are serialized, not raced.
type Orchestrator struct {
	sendMu    sync.Mutex
	sessionID string
	assembler *Assembler
	executor  ChatExecutor
	notifier  Notifier
	logger    *log.Logger
}

func NewOrchestrator(sessionID string, assembler *Assembler, executor ChatExecutor, notifier Notifier, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		sessionID: sessionID,
		assembler: assembler,
		executor:  executor,
		notifier:  notifier,
		logger:    logger,
	}
}

// Send snapshots the selection, awaits assembly, and only then dispatches.
// On assembly failure the send is aborted, the failure surfaced once, and the
// message text left intact for retry.
func (o *Orchestrator) Send(ctx context.Context, message string) (string, *AssembledContext, error) {
	o.sendMu.Lock()
	defer o.sendMu.Unlock()

	var assembled *AssembledContext
	for {
		result, err := o.assembler.Assemble(ctx)
		if errors.Is(err, ErrStaleSuperseded) {
			// The selection changed under this send; rebuild from the
			// newer snapshot. Loops until a snapshot survives its own
			// assembly.
			continue
		}
		if err != nil {
			o.logger.Printf("[SEND] Assembly failed for session %s: %v", o.sessionID, err)
			if o.notifier != nil {
				o.notifier.Notify(o.sessionID, "Could not prepare your context. The message was not sent; please try again.")
			}
			return "", nil, err
		}
		assembled = result
		break
	}

	reply, err := o.executor.Execute(ctx, o.sessionID, message, assembled)
	if err != nil {
		return "", nil, fmt.Errorf("chat execution failed: %w", err)
	}
	return reply, assembled, nil
}

// Assembler exposes the session's assembler for read-side callers (context
// panel counts, state display).
func (o *Orchestrator) Assembler() *Assembler {
	return o.assembler
}
