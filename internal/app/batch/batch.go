// Package batch stages writes and commits them all-or-nothing.
//
//	b := batch.New()
//	for _, d := range drafts {
//	    _ = b.Stage(addQuote{svc: svc, draft: d})
//	}
//	if err := b.Commit(ctx); err != nil {
//	    // every executed action has been rolled back
//	}
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jsamuelsen/quote-manager/internal/platform/logging"
)

// ErrAlreadyCommitted is returned when staging or committing a batch that
// has already been committed.
var ErrAlreadyCommitted = errors.New("batch already committed")

// Action is one staged write.
type Action interface {
	// Execute performs the write.
	Execute(ctx context.Context) error

	// Rollback undoes a successful Execute.
	Rollback(ctx context.Context) error

	// Description names the action in logs and errors.
	Description() string
}

// Batch collects actions until Commit.
type Batch struct {
	mu        sync.Mutex
	actions   []Action
	committed bool
}

// New returns an empty batch.
func New() *Batch {
	return &Batch{}
}

// Stage appends an action.
func (b *Batch) Stage(action Action) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.committed {
		return ErrAlreadyCommitted
	}

	b.actions = append(b.actions, action)

	return nil
}

// Len returns the number of staged actions.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.actions)
}

// Commit executes the staged actions in order. When one fails, the actions
// already executed are rolled back in reverse order and the returned error
// joins the failure with any rollback errors.
func (b *Batch) Commit(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.committed {
		return ErrAlreadyCommitted
	}

	for i, action := range b.actions {
		if err := action.Execute(ctx); err != nil {
			failure := fmt.Errorf("action %q failed: %w", action.Description(), err)

			return errors.Join(failure, rollback(ctx, b.actions[:i]))
		}
	}

	b.committed = true

	return nil
}

func rollback(ctx context.Context, executed []Action) error {
	var errs []error

	for i := len(executed) - 1; i >= 0; i-- {
		action := executed[i]
		if err := action.Rollback(ctx); err != nil {
			logging.FromContext(ctx).WarnContext(ctx, "rollback failed",
				slog.String("action", action.Description()),
				slog.Any("error", err),
			)
			errs = append(errs, fmt.Errorf("rollback %q: %w", action.Description(), err))
		}
	}

	return errors.Join(errs...)
}
