// Package workflow drives the pending to approved lifecycles of users, jobs and
// applications. Transitions are compare-and-set updates so concurrent approvals of the
// same row both observe a consistent outcome.
package workflow

import (
	"context"
	"fmt"

	"anoa.com/jobboard/internal/entity"
	"anoa.com/jobboard/pkg/apperror"
	"anoa.com/jobboard/pkg/logger"
)

// StatusStore reads and conditionally writes status columns.
type StatusStore interface {
	// CompareAndSetStatus moves the row from `from` to `to` and reports whether a row changed.
	CompareAndSetStatus(ctx context.Context, lifecycle entity.Lifecycle, id uint, from, to entity.Status) (bool, error)
	// CurrentStatus returns apperror.ErrNotFound when the row does not exist.
	CurrentStatus(ctx context.Context, lifecycle entity.Lifecycle, id uint) (entity.Status, error)
}

type Engine struct {
	store StatusStore
}

func NewEngine(store StatusStore) *Engine {
	return &Engine{store: store}
}

// Result describes the outcome of a transition request.
type Result struct {
	Status  entity.Status
	Changed bool
}

// Approve moves the row to approved. Approving an already approved row is a no-op.
func (e *Engine) Approve(ctx context.Context, lifecycle entity.Lifecycle, id uint) (Result, error) {
	return e.Transition(ctx, lifecycle, id, entity.StatusApproved)
}

// Transition applies one lifecycle edge. Requests that land on the current state succeed
// without writing; edges the lifecycle does not have fail with ErrBadRequest.
func (e *Engine) Transition(ctx context.Context, lifecycle entity.Lifecycle, id uint, to entity.Status) (Result, error) {
	current, err := e.store.CurrentStatus(ctx, lifecycle, id)
	if err != nil {
		return Result{}, err
	}

	if current == to {
		return Result{Status: current}, nil
	}
	if !current.CanTransitionTo(to) {
		return Result{}, apperror.Wrap(apperror.ErrBadRequest, "%s %d cannot move from %s to %s", lifecycle, id, current, to)
	}

	changed, err := e.store.CompareAndSetStatus(ctx, lifecycle, id, current, to)
	if err != nil {
		return Result{}, fmt.Errorf("failed to update %s status: %w", lifecycle, err)
	}

	if !changed {
		// Lost a race; report whatever the winner left behind.
		after, err := e.store.CurrentStatus(ctx, lifecycle, id)
		if err != nil {
			return Result{}, err
		}
		if after != to {
			return Result{}, apperror.Wrap(apperror.ErrConflict, "%s %d changed concurrently", lifecycle, id)
		}
		return Result{Status: after}, nil
	}

	log := logger.WithField("lifecycle", lifecycle.String())
	log.Info().
		Uint("id", id).
		Str("from", current.String()).
		Str("to", to.String()).
		Msg("status transition")

	return Result{Status: to, Changed: true}, nil
}
