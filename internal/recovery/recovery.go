// Package recovery composes checkpointed state persistence with error
// classification and backoff retry around provider operations.
package recovery

import (
	"context"
	"fmt"
	"io"

	"github.com/wrenlabs/specwright/internal/errs"
	"github.com/wrenlabs/specwright/internal/session"
)

// Saver persists an interview checkpoint and reports where it went.
// *session.Store satisfies it.
type Saver interface {
	Save(state session.State) (string, error)
}

// Options configures Run.
type Options struct {
	// State is checkpointed around the operation when Store is set.
	State *session.State
	Store Saver

	SaveBefore  bool
	SaveOnError bool

	// TransformError customizes the classified error carried by the
	// outcome (nil keeps the classification as is).
	TransformError func(*errs.Error) *errs.Error

	// Logger receives checkpoint failures (nil for none).
	Logger io.Writer
}

// DefaultOptions enables checkpointing on both sides of the operation.
func DefaultOptions(state *session.State, store Saver) Options {
	return Options{
		State:       state,
		Store:       store,
		SaveBefore:  true,
		SaveOnError: true,
	}
}

// Outcome is the result of a recovered operation. Run never panics and
// never returns a raw error; failures are classified here.
type Outcome struct {
	Success        bool
	Err            *errs.Error
	SavedBefore    bool
	SavedAfter     bool
	CheckpointPath string
}

// Run optionally checkpoints state, runs op, and on failure optionally
// checkpoints again. A checkpoint failure on either side is logged but
// never masks or substitutes for the operation's own outcome.
func Run(ctx context.Context, opts Options, op Operation) Outcome {
	var outcome Outcome

	if opts.SaveBefore {
		outcome.SavedBefore, outcome.CheckpointPath = trySave(opts, "before")
	}

	err := op(ctx)
	if err == nil {
		outcome.Success = true
		return outcome
	}

	classified := errs.Classify(err)
	if opts.TransformError != nil {
		classified = opts.TransformError(classified)
	}
	outcome.Err = classified

	if opts.SaveOnError {
		var path string
		outcome.SavedAfter, path = trySave(opts, "after failure")
		if path != "" {
			outcome.CheckpointPath = path
		}
	}

	return outcome
}

// SafeExecute always checkpoints state before running op; on failure it
// best-effort checkpoints again and returns the classified error. On
// success it returns the checkpoint path used.
func SafeExecute(ctx context.Context, op Operation, state session.State, store Saver) (string, error) {
	path, err := store.Save(state)
	if err != nil {
		return "", errs.Classify(err)
	}

	if opErr := op(ctx); opErr != nil {
		// Best effort; a second checkpoint failure must not replace
		// the operation's error.
		store.Save(state)
		return path, errs.Classify(opErr)
	}

	return path, nil
}

func trySave(opts Options, when string) (bool, string) {
	if opts.Store == nil || opts.State == nil {
		return false, ""
	}
	path, err := opts.Store.Save(*opts.State)
	if err != nil {
		if opts.Logger != nil {
			fmt.Fprintf(opts.Logger, "checkpoint %s operation failed: %v\n", when, err)
		}
		return false, ""
	}
	return true, path
}
