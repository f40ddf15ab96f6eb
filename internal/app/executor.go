package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/quote-manager/internal/platform/logging"
)

// Multi-step writes run as Validate → Perform → Verify → Archive → Respond.
// Nothing is written before Verify has accepted what Perform produced, so an
// upstream failure never leaves a partial import in the collection.

// ExecutionStep names a stage of an Operation.
type ExecutionStep string

// Steps in execution order.
const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError records the step an operation failed in.
type ExecutionError struct {
	Step  ExecutionStep
	Cause error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Cause)
}

// Unwrap returns the underlying cause so domain errors stay visible to errors.Is.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Operation wires the five steps. Any step may be nil and is then skipped,
// passing the zero value along.
type Operation[I, P, V, O any] struct {
	// Name identifies the operation in logs.
	Name string

	Validate func(ctx context.Context, input I) error
	Perform  func(ctx context.Context, input I) (P, error)
	Verify   func(ctx context.Context, input I, performed P) (V, error)
	Archive  func(ctx context.Context, input I, verified V) error
	Respond  func(ctx context.Context, input I, verified V) (O, error)
}

// Executor runs operations with step logging.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor creates an executor. A nil logger uses slog.Default.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{logger: logger}
}

// Execute runs op against input, stopping at the first failing step.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], input I) (O, error) {
	var zero O

	logger, ok := logging.Lookup(ctx)
	if !ok {
		logger = exec.logger
	}

	logger = logger.With(slog.String("operation", op.Name))
	start := time.Now()

	_, err := step(ctx, logger, StepValidate, op.Validate != nil, func() (struct{}, error) {
		return struct{}{}, op.Validate(ctx, input)
	})
	if err != nil {
		return zero, err
	}

	performed, err := step(ctx, logger, StepPerform, op.Perform != nil, func() (P, error) {
		return op.Perform(ctx, input)
	})
	if err != nil {
		return zero, err
	}

	verified, err := step(ctx, logger, StepVerify, op.Verify != nil, func() (V, error) {
		return op.Verify(ctx, input, performed)
	})
	if err != nil {
		return zero, err
	}

	_, err = step(ctx, logger, StepArchive, op.Archive != nil, func() (struct{}, error) {
		return struct{}{}, op.Archive(ctx, input, verified)
	})
	if err != nil {
		return zero, err
	}

	result, err := step(ctx, logger, StepRespond, op.Respond != nil, func() (O, error) {
		return op.Respond(ctx, input, verified)
	})
	if err != nil {
		return zero, err
	}

	logger.InfoContext(ctx, "operation completed", slog.Duration("duration", time.Since(start)))

	return result, nil
}

func step[T any](
	ctx context.Context,
	logger *slog.Logger,
	name ExecutionStep,
	present bool,
	fn func() (T, error),
) (T, error) {
	var zero T

	if !present {
		return zero, nil
	}

	logger.DebugContext(ctx, "step started", slog.String("step", string(name)))

	out, err := fn()
	if err != nil {
		level := slog.LevelError
		if name == StepValidate {
			level = slog.LevelWarn
		}

		logger.Log(ctx, level, "step failed",
			slog.String("step", string(name)),
			slog.Any("error", err),
		)

		return zero, &ExecutionError{Step: name, Cause: err}
	}

	return out, nil
}

// GetExecutionStep extracts the failing step from an error returned by Execute.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}
