package retry

import (
	"context"
	"time"
)

// Classifier reports whether an error is worth retrying.
type Classifier interface {
	IsTransient(err error) bool
}

// Executor runs an operation, retrying transient failures per its Strategy.
// Safe for concurrent use.
type Executor struct {
	classifier Classifier
	strategy   Strategy
	onRetry    func(attempt int, err error, delay time.Duration)
}

// NewExecutor panics if classifier or strategy is nil.
func NewExecutor(classifier Classifier, strategy Strategy) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	return &Executor{classifier: classifier, strategy: strategy}
}

// WithOnRetry returns a copy of e that calls callback before each retry.
func (e *Executor) WithOnRetry(callback func(attempt int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = callback
	return &clone
}

// Execute returns nil on the first success, or the last error once a fatal
// error occurs, retries run out, or ctx ends.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	err := operation(ctx)
	limit := e.strategy.MaxAttempts()

	for attempt := 0; err != nil && e.classifier.IsTransient(err); attempt++ {
		if limit >= 0 && attempt >= limit {
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		delay := e.strategy.NextDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		err = operation(ctx)
	}
	return err
}
