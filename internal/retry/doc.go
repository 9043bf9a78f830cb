// Package retry re-runs operations that fail with transient SQL Server or
// network errors, waiting with exponential backoff between attempts.
//
//	executor := retry.NewExecutor(retry.NewSQLServerClassifier(), retry.NewBackoff(3))
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return db.PingContext(ctx)
//	})
//
// Classification and timing are pluggable through the Classifier and
// Strategy interfaces.
package retry
