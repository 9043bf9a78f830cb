package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/vvka-141/sqlaction/pkg/sqlaction"
)

// session is the slice of *sql.Conn the executor needs.
type session interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Close() error
}

// openFunc opens a session against the target database.
type openFunc func(ctx context.Context, config *sqlaction.ConnectionConfig) (session, error)

// ScriptExecutor runs T-SQL scripts batch by batch over a single connection.
// It implements sqlaction.SQLExecutor.
type ScriptExecutor struct {
	logger    sqlaction.Logger
	variables map[string]string
	appName   string
	open      openFunc
}

// ExecutorOption configures a ScriptExecutor.
type ExecutorOption func(*ScriptExecutor)

// WithVariables supplies values for $(Name) references in scripts.
func WithVariables(vars map[string]string) ExecutorOption {
	return func(e *ScriptExecutor) {
		e.variables = vars
	}
}

// WithAppName overrides the application name reported to the server when
// the connection string does not set one.
func WithAppName(name string) ExecutorOption {
	return func(e *ScriptExecutor) {
		e.appName = name
	}
}

func withOpener(open openFunc) ExecutorOption {
	return func(e *ScriptExecutor) {
		e.open = open
	}
}

// NewScriptExecutor creates a ScriptExecutor. Panics if logger is nil.
func NewScriptExecutor(logger sqlaction.Logger, opts ...ExecutorOption) *ScriptExecutor {
	if logger == nil {
		panic("logger cannot be nil")
	}
	e := &ScriptExecutor{logger: logger}
	e.open = e.openConnection
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExecuteSQL runs sqlText against the target. Batches run in order and
// execution stops at the first failing batch.
func (e *ScriptExecutor) ExecuteSQL(ctx context.Context, config *sqlaction.ConnectionConfig, sqlText string) error {
	if config == nil {
		return fmt.Errorf("%w: connection config is nil", sqlaction.ErrInvalidConfig)
	}

	expanded, err := SubstituteVariables(sqlText, e.variables)
	if err != nil {
		return err
	}
	batches := SplitBatches(expanded)
	if len(batches) == 0 {
		e.logger.Warn("Script contains no SQL statements")
		return nil
	}

	conn, err := e.open(ctx, config)
	if err != nil {
		return err
	}
	defer conn.Close()

	e.logger.Verbose("Executing %d batch(es) against %s", len(batches), config)
	for i, batch := range batches {
		for run := 0; run < batch.Count; run++ {
			if _, err := conn.ExecContext(ctx, batch.SQL); err != nil {
				return &BatchError{
					Index:   i + 1,
					Total:   len(batches),
					Line:    batch.Line,
					Preview: preview(batch.SQL),
					Err:     err,
				}
			}
		}
		e.logger.Verbose("Batch %d/%d (line %d) completed", i+1, len(batches), batch.Line)
	}
	return nil
}

// openConnection pins one pooled connection so session state such as
// temp tables and SET options carries across batches.
func (e *ScriptExecutor) openConnection(ctx context.Context, config *sqlaction.ConnectionConfig) (session, error) {
	cfg := config.DeepCopy()
	if cfg.AppName == "" && e.appName != "" {
		cfg.AppName = e.appName
	}

	connector := NewConnector(&cfg, e.logger)
	db, err := connector.Open(ctx)
	if err != nil {
		return nil, err
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		connector.Close()
		return nil, fmt.Errorf("%w: %w", sqlaction.ErrConnectionFailed, err)
	}
	return &pinnedConn{Conn: conn, db: db, connector: connector}, nil
}

type pinnedConn struct {
	*sql.Conn
	db        *sql.DB
	connector *Connector
}

func (c *pinnedConn) Close() error {
	c.Conn.Close()
	c.db.Close()
	return c.connector.Close()
}

// BatchError reports the batch that stopped script execution.
type BatchError struct {
	Index   int
	Total   int
	Line    int
	Preview string
	Err     error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch %d of %d (line %d) failed: %v\nSQL: %s", e.Index, e.Total, e.Line, e.Err, e.Preview)
}

func (e *BatchError) Unwrap() []error {
	return []error{sqlaction.ErrExecutionFailed, e.Err}
}

func preview(sql string) string {
	sql = strings.Join(strings.Fields(sql), " ")
	runes := []rune(sql)
	if len(runes) <= sqlaction.MaxErrorPreviewLength {
		return sql
	}
	return string(runes[:sqlaction.MaxErrorPreviewLength]) + "..."
}
