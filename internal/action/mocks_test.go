package action

import (
	"context"
	"strings"

	"github.com/vvka-141/sqlaction/pkg/sqlaction"
)

// callLog records collaborator calls across fakes so tests can assert ordering.
type callLog struct {
	calls []string
}

func (l *callLog) add(call string) {
	l.calls = append(l.calls, call)
}

type mockLocator struct {
	log  *callLog
	path string
	err  error
}

func (m *mockLocator) SQLPackagePath(_ context.Context) (string, error) {
	m.log.add("locate")
	return m.path, m.err
}

type mockArgumentParser struct {
	log      *callLog
	parsed   sqlaction.Arguments
	parseErr error
}

func (m *mockArgumentParser) ParseCommandArguments(_ string) (sqlaction.Arguments, error) {
	m.log.add("parse")
	if m.parseErr != nil {
		return nil, m.parseErr
	}
	if m.parsed == nil {
		return sqlaction.Arguments{}, nil
	}
	return m.parsed, nil
}

func (m *mockArgumentParser) FindArgument(args sqlaction.Arguments, names ...string) (string, bool) {
	for _, name := range names {
		if v, ok := args[strings.ToLower(name)]; ok && v != nil {
			return *v, true
		}
	}
	return "", false
}

type mockExecutor struct {
	log     *callLog
	err     error
	gotConn *sqlaction.ConnectionConfig
	gotSQL  string
}

func (m *mockExecutor) ExecuteSQL(_ context.Context, conn *sqlaction.ConnectionConfig, sqlText string) error {
	m.log.add("executeSQL")
	m.gotConn = conn
	m.gotSQL = sqlText
	return m.err
}

type mockRunner struct {
	log      *callLog
	commands []string
	// errs maps the zero-based invocation index to the error it returns.
	errs map[int]error
}

func (m *mockRunner) Run(_ context.Context, command string) error {
	m.log.add("run")
	idx := len(m.commands)
	m.commands = append(m.commands, command)
	return m.errs[idx]
}

type mockFileReader struct {
	log     *callLog
	content map[string]string
	err     error
	reads   int
}

func (m *mockFileReader) ReadFile(path string) ([]byte, error) {
	m.log.add("read")
	m.reads++
	if m.err != nil {
		return nil, m.err
	}
	return []byte(m.content[path]), nil
}

type mockLogger struct{}

func (m *mockLogger) Verbose(_ string, _ ...interface{}) {}
func (m *mockLogger) Info(_ string, _ ...interface{})    {}
func (m *mockLogger) Warn(_ string, _ ...interface{})    {}
func (m *mockLogger) Error(_ string, _ ...interface{})   {}

type fixture struct {
	log      *callLog
	locator  *mockLocator
	args     *mockArgumentParser
	executor *mockExecutor
	runner   *mockRunner
	files    *mockFileReader
}

func newFixture() *fixture {
	log := &callLog{}
	return &fixture{
		log:      log,
		locator:  &mockLocator{log: log, path: "SqlPackage.exe"},
		args:     &mockArgumentParser{log: log},
		executor: &mockExecutor{log: log},
		runner:   &mockRunner{log: log},
		files:    &mockFileReader{log: log, content: map[string]string{}},
	}
}

func (f *fixture) dispatcher() *ActionDispatcher {
	return NewDispatcher(f.locator, f.args, f.executor, f.runner, f.files, &mockLogger{})
}

func strPtr(s string) *string { return &s }
