package logging

// NullLogger discards everything. It satisfies sqlaction.Logger and the
// optional Mask method so callers never need a nil check.
type NullLogger struct{}

func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (l *NullLogger) Verbose(string, ...interface{}) {}
func (l *NullLogger) Info(string, ...interface{})    {}
func (l *NullLogger) Warn(string, ...interface{})    {}
func (l *NullLogger) Error(string, ...interface{})   {}
func (l *NullLogger) Mask(string)                    {}
