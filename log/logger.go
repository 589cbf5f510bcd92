package log

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

// The verbosity levels accepted by SetLevel.
type Level logging.Level

const (
	Debug Level = iota
	Info
	Notice
	Error
)

// Log line layout shared by all named loggers.
var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} %{level:-6s} %{module}:%{color:reset} %{message}`,
)

var leveledBackend logging.LeveledBackend

// The subset of the go-logging surface the renderer components use. Debug
// carries per-frame kernel diagnostics, Notice the default progress output.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// Create a named logger. Components name their logger after the subsystem
// they implement (renderer, bvh builder, scene reader, per-tracer ids).
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// Redirect all logger output to the given sink.
func SetSink(sink io.Writer) {
	backend := logging.NewBackendFormatter(logging.NewLogBackend(sink, "", 0), format)
	leveledBackend = logging.AddModuleLevel(backend)
	leveledBackend.SetLevel(logging.NOTICE, "")
	logging.SetBackend(leveledBackend)
}

// Set the verbosity for all named loggers.
func SetLevel(level Level) {
	mapped := logging.NOTICE
	switch level {
	case Debug:
		mapped = logging.DEBUG
	case Info:
		mapped = logging.INFO
	case Error:
		mapped = logging.ERROR
	}

	leveledBackend.SetLevel(mapped, "")
}

func init() {
	SetSink(os.Stdout)
}
