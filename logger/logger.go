// Package logger provides structured logging for mdsub, based on logrus.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger handles structured logging for a namespace.
type Logger struct {
	base  *logrus.Logger
	entry *logrus.Entry
}

// New returns a new Logger instance for the given namespace.
// Arguments after the namespace are key-value pairs attached to all
// messages.
func New(ns string, args ...interface{}) *Logger {
	base := logrus.New()
	base.SetLevel(logrus.InfoLevel)
	base.SetFormatter(&textFormatter{
		conf: TextFormatConfig{
			FullTimestamp:   true,
			TimestampFormat: defaultTimestampFormat,
		},
	})
	f := fields(args...)
	f["ns"] = ns
	return &Logger{base: base, entry: base.WithFields(f)}
}

// Sub returns a child logger with the given namespace and fields.
func (l *Logger) Sub(ns string, args ...interface{}) *Logger {
	f := fields(args...)
	f["ns"] = ns
	return &Logger{base: l.base, entry: l.entry.WithFields(f)}
}

// WithFields returns a child logger with the given fields added to all
// messages.
func (l *Logger) WithFields(args ...interface{}) *Logger {
	return &Logger{base: l.base, entry: l.entry.WithFields(fields(args...))}
}

// Debug logs a debug message.
//
// After the first argument, arguments are key-value pairs written as
// structured fields:
//
//	log.Debug("filling template", "tpl", path, "keys", n)
func (l *Logger) Debug(msg string, args ...interface{}) {
	defer recoverLogErr()
	l.entry.WithFields(fields(args...)).Debug(msg)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...interface{}) {
	defer recoverLogErr()
	l.entry.WithFields(fields(args...)).Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...interface{}) {
	defer recoverLogErr()
	l.entry.WithFields(fields(args...)).Warn(msg)
}

// Error logs an error message.
//
// Error has a two-argument shortcut for wrapping an error value:
//
//	log.Error("couldn't write script", err)
func (l *Logger) Error(msg string, args ...interface{}) {
	defer recoverLogErr()
	var f map[string]interface{}
	if len(args) == 1 {
		f = fields("error", args[0])
	} else {
		f = fields(args...)
	}
	l.entry.WithFields(f).Error(msg)
}

// SetLevel sets the logging level.
func (l *Logger) SetLevel(lvl string) {
	switch lvl {
	case "debug":
		l.base.SetLevel(logrus.DebugLevel)
	case "info":
		l.base.SetLevel(logrus.InfoLevel)
	case "warn", "warning":
		l.base.SetLevel(logrus.WarnLevel)
	case "error":
		l.base.SetLevel(logrus.ErrorLevel)
	default:
		l.base.SetLevel(logrus.InfoLevel)
	}
}

// SetFormatter sets the formatter.
func (l *Logger) SetFormatter(f logrus.Formatter) {
	l.base.SetFormatter(f)
}

// SetOutput sets the output writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.base.SetOutput(w)
}

// Discard configures the logger to discard all logs.
func (l *Logger) Discard() {
	l.base.SetOutput(io.Discard)
}

// Configure applies a logger config.
func (l *Logger) Configure(conf Config) {
	l.SetLevel(conf.Level)

	switch conf.Formatter {
	case "json":
		l.SetFormatter(&jsonFormatter{conf: conf.JSONFormat})
	default:
		l.SetFormatter(&textFormatter{
			conf: conf.TextFormat,
			json: jsonFormatter{conf: conf.JSONFormat},
		})
	}

	if conf.OutputFile != "" {
		f, err := os.OpenFile(conf.OutputFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			l.Error("can't open log output file", "output", conf.OutputFile)
		} else {
			l.SetOutput(f)
		}
	}
}

// PrintSimpleError prints an error message with a red "ERROR:" prefix.
func PrintSimpleError(err error) {
	fmt.Fprintf(os.Stderr, "\x1b[31mERROR:\x1b[0m %s\n", err.Error())
}

// recoverLogErr recovers from panics during logging. Logging should
// never crash the program.
func recoverLogErr() {
	if r := recover(); r != nil {
		fmt.Println("recovered from logging panic", r)
	}
}

func fields(args ...interface{}) map[string]interface{} {
	f := make(map[string]interface{}, len(args)/2)
	if len(args) == 1 {
		f["unknown"] = args[0]
		return f
	}
	for i := 0; i+1 < len(args); i += 2 {
		k, ok := args[i].(string)
		if !ok {
			k = fmt.Sprint(args[i])
		}
		f[k] = args[i+1]
	}
	if len(args) > 1 && len(args)%2 != 0 {
		f["unknown"] = args[len(args)-1]
	}
	return f
}
