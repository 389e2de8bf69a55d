package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
)

// StdLogger is a lightweight implementation backed by Go's log package.
// Debug and Info are only emitted in verbose mode, Warn and Error always are.
type StdLogger struct {
	verbose bool
	out     *log.Logger
}

// NewStd creates a StdLogger writing to stderr.
func NewStd(verbose bool) *StdLogger {
	return NewWithWriter(os.Stderr, verbose)
}

// NewWithWriter creates a StdLogger writing to w.
func NewWithWriter(w io.Writer, verbose bool) *StdLogger {
	return &StdLogger{
		verbose: verbose,
		out:     log.New(w, "", log.LstdFlags),
	}
}

func (l *StdLogger) Debug(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.print("DEBUG", msg, fields)
}

func (l *StdLogger) Info(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.print("INFO", msg, fields)
}

func (l *StdLogger) Warn(msg string, fields map[string]interface{}) {
	l.print("WARN", msg, fields)
}

func (l *StdLogger) Error(msg string, err error, fields map[string]interface{}) {
	if err != nil {
		merged := make(map[string]interface{}, len(fields)+1)
		for k, v := range fields {
			merged[k] = v
		}
		merged["error"] = err.Error()
		fields = merged
	}
	l.print("ERROR", msg, fields)
}

func (l *StdLogger) print(level, msg string, fields map[string]interface{}) {
	l.out.Printf("[%s] %s%s", level, msg, formatFields(fields))
}

// formatFields renders fields as sorted key=value pairs.
func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	return b.String()
}
