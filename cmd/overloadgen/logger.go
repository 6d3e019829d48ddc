package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/refaktor/overloadgen/diag"
	"github.com/refaktor/overloadgen/textutils"
)

type LogLevel int

const (
	INFO  LogLevel = 0
	WARN  LogLevel = 1
	ERROR LogLevel = 2
	FATAL LogLevel = 99
)

var levelColors = map[LogLevel]*color.Color{
	INFO:  color.New(color.FgCyan),
	WARN:  color.New(color.FgYellow, color.Bold),
	ERROR: color.New(color.FgRed, color.Bold),
	FATAL: color.New(color.FgRed, color.Bold, color.Underline),
}

type Logger struct {
	Writer   io.Writer
	Prefix   string
	MinLevel LogLevel
}

func (l *Logger) Log(level LogLevel, format string, args ...any) {
	if l.Writer == nil || level < l.MinLevel {
		return
	}
	var b bytes.Buffer
	if l.Prefix != "" {
		b.WriteString(l.Prefix)
		b.WriteString(" ")
	}
	var name string
	switch level {
	case INFO:
		name = "INFO"
	case WARN:
		name = "WARNING"
	case ERROR:
		name = "ERROR"
	case FATAL:
		name = "FATAL"
	default:
		panic(fmt.Sprintf("invalid log level: %v", level))
	}
	b.WriteString(levelColors[level].Sprint(name))
	b.WriteString(":")
	s := fmt.Sprintf(format, args...)
	if strings.Contains(s, "\n") {
		b.WriteString("\n")
		s = textutils.IndentString(s, "  ", 1)
	} else {
		b.WriteString(" ")
	}
	b.WriteString(s)
	if !strings.HasSuffix(s, "\n") {
		b.WriteString("\n")
	}
	_, _ = io.Copy(l.Writer, &b)
	if level == FATAL {
		os.Exit(1)
	}
}

// Diagnostic logs d at the level matching its severity.
func (l *Logger) Diagnostic(d diag.Diagnostic) {
	level := WARN
	if d.Severity == diag.Error {
		level = ERROR
	}
	l.Log(level, "%v", d)
}
