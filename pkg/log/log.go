// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	statusWidth = 12 // Width for status text
)

// 🎯 FileResult is the outcome of formatting one file
type FileResult struct {
	Path    string // Input path
	Status  string // Short status text
	Output  string // Where the result went, empty for stdout
	Edits   int    // Number of changed hunks between input and output
	Failed  bool   // Whether the formatter failed
	Written bool   // Whether a file was written
}

// 📦 BatchOperation describes one headless format run
type BatchOperation struct {
	Files   int    // Number of matched files
	Flags   string // Formatter flags in use
	Tool    string // Formatter path
	Destdir string // Output directory, empty when not writing
}

// 🎯 Logger prints user-facing lines to the console and mirrors them to zerolog
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	batch   *BatchOperation
	results []FileResult
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatFileResult formats a file result for display
func (l *Logger) formatFileResult(r FileResult) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case r.Failed:
		symbol = '✗'
		symbolColor = color.FgRed
	case r.Written:
		symbol = '✓'
		symbolColor = color.FgGreen
	case r.Edits > 0:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	line := fmt.Sprintf("%s%s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, r.Path),
		fmt.Sprintf("%-*s", statusWidth, r.Status))

	if r.Output != "" {
		line += " " + color.New(color.Faint).Sprint("→ "+r.Output)
	}
	return line
}

// 📝 LogFileResult logs the result of formatting one file
func (l *Logger) LogFileResult(ctx context.Context, r FileResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.results = append(l.results, r)

	fmt.Fprintln(l.console, l.formatFileResult(r))

	ev := l.zlog.Info()
	if r.Failed {
		ev = l.zlog.Warn()
	}
	ev.
		Str("file", r.Path).
		Str("status", r.Status).
		Str("output", r.Output).
		Int("edits", r.Edits).
		Bool("failed", r.Failed).
		Bool("written", r.Written).
		Msg("file formatted")
}

// 📝 StartBatch starts a headless format run
func (l *Logger) StartBatch(ctx context.Context, op BatchOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.batch = &op
	l.results = nil

	flags := op.Flags
	if flags == "" {
		flags = "no flags"
	}

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprintf("%d file(s)", op.Files),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(flags))

	l.zlog.Info().
		Int("files", op.Files).
		Str("flags", op.Flags).
		Str("tool", op.Tool).
		Str("destdir", op.Destdir).
		Msg("starting format batch")
}

// 📝 EndBatch ends the current batch and reports how many files failed
func (l *Logger) EndBatch(ctx context.Context) (failed int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.batch == nil {
		return 0
	}

	for _, r := range l.results {
		if r.Failed {
			failed++
		}
	}

	l.zlog.Info().
		Int("files", len(l.results)).
		Int("failed", failed).
		Msg("format batch complete")

	l.batch = nil
	l.results = nil
	return failed
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("luaufmt")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
