// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/juju/ansiterm"
	"github.com/juju/loggo/v2"
	"github.com/mattn/go-isatty"
)

var severityColor = map[loggo.Level]*ansiterm.Context{
	loggo.TRACE:   ansiterm.Foreground(ansiterm.Default),
	loggo.DEBUG:   ansiterm.Foreground(ansiterm.Green),
	loggo.INFO:    ansiterm.Foreground(ansiterm.BrightBlue),
	loggo.WARNING: ansiterm.Foreground(ansiterm.Yellow),
	loggo.ERROR:   ansiterm.Foreground(ansiterm.BrightRed),
	loggo.CRITICAL: {
		Foreground: ansiterm.White,
		Background: ansiterm.Red,
	},
}

// logWriter writes log entries as "time LEVEL module message", with the
// level coloured when writing to a terminal.
type logWriter struct {
	w *ansiterm.Writer
}

func newLogWriter(out io.Writer) *logWriter {
	w := ansiterm.NewWriter(out)
	w.SetColorCapable(isTerminal(out))
	return &logWriter{w: w}
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// Write implements loggo.Writer.
func (lw *logWriter) Write(entry loggo.Entry) {
	fmt.Fprintf(lw.w, "%s ", entry.Timestamp.In(time.UTC).Format("2006-01-02 15:04:05"))
	if ctx, ok := severityColor[entry.Level]; ok {
		ctx.Fprintf(lw.w, "%s", entry.Level)
	} else {
		fmt.Fprint(lw.w, entry.Level)
	}
	fmt.Fprintf(lw.w, " %s %s\n", entry.Module, entry.Message)
}

const defaultLoggingConfig = "<root>=INFO"

func setupLogging(out io.Writer, config string) error {
	if config == "" {
		config = defaultLoggingConfig
	}
	// The default writer may already be gone, as after loggo.ResetWriters.
	_, _ = loggo.RemoveWriter(loggo.DefaultWriterName)
	if err := loggo.RegisterWriter(loggo.DefaultWriterName, newLogWriter(out)); err != nil {
		return err
	}
	return loggo.ConfigureLoggers(config)
}
