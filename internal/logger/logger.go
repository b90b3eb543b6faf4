// Package logger builds the slog logger used by the command line client.
package logger

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// Options configures the terminal handler.
type Options struct {
	// Level is the minimum level to log
	Level slog.Leveler
	// NoColor disables styling even on a terminal
	NoColor bool
	// TimeFormat for timestamps, defaults to 15:04:05
	TimeFormat string
	// HideTime drops timestamps from output
	HideTime bool
	// Prefix is prepended to every message
	Prefix string
}

// New возвращает логгер поверх CharmHandler.
// Цвет отключается автоматически, если w не терминал.
func New(w io.Writer, opts Options) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if !IsTerminal(w) {
		opts.NoColor = true
	}
	return slog.New(NewCharmHandler(w, opts))
}

// Setup создает логгер и делает его логгером по умолчанию
func Setup(w io.Writer, opts Options) *slog.Logger {
	l := New(w, opts)
	slog.SetDefault(l)
	return l
}

// Discard логгер, который ничего не пишет
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
