package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	charmlog "github.com/charmbracelet/log"
)

// CharmHandler adapts charmbracelet/log to slog.Handler.
type CharmHandler struct {
	logger *charmlog.Logger
	writer io.Writer
	opts   Options
	attrs  []slog.Attr
	groups []string
}

// NewCharmHandler creates a slog handler writing through a charm logger.
func NewCharmHandler(w io.Writer, opts Options) *CharmHandler {
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	if opts.TimeFormat == "" {
		opts.TimeFormat = time.TimeOnly
	}
	return &CharmHandler{
		logger: newCharmLogger(w, opts),
		writer: w,
		opts:   opts,
	}
}

func newCharmLogger(w io.Writer, opts Options) *charmlog.Logger {
	l := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: !opts.HideTime,
		TimeFormat:      opts.TimeFormat,
		Prefix:          opts.Prefix,
		Level:           charmLevel(opts.Level.Level()),
	})
	if opts.NoColor {
		l.SetStyles(plainStyles())
	} else {
		l.SetStyles(colorStyles())
	}
	return l
}

// Enabled implements slog.Handler.
func (h *CharmHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// Handle implements slog.Handler.
func (h *CharmHandler) Handle(_ context.Context, r slog.Record) error {
	kvs := make([]any, 0, (len(h.attrs)+r.NumAttrs())*2)
	for _, attr := range h.attrs {
		if k, v := formatAttr(attr, ""); k != "" {
			kvs = append(kvs, k, v)
		}
	}
	prefix := h.groupPrefix()
	r.Attrs(func(a slog.Attr) bool {
		if k, v := formatAttr(a, prefix); k != "" {
			kvs = append(kvs, k, v)
		}
		return true
	})

	switch {
	case r.Level >= slog.LevelError:
		h.logger.Error(r.Message, kvs...)
	case r.Level >= slog.LevelWarn:
		h.logger.Warn(r.Message, kvs...)
	case r.Level >= slog.LevelInfo:
		h.logger.Info(r.Message, kvs...)
	default:
		h.logger.Debug(r.Message, kvs...)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *CharmHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.clone()
	// атрибуты фиксируются с текущими группами
	prefix := h.groupPrefix()
	for _, a := range attrs {
		a.Key = prefix + a.Key
		c.attrs = append(c.attrs, a)
	}
	return c
}

// WithGroup implements slog.Handler.
func (h *CharmHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := h.clone()
	c.groups = append(c.groups, name)
	return c
}

func (h *CharmHandler) clone() *CharmHandler {
	return &CharmHandler{
		logger: newCharmLogger(h.writer, h.opts),
		writer: h.writer,
		opts:   h.opts,
		attrs:  append([]slog.Attr{}, h.attrs...),
		groups: append([]string{}, h.groups...),
	}
}

func (h *CharmHandler) groupPrefix() string {
	if len(h.groups) == 0 {
		return ""
	}
	return strings.Join(h.groups, ".") + "."
}

// formatAttr раскрывает группы в ключи через точку
func formatAttr(attr slog.Attr, prefix string) (string, any) {
	if attr.Key == "" {
		return "", nil
	}
	key := prefix + attr.Key

	if attr.Value.Kind() == slog.KindGroup {
		group := attr.Value.Group()
		if len(group) == 0 {
			return "", nil
		}
		parts := make([]string, 0, len(group))
		for _, ga := range group {
			if ga.Key == "" {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s=%v", ga.Key, formatValue(ga.Value)))
		}
		return key, strings.Join(parts, " ")
	}
	return key, formatValue(attr.Value)
}

func formatValue(v slog.Value) any {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return v.Any()
	default:
		return v.Any()
	}
}

func charmLevel(level slog.Level) charmlog.Level {
	switch {
	case level >= slog.LevelError:
		return charmlog.ErrorLevel
	case level >= slog.LevelWarn:
		return charmlog.WarnLevel
	case level >= slog.LevelInfo:
		return charmlog.InfoLevel
	default:
		return charmlog.DebugLevel
	}
}

// colorStyles цветные метки уровней
func colorStyles() *charmlog.Styles {
	styles := charmlog.DefaultStyles()
	styles.Levels[charmlog.DebugLevel] = lipgloss.NewStyle().SetString("DEBU").Bold(true).Foreground(lipgloss.Color("63"))
	styles.Levels[charmlog.InfoLevel] = lipgloss.NewStyle().SetString("INFO").Bold(true).Foreground(lipgloss.Color("42"))
	styles.Levels[charmlog.WarnLevel] = lipgloss.NewStyle().SetString("WARN").Bold(true).Foreground(lipgloss.Color("214"))
	styles.Levels[charmlog.ErrorLevel] = lipgloss.NewStyle().SetString("ERRO").Bold(true).Foreground(lipgloss.Color("196"))
	styles.Key = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	styles.Separator = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styles.Timestamp = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	styles.Prefix = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	return styles
}

func plainStyles() *charmlog.Styles {
	styles := charmlog.DefaultStyles()
	for level, name := range map[charmlog.Level]string{
		charmlog.DebugLevel: "DEBU",
		charmlog.InfoLevel:  "INFO",
		charmlog.WarnLevel:  "WARN",
		charmlog.ErrorLevel: "ERRO",
		charmlog.FatalLevel: "FATA",
	} {
		styles.Levels[level] = lipgloss.NewStyle().SetString(name)
	}
	styles.Key = lipgloss.NewStyle()
	styles.Value = lipgloss.NewStyle()
	styles.Separator = lipgloss.NewStyle()
	styles.Timestamp = lipgloss.NewStyle()
	styles.Caller = lipgloss.NewStyle()
	styles.Message = lipgloss.NewStyle()
	styles.Prefix = lipgloss.NewStyle()
	return styles
}
