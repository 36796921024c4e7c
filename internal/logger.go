package internal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	globalLogger *Logger
	once         sync.Once
	globalMu     sync.Mutex
)

type Component string

const (
	ComponentNATS    Component = "NATS"
	ComponentStorage Component = "Storage"
	ComponentConfig  Component = "Config"
	ComponentLedger  Component = "Ledger"
	ComponentBudget  Component = "Budget"
	ComponentCLI     Component = "CLI"
	ComponentGeneral Component = "General"
)

// AllComponents lists every component, enabled by default.
func AllComponents() []Component {
	return []Component{
		ComponentNATS,
		ComponentStorage,
		ComponentConfig,
		ComponentLedger,
		ComponentBudget,
		ComponentCLI,
		ComponentGeneral,
	}
}

// Logger is a zerolog logger that can be muted per component.
type Logger struct {
	mu                sync.RWMutex
	base              zerolog.Logger
	file              *os.File
	enabledComponents map[Component]bool
}

// InitGlobalLogger installs the process-wide logger once.
// An empty logDir logs to stderr only.
func InitGlobalLogger(logDir string, level zerolog.Level, components []Component) error {
	var err error
	once.Do(func() {
		var l *Logger
		l, err = NewLogger(logDir, level, components)
		if err != nil {
			return
		}
		globalMu.Lock()
		globalLogger = l
		globalMu.Unlock()
	})
	return err
}

// GetLogger returns the process-wide logger, falling back to a stderr logger at info level.
func GetLogger() *Logger {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = newLogger(consoleWriter(os.Stderr), nil, zerolog.InfoLevel, AllComponents())
	}
	return globalLogger
}

// SetGlobalLogger replaces the process-wide logger; tests use it to silence or capture output.
func SetGlobalLogger(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

func NewLogger(logDir string, level zerolog.Level, components []Component) (*Logger, error) {
	if logDir == "" {
		return newLogger(consoleWriter(os.Stderr), nil, level, components), nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logPath := filepath.Join(logDir, fmt.Sprintf("spendr_%s.log", timestamp))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	out := zerolog.MultiLevelWriter(file, consoleWriter(os.Stderr))
	return newLogger(out, file, level, components), nil
}

// NewWriterLogger logs JSON lines to w.
func NewWriterLogger(w io.Writer, level zerolog.Level) *Logger {
	return newLogger(w, nil, level, AllComponents())
}

// NopLogger discards everything.
func NopLogger() *Logger {
	return newLogger(io.Discard, nil, zerolog.Disabled, nil)
}

func newLogger(w io.Writer, file *os.File, level zerolog.Level, components []Component) *Logger {
	enabled := make(map[Component]bool, len(components))
	for _, c := range components {
		enabled[c] = true
	}
	return &Logger{
		base:              zerolog.New(w).Level(level).With().Timestamp().Logger(),
		file:              file,
		enabledComponents: enabled,
	}
}

func consoleWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *Logger) SetLevel(level zerolog.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.base = l.base.Level(level)
}

func (l *Logger) EnableComponent(component Component) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabledComponents[component] = true
}

func (l *Logger) DisableComponent(component Component) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabledComponents[component] = false
}

func (l *Logger) IsComponentEnabled(component Component) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.enabledComponents[component]
}

// For returns a structured logger tagged with the component, or a no-op logger when it is muted.
func (l *Logger) For(component Component) zerolog.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if !l.enabledComponents[component] {
		return zerolog.Nop()
	}
	return l.base.With().Str("component", string(component)).Logger()
}

func (l *Logger) Debug(component Component, format string, args ...interface{}) {
	lg := l.For(component)
	lg.Debug().Msgf(format, args...)
}

func (l *Logger) Info(component Component, format string, args ...interface{}) {
	lg := l.For(component)
	lg.Info().Msgf(format, args...)
}

func (l *Logger) Warn(component Component, format string, args ...interface{}) {
	lg := l.For(component)
	lg.Warn().Msgf(format, args...)
}

func (l *Logger) Error(component Component, format string, args ...interface{}) {
	lg := l.For(component)
	lg.Error().Msgf(format, args...)
}

func (l *Logger) Fatal(component Component, format string, args ...interface{}) {
	lg := l.For(component)
	lg.Fatal().Msgf(format, args...)
}
