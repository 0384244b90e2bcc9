package cli

import (
	"bytes"
	"context"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		emit  func(*log.Logger)
		want  bool
	}{
		{"info at info", LogInfo, func(l *log.Logger) { l.Info("packed") }, true},
		{"debug at info", LogInfo, func(l *log.Logger) { l.Debug("layout pass") }, false},
		{"debug at debug", LogDebug, func(l *log.Logger) { l.Debug("layout pass") }, true},
		{"warn at info", LogInfo, func(l *log.Logger) { l.Warn("fallback size") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("wrote output = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, LogInfo).Info("ready")
	if !regexp.MustCompile(`^\d\d:\d\d:\d\d\.\d\d `).MatchString(buf.String()) {
		t.Errorf("line %q does not start with a HH:MM:SS.ms timestamp", buf.String())
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, LogInfo))
	prog.start = prog.start.Add(-1500 * time.Millisecond)
	prog.done("Gallery ready")

	got := buf.String()
	if !strings.Contains(got, "Gallery ready (1.5") {
		t.Errorf("progress line %q missing message and elapsed time", got)
	}

	buf.Reset()
	prog = newProgress(newLogger(&buf, log.WarnLevel))
	prog.done("Gallery ready")
	if buf.Len() != 0 {
		t.Errorf("progress logged below the logger level: %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	custom := newLogger(io.Discard, LogDebug)
	tests := []struct {
		name string
		ctx  context.Context
		want *log.Logger
	}{
		{"attached", withLogger(context.Background(), custom), custom},
		{"missing", context.Background(), log.Default()},
	}
	for _, tt := range tests {
		if got := loggerFromContext(tt.ctx); got != tt.want {
			t.Errorf("%s: loggerFromContext() = %p, want %p", tt.name, got, tt.want)
		}
	}
}

// Commands log through the logger the root command attaches to the context.
func TestCommandsLogThroughContext(t *testing.T) {
	_, configPath := fixture(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"layout", "-o", "-", "--width", "900"}, "Packed 4 images into"},
		{[]string{"probe", "--json"}, "Probed 4 images"},
	}
	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			var logs bytes.Buffer
			old := out
			out = io.Discard
			defer func() { out = old }()

			root := New(&logs, LogInfo).RootCommand()
			root.SetArgs(append([]string{"--config", configPath}, tt.args...))
			root.SetOut(io.Discard)
			root.SetErr(io.Discard)
			if err := root.ExecuteContext(context.Background()); err != nil {
				t.Fatalf("%v: %v", tt.args, err)
			}
			if !strings.Contains(logs.String(), tt.want) {
				t.Errorf("log %q missing %q", logs.String(), tt.want)
			}
		})
	}
}
