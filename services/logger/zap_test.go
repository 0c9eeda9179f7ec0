package logsvc

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/student"
)

func observed(level zapcore.Level, verbose bool) (*ZapLogger, *observer.ObservedLogs) {
	zc, logs := observer.New(level)
	return NewZapLoggerFrom(zap.New(zc), verbose), logs
}

func TestZapLogger_fields(t *testing.T) {
	log, logs := observed(zapcore.DebugLevel, false)

	stu := student.Student{Key: "alice", Domain: "school.instructure.com", Token: "s3cret"}
	log.Debug("course scored", map[string]interface{}{"course": "Math", "actionable": 2}, stu, errors.New("boom"), 7)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "course scored", entries[0].Message)
	assert.Equal(t, map[string]interface{}{
		"course":     "Math",
		"actionable": int64(2),
		"student":    "alice",
		"domain":     "school.instructure.com",
		"error":      "boom",
		"arg3":       int64(7),
	}, entries[0].ContextMap())

	for _, f := range entries[0].Context {
		assert.NotEqual(t, "s3cret", f.String, "token leaked in field %s", f.Key)
	}
}

func TestZapLogger_levels(t *testing.T) {
	log, logs := observed(zapcore.WarnLevel, false)

	log.Debug("debug")
	log.Info("info")
	log.Warn("warn")
	log.Error("error")

	var got []string
	for _, e := range logs.All() {
		got = append(got, e.Message)
	}
	assert.Equal(t, []string{"warn", "error"}, got)
}

func TestZapLogger_errorFields(t *testing.T) {
	apiErr := pkgerrors.Wrap(errors.New("canvas API error (HTTP 401)"), `course "Science"`)

	tests := []struct {
		name        string
		verbose     bool
		wantVerbose bool
	}{
		{name: "quiet", verbose: false, wantVerbose: false},
		{name: "verbose", verbose: true, wantVerbose: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, logs := observed(zapcore.DebugLevel, tt.verbose)
			log.Error("command failed", apiErr)

			entries := logs.All()
			require.Len(t, entries, 1)
			ctx := entries[0].ContextMap()
			assert.Equal(t, `course "Science": canvas API error (HTTP 401)`, ctx["error"])
			_, gotVerbose := ctx["errorVerbose"]
			assert.Equal(t, tt.wantVerbose, gotVerbose)
		})
	}
}

func TestNewZapConfig_stacktrace(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantStack bool
	}{
		{name: "quiet", verbose: false, wantStack: false},
		{name: "verbose", verbose: true, wantStack: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "stderr.log")
			config := newZapConfig(tt.verbose)
			config.OutputPaths = []string{path}
			z, err := config.Build()
			require.NoError(t, err)

			log := NewZapLoggerFrom(z, tt.verbose)
			log.Error("command failed", pkgerrors.Wrap(errors.New("boom"), "listing courses"))
			_ = z.Sync()

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			out := string(data)
			assert.Contains(t, out, "command failed")
			assert.Contains(t, out, "listing courses: boom")
			assert.Equal(t, tt.wantStack, strings.Contains(out, "TestNewZapConfig_stacktrace"), "stack trace in %q", out)
			assert.Equal(t, tt.wantStack, strings.Contains(out, "errorVerbose"))
		})
	}
}

type recordingLogger struct {
	msgs []string
}

var _ core.Logger = (*recordingLogger)(nil)

func (l *recordingLogger) Debug(msg string, _ ...interface{}) { l.msgs = append(l.msgs, "debug:"+msg) }
func (l *recordingLogger) Info(msg string, _ ...interface{})  { l.msgs = append(l.msgs, "info:"+msg) }
func (l *recordingLogger) Warn(msg string, _ ...interface{})  { l.msgs = append(l.msgs, "warn:"+msg) }
func (l *recordingLogger) Error(msg string, _ ...interface{}) { l.msgs = append(l.msgs, "error:"+msg) }
func (l *recordingLogger) Fatal(msg string, _ ...interface{}) { l.msgs = append(l.msgs, "fatal:"+msg) }

func TestRollbarLogger_forwards(t *testing.T) {
	next := new(recordingLogger)
	rl := NewRollbarLogger(next, &core.Config{Env: "TEST", Build: "test", RollbarToken: "rb"})
	rl.Enable(false)
	defer rl.Close()

	stu := student.Student{Key: "alice"}
	rl.Debug("d", stu)
	rl.Info("i")
	rl.Warn("w", stu)
	rl.Error("e", errors.New("boom"), stu)
	rl.Report("command failed", errors.New("boom"), stu)

	assert.Equal(t, []string{"debug:d", "info:i", "warn:w", "error:e"}, next.msgs)
}

func TestRollbarLogger_prepare(t *testing.T) {
	rl := NewRollbarLogger(new(recordingLogger), &core.Config{Env: "TEST"})
	rl.Enable(false)

	boom := errors.New("boom")
	extras := map[string]interface{}{"course": "Math"}
	got := rl.prepare("failed", []interface{}{boom, student.Student{Key: "alice"}, extras, student.Student{Key: "bob"}})

	// students are reported as the person, not as args
	assert.Equal(t, []interface{}{"failed", boom, extras}, got)
}
