package logsvc

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/student"
)

// ZapLogger writes structured logs to stderr. Reports go to stdout, so logs never mix with them.
type ZapLogger struct {
	z       *zap.Logger
	verbose bool // error stacks and errorVerbose fields
}

var _ core.Logger = (*ZapLogger)(nil)

// NewZapLogger logs warnings and above, or everything from debug when verbose.
func NewZapLogger(verbose bool, fields ...zap.Field) (*ZapLogger, error) {
	z, err := newZapConfig(verbose).Build(zap.Fields(fields...))
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize logger")
	}
	return &ZapLogger{z: z, verbose: verbose}, nil
}

// newZapConfig only records stack traces when verbose.
func newZapConfig(verbose bool) zap.Config {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	config.DisableStacktrace = true
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		config.DisableStacktrace = false
	}
	return config
}

func NewZapLoggerFrom(z *zap.Logger, verbose bool) *ZapLogger {
	return &ZapLogger{z: z, verbose: verbose}
}

func NewNopLogger() *ZapLogger {
	return &ZapLogger{z: zap.NewNop()}
}

// expected fmt: error, map[string]interface{}, student.Student
func (l *ZapLogger) fields(args []interface{}) []zap.Field {
	flds := make([]zap.Field, 0, len(args))
	for i, arg := range args {
		switch a := arg.(type) {
		case error:
			if l.verbose {
				flds = append(flds, zap.Error(a))
			} else {
				flds = append(flds, zap.String("error", a.Error()))
			}
		case map[string]interface{}:
			keys := make([]string, 0, len(a))
			for k := range a {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				flds = append(flds, zap.Any(k, a[k]))
			}
		case student.Student:
			// never log the token
			flds = append(flds, zap.String("student", a.Key), zap.String("domain", a.Domain))
		default:
			flds = append(flds, zap.Any(fmt.Sprintf("arg%d", i), a))
		}
	}
	return flds
}

func (l *ZapLogger) Debug(msg string, args ...interface{}) { l.z.Debug(msg, l.fields(args)...) }
func (l *ZapLogger) Info(msg string, args ...interface{})  { l.z.Info(msg, l.fields(args)...) }
func (l *ZapLogger) Warn(msg string, args ...interface{})  { l.z.Warn(msg, l.fields(args)...) }
func (l *ZapLogger) Error(msg string, args ...interface{}) { l.z.Error(msg, l.fields(args)...) }
func (l *ZapLogger) Fatal(msg string, args ...interface{}) { l.z.Fatal(msg, l.fields(args)...) }

func (l *ZapLogger) Sync() error {
	return l.z.Sync()
}
