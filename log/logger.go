// Package log zap based logger shared by multisig packages
package log

import (
	"fmt"

	"github.com/Laisky/errors/v2"
	zap "github.com/Laisky/zap"
	"github.com/Laisky/zap/zapcore"
)

// Shared default logger.
//
// library code only emits debug logs, raise the level by
//
//	log.Shared.ChangeLevel(log.LevelDebug)
var Shared Logger

// Level logger level
type Level string

// String name of level
func (l Level) String() string {
	return string(l)
}

const (
	// LevelInfo Logger level info
	LevelInfo Level = "info"
	// LevelDebug Logger level debug
	LevelDebug Level = "debug"
	// LevelWarn Logger level warn
	LevelWarn Level = "warn"
	// LevelError Logger level error
	LevelError Level = "error"
	// LevelFatal Logger level fatal
	LevelFatal Level = "fatal"
	// LevelPanic Logger level panic
	LevelPanic Level = "panic"
)

// Logger logger interface
type Logger interface {
	Debug(msg string, fields ...zapcore.Field)
	Info(msg string, fields ...zapcore.Field)
	Warn(msg string, fields ...zapcore.Field)
	Error(msg string, fields ...zapcore.Field)
	Panic(msg string, fields ...zapcore.Field)
	Fatal(msg string, fields ...zapcore.Field)
	Sync() error
	Level() Level
	ChangeLevel(level Level) error
	Named(s string) Logger
	With(fields ...zapcore.Field) Logger
}

// logger extend from zap.Logger
type logger struct {
	*zap.Logger

	// level shared by all children,
	// zap does not expose api to change level of built logger.
	level zap.AtomicLevel
}

// Encoding output format
type Encoding string

// String name of encoding
func (e Encoding) String() string {
	return string(e)
}

const (
	// EncodingConsole human readable
	EncodingConsole Encoding = "console"
	// EncodingJSON one json object per line
	EncodingJSON Encoding = "json"
)

type option struct {
	zap.Config
	Name string
}

func (o *option) fillDefault() *option {
	o.Name = "multisig"
	o.Config = zap.Config{
		Level:            zap.NewAtomicLevelAt(zap.InfoLevel),
		Encoding:         string(EncodingConsole),
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	o.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	o.EncoderConfig.MessageKey = "message"
	o.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	o.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return o
}

func (o *option) applyOpts(optfs ...Option) (*option, error) {
	for _, optf := range optfs {
		if err := optf(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Option optional arguments for New
type Option func(*option) error

// WithName set logger name
func WithName(name string) Option {
	return func(o *option) error {
		if name == "" {
			return errors.Errorf("name should not be empty")
		}

		o.Name = name
		return nil
	}
}

// WithLevel set logger level
func WithLevel(level Level) Option {
	return func(o *option) error {
		lvl, err := LevelToZap(level)
		if err != nil {
			return err
		}

		o.Level.SetLevel(lvl)
		return nil
	}
}

// WithEncoding set logger encoding
func WithEncoding(format Encoding) Option {
	return func(o *option) error {
		switch format {
		case EncodingConsole:
			o.Encoding = string(EncodingConsole)
		case EncodingJSON:
			o.Encoding = string(EncodingJSON)
		default:
			return errors.Errorf("invalid encoding %q", format)
		}

		return nil
	}
}

// WithOutputPaths replace output paths
//
// like "stdout", "stderr" or file path
func WithOutputPaths(paths ...string) Option {
	return func(o *option) error {
		if len(paths) == 0 {
			return errors.Errorf("paths should not be empty")
		}

		o.OutputPaths = paths
		return nil
	}
}

// LevelToZap convert Level to zap level
func LevelToZap(level Level) (zapcore.Level, error) {
	switch level {
	case LevelInfo:
		return zap.InfoLevel, nil
	case LevelDebug:
		return zap.DebugLevel, nil
	case LevelWarn:
		return zap.WarnLevel, nil
	case LevelError:
		return zap.ErrorLevel, nil
	case LevelFatal:
		return zap.FatalLevel, nil
	case LevelPanic:
		return zap.PanicLevel, nil
	default:
		return 0, errors.Errorf("invalid level %q", level)
	}
}

// LevelFromZap convert zap level to Level
func LevelFromZap(level zapcore.Level) (Level, error) {
	switch level {
	case zap.DebugLevel:
		return LevelDebug, nil
	case zap.InfoLevel:
		return LevelInfo, nil
	case zap.WarnLevel:
		return LevelWarn, nil
	case zap.ErrorLevel:
		return LevelError, nil
	case zap.FatalLevel:
		return LevelFatal, nil
	case zap.PanicLevel:
		return LevelPanic, nil
	default:
		return "", errors.Errorf("invalid level %q", level.String())
	}
}

// New create new logger
func New(optfs ...Option) (Logger, error) {
	opt, err := new(option).fillDefault().applyOpts(optfs...)
	if err != nil {
		return nil, errors.Wrap(err, "apply options")
	}

	zapLogger, err := opt.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build zap logger")
	}

	return &logger{
		Logger: zapLogger.Named(opt.Name),
		level:  opt.Level,
	}, nil
}

// Level get current level of logger
func (l *logger) Level() Level {
	lvl, err := LevelFromZap(l.level.Level())
	if err != nil {
		panic(err)
	}

	return lvl
}

// ChangeLevel change logger level.
//
// children share the same level with their parent,
// change one will affect all of them.
func (l *logger) ChangeLevel(level Level) error {
	lvl, err := LevelToZap(level)
	if err != nil {
		return err
	}

	l.level.SetLevel(lvl)
	l.Debug("set logger level", zap.String("level", level.String()))
	return nil
}

// Named adds a new path segment to the logger's name
func (l *logger) Named(s string) Logger {
	return &logger{
		Logger: l.Logger.Named(s),
		level:  l.level,
	}
}

// With creates a child logger and adds structured context to it
func (l *logger) With(fields ...zapcore.Field) Logger {
	return &logger{
		Logger: l.Logger.With(fields...),
		level:  l.level,
	}
}

func init() {
	var err error
	if Shared, err = New(WithName("multisig")); err != nil {
		panic(fmt.Sprintf("create logger: %+v", err))
	}
}
