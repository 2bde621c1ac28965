// Package log is a thin leveled logging facade over logrus with a
// key/value call style used throughout the service.
package log

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logger     *logrus.Logger
	loggerOnce sync.Once
)

func get() *logrus.Logger {
	loggerOnce.Do(func() {
		logger = logrus.New()
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	})
	return logger
}

// SetLevel sets the minimum level from a config string
// ("debug", "info", "warn", "error"). Unknown values keep info.
func SetLevel(level string) {
	l, err := logrus.ParseLevel(level)
	if err != nil {
		l = logrus.InfoLevel
	}
	get().SetLevel(l)
}

func Debug(msg string, kv ...any) {
	get().WithFields(fields(kv)).Debug(msg)
}

func Info(msg string, kv ...any) {
	get().WithFields(fields(kv)).Info(msg)
}

func Error(msg string, err error, kv ...any) {
	get().WithError(err).WithFields(fields(kv)).Error(msg)
}

// fields converts a flat key, value, key, value list into logrus fields.
// Non-string keys and a trailing odd value are ignored.
func fields(kv []any) logrus.Fields {
	f := make(logrus.Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		f[key] = kv[i+1]
	}
	return f
}
