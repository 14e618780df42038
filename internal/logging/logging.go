// Package logging builds the process logger and carries a request-scoped
// entry through context.
package logging

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing JSON outside local environments. An unknown
// level falls back to info.
func New(level string, local bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if local {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

type ctxKey struct{}

func Into(ctx context.Context, e *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKey{}, e)
}

// From returns the request entry stored by Into, or an entry on the standard
// logger when there is none.
func From(ctx context.Context) *logrus.Entry {
	if e, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok && e != nil {
		return e
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
