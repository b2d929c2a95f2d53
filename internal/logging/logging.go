package logging

import (
	"context"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

func New(level, format string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	if strings.EqualFold(format, "text") {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	return l
}

func IntoContext(ctx context.Context, l *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

func FromContext(ctx context.Context) *logrus.Entry {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*logrus.Entry); ok {
			return l
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
