package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/lemmi/glubsite/internal/ctxlog"
	"github.com/pkg/errors"
)

var (
	DEBUG bool
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// HttpError logs logErr and answers with the status text of code. In debug
// mode the stack trace of the error is logged as well.
func HttpError(w http.ResponseWriter, r *http.Request, code int, logErr error) {
	log := ctxlog.FromContext(r.Context())
	attrs := []any{slog.String("path", r.URL.Path), slog.Int("status", code), slog.Any("error", logErr)}
	if DEBUG {
		if err, ok := errors.Cause(logErr).(stackTracer); ok {
			attrs = append(attrs, slog.String("stack", fmt.Sprintf("%+v", err.StackTrace())))
		} else if err, ok := logErr.(stackTracer); ok {
			attrs = append(attrs, slog.String("stack", fmt.Sprintf("%+v", err.StackTrace())))
		}
	}
	log.Error("request failed", attrs...)
	http.Error(w, http.StatusText(code), code)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
