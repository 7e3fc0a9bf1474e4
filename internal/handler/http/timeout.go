package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"doc-summarizer/internal/handler/http/respond"
)

// Timeout returns middleware that bounds the time spent on one request.
// When the deadline passes first it writes 504 Gateway Timeout and cancels the
// request context so that an in-progress summarization stops at its next check.
// A panic in the handler is re-raised on the serving goroutine so that Recover sees it.
func Timeout(duration time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), duration)
			defer cancel()
			r = r.WithContext(ctx)

			tw := &timeoutWriter{ResponseWriter: w, header: make(http.Header)}
			done := make(chan struct{})
			panicked := make(chan any, 1)

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(tw, r)
				close(done)
			}()

			select {
			case p := <-panicked:
				panic(p)
			case <-done:
			case <-ctx.Done():
				tw.mu.Lock()
				defer tw.mu.Unlock()
				tw.timedOut = true
				if !tw.wroteHeader {
					respond.JSON(w, http.StatusGatewayTimeout, respond.ErrorBody{
						Error: "request timeout",
						Code:  "timeout",
					})
				}
			}
		})
	}
}

// timeoutWriter discards handler writes once the timeout response has been sent.
// The handler gets its own header map, copied to the real response on first write,
// so that it never touches headers concurrently with the timeout response.
type timeoutWriter struct {
	http.ResponseWriter
	header      http.Header
	mu          sync.Mutex
	timedOut    bool
	wroteHeader bool
}

func (w *timeoutWriter) Header() http.Header {
	return w.header
}

func (w *timeoutWriter) WriteHeader(statusCode int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timedOut || w.wroteHeader {
		return
	}
	w.writeHeaderLocked(statusCode)
}

func (w *timeoutWriter) writeHeaderLocked(statusCode int) {
	w.wroteHeader = true
	dst := w.ResponseWriter.Header()
	for k, v := range w.header {
		dst[k] = v
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *timeoutWriter) Write(data []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if !w.wroteHeader {
		w.writeHeaderLocked(http.StatusOK)
	}
	return w.ResponseWriter.Write(data)
}
