package requestlog

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/segmentio/ksuid"
)

const HeaderName = "X-Request-ID"

// New returns middleware that tags each request with an ID and logs it once
// the response has been written. An ID supplied by the caller in the
// X-Request-ID header is kept, otherwise a KSUID is generated.
func New(log *slog.Logger, next http.Handler) Middleware {
	return Middleware{
		log:  log,
		next: next,
	}
}

type Middleware struct {
	log  *slog.Logger
	next http.Handler
}

type idContextKey int

const idKey idContextKey = 0

// GetID returns the request ID, or an empty string if the request did not
// pass through the middleware.
func GetID(r *http.Request) string {
	id, _ := r.Context().Value(idKey).(string)
	return id
}

func (m Middleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := r.Header.Get(HeaderName)
	if id == "" || len(id) > 128 {
		id = ksuid.New().String()
	}
	w.Header().Set(HeaderName, id)
	r = r.WithContext(context.WithValue(r.Context(), idKey, id))

	sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
	m.next.ServeHTTP(sw, r)

	level := slog.LevelInfo
	if sw.status >= 500 {
		level = slog.LevelError
	}
	m.log.Log(r.Context(), level, "request",
		slog.String("requestId", id),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", sw.status),
		slog.Int64("bytes", sw.bytes),
		slog.Duration("duration", time.Since(start)))
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
}

func (sw *statusWriter) WriteHeader(code int) {
	if !sw.wroteHeader {
		sw.status = code
		sw.wroteHeader = true
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	sw.wroteHeader = true
	n, err := sw.ResponseWriter.Write(b)
	sw.bytes += int64(n)
	return n, err
}

func (sw *statusWriter) Flush() {
	if flusher, canFlush := sw.ResponseWriter.(http.Flusher); canFlush {
		flusher.Flush()
	}
}

func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}
