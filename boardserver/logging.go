// ABOUTME: Request logging for the board server, one log.Printf line per request.
// ABOUTME: Health probes are exempt so monitoring does not flood the log.
package boardserver

import (
	"log"
	"net/http"
	"time"
)

// loggedWriter captures status and body size for the request log line. The
// status starts at 200 because handlers that never call WriteHeader get it
// implicitly from net/http.
type loggedWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *loggedWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *loggedWriter) Write(p []byte) (int, error) {
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

// Flush forwards to the wrapped writer so SSE streaming keeps working behind
// the log wrapper.
func (w *loggedWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		lw := &loggedWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(lw, r)
		log.Printf("%s %s -> %d (%dB, %s) from %s",
			r.Method, r.URL.Path, lw.status, lw.bytes,
			time.Since(start).Round(time.Millisecond), r.RemoteAddr)
	})
}
