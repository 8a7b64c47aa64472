package server

import (
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/Leopold1975/churnguard/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

func loggingMiddleware(logg logger.Logger, rec Recorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rr := httptest.NewRecorder()

			reqID := r.Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			defer func() {
				latency := time.Since(start)

				route := r.URL.Path
				if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
					route = rctx.RoutePattern()
				}

				if rec != nil {
					rec.RecordRequest(r.Method, route, rr.Code, latency)
				}

				logg.Infof("REQUEST %s METHOD %s %s %s	STATUS %d Latency %s Client IP %s User Agent %s",
					reqID,
					r.Method,
					r.Proto,
					r.URL.RequestURI(),
					rr.Code,
					latency.String(),
					r.RemoteAddr,
					r.UserAgent(),
				)
			}()

			next.ServeHTTP(rr, r)

			for k, v := range rr.Header() {
				w.Header()[k] = v
			}

			w.Header().Set(requestIDHeader, reqID)
			w.WriteHeader(rr.Code)

			if rr.Code >= 400 && rr.Body.Len() != 0 {
				logg.Errorf("request %s error: %s", reqID, rr.Body)
			}

			_, err := rr.Body.WriteTo(w)
			if err != nil {
				logg.Errorf("middleware write error: %s", err.Error())
			}
		})
	}
}
