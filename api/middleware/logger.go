package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prasetyowira/qrsite/constant"
	appLogger "github.com/prasetyowira/qrsite/infrastructure/logger"
)

// RequestLogger carries the request ID into the logger context and logs
// each request with its outcome
func RequestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := chimw.GetReqID(r.Context())
			if requestID == "" {
				requestID = uuid.New().String()
			}

			ctx := appLogger.WithRequestID(r.Context(), requestID)
			w.Header().Set(constant.HeaderRequestID, requestID)

			appLogger.CtxDebug(ctx, constant.MsgRequestReceived, appLogger.LoggerInfo{
				ContextFunction: constant.CtxAPI,
				Data: map[string]interface{}{
					constant.DataMethod:     r.Method,
					constant.DataPath:       r.URL.Path,
					constant.DataRemoteAddr: r.RemoteAddr,
					constant.DataUserAgent:  r.UserAgent(),
				},
			})

			ww := newStatusResponseWriter(w)

			startTime := time.Now()
			next.ServeHTTP(ww, r.WithContext(ctx))
			latency := time.Since(startTime)

			logFunc := appLogger.CtxInfo
			if ww.status >= 400 && ww.status < 500 {
				logFunc = appLogger.CtxWarn
			} else if ww.status >= 500 {
				logFunc = appLogger.CtxError
			}

			// the admin token travels in the query string, so only the path is logged
			logFunc(ctx, constant.MsgRequestCompleted, appLogger.LoggerInfo{
				ContextFunction: constant.CtxAPI,
				Data: map[string]interface{}{
					constant.DataStatus:  ww.status,
					constant.DataLatency: latency.String(),
					constant.DataMethod:  r.Method,
					constant.DataPath:    r.URL.Path,
					constant.DataSize:    ww.size,
				},
			})
		})
	}
}

// statusResponseWriter captures the status code and response size
type statusResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func newStatusResponseWriter(w http.ResponseWriter) *statusResponseWriter {
	return &statusResponseWriter{
		ResponseWriter: w,
		status:         http.StatusOK,
	}
}

// WriteHeader captures the status code
func (w *statusResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Write captures the response size
func (w *statusResponseWriter) Write(b []byte) (int, error) {
	size, err := w.ResponseWriter.Write(b)
	w.size += size
	return size, err
}
