package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/go_cart/fitstore/internal/session"
	"github.com/fjod/go_cart/fitstore/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type sessionKey struct{}

// SessionHeader is an alternative to "Authorization: Bearer <token>".
const SessionHeader = "X-Session-Token"

// Sessions resolves and creates shopper sessions.
type Sessions interface {
	Create() (*session.Session, string, error)
	Resolve(token string) (*session.Session, error)
}

// RequestLogger stores a request-scoped zap logger in the context and logs
// each request when it completes. Must run after middleware.RequestID.
func RequestLogger(base *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			l := base.With(zap.String("request_id", middleware.GetReqID(r.Context())))
			ctx := logger.WithContext(r.Context(), l)

			next.ServeHTTP(ww, r.WithContext(ctx))

			logger.Enrich(ctx, l).Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}

// RequireSession resolves the session token and stores the session in the
// request context.
func RequireSession(sessions Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				respondError(w, http.StatusUnauthorized, "unauthenticated", "missing session token")
				return
			}

			s, err := sessions.Resolve(token)
			if err != nil {
				handleError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey{}, s)
			ctx = logger.With(ctx, zap.String("session_id", s.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return r.Header.Get(SessionHeader)
}

func sessionFromContext(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey{}).(*session.Session)
	return s
}

// LimitBody caps request bodies at n bytes.
func LimitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}
