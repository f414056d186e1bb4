package devserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/mazury/mazury-client/internal/common"
	"github.com/mazury/mazury-client/internal/devserver/auth"
)

type ctxKey string

const addressKey ctxKey = "address"

func addressFrom(ctx context.Context) string {
	addr, _ := ctx.Value(addressKey).(string)
	return addr
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info(r.Context(), "request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get(common.AuthorizationHeaderName)
	token, ok := strings.CutPrefix(h, common.BearerPrefix)
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// requireAccessToken rejects requests without a valid access token and puts
// the token's address in the request context.
func (s *Server) requireAccessToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}
		addr, err := s.issuer.Verify(token, auth.KindAccess)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, "token expired")
				return
			}
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), addressKey, addr)))
	})
}
