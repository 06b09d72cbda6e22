package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/ulule/limiter/v3"

	"github.com/angelmondragon/shoppingcart/api/responses"
	pkgerrors "github.com/angelmondragon/shoppingcart/pkg/errors"
	"github.com/angelmondragon/shoppingcart/pkg/logger"
)

// RateLimit caps requests per authenticated user, falling back to the client
// IP for anonymous calls. Store failures let the request through.
func RateLimit(lim *limiter.Limiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if lim == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			key := UserIDFromContext(ctx)
			scope := "user"
			if key == "" {
				key = clientIP(r)
				scope = "ip"
			}

			state, err := lim.Get(ctx, scope+":"+key)
			if err != nil {
				logError(ctx, logg, "rate limit lookup failed", err)
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.FormatInt(state.Limit, 10))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(state.Remaining, 10))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(state.Reset, 10))

			if state.Reached {
				if logg != nil {
					logg.Warn(logg.WithFields(ctx, map[string]any{
						"scope": scope,
						"limit": state.Limit,
					}), "rate limit exceeded")
				}
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
