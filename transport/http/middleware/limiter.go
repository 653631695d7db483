package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"campus/shared"
	"campus/shared/cache"
	"campus/shared/constant"
	"campus/transport/http/response"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyRateLimit = "limiter"
	headerRetryAfter  = "Retry-After"
	unknownUserAgent  = "unknown"
)

// RateLimit counts requests per client and user agent in a fixed window. Cache outages
// let traffic through.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := a.config.App.RateLimiter
			if !limiter.Enable {
				next.ServeHTTP(w, r)

				return
			}

			key := shared.BuildCacheKey(cacheKeyRateLimit, clientIP(r), userAgent(r))

			count, counted := a.hit(r.Context(), key, limiter.MaxRequests, limiter.WindowSeconds)
			if !counted {
				next.ServeHTTP(w, r)

				return
			}

			if count > limiter.MaxRequests {
				w.Header().Set(headerRetryAfter, strconv.Itoa(limiter.WindowSeconds))
				response.WithRequestLimitExceeded(w)

				return
			}

			w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(limiter.MaxRequests))
			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(limiter.MaxRequests-count))
			w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limiter.WindowSeconds))

			next.ServeHTTP(w, r)
		})
	}
}

// hit returns the request number within the current window. A rejected request is not
// written back so the window expires on schedule.
func (a *appMiddleware) hit(ctx context.Context, key string, limit, windowSecs int) (int, bool) {
	var count int

	err := a.cache.Get(ctx, key, &count)
	switch {
	case errors.Is(err, cache.Nil):
		count = 0
	case err != nil:
		log.Warn().Err(err).Str("key", key).Msg("Rate limiter could not read counter")

		return 0, false
	}

	count++
	if count > limit {
		return count, true
	}

	if err := a.cache.Save(ctx, key, count, windowSecs); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Rate limiter could not persist counter")

		return 0, false
	}

	return count, true
}

func userAgent(r *http.Request) string {
	if ua := r.Header.Get(constant.RequestHeaderUserAgent); ua != "" {
		return ua
	}

	return unknownUserAgent
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get(constant.RequestHeaderForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")

		return strings.TrimSpace(first)
	}

	if realIP := r.Header.Get(constant.RequestHeaderRealIP); realIP != "" {
		return strings.TrimSpace(realIP)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}

	return r.RemoteAddr
}
