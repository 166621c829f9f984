package middleware

import (
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"keywarden/internal/logs"
	"keywarden/internal/models"
)

// RateLimit — токен-бакет на клиентский IP. rps<=0 выключает лимитер.
// Карта лимитеров живёт всё время работы процесса; для защиты
// /validate_license от перебора ключей этого достаточно.
func RateLimit(rps float64, burst int) mux.MiddlewareFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)
	perIP := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[ip]
		if !ok {
			l = rate.NewLimiter(rate.Limit(rps), burst)
			limiters[ip] = l
		}
		return l
	}

	return func(next http.Handler) http.Handler {
		if rps <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			if !perIP(ip).Allow() {
				logs.Logger.Warnf("rate limit exceeded: ip=%s uri=%s", ip, r.RequestURI)
				models.WriteJSON(w, http.StatusTooManyRequests, map[string]any{
					"success": false,
					"message": "Too many requests.",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
