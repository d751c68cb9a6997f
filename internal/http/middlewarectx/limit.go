package middlewarectx

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/commission-ledger/internal/http/response"
)

const (
	limiterIdleTTL       = 10 * time.Minute
	limiterSweepInterval = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitors хранит лимитеры по адресам. Простаивающие записи удаляются
// не чаще раза в limiterSweepInterval.
type visitors struct {
	mu        sync.Mutex
	byAddr    map[string]*visitor
	rps       rate.Limit
	burst     int
	lastSweep time.Time
}

func newVisitors(rps float64, burst int) *visitors {
	return &visitors{
		byAddr: make(map[string]*visitor),
		rps:    rate.Limit(rps),
		burst:  burst,
	}
}

func (vs *visitors) allow(addr string, now time.Time) bool {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if now.Sub(vs.lastSweep) >= limiterSweepInterval {
		for k, v := range vs.byAddr {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(vs.byAddr, k)
			}
		}
		vs.lastSweep = now
	}

	v, ok := vs.byAddr[addr]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(vs.rps, vs.burst)}
		vs.byAddr[addr] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (vs *visitors) len() int {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return len(vs.byAddr)
}

// RateLimitMiddleware ограничивает частоту запросов с одного адреса.
// Адрес берётся из r.RemoteAddr, поэтому middleware.RealIP должен стоять раньше.
func RateLimitMiddleware(log *slog.Logger, rps float64, burst int) func(http.Handler) http.Handler {
	limits := newVisitors(rps, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			addr := r.RemoteAddr
			if host, _, err := net.SplitHostPort(addr); err == nil {
				addr = host
			}
			if !limits.allow(addr, time.Now()) {
				log.Warn("too many requests", slog.String("remote_addr", r.RemoteAddr))
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
