// Package ratelimit counts attempts per key in fixed windows, in memory or
// in Redis when several portal instances share the limit.
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

type bucket struct {
	count     int
	windowEnd time.Time
}

// MemoryLimiter allows limit attempts per key in each window.
type MemoryLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) bool {
	if key == "" || l.limit <= 0 || l.window <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	b, ok := l.buckets[key]
	if !ok || now.After(b.windowEnd) {
		l.sweep(now)
		l.buckets[key] = &bucket{count: 1, windowEnd: now.Add(l.window)}
		return true
	}
	if b.count >= l.limit {
		return false
	}
	b.count++
	return true
}

// sweep drops expired buckets; callers hold mu.
func (l *MemoryLimiter) sweep(now time.Time) {
	for k, b := range l.buckets {
		if now.After(b.windowEnd) {
			delete(l.buckets, k)
		}
	}
}

const redisScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

const redisTimeout = 250 * time.Millisecond

// RedisLimiter shares the attempt counters between instances. Redis errors
// let the attempt through.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
	prefix string
	limit  int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(redisScript),
		prefix: "medhire:ratelimit:",
		limit:  limit,
		window: window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil || key == "" || l.limit <= 0 || l.window <= 0 {
		return true
	}
	ttl := l.window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{l.prefix + key}, ttl, l.limit).Int64()
	if err != nil {
		return true
	}
	return allowed == 1
}

// New returns a Redis backed limiter when redisURL is set, an in-memory one
// otherwise. The returned close func releases the Redis connection.
func New(redisURL string, limit int, window time.Duration) (Limiter, func() error, error) {
	if strings.TrimSpace(redisURL) == "" {
		return NewMemoryLimiter(limit, window), func() error { return nil }, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to parse REDIS_URL")
	}
	client := redis.NewClient(opts)
	return NewRedisLimiter(client, limit, window), client.Close, nil
}

// ClientIP is the address the limiter keys on. X-Forwarded-For is only
// believed when the peer is a trusted proxy; the hops are then walked from
// the right and the first one not in trusted is the client.
func ClientIP(r *http.Request, trusted []netip.Prefix) string {
	client := remoteHost(r.RemoteAddr)
	if !isTrusted(client, trusted) {
		return client
	}
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		client = hop
		if !isTrusted(hop, trusted) {
			break
		}
	}
	return client
}

func remoteHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

func isTrusted(ip string, trusted []netip.Prefix) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
