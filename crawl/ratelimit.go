package crawl

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/websearch"
	"golang.org/x/time/rate"
)

// DefaultRequestsPerSecond is the per-host crawl rate used when none is
// configured. Result pages come from arbitrary third-party sites, so the
// default is deliberately polite.
const DefaultRequestsPerSecond = 1.0

var _ websearch.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter throttles crawling per host with one token bucket per
// host and a burst of 1, so requests to the same site are spaced out
// while different sites proceed independently. Hosts are compared
// case-insensitively and without the port.
type DomainLimiter struct {
	rps float64

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewDomainLimiter returns a DomainLimiter allowing rps requests per
// second to each host. Non-positive rps falls back to
// DefaultRequestsPerSecond.
func NewDomainLimiter(rps float64) *DomainLimiter {
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	return &DomainLimiter{
		rps:     rps,
		buckets: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until the host's bucket allows another request, or until
// ctx is canceled.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return d.bucket(normalizeHost(domain)).Wait(ctx)
}

func (d *DomainLimiter) bucket(host string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, ok := d.buckets[host]
	if !ok {
		b = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.buckets[host] = b
	}
	return b
}

// normalizeHost lower-cases the host and drops any port so
// "Example.com:8080" and "example.com" share a bucket.
func normalizeHost(domain string) string {
	host := strings.ToLower(domain)
	if i := strings.LastIndex(host, ":"); i >= 0 && allDigits(host[i+1:]) {
		host = host[:i]
	}
	return host
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
