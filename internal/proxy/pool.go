package proxy

import (
	"sync"
	"time"
)

// cooldown is how long a proxy sits out after a failed fetch.
const cooldown = 5 * time.Minute

// Pool rotates through configured outbound proxies and tracks recent
// failures so blocked or dead proxies are skipped for a while. HTTP
// strategies pick a proxy per attempt; an empty pool means direct egress.
type Pool struct {
	proxies []string
	index   int
	mu      sync.Mutex
	failed  map[string]time.Time
}

// NewPool creates a Pool over the given proxy URLs. The list may be empty.
func NewPool(proxies []string) *Pool {
	return &Pool{
		proxies: append([]string(nil), proxies...),
		failed:  make(map[string]time.Time),
	}
}

// Next returns the next healthy proxy, or "" when none are configured.
func (p *Pool) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.proxies) == 0 {
		return ""
	}

	start := p.index
	for {
		candidate := p.proxies[p.index]
		p.index = (p.index + 1) % len(p.proxies)

		if failTime, ok := p.failed[candidate]; ok {
			if time.Since(failTime) < cooldown {
				if p.index == start {
					// Every proxy is cooling down; hand out the
					// current one rather than stalling.
					return candidate
				}
				continue
			}
			delete(p.failed, candidate)
		}
		return candidate
	}
}

// MarkFailed benches a proxy for the cooldown period.
func (p *Pool) MarkFailed(proxy string) {
	if proxy == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed[proxy] = time.Now()
}

// MarkHealthy clears the failure status of a proxy.
func (p *Pool) MarkHealthy(proxy string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failed, proxy)
}
