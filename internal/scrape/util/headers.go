package util

import (
	"net/http"
	"sync"
)

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

const acceptLanguage = "pl-PL,pl;q=0.9,en-US;q=0.8,en;q=0.7"

// HeaderRotator hands out browser-like request headers, cycling through a
// fixed user-agent list. Each scraper owns its own rotator.
type HeaderRotator struct {
	mu     sync.Mutex
	agents []string
	next   int
}

func NewHeaderRotator(agents ...string) *HeaderRotator {
	if len(agents) == 0 {
		agents = defaultUserAgents
	}
	return &HeaderRotator{agents: agents}
}

// UserAgent returns the current agent and advances the cursor.
func (h *HeaderRotator) UserAgent() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ua := h.agents[h.next%len(h.agents)]
	h.next = (h.next + 1) % len(h.agents)
	return ua
}

// Apply sets User-Agent, Accept and Accept-Language on req.
func (h *HeaderRotator) Apply(req *http.Request, accept string) {
	if accept == "" {
		accept = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	}
	req.Header.Set("User-Agent", h.UserAgent())
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", acceptLanguage)
}
