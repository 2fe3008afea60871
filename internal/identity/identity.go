// Package identity supplies per-request client identity strings.
package identity

import "math/rand/v2"

// defaultAgents is a rotation of common desktop browser identities.
var defaultAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36 Edg/123.0.2420.81",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
}

// Pool picks a random identity per request.
type Pool struct {
	agents []string
}

// NewPool builds a Pool from the given agents, falling back to the built-in
// rotation when none are configured.
func NewPool(agents []string) *Pool {
	if len(agents) == 0 {
		agents = defaultAgents
	}
	return &Pool{agents: agents}
}

// UserAgent returns a randomly selected identity string.
func (p *Pool) UserAgent() string {
	return p.agents[rand.IntN(len(p.agents))]
}

// Static always returns the same identity string. Tests inject it to make
// request headers deterministic.
type Static struct {
	Agent string
}

// UserAgent returns the fixed identity string.
func (s Static) UserAgent() string {
	return s.Agent
}
