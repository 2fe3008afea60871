package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolDrawsFromConfiguredAgents(t *testing.T) {
	agents := []string{"agent-a", "agent-b"}
	p := NewPool(agents)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		ua := p.UserAgent()
		require.Contains(t, agents, ua)
		seen[ua] = true
	}
	require.Len(t, seen, 2, "both agents should appear over 100 draws")
}

func TestPoolFallsBackToBuiltins(t *testing.T) {
	p := NewPool(nil)
	ua := p.UserAgent()
	require.True(t, strings.HasPrefix(ua, "Mozilla/5.0"))
}

func TestStatic(t *testing.T) {
	s := Static{Agent: "test-agent"}
	require.Equal(t, "test-agent", s.UserAgent())
	require.Equal(t, "test-agent", s.UserAgent())
}
