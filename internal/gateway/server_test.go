package gateway

import (
	"testing"

	"github.com/nextlevelbuilder/bountyclaw/internal/config"
)

// Hot reload rewrites the rate limits while surfaces keep connecting; both
// sides must go through the server lock.
func TestUpdateConfig_ConcurrentWithNewClients(t *testing.T) {
	server := NewServer(config.Default(), nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			next := config.Default()
			next.Gateway.RateLimitRPM = 60 + i
			next.Gateway.RateLimitBurst = 10 + i%5
			server.UpdateConfig(next)
		}
	}()

	for i := 0; i < 500; i++ {
		c := newClient(nil, server)
		if c.limiter == nil {
			t.Fatal("client created without a limiter")
		}
	}
	<-done
}

func TestUpdateConfig_AppliesToNewClients(t *testing.T) {
	server := NewServer(config.Default(), nil)

	next := config.Default()
	next.Gateway.RateLimitRPM = 240
	next.Gateway.RateLimitBurst = 7
	server.UpdateConfig(next)

	rpm, burst := server.rateLimits()
	if rpm != 240 || burst != 7 {
		t.Errorf("rateLimits() = (%d, %d), want (240, 7)", rpm, burst)
	}
}
