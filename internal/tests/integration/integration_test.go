package integration

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/noxmake/go-fsfetch"
	"github.com/stretchr/testify/require"
)

// listenLocal opens a listener on a free loopback port, for servers run
// in-process. It's closed when the test ends.
func listenLocal(t *testing.T) net.Listener {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	t.Cleanup(func() { _ = l.Close() })

	return l
}

// freeAddr finds a loopback port for a server run as a separate process, which
// must bind it itself. The port may be taken again in the meantime.
func freeAddr(t *testing.T) (port int, addr string) {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	a := l.Addr().(*net.TCPAddr)
	require.NoError(t, l.Close())

	return a.Port, a.String()
}

// waitForResource fetches rawURL with c until it resolves, or ctx is done.
// Servers are ready when they can serve a real resource, not just accept
// connections.
func waitForResource(ctx context.Context, t *testing.T, c *fsfetch.Client, rawURL string) error {
	t.Helper()

	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()

	for {
		resp, err := c.Get(ctx, rawURL, nil)
		if err != nil {
			return err
		}

		if resp.OK() {
			return nil
		}

		t.Logf("waiting for %s: status %d (%v)", rawURL, resp.StatusCode, resp.Err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s never became available: %w", rawURL, ctx.Err())
		case <-tick.C:
		}
	}
}
