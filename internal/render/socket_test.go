package render

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sio "github.com/zishang520/socket.io/v2/socket"

	"github.com/comalice/graphview/internal/geom"
	"github.com/comalice/graphview/internal/handle"
)

// canvasHost is a socket.io server collecting every render event it gets.
type canvasHost struct {
	url string

	mu     sync.Mutex
	events []map[string]any
}

func newCanvasHost(t *testing.T) *canvasHost {
	t.Helper()
	host := &canvasHost{}

	opts := sio.DefaultServerOptions()
	io := sio.NewServer(nil, opts)
	io.On("connection", func(clients ...any) {
		client := clients[0].(*sio.Socket)
		client.On(SocketEvent, func(args ...any) {
			if len(args) == 0 {
				return
			}
			if m, ok := args[0].(map[string]any); ok {
				host.mu.Lock()
				host.events = append(host.events, m)
				host.mu.Unlock()
			}
		})
	})

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", io.ServeHandler(opts))
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		io.Close(nil)
		srv.Close()
	})
	host.url = srv.URL
	return host
}

// find returns the first received event with the given op.
func (h *canvasHost) find(op Op) (map[string]any, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ev := range h.events {
		if ev["op"] == string(op) {
			return ev, true
		}
	}
	return nil, false
}

func TestDialSocket_NoHost(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	start := time.Now()
	_, err = DialSocket(context.Background(), SocketOptions{
		URL:     "http://" + addr,
		Timeout: 300 * time.Millisecond,
	}, slog.New(slog.DiscardHandler))
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second, "dial must give up at the timeout")
}

func TestDialSocket_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DialSocket(ctx, SocketOptions{
		URL:     "http://127.0.0.1:1",
		Timeout: time.Minute,
	}, slog.New(slog.DiscardHandler))
	assert.Error(t, err)
}

func TestSocket_EmitsTaggedCommands(t *testing.T) {
	host := newCanvasHost(t)

	var anchor int
	ids := handle.NewTable[int](nil)
	a := ids.HandleOf(&anchor)

	s, err := DialSocket(context.Background(), SocketOptions{
		URL:     host.url,
		Timeout: 5 * time.Second,
		Style:   StyleLine,
		Session: "session-1",
		Names: func(h handle.Handle) string {
			if h == a {
				return "a"
			}
			return h.String()
		},
	}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer s.Close()

	p := s.CreatePath(a)

	// the host may register its listener just after acknowledging the
	// connection, so keep painting until both commands land
	require.Eventually(t, func() bool {
		s.SetPosition(a, 10, 20)
		s.SetPathGeometry(p, geom.Pt(0, 0), geom.Pt(10, 20))
		_, pos := host.find(OpSetPosition)
		_, geo := host.find(OpSetGeometry)
		return pos && geo
	}, 5*time.Second, 50*time.Millisecond)

	pos, _ := host.find(OpSetPosition)
	assert.Equal(t, "session-1", pos["session"])
	assert.Equal(t, "a", pos["target"])
	assert.Equal(t, float64(10), pos["x"])
	assert.Equal(t, float64(20), pos["y"])

	geo, _ := host.find(OpSetGeometry)
	assert.Equal(t, "session-1", geo["session"])
	assert.Equal(t, "M0,0 L10,20", geo["d"])
	assert.Equal(t, float64(p), geo["path"])
}
