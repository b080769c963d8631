package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/comalice/graphview/internal/geom"
	"github.com/comalice/graphview/internal/handle"
)

// SocketEvent is the socket.io event name every command is emitted under.
const SocketEvent = "render"

// SocketOptions configures DialSocket.
type SocketOptions struct {
	URL       string
	Namespace string
	Timeout   time.Duration
	Style     PathStyle
	// Session tags every command so one host can serve several engines.
	Session string
	// Names labels command targets; handles mean nothing to a remote host.
	Names func(handle.Handle) string
}

// Socket streams renderer calls to a remote canvas host over socket.io.
// Calls are emitted fire-and-forget; the host owns the real path objects and
// maps the engine's path numbers onto them.
type Socket struct {
	io    *socket.Socket
	opts  SocketOptions
	log   *slog.Logger
	paths pathCounter
}

// DialSocket connects to the canvas host and waits for the connection to be
// acknowledged or for ctx/Timeout to expire.
func DialSocket(ctx context.Context, opts SocketOptions, log *slog.Logger) (*Socket, error) {
	log = log.With("component", "socket-renderer", "url", opts.URL, "namespace", opts.Namespace)

	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Namespace == "" {
		opts.Namespace = "/"
	}

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)

	sopts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		sopts.SetPath(parsedURL.Path)
	}
	sopts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, sopts)
	io := manager.Socket(opts.Namespace, sopts)

	connected := make(chan error, 1)
	io.On(types.EventName("connect"), func(...any) {
		log.Info("Connected to canvas host", "sid", io.Id())
		select {
		case connected <- nil:
		default:
		}
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connected <- err:
		default:
		}
	})

	io.Connect()

	dialCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	select {
	case <-dialCtx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("timed out while waiting for canvas host connection: %w", dialCtx.Err())
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("connect %s: %w", opts.URL, err)
		}
	}

	return &Socket{io: io, opts: opts, log: log}, nil
}

func (s *Socket) emit(cmd Command) {
	cmd.Session = s.opts.Session
	if s.opts.Names != nil && !cmd.Handle.IsNil() {
		cmd.Target = s.opts.Names(cmd.Handle)
	}
	s.io.Emit(SocketEvent, cmd)
}

func (s *Socket) CreatePath(edge handle.Handle) PathHandle {
	p := s.paths.issue()
	s.emit(Command{Op: OpCreatePath, Handle: edge, Path: p})
	return p
}

func (s *Socket) RemovePath(p PathHandle) {
	s.emit(Command{Op: OpRemovePath, Path: p})
}

func (s *Socket) SetPosition(h handle.Handle, x, y float64) {
	s.emit(Command{Op: OpSetPosition, Handle: h, X: x, Y: y})
}

func (s *Socket) SetPathGeometry(p PathHandle, from, to geom.Point) {
	s.emit(Command{Op: OpSetGeometry, Path: p, From: from, To: to, D: s.opts.Style.Format(from, to)})
}

func (s *Socket) SetMarker(h handle.Handle, marker string, on bool) {
	s.emit(Command{Op: OpSetMarker, Handle: h, Marker: marker, On: on})
}

// Close disconnects from the canvas host.
func (s *Socket) Close() error {
	s.log.Debug("Disconnecting socket renderer")
	s.io.Disconnect()
	return nil
}
