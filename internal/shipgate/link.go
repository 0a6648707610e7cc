package shipgate

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"
)

// Config holds what the Link needs to dial and authenticate to the
// shipgate.
type Config struct {
	Address        string
	TLSConfig      *tls.Config
	ShipName       string
	MenuCode       string
	ReconnectFloor time.Duration // minimum back-off between attempts, ~10s
	ReconnectCap   time.Duration // maximum back-off
}

// pendingRequest is one in-flight request awaiting its correlated
// response (matched by Type with the SHDR_RESPONSE bit set).
type pendingRequest struct {
	ch chan Frame
}

// Link is the ship's persistent outbound connection to the shipgate: a
// TLS session, a reconnect loop with exponential back-off, and a
// request/response correlation table keyed by message type. The ship
// initiates the connection; the shipgate never dials in.
type Link struct {
	cfg Config

	mu      sync.Mutex
	conn    net.Conn
	framer  Framer
	pending map[uint16]*pendingRequest

	onMessage func(Frame)

	closed chan struct{}
}

// New creates a Link that is not yet connected. Call Run to start the
// dial-and-reconnect loop.
func New(cfg Config, onMessage func(Frame)) *Link {
	if cfg.ReconnectFloor <= 0 {
		cfg.ReconnectFloor = 10 * time.Second
	}
	if cfg.ReconnectCap <= 0 {
		cfg.ReconnectCap = 5 * time.Minute
	}
	return &Link{
		cfg:       cfg,
		pending:   make(map[uint16]*pendingRequest),
		onMessage: onMessage,
		closed:    make(chan struct{}),
	}
}

// Run dials the shipgate and services the connection, reconnecting with
// exponential back-off (floored and capped per Config) whenever the
// connection drops, until ctx is cancelled or Close is called.
func (l *Link) Run(ctx context.Context) error {
	backoff := l.cfg.ReconnectFloor
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.closed:
			return nil
		default:
		}

		if err := l.connectAndServe(ctx); err != nil {
			slog.Warn("shipgate link dropped", "error", err, "retry_in", backoff)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.closed:
			return nil
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > l.cfg.ReconnectCap {
			backoff = l.cfg.ReconnectCap
		}
	}
}

func (l *Link) connectAndServe(ctx context.Context) error {
	dialer := &tls.Dialer{Config: l.cfg.TLSConfig}
	conn, err := dialer.DialContext(ctx, "tcp", l.cfg.Address)
	if err != nil {
		return fmt.Errorf("shipgate: dial: %w", err)
	}
	defer conn.Close()

	l.mu.Lock()
	l.conn = conn
	l.framer = Framer{}
	l.mu.Unlock()

	if err := l.handshake(); err != nil {
		return fmt.Errorf("shipgate: handshake: %w", err)
	}

	return l.readLoop(conn)
}

func (l *Link) handshake() error {
	body := make([]byte, 0, 64)
	body = append(body, []byte(l.cfg.ShipName)...)
	body = append(body, 0)
	body = append(body, []byte(l.cfg.MenuCode)...)
	return l.writeFrame(TypeLogin, 0, body)
}

func (l *Link) readLoop(conn net.Conn) error {
	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return err
		}
		l.mu.Lock()
		frames, ferr := l.framer.Feed(buf[:n])
		l.mu.Unlock()
		if ferr != nil {
			return ferr
		}
		for _, f := range frames {
			l.dispatch(f)
		}
	}
}

// dispatch routes a received frame either to a waiting Request caller
// (response bit set and a correlation entry exists) or to the general
// message handler (heartbeats, forwarded traffic, pushed state).
func (l *Link) dispatch(f Frame) {
	if Flags(f.Header.Flags).Has(FlagResponse) {
		l.mu.Lock()
		pr, ok := l.pending[f.Header.Type&^uint16(FlagResponse)]
		if ok {
			delete(l.pending, f.Header.Type&^uint16(FlagResponse))
		}
		l.mu.Unlock()
		if ok {
			pr.ch <- f
			return
		}
	}
	if l.onMessage != nil {
		l.onMessage(f)
	}
}

// writeFrame encodes and writes one frame to the current connection.
func (l *Link) writeFrame(pktType uint16, flags Flags, body []byte) error {
	l.mu.Lock()
	conn := l.conn
	l.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("shipgate: not connected")
	}
	_, err := conn.Write(Encode(pktType, flags, body))
	return err
}

// Request sends a message and blocks for its correlated response
// (SHDR_RESPONSE set on the same type).
func (l *Link) Request(ctx context.Context, pktType uint16, body []byte) (Frame, error) {
	pr := &pendingRequest{ch: make(chan Frame, 1)}

	l.mu.Lock()
	l.pending[pktType] = pr
	l.mu.Unlock()

	if err := l.writeFrame(pktType, 0, body); err != nil {
		l.mu.Lock()
		delete(l.pending, pktType)
		l.mu.Unlock()
		return Frame{}, err
	}

	select {
	case f := <-pr.ch:
		if Flags(f.Header.Flags).Has(FlagFailure) {
			return f, fmt.Errorf("shipgate: request type 0x%04X failed", pktType)
		}
		return f, nil
	case <-ctx.Done():
		l.mu.Lock()
		delete(l.pending, pktType)
		l.mu.Unlock()
		return Frame{}, ctx.Err()
	}
}

// Send writes a fire-and-forget message (heartbeats, notifications) with
// no response correlation.
func (l *Link) Send(pktType uint16, body []byte) error {
	return l.writeFrame(pktType, 0, body)
}

// Close stops the reconnect loop and closes the current connection, if
// any.
func (l *Link) Close() error {
	select {
	case <-l.closed:
	default:
		close(l.closed)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn != nil {
		return l.conn.Close()
	}
	return nil
}
