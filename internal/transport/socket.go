package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"

	"github.com/google/uuid"
)

// Conn is a channel over a stream socket. Each value set travels as one
// JSON object whose values are base64 strings, so values that are not
// valid UTF-8, such as raw file paths, arrive byte for byte.
type Conn struct {
	id   string
	conn net.Conn

	sendMu sync.Mutex
	enc    *json.Encoder

	in        *inbox
	done      chan struct{}
	closeOnce sync.Once
}

var _ Channel = (*Conn)(nil)

// NewConn wraps an established connection and starts reading from it.
func NewConn(c net.Conn) *Conn {
	conn := &Conn{
		id:   uuid.NewString(),
		conn: c,
		enc:  json.NewEncoder(c),
		in:   newInbox(),
		done: make(chan struct{}),
	}
	go conn.readLoop()
	return conn
}

// ID identifies the connection in logs.
func (c *Conn) ID() string {
	return c.id
}

func (c *Conn) readLoop() {
	defer c.Close() //nolint:errcheck // peer hung up

	dec := json.NewDecoder(c.conn)
	for {
		var w wireSet
		if err := dec.Decode(&w); err != nil {
			return
		}
		c.in.push(w.values())
	}
}

// Send writes v to the socket.
func (c *Conn) Send(v ValueSet) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if err := c.enc.Encode(toWire(v)); err != nil {
		if errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
			return ErrClosed
		}
		return fmt.Errorf("send on %s: %w", c.id, err)
	}
	return nil
}

// wireSet is the encoded form of a ValueSet. encoding/json writes []byte
// as base64 and would replace invalid UTF-8 in a string.
type wireSet map[string][]byte

func toWire(v ValueSet) wireSet {
	w := make(wireSet, len(v))
	for k, s := range v {
		w[k] = []byte(s)
	}
	return w
}

func (w wireSet) values() ValueSet {
	v := make(ValueSet, len(w))
	for k, b := range w {
		v[k] = string(b)
	}
	return v
}

// Receive returns the next value set read from the socket.
func (c *Conn) Receive(ctx context.Context) (ValueSet, error) {
	return c.in.wait(ctx, c.done)
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

// Listener accepts foreground connections on a unix socket.
type Listener struct {
	ln   net.Listener
	path string
}

// Listen removes a stale socket file at path and starts listening.
func Listen(path string) (*Listener, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	return &Listener{ln: ln, path: path}, nil
}

// Addr returns the socket path.
func (l *Listener) Addr() string {
	return l.path
}

// Serve accepts connections and delivers them on out until ctx ends.
// It closes out and the listener before returning.
func (l *Listener) Serve(ctx context.Context, out chan<- Channel) error {
	defer close(out)
	stop := context.AfterFunc(ctx, func() { _ = l.ln.Close() })
	defer stop()

	for {
		c, err := l.ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case out <- NewConn(c):
		case <-ctx.Done():
			_ = c.Close()
			return nil
		}
	}
}

// Close stops listening and removes the socket file.
func (l *Listener) Close() error {
	err := l.ln.Close()
	if errors.Is(err, net.ErrClosed) {
		err = nil
	}
	_ = os.Remove(l.path)
	return err
}

// Dial connects to a background owner listening at path.
func Dial(ctx context.Context, path string) (*Conn, error) {
	var d net.Dialer
	c, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, err
	}
	return NewConn(c), nil
}
