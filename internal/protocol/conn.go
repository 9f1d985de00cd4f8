package protocol

import (
	"context"
	"strings"

	"github.com/llehouerou/duoplay/internal/transport"
)

// Conn sends and receives messages over a key/value channel.
type Conn struct {
	ch transport.Channel
}

// NewConn wraps ch.
func NewConn(ch transport.Channel) *Conn {
	return &Conn{ch: ch}
}

// Send encodes m and sends it as a single-pair value set.
func (c *Conn) Send(m Message) error {
	key, value := Encode(m)
	return c.ch.Send(transport.ValueSet{key: value})
}

// Receive waits for the next message. A malformed delivery returns a
// *DecodeError; the connection stays usable and the caller should keep
// receiving. Any other error comes from the channel.
func (c *Conn) Receive(ctx context.Context) (Message, error) {
	v, err := c.ch.Receive(ctx)
	if err != nil {
		return nil, err
	}
	if len(v) != 1 {
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		return nil, decodeErr(strings.Join(keys, ","), "expected exactly one key, got %d", len(v))
	}
	for key, value := range v {
		return Decode(key, value)
	}
	return nil, nil
}

// Close closes the underlying channel.
func (c *Conn) Close() error {
	return c.ch.Close()
}
