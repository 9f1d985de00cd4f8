package transport

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, c Channel) ValueSet {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	v, err := c.Receive(ctx)
	require.NoError(t, err)
	return v
}

func TestPipe_PreservesOrder(t *testing.T) {
	a, b := Pipe()
	defer a.Close()

	for _, v := range []string{"one", "two", "three"} {
		require.NoError(t, a.Send(ValueSet{"Message": v}))
	}

	assert.Equal(t, ValueSet{"Message": "one"}, receive(t, b))
	assert.Equal(t, ValueSet{"Message": "two"}, receive(t, b))
	assert.Equal(t, ValueSet{"Message": "three"}, receive(t, b))
}

func TestPipe_Bidirectional(t *testing.T) {
	a, b := Pipe()
	defer a.Close()

	require.NoError(t, a.Send(ValueSet{"k": "from a"}))
	require.NoError(t, b.Send(ValueSet{"k": "from b"}))

	assert.Equal(t, "from b", receive(t, a)["k"])
	assert.Equal(t, "from a", receive(t, b)["k"])
}

func TestPipe_SendCopiesValue(t *testing.T) {
	a, b := Pipe()
	defer a.Close()

	v := ValueSet{"k": "original"}
	require.NoError(t, a.Send(v))
	v["k"] = "changed"

	assert.Equal(t, "original", receive(t, b)["k"])
}

func TestPipe_CloseDrainsThenFails(t *testing.T) {
	a, b := Pipe()
	require.NoError(t, a.Send(ValueSet{"k": "v"}))
	require.NoError(t, b.Close())

	assert.ErrorIs(t, a.Send(ValueSet{"k": "late"}), ErrClosed)
	assert.Equal(t, "v", receive(t, b)["k"])

	_, err := b.Receive(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestPipe_ReceiveHonorsContext(t *testing.T) {
	a, b := Pipe()
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := b.Receive(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSocket_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duoplay.sock")
	ln, err := Listen(path)
	require.NoError(t, err)
	defer ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conns := make(chan Channel, 1)
	served := make(chan error, 1)
	go func() { served <- ln.Serve(ctx, conns) }()

	client, err := Dial(ctx, path)
	require.NoError(t, err)
	defer client.Close()
	assert.NotEmpty(t, client.ID())

	var server Channel
	select {
	case server = <-conns:
	case <-time.After(2 * time.Second):
		t.Fatal("no connection accepted")
	}
	defer server.Close()

	require.NoError(t, client.Send(ValueSet{"Playlist": "Drive\n/a.mp3\n"}))
	assert.Equal(t, ValueSet{"Playlist": "Drive\n/a.mp3\n"}, receive(t, server))

	require.NoError(t, server.Send(ValueSet{"Message": "Play"}))
	assert.Equal(t, ValueSet{"Message": "Play"}, receive(t, client))

	cancel()
	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not stop")
	}
}

func TestSocket_PeerCloseEndsReceive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duoplay.sock")
	ln, err := Listen(path)
	require.NoError(t, err)
	defer ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conns := make(chan Channel, 1)
	go func() { _ = ln.Serve(ctx, conns) }()

	client, err := Dial(ctx, path)
	require.NoError(t, err)
	server := <-conns

	require.NoError(t, client.Close())

	rctx, rcancel := context.WithTimeout(ctx, 2*time.Second)
	defer rcancel()
	_, err = server.Receive(rctx)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSocket_ValuesKeepRawBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duoplay.sock")
	ln, err := Listen(path)
	require.NoError(t, err)
	defer ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conns := make(chan Channel, 1)
	go func() { _ = ln.Serve(ctx, conns) }()

	client, err := Dial(ctx, path)
	require.NoError(t, err)
	defer client.Close()
	server := <-conns
	defer server.Close()

	latin1 := ValueSet{"MediaPlaybackItem": "/music/caf\xe9.mp3", "Empty": ""}
	require.NoError(t, server.Send(latin1))
	assert.Equal(t, latin1, receive(t, client))

	back := ValueSet{"AddToPlaylist": "Drive\n/music/\xff\xfe.flac\n"}
	require.NoError(t, client.Send(back))
	assert.Equal(t, back, receive(t, server))
}
