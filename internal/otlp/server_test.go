package otlp

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"github.com/Oloruntobi1/flametop/internal/ingest"
)

func startServer(t *testing.T) (*ingest.Queue, *Client) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	lis := bufconn.Listen(1 << 20)
	queue := ingest.NewQueue()
	srv := NewServer(queue, logger)

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() { errs <- srv.Serve(ctx, lis) }()

	client, err := NewClient("passthrough:///bufnet", true,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		cancel()
		select {
		case err := <-errs:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})
	return queue, client
}

func nextEvent(t *testing.T, q *ingest.Queue) ingest.Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ev, err := q.Next(ctx)
	require.NoError(t, err)
	return ev
}

func TestServerExport(t *testing.T) {
	queue, client := startServer(t)

	require.NoError(t, client.Export(context.Background(), workerRequest()))

	ev := nextEvent(t, queue)
	assert.Equal(t, ingest.SourceOTLP, ev.Source)
	assert.EqualValues(t, 1, ev.Samples)
	require.Len(t, ev.Fragment.Root.Children, 1)
	thread := ev.Fragment.Root.Children[0]
	assert.Equal(t, "worker-1", thread.Name)
	assert.EqualValues(t, 10, thread.Total)
	assert.Equal(t, "main", thread.Children[0].Name)
	assert.Equal(t, "do_work", thread.Children[0].Children[0].Name)
}

func TestServerOneEventPerRequest(t *testing.T) {
	queue, client := startServer(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, client.Export(context.Background(), workerRequest()))
	}
	for i := 0; i < 3; i++ {
		assert.EqualValues(t, 1, nextEvent(t, queue).Samples)
	}
	assert.Zero(t, queue.Len())
}

func TestServerAcceptsMalformedPayload(t *testing.T) {
	queue, client := startServer(t)

	var resp rawMessage
	err := client.conn.Invoke(context.Background(), exportMethod, rawMessage{0xff, 0xff}, &resp, client.opts...)
	require.NoError(t, err)
	assert.Empty(t, resp)

	ev := nextEvent(t, queue)
	assert.Zero(t, ev.Samples)
	assert.Zero(t, ev.Fragment.Root.Total)
}
