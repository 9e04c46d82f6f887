package otlp

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding/gzip"
)

// Client exports profiles to a ProfilesService.
type Client struct {
	conn *grpc.ClientConn
	opts []grpc.CallOption
}

// NewClient creates a plaintext client for target. No connection is made
// until the first Export.
func NewClient(target string, compress bool, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}
	c := &Client{conn: conn, opts: []grpc.CallOption{grpc.ForceCodec(rawCodec{})}}
	if compress {
		c.opts = append(c.opts, grpc.UseCompressor(gzip.Name))
	}
	return c, nil
}

// Export encodes and sends req.
func (c *Client) Export(ctx context.Context, req *ExportRequest) error {
	payload, err := EncodeExportRequest(req)
	if err != nil {
		return err
	}
	var resp rawMessage
	if err := c.conn.Invoke(ctx, exportMethod, rawMessage(payload), &resp, c.opts...); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
